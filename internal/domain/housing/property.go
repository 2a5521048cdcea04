package housing

import (
	"strings"
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
)

// Property is a building that owns rooms
type Property struct {
	shared.BaseAggregateRoot
	Name    string
	Address string
}

// NewProperty creates a new property
func NewProperty(name, address string, at time.Time) (*Property, error) {
	p := &Property{BaseAggregateRoot: shared.NewBaseAggregateRoot(at)}
	if err := p.apply(name, address); err != nil {
		return nil, err
	}
	p.AddDomainEvent(NewPropertyCreatedEvent(p))
	return p, nil
}

// Update changes the property's name and address
func (p *Property) Update(name, address string, at time.Time) error {
	if err := p.apply(name, address); err != nil {
		return err
	}
	p.Touch(at)
	p.IncrementVersion()
	return nil
}

func (p *Property) apply(name, address string) error {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return ErrInvalidProperty.WithMessage("Property name cannot be empty")
	}
	if len(name) > 200 {
		return ErrInvalidProperty.WithMessage("Property name cannot exceed 200 characters")
	}
	p.Name = name
	p.Address = address
	return nil
}
