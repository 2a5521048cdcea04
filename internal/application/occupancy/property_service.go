package occupancy

import (
	"context"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyService manages the properties that own rooms
type PropertyService struct {
	coordinator
	propertyRepo housing.PropertyRepository
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(propertyRepo housing.PropertyRepository, txScope TransactionScope, locker Locker, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		coordinator:  newCoordinator(txScope, locker, logger),
		propertyRepo: propertyRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PropertyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new property
func (s *PropertyService) Create(ctx context.Context, req CreatePropertyRequest) (*PropertyResponse, error) {
	property, err := housing.NewProperty(req.Name, req.Address, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}
	s.publish(ctx, property)

	s.logger.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("name", property.Name),
	)
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// GetByID returns a property
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// List returns a page of properties and the total count
func (s *PropertyService) List(ctx context.Context, page, pageSize int) ([]PropertyResponse, int64, error) {
	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = normalizePaging(page, pageSize)

	properties, err := s.propertyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.propertyRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToPropertyResponse(&properties[i])
	}
	return responses, total, nil
}

// Update changes a property's name and address
func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	var property *housing.Property
	err := s.run(ctx, []string{"property:" + id.String()}, func(repos TransactionalRepositories) error {
		var err error
		property, err = repos.PropertyRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := property.Update(req.Name, req.Address, s.now()); err != nil {
			return err
		}
		return repos.PropertyRepo().Save(ctx, property)
	})
	if err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(property)
	return &resp, nil
}
