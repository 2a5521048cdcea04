package occupancy

import (
	"context"
	"fmt"
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// coordinator runs units of work under ordered locks and a transaction,
// then publishes the events collected from the touched aggregates.
type coordinator struct {
	txScope        TransactionScope
	locker         Locker
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

func newCoordinator(txScope TransactionScope, locker Locker, logger *zap.Logger) coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return coordinator{
		txScope: txScope,
		locker:  locker,
		logger:  logger,
		now:     time.Now,
	}
}

// run holds keys for the duration of a single transaction
func (c *coordinator) run(ctx context.Context, keys []string, fn func(repos TransactionalRepositories) error) error {
	release, err := c.locker.Lock(ctx, keys...)
	if err != nil {
		return fmt.Errorf("acquire occupancy locks: %w", err)
	}
	defer release()

	return c.txScope.Execute(ctx, fn)
}

// publish sends and clears the pending events of the given aggregates.
// Publishing happens after commit; a delivery failure does not undo the
// committed change and is only logged.
func (c *coordinator) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, a := range aggregates {
		if a == nil {
			continue
		}
		events = append(events, a.GetDomainEvents()...)
		a.ClearDomainEvents()
	}
	if c.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := c.eventPublisher.Publish(ctx, events...); err != nil {
		c.logger.Warn("Failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}
