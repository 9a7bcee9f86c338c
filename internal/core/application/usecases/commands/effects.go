package commands

import (
	"context"
	"errors"

	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/errs"
)

// Effects carries the side effects a mutating handler triggers after commit.
type Effects struct {
	publisher   ports.EventPublisher
	invalidator ports.ViewInvalidator
	metrics     ports.Metrics
}

func NewEffects(publisher ports.EventPublisher, invalidator ports.ViewInvalidator, metrics ports.Metrics) Effects {
	return Effects{
		publisher:   publisher,
		invalidator: invalidator,
		metrics:     metrics,
	}
}

// driverChanged drops the cached views of driverID and broadcasts events.
func (e Effects) driverChanged(ctx context.Context, driverID string, events ...ports.Event) {
	e.invalidator.InvalidateDriver(driverID)
	if len(events) > 0 {
		e.publisher.Publish(ctx, events...)
	}
}

// requireDriver returns ObjectNotFoundError for an unprovisioned driver.
func requireDriver(ctx context.Context, drivers ports.DriverRepository, driverID string) error {
	ok, err := drivers.Exists(ctx, driverID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewObjectNotFoundError("driver", driverID)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound)
}
