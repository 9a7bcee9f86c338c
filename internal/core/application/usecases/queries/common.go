package queries

import (
	"context"
	"errors"
	"strings"

	"driverdesk/internal/pkg/errs"

	"gorm.io/gorm"
)

// ViewCache memoizes per-driver read views until the driver's next mutation.
type ViewCache interface {
	GetOrLoad(ctx context.Context, driverID, view string, load func(context.Context) (any, error)) (any, error)
}

// cached goes through cache when there is one.
func cached[T any](ctx context.Context, cache ViewCache, driverID, view string, load func(context.Context) (T, error)) (T, error) {
	if cache == nil {
		return load(ctx)
	}
	v, err := cache.GetOrLoad(ctx, driverID, view, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// requireDriver returns ObjectNotFoundError for an unknown driver.
func requireDriver(ctx context.Context, db *gorm.DB, driverID string) error {
	var exists bool
	err := db.WithContext(ctx).Raw(`SELECT EXISTS (SELECT 1 FROM drivers WHERE id = ?)`, driverID).Scan(&exists).Error
	if err != nil {
		return err
	}
	if !exists {
		return errs.NewObjectNotFoundError("driver", driverID)
	}
	return nil
}

func validateDriverID(driverID string) (string, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return "", errs.NewValueIsRequiredError("driver")
	}
	return driverID, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
