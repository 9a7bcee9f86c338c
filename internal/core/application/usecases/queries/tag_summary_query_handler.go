package queries

import (
	"context"

	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/services"

	"gorm.io/gorm"
)

type TagSummaryQueryHandler struct {
	db         *gorm.DB
	classifier services.FeeClassifier
}

func NewTagSummaryQueryHandler(db *gorm.DB, classifier services.FeeClassifier) TagSummaryQueryHandler {
	return TagSummaryQueryHandler{db: db, classifier: classifier}
}

// Handle groups in SQL by raw tags and folds the groups by primary display
// tag. Orders without a display tag are left out.
func (h TagSummaryQueryHandler) Handle(ctx context.Context, query TagSummaryQuery) (TagSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var groups []struct {
		Tags  string
		Store string
		Count int
	}
	err := h.db.WithContext(ctx).Raw(`
		SELECT tags, COALESCE(store, '') AS store, COUNT(*) AS count
		FROM orders
		WHERE delivery_status <> ? AND COALESCE(tags, '') <> ''
		GROUP BY tags, store
	`, order.Deleted.String()).Scan(&groups).Error
	if err != nil {
		return nil, err
	}

	summary := make(TagSummary)
	for _, g := range groups {
		tag := h.classifier.PrimaryDisplayTag(g.Tags)
		if tag == "" {
			continue
		}
		if summary[tag] == nil {
			summary[tag] = make(map[string]int)
		}
		summary[tag][g.Store] += g.Count
	}
	return summary, nil
}
