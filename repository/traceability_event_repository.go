package repository

import (
	"context"
	"fmt"

	"github.com/surtimax/cost-approvals/models"
	"gorm.io/gorm"
)

// TraceabilityEventRepositoryImpl implements the TraceabilityEventRepository interface
type TraceabilityEventRepositoryImpl struct {
	*BaseRepository[models.TraceabilityEvent, models.TraceabilityEventFilter]
}

// NewTraceabilityEventRepository creates a new traceability event repository
func NewTraceabilityEventRepository(db *gorm.DB) TraceabilityEventRepository {
	return &TraceabilityEventRepositoryImpl{
		BaseRepository: NewBaseRepository[models.TraceabilityEvent, models.TraceabilityEventFilter](db),
	}
}

// ListByRequest retrieves the full audit trail of a request in chronological order
func (r *TraceabilityEventRepositoryImpl) ListByRequest(ctx context.Context, requestID uint) ([]*models.TraceabilityEvent, error) {
	db := r.getDB(ctx)

	var events []*models.TraceabilityEvent
	err := db.Where("request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list traceability events for request %d: %w", requestID, err)
	}

	return events, nil
}

// ByFilter retrieves traceability events based on filter criteria
func (r *TraceabilityEventRepositoryImpl) ByFilter(ctx context.Context, filter models.TraceabilityEventFilter, orderBy string, limit, offset int) ([]*models.TraceabilityEvent, error) {
	db := r.getDB(ctx)

	var events []*models.TraceabilityEvent
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

// Count returns the number of traceability events matching the filter
func (r *TraceabilityEventRepositoryImpl) Count(ctx context.Context, filter models.TraceabilityEventFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var event models.TraceabilityEvent
	query := r.applyFilter(db.Model(&event), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any traceability event matching the filter exists
func (r *TraceabilityEventRepositoryImpl) Exists(ctx context.Context, filter models.TraceabilityEventFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *TraceabilityEventRepositoryImpl) applyFilter(db *gorm.DB, filter models.TraceabilityEventFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.RequestID != nil {
		db = db.Where("request_id = ?", *filter.RequestID)
	}
	if filter.ActorID != nil {
		db = db.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.NewStatus != nil {
		db = db.Where("new_status = ?", *filter.NewStatus)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
