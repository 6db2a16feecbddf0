package repository

import (
	"context"
	"errors"
	"time"

	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/utils"
	"gorm.io/gorm"
)

// CostUpdateRequestRepositoryImpl implements the CostUpdateRequestRepository interface
type CostUpdateRequestRepositoryImpl struct {
	*BaseRepository[models.CostUpdateRequest, models.CostUpdateRequestFilter]
}

// NewCostUpdateRequestRepository creates a new cost-update request repository
func NewCostUpdateRequestRepository(db *gorm.DB) CostUpdateRequestRepository {
	return &CostUpdateRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CostUpdateRequest, models.CostUpdateRequestFilter](db),
	}
}

// ByID retrieves a request by ID with provider, buyer and line items preloaded
func (r *CostUpdateRequestRepositoryImpl) ByID(ctx context.Context, id uint) (*models.CostUpdateRequest, error) {
	db := r.getDB(ctx)

	var request models.CostUpdateRequest
	err := db.Preload("Provider").
		Preload("Buyer").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.id ASC")
		}).
		Last(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &request, nil
}

// ListByBuyer retrieves requests created for a buyer with pagination
func (r *CostUpdateRequestRepositoryImpl) ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*models.CostUpdateRequest, error) {
	filter := models.CostUpdateRequestFilter{BuyerID: &buyerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ListByStatus retrieves requests by status with pagination
func (r *CostUpdateRequestRepositoryImpl) ListByStatus(ctx context.Context, status models.CostUpdateStatus, limit, offset int) ([]*models.CostUpdateRequest, error) {
	filter := models.CostUpdateRequestFilter{Status: &status}
	return r.ByFilter(ctx, filter, "created_at ASC", limit, offset)
}

// UpdateStatus updates the status of a request and, when provided, the
// observations recorded alongside the transition
func (r *CostUpdateRequestRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.CostUpdateStatus, observations *string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	updates := map[string]any{
		"status":     status,
		"updated_at": utils.UTCNow(),
	}
	if observations != nil {
		updates["observations"] = *observations
	}

	err = db.Model(&models.CostUpdateRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return err
	}

	return nil
}

// MarkApplied records the contractual application date. The date is written
// once, at the finalize transition, and never overwritten afterwards.
func (r *CostUpdateRequestRepositoryImpl) MarkApplied(ctx context.Context, id uint, appliedDate time.Time) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.CostUpdateRequest{}).
		Where("id = ? AND applied_date IS NULL", id).
		Updates(map[string]any{
			"applied_date": appliedDate,
			"updated_at":   utils.UTCNow(),
		}).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves requests based on filter criteria
func (r *CostUpdateRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.CostUpdateRequestFilter, orderBy string, limit, offset int) ([]*models.CostUpdateRequest, error) {
	db := r.getDB(ctx)

	var requests []*models.CostUpdateRequest
	query := r.applyFilter(db, filter)

	// Apply ordering
	if orderBy != "" {
		query = query.Order(orderBy)
	}

	// Apply pagination
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	// Preload relationships
	query = query.Preload("Provider").
		Preload("Buyer")

	err := query.Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// Count returns the number of requests matching the filter
func (r *CostUpdateRequestRepositoryImpl) Count(ctx context.Context, filter models.CostUpdateRequestFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var request models.CostUpdateRequest
	query := r.applyFilter(db.Model(&request), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any request matching the filter exists
func (r *CostUpdateRequestRepositoryImpl) Exists(ctx context.Context, filter models.CostUpdateRequestFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CostUpdateRequestRepositoryImpl) applyFilter(db *gorm.DB, filter models.CostUpdateRequestFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.ProviderID != nil {
		db = db.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.BuyerID != nil {
		db = db.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.AppliedAfter != nil {
		db = db.Where("applied_date >= ?", *filter.AppliedAfter)
	}
	if filter.AppliedBefore != nil {
		db = db.Where("applied_date < ?", *filter.AppliedBefore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
