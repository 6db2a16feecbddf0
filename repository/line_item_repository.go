package repository

import (
	"context"
	"fmt"

	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/utils"
	"gorm.io/gorm"
)

// LineItemRepositoryImpl implements the LineItemRepository interface
type LineItemRepositoryImpl struct {
	*BaseRepository[models.LineItem, models.LineItemFilter]
}

// NewLineItemRepository creates a new line-item repository
func NewLineItemRepository(db *gorm.DB) LineItemRepository {
	return &LineItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.LineItem, models.LineItemFilter](db),
	}
}

// ListByRequest retrieves the line items of a request in creation order
func (r *LineItemRepositoryImpl) ListByRequest(ctx context.Context, requestID uint) ([]*models.LineItem, error) {
	filter := models.LineItemFilter{RequestID: &requestID}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// UpdateDerivedFields persists the margin, PDV and computed monetary fields
// of a line item after the finalize transition
func (r *LineItemRepositoryImpl) UpdateDerivedFields(ctx context.Context, item *models.LineItem) error {
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

	err = db.Model(&models.LineItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"margin":         item.Margin,
			"pdv":            item.PDV,
			"fee_value":      item.FeeValue,
			"cost_after_fee": item.CostAfterFee,
			"cost_plus_icui": item.CostPlusICUI,
			"tax_value":      item.TaxValue,
			"cost_plus_tax":  item.CostPlusTax,
			"final_price":    item.FinalPrice,
			"pos_price":      item.POSPrice,
			"updated_at":     utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update derived fields for line item %d: %w", item.ID, err)
	}

	return nil
}

// ByFilter retrieves line items based on filter criteria
func (r *LineItemRepositoryImpl) ByFilter(ctx context.Context, filter models.LineItemFilter, orderBy string, limit, offset int) ([]*models.LineItem, error) {
	db := r.getDB(ctx)

	var items []*models.LineItem
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

	err := query.Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Count returns the number of line items matching the filter
func (r *LineItemRepositoryImpl) Count(ctx context.Context, filter models.LineItemFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var item models.LineItem
	query := r.applyFilter(db.Model(&item), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any line item matching the filter exists
func (r *LineItemRepositoryImpl) Exists(ctx context.Context, filter models.LineItemFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *LineItemRepositoryImpl) applyFilter(db *gorm.DB, filter models.LineItemFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.RequestID != nil {
		db = db.Where("request_id = ?", *filter.RequestID)
	}
	if filter.Barcode != nil {
		db = db.Where("barcode = ?", *filter.Barcode)
	}
	if filter.ItemCode != nil {
		db = db.Where("item_code = ?", *filter.ItemCode)
	}

	return db
}
