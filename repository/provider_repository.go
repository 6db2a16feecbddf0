package repository

import (
	"context"

	"github.com/surtimax/cost-approvals/models"
	"gorm.io/gorm"
)

// ProviderRepositoryImpl implements the ProviderRepository interface
type ProviderRepositoryImpl struct {
	*BaseRepository[models.Provider, models.ProviderFilter]
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &ProviderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Provider, models.ProviderFilter](db),
	}
}

// ByTaxID retrieves a provider by its tax identifier
func (r *ProviderRepositoryImpl) ByTaxID(ctx context.Context, taxID string) (*models.Provider, error) {
	filter := models.ProviderFilter{TaxID: &taxID}
	providers, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(providers) == 0 {
		return nil, nil
	}

	return providers[0], nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ProviderRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProviderFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		query = query.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.TaxID != nil {
		query = query.Where("tax_id = ?", *filter.TaxID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves providers based on filter criteria
func (r *ProviderRepositoryImpl) ByFilter(ctx context.Context, filter models.ProviderFilter, orderBy string, limit, offset int) ([]*models.Provider, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Provider{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var providers []*models.Provider
	err := query.Find(&providers).Error
	if err != nil {
		return nil, err
	}

	return providers, nil
}

// Count returns the number of providers matching the filter
func (r *ProviderRepositoryImpl) Count(ctx context.Context, filter models.ProviderFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Provider{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any provider matching the filter exists
func (r *ProviderRepositoryImpl) Exists(ctx context.Context, filter models.ProviderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
