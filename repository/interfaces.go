// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/surtimax/cost-approvals/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for workflow users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// ProviderRepository defines operations for providers
type ProviderRepository interface {
	Repository[models.Provider, models.ProviderFilter]
	ByTaxID(ctx context.Context, taxID string) (*models.Provider, error)
}

// CostUpdateRequestRepository defines operations for cost-update requests
type CostUpdateRequestRepository interface {
	Repository[models.CostUpdateRequest, models.CostUpdateRequestFilter]
	ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*models.CostUpdateRequest, error)
	ListByStatus(ctx context.Context, status models.CostUpdateStatus, limit, offset int) ([]*models.CostUpdateRequest, error)
	UpdateStatus(ctx context.Context, id uint, status models.CostUpdateStatus, observations *string) error
	MarkApplied(ctx context.Context, id uint, appliedDate time.Time) error
}

// LineItemRepository defines operations for request line items
type LineItemRepository interface {
	Repository[models.LineItem, models.LineItemFilter]
	ListByRequest(ctx context.Context, requestID uint) ([]*models.LineItem, error)
	UpdateDerivedFields(ctx context.Context, item *models.LineItem) error
}

// TraceabilityEventRepository defines operations for request audit trails
type TraceabilityEventRepository interface {
	Repository[models.TraceabilityEvent, models.TraceabilityEventFilter]
	ListByRequest(ctx context.Context, requestID uint) ([]*models.TraceabilityEvent, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
	ListSecurityEvents(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
