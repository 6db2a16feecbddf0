package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider represents a merchandise provider whose costs are being updated
type Provider struct {
	ID    uint      `gorm:"primaryKey" json:"id"`
	UUID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_providers_uuid" json:"uuid"`
	Name  string    `gorm:"size:255;not null;index:idx_providers_name" json:"name"`
	TaxID string    `gorm:"size:64;not null;uniqueIndex:uk_providers_tax_id" json:"tax_id"`

	ContactEmail *string    `gorm:"size:255" json:"contact_email,omitempty"`
	IsActive     *bool      `gorm:"default:true;index:idx_providers_is_active" json:"is_active"`
	CreatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (Provider) TableName() string {
	return "providers"
}

// ProviderFilter represents filter criteria for provider queries
type ProviderFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Name          *string
	TaxID         *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
