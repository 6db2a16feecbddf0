package models

import (
	"time"

	"github.com/surtimax/cost-approvals/utils"
	"gorm.io/gorm"
)

// TraceabilityEvent is one append-only entry of a request's audit trail
// (trazabilidad). Rows are written inside the same transaction as the status
// change they describe and are never updated or deleted.
type TraceabilityEvent struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	RequestID uint `gorm:"not null;index:idx_traceability_events_request_id" json:"request_id"`

	PreviousStatus CostUpdateStatus `gorm:"type:cost_update_status;not null" json:"previous_status"`
	NewStatus      CostUpdateStatus `gorm:"type:cost_update_status;not null" json:"new_status"`

	// Actor name and email are denormalized so the trail stays readable even
	// if the user record is later deactivated or renamed.
	ActorID    uint   `gorm:"not null;index:idx_traceability_events_actor_id" json:"actor_id"`
	ActorName  string `gorm:"size:255;not null" json:"actor_name"`
	ActorEmail string `gorm:"size:255;not null" json:"actor_email"`

	Comment *string `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_traceability_events_created_at" json:"created_at"`

	// Relations
	Request *CostUpdateRequest `gorm:"foreignKey:RequestID;references:ID" json:"request,omitempty"`
	Actor   *User              `gorm:"foreignKey:ActorID;references:ID" json:"actor,omitempty"`
}

// TableName returns the table name for the model
func (TraceabilityEvent) TableName() string {
	return "traceability_events"
}

// BeforeCreate is called before creating a new record
func (e *TraceabilityEvent) BeforeCreate(tx *gorm.DB) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// TraceabilityEventFilter represents filter criteria for traceability queries
type TraceabilityEventFilter struct {
	ID            *uint
	RequestID     *uint
	ActorID       *uint
	NewStatus     *CostUpdateStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
