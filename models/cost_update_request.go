package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surtimax/cost-approvals/utils"
	"gorm.io/gorm"
)

// CostUpdateStatus represents the status of a cost-update request
type CostUpdateStatus string

const (
	CostUpdateStatusPending  CostUpdateStatus = "pending"
	CostUpdateStatusInReview CostUpdateStatus = "in_review"
	CostUpdateStatusApproved CostUpdateStatus = "approved"
	CostUpdateStatusApplied  CostUpdateStatus = "applied"
	CostUpdateStatusRejected CostUpdateStatus = "rejected"
)

// String returns the string representation of the status
func (s CostUpdateStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CostUpdateStatus) Valid() bool {
	switch s {
	case CostUpdateStatusPending, CostUpdateStatusInReview,
		CostUpdateStatusApproved, CostUpdateStatusApplied,
		CostUpdateStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal checks if the status admits no further transitions
func (s CostUpdateStatus) IsTerminal() bool {
	return s == CostUpdateStatusApplied || s == CostUpdateStatusRejected
}

// Scan implements the sql.Scanner interface for CostUpdateStatus
func (s *CostUpdateStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CostUpdateStatus(v)
	case []byte:
		*s = CostUpdateStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CostUpdateStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CostUpdateStatus
func (s CostUpdateStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CostUpdateStatus: %s", s)
	}
	return string(s), nil
}

// TransitionAction is a wire-level workflow action name. The strings are
// part of the public contract consumed by legacy clients and must not change.
type TransitionAction string

const (
	ActionSubmitForApproval TransitionAction = "enviar-por-aprobar"
	ActionReject            TransitionAction = "rechazar"
	ActionApproveRevision   TransitionAction = "aprobar-revision"
	ActionRejectRevision    TransitionAction = "rechazar-revision"
	ActionFinishCoding      TransitionAction = "terminar-codificacion"
	ActionRejectCoding      TransitionAction = "rechazar-codificacion"
)

// String returns the string representation of the action
func (a TransitionAction) String() string {
	return string(a)
}

// TransitionRule describes a single edge of the workflow graph: which status
// the request must be in, which status it moves to, which role may trigger
// it, and whether a non-empty comment is mandatory.
type TransitionRule struct {
	From            CostUpdateStatus
	To              CostUpdateStatus
	Role            UserRole
	RequiresComment bool
}

var transitionRules = map[TransitionAction]TransitionRule{
	ActionSubmitForApproval: {From: CostUpdateStatusPending, To: CostUpdateStatusInReview, Role: UserRoleBuyer, RequiresComment: true},
	ActionReject:            {From: CostUpdateStatusPending, To: CostUpdateStatusRejected, Role: UserRoleBuyer, RequiresComment: true},
	ActionApproveRevision:   {From: CostUpdateStatusInReview, To: CostUpdateStatusApproved, Role: UserRoleReviewer, RequiresComment: false},
	ActionRejectRevision:    {From: CostUpdateStatusInReview, To: CostUpdateStatusRejected, Role: UserRoleReviewer, RequiresComment: true},
	ActionFinishCoding:      {From: CostUpdateStatusApproved, To: CostUpdateStatusApplied, Role: UserRoleCoder, RequiresComment: false},
	ActionRejectCoding:      {From: CostUpdateStatusApproved, To: CostUpdateStatusRejected, Role: UserRoleCoder, RequiresComment: true},
}

// RuleFor returns the transition rule for a wire action
func RuleFor(action TransitionAction) (TransitionRule, bool) {
	rule, ok := transitionRules[action]
	return rule, ok
}

// CostUpdateRequest represents a provider cost-update request moving through
// the approval workflow
type CostUpdateRequest struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_cost_update_requests_uuid" json:"uuid"`
	ProviderID uint             `gorm:"not null;index:idx_cost_update_requests_provider_id" json:"provider_id"`
	BuyerID    uint             `gorm:"not null;index:idx_cost_update_requests_buyer_id" json:"buyer_id"`
	Status     CostUpdateStatus `gorm:"type:cost_update_status;not null;default:'pending';index:idx_cost_update_requests_status" json:"status"`

	// ScheduledDate is the date the provider asked the new costs to apply.
	// AppliedDate is the contractual date actually used; it is written exactly
	// once, at the finalize transition.
	ScheduledDate *time.Time `gorm:"type:date" json:"scheduled_date,omitempty"`
	AppliedDate   *time.Time `gorm:"type:date;index:idx_cost_update_requests_applied_date" json:"applied_date,omitempty"`

	Recommendations *string `gorm:"type:text" json:"recommendations,omitempty"`
	Observations    *string `gorm:"type:text" json:"observations,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_cost_update_requests_created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"index:idx_cost_update_requests_updated_at" json:"updated_at,omitempty"`

	// Relations
	Provider  *Provider  `gorm:"foreignKey:ProviderID;references:ID" json:"provider,omitempty"`
	Buyer     *User      `gorm:"foreignKey:BuyerID;references:ID" json:"buyer,omitempty"`
	LineItems []LineItem `gorm:"foreignKey:RequestID" json:"line_items,omitempty"`
}

// TableName returns the table name for the model
func (CostUpdateRequest) TableName() string {
	return "cost_update_requests"
}

// BeforeCreate is called before creating a new record
func (r *CostUpdateRequest) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.Status == "" {
		r.Status = CostUpdateStatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (r *CostUpdateRequest) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	r.UpdatedAt = &now
	return nil
}

// CanTransitionTo checks if the request can move to the given status.
// Statuses only move forward along the workflow graph; rejected and applied
// are terminal.
func (r *CostUpdateRequest) CanTransitionTo(newStatus CostUpdateStatus) bool {
	switch r.Status {
	case CostUpdateStatusPending:
		return newStatus == CostUpdateStatusInReview ||
			newStatus == CostUpdateStatusRejected
	case CostUpdateStatusInReview:
		return newStatus == CostUpdateStatusApproved ||
			newStatus == CostUpdateStatusRejected
	case CostUpdateStatusApproved:
		return newStatus == CostUpdateStatusApplied ||
			newStatus == CostUpdateStatusRejected
	default:
		return false
	}
}

// IsEditable checks if line items may still be modified
func (r *CostUpdateRequest) IsEditable() bool {
	return r.Status == CostUpdateStatusPending
}

// IsDeletable checks if the request can be deleted. Requests are never
// deleted, only archived at a terminal status.
func (r *CostUpdateRequest) IsDeletable() bool {
	return false
}

// CostUpdateRequestFilter represents filter criteria for request queries
type CostUpdateRequestFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	ProviderID    *uint
	BuyerID       *uint
	Status        *CostUpdateStatus
	AppliedAfter  *time.Time
	AppliedBefore *time.Time
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// GetDisplayName returns a human-readable status name
func (s CostUpdateStatus) GetDisplayName() string {
	switch s {
	case CostUpdateStatusPending:
		return "Pending"
	case CostUpdateStatusInReview:
		return "In Review"
	case CostUpdateStatusApproved:
		return "Approved"
	case CostUpdateStatusApplied:
		return "Applied"
	case CostUpdateStatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// GetStatusDisplayName returns a human-readable status name
func (r *CostUpdateRequest) GetStatusDisplayName() string {
	return r.Status.GetDisplayName()
}
