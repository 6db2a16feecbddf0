package models

import (
	"time"

	"github.com/surtimax/cost-approvals/utils"
	"gorm.io/gorm"
)

// LineItem represents a single article inside a cost-update request.
//
// The intake fields (costs, tax rate, invoice-foot percentages, surcharges)
// are set when the request is created. Margin, PDV and every derived monetary
// field stay nil until the finalize transition computes and persists them.
type LineItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	RequestID uint `gorm:"not null;index:idx_line_items_request_id" json:"request_id"`

	Barcode     string `gorm:"size:64;not null;index:idx_line_items_barcode" json:"barcode"`
	ItemCode    string `gorm:"size:64;not null" json:"item_code"`
	Description string `gorm:"size:512;not null" json:"description"`
	Unit        string `gorm:"size:32;not null" json:"unit"`

	CurrentCost float64 `gorm:"type:numeric(14,4);not null" json:"current_cost"`
	NewCost     float64 `gorm:"type:numeric(14,4);not null" json:"new_cost"`
	TaxRate     float64 `gorm:"type:numeric(7,4);not null" json:"tax_rate"`
	Pie1        float64 `gorm:"type:numeric(7,4);not null;default:0" json:"pie1"`
	Pie2        float64 `gorm:"type:numeric(7,4);not null;default:0" json:"pie2"`
	ICUI        float64 `gorm:"type:numeric(14,4);not null;default:0" json:"icui"`
	IPO         float64 `gorm:"type:numeric(14,4);not null;default:0" json:"ipo"`

	// Finalize-stage fields
	Margin       *float64 `gorm:"type:numeric(7,2)" json:"margin,omitempty"`
	PDV          *float64 `gorm:"type:numeric(14,2)" json:"pdv,omitempty"`
	FeeValue     *float64 `gorm:"type:numeric(14,4)" json:"fee_value,omitempty"`
	CostAfterFee *float64 `gorm:"type:numeric(14,4)" json:"cost_after_fee,omitempty"`
	CostPlusICUI *float64 `gorm:"type:numeric(14,4)" json:"cost_plus_icui,omitempty"`
	TaxValue     *float64 `gorm:"type:numeric(14,4)" json:"tax_value,omitempty"`
	CostPlusTax  *float64 `gorm:"type:numeric(14,4)" json:"cost_plus_tax,omitempty"`
	FinalPrice   *float64 `gorm:"type:numeric(14,4)" json:"final_price,omitempty"`
	POSPrice     *float64 `gorm:"type:numeric(14,4)" json:"pos_price,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Request *CostUpdateRequest `gorm:"foreignKey:RequestID;references:ID" json:"request,omitempty"`
}

// TableName returns the table name for the model
func (LineItem) TableName() string {
	return "line_items"
}

// BeforeCreate is called before creating a new record
func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.CreatedAt.IsZero() {
		li.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (li *LineItem) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	li.UpdatedAt = &now
	return nil
}

// IsFinalized checks whether the finalize transition has populated the
// derived monetary fields
func (li *LineItem) IsFinalized() bool {
	return li.FinalPrice != nil && li.POSPrice != nil
}

// LineItemFilter represents filter criteria for line-item queries
type LineItemFilter struct {
	ID        *uint
	RequestID *uint
	Barcode   *string
	ItemCode  *string
}
