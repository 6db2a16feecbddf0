// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CostUpdateRequestDTO represents a cost-update request in API responses.
// Date fields use the YYYY-MM-DD wire format with "0000-00-00" meaning unset.
type CostUpdateRequestDTO struct {
	ID            uint   `json:"id" example:"42"`
	UUID          string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ProviderID    uint   `json:"provider_id" example:"7"`
	ProviderName  string `json:"provider_name,omitempty" example:"Distribuidora Andina"`
	ProviderTaxID string `json:"provider_tax_id,omitempty" example:"900123456-1"`
	BuyerID       uint   `json:"buyer_id" example:"3"`
	BuyerName     string `json:"buyer_name,omitempty" example:"Laura Pineda"`

	Status        string `json:"status" example:"pending"`
	StatusDisplay string `json:"status_display" example:"Pending"`

	ScheduledDate string `json:"fecha_programada" example:"2026-03-01"`
	AppliedDate   string `json:"fecha_aplicacion" example:"0000-00-00"`

	Recommendations string `json:"recommendations,omitempty"`
	Observations    string `json:"observations,omitempty"`

	CreatedAt string        `json:"created_at" example:"2026-02-10T09:30:00Z"`
	LineItems []LineItemDTO `json:"line_items,omitempty"`
}

// LineItemDTO represents a request line item in API responses. The derived
// monetary fields stay null until the finalize transition populates them.
type LineItemDTO struct {
	ID          uint   `json:"id" example:"101"`
	Barcode     string `json:"barcode" example:"7701234567890"`
	ItemCode    string `json:"item_code" example:"A-5531"`
	Description string `json:"description" example:"Aceite vegetal 1L"`
	Unit        string `json:"unit" example:"UN"`

	CurrentCost float64 `json:"current_cost" example:"950"`
	NewCost     float64 `json:"new_cost" example:"1000"`
	TaxRate     float64 `json:"tax_rate" example:"19"`
	Pie1        float64 `json:"pie1" example:"2"`
	Pie2        float64 `json:"pie2" example:"0"`
	ICUI        float64 `json:"icui" example:"50"`
	IPO         float64 `json:"ipo" example:"0"`

	Margin       *float64 `json:"margin,omitempty" example:"30"`
	PDV          *float64 `json:"pdv,omitempty" example:"100"`
	FeeValue     *float64 `json:"fee_value,omitempty" example:"20"`
	CostAfterFee *float64 `json:"cost_after_fee,omitempty" example:"980"`
	CostPlusICUI *float64 `json:"cost_plus_icui,omitempty" example:"1030"`
	TaxValue     *float64 `json:"tax_value,omitempty" example:"195.7"`
	CostPlusTax  *float64 `json:"cost_plus_tax,omitempty" example:"1225.7"`
	FinalPrice   *float64 `json:"final_price,omitempty" example:"1593.41"`
	POSPrice     *float64 `json:"pos_price,omitempty" example:"1693.41"`
}

// TraceabilityEventDTO represents one audit-trail entry in API responses
type TraceabilityEventDTO struct {
	PreviousStatus string `json:"previous_status" example:"pending"`
	NewStatus      string `json:"new_status" example:"in_review"`
	ActorName      string `json:"actor_name" example:"Laura Pineda"`
	ActorEmail     string `json:"actor_email" example:"laura@surtimax.co"`
	Comment        string `json:"comment,omitempty" example:"Costos acordes al contrato vigente"`
	CreatedAt      string `json:"timestamp" example:"2026-02-11T14:05:00Z"`
}

// ListCostUpdatesRequest represents the query parameters for listing requests
type ListCostUpdatesRequest struct {
	Page       int    `query:"page" validate:"omitempty,min=1" example:"1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=100" example:"20"`
	Status     string `query:"status" validate:"omitempty,oneof=pending in_review approved applied rejected" example:"pending"`
	ProviderID uint   `query:"provider_id" validate:"omitempty" example:"7"`
}

// ListCostUpdatesResponse represents a page of cost-update requests
type ListCostUpdatesResponse struct {
	Items      []CostUpdateRequestDTO `json:"items"`
	Total      int64                  `json:"total" example:"135"`
	Page       int                    `json:"page" example:"1"`
	PageSize   int                    `json:"page_size" example:"20"`
	TotalPages int                    `json:"total_pages" example:"7"`
}

// TransitionRequest represents the payload of the generic transition
// endpoint. The action strings are the legacy wire contract.
type TransitionRequest struct {
	Action       string `json:"action" validate:"required,oneof=enviar-por-aprobar rechazar aprobar-revision rechazar-revision rechazar-codificacion" example:"enviar-por-aprobar"`
	Observations string `json:"observations,omitempty" validate:"omitempty,max=2000" example:"Costos acordes al contrato vigente"`
}

// TransitionResponse reports the result of a workflow transition
type TransitionResponse struct {
	ID             uint   `json:"id" example:"42"`
	PreviousStatus string `json:"previous_status" example:"pending"`
	NewStatus      string `json:"new_status" example:"in_review"`
}

// FinalizeItem carries the per-item finalize inputs. Margin and PDV travel
// as strings so the exact wire format rules can be validated.
type FinalizeItem struct {
	LineItemID uint   `json:"id" validate:"required" example:"101"`
	Margin     string `json:"margin" validate:"required" example:"30"`
	PDV        string `json:"pdv" validate:"required" example:"100"`
}

// FinalizeRequest represents the payload of the terminar-codificacion
// endpoint. Field names follow the legacy contract.
type FinalizeRequest struct {
	IDSolicitud     uint           `json:"id_solicitud" validate:"required" example:"42"`
	Items           []FinalizeItem `json:"items" validate:"required,min=1,dive"`
	FechaAplicacion string         `json:"fecha_aplicacion" validate:"required" example:"2026-03-01"`
	IDLogin         uint           `json:"idLogin" validate:"omitempty" example:"3"`
	Login           string         `json:"login" validate:"omitempty" example:"cmartinez"`
}

// FinalizePreviewRequest represents the payload of the finalize-preview
// endpoint: same inputs as finalize, no side effects.
type FinalizePreviewRequest struct {
	Items           []FinalizeItem `json:"items" validate:"required,min=1,dive"`
	FechaAplicacion string         `json:"fecha_aplicacion" validate:"omitempty" example:"2026-03-01"`
}

// FinalizePreviewItemDTO pairs a line item with its computed price breakdown
// and the field-level verdicts driving the completeness readout
type FinalizePreviewItemDTO struct {
	LineItemID  uint   `json:"id" example:"101"`
	MarginValid bool   `json:"margin_valid" example:"true"`
	MarginError string `json:"margin_error,omitempty"`
	PDVValid    bool   `json:"pdv_valid" example:"true"`
	PDVError    string `json:"pdv_error,omitempty"`

	FeeValue     float64 `json:"fee_value" example:"20"`
	CostAfterFee float64 `json:"cost_after_fee" example:"980"`
	CostPlusICUI float64 `json:"cost_plus_icui" example:"1030"`
	TaxValue     float64 `json:"tax_value" example:"195.7"`
	CostPlusTax  float64 `json:"cost_plus_tax" example:"1225.7"`
	FinalPrice   float64 `json:"final_price" example:"1593.41"`
	POSPrice     float64 `json:"pos_price" example:"1693.41"`
}

// FinalizePreviewResponse reports the completeness counters and per-item
// breakdowns for the finalize gate
type FinalizePreviewResponse struct {
	TotalItems      int                      `json:"total_items" example:"3"`
	MarginCompleted int                      `json:"margin_completed" example:"3"`
	PDVCompleted    int                      `json:"pdv_completed" example:"2"`
	DateSet         bool                     `json:"date_set" example:"true"`
	Complete        bool                     `json:"complete" example:"false"`
	Items           []FinalizePreviewItemDTO `json:"items"`
}
