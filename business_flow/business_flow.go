// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/utils"
)

const RequestIDKey = "X-Request-ID"

// Actor identifies the authenticated user performing a workflow operation.
// The role is resolved from the token claims at authentication time; flows
// never look at login names to decide permissions.
type Actor struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToCostUpdateRequestDTO converts a request model to its API representation
func ToCostUpdateRequestDTO(request models.CostUpdateRequest) dto.CostUpdateRequestDTO {
	out := dto.CostUpdateRequestDTO{
		ID:            request.ID,
		UUID:          request.UUID.String(),
		ProviderID:    request.ProviderID,
		BuyerID:       request.BuyerID,
		Status:        request.Status.String(),
		StatusDisplay: request.GetStatusDisplayName(),
		ScheduledDate: utils.FormatDate(request.ScheduledDate),
		AppliedDate:   utils.FormatDate(request.AppliedDate),
		CreatedAt:     request.CreatedAt.Format(time.RFC3339),
	}

	if request.Recommendations != nil {
		out.Recommendations = *request.Recommendations
	}
	if request.Observations != nil {
		out.Observations = *request.Observations
	}
	if request.Provider != nil {
		out.ProviderName = request.Provider.Name
		out.ProviderTaxID = request.Provider.TaxID
	}
	if request.Buyer != nil {
		out.BuyerName = request.Buyer.FullName
	}

	for _, item := range request.LineItems {
		out.LineItems = append(out.LineItems, ToLineItemDTO(item))
	}

	return out
}

// ToLineItemDTO converts a line-item model to its API representation
func ToLineItemDTO(item models.LineItem) dto.LineItemDTO {
	return dto.LineItemDTO{
		ID:           item.ID,
		Barcode:      item.Barcode,
		ItemCode:     item.ItemCode,
		Description:  item.Description,
		Unit:         item.Unit,
		CurrentCost:  item.CurrentCost,
		NewCost:      item.NewCost,
		TaxRate:      item.TaxRate,
		Pie1:         item.Pie1,
		Pie2:         item.Pie2,
		ICUI:         item.ICUI,
		IPO:          item.IPO,
		Margin:       item.Margin,
		PDV:          item.PDV,
		FeeValue:     item.FeeValue,
		CostAfterFee: item.CostAfterFee,
		CostPlusICUI: item.CostPlusICUI,
		TaxValue:     item.TaxValue,
		CostPlusTax:  item.CostPlusTax,
		FinalPrice:   item.FinalPrice,
		POSPrice:     item.POSPrice,
	}
}

// ToTraceabilityEventDTO converts a traceability event to its API representation
func ToTraceabilityEventDTO(event models.TraceabilityEvent) dto.TraceabilityEventDTO {
	out := dto.TraceabilityEventDTO{
		PreviousStatus: event.PreviousStatus.String(),
		NewStatus:      event.NewStatus.String(),
		ActorName:      event.ActorName,
		ActorEmail:     event.ActorEmail,
		CreatedAt:      event.CreatedAt.Format(time.RFC3339),
	}
	if event.Comment != nil {
		out.Comment = *event.Comment
	}
	return out
}
