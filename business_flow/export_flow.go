package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/repository"
	"github.com/surtimax/cost-approvals/utils"
	"github.com/xuri/excelize/v2"
)

// ExportFlow produces the Excel workbook consumed by the pricing office:
// one sheet per workflow status, one row per line item with its request
// columns flattened in.
type ExportFlow interface {
	ExportRequests(ctx context.Context, status string, actor Actor, metadata *ClientMetadata) (string, []byte, error)
}

type ExportFlowImpl struct {
	requestRepo  repository.CostUpdateRequestRepository
	lineItemRepo repository.LineItemRepository
	auditRepo    repository.AuditLogRepository
}

func NewExportFlow(
	requestRepo repository.CostUpdateRequestRepository,
	lineItemRepo repository.LineItemRepository,
	auditRepo repository.AuditLogRepository,
) ExportFlow {
	return &ExportFlowImpl{requestRepo: requestRepo, lineItemRepo: lineItemRepo, auditRepo: auditRepo}
}

var exportSheetOrder = []models.CostUpdateStatus{
	models.CostUpdateStatusPending,
	models.CostUpdateStatusInReview,
	models.CostUpdateStatusApproved,
	models.CostUpdateStatusApplied,
	models.CostUpdateStatusRejected,
}

// ExportRequests builds the workbook. An empty status exports every status;
// buyers only ever see their own requests.
func (f *ExportFlowImpl) ExportRequests(ctx context.Context, status string, actor Actor, metadata *ClientMetadata) (string, []byte, error) {
	statuses := exportSheetOrder
	if strings.TrimSpace(status) != "" {
		parsed := models.CostUpdateStatus(status)
		if !parsed.Valid() {
			return "", nil, NewBusinessError("EXPORT_VALIDATION_FAILED", fmt.Sprintf("Unknown status %q", status), ErrUnknownAction)
		}
		statuses = []models.CostUpdateStatus{parsed}
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	header := []string{
		"id_solicitud", "proveedor", "nit", "comprador", "estado",
		"fecha_programada", "fecha_aplicacion",
		"codigo_barras", "codigo_item", "descripcion", "unidad",
		"costo_actual", "costo_nuevo", "iva", "pie1", "pie2", "icui", "ipo",
		"margen", "pdv", "precio_final", "precio_pos",
		"creado",
	}

	for i, st := range statuses {
		sheet := sanitizeSheetName(st.GetDisplayName())
		if i == 0 {
			xl.SetSheetName(xl.GetSheetName(0), sheet)
		} else {
			_, _ = xl.NewSheet(sheet)
		}
		_ = xl.SetSheetRow(sheet, "A1", &header)

		filter := models.CostUpdateRequestFilter{Status: &st}
		if actor.Role == models.UserRoleBuyer {
			filter.BuyerID = &actor.ID
		}

		requests, err := f.requestRepo.ByFilter(ctx, filter, "id ASC", 0, 0)
		if err != nil {
			return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to load requests", err)
		}

		rowIdx := 2
		for _, request := range requests {
			items, err := f.lineItemRepo.ListByRequest(ctx, request.ID)
			if err != nil {
				return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to load line items", err)
			}

			for _, item := range items {
				record := exportRecord(request, item)
				cellRef, _ := excelize.CoordinatesToCellName(1, rowIdx)
				_ = xl.SetSheetRow(sheet, cellRef, &record)
				rowIdx++
			}
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to write Excel file", err)
	}

	f.auditExport(ctx, actor, metadata)

	filename := fmt.Sprintf("actualizaciones_costo_%s.xlsx", utils.BogotaNow().Format("20060102"))
	return filename, buf.Bytes(), nil
}

func exportRecord(request *models.CostUpdateRequest, item *models.LineItem) []string {
	provider := ""
	taxID := ""
	if request.Provider != nil {
		provider = request.Provider.Name
		taxID = request.Provider.TaxID
	}
	buyer := ""
	if request.Buyer != nil {
		buyer = request.Buyer.FullName
	}

	return []string{
		strconv.FormatUint(uint64(request.ID), 10),
		provider,
		taxID,
		buyer,
		request.Status.String(),
		utils.FormatDate(request.ScheduledDate),
		utils.FormatDate(request.AppliedDate),
		item.Barcode,
		item.ItemCode,
		item.Description,
		item.Unit,
		formatAmount(item.CurrentCost),
		formatAmount(item.NewCost),
		formatAmount(item.TaxRate),
		formatAmount(item.Pie1),
		formatAmount(item.Pie2),
		formatAmount(item.ICUI),
		formatAmount(item.IPO),
		formatOptionalAmount(item.Margin),
		formatOptionalAmount(item.PDV),
		formatOptionalAmount(item.FinalPrice),
		formatOptionalAmount(item.POSPrice),
		request.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return formatAmount(*v)
}

func (f *ExportFlowImpl) auditExport(ctx context.Context, actor Actor, metadata *ClientMetadata) {
	if f.auditRepo == nil {
		return
	}

	success := true
	entry := &models.AuditLog{
		UserID:  &actor.ID,
		Action:  models.AuditActionExportGenerated,
		Success: &success,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}
	_ = f.auditRepo.Save(ctx, entry)
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := strings.TrimSpace(replacer.Replace(name))
	if len(safe) > 31 {
		safe = safe[:31]
	}
	if safe == "" {
		return "Sheet"
	}
	return safe
}
