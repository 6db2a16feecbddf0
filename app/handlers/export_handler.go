// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/app/middleware"
	businessflow "github.com/surtimax/cost-approvals/business_flow"
)

// ExportHandlerInterface defines the contract for export handlers
type ExportHandlerInterface interface {
	ExportRequests(c fiber.Ctx) error
}

// ExportHandler implements ExportHandlerInterface
type ExportHandler struct {
	flow businessflow.ExportFlow
}

func NewExportHandler(flow businessflow.ExportFlow) ExportHandlerInterface {
	return &ExportHandler{flow: flow}
}

// ErrorResponse standard JSON error
func (h *ExportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// ExportRequests streams an Excel workbook of requests and line items
// @Summary Export cost-update requests
// @Description Download an Excel workbook with one sheet per workflow status, optionally restricted to a single status
// @Tags Cost Updates
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Status filter" Enums(pending,in_review,approved,applied,rejected)
// @Success 200 {file} binary "Excel workbook"
// @Failure 400 {object} dto.APIResponse "Unknown status"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/cost-updates/export [get]
// @Security BearerAuth
func (h *ExportHandler) ExportRequests(c fiber.Ctx) error {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		metadata.SetRequestID(requestID)
	}

	filename, content, err := h.flow.ExportRequests(createRequestContext(c, "/api/v1/cost-updates/export"), c.Query("status"), actor, metadata)
	if err != nil {
		if businessflow.IsUnknownAction(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown status", "EXPORT_VALIDATION_FAILED", nil)
		}
		log.Println("Export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build export", "EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}
