// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/app/middleware"
	businessflow "github.com/surtimax/cost-approvals/business_flow"
	"github.com/surtimax/cost-approvals/models"
)

// CodingHandlerInterface defines the contract for finalize-stage handlers
type CodingHandlerInterface interface {
	PreviewFinalize(c fiber.Ctx) error
	Finalize(c fiber.Ctx) error
}

// CodingHandler implements CodingHandlerInterface
type CodingHandler struct {
	flow      businessflow.CodingFlow
	validator *validator.Validate
}

func NewCodingHandler(flow businessflow.CodingFlow) CodingHandlerInterface {
	return &CodingHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *CodingHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse standard JSON success
func (h *CodingHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// PreviewFinalize runs the completeness counters and pricing calculator
// without persisting anything
// @Summary Preview finalization
// @Description Validate margins/pdv and compute the full price breakdown per line item, with completeness counters
// @Tags Coding
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body dto.FinalizePreviewRequest true "Preview data"
// @Success 200 {object} dto.APIResponse{data=dto.FinalizePreviewResponse} "Preview computed"
// @Failure 403 {object} dto.APIResponse "Role not allowed"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Router /api/v1/cost-updates/{id}/finalize-preview [post]
// @Security BearerAuth
func (h *CodingHandler) PreviewFinalize(c fiber.Ctx) error {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request id", "INVALID_REQUEST_ID", nil)
	}

	var req dto.FinalizePreviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.flow.PreviewFinalize(createRequestContext(c, "/api/v1/cost-updates/:id/finalize-preview"), uint(id), &req, actor)
	if err != nil {
		if businessflow.IsRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsForbiddenTransition(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Role is not allowed to preview finalization", "FINALIZE_PREVIEW_FORBIDDEN", nil)
		}
		log.Println("Finalize preview failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute preview", "FINALIZE_PREVIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Preview computed", result)
}

// Finalize applies the terminar-codificacion transition
// @Summary Finalize a cost-update request
// @Description Validate every line item, persist the computed prices, set the application date and move the request to applied
// @Tags Coding
// @Accept json
// @Produce json
// @Param request body dto.FinalizeRequest true "Finalize data"
// @Success 200 {object} dto.APIResponse{data=dto.TransitionResponse} "Request finalized"
// @Failure 403 {object} dto.APIResponse "Role not allowed"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Request is not at the approved status"
// @Failure 422 {object} dto.APIResponse "Completeness gate not met"
// @Router /api/v1/cost-updates/terminar-codificacion [post]
// @Security BearerAuth
func (h *CodingHandler) Finalize(c fiber.Ctx) error {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.FinalizeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		metadata.SetRequestID(requestID)
	}

	result, err := h.flow.Finalize(createRequestContext(c, "/api/v1/cost-updates/terminar-codificacion"), &req, actor, metadata)
	if err != nil {
		middleware.ObserveTransition(models.ActionFinishCoding.String(), "rejected")
		return h.mapFinalizeError(c, err)
	}

	middleware.ObserveTransition(models.ActionFinishCoding.String(), "applied")
	return h.SuccessResponse(c, fiber.StatusOK, "Request finalized", result)
}

func (h *CodingHandler) mapFinalizeError(c fiber.Ctx, err error) error {
	switch {
	case businessflow.IsForbiddenTransition(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, "Role is not allowed to finalize", "FINALIZE_FORBIDDEN", nil)
	case businessflow.IsRequestNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
	case businessflow.IsRequestHasNoItems(err):
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Request has no line items", "REQUEST_HAS_NO_ITEMS", nil)
	case businessflow.IsValidationError(err):
		middleware.ObserveFinalizeGateBlocked()
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "One or more line items are incomplete", "FINALIZE_VALIDATION_FAILED", nil)
	case businessflow.IsTransitionNotAllowed(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Request is not at the approved status", "TRANSITION_NOT_ALLOWED", nil)
	default:
		log.Println("Finalize failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to finalize request", "FINALIZE_FAILED", nil)
	}
}
