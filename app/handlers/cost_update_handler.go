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
)

// CostUpdateHandlerInterface defines the contract for cost-update request handlers
type CostUpdateHandlerInterface interface {
	ListRequests(c fiber.Ctx) error
	GetRequest(c fiber.Ctx) error
	GetTraceability(c fiber.Ctx) error
	Transition(c fiber.Ctx) error
}

// CostUpdateHandler implements CostUpdateHandlerInterface
type CostUpdateHandler struct {
	queryFlow      businessflow.CostUpdateQueryFlow
	transitionFlow businessflow.TransitionFlow
	validator      *validator.Validate
}

func NewCostUpdateHandler(queryFlow businessflow.CostUpdateQueryFlow, transitionFlow businessflow.TransitionFlow) CostUpdateHandlerInterface {
	return &CostUpdateHandler{
		queryFlow:      queryFlow,
		transitionFlow: transitionFlow,
		validator:      validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *CostUpdateHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *CostUpdateHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *CostUpdateHandler) requestID(c fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

// ListRequests returns a page of cost-update requests
// @Summary List cost-update requests
// @Description List requests visible to the authenticated user, with optional status and provider filters
// @Tags Cost Updates
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Status filter" Enums(pending,in_review,approved,applied,rejected)
// @Param provider_id query int false "Provider filter"
// @Success 200 {object} dto.APIResponse{data=dto.ListCostUpdatesResponse} "Requests listed"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/cost-updates [get]
// @Security BearerAuth
func (h *CostUpdateHandler) ListRequests(c fiber.Ctx) error {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.ListCostUpdatesRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.queryFlow.ListRequests(createRequestContext(c, "/api/v1/cost-updates"), &req, actor)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}
		if businessflow.IsProviderNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Provider not found", "PROVIDER_NOT_FOUND", nil)
		}
		log.Println("List requests failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list requests", "LIST_REQUESTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Requests listed", result)
}

// GetRequest returns a single cost-update request with its line items
// @Summary Get cost-update request
// @Description Fetch one request with provider, buyer and line items
// @Tags Cost Updates
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.CostUpdateRequestDTO} "Request found"
// @Failure 403 {object} dto.APIResponse "Request belongs to another buyer"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Router /api/v1/cost-updates/{id} [get]
// @Security BearerAuth
func (h *CostUpdateHandler) GetRequest(c fiber.Ctx) error {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	id, err := h.requestID(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request id", "INVALID_REQUEST_ID", nil)
	}

	result, err := h.queryFlow.GetRequest(createRequestContext(c, "/api/v1/cost-updates/:id"), id, actor)
	if err != nil {
		return h.mapReadError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Request found", result)
}

// GetTraceability returns the chronological audit trail of a request
// @Summary Get request traceability
// @Description Fetch the ordered list of status transitions for a request
// @Tags Cost Updates
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TraceabilityEventDTO} "Traceability listed"
// @Failure 403 {object} dto.APIResponse "Request belongs to another buyer"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Router /api/v1/cost-updates/{id}/trazabilidad [get]
// @Security BearerAuth
func (h *CostUpdateHandler) GetTraceability(c fiber.Ctx) error {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	id, err := h.requestID(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request id", "INVALID_REQUEST_ID", nil)
	}

	result, err := h.queryFlow.GetTraceability(createRequestContext(c, "/api/v1/cost-updates/:id/trazabilidad"), id, actor)
	if err != nil {
		return h.mapReadError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Traceability listed", result)
}

// Transition applies a workflow action to a request
// @Summary Apply workflow transition
// @Description Apply one of the wire actions (enviar-por-aprobar, rechazar, aprobar-revision, rechazar-revision, rechazar-codificacion) to a request
// @Tags Cost Updates
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body dto.TransitionRequest true "Transition data"
// @Success 200 {object} dto.APIResponse{data=dto.TransitionResponse} "Transition applied"
// @Failure 400 {object} dto.APIResponse "Unknown action"
// @Failure 403 {object} dto.APIResponse "Role not allowed"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Transition not allowed from the current status"
// @Failure 422 {object} dto.APIResponse "Missing observations or comment"
// @Router /api/v1/cost-updates/{id}/transition [post]
// @Security BearerAuth
func (h *CostUpdateHandler) Transition(c fiber.Ctx) error {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	id, err := h.requestID(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request id", "INVALID_REQUEST_ID", nil)
	}

	var req dto.TransitionRequest
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

	result, err := h.transitionFlow.Transition(createRequestContext(c, "/api/v1/cost-updates/:id/transition"), id, &req, actor, metadata)
	if err != nil {
		middleware.ObserveTransition(req.Action, "rejected")
		return h.mapTransitionError(c, err)
	}

	middleware.ObserveTransition(req.Action, "applied")
	return h.SuccessResponse(c, fiber.StatusOK, "Transition applied", result)
}

func (h *CostUpdateHandler) mapReadError(c fiber.Ctx, err error) error {
	if businessflow.IsRequestNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
	}
	if businessflow.IsRequestAccessDenied(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Request belongs to another buyer", "REQUEST_ACCESS_DENIED", nil)
	}
	log.Println("Request read failed", err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load request", "REQUEST_READ_FAILED", nil)
}

func (h *CostUpdateHandler) mapTransitionError(c fiber.Ctx, err error) error {
	switch {
	case businessflow.IsUnknownAction(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown action", "TRANSITION_UNKNOWN_ACTION", nil)
	case businessflow.IsForbiddenTransition(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, "Role is not allowed to perform this action", "TRANSITION_FORBIDDEN", nil)
	case businessflow.IsRequestAccessDenied(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, "Request belongs to another buyer", "REQUEST_ACCESS_DENIED", nil)
	case businessflow.IsRequestNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
	case businessflow.IsValidationError(err):
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Transition validation failed", "TRANSITION_VALIDATION_FAILED", nil)
	case businessflow.IsTransitionNotAllowed(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Transition not allowed from the current status", "TRANSITION_NOT_ALLOWED", nil)
	default:
		log.Println("Transition failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to apply transition", "TRANSITION_FAILED", nil)
	}
}
