package businessflow

import (
	"context"

	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/repository"
)

// CostUpdateQueryFlow serves the read path of the workflow: request lists,
// request detail with line items, and the traceability projection.
type CostUpdateQueryFlow interface {
	ListRequests(ctx context.Context, req *dto.ListCostUpdatesRequest, actor Actor) (*dto.ListCostUpdatesResponse, error)
	GetRequest(ctx context.Context, requestID uint, actor Actor) (*dto.CostUpdateRequestDTO, error)
	GetTraceability(ctx context.Context, requestID uint, actor Actor) ([]dto.TraceabilityEventDTO, error)
}

// CostUpdateQueryFlowImpl implements the read path
type CostUpdateQueryFlowImpl struct {
	requestRepo  repository.CostUpdateRequestRepository
	providerRepo repository.ProviderRepository
	eventRepo    repository.TraceabilityEventRepository
}

// NewCostUpdateQueryFlow creates a new query flow instance
func NewCostUpdateQueryFlow(
	requestRepo repository.CostUpdateRequestRepository,
	providerRepo repository.ProviderRepository,
	eventRepo repository.TraceabilityEventRepository,
) CostUpdateQueryFlow {
	return &CostUpdateQueryFlowImpl{
		requestRepo:  requestRepo,
		providerRepo: providerRepo,
		eventRepo:    eventRepo,
	}
}

// ListRequests returns a page of requests. Buyers only see their own
// requests; reviewers, coders and admins see every request.
func (s *CostUpdateQueryFlowImpl) ListRequests(ctx context.Context, req *dto.ListCostUpdatesRequest, actor Actor) (*dto.ListCostUpdatesResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	if page < 1 {
		return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Invalid page", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Invalid page size", ErrInvalidPageSize)
	}

	filter := models.CostUpdateRequestFilter{}
	if actor.Role == models.UserRoleBuyer {
		filter.BuyerID = &actor.ID
	}
	if req.Status != "" {
		status := models.CostUpdateStatus(req.Status)
		if status.Valid() {
			filter.Status = &status
		}
	}
	if req.ProviderID != 0 {
		exists, err := s.providerRepo.Exists(ctx, models.ProviderFilter{ID: &req.ProviderID})
		if err != nil {
			return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Failed to check provider", err)
		}
		if !exists {
			return nil, NewBusinessError("PROVIDER_NOT_FOUND", "Provider not found", ErrProviderNotFound)
		}
		filter.ProviderID = &req.ProviderID
	}

	total, err := s.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Failed to count requests", err)
	}

	rows, err := s.requestRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Failed to list requests", err)
	}

	items := make([]dto.CostUpdateRequestDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToCostUpdateRequestDTO(*row))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &dto.ListCostUpdatesResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetRequest returns a single request with its line items
func (s *CostUpdateQueryFlowImpl) GetRequest(ctx context.Context, requestID uint, actor Actor) (*dto.CostUpdateRequestDTO, error) {
	request, err := s.loadScoped(ctx, requestID, actor)
	if err != nil {
		return nil, err
	}

	out := ToCostUpdateRequestDTO(*request)
	return &out, nil
}

// GetTraceability returns the chronological audit trail of a request. Pure
// read: the projection is consumed for display and never mutated here.
func (s *CostUpdateQueryFlowImpl) GetTraceability(ctx context.Context, requestID uint, actor Actor) ([]dto.TraceabilityEventDTO, error) {
	if _, err := s.loadScoped(ctx, requestID, actor); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("GET_TRACEABILITY_FAILED", "Failed to load traceability", err)
	}

	out := make([]dto.TraceabilityEventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, ToTraceabilityEventDTO(*event))
	}

	return out, nil
}

// loadScoped fetches a request and enforces buyer-level visibility
func (s *CostUpdateQueryFlowImpl) loadScoped(ctx context.Context, requestID uint, actor Actor) (*models.CostUpdateRequest, error) {
	request, err := s.requestRepo.ByID(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("GET_REQUEST_FAILED", "Failed to load request", err)
	}
	if request == nil {
		return nil, NewBusinessError("REQUEST_NOT_FOUND", "Cost-update request not found", ErrRequestNotFound)
	}
	if actor.Role == models.UserRoleBuyer && request.BuyerID != actor.ID {
		return nil, NewBusinessError("REQUEST_ACCESS_DENIED", "Request belongs to another buyer", ErrRequestAccessDenied)
	}

	return request, nil
}
