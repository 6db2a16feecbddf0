package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/app/services"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/pricing"
	"github.com/surtimax/cost-approvals/repository"
	"github.com/surtimax/cost-approvals/utils"
	"gorm.io/gorm"
)

// CodingFlow handles the finalize stage of the workflow: previewing the
// completeness gate with computed prices, and the terminar-codificacion
// transition that persists them.
type CodingFlow interface {
	PreviewFinalize(ctx context.Context, requestID uint, req *dto.FinalizePreviewRequest, actor Actor) (*dto.FinalizePreviewResponse, error)
	Finalize(ctx context.Context, req *dto.FinalizeRequest, actor Actor, metadata *ClientMetadata) (*dto.TransitionResponse, error)
}

// CodingFlowImpl implements the finalize stage
type CodingFlowImpl struct {
	requestRepo  repository.CostUpdateRequestRepository
	lineItemRepo repository.LineItemRepository
	eventRepo    repository.TraceabilityEventRepository
	auditRepo    repository.AuditLogRepository
	notifier     services.NotificationService
	rc           *redis.Client
	db           *gorm.DB
}

// NewCodingFlow creates a new coding flow instance
func NewCodingFlow(
	requestRepo repository.CostUpdateRequestRepository,
	lineItemRepo repository.LineItemRepository,
	eventRepo repository.TraceabilityEventRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	notifier services.NotificationService,
	rc *redis.Client,
) CodingFlow {
	return &CodingFlowImpl{
		requestRepo:  requestRepo,
		lineItemRepo: lineItemRepo,
		eventRepo:    eventRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
		rc:           rc,
		db:           db,
	}
}

// PreviewFinalize runs the completeness counters and the pricing calculator
// over the submitted margin/pdv values without persisting anything. Results
// are cached per (request id, application date) and dropped on the next
// transition of the request.
func (s *CodingFlowImpl) PreviewFinalize(ctx context.Context, requestID uint, req *dto.FinalizePreviewRequest, actor Actor) (*dto.FinalizePreviewResponse, error) {
	if req == nil || requestID == 0 {
		return nil, NewBusinessError("FINALIZE_PREVIEW_FAILED", "Request id and items are required", ErrRequestNotFound)
	}
	if actor.Role != models.UserRoleCoder && actor.Role != models.UserRoleAdmin {
		return nil, NewBusinessError("FINALIZE_PREVIEW_FORBIDDEN",
			fmt.Sprintf("Role %s may not preview finalization", actor.Role), ErrForbiddenTransition)
	}

	if cached := s.readCachedPreview(ctx, requestID, req); cached != nil {
		return cached, nil
	}

	request, err := s.requestRepo.ByID(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("FINALIZE_PREVIEW_FAILED", "Failed to load request", err)
	}
	if request == nil {
		return nil, NewBusinessError("REQUEST_NOT_FOUND", "Cost-update request not found", ErrRequestNotFound)
	}

	items, err := s.lineItemRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("FINALIZE_PREVIEW_FAILED", "Failed to load line items", err)
	}

	response := buildPreview(items, req.Items, req.FechaAplicacion)
	s.writeCachedPreview(ctx, requestID, req, response)

	return response, nil
}

// Finalize applies the terminar-codificacion transition: the completeness
// gate must pass for every line item, the derived prices are computed and
// persisted, the contractual application date is set once, and the request
// moves from approved to applied.
func (s *CodingFlowImpl) Finalize(ctx context.Context, req *dto.FinalizeRequest, actor Actor, metadata *ClientMetadata) (*dto.TransitionResponse, error) {
	if req == nil || req.IDSolicitud == 0 {
		return nil, NewBusinessError("FINALIZE_VALIDATION_FAILED", "id_solicitud is required", ErrRequestNotFound)
	}

	rule, _ := models.RuleFor(models.ActionFinishCoding)
	if actor.Role != rule.Role && actor.Role != models.UserRoleAdmin {
		return nil, NewBusinessError("FINALIZE_FORBIDDEN",
			fmt.Sprintf("Role %s may not finalize", actor.Role), ErrForbiddenTransition)
	}

	if res := ValidateApplicationDate(req.FechaAplicacion); !res.Valid {
		return nil, NewBusinessError("FINALIZE_VALIDATION_FAILED", res.Error, ErrApplicationDateRequired)
	}
	appliedDate, err := utils.ParseDate(req.FechaAplicacion)
	if err != nil || appliedDate == nil {
		return nil, NewBusinessError("FINALIZE_VALIDATION_FAILED", "Invalid application date", ErrApplicationDateRequired)
	}

	inputsByItem := make(map[uint]dto.FinalizeItem, len(req.Items))
	for _, item := range req.Items {
		inputsByItem[item.LineItemID] = item
	}

	var request *models.CostUpdateRequest
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		request, err = s.requestRepo.ByID(txCtx, req.IDSolicitud)
		if err != nil {
			return err
		}
		if request == nil {
			return ErrRequestNotFound
		}
		if request.Status.IsTerminal() {
			return ErrRequestAlreadyClosed
		}
		if request.Status != rule.From || !request.CanTransitionTo(rule.To) {
			return ErrTransitionNotAllowed
		}

		items, err := s.lineItemRepo.ListByRequest(txCtx, request.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrRequestHasNoItems
		}

		// The gate predicate is the same one the counters use: every line
		// item of the request needs a valid margin and a valid pdv.
		gateInputs := make([]FinalizeItemInput, 0, len(items))
		for _, item := range items {
			input := inputsByItem[item.ID]
			gateInputs = append(gateInputs, FinalizeItemInput{
				LineItemID: item.ID,
				Margin:     input.Margin,
				PDV:        input.PDV,
			})
		}
		report := CountCompletedFields(gateInputs, req.FechaAplicacion)
		if !report.Complete() {
			return ErrLineItemsIncomplete
		}

		for _, item := range items {
			input := inputsByItem[item.ID]
			margin := pricing.ParseAmount(input.Margin)
			pdv := pricing.ParseAmount(input.PDV)

			breakdown := pricing.Calculate(pricing.Input{
				NewCost: item.NewCost,
				Pie1:    item.Pie1,
				Pie2:    item.Pie2,
				ICUI:    item.ICUI,
				TaxRate: item.TaxRate,
				Margin:  margin,
				PDV:     pdv,
			})

			item.Margin = &margin
			item.PDV = &pdv
			item.FeeValue = &breakdown.FeeValue
			item.CostAfterFee = &breakdown.CostAfterFee
			item.CostPlusICUI = &breakdown.CostPlusICUI
			item.TaxValue = &breakdown.TaxValue
			item.CostPlusTax = &breakdown.CostPlusTax
			item.FinalPrice = &breakdown.FinalPrice
			item.POSPrice = &breakdown.POSPrice

			if err := s.lineItemRepo.UpdateDerivedFields(txCtx, item); err != nil {
				return err
			}
		}

		if err := s.requestRepo.MarkApplied(txCtx, request.ID, *appliedDate); err != nil {
			return err
		}
		if err := s.requestRepo.UpdateStatus(txCtx, request.ID, rule.To, nil); err != nil {
			return err
		}

		comment := fmt.Sprintf("Costs applied as of %s", req.FechaAplicacion)
		event := &models.TraceabilityEvent{
			RequestID:      request.ID,
			PreviousStatus: rule.From,
			NewStatus:      rule.To,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			ActorEmail:     actor.Email,
			Comment:        &comment,
		}
		if err := s.eventRepo.Save(txCtx, event); err != nil {
			return err
		}

		return s.auditFinalize(txCtx, actor, request.ID, metadata)
	})
	if err != nil {
		if IsValidationError(err) || IsTransitionNotAllowed(err) || IsRequestNotFound(err) {
			return nil, NewBusinessError("FINALIZE_REJECTED", "Finalization rejected", err)
		}
		return nil, NewBusinessError("FINALIZE_FAILED", "Failed to finalize request", err)
	}

	// Notify the requesting buyer (best-effort, outside transaction)
	if s.notifier != nil && request.Buyer != nil && request.Buyer.Email != "" {
		subject := fmt.Sprintf("Cost update #%d applied", request.ID)
		body := fmt.Sprintf("Request #%d was finalized by %s with application date %s.", request.ID, actor.Name, req.FechaAplicacion)
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.notifier.SendEmail(notifyCtx, request.Buyer.Email, subject, body)
	}

	InvalidatePreviewCache(ctx, s.rc, request.ID)

	return &dto.TransitionResponse{
		ID:             request.ID,
		PreviousStatus: rule.From.String(),
		NewStatus:      rule.To.String(),
	}, nil
}

func (s *CodingFlowImpl) auditFinalize(ctx context.Context, actor Actor, requestID uint, metadata *ClientMetadata) error {
	if s.auditRepo == nil {
		return nil
	}

	success := true
	entry := &models.AuditLog{
		UserID:       &actor.ID,
		RequestRefID: &requestID,
		Action:       models.AuditActionCodingFinished,
		Success:      &success,
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

	return s.auditRepo.Save(ctx, entry)
}

// buildPreview computes the completeness report and per-item breakdowns for
// a set of finalize inputs against the request's line items
func buildPreview(items []*models.LineItem, inputs []dto.FinalizeItem, applicationDate string) *dto.FinalizePreviewResponse {
	inputsByItem := make(map[uint]dto.FinalizeItem, len(inputs))
	for _, input := range inputs {
		inputsByItem[input.LineItemID] = input
	}

	gateInputs := make([]FinalizeItemInput, 0, len(items))
	for _, item := range items {
		input := inputsByItem[item.ID]
		gateInputs = append(gateInputs, FinalizeItemInput{
			LineItemID: item.ID,
			Margin:     input.Margin,
			PDV:        input.PDV,
		})
	}
	report := CountCompletedFields(gateInputs, applicationDate)

	response := &dto.FinalizePreviewResponse{
		TotalItems:      report.TotalItems,
		MarginCompleted: report.MarginCompleted,
		PDVCompleted:    report.PDVCompleted,
		DateSet:         report.DateSet,
		Complete:        report.Complete(),
	}

	for _, item := range items {
		input := inputsByItem[item.ID]
		marginRes := ValidateMargin(input.Margin)
		pdvRes := ValidatePDV(input.PDV)

		breakdown := pricing.Calculate(pricing.Input{
			NewCost: item.NewCost,
			Pie1:    item.Pie1,
			Pie2:    item.Pie2,
			ICUI:    item.ICUI,
			TaxRate: item.TaxRate,
			Margin:  pricing.ParseAmount(input.Margin),
			PDV:     pricing.ParseAmount(input.PDV),
		})

		response.Items = append(response.Items, dto.FinalizePreviewItemDTO{
			LineItemID:   item.ID,
			MarginValid:  marginRes.Valid,
			MarginError:  marginRes.Error,
			PDVValid:     pdvRes.Valid,
			PDVError:     pdvRes.Error,
			FeeValue:     breakdown.FeeValue,
			CostAfterFee: breakdown.CostAfterFee,
			CostPlusICUI: breakdown.CostPlusICUI,
			TaxValue:     breakdown.TaxValue,
			CostPlusTax:  breakdown.CostPlusTax,
			FinalPrice:   breakdown.FinalPrice,
			POSPrice:     breakdown.POSPrice,
		})
	}

	return response
}

// readCachedPreview returns a cached preview when the exact same inputs were
// previewed before and no transition has invalidated them since
func (s *CodingFlowImpl) readCachedPreview(ctx context.Context, requestID uint, req *dto.FinalizePreviewRequest) *dto.FinalizePreviewResponse {
	if s.rc == nil {
		return nil
	}

	key := previewCacheKey(requestID, previewCacheDigest(req))
	bs, err := s.rc.Get(ctx, key).Bytes()
	if err != nil || len(bs) == 0 {
		return nil
	}

	var cached dto.FinalizePreviewResponse
	if err := json.Unmarshal(bs, &cached); err != nil {
		return nil
	}
	return &cached
}

func (s *CodingFlowImpl) writeCachedPreview(ctx context.Context, requestID uint, req *dto.FinalizePreviewRequest, response *dto.FinalizePreviewResponse) {
	if s.rc == nil {
		return
	}

	bs, err := json.Marshal(response)
	if err != nil {
		return
	}

	key := previewCacheKey(requestID, previewCacheDigest(req))
	if err := s.rc.Set(ctx, key, bs, utils.PreviewCacheTTL).Err(); err != nil {
		return
	}
	_ = s.rc.SAdd(ctx, previewIndexKey(requestID), key).Err()
	_ = s.rc.Expire(ctx, previewIndexKey(requestID), utils.PreviewCacheTTL).Err()
}

// previewCacheDigest folds the preview inputs into a stable cache key part
func previewCacheDigest(req *dto.FinalizePreviewRequest) string {
	digest := req.FechaAplicacion
	for _, item := range req.Items {
		digest += fmt.Sprintf("|%d:%s:%s", item.LineItemID, item.Margin, item.PDV)
	}
	return digest
}
