// Package businessflow contains the core business logic and use cases for cost-update workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/app/services"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/repository"
	"gorm.io/gorm"
)

// TransitionFlow executes the role-gated status transitions of the workflow.
// The finalize transition has its own flow because it additionally runs the
// pricing calculator; every other action goes through here.
type TransitionFlow interface {
	Transition(ctx context.Context, requestID uint, req *dto.TransitionRequest, actor Actor, metadata *ClientMetadata) (*dto.TransitionResponse, error)
}

// TransitionFlowImpl implements the request state machine
type TransitionFlowImpl struct {
	requestRepo repository.CostUpdateRequestRepository
	eventRepo   repository.TraceabilityEventRepository
	auditRepo   repository.AuditLogRepository
	notifier    services.NotificationService
	rc          *redis.Client
	db          *gorm.DB
}

// NewTransitionFlow creates a new transition flow instance
func NewTransitionFlow(
	requestRepo repository.CostUpdateRequestRepository,
	eventRepo repository.TraceabilityEventRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	notifier services.NotificationService,
	rc *redis.Client,
) TransitionFlow {
	return &TransitionFlowImpl{
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		auditRepo:   auditRepo,
		notifier:    notifier,
		rc:          rc,
		db:          db,
	}
}

// Transition applies a workflow action to a request. The checks run in a
// fixed order: the action must exist, the actor's role must match the rule,
// the comment requirement must be met, and the request must still be at the
// rule's source status when re-read inside the transaction. A failure at any
// point leaves the request untouched.
func (s *TransitionFlowImpl) Transition(ctx context.Context, requestID uint, req *dto.TransitionRequest, actor Actor, metadata *ClientMetadata) (*dto.TransitionResponse, error) {
	if req == nil || requestID == 0 {
		return nil, NewBusinessError("TRANSITION_VALIDATION_FAILED", "Request id and action are required", ErrUnknownAction)
	}

	action := models.TransitionAction(req.Action)
	rule, ok := models.RuleFor(action)
	if !ok || action == models.ActionFinishCoding {
		return nil, NewBusinessError("TRANSITION_UNKNOWN_ACTION", fmt.Sprintf("Unknown action %q", req.Action), ErrUnknownAction)
	}

	if actor.Role != rule.Role && actor.Role != models.UserRoleAdmin {
		s.audit(ctx, actor, requestID, models.AuditActionTransitionBlocked, false, metadata,
			fmt.Sprintf("role %s attempted %s", actor.Role, action))
		return nil, NewBusinessError("TRANSITION_FORBIDDEN",
			fmt.Sprintf("Role %s may not perform %s", actor.Role, action), ErrForbiddenTransition)
	}

	observations := strings.TrimSpace(req.Observations)
	if rule.RequiresComment && observations == "" {
		if action == models.ActionSubmitForApproval {
			return nil, NewBusinessError("TRANSITION_VALIDATION_FAILED", "Observations are required", ErrObservationsRequired)
		}
		return nil, NewBusinessError("TRANSITION_VALIDATION_FAILED", "A comment is required", ErrCommentRequired)
	}

	var request *models.CostUpdateRequest
	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		request, err = s.requestRepo.ByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return ErrRequestNotFound
		}
		if actor.Role == models.UserRoleBuyer && request.BuyerID != actor.ID {
			return ErrRequestAccessDenied
		}
		if request.Status.IsTerminal() {
			return ErrRequestAlreadyClosed
		}
		if request.Status != rule.From || !request.CanTransitionTo(rule.To) {
			return ErrTransitionNotAllowed
		}

		var obs *string
		if observations != "" {
			obs = &observations
		}
		if err := s.requestRepo.UpdateStatus(txCtx, request.ID, rule.To, obs); err != nil {
			return err
		}

		event := &models.TraceabilityEvent{
			RequestID:      request.ID,
			PreviousStatus: rule.From,
			NewStatus:      rule.To,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			ActorEmail:     actor.Email,
			Comment:        obs,
		}
		if err := s.eventRepo.Save(txCtx, event); err != nil {
			return err
		}

		return s.auditTx(txCtx, actor, request.ID, auditActionFor(action), true, metadata, "")
	})
	if err != nil {
		if IsValidationError(err) || IsTransitionNotAllowed(err) || IsForbiddenTransition(err) ||
			IsRequestNotFound(err) || IsRequestAccessDenied(err) {
			return nil, NewBusinessError("TRANSITION_REJECTED", "Transition rejected", err)
		}
		return nil, NewBusinessError("TRANSITION_FAILED", "Failed to apply transition", err)
	}

	// Notify the requesting buyer (best-effort, outside transaction)
	if s.notifier != nil && request.Buyer != nil && request.Buyer.Email != "" {
		subject := fmt.Sprintf("Cost update #%d: %s", request.ID, rule.To.String())
		body := fmt.Sprintf("Request #%d moved from %s to %s by %s.", request.ID, rule.From, rule.To, actor.Name)
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

// audit writes an audit row on its own connection, outside any transaction
func (s *TransitionFlowImpl) audit(ctx context.Context, actor Actor, requestID uint, action string, success bool, metadata *ClientMetadata, errMsg string) {
	_ = s.auditTx(ctx, actor, requestID, action, success, metadata, errMsg)
}

func (s *TransitionFlowImpl) auditTx(ctx context.Context, actor Actor, requestID uint, action string, success bool, metadata *ClientMetadata, errMsg string) error {
	if s.auditRepo == nil {
		return nil
	}

	entry := &models.AuditLog{
		UserID:       &actor.ID,
		RequestRefID: &requestID,
		Action:       action,
		Success:      &success,
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
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
		if meta, err := json.Marshal(metadata); err == nil {
			entry.Metadata = meta
		}
	}

	return s.auditRepo.Save(ctx, entry)
}

func auditActionFor(action models.TransitionAction) string {
	switch action {
	case models.ActionSubmitForApproval:
		return models.AuditActionRequestSubmitted
	case models.ActionReject:
		return models.AuditActionRequestRejected
	case models.ActionApproveRevision:
		return models.AuditActionRevisionApproved
	case models.ActionRejectRevision:
		return models.AuditActionRevisionRejected
	case models.ActionFinishCoding:
		return models.AuditActionCodingFinished
	case models.ActionRejectCoding:
		return models.AuditActionCodingRejected
	default:
		return models.AuditActionTransitionBlocked
	}
}

// previewCacheKey builds the composite (request id, application date) key of
// a cached finalize preview.
func previewCacheKey(requestID uint, date string) string {
	return fmt.Sprintf("cost-approvals:finalize-preview:%d:%s", requestID, date)
}

// previewIndexKey tracks the preview keys written for a request so they can
// be dropped without scanning the keyspace.
func previewIndexKey(requestID uint) string {
	return fmt.Sprintf("cost-approvals:finalize-preview-index:%d", requestID)
}

// InvalidatePreviewCache drops every cached finalize preview of a request.
// Any status change makes the cached breakdowns stale.
func InvalidatePreviewCache(ctx context.Context, rc *redis.Client, requestID uint) {
	if rc == nil {
		return
	}

	indexKey := previewIndexKey(requestID)
	keys, err := rc.SMembers(ctx, indexKey).Result()
	if err == nil && len(keys) > 0 {
		_ = rc.Del(ctx, keys...).Err()
	}
	_ = rc.Del(ctx, indexKey).Err()
}
