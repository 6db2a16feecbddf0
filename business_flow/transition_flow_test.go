package businessflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/models"
)

func newTransitionFixture(status models.CostUpdateStatus) (*fakeRequestRepo, *fakeEventRepo, *fakeAuditRepo, *fakeNotifier, TransitionFlow) {
	buyer := &models.User{ID: 3, FullName: "Laura Pineda", Email: "laura@surtimax.co", Role: models.UserRoleBuyer}
	request := &models.CostUpdateRequest{
		ID:         42,
		ProviderID: 7,
		BuyerID:    buyer.ID,
		Status:     status,
		Buyer:      buyer,
	}
	requestRepo := newFakeRequestRepo(request)
	eventRepo := &fakeEventRepo{}
	auditRepo := &fakeAuditRepo{}
	notifier := &fakeNotifier{}
	flow := NewTransitionFlow(requestRepo, eventRepo, auditRepo, nil, notifier, nil)
	return requestRepo, eventRepo, auditRepo, notifier, flow
}

func buyerActor() Actor {
	return Actor{ID: 3, Name: "Laura Pineda", Email: "laura@surtimax.co", Role: models.UserRoleBuyer}
}

func reviewerActor() Actor {
	return Actor{ID: 5, Name: "Carlos Rojas", Email: "carlos@surtimax.co", Role: models.UserRoleReviewer}
}

func coderActor() Actor {
	return Actor{ID: 8, Name: "Diana Ortiz", Email: "diana@surtimax.co", Role: models.UserRoleCoder}
}

func TestTransition_SubmitForApproval(t *testing.T) {
	requestRepo, eventRepo, auditRepo, notifier, flow := newTransitionFixture(models.CostUpdateStatusPending)

	resp, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action:       models.ActionSubmitForApproval.String(),
		Observations: "Costos acordes al contrato vigente",
	}, buyerActor(), &ClientMetadata{IPAddress: "10.0.0.1"})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.PreviousStatus)
	assert.Equal(t, "in_review", resp.NewStatus)

	stored := requestRepo.requests[42]
	assert.Equal(t, models.CostUpdateStatusInReview, stored.Status)
	require.NotNil(t, stored.Observations)
	assert.Equal(t, "Costos acordes al contrato vigente", *stored.Observations)

	require.Len(t, eventRepo.events, 1)
	event := eventRepo.events[0]
	assert.Equal(t, models.CostUpdateStatusPending, event.PreviousStatus)
	assert.Equal(t, models.CostUpdateStatusInReview, event.NewStatus)
	assert.Equal(t, "Laura Pineda", event.ActorName)
	require.NotNil(t, event.Comment)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, models.AuditActionRequestSubmitted, auditRepo.entries[0].Action)

	assert.Equal(t, []string{"laura@surtimax.co"}, notifier.sent)
}

func TestTransition_SubmitRequiresObservations(t *testing.T) {
	requestRepo, eventRepo, _, _, flow := newTransitionFixture(models.CostUpdateStatusPending)

	_, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action:       models.ActionSubmitForApproval.String(),
		Observations: "   ",
	}, buyerActor(), nil)

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.ErrorIs(t, err, ErrObservationsRequired)

	assert.Equal(t, models.CostUpdateStatusPending, requestRepo.requests[42].Status)
	assert.Empty(t, eventRepo.events)
}

func TestTransition_RoleGate(t *testing.T) {
	requestRepo, _, auditRepo, _, flow := newTransitionFixture(models.CostUpdateStatusPending)

	_, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action:       models.ActionSubmitForApproval.String(),
		Observations: "ok",
	}, reviewerActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbiddenTransition)
	assert.Equal(t, models.CostUpdateStatusPending, requestRepo.requests[42].Status)

	// The blocked attempt is audited
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, models.AuditActionTransitionBlocked, auditRepo.entries[0].Action)
}

func TestTransition_AdminOverridesRoleGate(t *testing.T) {
	requestRepo, _, _, _, flow := newTransitionFixture(models.CostUpdateStatusInReview)

	admin := Actor{ID: 1, Name: "Root", Email: "root@surtimax.co", Role: models.UserRoleAdmin}
	resp, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action: models.ActionApproveRevision.String(),
	}, admin, nil)

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.NewStatus)
	assert.Equal(t, models.CostUpdateStatusApproved, requestRepo.requests[42].Status)
}

func TestTransition_RejectRevisionRequiresComment(t *testing.T) {
	_, _, _, _, flow := newTransitionFixture(models.CostUpdateStatusInReview)

	_, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action: models.ActionRejectRevision.String(),
	}, reviewerActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommentRequired)
}

func TestTransition_WrongSourceStatus(t *testing.T) {
	requestRepo, eventRepo, _, _, flow := newTransitionFixture(models.CostUpdateStatusPending)

	_, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action: models.ActionApproveRevision.String(),
	}, reviewerActor(), nil)

	require.Error(t, err)
	assert.True(t, IsTransitionNotAllowed(err))
	assert.Equal(t, models.CostUpdateStatusPending, requestRepo.requests[42].Status)
	assert.Empty(t, eventRepo.events)
}

func TestTransition_TerminalStatusRejectsEverything(t *testing.T) {
	_, _, _, _, flow := newTransitionFixture(models.CostUpdateStatusRejected)

	_, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action:       models.ActionReject.String(),
		Observations: "too late",
	}, buyerActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestAlreadyClosed)
}

func TestTransition_UnknownAction(t *testing.T) {
	_, _, _, _, flow := newTransitionFixture(models.CostUpdateStatusPending)

	_, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action: "aprobar-todo",
	}, buyerActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestTransition_FinalizeNotServedHere(t *testing.T) {
	// terminar-codificacion needs margins, pdv and a date; the generic
	// endpoint refuses it.
	_, _, _, _, flow := newTransitionFixture(models.CostUpdateStatusApproved)

	_, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action: models.ActionFinishCoding.String(),
	}, coderActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestTransition_BuyerScope(t *testing.T) {
	_, _, _, _, flow := newTransitionFixture(models.CostUpdateStatusPending)

	other := Actor{ID: 99, Name: "Otro", Email: "otro@surtimax.co", Role: models.UserRoleBuyer}
	_, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action:       models.ActionReject.String(),
		Observations: "mine now",
	}, other, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestAccessDenied)
}

func TestTransition_RejectCodingMovesApprovedToRejected(t *testing.T) {
	requestRepo, eventRepo, _, _, flow := newTransitionFixture(models.CostUpdateStatusApproved)

	resp, err := flow.Transition(context.Background(), 42, &dto.TransitionRequest{
		Action:       models.ActionRejectCoding.String(),
		Observations: "Codigos de barras duplicados",
	}, coderActor(), nil)

	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.NewStatus)
	assert.Equal(t, models.CostUpdateStatusRejected, requestRepo.requests[42].Status)
	require.Len(t, eventRepo.events, 1)
}
