package businessflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/utils"
)

func newCodingFixture(status models.CostUpdateStatus) (*fakeRequestRepo, *fakeLineItemRepo, *fakeEventRepo, *fakeAuditRepo, *fakeNotifier, CodingFlow) {
	buyer := &models.User{ID: 3, FullName: "Laura Pineda", Email: "laura@surtimax.co", Role: models.UserRoleBuyer}
	request := &models.CostUpdateRequest{
		ID:         42,
		ProviderID: 7,
		BuyerID:    buyer.ID,
		Status:     status,
		Buyer:      buyer,
	}
	requestRepo := newFakeRequestRepo(request)

	lineItemRepo := newFakeLineItemRepo()
	_ = lineItemRepo.Save(context.Background(), &models.LineItem{
		ID: 101, RequestID: 42, Barcode: "7701234567890", ItemCode: "A-5531",
		Description: "Aceite vegetal 1L", Unit: "UN",
		CurrentCost: 950, NewCost: 1000, TaxRate: 19, Pie1: 2, Pie2: 0, ICUI: 50,
	})
	_ = lineItemRepo.Save(context.Background(), &models.LineItem{
		ID: 102, RequestID: 42, Barcode: "7709876543210", ItemCode: "A-5532",
		Description: "Arroz premium 500g", Unit: "UN",
		CurrentCost: 1800, NewCost: 2000, TaxRate: 5, Pie1: 0, Pie2: 0, ICUI: 0,
	})

	eventRepo := &fakeEventRepo{}
	auditRepo := &fakeAuditRepo{}
	notifier := &fakeNotifier{}
	flow := NewCodingFlow(requestRepo, lineItemRepo, eventRepo, auditRepo, nil, notifier, nil)
	return requestRepo, lineItemRepo, eventRepo, auditRepo, notifier, flow
}

func TestFinalize_HappyPath(t *testing.T) {
	requestRepo, lineItemRepo, eventRepo, auditRepo, notifier, flow := newCodingFixture(models.CostUpdateStatusApproved)

	resp, err := flow.Finalize(context.Background(), &dto.FinalizeRequest{
		IDSolicitud: 42,
		Items: []dto.FinalizeItem{
			{LineItemID: 101, Margin: "30", PDV: "100"},
			{LineItemID: 102, Margin: "25", PDV: "0"},
		},
		FechaAplicacion: "2026-03-01",
	}, coderActor(), nil)

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.PreviousStatus)
	assert.Equal(t, "applied", resp.NewStatus)

	stored := requestRepo.requests[42]
	assert.Equal(t, models.CostUpdateStatusApplied, stored.Status)
	require.NotNil(t, stored.AppliedDate)
	assert.Equal(t, "2026-03-01", utils.FormatDate(stored.AppliedDate))

	// Derived prices on the first item follow the fixed calculation order
	require.Len(t, lineItemRepo.updated, 2)
	first := lineItemRepo.updated[0]
	require.NotNil(t, first.FeeValue)
	assert.InDelta(t, 20.0, *first.FeeValue, 1e-9)
	assert.InDelta(t, 980.0, *first.CostAfterFee, 1e-9)
	assert.InDelta(t, 1030.0, *first.CostPlusICUI, 1e-9)
	assert.InDelta(t, 195.7, *first.TaxValue, 1e-9)
	assert.InDelta(t, 1225.7, *first.CostPlusTax, 1e-9)
	assert.InDelta(t, 1593.41, *first.FinalPrice, 1e-9)
	assert.InDelta(t, 1693.41, *first.POSPrice, 1e-9)

	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, models.CostUpdateStatusApplied, eventRepo.events[0].NewStatus)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, models.AuditActionCodingFinished, auditRepo.entries[0].Action)

	assert.Equal(t, []string{"laura@surtimax.co"}, notifier.sent)
}

func TestFinalize_IncompleteItemsBlockTheGate(t *testing.T) {
	requestRepo, lineItemRepo, _, _, _, flow := newCodingFixture(models.CostUpdateStatusApproved)

	// Item 102 is missing entirely, which counts the same as an empty pdv
	_, err := flow.Finalize(context.Background(), &dto.FinalizeRequest{
		IDSolicitud: 42,
		Items: []dto.FinalizeItem{
			{LineItemID: 101, Margin: "30", PDV: "100"},
		},
		FechaAplicacion: "2026-03-01",
	}, coderActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLineItemsIncomplete)
	assert.Equal(t, models.CostUpdateStatusApproved, requestRepo.requests[42].Status)
	assert.Nil(t, requestRepo.requests[42].AppliedDate)
	assert.Empty(t, lineItemRepo.updated)
}

func TestFinalize_InvalidMarginBlocksTheGate(t *testing.T) {
	_, _, _, _, _, flow := newCodingFixture(models.CostUpdateStatusApproved)

	_, err := flow.Finalize(context.Background(), &dto.FinalizeRequest{
		IDSolicitud: 42,
		Items: []dto.FinalizeItem{
			{LineItemID: 101, Margin: "05", PDV: "100"}, // leading zero
			{LineItemID: 102, Margin: "25", PDV: "0"},
		},
		FechaAplicacion: "2026-03-01",
	}, coderActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLineItemsIncomplete)
}

func TestFinalize_SentinelDateRejected(t *testing.T) {
	_, _, _, _, _, flow := newCodingFixture(models.CostUpdateStatusApproved)

	_, err := flow.Finalize(context.Background(), &dto.FinalizeRequest{
		IDSolicitud: 42,
		Items: []dto.FinalizeItem{
			{LineItemID: 101, Margin: "30", PDV: "100"},
			{LineItemID: 102, Margin: "25", PDV: "0"},
		},
		FechaAplicacion: utils.NoDateSentinel,
	}, coderActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrApplicationDateRequired)
}

func TestFinalize_RoleGate(t *testing.T) {
	_, _, _, _, _, flow := newCodingFixture(models.CostUpdateStatusApproved)

	_, err := flow.Finalize(context.Background(), &dto.FinalizeRequest{
		IDSolicitud: 42,
		Items: []dto.FinalizeItem{
			{LineItemID: 101, Margin: "30", PDV: "100"},
			{LineItemID: 102, Margin: "25", PDV: "0"},
		},
		FechaAplicacion: "2026-03-01",
	}, buyerActor(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbiddenTransition)
}

func TestFinalize_RequiresApprovedStatus(t *testing.T) {
	_, _, _, _, _, flow := newCodingFixture(models.CostUpdateStatusPending)

	_, err := flow.Finalize(context.Background(), &dto.FinalizeRequest{
		IDSolicitud: 42,
		Items: []dto.FinalizeItem{
			{LineItemID: 101, Margin: "30", PDV: "100"},
			{LineItemID: 102, Margin: "25", PDV: "0"},
		},
		FechaAplicacion: "2026-03-01",
	}, coderActor(), nil)

	require.Error(t, err)
	assert.True(t, IsTransitionNotAllowed(err))
}

func TestPreviewFinalize_CountersAndBreakdowns(t *testing.T) {
	_, _, _, _, _, flow := newCodingFixture(models.CostUpdateStatusApproved)

	resp, err := flow.PreviewFinalize(context.Background(), 42, &dto.FinalizePreviewRequest{
		Items: []dto.FinalizeItem{
			{LineItemID: 101, Margin: "30", PDV: "100"},
			{LineItemID: 102, Margin: "25", PDV: ""}, // pdv pending
		},
		FechaAplicacion: "2026-03-01",
	}, coderActor())

	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalItems)
	assert.Equal(t, 2, resp.MarginCompleted)
	assert.Equal(t, 1, resp.PDVCompleted)
	assert.True(t, resp.DateSet)
	assert.False(t, resp.Complete)

	require.Len(t, resp.Items, 2)
	first := resp.Items[0]
	assert.True(t, first.MarginValid)
	assert.True(t, first.PDVValid)
	assert.InDelta(t, 1693.41, first.POSPrice, 1e-9)

	second := resp.Items[1]
	assert.True(t, second.MarginValid)
	assert.False(t, second.PDVValid)
}

func TestPreviewFinalize_RoleGate(t *testing.T) {
	_, _, _, _, _, flow := newCodingFixture(models.CostUpdateStatusApproved)

	_, err := flow.PreviewFinalize(context.Background(), 42, &dto.FinalizePreviewRequest{
		Items: []dto.FinalizeItem{{LineItemID: 101, Margin: "30", PDV: "100"}},
	}, buyerActor())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbiddenTransition)
}
