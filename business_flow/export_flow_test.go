package businessflow

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/utils"
	"github.com/xuri/excelize/v2"
)

func newExportFixture() (*fakeRequestRepo, *fakeLineItemRepo, *fakeAuditRepo, ExportFlow) {
	provider := &models.Provider{ID: 7, Name: "Distribuidora Andina", TaxID: "900123456-1"}
	buyer := &models.User{ID: 3, FullName: "Laura Pineda", Email: "laura@surtimax.co", Role: models.UserRoleBuyer}
	otherBuyer := &models.User{ID: 4, FullName: "Pedro Gil", Email: "pedro@surtimax.co", Role: models.UserRoleBuyer}

	requestRepo := newFakeRequestRepo(
		&models.CostUpdateRequest{
			ID: 42, ProviderID: provider.ID, BuyerID: buyer.ID,
			Status: models.CostUpdateStatusApproved,
			Provider: provider, Buyer: buyer,
			CreatedAt: time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC),
		},
		&models.CostUpdateRequest{
			ID: 43, ProviderID: provider.ID, BuyerID: otherBuyer.ID,
			Status: models.CostUpdateStatusApproved,
			Provider: provider, Buyer: otherBuyer,
			CreatedAt: time.Date(2026, 8, 2, 15, 0, 0, 0, time.UTC),
		},
	)

	lineItemRepo := newFakeLineItemRepo()
	margin := 30.0
	pdv := 100.0
	finalPrice := 1500.5
	posPrice := 1600.5
	_ = lineItemRepo.Save(context.Background(), &models.LineItem{
		ID: 1, RequestID: 42,
		Barcode: "7701234567890", ItemCode: "ART-0001",
		Description: "Aceite vegetal 1L", Unit: "UND",
		CurrentCost: 950, NewCost: 1000, TaxRate: 19, Pie1: 2, ICUI: 50,
		Margin: &margin, PDV: &pdv, FinalPrice: &finalPrice, POSPrice: &posPrice,
	})
	_ = lineItemRepo.Save(context.Background(), &models.LineItem{
		ID: 2, RequestID: 42,
		Barcode: "7701234567891", ItemCode: "ART-0002",
		Description: "Harina de trigo 500g", Unit: "UND",
		CurrentCost: 1800, NewCost: 1900, TaxRate: 5,
	})
	_ = lineItemRepo.Save(context.Background(), &models.LineItem{
		ID: 3, RequestID: 43,
		Barcode: "7701234567892", ItemCode: "ART-0003",
		Description: "Arroz blanco 1kg", Unit: "UND",
		CurrentCost: 2400, NewCost: 2500, TaxRate: 0,
	})

	auditRepo := &fakeAuditRepo{}
	flow := NewExportFlow(requestRepo, lineItemRepo, auditRepo)
	return requestRepo, lineItemRepo, auditRepo, flow
}

func TestExportRequests_BuildsWorkbook(t *testing.T) {
	_, _, auditRepo, flow := newExportFixture()

	filename, data, err := flow.ExportRequests(context.Background(), "approved", reviewerActor(), &ClientMetadata{IPAddress: "10.0.0.1"})

	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "actualizaciones_costo_"+utils.BogotaNow().Format("20060102")+".xlsx", filename)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	require.Equal(t, []string{"Approved"}, xl.GetSheetList())

	rows, err := xl.GetRows("Approved")
	require.NoError(t, err)
	// Header plus one row per line item across both requests.
	require.Len(t, rows, 4)
	assert.Equal(t, "id_solicitud", rows[0][0])
	assert.Equal(t, "precio_pos", rows[0][21])

	first := rows[1]
	assert.Equal(t, "42", first[0])
	assert.Equal(t, "Distribuidora Andina", first[1])
	assert.Equal(t, "900123456-1", first[2])
	assert.Equal(t, "Laura Pineda", first[3])
	assert.Equal(t, "approved", first[4])
	assert.Equal(t, "7701234567890", first[7])
	assert.Equal(t, "30", first[18])
	assert.Equal(t, "1600.5", first[21])

	// Items without finalize-stage values export empty strings there.
	second := rows[2]
	assert.Equal(t, "ART-0002", second[8])
	assert.Equal(t, "", second[18])
	assert.Equal(t, "", second[21])

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, models.AuditActionExportGenerated, auditRepo.entries[0].Action)
}

func TestExportRequests_BuyerSeesOnlyOwnRequests(t *testing.T) {
	_, _, _, flow := newExportFixture()

	_, data, err := flow.ExportRequests(context.Background(), "approved", buyerActor(), nil)
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows("Approved")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows[1:] {
		assert.Equal(t, "42", row[0])
	}
}

func TestExportRequests_AllStatusesWhenUnfiltered(t *testing.T) {
	_, _, _, flow := newExportFixture()

	_, data, err := flow.ExportRequests(context.Background(), "", reviewerActor(), nil)
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	assert.Equal(t, []string{"Pending", "In Review", "Approved", "Applied", "Rejected"}, xl.GetSheetList())
}

func TestExportRequests_UnknownStatus(t *testing.T) {
	_, _, auditRepo, flow := newExportFixture()

	_, _, err := flow.ExportRequests(context.Background(), "archived", reviewerActor(), nil)

	require.Error(t, err)
	var bizErr *BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, "EXPORT_VALIDATION_FAILED", bizErr.Code)
	assert.Empty(t, auditRepo.entries)
}
