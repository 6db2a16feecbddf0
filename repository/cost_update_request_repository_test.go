package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/repository"
	testingutil "github.com/surtimax/cost-approvals/testing"
	"github.com/surtimax/cost-approvals/utils"
)

// setupRepoDB provisions a throwaway database and skips the test when no
// postgres server is reachable, so the suite stays runnable without one.
func setupRepoDB(t *testing.T) *testingutil.TestDB {
	t.Helper()
	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("teardown: %v", err)
		}
	})
	return testDB
}

func TestCostUpdateRequestRepository(t *testing.T) {
	testDB := setupRepoDB(t)
	repo := repository.NewCostUpdateRequestRepository(testDB.DB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	buyer, err := fixtures.CreateTestUser(models.UserRoleBuyer)
	require.NoError(t, err)
	provider, err := fixtures.CreateTestProvider()
	require.NoError(t, err)

	t.Run("ByIDPreloadsLineItems", func(t *testing.T) {
		request, items, err := fixtures.CreateRequestWithItems(buyer.ID, provider.ID, models.CostUpdateStatusPending, 2)
		require.NoError(t, err)

		loaded, err := repo.ByID(ctx, request.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, request.UUID, loaded.UUID)
		require.NotNil(t, loaded.Provider)
		assert.Equal(t, provider.Name, loaded.Provider.Name)
		require.Len(t, loaded.LineItems, 2)
		assert.Equal(t, items[0].Barcode, loaded.LineItems[0].Barcode)
	})

	t.Run("ByIDNotFound", func(t *testing.T) {
		loaded, err := repo.ByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("UpdateStatusWithObservations", func(t *testing.T) {
		request, err := fixtures.CreateTestRequest(buyer.ID, provider.ID, models.CostUpdateStatusPending)
		require.NoError(t, err)

		obs := "Costos acordes al contrato vigente"
		require.NoError(t, repo.UpdateStatus(ctx, request.ID, models.CostUpdateStatusInReview, &obs))

		loaded, err := repo.ByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CostUpdateStatusInReview, loaded.Status)
		require.NotNil(t, loaded.Observations)
		assert.Equal(t, obs, *loaded.Observations)
		assert.NotNil(t, loaded.UpdatedAt)
	})

	t.Run("UpdateStatusKeepsObservationsWhenNil", func(t *testing.T) {
		request, err := fixtures.CreateTestRequest(buyer.ID, provider.ID, models.CostUpdateStatusInReview)
		require.NoError(t, err)

		obs := "Revision inicial"
		require.NoError(t, repo.UpdateStatus(ctx, request.ID, models.CostUpdateStatusApproved, &obs))
		require.NoError(t, repo.UpdateStatus(ctx, request.ID, models.CostUpdateStatusApplied, nil))

		loaded, err := repo.ByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CostUpdateStatusApplied, loaded.Status)
		require.NotNil(t, loaded.Observations)
		assert.Equal(t, obs, *loaded.Observations)
	})

	t.Run("MarkAppliedWritesDateOnce", func(t *testing.T) {
		request, err := fixtures.CreateTestRequest(buyer.ID, provider.ID, models.CostUpdateStatusApproved)
		require.NoError(t, err)

		first := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.MarkApplied(ctx, request.ID, first))

		loaded, err := repo.ByID(ctx, request.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.AppliedDate)
		assert.Equal(t, "2026-09-01", utils.FormatDate(loaded.AppliedDate))

		// A second call must not overwrite the recorded date.
		require.NoError(t, repo.MarkApplied(ctx, request.ID, first.AddDate(0, 0, 15)))

		loaded, err = repo.ByID(ctx, request.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.AppliedDate)
		assert.Equal(t, "2026-09-01", utils.FormatDate(loaded.AppliedDate))
	})

	t.Run("ByFilterAndCount", func(t *testing.T) {
		require.NoError(t, testDB.ClearAllTables())

		buyer, err := fixtures.CreateTestUser(models.UserRoleBuyer)
		require.NoError(t, err)
		otherBuyer, err := fixtures.CreateTestUser(models.UserRoleBuyer)
		require.NoError(t, err)
		provider, err := fixtures.CreateTestProvider()
		require.NoError(t, err)

		_, err = fixtures.CreateTestRequest(buyer.ID, provider.ID, models.CostUpdateStatusPending)
		require.NoError(t, err)
		_, err = fixtures.CreateTestRequest(buyer.ID, provider.ID, models.CostUpdateStatusApproved)
		require.NoError(t, err)
		_, err = fixtures.CreateTestRequest(otherBuyer.ID, provider.ID, models.CostUpdateStatusApproved)
		require.NoError(t, err)

		approved := models.CostUpdateStatusApproved
		rows, err := repo.ByFilter(ctx, models.CostUpdateRequestFilter{Status: &approved}, "id ASC", 0, 0)
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		rows, err = repo.ByFilter(ctx, models.CostUpdateRequestFilter{Status: &approved, BuyerID: &buyer.ID}, "id ASC", 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, buyer.ID, rows[0].BuyerID)

		count, err := repo.Count(ctx, models.CostUpdateRequestFilter{BuyerID: &buyer.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		exists, err := repo.Exists(ctx, models.CostUpdateRequestFilter{BuyerID: &otherBuyer.ID})
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
