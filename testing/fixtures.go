// Package testing provides test utilities and database setup for testing the approval workflow
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a test user with the given workflow role
func (tf *TestFixtures) CreateTestUser(role models.UserRole) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(10000000)
	user := &models.User{
		UUID:         uuid.New(),
		FullName:     fmt.Sprintf("Test %s %d", role, suffix),
		Email:        fmt.Sprintf("%s.%d@surtimax.co", role, suffix),
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestProvider creates a test provider
func (tf *TestFixtures) CreateTestProvider() (*models.Provider, error) {
	suffix := rand.Intn(10000000)
	email := fmt.Sprintf("ventas.%d@proveedor.co", suffix)

	provider := &models.Provider{
		UUID:         uuid.New(),
		Name:         fmt.Sprintf("Distribuidora Test %d", suffix),
		TaxID:        fmt.Sprintf("%09d-%d", rand.Intn(900000000)+100000000, rand.Intn(10)),
		ContactEmail: &email,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(provider).Error; err != nil {
		return nil, fmt.Errorf("failed to create test provider: %w", err)
	}

	return provider, nil
}

// CreateTestRequest creates a cost-update request at the given status
func (tf *TestFixtures) CreateTestRequest(buyerID, providerID uint, status models.CostUpdateStatus) (*models.CostUpdateRequest, error) {
	scheduled := time.Now().UTC().AddDate(0, 1, 0)

	request := &models.CostUpdateRequest{
		UUID:          uuid.New(),
		ProviderID:    providerID,
		BuyerID:       buyerID,
		Status:        status,
		ScheduledDate: &scheduled,
	}

	if err := tf.DB.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create test request: %w", err)
	}

	return request, nil
}

// CreateTestLineItem creates a line item on the given request. The intake
// fields are filled; the finalize-stage fields stay nil until finalization.
func (tf *TestFixtures) CreateTestLineItem(requestID uint) (*models.LineItem, error) {
	suffix := rand.Intn(10000000)

	item := &models.LineItem{
		RequestID:   requestID,
		Barcode:     fmt.Sprintf("770123%07d", suffix),
		ItemCode:    fmt.Sprintf("ART-%07d", suffix),
		Description: "Aceite vegetal 1L",
		Unit:        "UND",
		CurrentCost: 950,
		NewCost:     1000,
		TaxRate:     19,
		Pie1:        2,
		Pie2:        0,
		ICUI:        50,
		IPO:         0,
	}

	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test line item: %w", err)
	}

	return item, nil
}

// CreateTestTraceabilityEvent records a transition on the given request
func (tf *TestFixtures) CreateTestTraceabilityEvent(requestID uint, actor *models.User, from, to models.CostUpdateStatus, comment string) (*models.TraceabilityEvent, error) {
	event := &models.TraceabilityEvent{
		RequestID:      requestID,
		PreviousStatus: from,
		NewStatus:      to,
		ActorID:        actor.ID,
		ActorName:      actor.FullName,
		ActorEmail:     actor.Email,
	}
	if comment != "" {
		event.Comment = &comment
	}

	if err := tf.DB.DB.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create test traceability event: %w", err)
	}

	return event, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(userID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Description: &description,
		Success:     &success,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}

// CreateWorkflowUsers creates one user per workflow role
func (tf *TestFixtures) CreateWorkflowUsers() (buyer, reviewer, coder *models.User, err error) {
	if buyer, err = tf.CreateTestUser(models.UserRoleBuyer); err != nil {
		return nil, nil, nil, err
	}
	if reviewer, err = tf.CreateTestUser(models.UserRoleReviewer); err != nil {
		return nil, nil, nil, err
	}
	if coder, err = tf.CreateTestUser(models.UserRoleCoder); err != nil {
		return nil, nil, nil, err
	}
	return buyer, reviewer, coder, nil
}

// CreateRequestWithItems creates a request with the given number of line items
func (tf *TestFixtures) CreateRequestWithItems(buyerID, providerID uint, status models.CostUpdateStatus, itemCount int) (*models.CostUpdateRequest, []*models.LineItem, error) {
	request, err := tf.CreateTestRequest(buyerID, providerID, status)
	if err != nil {
		return nil, nil, err
	}

	items := make([]*models.LineItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		item, err := tf.CreateTestLineItem(request.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create line item %d: %w", i, err)
		}
		items = append(items, item)
	}

	return request, items, nil
}
