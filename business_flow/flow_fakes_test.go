package businessflow

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/surtimax/cost-approvals/models"
)

// In-memory repository fakes backing the flow tests. Only the methods the
// flows actually touch have real behavior.

type fakeRequestRepo struct {
	requests map[uint]*models.CostUpdateRequest
}

func newFakeRequestRepo(requests ...*models.CostUpdateRequest) *fakeRequestRepo {
	repo := &fakeRequestRepo{requests: make(map[uint]*models.CostUpdateRequest)}
	for _, r := range requests {
		repo.requests[r.ID] = r
	}
	return repo
}

func (f *fakeRequestRepo) ByID(ctx context.Context, id uint) (*models.CostUpdateRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	return r, nil
}

func (f *fakeRequestRepo) ByFilter(ctx context.Context, filter models.CostUpdateRequestFilter, orderBy string, limit, offset int) ([]*models.CostUpdateRequest, error) {
	out := make([]*models.CostUpdateRequest, 0, len(f.requests))
	for _, r := range f.requests {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.BuyerID != nil && r.BuyerID != *filter.BuyerID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequestRepo) Save(ctx context.Context, entity *models.CostUpdateRequest) error {
	f.requests[entity.ID] = entity
	return nil
}

func (f *fakeRequestRepo) SaveBatch(ctx context.Context, entities []*models.CostUpdateRequest) error {
	for _, e := range entities {
		f.requests[e.ID] = e
	}
	return nil
}

func (f *fakeRequestRepo) Count(ctx context.Context, filter models.CostUpdateRequestFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeRequestRepo) Exists(ctx context.Context, filter models.CostUpdateRequestFilter) (bool, error) {
	n, _ := f.Count(ctx, filter)
	return n > 0, nil
}

func (f *fakeRequestRepo) ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*models.CostUpdateRequest, error) {
	return f.ByFilter(ctx, models.CostUpdateRequestFilter{BuyerID: &buyerID}, "", limit, offset)
}

func (f *fakeRequestRepo) ListByStatus(ctx context.Context, status models.CostUpdateStatus, limit, offset int) ([]*models.CostUpdateRequest, error) {
	return f.ByFilter(ctx, models.CostUpdateRequestFilter{Status: &status}, "", limit, offset)
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id uint, status models.CostUpdateStatus, observations *string) error {
	r, ok := f.requests[id]
	if !ok {
		return errors.New("request not found")
	}
	r.Status = status
	if observations != nil {
		r.Observations = observations
	}
	return nil
}

func (f *fakeRequestRepo) MarkApplied(ctx context.Context, id uint, appliedDate time.Time) error {
	r, ok := f.requests[id]
	if !ok {
		return errors.New("request not found")
	}
	if r.AppliedDate == nil {
		r.AppliedDate = &appliedDate
	}
	return nil
}

type fakeLineItemRepo struct {
	items   map[uint][]*models.LineItem // requestID -> items
	updated []*models.LineItem
}

func newFakeLineItemRepo() *fakeLineItemRepo {
	return &fakeLineItemRepo{items: make(map[uint][]*models.LineItem)}
}

func (f *fakeLineItemRepo) ByID(ctx context.Context, id uint) (*models.LineItem, error) {
	for _, items := range f.items {
		for _, item := range items {
			if item.ID == id {
				return item, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeLineItemRepo) ByFilter(ctx context.Context, filter models.LineItemFilter, orderBy string, limit, offset int) ([]*models.LineItem, error) {
	return nil, nil
}

func (f *fakeLineItemRepo) Save(ctx context.Context, entity *models.LineItem) error {
	f.items[entity.RequestID] = append(f.items[entity.RequestID], entity)
	return nil
}

func (f *fakeLineItemRepo) SaveBatch(ctx context.Context, entities []*models.LineItem) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeLineItemRepo) Count(ctx context.Context, filter models.LineItemFilter) (int64, error) {
	return 0, nil
}

func (f *fakeLineItemRepo) Exists(ctx context.Context, filter models.LineItemFilter) (bool, error) {
	return false, nil
}

func (f *fakeLineItemRepo) ListByRequest(ctx context.Context, requestID uint) ([]*models.LineItem, error) {
	return f.items[requestID], nil
}

func (f *fakeLineItemRepo) UpdateDerivedFields(ctx context.Context, item *models.LineItem) error {
	f.updated = append(f.updated, item)
	return nil
}

type fakeEventRepo struct {
	events []*models.TraceabilityEvent
}

func (f *fakeEventRepo) ByID(ctx context.Context, id uint) (*models.TraceabilityEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) ByFilter(ctx context.Context, filter models.TraceabilityEventFilter, orderBy string, limit, offset int) ([]*models.TraceabilityEvent, error) {
	return f.events, nil
}

func (f *fakeEventRepo) Save(ctx context.Context, entity *models.TraceabilityEvent) error {
	f.events = append(f.events, entity)
	return nil
}

func (f *fakeEventRepo) SaveBatch(ctx context.Context, entities []*models.TraceabilityEvent) error {
	f.events = append(f.events, entities...)
	return nil
}

func (f *fakeEventRepo) Count(ctx context.Context, filter models.TraceabilityEventFilter) (int64, error) {
	return int64(len(f.events)), nil
}

func (f *fakeEventRepo) Exists(ctx context.Context, filter models.TraceabilityEventFilter) (bool, error) {
	return len(f.events) > 0, nil
}

func (f *fakeEventRepo) ListByRequest(ctx context.Context, requestID uint) ([]*models.TraceabilityEvent, error) {
	out := make([]*models.TraceabilityEvent, 0, len(f.events))
	for _, e := range f.events {
		if e.RequestID == requestID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []*models.AuditLog
}

func (f *fakeAuditRepo) ByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepo) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) Save(ctx context.Context, entity *models.AuditLog) error {
	f.entries = append(f.entries, entity)
	return nil
}

func (f *fakeAuditRepo) SaveBatch(ctx context.Context, entities []*models.AuditLog) error {
	f.entries = append(f.entries, entities...)
	return nil
}

func (f *fakeAuditRepo) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	return int64(len(f.entries)), nil
}

func (f *fakeAuditRepo) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	return len(f.entries) > 0, nil
}

func (f *fakeAuditRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	out := make([]*models.AuditLog, 0, len(f.entries))
	for _, e := range f.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepo) ListSecurityEvents(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}

type fakeNotifier struct {
	sent []string // recipient addresses
}

func (f *fakeNotifier) SendEmail(ctx context.Context, email, subject, message string) error {
	f.sent = append(f.sent, email)
	return nil
}
