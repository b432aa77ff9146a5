package controllers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nusadigital/agency-site/ai"
	"github.com/nusadigital/agency-site/billplz"
	"github.com/nusadigital/agency-site/models"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/utils"
)

var ErrMockDB = errors.New("database unavailable")

// MockOrderRepository implements repository.OrderRepository for tests
type MockOrderRepository struct {
	mu sync.Mutex

	Orders map[string]*models.Order

	FindErr   error
	UpdateErr error
	Panic     bool

	SavedBills     map[string]repository.BillRecord
	SavedSessions  map[string]string
	PaymentUpdates map[string][]repository.PaymentUpdate
}

func NewMockOrderRepository(orders ...models.Order) *MockOrderRepository {
	m := &MockOrderRepository{
		Orders:         map[string]*models.Order{},
		SavedBills:     map[string]repository.BillRecord{},
		SavedSessions:  map[string]string{},
		PaymentUpdates: map[string][]repository.PaymentUpdate{},
	}
	for i := range orders {
		o := orders[i]
		m.Orders[o.ID] = &o
	}
	return m
}

func (m *MockOrderRepository) FindByID(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	o, ok := m.Orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepository) SaveBill(_ context.Context, orderID string, bill repository.BillRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.SavedBills[orderID] = bill
	return nil
}

func (m *MockOrderRepository) SaveStripeSession(_ context.Context, orderID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.SavedSessions[orderID] = sessionID
	return nil
}

func (m *MockOrderRepository) UpdatePayment(_ context.Context, orderID string, upd repository.PaymentUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Panic {
		panic("connection reset")
	}
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.PaymentUpdates[orderID] = append(m.PaymentUpdates[orderID], upd)
	if o, ok := m.Orders[orderID]; ok {
		o.PaymentStatus = upd.Status
		o.PaidAt = upd.PaidAt
	}
	return nil
}

func (m *MockOrderRepository) List(_ context.Context, filter repository.OrderFilter) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, 0, m.FindErr
	}
	var out []models.Order
	for _, o := range m.Orders {
		if filter.PaymentStatus == "" || o.PaymentStatus == filter.PaymentStatus {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *MockOrderRepository) ListPendingBills(_ context.Context, _ *repository.PendingCursor, limit int) ([]models.Order, error) {
	return nil, nil
}

// Writes counts every mutation the handlers performed
func (m *MockOrderRepository) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.SavedBills) + len(m.SavedSessions)
	for _, u := range m.PaymentUpdates {
		n += len(u)
	}
	return n
}

// MockCallbackRepository records callbacks in memory
type MockCallbackRepository struct {
	Err       error
	Callbacks []models.PaymentCallback
}

func (m *MockCallbackRepository) Record(_ context.Context, cb *models.PaymentCallback) error {
	if m.Err != nil {
		return m.Err
	}
	m.Callbacks = append(m.Callbacks, *cb)
	return nil
}

// MockBillGateway implements BillGateway
type MockBillGateway struct {
	CreateFunc func(ctx context.Context, req billplz.CreateBillRequest) (*billplz.Bill, error)
	Requests   []billplz.CreateBillRequest
}

func (m *MockBillGateway) CreateBill(ctx context.Context, req billplz.CreateBillRequest) (*billplz.Bill, error) {
	m.Requests = append(m.Requests, req)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &billplz.Bill{
		ID:     "bill_123",
		URL:    "https://www.billplz-sandbox.com/bills/bill_123",
		State:  billplz.StateDue,
		Amount: req.AmountSen,
	}, nil
}

// MockMailer collects sent email
type MockMailer struct {
	Err  error
	Sent []utils.Email
}

func (m *MockMailer) Send(_ context.Context, email utils.Email) error {
	m.Sent = append(m.Sent, email)
	return m.Err
}

// MockBlogRepository serves posts from a slice
type MockBlogRepository struct {
	Posts []models.BlogPost
	Err   error
}

func (m *MockBlogRepository) ListPublished(_ context.Context, limit, offset int) ([]models.BlogPost, int64, error) {
	if m.Err != nil {
		return nil, 0, m.Err
	}
	var published []models.BlogPost
	for _, p := range m.Posts {
		if p.Published {
			published = append(published, p)
		}
	}
	total := int64(len(published))
	if offset >= len(published) {
		return []models.BlogPost{}, total, nil
	}
	published = published[offset:]
	if limit > 0 && limit < len(published) {
		published = published[:limit]
	}
	return published, total, nil
}

func (m *MockBlogRepository) FindPublishedBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.Posts {
		if p.Slug == slug && p.Published {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

// MockContactRepository stores messages in memory
type MockContactRepository struct {
	Err      error
	Messages []*models.ContactMessage
	Emailed  []uint
}

func (m *MockContactRepository) Create(_ context.Context, msg *models.ContactMessage) error {
	if m.Err != nil {
		return m.Err
	}
	msg.ID = uint(len(m.Messages) + 1)
	m.Messages = append(m.Messages, msg)
	return nil
}

func (m *MockContactRepository) MarkEmailed(_ context.Context, id uint) error {
	m.Emailed = append(m.Emailed, id)
	return nil
}

// MockGenerator returns canned drafts
type MockGenerator struct {
	Content  string
	Err      error
	Requests []ai.DraftRequest
}

func (m *MockGenerator) Draft(_ context.Context, req ai.DraftRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	return m.Content, m.Err
}

// MockTokenBlacklist keeps revoked fingerprints in memory
type MockTokenBlacklist struct {
	Revoked map[string]time.Time
}

func (m *MockTokenBlacklist) Revoke(_ context.Context, fingerprint string, expiresAt time.Time) error {
	if m.Revoked == nil {
		m.Revoked = map[string]time.Time{}
	}
	m.Revoked[fingerprint] = expiresAt
	return nil
}

func (m *MockTokenBlacklist) IsRevoked(_ context.Context, fingerprint string) (bool, error) {
	_, ok := m.Revoked[fingerprint]
	return ok, nil
}
