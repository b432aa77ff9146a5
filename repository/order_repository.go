package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nusadigital/agency-site/models"
)

var ErrOrderNotFound = errors.New("order not found")

// BillRecord is what bill creation writes back onto the order
type BillRecord struct {
	BillID string
	URL    string
	State  string
}

// PaymentUpdate is the partial order update applied by gateway callbacks.
// PaidAt is written only when non-nil.
type PaymentUpdate struct {
	Status        string
	Method        string
	BillplzBillID string
	BillplzState  string
	PaidAt        *time.Time
}

// PendingCursor marks the last order of a page of pending bills. Pages are
// ordered by (created_at, id).
type PendingCursor struct {
	CreatedAt time.Time
	ID        string
}

// CursorAfter returns the cursor that continues after order
func CursorAfter(order models.Order) *PendingCursor {
	return &PendingCursor{CreatedAt: order.CreatedAt, ID: order.ID}
}

// OrderFilter narrows admin order listings
type OrderFilter struct {
	PaymentStatus string
	Limit         int
	Offset        int
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
	SaveBill(ctx context.Context, orderID string, bill BillRecord) error
	SaveStripeSession(ctx context.Context, orderID, sessionID string) error
	UpdatePayment(ctx context.Context, orderID string, upd PaymentUpdate) error
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	ListPendingBills(ctx context.Context, after *PendingCursor, limit int) ([]models.Order, error)
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) SaveBill(ctx context.Context, orderID string, bill BillRecord) error {
	return r.update(ctx, orderID, map[string]interface{}{
		"billplz_bill_id": bill.BillID,
		"billplz_url":     bill.URL,
		"billplz_state":   bill.State,
		"payment_status":  models.PaymentStatusPending,
		"payment_method":  models.PaymentMethodBillplz,
	})
}

func (r *GormOrderRepository) SaveStripeSession(ctx context.Context, orderID, sessionID string) error {
	return r.update(ctx, orderID, map[string]interface{}{
		"stripe_session_id": sessionID,
		"payment_status":    models.PaymentStatusPending,
		"payment_method":    models.PaymentMethodStripe,
	})
}

func (r *GormOrderRepository) UpdatePayment(ctx context.Context, orderID string, upd PaymentUpdate) error {
	fields := map[string]interface{}{
		"payment_status": upd.Status,
	}
	if upd.Method != "" {
		fields["payment_method"] = upd.Method
	}
	if upd.BillplzBillID != "" {
		fields["billplz_bill_id"] = upd.BillplzBillID
	}
	if upd.BillplzState != "" {
		fields["billplz_state"] = upd.BillplzState
	}
	if upd.PaidAt != nil {
		fields["paid_at"] = *upd.PaidAt
	}
	return r.update(ctx, orderID, fields)
}

// update applies a partial, last-write-wins update to one order row
func (r *GormOrderRepository) update(ctx context.Context, orderID string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *GormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Order{})
		if filter.PaymentStatus != "" {
			query = query.Where("payment_status = ?", filter.PaymentStatus)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query := filtered().Order("created_at DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListPendingBills returns up to limit pending orders that carry a Billplz
// bill id, oldest first, starting after the given cursor (nil for the first
// page).
func (r *GormOrderRepository) ListPendingBills(ctx context.Context, after *PendingCursor, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).
		Where("payment_status = ? AND billplz_bill_id <> ''", models.PaymentStatusPending)
	if after != nil {
		query = query.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID)
	}
	err := query.
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
