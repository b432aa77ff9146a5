package models

import (
	"time"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Payment method constants
const (
	PaymentMethodBillplz = "billplz"
	PaymentMethodStripe  = "stripe"
)

// Order maps the columns of the checkout orders table that payment intake
// reads or writes. The row is created by the checkout flow; this service only
// applies partial updates to it.
type Order struct {
	ID              string     `gorm:"primaryKey;type:text" json:"id"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   string     `json:"customer_phone,omitempty"`
	Amount          float64    `json:"amount"`
	PromoCode       string     `json:"promo_code,omitempty"`
	PaymentStatus   string     `gorm:"default:pending" json:"payment_status"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	BillplzBillID   string     `gorm:"index" json:"billplz_bill_id,omitempty"`
	BillplzURL      string     `json:"billplz_url,omitempty"`
	BillplzState    string     `json:"billplz_state,omitempty"`
	StripeSessionID string     `gorm:"index" json:"stripe_session_id,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
