package models

import (
	"encoding/json"
	"time"
)

type PaymentGateway string

const (
	PaymentGatewayBillplz PaymentGateway = "billplz"
	PaymentGatewayStripe  PaymentGateway = "stripe"
)

// PaymentCallback keeps the raw payload of every accepted gateway callback.
// Operators use it to reconcile orders whose status update was lost.
type PaymentCallback struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PaymentGateway PaymentGateway  `gorm:"type:varchar(50);not null" json:"payment_gateway"`
	OrderID        string          `gorm:"type:text;index" json:"order_id"`
	ExternalID     string          `gorm:"type:text" json:"external_id"`
	Status         string          `gorm:"type:varchar(20)" json:"status"`
	Metadata       json.RawMessage `gorm:"type:jsonb" json:"metadata"`
	CreatedAt      time.Time       `json:"created_at"`
}
