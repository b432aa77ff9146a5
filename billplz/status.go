package billplz

import "github.com/nusadigital/agency-site/models"

// Bill states reported by the gateway
const (
	StateDue     = "due"
	StatePaid    = "paid"
	StateDeleted = "deleted"
	StateFailed  = "failed"
)

// MapPaymentStatus turns the callback's paid flag and state into the order
// payment status. The paid flag wins over the state string.
func MapPaymentStatus(paid, state string) string {
	switch {
	case paid == "true":
		return models.PaymentStatusPaid
	case state == StateFailed:
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}
