package utils

// Application constants
const (
	// Application name
	AppName = "Nusa Digital"

	// Default port
	DefaultPort = "8080"

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 50

	// Maximum contact message length
	MaxMessageLength = 5000
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid email or password"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Unauthorized access"
	ErrRecordNotFound     = "Record not found"
	ErrInternalServer     = "Internal server error"
	ErrGatewayAuth        = "Payment gateway authentication failed"
	ErrPaymentNotReady    = "Payment gateway is not configured"
)

// Session keys
const (
	SessionAdmin       = "admin"
	SessionLastOrderID = "last_order_id"
	SessionLastPaid    = "last_payment_paid"
)
