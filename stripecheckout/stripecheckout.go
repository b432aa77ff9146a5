package stripecheckout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

var ErrMissingSecretKey = errors.New("stripe secret key is not configured")

// Event types handled by the webhook
const (
	EventSessionCompleted           = "checkout.session.completed"
	EventSessionAsyncPaymentSuccess = "checkout.session.async_payment_succeeded"
	EventSessionAsyncPaymentFailed  = "checkout.session.async_payment_failed"
	EventSessionExpired             = "checkout.session.expired"
)

type SessionRequest struct {
	OrderID     string
	Email       string
	ProductName string
	AmountSen   int64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

type Session struct {
	ID  string
	URL string
}

// Event is the part of a Checkout webhook event the order flow needs
type Event struct {
	ID            string
	Type          string
	SessionID     string
	OrderID       string
	PaymentStatus string
}

type Client struct {
	sessions session.Client
}

func NewClient(secretKey string) *Client {
	return &Client{sessions: session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}}
}

// CreateSession opens a one-line-item Checkout session for an order
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if c.sessions.Key == "" {
		return nil, ErrMissingSecretKey
	}
	currency := req.Currency
	if currency == "" {
		currency = "myr"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.OrderID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
					UnitAmount: stripe.Int64(req.AmountSen),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata("order_id", req.OrderID)
	params.Context = ctx

	s, err := c.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes a Checkout
// session event.
func ParseWebhook(payload []byte, signatureHeader, secret string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", err)
	}

	out := &Event{ID: event.ID, Type: string(event.Type)}
	if !strings.HasPrefix(out.Type, "checkout.session.") {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.SessionID = cs.ID
	out.OrderID = cs.ClientReferenceID
	if out.OrderID == "" {
		out.OrderID = cs.Metadata["order_id"]
	}
	out.PaymentStatus = string(cs.PaymentStatus)
	return out, nil
}
