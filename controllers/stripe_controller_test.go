package controllers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/nusadigital/agency-site/models"
	"github.com/nusadigital/agency-site/stripecheckout"
)

const testWebhookSecret = "whsec_test"

type MockCheckoutSessions struct {
	Err      error
	Requests []stripecheckout.SessionRequest
}

func (m *MockCheckoutSessions) CreateSession(_ context.Context, req stripecheckout.SessionRequest) (*stripecheckout.Session, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &stripecheckout.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func newStripeController(orders *MockOrderRepository) *StripeController {
	return &StripeController{
		Orders:        orders,
		Sessions:      &MockCheckoutSessions{},
		SecretKey:     "sk_test",
		WebhookSecret: testWebhookSecret,
		SiteURL:       testSiteURL,
		Now: func() time.Time {
			return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func stripeRouter(h *StripeController) *gin.Engine {
	r := gin.New()
	r.POST("/api/stripe/checkout-session", h.CreateCheckoutSession)
	r.POST("/api/stripe/webhook", h.Webhook)
	return r
}

func TestCreateCheckoutSession(t *testing.T) {
	orders := NewMockOrderRepository(models.Order{ID: "ord_9"})
	h := newStripeController(orders)

	w := postJSON(t, stripeRouter(h), "/api/stripe/checkout-session", map[string]interface{}{
		"orderId":     "ord_9",
		"email":       "aina@example.com",
		"amount":      49.9,
		"productName": "SEO audit",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "cs_test_1", body["sessionId"])

	sent := h.Sessions.(*MockCheckoutSessions).Requests[0]
	assert.Equal(t, int64(4990), sent.AmountSen)
	assert.Contains(t, sent.SuccessURL, "/checkout/success?order_id=ord_9")
	assert.Equal(t, "cs_test_1", orders.SavedSessions["ord_9"])
}

func TestCreateCheckoutSessionNotConfigured(t *testing.T) {
	h := newStripeController(NewMockOrderRepository())
	h.SecretKey = ""

	w := postJSON(t, stripeRouter(h), "/api/stripe/checkout-session", map[string]interface{}{"orderId": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateCheckoutSessionGatewayError(t *testing.T) {
	h := newStripeController(NewMockOrderRepository())
	h.Sessions = &MockCheckoutSessions{Err: errors.New("card_declined")}

	w := postJSON(t, stripeRouter(h), "/api/stripe/checkout-session", map[string]interface{}{
		"orderId": "ord_9", "amount": 10, "productName": "x",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to create checkout session", decode(t, w)["error"])
}

func stripeWebhook(r http.Handler, payload string, secret string) *httptest.ResponseRecorder {
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(sp.Payload))
	req.Header.Set("Stripe-Signature", sp.Header)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const completedEvent = `{"id":"evt_1","object":"event","type":"checkout.session.completed",
"data":{"object":{"id":"cs_test_1","object":"checkout.session","client_reference_id":"ord_9","payment_status":"paid"}}}`

func TestStripeWebhookCompleted(t *testing.T) {
	orders := NewMockOrderRepository(models.Order{ID: "ord_9"})
	h := newStripeController(orders)

	w := stripeWebhook(stripeRouter(h), completedEvent, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code)

	upd := orders.PaymentUpdates["ord_9"]
	require.Len(t, upd, 1)
	assert.Equal(t, models.PaymentStatusPaid, upd[0].Status)
	assert.Equal(t, models.PaymentMethodStripe, upd[0].Method)
	require.NotNil(t, upd[0].PaidAt)
}

func TestStripeWebhookExpired(t *testing.T) {
	orders := NewMockOrderRepository(models.Order{ID: "ord_9"})
	h := newStripeController(orders)

	w := stripeWebhook(stripeRouter(h), `{"id":"evt_2","object":"event","type":"checkout.session.expired",
"data":{"object":{"id":"cs_test_1","object":"checkout.session","client_reference_id":"ord_9","payment_status":"unpaid"}}}`, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PaymentStatusFailed, orders.PaymentUpdates["ord_9"][0].Status)
}

func TestStripeWebhookBadSignature(t *testing.T) {
	orders := NewMockOrderRepository(models.Order{ID: "ord_9"})
	h := newStripeController(orders)

	w := stripeWebhook(stripeRouter(h), completedEvent, "whsec_other")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, orders.Writes())
}

func TestStripeWebhookDatabaseFailureStillAcknowledges(t *testing.T) {
	orders := NewMockOrderRepository(models.Order{ID: "ord_9"})
	orders.UpdateErr = ErrMockDB
	h := newStripeController(orders)

	w := stripeWebhook(stripeRouter(h), completedEvent, testWebhookSecret)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["received"])
}

func TestStripeWebhookUnpaidCompletionKeepsAsyncResult(t *testing.T) {
	orders := NewMockOrderRepository(models.Order{ID: "ord_9"})
	h := newStripeController(orders)
	r := stripeRouter(h)

	w := stripeWebhook(r, `{"id":"evt_3","object":"event","type":"checkout.session.async_payment_succeeded",
"data":{"object":{"id":"cs_test_1","object":"checkout.session","client_reference_id":"ord_9","payment_status":"paid"}}}`, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code)

	// delivered late, after the async success
	w = stripeWebhook(r, `{"id":"evt_4","object":"event","type":"checkout.session.completed",
"data":{"object":{"id":"cs_test_1","object":"checkout.session","client_reference_id":"ord_9","payment_status":"unpaid"}}}`, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code)

	upd := orders.PaymentUpdates["ord_9"]
	require.Len(t, upd, 1)
	assert.Equal(t, models.PaymentStatusPaid, upd[0].Status)
	assert.Equal(t, models.PaymentStatusPaid, orders.Orders["ord_9"].PaymentStatus)
}

func TestStripeWebhookOversizedBody(t *testing.T) {
	orders := NewMockOrderRepository(models.Order{ID: "ord_9"})
	h := newStripeController(orders)

	padding := strings.Repeat("x", maxWebhookBody)
	payload := `{"id":"evt_5","object":"event","type":"checkout.session.completed","padding":"` + padding + `",
"data":{"object":{"id":"cs_test_1","object":"checkout.session","client_reference_id":"ord_9","payment_status":"paid"}}}`

	w := stripeWebhook(stripeRouter(h), payload, testWebhookSecret)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Payload too large", decode(t, w)["error"])
	assert.Equal(t, 0, orders.Writes())
}

func TestStripeEventStatus(t *testing.T) {
	tests := []struct {
		event  stripecheckout.Event
		status string
		ok     bool
	}{
		{stripecheckout.Event{Type: stripecheckout.EventSessionCompleted, PaymentStatus: "paid"}, models.PaymentStatusPaid, true},
		{stripecheckout.Event{Type: stripecheckout.EventSessionCompleted, PaymentStatus: "unpaid"}, "", false},
		{stripecheckout.Event{Type: stripecheckout.EventSessionAsyncPaymentSuccess}, models.PaymentStatusPaid, true},
		{stripecheckout.Event{Type: stripecheckout.EventSessionAsyncPaymentFailed}, models.PaymentStatusFailed, true},
		{stripecheckout.Event{Type: "invoice.paid"}, "", false},
	}
	for _, tt := range tests {
		status, ok := stripeEventStatus(&tt.event)
		assert.Equal(t, tt.status, status, tt.event.Type)
		assert.Equal(t, tt.ok, ok, tt.event.Type)
	}
}
