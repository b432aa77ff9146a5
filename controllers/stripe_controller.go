package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/billplz"
	"github.com/nusadigital/agency-site/models"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/stripecheckout"
	"github.com/nusadigital/agency-site/utils"
)

// CheckoutSessions opens Stripe Checkout sessions
type CheckoutSessions interface {
	CreateSession(ctx context.Context, req stripecheckout.SessionRequest) (*stripecheckout.Session, error)
}

type StripeController struct {
	Orders        repository.OrderRepository
	Sessions      CheckoutSessions
	SecretKey     string
	WebhookSecret string
	SiteURL       string
	Now           func() time.Time
}

type CheckoutSessionRequest struct {
	OrderID     string  `json:"orderId" binding:"required"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	ProductName string  `json:"productName" binding:"required"`
}

// maxWebhookBody bounds the webhook payload read into memory
const maxWebhookBody = 64 << 10

// POST /api/stripe/checkout-session
func (h *StripeController) CreateCheckoutSession(c *gin.Context) {
	utils.LogInfo("CreateCheckoutSession called")

	if h.SecretKey == "" {
		utils.LogError("Stripe secret key not configured")
		utils.GatewayError(c, http.StatusInternalServerError, utils.ErrPaymentNotReady)
		return
	}

	var req CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid checkout-session request: %v", err)
		utils.GatewayError(c, http.StatusBadRequest, utils.DescribeValidationError(err).Error())
		return
	}

	orderParam := url.QueryEscape(req.OrderID)
	sess, err := h.Sessions.CreateSession(c.Request.Context(), stripecheckout.SessionRequest{
		OrderID:     req.OrderID,
		Email:       req.Email,
		ProductName: req.ProductName,
		AmountSen:   billplz.MinorUnits(req.Amount),
		SuccessURL:  h.SiteURL + "/checkout/success?order_id=" + orderParam + "&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   h.SiteURL + "/checkout/failed?order_id=" + orderParam,
	})
	if err != nil {
		utils.LogError("Failed to create Stripe session for order %s: %v", req.OrderID, err)
		utils.GatewayError(c, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}
	utils.LogInfo("Created Stripe session %s for order %s", sess.ID, req.OrderID)

	if err := h.Orders.SaveStripeSession(c.Request.Context(), req.OrderID, sess.ID); err != nil {
		utils.LogError("Failed to store Stripe session %s on order %s: %v", sess.ID, req.OrderID, err)
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID, "url": sess.URL})
}

// POST /api/stripe/webhook
func (h *StripeController) Webhook(c *gin.Context) {
	if h.WebhookSecret == "" {
		utils.LogError("Stripe webhook secret not configured")
		utils.GatewayError(c, http.StatusInternalServerError, utils.ErrPaymentNotReady)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		utils.LogError("Failed to read Stripe webhook body: %v", err)
		utils.GatewayError(c, http.StatusBadRequest, "Invalid body")
		return
	}
	if len(payload) > maxWebhookBody {
		utils.LogError("Stripe webhook body exceeds %d bytes, rejected before signature check", maxWebhookBody)
		utils.GatewayError(c, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}

	event, err := stripecheckout.ParseWebhook(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		utils.LogError("Stripe webhook rejected: %v", err)
		utils.GatewayError(c, http.StatusBadRequest, "Invalid signature")
		return
	}
	utils.LogInfo("Stripe webhook %s (%s) for order %s", event.ID, event.Type, event.OrderID)

	status, ok := stripeEventStatus(event)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if event.OrderID == "" {
		utils.LogError("Stripe event %s has no order reference", event.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	upd := repository.PaymentUpdate{Status: status, Method: models.PaymentMethodStripe}
	if status == models.PaymentStatusPaid {
		now := time.Now()
		if h.Now != nil {
			now = h.Now()
		}
		upd.PaidAt = &now
	}
	if err := h.Orders.UpdatePayment(c.Request.Context(), event.OrderID, upd); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			utils.LogError("Stripe event %s references unknown order %s", event.ID, event.OrderID)
		} else {
			utils.LogError("Failed to update order %s from Stripe event %s: %v", event.OrderID, event.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// stripeEventStatus maps a Checkout event to an order payment status. A
// completed session that is not yet paid (delayed payment methods) writes
// nothing: the async events settle it, and they may arrive first.
func stripeEventStatus(event *stripecheckout.Event) (string, bool) {
	switch event.Type {
	case stripecheckout.EventSessionCompleted:
		if event.PaymentStatus == "paid" || event.PaymentStatus == "no_payment_required" {
			return models.PaymentStatusPaid, true
		}
		return "", false
	case stripecheckout.EventSessionAsyncPaymentSuccess:
		return models.PaymentStatusPaid, true
	case stripecheckout.EventSessionAsyncPaymentFailed, stripecheckout.EventSessionExpired:
		return models.PaymentStatusFailed, true
	default:
		return "", false
	}
}
