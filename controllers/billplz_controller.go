package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/billplz"
	"github.com/nusadigital/agency-site/models"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/utils"
)

// BillGateway creates hosted payment pages
type BillGateway interface {
	CreateBill(ctx context.Context, req billplz.CreateBillRequest) (*billplz.Bill, error)
}

// BillplzController serves bill creation, the gateway callback and the
// customer redirect.
type BillplzController struct {
	Orders    repository.OrderRepository
	Callbacks repository.CallbackRepository
	Gateway   BillGateway
	Mailer    utils.Mailer
	Config    billplz.Config
	SiteURL   string
	PromoCode string
	Now       func() time.Time
}

type CustomerInfo struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
}

type CreateBillRequest struct {
	OrderID         string       `json:"orderId" binding:"required"`
	CustomerInfo    CustomerInfo `json:"customerInfo"`
	Amount          float64      `json:"amount" binding:"required,gt=0"`
	Description     string       `json:"description" binding:"required"`
	Reference1      string       `json:"reference1"`
	Reference1Label string       `json:"reference1Label"`
}

type CreateBillResponse struct {
	BillID string `json:"billId"`
	URL    string `json:"url"`
	Amount int64  `json:"amount"`
	State  string `json:"state"`
}

func (h *BillplzController) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// POST /api/billplz/create-bill
func (h *BillplzController) CreateBill(c *gin.Context) {
	utils.LogInfo("CreateBill called")

	if err := h.Config.Validate(); err != nil {
		utils.LogError("Billplz misconfigured: %v", err)
		msg := err.Error()
		if errors.Is(err, billplz.ErrMissingAPIKey) {
			msg = utils.ErrPaymentNotReady
		}
		utils.GatewayError(c, http.StatusInternalServerError, msg)
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create-bill request: %v", err)
		utils.GatewayError(c, http.StatusBadRequest, utils.DescribeValidationError(err).Error())
		return
	}

	reference, label := req.Reference1, req.Reference1Label
	if reference == "" {
		reference = req.OrderID
	}
	if label == "" {
		label = "Order ID"
	}

	amountSen := billplz.MinorUnits(req.Amount)
	utils.LogInfo("Creating bill for order %s: %d sen", req.OrderID, amountSen)

	bill, err := h.Gateway.CreateBill(c.Request.Context(), billplz.CreateBillRequest{
		Email:           req.CustomerInfo.Email,
		Name:            req.CustomerInfo.FullName,
		Mobile:          req.CustomerInfo.Phone,
		AmountSen:       amountSen,
		CallbackURL:     h.SiteURL + "/api/billplz/callback",
		RedirectURL:     h.SiteURL + "/api/billplz/redirect?order_id=" + url.QueryEscape(req.OrderID),
		Description:     req.Description,
		Reference1Label: label,
		Reference1:      reference,
	})
	if err != nil {
		utils.LogError("Failed to create bill for order %s: %v", req.OrderID, err)
		msg := "Failed to create bill: " + err.Error()
		if billplz.IsCredentialError(err) {
			msg = utils.ErrGatewayAuth
		}
		utils.GatewayError(c, http.StatusInternalServerError, msg)
		return
	}
	utils.LogInfo("Created bill %s for order %s", bill.ID, req.OrderID)

	if err := h.Orders.SaveBill(c.Request.Context(), req.OrderID, repository.BillRecord{
		BillID: bill.ID,
		URL:    bill.URL,
		State:  bill.State,
	}); err != nil {
		// The bill exists at the gateway; the callback carries the order id
		// and will still settle the order.
		utils.LogError("Failed to store bill %s on order %s: %v", bill.ID, req.OrderID, err)
	}

	c.JSON(http.StatusOK, CreateBillResponse{
		BillID: bill.ID,
		URL:    bill.URL,
		Amount: amountSen,
		State:  bill.State,
	})
}

// POST /api/billplz/callback
//
// Once the request is authentic and names an order the gateway always gets
// {"received": true}, whatever happens to the local update.
func (h *BillplzController) Callback(c *gin.Context) {
	utils.LogInfo("Billplz callback received")

	acknowledged := false
	defer func() {
		if r := recover(); r != nil {
			utils.LogError("Billplz callback panicked: %v", r)
			if !acknowledged {
				c.JSON(http.StatusOK, gin.H{"received": true})
			}
		}
	}()

	if err := c.Request.ParseForm(); err != nil {
		utils.LogError("Failed to parse Billplz callback form: %v", err)
		utils.GatewayError(c, http.StatusBadRequest, "Invalid callback body")
		return
	}
	form := c.Request.PostForm

	if sig := form.Get(billplz.SignatureField); h.Config.SignatureKey != "" && sig != "" {
		if !billplz.VerifySignature(form, h.Config.SignatureKey, sig) {
			utils.LogError("Billplz callback signature mismatch for bill %s", form.Get("id"))
			utils.GatewayError(c, http.StatusUnauthorized, "Invalid signature")
			return
		}
		utils.LogDebug("Billplz callback signature verified for bill %s", form.Get("id"))
	}

	orderID := form.Get("reference_1")
	if orderID == "" {
		utils.LogError("Billplz callback for bill %s has no order reference", form.Get("id"))
		utils.GatewayError(c, http.StatusBadRequest, "Missing order reference")
		return
	}

	paid, state := form.Get("paid"), form.Get("state")
	status := billplz.MapPaymentStatus(paid, state)
	utils.LogInfo("Billplz callback for order %s: paid=%s state=%s -> %s", orderID, paid, state, status)

	upd := repository.PaymentUpdate{
		Status:        status,
		Method:        models.PaymentMethodBillplz,
		BillplzBillID: form.Get("id"),
		BillplzState:  state,
	}
	if status == models.PaymentStatusPaid {
		paidAt := h.now()
		if t, ok := billplz.ParsePaidAt(form.Get("paid_at")); ok {
			paidAt = t
		}
		upd.PaidAt = &paidAt
	}

	h.recordCallback(c.Request.Context(), orderID, form.Get("id"), status, form)

	if err := h.Orders.UpdatePayment(c.Request.Context(), orderID, upd); err != nil {
		utils.LogError("Failed to update order %s from Billplz callback: %v", orderID, err)
	} else if status == models.PaymentStatusPaid {
		h.notifyPaid(c.Request.Context(), orderID)
	}

	acknowledged = true
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *BillplzController) recordCallback(ctx context.Context, orderID, billID, status string, form url.Values) {
	if h.Callbacks == nil {
		return
	}
	payload, err := json.Marshal(form)
	if err != nil {
		utils.LogError("Failed to encode callback payload for order %s: %v", orderID, err)
		return
	}
	if err := h.Callbacks.Record(ctx, &models.PaymentCallback{
		PaymentGateway: models.PaymentGatewayBillplz,
		OrderID:        orderID,
		ExternalID:     billID,
		Status:         status,
		Metadata:       payload,
	}); err != nil {
		utils.LogError("Failed to record callback for order %s: %v", orderID, err)
	}
}

func (h *BillplzController) notifyPaid(ctx context.Context, orderID string) {
	if h.Mailer == nil {
		return
	}
	order, err := h.Orders.FindByID(ctx, orderID)
	if err != nil {
		utils.LogError("Failed to load order %s for payment email: %v", orderID, err)
		return
	}
	if order.CustomerEmail == "" {
		return
	}
	if err := h.Mailer.Send(ctx, utils.Email{
		To:      []string{order.CustomerEmail},
		Subject: "Payment received - order " + order.ID,
		HTML:    utils.PaymentReceivedHTML(order.CustomerName, order.ID, billplz.FormatAmount(order.Amount)),
	}); err != nil {
		utils.LogError("Failed to send payment email for order %s: %v", orderID, err)
	}
}

// GET /api/billplz/redirect
//
// The query string is not signed; it only chooses which page the customer
// lands on. Order state is settled by the callback alone.
func (h *BillplzController) Redirect(c *gin.Context) {
	orderID := c.Query("order_id")
	if orderID == "" {
		orderID = c.Query("billplz[reference_1]")
	}
	paid := c.Query("billplz[paid]") == "true"
	utils.LogInfo("Billplz redirect for order %s: paid=%t", orderID, paid)

	promo := false
	if orderID != "" {
		order, err := h.Orders.FindByID(c.Request.Context(), orderID)
		if err != nil {
			utils.LogError("Failed to look up order %s for redirect: %v", orderID, err)
		} else {
			promo = h.PromoCode != "" && strings.EqualFold(order.PromoCode, h.PromoCode)
		}
	}

	session := sessions.Default(c)
	session.Set(utils.SessionLastOrderID, orderID)
	session.Set(utils.SessionLastPaid, paid)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save checkout session: %v", err)
	}

	c.Redirect(http.StatusFound, h.destination(orderID, paid, promo))
}

func (h *BillplzController) destination(orderID string, paid, promo bool) string {
	section := "checkout"
	if promo {
		section = "promo"
	}
	outcome := "failed"
	if paid {
		outcome = "success"
	}
	return fmt.Sprintf("%s/%s/%s?order_id=%s", h.SiteURL, section, outcome, url.QueryEscape(orderID))
}

// GET /api/checkout/last
func (h *BillplzController) LastCheckout(c *gin.Context) {
	session := sessions.Default(c)
	orderID, _ := session.Get(utils.SessionLastOrderID).(string)
	if orderID == "" {
		utils.NotFound(c, "No recent checkout")
		return
	}
	paid, _ := session.Get(utils.SessionLastPaid).(bool)
	utils.Success(c, "Last checkout retrieved", gin.H{
		"order_id": orderID,
		"paid":     paid,
	})
}
