package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/models"
	"github.com/nusadigital/agency-site/reports"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/utils"
)

// AdminController serves the order dashboard for the single site admin
// configured through ADMIN_EMAIL and ADMIN_PASSWORD_HASH.
type AdminController struct {
	Orders       repository.OrderRepository
	Tokens       repository.TokenBlacklist
	Email        string
	PasswordHash string
	JWTSecret    string
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/admin/login
func (h *AdminController) Login(c *gin.Context) {
	utils.LogInfo("AdminLogin called")
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid input", utils.DescribeValidationError(err))
		return
	}

	if err := h.authenticate(req); err != nil {
		utils.LogError("Admin login rejected: %v", err)
		utils.RespondAppError(c, err)
		return
	}

	token, err := utils.GenerateAdminToken(h.Email, h.JWTSecret)
	if err != nil {
		utils.LogError("Failed to sign admin token: %v", err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	session := sessions.Default(c)
	session.Set(utils.SessionAdmin, h.Email)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save admin session: %v", err)
	}

	utils.LogInfo("Admin login successful: %s", h.Email)
	utils.Success(c, "Login successful", gin.H{
		"token":      token,
		"expires_in": int(utils.AdminTokenTTL.Seconds()),
	})
}

// authenticate checks the submitted credentials against the configured admin.
// An unconfigured admin answers exactly like a wrong password.
func (h *AdminController) authenticate(req AdminLoginRequest) error {
	if h.Email == "" || h.PasswordHash == "" {
		return utils.UnauthorizedError(utils.ErrInvalidCredentials, errors.New("admin credentials not configured"))
	}
	if !strings.EqualFold(req.Email, h.Email) || !utils.CheckPassword(req.Password, h.PasswordHash) {
		return utils.UnauthorizedError(utils.ErrInvalidCredentials, fmt.Errorf("bad credentials for %s", req.Email))
	}
	return nil
}

// POST /api/admin/logout
func (h *AdminController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(utils.SessionAdmin)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to clear admin session: %v", err)
	}

	if token := utils.BearerToken(c.GetHeader("Authorization")); token != "" && h.Tokens != nil {
		exp, err := utils.AdminTokenExpiry(token, h.JWTSecret)
		if err == nil {
			if err := h.Tokens.Revoke(c.Request.Context(), utils.TokenFingerprint(token), exp); err != nil {
				utils.LogError("Failed to revoke admin token: %v", err)
			}
		}
	}

	utils.Success(c, "Logged out successfully", nil)
}

// GET /api/admin/orders
func (h *AdminController) ListOrders(c *gin.Context) {
	status, err := statusFilter(c)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	p := utils.NewPagination(c)
	orders, total, err := h.Orders.List(c.Request.Context(), repository.OrderFilter{
		PaymentStatus: status,
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		utils.LogError("Failed to list orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	p.SetTotal(total)

	utils.SuccessWithPagination(c, "Orders retrieved successfully", orders, p)
}

// GET /api/admin/orders/export
func (h *AdminController) ExportOrders(c *gin.Context) {
	status, err := statusFilter(c)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	orders, _, err := h.Orders.List(c.Request.Context(), repository.OrderFilter{PaymentStatus: status})
	if err != nil {
		utils.LogError("Failed to load orders for export: %v", err)
		utils.InternalServerError(c, "Failed to export orders", nil)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := reports.WriteOrdersXLSX(&buf, orders, now); err != nil {
		utils.LogError("Failed to build orders workbook: %v", err)
		utils.InternalServerError(c, "Failed to export orders", nil)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", now.Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GET /api/admin/orders/:id/receipt
func (h *AdminController) OrderReceipt(c *gin.Context) {
	id := c.Param("id")

	order, err := h.paidOrder(c.Request.Context(), id)
	if err != nil {
		if !utils.IsNotFoundError(err) {
			utils.LogError("Receipt for order %s unavailable: %v", id, err)
		}
		utils.RespondAppError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteReceiptPDF(&buf, order); err != nil {
		utils.LogError("Failed to render receipt for %s: %v", id, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *AdminController) paidOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := h.Orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, utils.NotFoundError("Order not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, "Failed to fetch order", err)
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		return nil, utils.BadRequestError("Receipts are only available for paid orders", nil)
	}
	return order, nil
}

func statusFilter(c *gin.Context) (string, error) {
	status := c.Query("status")
	if status != "" && !validPaymentStatus(status) {
		return "", utils.BadRequestError("Invalid status filter", fmt.Errorf("unknown status %q", status))
	}
	return status, nil
}

func validPaymentStatus(s string) bool {
	switch s {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed:
		return true
	}
	return false
}
