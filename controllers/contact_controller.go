package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/models"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/utils"
)

type ContactController struct {
	Messages repository.ContactRepository
	Mailer   utils.Mailer
	Inbox    string
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company" binding:"max=120"`
	Message string `json:"message" binding:"required,max=5000"`
}

// POST /api/contact
func (h *ContactController) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid contact form", utils.DescribeValidationError(err))
		return
	}

	msg := &models.ContactMessage{
		Name:    utils.SanitizeString(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Company: utils.SanitizeString(req.Company),
		Message: utils.SanitizeString(req.Message),
	}
	if err := h.Messages.Create(c.Request.Context(), msg); err != nil {
		utils.LogError("Failed to store contact message from %s: %v", msg.Email, err)
		utils.InternalServerError(c, "Failed to send message", nil)
		return
	}
	utils.LogInfo("Stored contact message %d from %s", msg.ID, msg.Email)

	err := h.Mailer.Send(c.Request.Context(), utils.Email{
		To:      []string{h.Inbox},
		ReplyTo: msg.Email,
		Subject: "New enquiry from " + msg.Name,
		HTML:    utils.ContactNotificationHTML(msg.Name, msg.Email, msg.Company, msg.Message),
	})
	if err != nil {
		utils.LogError("Failed to email contact message %d: %v", msg.ID, err)
	} else if err := h.Messages.MarkEmailed(c.Request.Context(), msg.ID); err != nil {
		utils.LogError("Failed to mark contact message %d emailed: %v", msg.ID, err)
	}

	c.JSON(http.StatusOK, utils.StandardResponse{
		Status:  "success",
		Message: "Thanks, we will be in touch shortly",
	})
}
