package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/ai"
	"github.com/nusadigital/agency-site/utils"
)

// ContentGenerator drafts blog copy
type ContentGenerator interface {
	Draft(ctx context.Context, req ai.DraftRequest) (string, error)
}

// AIController is nil-safe on Generator: without GEMINI_API_KEY every call is
// answered with a 500.
type AIController struct {
	Generator ContentGenerator
}

type GenerateRequest struct {
	Topic    string   `json:"topic"`
	Tone     string   `json:"tone"`
	Keywords []string `json:"keywords"`
}

// POST /api/ai/generate
func (h *AIController) Generate(c *gin.Context) {
	if h.Generator == nil {
		utils.LogError("AI generate called without GEMINI_API_KEY")
		utils.GatewayError(c, http.StatusInternalServerError, "AI generation is not configured")
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GatewayError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		utils.GatewayError(c, http.StatusBadRequest, "Topic is required")
		return
	}

	if user, ok := c.Get("user"); ok {
		utils.LogInfo("AI draft requested by %s: %s", user.(*utils.SupabaseUser).Email, req.Topic)
	}

	content, err := h.Generator.Draft(c.Request.Context(), ai.DraftRequest{
		Topic:    req.Topic,
		Tone:     req.Tone,
		Keywords: req.Keywords,
	})
	if err != nil {
		utils.LogError("AI draft failed for %q: %v", req.Topic, err)
		utils.GatewayError(c, http.StatusInternalServerError, "Failed to generate content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}
