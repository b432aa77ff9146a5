package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/sitemap"
	"github.com/nusadigital/agency-site/utils"
)

type SitemapController struct {
	Policy  *sitemap.Policy
	Posts   repository.BlogRepository
	SiteURL string
}

// GET /sitemap.xml
func (h *SitemapController) Sitemap(c *gin.Context) {
	posts, _, err := h.Posts.ListPublished(c.Request.Context(), 0, 0)
	if err != nil {
		// static pages only
		utils.LogError("Sitemap: failed to list posts: %v", err)
		posts = nil
	}

	var buf bytes.Buffer
	if err := sitemap.Write(&buf, sitemap.Build(h.SiteURL, h.Policy, posts)); err != nil {
		utils.LogError("Sitemap: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}
