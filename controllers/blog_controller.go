package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/utils"
)

type BlogController struct {
	Posts repository.BlogRepository
}

// GET /api/blog
func (h *BlogController) ListPosts(c *gin.Context) {
	p := utils.NewPagination(c)

	posts, total, err := h.Posts.ListPublished(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		utils.LogError("Failed to list blog posts: %v", err)
		utils.InternalServerError(c, "Failed to fetch posts", err.Error())
		return
	}
	p.SetTotal(total)

	utils.SuccessWithPagination(c, "Posts retrieved successfully", posts, p)
}

// GET /api/blog/:slug
func (h *BlogController) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.Posts.FindPublishedBySlug(c.Request.Context(), slug)
	if errors.Is(err, repository.ErrPostNotFound) {
		err = utils.NotFoundError("Post not found", err)
	} else if err != nil {
		utils.LogError("Failed to load post %s: %v", slug, err)
		err = utils.NewAppError(http.StatusInternalServerError, "Failed to fetch post", err)
	}
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.Success(c, "Post retrieved successfully", gin.H{"post": post})
}
