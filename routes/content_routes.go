package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/middleware"
)

func initContentRoutes(api *gin.RouterGroup, h Handlers, opts Options) {
	blog := api.Group("/blog")
	{
		blog.GET("", h.Blog.ListPosts)
		blog.GET("/:slug", h.Blog.GetPost)
	}

	api.POST("/ai/generate", middleware.SupabaseAuth(opts.SupabaseJWTSecret), h.AI.Generate)
	api.POST("/contact", h.Contact.Submit)
}
