package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/middleware"
)

func initAdminRoutes(api *gin.RouterGroup, h Handlers, opts Options) {
	api.POST("/admin/login", h.Admin.Login)
	api.POST("/admin/logout", h.Admin.Logout)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(opts.AdminJWTSecret, opts.RevokedTokens))
	{
		orders := admin.Group("/orders")
		{
			orders.GET("", h.Admin.ListOrders)
			orders.GET("/export", h.Admin.ExportOrders)
			orders.GET("/:id/receipt", h.Admin.OrderReceipt)
		}
	}
}
