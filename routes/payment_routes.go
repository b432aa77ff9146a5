package routes

import (
	"github.com/gin-gonic/gin"
)

func initPaymentRoutes(api *gin.RouterGroup, h Handlers) {
	billplz := api.Group("/billplz")
	{
		billplz.POST("/create-bill", h.Billplz.CreateBill)
		billplz.POST("/callback", h.Billplz.Callback)
		billplz.GET("/redirect", h.Billplz.Redirect)
	}

	api.GET("/checkout/last", h.Billplz.LastCheckout)

	stripe := api.Group("/stripe")
	{
		stripe.POST("/checkout-session", h.Stripe.CreateCheckoutSession)
		stripe.POST("/webhook", h.Stripe.Webhook)
	}
}
