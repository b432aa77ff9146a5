package routes

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/controllers"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/utils"
)

// SessionCookieName is the visitor cookie shared by checkout and admin routes
const SessionCookieName = "nusa_session"

// Handlers groups the controllers the router serves
type Handlers struct {
	Billplz *controllers.BillplzController
	Stripe  *controllers.StripeController
	Blog    *controllers.BlogController
	AI      *controllers.AIController
	Contact *controllers.ContactController
	Sitemap *controllers.SitemapController
	Admin   *controllers.AdminController
}

type Options struct {
	SessionSecret     string
	SecureCookies     bool
	AllowedOrigins    []string
	SupabaseJWTSecret string
	AdminJWTSecret    string
	RevokedTokens     repository.TokenBlacklist
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware(opts.AllowedOrigins...))
	router.Use(utils.SecurityHeadersMiddleware())

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24, // 1 day
		Path:     "/",
		Secure:   opts.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(SessionCookieName, store))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/sitemap.xml", h.Sitemap.Sitemap)

	api := router.Group("/api")
	{
		initPaymentRoutes(api, h)
		initContentRoutes(api, h, opts)
		initAdminRoutes(api, h, opts)
	}

	return router
}
