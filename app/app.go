// Package app wires configuration, storage and gateways into the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nusadigital/agency-site/ai"
	"github.com/nusadigital/agency-site/billplz"
	"github.com/nusadigital/agency-site/config"
	"github.com/nusadigital/agency-site/controllers"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/routes"
	"github.com/nusadigital/agency-site/sitemap"
	"github.com/nusadigital/agency-site/stripecheckout"
	"github.com/nusadigital/agency-site/utils"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Router *gin.Engine

	generator *ai.Generator
}

// BillplzConfig maps the environment onto the gateway client settings
func BillplzConfig(cfg *config.Config) billplz.Config {
	return billplz.Config{
		APIKey:       cfg.BillplzAPIKey,
		CollectionID: cfg.BillplzCollectionID,
		Sandbox:      cfg.BillplzSandbox,
		SignatureKey: cfg.BillplzSignatureKey,
	}
}

// New connects to the database and builds the router. Missing gateway or AI
// credentials are logged, not fatal: the affected endpoints answer 500. An
// unset or published SESSION_SECRET is fatal.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.ValidateSessionSecret(); err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := utils.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	policy, err := sitemap.LoadPolicy(cfg.SitemapPolicyPath)
	if err != nil {
		return nil, err
	}

	orders := repository.NewOrderRepository(db)
	posts := repository.NewBlogRepository(db)
	tokens := repository.NewTokenBlacklist(db)

	mailer := utils.NewMailer(cfg.ResendAPIKey, utils.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	bpCfg := BillplzConfig(cfg)
	if err := bpCfg.Validate(); err != nil {
		utils.LogError("Billplz disabled: %v", err)
	}

	a := &App{Config: cfg, DB: db}

	aiCtl := &controllers.AIController{}
	if gen, err := ai.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err != nil {
		utils.LogError("AI drafting disabled: %v", err)
	} else {
		a.generator = gen
		aiCtl.Generator = gen
	}

	a.Router = routes.SetupRouter(routes.Handlers{
		Billplz: &controllers.BillplzController{
			Orders:    orders,
			Callbacks: repository.NewCallbackRepository(db),
			Gateway:   billplz.NewClient(bpCfg),
			Mailer:    mailer,
			Config:    bpCfg,
			SiteURL:   cfg.SiteURL,
			PromoCode: cfg.PromoCode,
		},
		Stripe: &controllers.StripeController{
			Orders:        orders,
			Sessions:      stripecheckout.NewClient(cfg.StripeSecretKey),
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			SiteURL:       cfg.SiteURL,
		},
		Blog: &controllers.BlogController{Posts: posts},
		AI:   aiCtl,
		Contact: &controllers.ContactController{
			Messages: repository.NewContactRepository(db),
			Mailer:   mailer,
			Inbox:    cfg.ContactInbox,
		},
		Sitemap: &controllers.SitemapController{Policy: policy, Posts: posts, SiteURL: cfg.SiteURL},
		Admin: &controllers.AdminController{
			Orders:       orders,
			Tokens:       tokens,
			Email:        cfg.AdminEmail,
			PasswordHash: cfg.AdminPasswordHash,
			JWTSecret:    cfg.AdminJWTSecret,
		},
	}, routes.Options{
		SessionSecret:     cfg.SessionSecret,
		SecureCookies:     cfg.IsProduction(),
		AllowedOrigins:    []string{cfg.SiteURL},
		SupabaseJWTSecret: cfg.SupabaseJWTSecret,
		AdminJWTSecret:    cfg.AdminJWTSecret,
		RevokedTokens:     tokens,
	})

	return a, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + a.Config.Port,
		Handler:      a.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting on port %s", a.Config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close releases the AI client and the database pool
func (a *App) Close() {
	if a.generator != nil {
		if err := a.generator.Close(); err != nil {
			utils.LogError("Failed to close AI client: %v", err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
