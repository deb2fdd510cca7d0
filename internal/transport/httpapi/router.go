package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/stellarhub/defihub/internal/transport/httpapi/handler"
	"github.com/stellarhub/defihub/internal/transport/httpapi/middleware"
	"github.com/stellarhub/defihub/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger               *logger.Logger
	AllowedOrigins       []string
	AuthHandler          *handler.AuthHandler
	WalletHandler        *handler.WalletHandler
	OperationsHandler    *handler.OperationsHandler
	PortfolioHandler     *handler.PortfolioHandler
	NotificationsHandler *handler.NotificationsHandler
	PricesHandler        *handler.PricesHandler
	HealthHandler        *handler.HealthHandler
	JWTMiddleware        func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit())

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public - no authentication required)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Asset catalog and quotes (public)
		if cfg.PricesHandler != nil {
			r.Get("/assets", cfg.PricesHandler.ListAssets)
			r.Get("/prices/{symbol}", cfg.PricesHandler.GetPrice)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				if cfg.AuthHandler != nil {
					r.Post("/auth/wallet", cfg.AuthHandler.LinkWallet)
				}

				// Wallet session and bridge callbacks
				if cfg.WalletHandler != nil {
					r.Route("/wallet", func(r chi.Router) {
						r.Get("/session", cfg.WalletHandler.GetSession)
						r.Post("/connect", cfg.WalletHandler.Connect)
						r.Post("/disconnect", cfg.WalletHandler.Disconnect)
						r.Post("/bridge/heartbeat", cfg.WalletHandler.Heartbeat)
						r.Get("/bridge/requests", cfg.WalletHandler.PendingRequests)
						r.Post("/bridge/requests/{id}/complete", cfg.WalletHandler.Complete)
						r.Post("/bridge/requests/{id}/reject", cfg.WalletHandler.Reject)
					})
				}

				// On-chain operations
				if cfg.OperationsHandler != nil {
					r.Route("/operations", func(r chi.Router) {
						r.Post("/stake", cfg.OperationsHandler.Stake)
						r.Post("/unstake", cfg.OperationsHandler.Unstake)
						r.Post("/swap", cfg.OperationsHandler.Swap)
						r.Post("/lend/supply", cfg.OperationsHandler.Supply)
						r.Post("/lend/withdraw", cfg.OperationsHandler.Withdraw)
						r.Post("/lend/borrow", cfg.OperationsHandler.Borrow)
					})
				}

				// Portfolio routes
				if cfg.PortfolioHandler != nil {
					r.Get("/portfolio", cfg.PortfolioHandler.GetOverview)
					r.Get("/portfolio/history", cfg.PortfolioHandler.GetHistory)
				}

				// Notification center
				if cfg.NotificationsHandler != nil {
					r.Get("/notifications", cfg.NotificationsHandler.List)
					r.Get("/notifications/stream", cfg.NotificationsHandler.Stream)
					r.Delete("/notifications/{id}", cfg.NotificationsHandler.Dismiss)
				}
			})
		}
	})

	return r
}
