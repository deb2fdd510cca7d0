package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/chain/soroban"
	"github.com/stellarhub/defihub/internal/hub"
	"github.com/stellarhub/defihub/internal/infra/gateway/dia"
	"github.com/stellarhub/defihub/internal/infra/postgres"
	infraRedis "github.com/stellarhub/defihub/internal/infra/redis"
	"github.com/stellarhub/defihub/internal/module/borrow"
	"github.com/stellarhub/defihub/internal/module/flow"
	"github.com/stellarhub/defihub/internal/module/portfolio"
	"github.com/stellarhub/defihub/internal/module/stake"
	"github.com/stellarhub/defihub/internal/module/supply"
	"github.com/stellarhub/defihub/internal/module/swap"
	"github.com/stellarhub/defihub/internal/notify"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/internal/platform/user"
	"github.com/stellarhub/defihub/internal/prices"
	"github.com/stellarhub/defihub/internal/transport/httpapi"
	"github.com/stellarhub/defihub/internal/transport/httpapi/handler"
	"github.com/stellarhub/defihub/internal/transport/httpapi/middleware"
	"github.com/stellarhub/defihub/internal/wallet"
	"github.com/stellarhub/defihub/internal/wallet/localkey"
	"github.com/stellarhub/defihub/internal/wallet/remotebridge"
	"github.com/stellarhub/defihub/pkg/config"
	"github.com/stellarhub/defihub/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting DefiHub API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"data_source", cfg.DataSource,
	)

	// Load the static asset registry
	registry, err := config.LoadAssets(cfg.AssetsConfigPath)
	if err != nil {
		log.Error("Failed to load asset registry", "error", err)
		os.Exit(1)
	}
	log.Info("Asset registry loaded", "assets", len(registry.All()))

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for price caching
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Price source: DIA oracle in live mode, static fixture otherwise.
	// The choice is made once here and never mixed per-call.
	var priceSource prices.Source
	if cfg.DataSource == config.DataSourceLive {
		priceCache := infraRedis.NewCache(redisClient, log)
		priceSource = prices.NewCachedSource(dia.NewClient(log), priceCache, log)
		log.Info("Live price source initialized (DIA oracle with Redis cache)")
	} else {
		priceSource = prices.NewFixture()
		log.Info("Fixture price source initialized")
	}

	// Chain access
	rpcClient := soroban.NewClient(cfg.SorobanRPCURL, log)
	builder := contract.NewBuilder(cfg.HubContractID)

	// Wallet bridges: the remote bridge serves browser extensions; the
	// local key signer is a development convenience.
	freighter := remotebridge.New("freighter", log)
	bridges := []wallet.Bridge{freighter}
	if cfg.SignerSeed != "" {
		signer, err := localkey.New(cfg.SignerSeed, cfg.SignerAddress, cfg.NetworkPassphrase)
		if err != nil {
			log.Error("Failed to initialize local signer", "error", err)
			os.Exit(1)
		}
		bridges = append(bridges, signer)
		log.Info("Local key signer enabled", "address", cfg.SignerAddress)
	}
	walletManager := wallet.NewManager(bridges, cfg.NetworkPassphrase, log)

	// Submission pipeline: simulate, sign, submit, poll
	submitter := pipeline.NewSubmitter(rpcClient, walletManager, log)

	// Hub contract facade
	hubFacade := hub.New(
		registry,
		builder,
		rpcClient,
		walletManager,
		submitter,
		priceSource,
		int64(cfg.MinHealthFactorBps),
		log,
	)

	// Notification queue and submission history
	queue := notify.NewQueue()
	historyRepo := postgres.NewHistoryRepository(db.Pool)
	runner := flow.NewRunner(queue, historyRepo, walletManager, log)

	// Standing network-mismatch warning follows the session.
	sessionUpdates, cancelSessions := walletManager.Subscribe()
	defer cancelSessions()
	go flow.WatchSessions(sessionUpdates, queue)

	// Screen services
	stakeSvc := stake.NewService(hubFacade, runner, log)
	swapSvc := swap.NewService(hubFacade, runner, log)
	supplySvc := supply.NewService(hubFacade, runner, log)
	borrowSvc := borrow.NewService(hubFacade, runner, log)
	portfolioSvc := portfolio.NewService(hubFacade, registry, priceSource, historyRepo, walletManager, log)

	// User accounts and tokens
	userRepo := postgres.NewUserRepository(db.Pool)
	userSvc := user.NewService(userRepo, log)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(userSvc, jwtSvc)
	walletHandler := handler.NewWalletHandler(walletManager, freighter)
	operationsHandler := handler.NewOperationsHandler(stakeSvc, swapSvc, supplySvc, borrowSvc)
	portfolioHandler := handler.NewPortfolioHandler(portfolioSvc)
	notificationsHandler := handler.NewNotificationsHandler(queue)
	pricesHandler := handler.NewPricesHandler(registry, priceSource)
	healthHandler := handler.NewHealthHandler(db)

	// Determine allowed origins for CORS
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"}
	if cfg.IsProduction() {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	r := httpapi.NewRouter(httpapi.Config{
		Logger:               log,
		AllowedOrigins:       allowedOrigins,
		AuthHandler:          authHandler,
		WalletHandler:        walletHandler,
		OperationsHandler:    operationsHandler,
		PortfolioHandler:     portfolioHandler,
		NotificationsHandler: notificationsHandler,
		PricesHandler:        pricesHandler,
		HealthHandler:        healthHandler,
		JWTMiddleware:        middleware.JWTMiddleware(jwtSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
