package main

import (
	"context"
	"encoding/hex"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rookgm/storefront/config"
	"github.com/rookgm/storefront/internal/auth"
	"github.com/rookgm/storefront/internal/cache"
	"github.com/rookgm/storefront/internal/handler"
	httphandler "github.com/rookgm/storefront/internal/handler/http"
	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/notify"
	"github.com/rookgm/storefront/internal/plaid"
	"github.com/rookgm/storefront/internal/ratelimit"
	"github.com/rookgm/storefront/internal/repository"
	"github.com/rookgm/storefront/internal/repository/postgres"
	"github.com/rookgm/storefront/internal/service"
	"github.com/rookgm/storefront/internal/vault"
	"github.com/rookgm/storefront/internal/worker"
	"go.uber.org/zap"
)

const notificationQueueSize = 256

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context, canceled on SIGINT and SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(cfg.AuthSecretKey)
	if err != nil || len(tokenKey) == 0 {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	masterKey, err := hex.DecodeString(cfg.VaultMasterKey)
	if err != nil {
		logger.Log.Fatal("Error extracting vault master key", zap.Error(err))
	}
	vlt, err := vault.New(masterKey)
	if err != nil {
		logger.Log.Fatal("Error initializing vault", zap.Error(err))
	}

	// promo cache is optional
	var promoCache service.PromoCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Log.Warn("Redis is unavailable, promo cache disabled", zap.Error(err))
		} else {
			promoCache = cache.NewPromoCache(rdb, cfg.PromoCacheTTL)
		}
	}

	// notifications
	var mailer worker.Mailer = notify.LogMailer{}
	if cfg.SMTPAddr != "" {
		smtpMailer, err := notify.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		if err != nil {
			logger.Log.Fatal("Error initializing mailer", zap.Error(err))
		}
		mailer = smtpMailer
	}
	dispatcher := worker.NewNotificationDispatcher(mailer, notificationQueueSize)

	limiter := ratelimit.NewFixedWindow(cfg.RateLimitRequests, cfg.RateLimitWindow)

	// dependency injection
	// repositories
	catalogRepo := repository.NewCatalogRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// services
	pricingService := service.NewPricingService(catalogRepo)
	promoService := service.NewPromoService(affiliateRepo, promoCache, service.DefaultPromoCodes())
	orderService := service.NewOrderService(pricingService, promoService)
	riskService := service.NewRiskService(orderRepo, userRepo, auditRepo, dispatcher, service.DefaultRiskWeights(), cfg.OpsEmail)
	plaidClient := plaid.NewClient(cfg.PlaidBaseURL, cfg.PlaidClientID, cfg.PlaidSecret)
	paymentService := service.NewPaymentService(orderRepo, userRepo, auditRepo, vlt, plaidClient, riskService, dispatcher)

	// handlers
	h := handler.Handler{
		Orders:   httphandler.NewOrderHandler(orderService),
		Promo:    httphandler.NewPromoHandler(promoService),
		Payments: httphandler.NewPaymentHandler(paymentService),
		Tokens:   token,
		Limiter:  limiter,
		DB:       db,
		Logger:   logger.Log,
	}

	srv := &http.Server{
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		logger.Log.Fatal("Error listening", zap.String("addr", cfg.ServerAddr), zap.Error(err))
	}

	if err := serve(ctx, srv, ln, dispatcher, limiter); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
	}
}
