package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httphandler "github.com/rookgm/storefront/internal/handler/http"
	"github.com/rookgm/storefront/internal/middleware"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/service"
	"go.uber.org/zap"
)

// Pinger checks storage availability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds HTTP handlers and their middleware dependencies
type Handler struct {
	Orders   *httphandler.OrderHandler
	Promo    *httphandler.PromoHandler
	Payments *httphandler.PaymentHandler
	Tokens   service.TokenService
	Limiter  middleware.Limiter
	DB       Pinger
	Logger   *zap.Logger
}

// Router builds storefront routes
//
//	GET  /ping                              — проверка доступности БД;
//	POST /api/webhooks/plaid                — события платежного провайдера, всегда 200;
//	POST /api/orders/validate               — проверка корзины, токен необязателен;
//	POST /api/promo/validate                — проверка промокода, токен необязателен;
//	POST /api/payments                      — создание платежа;
//	POST /api/risk/score                    — оценка риска мошенничества;
//	PUT  /api/admin/affiliate-codes/{code}  — сохранение партнерского кода, только admin.
func (h *Handler) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logging(h.Logger))

	router.Get("/ping", h.ping())

	// provider retries are acknowledged, webhook is not rate limited
	router.Post("/api/webhooks/plaid", h.Payments.Webhook())

	// anonymous checkout
	router.Group(func(group chi.Router) {
		group.Use(middleware.OptionalAuth(h.Tokens))
		group.Use(middleware.RateLimit(h.Limiter))
		group.Post("/api/orders/validate", h.Orders.ValidateOrder())
		group.Post("/api/promo/validate", h.Promo.ValidatePromo())
	})

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(h.Tokens))
		group.Use(middleware.RateLimit(h.Limiter))
		group.Post("/api/payments", h.Payments.CreatePayment())
		group.Post("/api/risk/score", h.Payments.ScoreRisk())
	})

	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(h.Tokens))
		group.Use(httphandler.RequireRole(models.RoleAdmin))
		group.Put("/api/admin/affiliate-codes/{code}", h.Promo.PutAffiliateCode())
	})

	return router
}

func (h *Handler) ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.DB.Ping(r.Context()); err != nil {
			h.Logger.Error("ping database", zap.Error(err))
			http.Error(w, "database is unavailable", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
