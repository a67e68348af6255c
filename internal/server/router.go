package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"storefront/internal/menu"
	"storefront/internal/order"
)

type RouterConfig struct {
	AllowedOrigins []string
	Limiter        *RateLimiter
}

func NewRouter(menuCtrl *menu.Controller, orders *order.Module, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, map[string]string{"status": "OK", "message": "storefront backend is running"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", menuCtrl.ListMenu)
		r.Get("/menu/{itemId}", menuCtrl.GetMenuItem)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.Orders.ListOrders)
			if cfg.Limiter != nil {
				r.With(cfg.Limiter.Limit).Post("/", orders.Orders.CreateOrder)
			} else {
				r.Post("/", orders.Orders.CreateOrder)
			}
			r.Get("/{orderId}", orders.Orders.GetOrder)
			r.Put("/{orderId}", orders.Orders.UpdateStatus)
			r.Post("/{orderId}/simulate", orders.Orders.SimulateProgress)
			r.Get("/{orderId}/status-stream", orders.Stream.StatusStream)
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Cache-Control"},
	}).Handler(r)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func writeStatus(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
