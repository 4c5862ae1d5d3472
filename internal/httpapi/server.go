// Package httpapi exposes a read-only REST view of the catalog, currency
// rates and agreements awaiting review.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/internal/agreement"
	"github.com/m3rciful/bankbot/internal/currency"
	"github.com/m3rciful/bankbot/internal/product"
)

// Catalog lists active products.
type Catalog interface {
	ActiveProducts(ctx context.Context) ([]product.Product, error)
	ActiveProductsOfType(ctx context.Context, t product.Type) ([]product.Product, error)
}

// Rates returns the mid-rate of a currency in the base currency.
type Rates interface {
	RateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error)
}

// Agreements lists agreements awaiting review.
type Agreements interface {
	NewAgreements(ctx context.Context) ([]agreement.Agreement, error)
}

// Handler serves the REST endpoints.
type Handler struct {
	catalog    Catalog
	rates      Rates
	agreements Agreements
	now        func() time.Time
}

// NewHandler builds a handler over the domain services.
func NewHandler(catalog Catalog, rates Rates, agreements Agreements) *Handler {
	return &Handler{catalog: catalog, rates: rates, agreements: agreements, now: time.Now}
}

// Router mounts the endpoints with CORS restricted to allowedOrigins ("*" when empty).
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/rates/{code}", h.getRate)
		r.Get("/agreements/new", h.listNewAgreements)
	})
	return r
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []product.Product
		err      error
	)
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		t, ok := product.ParseType(raw)
		if !ok {
			Error(w, http.StatusBadRequest, "unknown product type")
			return
		}
		products, err = h.catalog.ActiveProductsOfType(r.Context(), t)
	} else {
		products, err = h.catalog.ActiveProducts(r.Context())
	}
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []product.Product{}
	}
	JSON(w, http.StatusOK, products)
}

type rateResponse struct {
	Code currency.Code   `json:"code"`
	Name string          `json:"name"`
	Base currency.Code   `json:"base"`
	Mid  decimal.Decimal `json:"mid"`
	Date string          `json:"date"`
}

func (h *Handler) getRate(w http.ResponseWriter, r *http.Request) {
	code, ok := currency.Parse(strings.ToUpper(chi.URLParam(r, "code")))
	if !ok || code.IsBase() {
		Error(w, http.StatusBadRequest, "unknown currency code")
		return
	}
	mid, err := h.rates.RateOf(r.Context(), code)
	if err != nil {
		Error(w, http.StatusBadGateway, "rate provider unavailable")
		return
	}
	JSON(w, http.StatusOK, rateResponse{
		Code: code,
		Name: code.Name(),
		Base: currency.Base,
		Mid:  mid,
		Date: h.now().Format(time.DateOnly),
	})
}

func (h *Handler) listNewAgreements(w http.ResponseWriter, r *http.Request) {
	list, err := h.agreements.NewAgreements(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list agreements")
		return
	}
	if list == nil {
		list = []agreement.Agreement{}
	}
	JSON(w, http.StatusOK, list)
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := "ok"
		if ww.Status() >= http.StatusInternalServerError {
			status = "fail"
		}
		logger.Info(r.Context(), "http", "http.request",
			slog.String("status", status),
			slog.String("rid", chimw.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("http_code", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// Server runs the router on a listen address until stopped.
type Server struct {
	srv *http.Server
}

// NewServer binds handler to addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Start serves in the background. Listen errors other than a clean shutdown are logged.
func (s *Server) Start(ctx context.Context) {
	logger.Info(ctx, "http", "http.listen",
		slog.String("status", "ok"),
		slog.String("listen", s.srv.Addr),
	)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "http", "http.listen",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// Shutdown stops accepting requests and waits up to 10s for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
