// Package server exposes the calculation engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"woodcost/internal/catalog"
	"woodcost/internal/estimate"
)

// CatalogAdmin drops externally cached catalog lists so a refresh reloads
// from the database.
type CatalogAdmin interface {
	InvalidateCache(ctx context.Context) error
}

type Server struct {
	engine         *estimate.Engine
	catalogs       *catalog.Provider
	admin          CatalogAdmin
	logger         *zap.Logger
	uploadMaxBytes int64
}

func New(engine *estimate.Engine, catalogs *catalog.Provider, admin CatalogAdmin, logger *zap.Logger, uploadMaxBytes int64) *Server {
	return &Server{
		engine:         engine,
		catalogs:       catalogs,
		admin:          admin,
		logger:         logger,
		uploadMaxBytes: uploadMaxBytes,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Post("/calculate/direct", s.handleCalculateDirect)
		r.Post("/calculate/upload", s.handleCalculateUpload)
		r.Post("/catalog/refresh", s.handleCatalogRefresh)
		r.Get("/pricing-config", s.handlePricingConfig)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
