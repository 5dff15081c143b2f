// Package api exposes the TXML codec as an HTTP conversion service: binary
// buffers in, XML out, and back, with optional persistence of results.
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scraptools/txml/pkg/storage"
)

// Routes builds the chi router for the service. Split out from StartServer
// so tests can drive the full middleware stack with httptest.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, s.metrics))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Post("/decode", s.metrics.InstrumentHandler("POST", "/api/v1/decode", s.handleDecode))
		r.Post("/encode", s.metrics.InstrumentHandler("POST", "/api/v1/encode", s.handleEncode))
		r.Get("/documents/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/documents/{id}", s.handleGetDocument))
	})

	return r
}

// StartServer starts the HTTP conversion service and blocks.
func StartServer(config ServerConfig) error {
	metrics := NewMetrics()

	var docs *storage.DocumentStore
	if config.StorePath != "" {
		var err error
		docs, err = storage.NewDocumentStore(config.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open document store: %w", err)
		}
		defer docs.Close()
	}

	server := NewServer(config, metrics, docs)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting txml conversion service on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	log.Fatal(http.ListenAndServe(addr, server.Routes()))

	return nil
}
