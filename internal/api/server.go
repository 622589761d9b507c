package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quantpulse/indicator-engine/internal/config"
	"github.com/quantpulse/indicator-engine/internal/service"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

// Server serves the REST and WebSocket API
type Server struct {
	config config.APIConfig
	server *http.Server
	health *http.Server
	hub    *Hub
}

// NewServer creates a new API server wired to the evaluation service
func NewServer(cfg config.APIConfig, svc *service.Service) *Server {
	hub := NewHub(HubConfig{
		WriteTimeout:   cfg.WriteTimeout,
		PingInterval:   cfg.PingInterval,
		MaxConnections: cfg.MaxConnections,
	})

	router := NewRouter(svc, hub, cfg.RateLimitRPS)

	return &Server{
		config: cfg,
		hub:    hub,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		health: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HealthCheckPort),
			Handler:      NewHealthRouter(svc),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// NewRouter builds the route table
func NewRouter(svc *service.Service, hub *Hub, rateLimitRPS int) *mux.Router {
	handler := NewIndicatorHandler(svc)

	router := mux.NewRouter()
	router.Use(mux.MiddlewareFunc(ChainMiddleware(
		ErrorHandlingMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(),
		RateLimitMiddleware(rateLimitRPS),
	)))

	router.HandleFunc("/health", handler.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/symbols", handler.ListSymbols).Methods("GET")
	v1.HandleFunc("/definitions", handler.ListDefinitions).Methods("GET")
	v1.HandleFunc("/indicators/{symbol}", handler.GetIndicators).Methods("GET")
	v1.HandleFunc("/status/{symbol}", handler.GetStatus).Methods("GET")
	v1.HandleFunc("/history/{symbol}", handler.GetHistory).Methods("GET")
	v1.HandleFunc("/samples/{symbol}", handler.IngestSample).Methods("POST")
	v1.HandleFunc("/stream/{symbol}", hub.HandleStream).Methods("GET")
	v1.HandleFunc("/stream", hub.HandleStream).Methods("GET")

	return router
}

// NewHealthRouter builds the standalone health and metrics route table served
// on the health check port, outside the rate-limited API listener.
func NewHealthRouter(svc *service.Service) *mux.Router {
	handler := NewIndicatorHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/health", handler.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return router
}

// Hub returns the WebSocket hub for snapshot broadcasting
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start starts the API and health listeners. Blocks until the API server stops.
func (s *Server) Start() error {
	go func() {
		logger.Info("Health server listening", logger.Int("port", s.config.HealthCheckPort))
		if err := s.health.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server failed", logger.ErrorField(err))
		}
	}()

	logger.Info("API server listening", logger.Int("port", s.config.Port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops both listeners and disconnects WebSocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if err := s.health.Shutdown(ctx); err != nil {
		logger.Error("Health server shutdown failed", logger.ErrorField(err))
	}
	return s.server.Shutdown(ctx)
}
