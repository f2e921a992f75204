// Package web serves the dashboard and value-bet views over HTTP.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchboard/internal/health"
	"github.com/yourusername/matchboard/internal/logger"
	"github.com/yourusername/matchboard/internal/metrics"
	"github.com/yourusername/matchboard/internal/selector"
	"github.com/yourusername/matchboard/internal/service"
)

// DashboardReader is the read side the handlers depend on
type DashboardReader interface {
	Dashboard(ctx context.Context) (*service.Dashboard, error)
	ValueBets(ctx context.Context) (*selector.Selection, error)
	MatchByKey(ctx context.Context, matchKey string) (*service.MatchDetail, error)
}

// Config holds the configuration for the web server
type Config struct {
	Addr               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int
	MetricsEnabled     bool
	MetricsPath        string
	Service            DashboardReader
	Health             *health.Checker
	Feed               *Feed
	Logger             *logrus.Logger
}

// Server routes dashboard requests to the service
type Server struct {
	router  *mux.Router
	server  *http.Server
	service DashboardReader
	feed    *Feed
	logger  *logrus.Logger
	access  *logger.AccessLogger
	limiter *clientLimiter
}

// NewServer builds the router and middleware chain
func NewServer(cfg Config) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		service: cfg.Service,
		feed:    cfg.Feed,
		logger:  cfg.Logger,
		access:  logger.NewAccessLogger(cfg.Logger),
	}
	if cfg.RateLimitPerSecond > 0 {
		s.limiter = newClientLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, limiterIdleExpiry)
	}

	s.router.Use(s.requestID, s.observe, s.rateLimit)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	s.router.HandleFunc("/api/dashboard", s.handleDashboard).Methods(http.MethodGet)
	s.router.HandleFunc("/value-bets", s.handleValueBets).Methods(http.MethodGet)
	s.router.HandleFunc("/api/value-bets", s.handleValueBets).Methods(http.MethodGet)
	s.router.HandleFunc("/api/matches/{key}", s.handleMatch).Methods(http.MethodGet)
	if s.feed != nil {
		s.router.HandleFunc("/ws/value-bets", s.handleFeed).Methods(http.MethodGet)
	}
	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(s.router)
	}
	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.router.Handle(path, metrics.Handler()).Methods(http.MethodGet)
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background. Call Shutdown to stop.
func (s *Server) Start() error {
	go func() {
		s.logger.WithField("addr", s.server.Addr).Info("Dashboard server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Dashboard server error")
		}
	}()
	return nil
}

// Shutdown gracefully stops the server and closes feed subscribers
func (s *Server) Shutdown() error {
	s.logger.Info("Dashboard server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.feed != nil {
		s.feed.Close()
	}
	return s.server.Shutdown(ctx)
}
