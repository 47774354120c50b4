// Package web serves the classifier and splitters over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/coltype/internal/config"
	"github.com/coltype/internal/engine"
	"github.com/coltype/internal/logging"
	"github.com/coltype/internal/metrics"
	"github.com/coltype/internal/web/handlers"
	"github.com/coltype/internal/web/middleware"
)

// Options holds everything the server needs. Recorder and Metrics are
// optional.
type Options struct {
	Config   config.ServerConfig
	Engine   *engine.Engine
	Recorder handlers.RunRecorder
	Metrics  *metrics.Metrics
	Logger   *zap.Logger

	// reported by /api/health
	Countries     int
	LegalSuffixes int
	Version       string
}

// Server represents the web server
type Server struct {
	opts       Options
	logger     *zap.Logger
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance
func NewServer(opts Options) *Server {
	s := &Server{
		opts:   opts,
		logger: logging.OrNop(opts.Logger),
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         opts.Config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  opts.Config.ReadTimeout,
		WriteTimeout: opts.Config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()
	logRequests := middleware.RequestLogging(s.logger, s.opts.Metrics)

	healthHandler := &handlers.HealthHandler{
		Countries:     s.opts.Countries,
		LegalSuffixes: s.opts.LegalSuffixes,
		Version:       s.opts.Version,
	}
	classifyHandler := &handlers.ClassifyHandler{
		Engine:   s.opts.Engine,
		Recorder: s.opts.Recorder,
		Logger:   s.logger,
	}
	splitHandler := &handlers.SplitHandler{Engine: s.opts.Engine}

	methodNotAllowed := logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
	protect := middleware.Authentication(s.opts.Config.APIKey)

	if s.opts.Metrics != nil {
		s.router.Handle("/metrics", s.opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	// every /api path lives on the subrouter so method mismatches resolve here;
	// health stays outside the API key check
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	api.Handle("/classify", protect(http.HandlerFunc(classifyHandler.Classify))).Methods(http.MethodPost)
	api.Handle("/split/company", protect(http.HandlerFunc(splitHandler.Company))).Methods(http.MethodPost)
	api.Handle("/split/phone", protect(http.HandlerFunc(splitHandler.Phone))).Methods(http.MethodPost)
	api.MethodNotAllowedHandler = methodNotAllowed

	s.router.Use(logRequests)
	s.router.NotFoundHandler = logRequests(http.NotFoundHandler())
	s.router.MethodNotAllowedHandler = methodNotAllowed
}

// Handler returns the root handler, CORS included
func (s *Server) Handler() http.Handler {
	return middleware.CORS()(s.router)
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully within the configured timeout
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", l.Addr().String()))
		if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	timeout := s.opts.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// Start listens on the configured address and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, l)
}
