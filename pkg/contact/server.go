package contact

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-siteform/pkg/config"
	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/logging"
	"github.com/goliatone/go-siteform/pkg/validation"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// utcNow stamps stored submissions independently of the host zone.
func utcNow() time.Time { return time.Now().UTC() }

// NewRouter mounts the contact handler at contactPath, health and metrics
// endpoints, and optionally serves the static site from staticDir.
func NewRouter(handler http.Handler, contactPath, staticDir string, gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post(contactPath, handler.ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	return r
}

// Server runs the contact endpoint over HTTP.
type Server struct {
	cfg      config.Config
	logger   logging.Logger
	registry *prometheus.Registry
	handler  *Handler
	srv      *http.Server
}

// NewServer wires a Handler from cfg. The sink defaults to a LogSink.
func NewServer(cfg config.Config, logger logging.Logger, sink Sink) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithComponent("contact")
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	validator := validation.New(
		validation.WithLocalizer(i18n.NewLocalizer(i18n.Default(), cfg.Locale)),
		validation.WithMessageMinLength(cfg.MessageMinLength),
	)
	handler := NewHandler(
		WithFields(cfg.Fields),
		WithValidator(validator),
		WithSink(sink),
		WithHoneypotField(cfg.HoneypotField),
		WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		WithMetrics(NewMetrics(registry)),
		WithLogger(logger),
		WithClock(utcNow),
	)

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		handler:  handler,
	}
	s.srv = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewRouter(handler, cfg.Server.ContactPath, cfg.Server.StaticDir, registry),
		ReadTimeout:       cfg.Server.ReadTimeout.Std(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout.Std(),
		WriteTimeout:      cfg.Server.WriteTimeout.Std(),
	}
	return s
}

// Handler exposes the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Registry exposes the metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info(ctx, "contact server listening",
		"addr", ln.Addr().String(),
		"contact_path", s.cfg.Server.ContactPath,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout.Std()
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info(shutdownCtx, "contact server stopped")
	return <-errCh
}
