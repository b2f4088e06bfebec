package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/importer"
	"github.com/vhvplatform/react-framework-sub001/internal/registry"
)

// Options configures a Server.
type Options struct {
	// Registry backs the template endpoints. Required.
	Registry *registry.Registry

	// Importer runs websocket imports. When nil the import endpoint
	// answers 503.
	Importer *importer.Importer

	// Logger receives request logs.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Gatherer is exposed on /metrics.
	// Default: prometheus.DefaultGatherer
	Gatherer prometheus.Gatherer

	// ImportTimeout bounds each websocket import. Zero means no limit
	// beyond the connection's lifetime.
	ImportTimeout time.Duration

	// CheckOrigin validates websocket origins. Nil accepts same-origin
	// requests only, as gorilla/websocket does by default.
	CheckOrigin func(r *http.Request) bool
}

// Server exposes the registry and imports over HTTP.
type Server struct {
	reg      *registry.Registry
	importer *importer.Importer
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	timeout  time.Duration
	upgrader websocket.Upgrader
	router   chi.Router
}

// New returns a Server for opts.
func New(opts Options) *Server {
	s := &Server{
		reg:      opts.Registry,
		importer: opts.Importer,
		logger:   opts.Logger,
		gatherer: opts.Gatherer,
		timeout:  opts.ImportTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/templates", s.listTemplates)
		r.Get("/templates/{name}", s.getTemplate)
		r.Delete("/templates/{name}", s.deleteTemplate)
		r.Get("/imports/ws", s.importWS)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// asError returns err as an *errors.Error, wrapping plain errors.
func asError(err error) *errors.Error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e
	}
	return errors.Newf("", "%s", err.Error())
}

// statusOf maps an error category to an HTTP status.
func statusOf(err *errors.Error) int {
	switch {
	case err.Code == "E202":
		return http.StatusConflict
	case err.Category == errors.CategoryNotFound:
		return http.StatusNotFound
	case err.Category == errors.CategoryValidation:
		return http.StatusBadRequest
	case err.Category == errors.CategoryAnalysis:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	e := asError(err)
	status := statusOf(e)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":` + e.FormatJSON() + "}\n"))
}
