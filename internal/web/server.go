package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/logging"
	"github.com/hpungsan/sprig/internal/repository"
)

// NewServer creates and configures the HTTP server for the prompt library API.
func NewServer(repo *repository.Repository, cfg *config.Config, logger *log.Logger, bind string, port int) *http.Server {
	if logger == nil {
		logger = logging.Discard()
	}

	h := &Handlers{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           securityHeaders(logRequests(logger, routes(h))),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func routes(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /api/prompts", h.HandleList)
	mux.HandleFunc("POST /api/prompts", h.HandleCreate)
	mux.HandleFunc("GET /api/prompts/{id}", h.HandleGet)
	mux.HandleFunc("PATCH /api/prompts/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /api/prompts/{id}", h.HandleDelete)
	mux.HandleFunc("POST /api/prompts/{id}/favorite", h.HandleToggleFavorite)
	mux.HandleFunc("GET /api/tags", h.HandleTags)
	mux.HandleFunc("GET /api/tags/suggest", h.HandleSuggestTags)

	return mux
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs every request at debug level and server errors at error level.
func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		kv := []any{"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start)}
		if rec.status >= http.StatusInternalServerError {
			logger.Error("request failed", kv...)
			return
		}
		logger.Debug("request", kv...)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *log.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("sprig API running", "url", "http://"+srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
