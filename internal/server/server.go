// Package server exposes type classification and column metadata over
// HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsarwari/pgCompare/internal/catalog"
	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Connections hands out a connection and a bounded context per role.
// *connect.Manager satisfies it.
type Connections interface {
	DB(ctx context.Context, role string) (database.DB, error)
	WithQueryTimeout(ctx context.Context, role string) (context.Context, context.CancelFunc)
}

// Roles lists configured roles and their engine names. *config.Config
// satisfies it.
type Roles interface {
	Roles() []string
	EngineFor(role string) string
}

// Server routes requests to the catalog layer.
type Server struct {
	fetcher *catalog.Fetcher
	conns   Connections
	roles   Roles
	log     *logger.Logger
	router  chi.Router
}

func New(fetcher *catalog.Fetcher, conns Connections, roles Roles, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Global()
	}
	s := &Server{
		fetcher: fetcher,
		conns:   conns,
		roles:   roles,
		log:     log.Component("http"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/types/{type}", s.handleType)
		r.Get("/roles", s.handleRoles)
		r.Route("/roles/{role}/schemas/{schema}/tables", func(r chi.Router) {
			r.Get("/", s.handleTables)
			r.Get("/{table}/columns", s.handleColumns)
			r.Get("/{table}/preview", s.handlePreview)
		})
	})
	return r
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.With().Str("addr", addr).Logger().Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := middleware.GetReqID(r.Context())
		reqLog := s.log.With().Str("requestId", reqID).Logger()
		r = r.WithContext(reqLog.WithContext(r.Context()))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.HTTPEvent().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("requestId", reqID).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
