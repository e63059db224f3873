package api

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	internal "orion/internal"
	"orion/internal/config"
)

// OpsServer serves health checks and profiling on a separate port so
// operational traffic never mixes with the API.
type OpsServer struct {
	router *chi.Mux
	db     *sqlx.DB
	cfg    *config.Config
	logger *internal.Logger
}

// NewOpsServer creates the ops router
func NewOpsServer(db *sqlx.DB, cfg *config.Config, logger *internal.Logger) *OpsServer {
	s := &OpsServer{
		router: chi.NewRouter(),
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("[ops] readiness ping failed: %v", err)
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	if cfg.Server.Pprof {
		s.router.HandleFunc("/debug/pprof/", pprof.Index)
		s.router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		s.router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		s.router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		s.router.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	return s
}

// Run starts the ops server on the configured port
func (s *OpsServer) Run() error {
	addr := ":" + s.cfg.Server.OpsPort
	s.logger.Info("[ops] listening on %s", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}
