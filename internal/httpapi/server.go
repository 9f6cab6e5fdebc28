// Package httpapi is the presentation-facing interface: a local HTTP
// surface the GUI, tray or CLI drive to manage the tracked domains and
// trigger checks.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/config"
	"github.com/ferrovax/domaintracker/internal/events"
	"github.com/ferrovax/domaintracker/internal/monitor"
	"github.com/ferrovax/domaintracker/internal/netcheck"
	"github.com/ferrovax/domaintracker/internal/store"
)

type Server struct {
	Logger         *zap.Logger
	Store          *store.Store
	Checker        *netcheck.Checker
	Monitor        *monitor.Monitor
	Bus            *events.Bus
	SettingsPath   string
	UserConfigPath string
	ErrorLimit     int // consecutive-error threshold for cleanup
}

func NewServer(
	logger *zap.Logger,
	st *store.Store,
	checker *netcheck.Checker,
	mon *monitor.Monitor,
	bus *events.Bus,
	cfg config.Config,
) *Server {
	return &Server{
		Logger:         logger,
		Store:          st,
		Checker:        checker,
		Monitor:        mon,
		Bus:            bus,
		SettingsPath:   cfg.SettingsFile(),
		UserConfigPath: cfg.UserConfigFile(),
		ErrorLimit:     cfg.MaxErrorCount,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/domains", s.handleListDomains)
		r.Post("/domains", s.handleAddDomain)
		r.Delete("/domains", s.handleRemoveDomain)
		r.Get("/domains/current", s.handleCurrentDomain)
		r.Get("/domains/statistics", s.handleStatistics)
		r.Post("/domains/cleanup", s.handleCleanup)
		r.Post("/domains/sort", s.handleSort)

		r.Post("/check", s.handleCheckAll)
		r.Get("/check", s.handleCheckDetailed)
		r.Get("/redirects", s.handleRedirects)
		r.Get("/health-score", s.handleHealthScore)

		r.Get("/events", s.handleEvents)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Get("/user-config", s.handleGetUserConfig)
		r.Put("/user-config", s.handlePutUserConfig)

		r.Get("/monitor", s.handleMonitorStatus)
		r.Post("/monitor/start", s.handleMonitorStart)
		r.Post("/monitor/stop", s.handleMonitorStop)

		r.Post("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	return r
}
