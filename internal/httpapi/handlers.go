package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/config"
	"github.com/ferrovax/domaintracker/internal/domain"
	"github.com/ferrovax/domaintracker/internal/events"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("response_encode_error", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Store.All())
}

type addPayload struct {
	URL string `json:"url"`
}

func (s *Server) handleAddDomain(w http.ResponseWriter, r *http.Request) {
	var p addPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.URL == "" {
		s.writeError(w, http.StatusBadRequest, "bad payload")
		return
	}

	ok, msg := s.Store.Add(p.URL)
	if !ok {
		s.writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	// probe synchronously so the caller gets immediate feedback
	url := domain.Normalize(p.URL)
	res := s.Checker.CheckSimple(r.Context(), url)
	errMsg := ""
	if !res.Accessible {
		errMsg = res.Message
	}
	s.Store.UpdateStatus(url, res.Accessible, errMsg)

	s.Logger.Info("api_domain_added",
		zap.String("url", url),
		zap.Bool("accessible", res.Accessible),
	)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"domain": s.Store.Find(url),
		"result": map[string]any{
			"is_accessible": res.Accessible,
			"message":       res.Message,
			"final_url":     res.FinalURL,
		},
	})
}

func (s *Server) handleRemoveDomain(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "url query parameter required")
		return
	}
	if !s.Store.Remove(url) {
		s.writeError(w, http.StatusNotFound, "domain not tracked or removal failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (s *Server) handleCurrentDomain(w http.ResponseWriter, r *http.Request) {
	cur := s.Store.Current()
	if cur == nil {
		s.writeError(w, http.StatusNotFound, "no domains tracked")
		return
	}
	s.writeJSON(w, http.StatusOK, cur)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Store.Statistics())
}

type cleanupPayload struct {
	MaxErrorCount int `json:"max_error_count"`
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	p := cleanupPayload{MaxErrorCount: s.ErrorLimit}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&p) // optional body, defaults apply
	}
	if p.MaxErrorCount < 1 {
		p.MaxErrorCount = s.ErrorLimit
	}
	removed := s.Store.CleanupInvalid(p.MaxErrorCount)
	if removed == nil {
		removed = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	s.Store.SortByPriority()
	s.writeJSON(w, http.StatusOK, s.Store.All())
}

// handleCheckAll fans a check out over every tracked domain and applies
// the results, like one monitor pass triggered by hand.
func (s *Server) handleCheckAll(w http.ResponseWriter, r *http.Request) {
	entities := s.Store.All()
	results := s.Checker.CheckMany(r.Context(), entities)
	for url, res := range results {
		errMsg := ""
		if !res.Accessible {
			errMsg = res.Message
		}
		s.Store.UpdateStatus(url, res.Accessible, errMsg)
	}

	s.Bus.Publish(events.Event{
		Type:    events.TypeCheckComplete,
		Message: fmt.Sprintf("checked %d domains", len(results)),
	})

	out := make(map[string]any, len(results))
	for url, res := range results {
		out[url] = map[string]any{"is_accessible": res.Accessible, "message": res.Message}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCheckDetailed(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "url query parameter required")
		return
	}
	s.writeJSON(w, http.StatusOK, s.Checker.CheckDetailed(r.Context(), url))
}

func (s *Server) handleRedirects(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "url query parameter required")
		return
	}
	origins := s.Checker.FindRedirected(r.Context(), url)
	if origins == nil {
		origins = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"url": url, "redirected": origins})
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "url query parameter required")
		return
	}
	entity := s.Store.Find(url)
	if entity == nil {
		s.writeError(w, http.StatusNotFound, "domain not tracked")
		return
	}
	score := s.Checker.HealthScore(r.Context(), *entity)
	s.writeJSON(w, http.StatusOK, map[string]any{"url": entity.URL, "health_score": score})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	evs := s.Bus.Drain()
	if evs == nil {
		evs = []events.Event{}
	}
	s.writeJSON(w, http.StatusOK, evs)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, config.LoadSettings(s.SettingsPath, s.Logger))
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	settings := config.LoadSettings(s.SettingsPath, s.Logger)
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if err := config.SaveSettings(s.SettingsPath, settings); err != nil {
		s.Logger.Error("settings_save_error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not persist settings")
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleGetUserConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, config.LoadUserConfig(s.UserConfigPath))
}

func (s *Server) handlePutUserConfig(w http.ResponseWriter, r *http.Request) {
	uc := config.LoadUserConfig(s.UserConfigPath)
	if err := json.NewDecoder(r.Body).Decode(&uc); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if err := config.SaveUserConfig(s.UserConfigPath, uc); err != nil {
		s.Logger.Error("user_config_save_error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not persist user config")
		return
	}
	s.writeJSON(w, http.StatusOK, uc)
}

func (s *Server) handleMonitorStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"running": s.Monitor.Running()})
}

func (s *Server) handleMonitorStart(w http.ResponseWriter, r *http.Request) {
	s.Monitor.Start()
	s.writeJSON(w, http.StatusOK, map[string]bool{"running": true})
}

func (s *Server) handleMonitorStop(w http.ResponseWriter, r *http.Request) {
	s.Monitor.Stop()
	s.writeJSON(w, http.StatusOK, map[string]bool{"running": false})
}

type pathPayload struct {
	Path string `json:"path"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var p pathPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path required")
		return
	}
	if err := s.Store.Export(p.Path); err != nil {
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"exported": p.Path})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var p pathPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path required")
		return
	}
	n, err := s.Store.Import(p.Path)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "import failed: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}
