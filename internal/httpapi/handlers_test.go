package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/config"
	"github.com/ferrovax/domaintracker/internal/domain"
	"github.com/ferrovax/domaintracker/internal/events"
	"github.com/ferrovax/domaintracker/internal/monitor"
	"github.com/ferrovax/domaintracker/internal/netcheck"
	"github.com/ferrovax/domaintracker/internal/store"
)

// ---- test helpers ----

type testEnv struct {
	api   *httptest.Server
	store *store.Store
	bus   *events.Bus
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	cfg := config.Config{
		DataDir:       t.TempDir(),
		MaxDomains:    10,
		MaxErrorCount: 5,
	}

	bus := events.NewBus(64)
	st := store.New(store.NewFile(cfg.DomainsFile(), log), cfg.MaxDomains, config.AppVersion, bus, log)
	chk := netcheck.New(netcheck.Options{Timeout: 2 * time.Second, CacheTTL: time.Millisecond}, log)
	mon := monitor.New(st, chk, time.Hour, cfg.MaxErrorCount, log)

	srv := NewServer(log, st, chk, mon, bus, cfg)
	api := httptest.NewServer(srv.Router())
	t.Cleanup(api.Close)
	t.Cleanup(mon.Stop)
	return &testEnv{api: api, store: st, bus: bus}
}

// backend spins up a target site returning the given status.
func backend(t *testing.T, status int) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(s.Close)
	return s
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// ---- tests ----

func TestAddListRemoveDomain(t *testing.T) {
	env := setup(t)
	site := backend(t, 200)

	resp := doJSON(t, http.MethodPost, env.api.URL+"/api/domains", map[string]string{"url": site.URL})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: want 200, got %d", resp.StatusCode)
	}
	var added struct {
		Domain domain.Entity `json:"domain"`
		Result struct {
			IsAccessible bool `json:"is_accessible"`
		} `json:"result"`
	}
	decode(t, resp, &added)
	if !added.Result.IsAccessible {
		t.Fatalf("backend is up, add should report accessible")
	}
	if added.Domain.Status != domain.StatusActive {
		t.Fatalf("synchronous probe should mark domain active, got %s", added.Domain.Status)
	}

	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/domains", nil)
	var list []domain.Entity
	decode(t, resp, &list)
	if len(list) != 1 || list[0].URL != site.URL {
		t.Fatalf("want one tracked domain, got %+v", list)
	}

	resp = doJSON(t, http.MethodDelete, env.api.URL+"/api/domains?url="+site.URL, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove: want 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	if env.store.Find(site.URL) != nil {
		t.Fatalf("domain should be gone after delete")
	}
}

func TestAddDomain_Invalid(t *testing.T) {
	env := setup(t)

	resp := doJSON(t, http.MethodPost, env.api.URL+"/api/domains", map[string]string{"url": "https://localhost"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("want 422 for invalid domain, got %d", resp.StatusCode)
	}
	var out map[string]string
	decode(t, resp, &out)
	if out["error"] == "" {
		t.Fatalf("rejection should carry a reason")
	}
}

func TestCheckAll_UpdatesStatuses(t *testing.T) {
	env := setup(t)
	up := backend(t, 200)
	down := backend(t, 503)

	env.store.Add(up.URL)
	env.store.Add(down.URL)

	resp := doJSON(t, http.MethodPost, env.api.URL+"/api/check", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check: want 200, got %d", resp.StatusCode)
	}
	var results map[string]struct {
		IsAccessible bool `json:"is_accessible"`
	}
	decode(t, resp, &results)
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	if !results[up.URL].IsAccessible || results[down.URL].IsAccessible {
		t.Fatalf("unexpected results: %+v", results)
	}
	if env.store.Find(down.URL).Status != domain.StatusError {
		t.Fatalf("failed check should flip the stored status")
	}
}

func TestStatisticsAndCurrent(t *testing.T) {
	env := setup(t)

	resp := doJSON(t, http.MethodGet, env.api.URL+"/api/domains/current", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("empty store: want 404 current, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	env.store.Add("a.example.com")
	env.store.Add("b.example.com")

	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/domains/current", nil)
	var cur domain.Entity
	decode(t, resp, &cur)
	if cur.URL != "https://b.example.com" {
		t.Fatalf("current should be most recently added, got %q", cur.URL)
	}

	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/domains/statistics", nil)
	var stats domain.Statistics
	decode(t, resp, &stats)
	if stats.Total != 2 || stats.Unknown != 2 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
}

func TestDetailedCheckAndRedirects(t *testing.T) {
	env := setup(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})
	site := httptest.NewServer(mux)
	defer site.Close()

	resp := doJSON(t, http.MethodGet, env.api.URL+"/api/check?url="+site.URL+"/old", nil)
	var detailed netcheck.DetailedResult
	decode(t, resp, &detailed)
	if !detailed.Accessible || detailed.FinalURL != site.URL+"/new" {
		t.Fatalf("unexpected detailed result %+v", detailed)
	}

	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/redirects?url="+site.URL+"/old", nil)
	var red struct {
		Redirected []string `json:"redirected"`
	}
	decode(t, resp, &red)
	if len(red.Redirected) != 1 || red.Redirected[0] != site.URL {
		t.Fatalf("unexpected redirects %+v", red)
	}
}

func TestEventsDrain(t *testing.T) {
	env := setup(t)
	env.store.Add("a.example.com")

	resp := doJSON(t, http.MethodGet, env.api.URL+"/api/events", nil)
	var evs []events.Event
	decode(t, resp, &evs)
	if len(evs) == 0 {
		t.Fatalf("add should have queued an event")
	}

	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/events", nil)
	decode(t, resp, &evs)
	if len(evs) != 0 {
		t.Fatalf("second drain should be empty, got %+v", evs)
	}
}

func TestSettingsRoundTripOverAPI(t *testing.T) {
	env := setup(t)

	resp := doJSON(t, http.MethodGet, env.api.URL+"/api/settings", nil)
	var s config.Settings
	decode(t, resp, &s)
	if s.Theme != "default" {
		t.Fatalf("want default settings first, got %+v", s)
	}

	s.Theme = "dark"
	resp = doJSON(t, http.MethodPut, env.api.URL+"/api/settings", s)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put settings: want 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/settings", nil)
	decode(t, resp, &s)
	if s.Theme != "dark" {
		t.Fatalf("settings change should persist, got %+v", s)
	}
}

func TestUserConfigRoundTripOverAPI(t *testing.T) {
	env := setup(t)

	resp := doJSON(t, http.MethodGet, env.api.URL+"/api/user-config", nil)
	var uc config.UserConfig
	decode(t, resp, &uc)
	if uc.WindowWidth != 700 {
		t.Fatalf("want default user config first, got %+v", uc)
	}

	uc.WindowWidth = 900
	uc.PopupEnabled = false
	resp = doJSON(t, http.MethodPut, env.api.URL+"/api/user-config", uc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put user config: want 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/user-config", nil)
	decode(t, resp, &uc)
	if uc.WindowWidth != 900 || uc.PopupEnabled {
		t.Fatalf("user config change should persist, got %+v", uc)
	}
}

func TestMonitorEndpoints(t *testing.T) {
	env := setup(t)

	resp := doJSON(t, http.MethodGet, env.api.URL+"/api/monitor", nil)
	var st map[string]bool
	decode(t, resp, &st)
	if st["running"] {
		t.Fatalf("monitor should start stopped")
	}

	doJSON(t, http.MethodPost, env.api.URL+"/api/monitor/start", nil).Body.Close()
	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/monitor", nil)
	decode(t, resp, &st)
	if !st["running"] {
		t.Fatalf("monitor should be running after start")
	}

	doJSON(t, http.MethodPost, env.api.URL+"/api/monitor/stop", nil).Body.Close()
	resp = doJSON(t, http.MethodGet, env.api.URL+"/api/monitor", nil)
	decode(t, resp, &st)
	if st["running"] {
		t.Fatalf("monitor should be stopped after stop")
	}
}

func TestExportImportOverAPI(t *testing.T) {
	env := setup(t)
	env.store.Add("a.example.com")

	path := filepath.Join(t.TempDir(), "export.json")
	resp := doJSON(t, http.MethodPost, env.api.URL+"/api/export", map[string]string{"path": path})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: want 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	env.store.Remove("a.example.com")

	resp = doJSON(t, http.MethodPost, env.api.URL+"/api/import", map[string]string{"path": path})
	var out map[string]int
	decode(t, resp, &out)
	if out["imported"] != 1 {
		t.Fatalf("want 1 imported, got %d", out["imported"])
	}
	if env.store.Find("a.example.com") == nil {
		t.Fatalf("imported domain should be present")
	}
}

func TestCleanupEndpoint(t *testing.T) {
	env := setup(t)
	env.store.Add("bad.example.com")
	for i := 0; i < 5; i++ {
		env.store.UpdateStatus("bad.example.com", false, "timeout")
	}

	resp := doJSON(t, http.MethodPost, env.api.URL+"/api/domains/cleanup", map[string]int{"max_error_count": 5})
	var out struct {
		Removed []string `json:"removed"`
	}
	decode(t, resp, &out)
	if len(out.Removed) != 1 || !strings.HasSuffix(out.Removed[0], "bad.example.com") {
		t.Fatalf("want bad domain removed, got %v", out.Removed)
	}
}
