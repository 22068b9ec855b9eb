package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/handler"
	"github.com/daytrack/internal/staging"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const e2eBaseURL = "http://daytrack.test"

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler) *localClient {
	jar, _ := cookiejar.New(nil)
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) *http.Response {
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	c.jar.SetCookies(req.URL, resp.Cookies())
	return resp
}

type e2eSuite struct {
	client *localClient
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file:e2e_day_flow?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	if err := db.EnsureOwner(gdb, "owner", "e2e-secret"); err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}

	store, err := staging.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open staging: %v", err)
	}

	api := handler.NewAPI(gdb, store, handler.Settings{LoginEnabled: true, Timezone: time.UTC})
	engine := SetupRouter(api, Options{SessionSecret: "e2e-session-secret"})
	return &e2eSuite{client: newLocalClient(engine)}
}

func (s *e2eSuite) call(t *testing.T, method, path string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e2eBaseURL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Timezone", "UTC")

	resp := s.client.Do(req)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s: invalid JSON %q", method, path, raw)
		}
	}
	return resp.StatusCode, decoded
}

func (s *e2eSuite) mustCall(t *testing.T, method, path string, payload any) map[string]any {
	t.Helper()
	status, body := s.call(t, method, path, payload)
	if status != http.StatusOK {
		t.Fatalf("%s %s: expected 200, got %d: %v", method, path, status, body)
	}
	return body
}

func TestE2E_DayFlow(t *testing.T) {
	suite := newE2ESuite(t)

	if status, _ := suite.call(t, http.MethodGet, "/api/work-fragments", nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", status)
	}

	suite.mustCall(t, http.MethodPost, "/api/session", map[string]string{"username": "owner", "password": "e2e-secret"})

	t.Run("moods and fragments", func(t *testing.T) {
		mood := suite.mustCall(t, http.MethodPost, "/api/moods", map[string]string{"emoji": "🙂", "name": "calm"})["mood"].(map[string]any)

		started := suite.mustCall(t, http.MethodPost, "/api/work-fragments", map[string]any{"action": "start", "moodId": mood["id"]})
		if started["state"] != "management" {
			t.Fatalf("expected management, got %v", started["state"])
		}
		suite.mustCall(t, http.MethodPost, "/api/work-fragments", map[string]any{"action": "kaos"})
		suite.mustCall(t, http.MethodPost, "/api/work-fragments", map[string]any{"action": "baptize", "ticket": "#654321"})
		suite.mustCall(t, http.MethodPost, "/api/work-fragments", map[string]any{"action": "assign", "ticket": "#12345"})
		suite.mustCall(t, http.MethodPost, "/api/work-fragments", map[string]any{"action": "stop"})

		all := suite.mustCall(t, http.MethodGet, "/api/work-fragments?all=true", nil)
		if fragments := all["fragments"].([]any); len(fragments) != 3 {
			t.Fatalf("expected 3 fragments, got %d", len(fragments))
		}

		active := suite.mustCall(t, http.MethodGet, "/api/work-fragments", nil)
		if active["state"] != "idle" || active["fragment"] != nil {
			t.Fatalf("expected idle after stop, got %v", active)
		}

		stats := suite.mustCall(t, http.MethodPost, "/api/work-day-stats", nil)["stats"].(map[string]any)
		if _, ok := stats["total"]; !ok {
			t.Fatalf("expected total in stats, got %v", stats)
		}
	})

	t.Run("counters", func(t *testing.T) {
		counter := suite.mustCall(t, http.MethodPost, "/api/counters", map[string]any{"emoji": "💧", "name": "water", "threshold": 1, "exceedingIsGood": true})["counter"].(map[string]any)
		tally := suite.mustCall(t, http.MethodPost, "/api/counter-times", map[string]any{"counterId": counter["id"]})["counterTime"].(map[string]any)
		if tally["timesCount"] != float64(1) || tally["status"] != "good" {
			t.Fatalf("unexpected tally: %v", tally)
		}
		suite.mustCall(t, http.MethodPost, "/api/counter-times/decrement", map[string]any{"counterId": counter["id"]})
		if status, _ := suite.call(t, http.MethodPost, "/api/counter-times/decrement", map[string]any{"counterId": counter["id"]}); status != http.StatusBadRequest {
			t.Fatalf("expected 400 at zero, got %d", status)
		}
	})

	t.Run("daily entry", func(t *testing.T) {
		saved := suite.mustCall(t, http.MethodPost, "/api/daily-entry", map[string]any{
			"date":       "2024-05-01",
			"moodScore":  6,
			"activities": []map[string]any{{"name": "walk", "duration": 20}},
			"notes":      "- one\n- two",
		})
		if saved["success"] != true || saved["entryId"] == nil {
			t.Fatalf("unexpected save response: %v", saved)
		}

		listed := suite.mustCall(t, http.MethodGet, "/api/daily-entry", nil)
		if entries := listed["entries"].([]any); len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		suite.mustCall(t, http.MethodGet, "/api/daily-entry/staged/2024-05-01", nil)
	})

	suite.mustCall(t, http.MethodDelete, "/api/session", nil)
	if status, _ := suite.call(t, http.MethodGet, "/api/counters", nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}
