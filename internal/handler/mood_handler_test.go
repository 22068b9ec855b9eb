package handler

import (
	"net/http"
	"testing"
)

func TestMoodHandlers(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := performJSON(http.MethodPost, "/api/moods", map[string]any{"name": "tired"}, nil, api.CreateMood)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 without emoji, got %d", w.Code)
	}

	w = performJSON(http.MethodPost, "/api/moods", map[string]any{"emoji": "😀", "name": "focused"}, nil, api.CreateMood)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	moodID := decodeBody(t, w)["mood"].(map[string]any)["id"]

	w = performJSON(http.MethodGet, "/api/moods", nil, nil, api.GetMoods)
	if moods := decodeBody(t, w)["moods"].([]any); len(moods) != 1 {
		t.Fatalf("expected 1 mood, got %d", len(moods))
	}

	w = performJSON(http.MethodPost, "/api/work-fragments", map[string]any{"action": "start", "moodId": moodID}, nil, api.PostWorkFragmentAction)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	fragment := decodeBody(t, w)["fragment"].(map[string]any)
	if mood, ok := fragment["mood"].(map[string]any); !ok || mood["emoji"] != "😀" {
		t.Fatalf("expected embedded mood, got %v", fragment["mood"])
	}

	w = performJSON(http.MethodPost, "/api/work-fragments", map[string]any{"action": "kaos", "moodId": 42}, nil, api.PostWorkFragmentAction)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown mood, got %d", w.Code)
	}
}
