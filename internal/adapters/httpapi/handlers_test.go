package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurhouse/murmur/internal/archive"
	"github.com/murmurhouse/murmur/internal/config"
	"github.com/murmurhouse/murmur/internal/domain"
	"github.com/murmurhouse/murmur/internal/generate"
	"github.com/murmurhouse/murmur/internal/room"
)

type stubGen struct{}

func (stubGen) Generate(context.Context, generate.Request) (domain.Message, error) {
	return domain.Message{}, fmt.Errorf("not generating in tests")
}

type stubStore struct {
	archives []domain.Archive
	hits     []archive.SearchHit
}

func (s *stubStore) Persist(context.Context, domain.Archive) error { return nil }

func (s *stubStore) ListRecent(context.Context, domain.RoomID, int) ([]domain.Archive, error) {
	return s.archives, nil
}

func (s *stubStore) Search(context.Context, domain.RoomID, string, int) ([]archive.SearchHit, error) {
	return s.hits, nil
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func newTestServer(t *testing.T, apiKey string, store *stubStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	configs := []domain.RoomConfig{
		{
			ID:     "philosophy",
			Name:   "Philosophy Room",
			Roster: []string{"nyx", "zero"},
			Topics: []string{"time"},
			Timing: domain.Timing{
				MinDelay:     15 * time.Second,
				MaxDelay:     30 * time.Second,
				InitialDelay: 5 * time.Second,
			},
			DailyMessageCap: 100,
			Enabled:         true,
		},
		{
			ID:     "crypto",
			Name:   "Crypto Room",
			Roster: []string{"bull"},
			Topics: []string{"cycles"},
			Timing: domain.Timing{
				MinDelay:     20 * time.Second,
				MaxDelay:     35 * time.Second,
				InitialDelay: 5 * time.Second,
			},
			DailyMessageCap: 100,
			Enabled:         false,
		},
	}

	sup := room.NewSupervisor(context.Background(), configs, room.Deps{
		Generator: stubGen{},
		Archives:  store,
		After:     func(time.Duration, func()) room.TimerHandle { return noopTimer{} },
	})
	t.Cleanup(sup.Shutdown)

	cfg := &config.Config{Mode: "release", Secret: "test-secret"}
	cfg.OpenAI.APIKey = apiKey
	return SetupRouter(context.Background(), cfg, sup)
}

func get(t *testing.T, srv *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.ServeHTTP(w, req)
	var body map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestBannerListsEndpoints(t *testing.T) {
	srv := newTestServer(t, "sk-test", &stubStore{})
	w, body := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "murmur", body["service"])
	assert.Contains(t, body["endpoints"], "/api/rooms/:room/stream")
}

func TestHealthzReflectsAPIKey(t *testing.T) {
	srv := newTestServer(t, "sk-test", &stubStore{})
	_, body := get(t, srv, "/healthz")
	assert.Equal(t, "healthy", body["status"])

	srv = newTestServer(t, "", &stubStore{})
	_, body = get(t, srv, "/healthz")
	assert.Equal(t, "degraded", body["status"])
}

func TestStatusAggregatesEnabledRooms(t *testing.T) {
	srv := newTestServer(t, "sk-test", &stubStore{})
	w, body := get(t, srv, "/status")
	assert.Equal(t, http.StatusOK, w.Code)

	rooms := body["rooms"].([]any)
	require.Len(t, rooms, 1, "disabled rooms stay out of the status view")
	first := rooms[0].(map[string]any)
	assert.Equal(t, "philosophy", first["room"])
	assert.Equal(t, float64(100), first["dailyLimit"])
	assert.Equal(t, float64(0), body["totalDailyMessages"])
	assert.Equal(t, float64(0), body["estimatedDailyCost"])
}

func TestRoomStats(t *testing.T) {
	srv := newTestServer(t, "sk-test", &stubStore{})
	w, body := get(t, srv, "/api/rooms/philosophy/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "philosophy", body["roomId"])
	assert.Equal(t, float64(0), body["totalMessages"])
}

func TestUnknownRoomIsBadRequest(t *testing.T) {
	srv := newTestServer(t, "sk-test", &stubStore{})
	for _, path := range []string{
		"/api/rooms/nope/stats",
		"/api/rooms/nope/archives",
		"/api/rooms/nope/search?q=x",
	} {
		w, _ := get(t, srv, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestDisabledRoomIsUnavailable(t *testing.T) {
	srv := newTestServer(t, "sk-test", &stubStore{})
	w, _ := get(t, srv, "/api/rooms/crypto/stats")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRoomArchives(t *testing.T) {
	store := &stubStore{archives: []domain.Archive{
		domain.NewArchive("philosophy", []domain.Message{
			domain.NewMessage("nyx", "what persists", 4, time.Now()),
		}, time.Now()),
	}}
	srv := newTestServer(t, "sk-test", store)
	w, body := get(t, srv, "/api/rooms/philosophy/archives")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestSearchRequiresQuery(t *testing.T) {
	srv := newTestServer(t, "sk-test", &stubStore{})
	w, body := get(t, srv, "/api/rooms/philosophy/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "q")
}

func TestSearchReturnsHits(t *testing.T) {
	store := &stubStore{hits: []archive.SearchHit{{Score: 0.9}}}
	srv := newTestServer(t, "sk-test", store)
	w, body := get(t, srv, "/api/rooms/philosophy/search?q=reality")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "reality", body["query"])
	assert.Equal(t, float64(1), body["count"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, "sk-test", &stubStore{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/status", nil)
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
