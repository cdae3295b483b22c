package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/akvel/callsig/internal/app"
	"github.com/akvel/callsig/internal/config"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Mode: "test", Secret: "test-secret"}
	coord := &app.Coordinator{
		Presence: app.NewPresence(),
		Sessions: app.NewSessionTable(),
	}
	return SetupRouter(context.Background(), cfg, coord, nil)
}

func TestHealthz(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPeersAndSessionsEndpoints(t *testing.T) {
	r := testRouter()
	for _, path := range []string{"/api/peers", "/api/sessions"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		if w.Code != stdhttp.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: invalid json: %v", path, err)
		}
	}
}

func TestClientTokenCookieIssued(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == "ct" && c.Value != "" {
			return
		}
	}
	t.Fatal("expected a client token cookie on first request")
}
