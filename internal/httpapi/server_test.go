package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/edgard/awaybot/internal/config"
	"github.com/edgard/awaybot/internal/state"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		HTTP:     config.HTTPConfig{Addr: ":0"},
		Messages: config.MessagesConfig{OfflineDefault: "I'm currently offline. Will reply soon!"},
	}
	st := state.NewStore(filepath.Join(t.TempDir(), "state.json"), logger)
	return NewServer(logger, cfg, st)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return payload
}

func TestRootProbe(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	payload := decodeBody(t, rec)
	if payload["status"] != "Online" {
		t.Errorf("status = %v, want Online", payload["status"])
	}
	if payload["offline_mode"] != false {
		t.Errorf("offline_mode = %v, want false", payload["offline_mode"])
	}

	if rec := doRequest(t, s, http.MethodHead, "/", ""); rec.Code != http.StatusOK {
		t.Errorf("HEAD / status = %d, want 200", rec.Code)
	}
}

func TestRootProbeOffline(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.state.SetOffline("away", time.Time{})

	payload := decodeBody(t, doRequest(t, s, http.MethodGet, "/", ""))
	if payload["status"] != "Offline" {
		t.Errorf("status = %v, want Offline", payload["status"])
	}
	if payload["offline_mode"] != true {
		t.Errorf("offline_mode = %v, want true", payload["offline_mode"])
	}
}

func TestRootProbeOfflineUntil(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.state.SetOffline("away", time.Now().Add(time.Hour))

	payload := decodeBody(t, doRequest(t, s, http.MethodGet, "/", ""))
	status, _ := payload["status"].(string)
	if !strings.HasPrefix(status, "Offline (until ") {
		t.Errorf("status = %q, want Offline (until ...)", status)
	}
}

func TestRootUnknownPath(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	if rec := doRequest(t, s, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", rec.Code)
	}
}

func TestRootMethodNotAllowed(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	if rec := doRequest(t, s, http.MethodPost, "/", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / status = %d, want 405", rec.Code)
	}
}

func TestOfflineEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/offline", `{"message": "gone fishing"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /offline status = %d, want 200", rec.Code)
	}
	if !s.state.IsOffline() {
		t.Error("expected state to be offline")
	}
	if got := s.state.OfflineMessage(); got != "gone fishing" {
		t.Errorf("offline message = %q, want %q", got, "gone fishing")
	}
}

func TestOfflineEndpointDefaults(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "empty message", body: `{"message": ""}`},
		{name: "no message key", body: `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t)
			rec := doRequest(t, s, http.MethodPost, "/offline", tc.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("POST /offline status = %d, want 200", rec.Code)
			}
			if got := s.state.OfflineMessage(); got != s.cfg.Messages.OfflineDefault {
				t.Errorf("offline message = %q, want default %q", got, s.cfg.Messages.OfflineDefault)
			}
		})
	}
}

func TestOfflineEndpointBadJSON(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/offline", `{"message": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /offline status = %d, want 400", rec.Code)
	}
	if s.state.IsOffline() {
		t.Error("state must not change on a rejected request")
	}
}

func TestOnlineEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.state.SetOffline("away", time.Time{})

	rec := doRequest(t, s, http.MethodPost, "/online", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /online status = %d, want 200", rec.Code)
	}
	if s.state.IsOffline() {
		t.Error("expected state to be online")
	}
}

func TestControlEndpointsRequirePost(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	for _, path := range []string{"/offline", "/online"} {
		if rec := doRequest(t, s, http.MethodGet, path, ""); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s status = %d, want 405", path, rec.Code)
		}
	}
}
