package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct{ err error }

func (s stubChecker) Ping(ctx context.Context) error { return s.err }

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(nil, nil)
	w := httptest.NewRecorder()
	h.Healthz(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status field = %q", resp.Status)
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		db, cache  HealthChecker
		wantStatus int
	}{
		{"all healthy", stubChecker{}, stubChecker{}, http.StatusOK},
		{"db down", stubChecker{err: errors.New("pg down")}, stubChecker{}, http.StatusServiceUnavailable},
		{"redis down", stubChecker{}, stubChecker{err: errors.New("redis down")}, http.StatusServiceUnavailable},
		{"not configured", nil, nil, http.StatusOK},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(tc.db, tc.cache)
			w := httptest.NewRecorder()
			h.Readyz(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}
