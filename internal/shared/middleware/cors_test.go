package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name         string
		origin       string
		allowedHosts []string
		want         bool
	}{
		{
			name:         "Exact Match With Port",
			origin:       "https://app.horizon.finance:8443",
			allowedHosts: []string{"app.horizon.finance:8443"},
			want:         true,
		},
		{
			name:         "Hostname Match Ignoring Port",
			origin:       "http://app.horizon.finance:3000",
			allowedHosts: []string{"app.horizon.finance"},
			want:         true,
		},
		{
			name:         "Unknown Origin",
			origin:       "https://phish.example",
			allowedHosts: []string{"app.horizon.finance"},
			want:         false,
		},
		{
			name:         "Case Insensitive",
			origin:       "https://App.Horizon.FINANCE",
			allowedHosts: []string{"app.horizon.finance"},
			want:         true,
		},
		{
			name:         "Malformed Origin",
			origin:       "://broken",
			allowedHosts: []string{"app.horizon.finance"},
			want:         false,
		},
		{
			name:         "Subdomain Is Not The Host",
			origin:       "https://evil.app.horizon.finance",
			allowedHosts: []string{"app.horizon.finance"},
			want:         false,
		},
		{
			name:         "Localhost For Development",
			origin:       "http://localhost:3000",
			allowedHosts: []string{"localhost"},
			want:         true,
		},
		{
			name:         "Configured Host With Whitespace",
			origin:       "https://app.horizon.finance",
			allowedHosts: []string{"  app.horizon.finance  "},
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isOriginAllowed(tt.origin, tt.allowedHosts)
			if got != tt.want {
				t.Errorf("isOriginAllowed(%q, %v) = %v, want %v", tt.origin, tt.allowedHosts, got, tt.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		allowedHosts   []string
		origin         string
		method         string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "No Allowed Hosts Accepts Any Origin",
			allowedHosts:   []string{},
			origin:         "https://anything.example",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:           "Allowed Origin Echoed Back",
			allowedHosts:   []string{"app.horizon.finance"},
			origin:         "https://app.horizon.finance",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://app.horizon.finance",
		},
		{
			name:           "Disallowed Origin Rejected",
			allowedHosts:   []string{"app.horizon.finance"},
			origin:         "https://phish.example",
			method:         http.MethodGet,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "No Origin Header Passes",
			allowedHosts:   []string{"app.horizon.finance"},
			origin:         "",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Preflight Short Circuits",
			allowedHosts:   []string{},
			origin:         "https://app.horizon.finance",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/api/accounts", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()

			CORS(tt.allowedHosts)(next).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.expectedStatus)
			}
			if tt.expectedOrigin != "" {
				if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.expectedOrigin {
					t.Errorf("Allow-Origin: got %q, want %q", got, tt.expectedOrigin)
				}
			}
			if tt.method == http.MethodOptions && nextCalled {
				t.Error("next handler ran for a preflight request")
			}
		})
	}
}

func TestCORS_AllowedOriginSendsCredentials(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Origin", "https://app.horizon.finance")
	rr := httptest.NewRecorder()

	CORS([]string{"app.horizon.finance"})(next).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials: got %q, want true", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary: got %q, want Origin", got)
	}
}
