package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{
			name:         "Empty List Allows Everything",
			host:         "api.horizon.finance",
			allowedHosts: []string{},
			want:         true,
		},
		{
			name:         "Exact Match With Port",
			host:         "api.horizon.finance:8443",
			allowedHosts: []string{"api.horizon.finance:8443"},
			want:         true,
		},
		{
			name:         "Host Without Port Matches Allowed With Port",
			host:         "api.horizon.finance",
			allowedHosts: []string{"api.horizon.finance:8443"},
			want:         true,
		},
		{
			name:         "Host With Port Matches Allowed Without Port",
			host:         "api.horizon.finance:8443",
			allowedHosts: []string{"api.horizon.finance"},
			want:         true,
		},
		{
			name:         "Localhost With Port",
			host:         "localhost:3000",
			allowedHosts: []string{"localhost"},
			want:         true,
		},
		{
			name:         "IPv6 Loopback With Port",
			host:         "[::1]:8080",
			allowedHosts: []string{"[::1]:8080"},
			want:         true,
		},
		{
			name:         "IPv6 Without Port Matches Allowed With Port",
			host:         "::1",
			allowedHosts: []string{"[::1]:8080"},
			want:         true,
		},
		{
			name:         "IPv6 With Port Matches Allowed Without Port",
			host:         "[::1]:8080",
			allowedHosts: []string{"::1"},
			want:         true,
		},
		{
			name:         "IPv6 Full Address",
			host:         "[2001:db8::8a2e:370:7334]:443",
			allowedHosts: []string{"2001:db8::8a2e:370:7334"},
			want:         true,
		},
		{
			name:         "IPv6 Link Local With Zone",
			host:         "[fe80::1%lo0]:8080",
			allowedHosts: []string{"fe80::1%lo0"},
			want:         true,
		},
		{
			name:         "Case Insensitive",
			host:         "API.Horizon.FINANCE:8443",
			allowedHosts: []string{"api.horizon.finance"},
			want:         true,
		},
		{
			name:         "Whitespace On Both Sides",
			host:         "  api.horizon.finance:8443  ",
			allowedHosts: []string{"  api.horizon.finance  "},
			want:         true,
		},
		{
			name:         "Match Later In List",
			host:         "app.horizon.finance",
			allowedHosts: []string{"horizon.finance", "app.horizon.finance", "api.horizon.finance"},
			want:         true,
		},
		{
			name:         "Unknown Host Rejected",
			host:         "phish.example",
			allowedHosts: []string{"horizon.finance", "app.horizon.finance"},
			want:         false,
		},
		{
			name:         "Subdomain Is Not The Host",
			host:         "evil.horizon.finance",
			allowedHosts: []string{"horizon.finance"},
			want:         false,
		},
		{
			name:         "Different IPv6 Address",
			host:         "[::2]:8080",
			allowedHosts: []string{"[::1]:8080"},
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsHostAllowed(tt.host, tt.allowedHosts)
			if got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v",
					tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}

func TestSecureCookies(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "appwrite-session=tok; Path=/")
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	SecureCookies(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/sign-in", nil))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies: got %d, want 1", len(cookies))
	}
	c := cookies[0]
	if !c.Secure {
		t.Error("cookie is missing Secure")
	}
	if !c.HttpOnly {
		t.Error("cookie is missing HttpOnly")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite: got %v, want Strict", c.SameSite)
	}
}

func TestHSTS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	HSTS(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rr.Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("Strict-Transport-Security header not set")
	}
}
