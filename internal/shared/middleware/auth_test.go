package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"horizon/internal/shared/auth"
)

func TestSession(t *testing.T) {
	sessions := auth.NewSessions("test-secret")
	validToken, _ := sessions.Generate("user-1", "test@example.com")

	tests := []struct {
		name           string
		setupRequest   func(r *http.Request)
		expectedStatus int
		expectedUser   bool
	}{
		{
			name: "Valid Token in Session Cookie",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: validToken})
			},
			expectedStatus: http.StatusOK,
			expectedUser:   true,
		},
		{
			name: "Valid Token in Header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken)
			},
			expectedStatus: http.StatusOK,
			expectedUser:   true,
		},
		{
			name:           "No Token",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
			expectedUser:   false,
		},
		{
			name: "Invalid Token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer invalid")
			},
			expectedStatus: http.StatusUnauthorized,
			expectedUser:   false,
		},
		{
			name: "Malformed Authorization Header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", validToken)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedUser:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userID, ok := r.Context().Value(UserIDKey).(string)
				if tt.expectedUser {
					if !ok || userID != "user-1" {
						t.Errorf("expected user-1 in context, got %q (ok=%v)", userID, ok)
					}
				} else if ok {
					t.Error("unexpected user ID in context")
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Session(sessions)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setupRequest(req)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}
