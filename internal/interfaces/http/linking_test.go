package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/shared/middleware"
)

func newLinkingHandler(provider *MockProvider, banks *MockBankRepo, users *MockUserRepo) *LinkingHandler {
	return NewLinkingHandler(
		linking.NewService(provider, banks, nil),
		user.NewService(users),
	)
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, target, nil)
	} else {
		req, _ = http.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user-1")
	return req.WithContext(ctx)
}

func TestHandleConnectToken(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockProvider   func() *MockProvider
		expectedStatus int
		expectedToken  string
	}{
		{
			name: "Success",
			body: "",
			mockProvider: func() *MockProvider {
				return &MockProvider{
					CreateConnectTokenFunc: func(ctx context.Context, itemID string) (string, error) {
						return "tok-abc", nil
					},
				}
			},
			expectedStatus: http.StatusOK,
			expectedToken:  "tok-abc",
		},
		{
			name: "Update Token For Existing Item",
			body: `{"itemId":"item-1"}`,
			mockProvider: func() *MockProvider {
				return &MockProvider{
					CreateConnectTokenFunc: func(ctx context.Context, itemID string) (string, error) {
						if itemID != "item-1" {
							t.Errorf("expected item-1, got %q", itemID)
						}
						return "tok-update", nil
					},
				}
			},
			expectedStatus: http.StatusOK,
			expectedToken:  "tok-update",
		},
		{
			name: "Provider Error",
			body: "",
			mockProvider: func() *MockProvider {
				return &MockProvider{
					CreateConnectTokenFunc: func(ctx context.Context, itemID string) (string, error) {
						return "", errors.New("provider unavailable")
					},
				}
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newLinkingHandler(tt.mockProvider(), &MockBankRepo{}, &MockUserRepo{})

			req := authedRequest(http.MethodPost, "/api/linking/token", tt.body)
			rr := httptest.NewRecorder()
			handler.HandleConnectToken(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedToken != "" {
				var resp ConnectTokenResponse
				if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Token != tt.expectedToken {
					t.Errorf("expected token %q, got %q", tt.expectedToken, resp.Token)
				}
			}
		})
	}
}

func TestHandleLinkCallback(t *testing.T) {
	userRepo := func() *MockUserRepo {
		return &MockUserRepo{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*user.User, error) {
				return &user.User{ID: "doc-1", UserID: userID, Email: "jane@example.com"}, nil
			},
		}
	}

	tests := []struct {
		name           string
		body           string
		mockProvider   func() *MockProvider
		mockBanks      func() *MockBankRepo
		expectedStatus int
	}{
		{
			name: "Success Event Creates Record",
			body: `{"event":"success","item":{"id":"item-1"}}`,
			mockProvider: func() *MockProvider {
				return &MockProvider{
					FetchAccountsFunc: func(ctx context.Context, itemID string) ([]aggregator.Account, error) {
						return []aggregator.Account{{ID: "acc-1", ItemID: itemID}}, nil
					},
				}
			},
			mockBanks: func() *MockBankRepo {
				return &MockBankRepo{
					CreateFunc: func(ctx context.Context, params bank.CreateParams) (*bank.Bank, error) {
						return &bank.Bank{ID: "rec-1", UserID: params.UserID, ItemID: params.ItemID, AccountID: params.AccountID}, nil
					},
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Item Without Accounts",
			body: `{"event":"success","item":{"id":"item-empty"}}`,
			mockProvider: func() *MockProvider {
				return &MockProvider{
					FetchAccountsFunc: func(ctx context.Context, itemID string) ([]aggregator.Account, error) {
						return []aggregator.Account{}, nil
					},
				}
			},
			mockBanks:      func() *MockBankRepo { return &MockBankRepo{} },
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "Close Event Is Acknowledged",
			body:           `{"event":"close"}`,
			mockProvider:   func() *MockProvider { return &MockProvider{} },
			mockBanks:      func() *MockBankRepo { return &MockBankRepo{} },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Unknown Event",
			body:           `{"event":"shrug"}`,
			mockProvider:   func() *MockProvider { return &MockProvider{} },
			mockBanks:      func() *MockBankRepo { return &MockBankRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Success Without Item ID",
			body:           `{"event":"success"}`,
			mockProvider:   func() *MockProvider { return &MockProvider{} },
			mockBanks:      func() *MockBankRepo { return &MockBankRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newLinkingHandler(tt.mockProvider(), tt.mockBanks(), userRepo())

			req := authedRequest(http.MethodPost, "/api/linking/callback", tt.body)
			rr := httptest.NewRecorder()
			handler.HandleLinkCallback(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleLinkCallbackUnauthorized(t *testing.T) {
	handler := newLinkingHandler(&MockProvider{}, &MockBankRepo{}, &MockUserRepo{})

	req, _ := http.NewRequest(http.MethodPost, "/api/linking/callback", strings.NewReader(`{"event":"success","item":{"id":"item-1"}}`))
	rr := httptest.NewRecorder()
	handler.HandleLinkCallback(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusUnauthorized)
	}
}
