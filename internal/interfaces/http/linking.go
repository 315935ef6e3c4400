package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/linking"
	"horizon/internal/domain/user"
	"horizon/internal/shared/middleware"
)

type LinkingHandler struct {
	linking     *linking.Service
	userService *user.Service
}

func NewLinkingHandler(linkingService *linking.Service, userService *user.Service) *LinkingHandler {
	return &LinkingHandler{linking: linkingService, userService: userService}
}

type ConnectTokenRequest struct {
	ItemID string `json:"itemId"`
}

type ConnectTokenResponse struct {
	Token string `json:"token"`
}

type LinkCallbackRequest struct {
	Event string `json:"event"`
	Item  struct {
		ID string `json:"id"`
	} `json:"item"`
}

// HandleConnectToken issues a connect token for the linking widget.
// An optional itemId in the body requests an update token for an
// existing connection.
func (h *LinkingHandler) HandleConnectToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ConnectTokenRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	token, err := h.linking.IssueConnectToken(r.Context(), req.ItemID)
	if err != nil {
		log.Printf("Error issuing connect token for user %s: %v", userID, err)
		http.Error(w, "Failed to issue connect token", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, ConnectTokenResponse{Token: token})
}

// HandleLinkCallback receives lifecycle events from the linking widget.
// Only the success event has a server-side effect: it persists the bank
// record for the freshly linked item.
func (h *LinkingHandler) HandleLinkCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req LinkCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch linking.Event(req.Event) {
	case linking.EventSuccess:
		// handled below
	case linking.EventOpened, linking.EventClose, linking.EventError:
		// client-side lifecycle events; acknowledged but nothing to persist
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		http.Error(w, "Unknown event", http.StatusBadRequest)
		return
	}

	if req.Item.ID == "" {
		http.Error(w, "Item ID is required", http.StatusBadRequest)
		return
	}

	u, err := h.userService.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("Error loading user %s: %v", userID, err)
		http.Error(w, "Failed to load user", http.StatusInternalServerError)
		return
	}

	record, err := h.linking.CompleteLinking(r.Context(), u, req.Item.ID)
	if err != nil {
		if errors.Is(err, linking.ErrNoAccounts) {
			http.Error(w, "Item has no accounts", http.StatusUnprocessableEntity)
			return
		}
		log.Printf("Error completing link of item %s for user %s: %v", req.Item.ID, userID, err)
		http.Error(w, "Failed to complete linking", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}
