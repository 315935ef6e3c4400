package http

import (
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/aggregation"
	"horizon/internal/domain/bank"
	"horizon/internal/shared/middleware"
)

type AccountHandler struct {
	aggregation *aggregation.Service
}

func NewAccountHandler(agg *aggregation.Service) *AccountHandler {
	return &AccountHandler{aggregation: agg}
}

// HandleAccountsSummary returns every linked account for the
// authenticated user along with the portfolio totals
func (h *AccountHandler) HandleAccountsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.aggregation.GetAccountsSummary(r.Context(), userID)
	if err != nil {
		log.Printf("Error building accounts summary for user %s: %v", userID, err)
		http.Error(w, "Failed to load accounts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleAccountByID returns a single account with its transaction history
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recordID := r.PathValue("id")
	if recordID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	detail, err := h.aggregation.GetAccountDetail(r.Context(), userID, recordID)
	if err != nil {
		switch {
		case errors.Is(err, bank.ErrNotFound):
			http.Error(w, "Account not found", http.StatusNotFound)
		case errors.Is(err, aggregation.ErrInvalidInput):
			http.Error(w, "Invalid account ID", http.StatusBadRequest)
		default:
			log.Printf("Error loading account %s: %v", recordID, err)
			http.Error(w, "Failed to load account", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
