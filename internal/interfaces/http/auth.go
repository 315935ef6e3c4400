package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/user"
	"horizon/internal/shared/auth"
	"horizon/internal/shared/middleware"
)

type AuthHandler struct {
	userService *user.Service
	sessions    *auth.Sessions
}

func NewAuthHandler(userService *user.Service, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{userService: userService, sessions: sessions}
}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleSignUp registers a new user and starts a session
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.userService.SignUp(r.Context(), user.SignUpParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address1:    req.Address1,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			http.Error(w, "User with this email already exists", http.StatusConflict)
			return
		}
		log.Printf("Error signing up %s: %v", req.Email, err)
		http.Error(w, "Failed to sign up", http.StatusBadRequest)
		return
	}

	h.startSession(w, u)
}

// HandleSignIn authenticates a user with email and password
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	u, err := h.userService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		log.Printf("Error signing in %s: %v", req.Email, err)
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	h.startSession(w, u)
}

// HandleLogout clears the session cookie
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the record of the authenticated user
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
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

	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, u *user.User) {
	token, err := h.sessions.Generate(u.UserID, u.Email)
	if err != nil {
		log.Printf("Error generating session for user %s: %v", u.UserID, err)
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: u})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
