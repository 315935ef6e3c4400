package main

import (
	"log"
	"net/http"

	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/sign-up", deps.AuthHandler.HandleSignUp)
	mux.HandleFunc("/api/auth/sign-in", deps.AuthHandler.HandleSignIn)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	sessionMiddleware := middleware.Session(deps.Sessions)

	mux.Handle("/api/users/me", sessionMiddleware(http.HandlerFunc(deps.AuthHandler.HandleMe)))
	mux.Handle("/api/accounts", sessionMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccountsSummary)))
	mux.Handle("/api/accounts/{id}", sessionMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccountByID)))
	mux.Handle("/api/linking/token", sessionMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleConnectToken)))
	mux.Handle("/api/linking/callback", sessionMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleLinkCallback)))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))

	// Request tracing and metrics when telemetry is enabled
	if cfg.Telemetry.Enabled {
		handler = middleware.Tracing(middleware.Telemetry(handler))
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
