// internal/auth/routes.go

package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all auth routes. Protected routes wrap their
// handlers individually so public and protected endpoints can share the
// same path prefix.
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *Middleware) {
	api := router.PathPrefix("/api/v1/auth").Subrouter()

	// Public routes
	api.HandleFunc("/signup", handler.Signup).Methods("POST")
	api.HandleFunc("/signin", handler.Signin).Methods("POST")
	api.HandleFunc("/refresh", handler.RefreshToken).Methods("POST")
	api.HandleFunc("/logout", handler.Logout).Methods("POST")

	// Protected routes
	api.Handle("/me", middleware.Authenticate(http.HandlerFunc(handler.Me))).Methods("GET")
	api.Handle("/logout-all", middleware.Authenticate(http.HandlerFunc(handler.LogoutAllDevices))).Methods("POST")
	api.Handle("/account", middleware.Authenticate(http.HandlerFunc(handler.DeleteAccount))).Methods("DELETE")
}
