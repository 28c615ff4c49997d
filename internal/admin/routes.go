// internal/admin/routes.go

package admin

import (
	"github.com/gorilla/mux"

	"github.com/workswipe/workswipe-backend/internal/auth"
)

// RegisterRoutes registers all admin routes behind the admin check
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/admin").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.Use(authMiddleware.RequireAdmin)

	api.HandleFunc("/stats", handler.GetStats).Methods("GET")
	api.HandleFunc("/users", handler.ListUsers).Methods("GET")
	api.HandleFunc("/users/{id}", handler.DeleteUser).Methods("DELETE")
}
