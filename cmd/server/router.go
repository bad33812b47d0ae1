package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/asmamir/task-manager-api/internal/api"
	"github.com/asmamir/task-manager-api/internal/api/middleware"
	"github.com/asmamir/task-manager-api/internal/api/shared"
)

// setupRouter builds the route tree. Registration, login, and the
// public profile and avatar lookups are open; everything else requires
// an authenticated session.
func setupRouter(
	userHandler *api.UserHandler,
	taskHandler *api.TaskHandler,
	authMiddleware *middleware.AuthMiddleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", handleHealth)

	r.Post("/users", userHandler.Register)
	r.Post("/users/login", userHandler.Login)
	r.Get("/users/{id}", userHandler.GetByID)
	r.Get("/users/{id}/avatar", userHandler.GetAvatar)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/users/logout", userHandler.Logout)
		r.Post("/users/logoutAll", userHandler.LogoutAll)
		r.Get("/users/me", userHandler.GetMe)
		r.Patch("/users/{id}", userHandler.Update)
		r.Delete("/users/me", userHandler.DeleteMe)
		r.Post("/users/me/avatar", userHandler.UploadAvatar)
		r.Delete("/users/me/avatar", userHandler.DeleteAvatar)

		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Patch("/tasks/{id}", taskHandler.Update)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	return r
}

// handleHealth reports liveness for load balancers and deploy checks.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
