package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskly-api/internal/api"
	"github.com/phrazzld/taskly-api/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewTraceMiddleware(app.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodyBytes(app.config.Server.MaxBodyBytes))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	labelHandler := api.NewLabelHandler(app.labelService, app.logger)
	healthHandler := api.NewHealthHandler(app.stores.users, app.logger)
	authMiddleware := middleware.NewAuthMiddleware(app.guard)

	r.Get("/health", healthHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				app.limit(r, middleware.GroupAuth, app.config.RateLimit.AuthPerMinute)
				r.Post("/signup", authHandler.Signup)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.RefreshToken)
			})
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				app.limit(r, middleware.GroupAPI, app.config.RateLimit.APIPerMinute)
				r.Get("/me", authHandler.Me)
				r.Patch("/me", authHandler.UpdateMe)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			app.limit(r, middleware.GroupAPI, app.config.RateLimit.APIPerMinute)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListTasks)
				r.Post("/", taskHandler.CreateTask)
				r.Get("/stats", taskHandler.Stats)
				r.Get("/{id}", taskHandler.GetTask)
				r.Put("/{id}", taskHandler.UpdateTask)
				r.Patch("/{id}", taskHandler.UpdateTask)
				r.Patch("/{id}/status", taskHandler.UpdateStatus)
				r.Delete("/{id}", taskHandler.DeleteTask)
			})

			r.Route("/labels", func(r chi.Router) {
				r.Get("/", labelHandler.ListLabels)
				r.Post("/", labelHandler.CreateLabel)
				r.Get("/{id}", labelHandler.GetLabel)
				r.Put("/{id}", labelHandler.UpdateLabel)
				r.Patch("/{id}", labelHandler.UpdateLabel)
				r.Delete("/{id}", labelHandler.DeleteLabel)
			})
		})
	})

	return r
}

// limit installs the rate limiter for group when rate limiting is enabled.
func (app *application) limit(r chi.Router, group string, perMinute int) {
	if app.limiter != nil {
		r.Use(app.limiter.Limit(group, perMinute))
	}
}
