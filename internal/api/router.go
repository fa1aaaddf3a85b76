package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"miniblog/internal/api/handlers"
	"miniblog/internal/auth"
	"miniblog/internal/config"
	"miniblog/internal/services"
	"miniblog/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.Service,
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	eventService services.EventServiceProvider,
	hub *websocket.Hub,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "Credentials"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, cfg.IsProduction())
	postHandler := handlers.NewPostHandler(postService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.AllowedOrigin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Public endpoints
		r.Post("/auth/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Get("/posts", postHandler.GetAll)
		r.Get("/events", eventHandler.GetRecent)
		r.Get("/ws", wsHandler.Serve)

		// Everything that mutates posts requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Get("/me", userHandler.GetMe)
			r.Post("/posts", postHandler.Create)
			r.Post("/posts/{id}/comments", postHandler.AddComment)
			r.Delete("/posts/{id}", postHandler.Delete)
		})
	})

	return r
}
