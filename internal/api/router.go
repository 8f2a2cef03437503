package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bookshelf/internal/api/handlers"
	"bookshelf/internal/auth"
	"bookshelf/internal/services"
	"bookshelf/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenIssuer,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	bookService services.BookServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	bookHandler := handlers.NewBookHandler(bookService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)

	r.Route("/api", func(r chi.Router) {
		// Live activity feed
		r.Get("/ws", wsHandler.Serve)
		r.Get("/events", eventHandler.GetRecent)

		r.Route("/books", func(r chi.Router) {
			// Reads are public
			r.Get("/", bookHandler.GetAll)
			r.Get("/{id}", bookHandler.Get)

			// Mutations require a valid token
			r.Group(func(r chi.Router) {
				r.Use(tokens.Middleware())
				r.Post("/", bookHandler.Create)
				r.Put("/{id}", bookHandler.Update)
				r.Delete("/{id}", bookHandler.Delete)
			})
		})
	})

	return r
}
