package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Pesokrava/ecocart/internal/config"
	"github.com/Pesokrava/ecocart/internal/delivery/http/handler"
	"github.com/Pesokrava/ecocart/internal/delivery/http/middleware"
	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/usecase/shopper"
)

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Session      *handler.SessionHandler
	Catalog      *handler.CatalogHandler
	Cart         *handler.CartHandler
	Display      *handler.DisplayHandler
	Auth         *handler.AuthHandler
	Gamification *handler.GamificationHandler
}

// Router holds HTTP handlers and router configuration
type Router struct {
	handlers Handlers
	tokens   middleware.TokenVerifier
	registry *shopper.Registry
	logger   *logger.Logger
	cfg      *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	handlers Handlers,
	tokens middleware.TokenVerifier,
	registry *shopper.Registry,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		handlers: handlers,
		tokens:   tokens,
		registry: registry,
		logger:   log,
		cfg:      cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Timeout(rt.cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	h := rt.handlers
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", h.Session.Create)

		r.Get("/products/{id}", h.Catalog.GetByID)
		r.Get("/categories", h.Catalog.Categories)
		r.Get("/tips", h.Catalog.Tips)
		r.Get("/delivery-options", h.Catalog.DeliveryOptions)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(rt.tokens, rt.registry))

			r.Get("/products", h.Catalog.List)
			r.Put("/filters", h.Cart.UpdateFilters)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.Get)
				r.Delete("/", h.Cart.Clear)
				r.Get("/summary", h.Cart.Summary)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{id}", h.Cart.UpdateItem)
				r.Delete("/items/{id}", h.Cart.RemoveItem)
				r.Post("/items/{id}/swap", h.Cart.Swap)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.Cart.Wishlist)
				r.Post("/", h.Cart.AddToWishlist)
				r.Delete("/{id}", h.Cart.RemoveFromWishlist)
			})

			r.Route("/display", func(r chi.Router) {
				r.Get("/", h.Display.Get)
				r.Put("/", h.Display.Update)
				r.Post("/theme/toggle", h.Display.ToggleTheme)
				r.Post("/catalog/toggle", h.Display.ToggleCatalog)
			})

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.Auth.Login)
				r.Post("/register", h.Auth.Register)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})

			r.Get("/stats", h.Gamification.Stats)
			r.Get("/badges", h.Gamification.Badges)
			r.Get("/leaderboard", h.Gamification.Leaderboard)
			r.Get("/report", h.Gamification.Report)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
