package admin

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/meshi-wheel/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger      *log.Logger
	restaurants adminapp.RestaurantService
	profiles    adminapp.ProfileService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger      *log.Logger
	Restaurants adminapp.RestaurantService
	Profiles    adminapp.ProfileService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:      cfg.Logger,
		restaurants: cfg.Restaurants,
		profiles:    cfg.Profiles,
	}
}

// Register mounts admin routes onto router. Every route requires a verified
// session token.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(gr chi.Router) {
		gr.Use(authMiddleware)
		gr.Post("/restaurants", h.restaurantCreateHandler())
		gr.Put("/restaurants", h.restaurantUpdateHandler())
		gr.Delete("/restaurants/{id}", h.restaurantDeleteHandler())
		gr.Post("/profiles", h.profileCreateHandler())
		gr.Put("/profiles", h.profileUpdateHandler())
		gr.Delete("/profiles/{id}", h.profileDeleteHandler())
	})
}
