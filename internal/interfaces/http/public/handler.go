package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/meshi-wheel/api/internal/auth"
	publicapp "github.com/sngm3741/meshi-wheel/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger        *log.Logger
	queries       publicapp.CatalogQueryService
	tokens        *auth.Service
	adminPassword string
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger        *log.Logger
	Queries       publicapp.CatalogQueryService
	Tokens        *auth.Service
	AdminPassword string
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		queries:       cfg.Queries,
		tokens:        cfg.Tokens,
		adminPassword: cfg.AdminPassword,
	}
}

// Register mounts all public routes onto the router. The rate limiter guards
// only the login endpoint.
func (h *Handler) Register(r chi.Router, rateLimitMiddleware func(http.Handler) http.Handler) {
	r.With(rateLimitMiddleware).Post("/auth", h.authHandler())
	r.Get("/restaurants", h.restaurantListHandler())
	r.Get("/profiles", h.profileListHandler())
}
