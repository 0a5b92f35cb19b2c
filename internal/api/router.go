package api

import (
	"net/http"

	"github.com/docuvault/group-manager/internal/api/handler"
	"github.com/docuvault/group-manager/internal/api/middleware"
	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/service"
	"github.com/docuvault/group-manager/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new HTTP router with all routes configured.
// Every /api/v1 route requires an authenticated principal; mutations
// additionally require the admin capability, checked before any handler
// logic runs.
func NewRouter(store storage.Storage, bootstrapKey string, verifier middleware.TokenVerifier) http.Handler {
	groups := service.NewGroupService(store)
	memberships := service.NewMembershipService(store)
	resolver := service.NewHierarchyResolver(store)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)
		r.Use(middleware.Auth(store, bootstrapKey, verifier))

		admin := middleware.RequireCapability(domain.CapabilityAdmin)

		// API Keys
		keyHandler := handler.NewAPIKeyHandler(store)
		r.With(admin).Post("/keys", keyHandler.Create)
		r.With(admin).Get("/keys", keyHandler.List)
		r.With(admin).Delete("/keys/{id}", keyHandler.Delete)

		// Groups and memberships
		groupHandler := handler.NewGroupHandler(groups)
		memberHandler := handler.NewMemberHandler(memberships)
		r.With(admin).Post("/groups", groupHandler.Create)
		r.Get("/groups", groupHandler.List)
		r.Get("/groups/{name}", groupHandler.Get)
		r.With(admin).Delete("/groups/{name}", groupHandler.Delete)
		r.With(admin).Post("/groups/{name}/members", memberHandler.Add)
		r.With(admin).Delete("/groups/{name}/members/{username}", memberHandler.Remove)

		// Users
		userHandler := handler.NewUserHandler(store, resolver)
		r.With(admin).Post("/users", userHandler.Create)
		r.Get("/users", userHandler.List)
		r.With(admin).Delete("/users/{username}", userHandler.Delete)
		r.Get("/users/{username}/groups", userHandler.EffectiveGroups)
	})

	return r
}
