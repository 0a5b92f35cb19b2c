package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/service"
	"github.com/docuvault/group-manager/internal/storage"
	"github.com/docuvault/group-manager/internal/validation"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles the user registry and per-user group queries.
type UserHandler struct {
	store    storage.Storage
	resolver *service.HierarchyResolver
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store storage.Storage, resolver *service.HierarchyResolver) *UserHandler {
	return &UserHandler{store: store, resolver: resolver}
}

// Create registers a user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		respondValidationError(w, "username", req.Username, err.Error())
		return
	}

	user := &domain.User{
		ID:        generateID(),
		Username:  req.Username,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// List lists all active users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListActiveUsers(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// Delete soft-deletes a user. Membership rows are retained.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, _ := url.PathUnescape(chi.URLParam(r, "username"))
	if username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.store.GetActiveUserByUsername(r.Context(), username)
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.store.SoftDeleteUser(r.Context(), user.ID, time.Now()); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EffectiveGroups returns the groups the user belongs to directly plus
// every ancestor of those groups.
func (h *UserHandler) EffectiveGroups(w http.ResponseWriter, r *http.Request) {
	username, _ := url.PathUnescape(chi.URLParam(r, "username"))
	if username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.store.GetActiveUserByUsername(r.Context(), username)
	if err != nil {
		handleError(w, err)
		return
	}

	groups, err := h.resolver.EffectiveGroupsOf(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrHierarchyCycle) {
			respondError(w, http.StatusInternalServerError, "group hierarchy is corrupted")
			return
		}
		handleError(w, err)
		return
	}
	if groups == nil {
		groups = []*domain.Group{}
	}

	respondJSON(w, http.StatusOK, groups)
}
