package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/docuvault/group-manager/internal/api/middleware"
	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/service"
	"github.com/docuvault/group-manager/internal/validation"
	"github.com/go-chi/chi/v5"
)

// GroupHandler handles group endpoints.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// Create creates a new group, optionally under a parent given by name.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateGroupName(req.Name); err != nil {
		respondValidationError(w, "name", req.Name, err.Error())
		return
	}
	if req.Parent != "" {
		if err := validation.ValidateGroupName(req.Parent); err != nil {
			respondValidationError(w, "parent", req.Parent, err.Error())
			return
		}
	}

	principal := middleware.GetPrincipal(r.Context())

	_, err := h.groups.Create(r.Context(), req.Name, req.Parent, principal.ID)
	switch {
	case errors.Is(err, domain.ErrDuplicateName):
		respondClientError(w, domain.ErrCodeGroupAlreadyExists,
			fmt.Sprintf("This group already exists: %s", req.Name))
	case errors.Is(err, domain.ErrParentNotFound):
		respondClientError(w, domain.ErrCodeParentGroupNotFound,
			fmt.Sprintf("This group does not exist: %s", req.Parent))
	case err != nil:
		handleError(w, err)
	default:
		respondStatusOK(w)
	}
}

// List lists all active groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, groups)
}

// Get gets a group by name, with its parent name and member usernames.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	name, _ := url.PathUnescape(chi.URLParam(r, "name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	detail, err := h.groups.Detail(r.Context(), name)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// Delete soft-deletes a group. Memberships are kept; the name becomes
// available for reuse.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name, _ := url.PathUnescape(chi.URLParam(r, "name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.groups.Delete(r.Context(), name); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
