package handler

import (
	"net/http"
	"net/url"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/service"
	"github.com/docuvault/group-manager/internal/validation"
	"github.com/go-chi/chi/v5"
)

// MemberHandler handles group membership endpoints.
type MemberHandler struct {
	memberships *service.MembershipService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberships *service.MembershipService) *MemberHandler {
	return &MemberHandler{memberships: memberships}
}

// Add adds a user to a group. Repeating the call is a success with no
// additional row.
func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	groupName, _ := url.PathUnescape(chi.URLParam(r, "name"))

	var req domain.AddMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateGroupName(groupName); err != nil {
		respondValidationError(w, "name", groupName, err.Error())
		return
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		respondValidationError(w, "username", req.Username, err.Error())
		return
	}

	if err := h.memberships.AddMember(r.Context(), groupName, req.Username); err != nil {
		handleError(w, err)
		return
	}

	respondStatusOK(w)
}

// Remove removes a user from a group. A membership that does not exist is
// still a success.
func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	groupName, _ := url.PathUnescape(chi.URLParam(r, "name"))
	username, _ := url.PathUnescape(chi.URLParam(r, "username"))

	if err := validation.ValidateGroupName(groupName); err != nil {
		respondValidationError(w, "name", groupName, err.Error())
		return
	}
	if err := validation.ValidateUsername(username); err != nil {
		respondValidationError(w, "username", username, err.Error())
		return
	}

	if err := h.memberships.RemoveMember(r.Context(), groupName, username); err != nil {
		handleError(w, err)
		return
	}

	respondStatusOK(w)
}
