// Package service implements the domain operations on groups and
// memberships. Handlers validate input and check authorization before
// calling in; services enforce referential integrity against storage.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/storage"
	"github.com/google/uuid"
)

// GroupService owns group records: creation with duplicate-name and parent
// validation, active lookups, and soft delete.
type GroupService struct {
	store storage.Storage
}

// NewGroupService creates a new GroupService.
func NewGroupService(store storage.Storage) *GroupService {
	return &GroupService{store: store}
}

// Create creates a group. The name must not collide with an active group
// (domain.ErrDuplicateName) and parentName, when given, must resolve to an
// active group (domain.ErrParentNotFound). The caller is expected to have
// validated the name's length and charset already.
func (s *GroupService) Create(ctx context.Context, name, parentName, creatorID string) (*domain.Group, error) {
	// Fast-path duplicate check. The storage uniqueness constraint below is
	// the authoritative guard under concurrency; this read only produces the
	// error early in the common case.
	_, err := s.store.GetActiveGroupByName(ctx, name)
	if err == nil {
		return nil, domain.ErrDuplicateName
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	var parentID *string
	if parentName != "" {
		parent, err := s.store.GetActiveGroupByName(ctx, parentName)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
		parentID = &parent.ID
	}

	group := &domain.Group{
		ID:        uuid.New().String(),
		Name:      name,
		ParentID:  parentID,
		CreatedBy: creatorID,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost a create race for the same name.
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}
	return group, nil
}

// GetActiveByName returns the active group with the given name.
func (s *GroupService) GetActiveByName(ctx context.Context, name string) (*domain.Group, error) {
	return s.store.GetActiveGroupByName(ctx, name)
}

// List returns all active groups.
func (s *GroupService) List(ctx context.Context) ([]*domain.Group, error) {
	return s.store.ListActiveGroups(ctx)
}

// Detail returns the active group with its parent name and the usernames of
// its direct members.
func (s *GroupService) Detail(ctx context.Context, name string) (*domain.GroupDetail, error) {
	group, err := s.store.GetActiveGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}

	detail := &domain.GroupDetail{Group: *group}

	if group.ParentID != nil {
		parent, err := s.store.GetActiveGroupByID(ctx, *group.ParentID)
		if err == nil {
			detail.ParentName = parent.Name
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	members, err := s.store.ListGroupMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []string{}
	}
	detail.Members = members
	return detail, nil
}

// Delete soft-deletes the active group with the given name. Membership rows
// are retained; they simply stop appearing in active queries.
func (s *GroupService) Delete(ctx context.Context, name string) error {
	group, err := s.store.GetActiveGroupByName(ctx, name)
	if err != nil {
		return err
	}
	return s.store.SoftDeleteGroup(ctx, group.ID, time.Now())
}
