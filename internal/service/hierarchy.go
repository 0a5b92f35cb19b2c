package service

import (
	"context"
	"errors"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/storage"
)

// HierarchyResolver computes ancestor chains and the effective-group closure
// that authorization decisions consult. It is read-only and reflects all
// committed writes.
type HierarchyResolver struct {
	store storage.Storage
}

// NewHierarchyResolver creates a new HierarchyResolver.
func NewHierarchyResolver(store storage.Storage) *HierarchyResolver {
	return &HierarchyResolver{store: store}
}

// AncestorsOf walks parent links from the group up to the nearest root,
// nearest ancestor first. Creation-time validation keeps the hierarchy
// tree-shaped, but the walk still carries a visited set so a parent chain
// corrupted out-of-band returns domain.ErrHierarchyCycle instead of looping.
// A parent that was soft-deleted out-of-band ends the chain as if the last
// reachable group were a root.
func (r *HierarchyResolver) AncestorsOf(ctx context.Context, group *domain.Group) ([]*domain.Group, error) {
	visited := map[string]bool{group.ID: true}
	var ancestors []*domain.Group

	parentID := group.ParentID
	for parentID != nil {
		if visited[*parentID] {
			return ancestors, domain.ErrHierarchyCycle
		}
		parent, err := r.store.GetActiveGroupByID(ctx, *parentID)
		if errors.Is(err, domain.ErrNotFound) {
			return ancestors, nil
		}
		if err != nil {
			return nil, err
		}
		visited[parent.ID] = true
		ancestors = append(ancestors, parent)
		parentID = parent.ParentID
	}
	return ancestors, nil
}

// EffectiveGroupsOf returns the user's direct memberships unioned with every
// ancestor of those groups, deduplicated by id. Direct memberships come
// first, each followed by its ancestor chain.
func (r *HierarchyResolver) EffectiveGroupsOf(ctx context.Context, userID string) ([]*domain.Group, error) {
	direct, err := r.store.FindGroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(direct))
	var effective []*domain.Group
	for _, g := range direct {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		effective = append(effective, g)

		ancestors, err := r.AncestorsOf(ctx, g)
		if err != nil {
			return nil, err
		}
		for _, a := range ancestors {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			effective = append(effective, a)
		}
	}
	return effective, nil
}
