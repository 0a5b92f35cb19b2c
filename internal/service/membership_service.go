package service

import (
	"context"
	"errors"
	"time"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/storage"
)

// MembershipService manages user-to-group associations. Both add and remove
// are idempotent: repeating a call never creates duplicate rows and never
// fails because the work was already done.
type MembershipService struct {
	store storage.Storage
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(store storage.Storage) *MembershipService {
	return &MembershipService{store: store}
}

// AddMember adds the user to the group. Absence of either resolves to
// domain.ErrNotFound; an existing membership is a successful no-op.
func (s *MembershipService) AddMember(ctx context.Context, groupName, username string) error {
	group, err := s.store.GetActiveGroupByName(ctx, groupName)
	if err != nil {
		return err
	}
	user, err := s.store.GetActiveUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	groups, err := s.store.FindGroupsForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if g.ID == group.ID {
			return nil
		}
	}

	m := &domain.Membership{
		GroupID:   group.ID,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMembership(ctx, m); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// A concurrent call inserted the same pair first. The row the
			// caller asked for exists, so this is still success.
			return nil
		}
		return err
	}
	return nil
}

// RemoveMember removes the user from the group. Absence of either resolves
// to domain.ErrNotFound; a missing membership row is a successful no-op.
func (s *MembershipService) RemoveMember(ctx context.Context, groupName, username string) error {
	group, err := s.store.GetActiveGroupByName(ctx, groupName)
	if err != nil {
		return err
	}
	user, err := s.store.GetActiveUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.store.RemoveMembership(ctx, group.ID, user.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}
