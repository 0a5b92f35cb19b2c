// Package memory provides an in-memory implementation of the storage
// interface for testing. It enforces the same uniqueness guarantees as the
// SQL store: active group names, active usernames, and membership pairs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/docuvault/group-manager/internal/domain"
)

// Store is an in-memory implementation of storage.Storage.
type Store struct {
	mu sync.RWMutex

	apiKeys     map[string]*domain.APIKey // key: id
	users       map[string]*domain.User   // key: id
	groups      map[string]*domain.Group  // key: id
	memberships map[string]*domain.Membership
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		apiKeys:     make(map[string]*domain.APIKey),
		users:       make(map[string]*domain.User),
		groups:      make(map[string]*domain.Group),
		memberships: make(map[string]*domain.Membership),
	}
}

func (s *Store) Close() error { return nil }

func membershipKey(groupID, userID string) string {
	return groupID + ":" + userID
}

// ============================================
// API Keys
// ============================================

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.apiKeys {
		if existing.KeyHash == key.KeyHash {
			return domain.ErrAlreadyExists
		}
	}
	k := *key
	s.apiKeys[key.ID] = &k
	return nil
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range s.apiKeys {
		if key.KeyHash == keyHash {
			k := *key
			return &k, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]*domain.APIKey, 0, len(s.apiKeys))
	for _, key := range s.apiKeys {
		k := *key
		keys = append(keys, &k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.Before(keys[j].CreatedAt) })
	return keys, nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apiKeys[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.apiKeys, id)
	return nil
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key, ok := s.apiKeys[id]; ok {
		now := time.Now()
		key.LastUsedAt = &now
	}
	return nil
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apiKeys), nil
}

// ============================================
// Users
// ============================================

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.DeletedAt == nil && existing.Username == user.Username {
			return domain.ErrAlreadyExists
		}
	}
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *Store) GetActiveUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.DeletedAt == nil && user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListActiveUsers(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []*domain.User
	for _, user := range s.users {
		if user.DeletedAt == nil {
			u := *user
			users = append(users, &u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *Store) SoftDeleteUser(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok || user.DeletedAt != nil {
		return domain.ErrNotFound
	}
	t := at
	user.DeletedAt = &t
	return nil
}

// ============================================
// Groups
// ============================================

func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.groups {
		if existing.DeletedAt == nil && existing.Name == group.Name {
			return domain.ErrAlreadyExists
		}
	}
	g := *group
	s.groups[group.ID] = &g
	return nil
}

func (s *Store) GetActiveGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, group := range s.groups {
		if group.DeletedAt == nil && group.Name == name {
			g := *group
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) GetActiveGroupByID(ctx context.Context, id string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[id]
	if !ok || group.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	g := *group
	return &g, nil
}

func (s *Store) ListActiveGroups(ctx context.Context) ([]*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var groups []*domain.Group
	for _, group := range s.groups {
		if group.DeletedAt == nil {
			g := *group
			groups = append(groups, &g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (s *Store) SoftDeleteGroup(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group, ok := s.groups[id]
	if !ok || group.DeletedAt != nil {
		return domain.ErrNotFound
	}
	t := at
	group.DeletedAt = &t
	return nil
}

// SetGroupParent rewrites a group's parent link directly, bypassing
// creation-time validation. Tests use it to simulate hierarchies corrupted
// out-of-band.
func (s *Store) SetGroupParent(id string, parentID *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if group, ok := s.groups[id]; ok {
		group.ParentID = parentID
	}
}

// ============================================
// Memberships
// ============================================

func (s *Store) AddMembership(ctx context.Context, m *domain.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey(m.GroupID, m.UserID)
	if _, ok := s.memberships[key]; ok {
		return domain.ErrAlreadyExists
	}
	row := *m
	s.memberships[key] = &row
	return nil
}

func (s *Store) RemoveMembership(ctx context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey(groupID, userID)
	if _, ok := s.memberships[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.memberships, key)
	return nil
}

func (s *Store) FindGroupsForUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var groups []*domain.Group
	for _, m := range s.memberships {
		if m.UserID != userID {
			continue
		}
		if group, ok := s.groups[m.GroupID]; ok && group.DeletedAt == nil {
			g := *group
			groups = append(groups, &g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (s *Store) ListGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var usernames []string
	for _, m := range s.memberships {
		if m.GroupID != groupID {
			continue
		}
		if user, ok := s.users[m.UserID]; ok && user.DeletedAt == nil {
			usernames = append(usernames, user.Username)
		}
	}
	sort.Strings(usernames)
	return usernames, nil
}

// CountMemberships returns the number of membership rows, for tests
// asserting idempotence.
func (s *Store) CountMemberships() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memberships)
}
