package storage

import (
	"context"
	"time"

	"github.com/docuvault/group-manager/internal/domain"
)

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use. Uniqueness of active
// group names and of (group, user) membership pairs is enforced here, not by
// callers: a losing concurrent writer receives domain.ErrAlreadyExists.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// API Keys
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error)
	DeleteAPIKey(ctx context.Context, id string) error
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error
	CountAPIKeys(ctx context.Context) (int, error)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetActiveUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListActiveUsers(ctx context.Context) ([]*domain.User, error)
	SoftDeleteUser(ctx context.Context, id string, at time.Time) error

	// Groups
	CreateGroup(ctx context.Context, group *domain.Group) error
	GetActiveGroupByName(ctx context.Context, name string) (*domain.Group, error)
	GetActiveGroupByID(ctx context.Context, id string) (*domain.Group, error)
	ListActiveGroups(ctx context.Context) ([]*domain.Group, error)
	SoftDeleteGroup(ctx context.Context, id string, at time.Time) error

	// Memberships
	AddMembership(ctx context.Context, m *domain.Membership) error
	RemoveMembership(ctx context.Context, groupID, userID string) error
	FindGroupsForUser(ctx context.Context, userID string) ([]*domain.Group, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
}
