package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/service"
	"github.com/docuvault/group-manager/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func seedUser(t *testing.T, store *memory.Store, id, username string) *domain.User {
	t.Helper()
	user := &domain.User{ID: id, Username: username, CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func seedGroup(t *testing.T, groups *service.GroupService, name, parent string) *domain.Group {
	t.Helper()
	g, err := groups.Create(context.Background(), name, parent, "admin1")
	require.NoError(t, err)
	return g
}

func TestAddMemberIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	memberships := service.NewMembershipService(store)

	group := seedGroup(t, groups, "Sales", "")
	user := seedUser(t, store, "u1", "alice")

	require.NoError(t, memberships.AddMember(ctx, "Sales", "alice"))
	require.NoError(t, memberships.AddMember(ctx, "Sales", "alice"))

	direct, err := store.FindGroupsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, group.ID, direct[0].ID)
	assert.Equal(t, 1, store.CountMemberships())
}

func TestAddMemberUnknownTargets(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	memberships := service.NewMembershipService(store)

	seedGroup(t, groups, "Sales", "")
	seedUser(t, store, "u1", "alice")

	assert.ErrorIs(t, memberships.AddMember(ctx, "NoSuchGroup", "alice"), domain.ErrNotFound)
	assert.ErrorIs(t, memberships.AddMember(ctx, "Sales", "nobody"), domain.ErrNotFound)
	assert.Equal(t, 0, store.CountMemberships())
}

func TestRemoveMemberIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	memberships := service.NewMembershipService(store)

	seedGroup(t, groups, "Sales", "")
	user := seedUser(t, store, "u1", "alice")

	// Removing a pair that was never added is still a success
	require.NoError(t, memberships.RemoveMember(ctx, "Sales", "alice"))

	require.NoError(t, memberships.AddMember(ctx, "Sales", "alice"))
	require.NoError(t, memberships.RemoveMember(ctx, "Sales", "alice"))

	direct, err := store.FindGroupsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, direct)

	require.NoError(t, memberships.RemoveMember(ctx, "Sales", "alice"))
}

func TestRemoveMemberUnknownTargets(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	memberships := service.NewMembershipService(store)

	seedGroup(t, groups, "Sales", "")
	seedUser(t, store, "u1", "alice")

	assert.ErrorIs(t, memberships.RemoveMember(ctx, "NoSuchGroup", "alice"), domain.ErrNotFound)
	assert.ErrorIs(t, memberships.RemoveMember(ctx, "Sales", "nobody"), domain.ErrNotFound)
}

func TestMembershipRetainedAfterGroupDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	memberships := service.NewMembershipService(store)

	seedGroup(t, groups, "Sales", "")
	user := seedUser(t, store, "u1", "alice")

	require.NoError(t, memberships.AddMember(ctx, "Sales", "alice"))
	require.NoError(t, groups.Delete(ctx, "Sales"))

	// The historical row survives the soft delete but the group no longer
	// shows up in active queries.
	assert.Equal(t, 1, store.CountMemberships())
	direct, err := store.FindGroupsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, direct)
}

func TestAddMemberConcurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	memberships := service.NewMembershipService(store)

	seedGroup(t, groups, "Sales", "")
	seedUser(t, store, "u1", "alice")

	const n = 16
	var eg errgroup.Group
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			return memberships.AddMember(ctx, "Sales", "alice")
		})
	}
	require.NoError(t, eg.Wait())

	assert.Equal(t, 1, store.CountMemberships())
}
