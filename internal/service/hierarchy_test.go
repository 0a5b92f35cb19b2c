package service_test

import (
	"context"
	"testing"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/service"
	"github.com/docuvault/group-manager/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAncestorsOf(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	resolver := service.NewHierarchyResolver(store)

	sales := seedGroup(t, groups, "Sales", "")
	emea := seedGroup(t, groups, "EMEA", "Sales")
	france := seedGroup(t, groups, "France", "EMEA")

	t.Run("root has no ancestors", func(t *testing.T) {
		ancestors, err := resolver.AncestorsOf(ctx, sales)
		require.NoError(t, err)
		assert.Empty(t, ancestors)
	})

	t.Run("chain is returned nearest first", func(t *testing.T) {
		ancestors, err := resolver.AncestorsOf(ctx, france)
		require.NoError(t, err)
		require.Len(t, ancestors, 2)
		assert.Equal(t, emea.ID, ancestors[0].ID)
		assert.Equal(t, sales.ID, ancestors[1].ID)
	})

	t.Run("deleted parent ends the chain", func(t *testing.T) {
		require.NoError(t, groups.Delete(ctx, "Sales"))

		ancestors, err := resolver.AncestorsOf(ctx, france)
		require.NoError(t, err)
		require.Len(t, ancestors, 1)
		assert.Equal(t, emea.ID, ancestors[0].ID)
	})
}

func TestAncestorsOfCycleTerminates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	resolver := service.NewHierarchyResolver(store)

	a := seedGroup(t, groups, "A", "")
	b := seedGroup(t, groups, "B", "A")

	// Corrupt the hierarchy behind the service's back: A now points at its
	// own descendant.
	store.SetGroupParent(a.ID, &b.ID)

	refreshed, err := store.GetActiveGroupByID(ctx, a.ID)
	require.NoError(t, err)

	_, err = resolver.AncestorsOf(ctx, refreshed)
	assert.ErrorIs(t, err, domain.ErrHierarchyCycle)
}

func TestEffectiveGroupsOf(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)
	memberships := service.NewMembershipService(store)
	resolver := service.NewHierarchyResolver(store)

	sales := seedGroup(t, groups, "Sales", "")
	emea := seedGroup(t, groups, "EMEA", "Sales")
	france := seedGroup(t, groups, "France", "EMEA")
	it := seedGroup(t, groups, "IT", "")

	seedUser(t, store, "u1", "alice")
	require.NoError(t, memberships.AddMember(ctx, "France", "alice"))
	require.NoError(t, memberships.AddMember(ctx, "EMEA", "alice"))
	require.NoError(t, memberships.AddMember(ctx, "IT", "alice"))

	effective, err := resolver.EffectiveGroupsOf(ctx, "u1")
	require.NoError(t, err)

	ids := make(map[string]bool, len(effective))
	for _, g := range effective {
		require.False(t, ids[g.ID], "group %s returned twice", g.Name)
		ids[g.ID] = true
	}
	assert.Len(t, effective, 4)
	assert.True(t, ids[sales.ID])
	assert.True(t, ids[emea.ID])
	assert.True(t, ids[france.ID])
	assert.True(t, ids[it.ID])
}

func TestEffectiveGroupsOfNoMemberships(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	resolver := service.NewHierarchyResolver(store)

	seedUser(t, store, "u1", "alice")

	effective, err := resolver.EffectiveGroupsOf(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, effective)
}
