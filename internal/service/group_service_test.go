package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/service"
	"github.com/docuvault/group-manager/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestGroupServiceCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)

	t.Run("root group has no parent", func(t *testing.T) {
		g, err := groups.Create(ctx, "Sales", "", "admin1")
		require.NoError(t, err)
		assert.Equal(t, "Sales", g.Name)
		assert.Nil(t, g.ParentID)
		assert.Equal(t, "admin1", g.CreatedBy)
		assert.True(t, g.Active())
	})

	t.Run("child group resolves parent by name", func(t *testing.T) {
		g, err := groups.Create(ctx, "EMEA", "Sales", "admin1")
		require.NoError(t, err)
		require.NotNil(t, g.ParentID)

		parent, err := groups.GetActiveByName(ctx, "Sales")
		require.NoError(t, err)
		assert.Equal(t, parent.ID, *g.ParentID)
	})

	t.Run("duplicate name is rejected and creates no row", func(t *testing.T) {
		_, err := groups.Create(ctx, "Sales", "", "admin1")
		assert.ErrorIs(t, err, domain.ErrDuplicateName)

		all, err := groups.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("unknown parent is rejected and creates no row", func(t *testing.T) {
		_, err := groups.Create(ctx, "GhostParentTest", "DoesNotExist", "admin1")
		assert.ErrorIs(t, err, domain.ErrParentNotFound)

		_, err = groups.GetActiveByName(ctx, "GhostParentTest")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("names are case-sensitive", func(t *testing.T) {
		_, err := groups.Create(ctx, "sales", "", "admin1")
		require.NoError(t, err)
	})
}

func TestGroupServiceDeleteFreesName(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)

	first, err := groups.Create(ctx, "Archive", "", "admin1")
	require.NoError(t, err)

	require.NoError(t, groups.Delete(ctx, "Archive"))

	_, err = groups.GetActiveByName(ctx, "Archive")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	second, err := groups.Create(ctx, "Archive", "", "admin1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGroupServiceDeleteUnknown(t *testing.T) {
	ctx := context.Background()
	groups := service.NewGroupService(memory.New())

	err := groups.Delete(ctx, "NoSuchGroup")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGroupServiceDetail(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)

	_, err := groups.Create(ctx, "Sales", "", "admin1")
	require.NoError(t, err)
	_, err = groups.Create(ctx, "EMEA", "Sales", "admin1")
	require.NoError(t, err)

	detail, err := groups.Detail(ctx, "EMEA")
	require.NoError(t, err)
	assert.Equal(t, "Sales", detail.ParentName)
	assert.Empty(t, detail.Members)
	assert.NotNil(t, detail.Members)
}

func TestGroupServiceCreateConcurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groups := service.NewGroupService(store)

	const n = 16
	results := make([]error, n)

	var eg errgroup.Group
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			_, err := groups.Create(ctx, "Engineering", "", "admin1")
			results[i] = err
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	var created, duplicates int
	for _, err := range results {
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicateName):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, duplicates)

	all, err := groups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
