package services

import (
	"context"
	"testing"

	"github.com/finledger/finledger/internal/common"
	"github.com/finledger/finledger/internal/server/models"
	"github.com/stretchr/testify/require"
)

func TestSplitSet_MarksCategoryAsSplit(t *testing.T) {
	e := setupEnv(t)
	registerUser(t, e, "alice", "pw1")
	categoryID := createCategory(t, e, "alice", "trip")
	ctx := context.Background()

	require.NoError(t, e.splits.Set(ctx, "alice", &models.Split{
		CategoryID: categoryID, Username: "guest", Share: 0.5,
	}))

	category, err := e.manager.Categories(e.db).Get(ctx, categoryID)
	require.NoError(t, err)
	require.True(t, category.IsSplit)
}

func TestSplitSet_PlatformUserMustExist(t *testing.T) {
	e := setupEnv(t)
	registerUser(t, e, "alice", "pw1")
	categoryID := createCategory(t, e, "alice", "trip")
	ctx := context.Background()

	err := e.splits.Set(ctx, "alice", &models.Split{
		CategoryID: categoryID, Username: "nobody", Share: 0.5, IsPlatformUser: true,
	})
	require.ErrorIs(t, err, common.ErrorNotFound)

	// the same name works as an off-platform participant
	require.NoError(t, e.splits.Set(ctx, "alice", &models.Split{
		CategoryID: categoryID, Username: "nobody", Share: 0.5,
	}))
}

func TestSplitSet_OwnerOnly(t *testing.T) {
	e := setupEnv(t)
	registerUser(t, e, "alice", "pw1")
	registerUser(t, e, "bob", "pw2")
	categoryID := createCategory(t, e, "alice", "trip")
	grantLevel(t, e, "alice", "bob", categoryID, models.LevelReadWrite)

	err := e.splits.Set(context.Background(), "bob", &models.Split{
		CategoryID: categoryID, Username: "guest", Share: 0.5,
	})
	require.ErrorIs(t, err, common.ErrorForbidden)
}

func TestSplitDelete_LastSplitClearsFlag(t *testing.T) {
	e := setupEnv(t)
	registerUser(t, e, "alice", "pw1")
	categoryID := createCategory(t, e, "alice", "trip")
	ctx := context.Background()

	require.NoError(t, e.splits.Set(ctx, "alice", &models.Split{
		CategoryID: categoryID, Username: "guest", Share: 0.5,
	}))
	require.NoError(t, e.splits.Set(ctx, "alice", &models.Split{
		CategoryID: categoryID, Username: "other", Share: 0.5,
	}))

	require.NoError(t, e.splits.Delete(ctx, "alice", categoryID, "guest"))
	category, err := e.manager.Categories(e.db).Get(ctx, categoryID)
	require.NoError(t, err)
	require.True(t, category.IsSplit)

	require.NoError(t, e.splits.Delete(ctx, "alice", categoryID, "other"))
	category, err = e.manager.Categories(e.db).Get(ctx, categoryID)
	require.NoError(t, err)
	require.False(t, category.IsSplit)
}
