package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/pkg/util"
)

func TestStoreNotFoundSemantics(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Staff().GetByID(ctx, 1)
	assert.True(t, util.HasCode(err, util.CodeNotFound))

	_, err = store.Staff().GetByEmail(ctx, "nobody@example.com")
	assert.True(t, util.HasCode(err, util.CodeNotFound))

	err = store.Clients().Update(ctx, &domain.Client{ID: 1})
	assert.True(t, util.HasCode(err, util.CodeNotFound))

	err = store.Events().Delete(ctx, 1)
	assert.True(t, util.HasCode(err, util.CodeNotFound))
}

func TestStoreListingsKeepInsertionOrderAcrossDeletes(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	ids := make([]int, 0, 3)
	for _, name := range []string{"a", "b", "c"} {
		client := &domain.Client{FirstName: name}
		require.NoError(t, store.Clients().Create(ctx, client))
		ids = append(ids, client.ID)
	}

	require.NoError(t, store.Clients().Delete(ctx, ids[1]))

	listed, err := store.Clients().List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "a", listed[0].FirstName)
	assert.Equal(t, "c", listed[1].FirstName)
}

func TestWithinTxSharesTheStore(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.Clients().Create(ctx, &domain.Client{FirstName: "a"})
	})
	require.NoError(t, err)

	listed, err := store.Clients().List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
