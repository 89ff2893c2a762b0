package redisdb

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/storage/records"
)

func setup(t *testing.T) (*miniredis.Miniredis, *DB) {
	mr := miniredis.RunT(t)
	client, err := Open(context.Background(), core.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewDB(client, "ratiba:")
}

func TestDB_LoadSave(t *testing.T) {
	ctx := context.Background()
	mr, db := setup(t)

	_, found, err := db.Load(ctx, core.CollectionClasses)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Save(ctx, core.CollectionClasses, []byte(`[{"id":"1"}]`)))
	stored, err := mr.Get("ratiba:classes")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, stored)

	doc, found, err := db.Load(ctx, core.CollectionClasses)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, string(doc))
}

func TestDB_asRecordStore(t *testing.T) {
	ctx := context.Background()
	mr, db := setup(t)
	store := records.NewStore(db)

	seeded, err := records.SeedDefaults(ctx, store)
	require.NoError(t, err)
	assert.Len(t, seeded, 3)
	assert.True(t, mr.Exists("ratiba:users"))

	sessions, err := records.NewSessionRepository(store).QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 6)

	ok, err := store.Remove(ctx, core.CollectionClasses, "1")
	require.NoError(t, err)
	assert.True(t, ok)
	sessions, err = records.NewSessionRepository(store).QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 5)
}

func TestOpen_unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), core.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestDB_closedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Open(context.Background(), core.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	db := NewDB(client, "ratiba:")
	require.NoError(t, client.Close())

	_, _, err = db.Load(context.Background(), core.CollectionClasses)
	assert.True(t, core.IsShutdown(err), "error = %v", err)

	err = db.Save(context.Background(), core.CollectionClasses, []byte(`[]`))
	assert.True(t, core.IsShutdown(err), "error = %v", err)
}
