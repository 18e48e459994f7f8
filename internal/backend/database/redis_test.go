package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) DatabaseService {
	t.Helper()

	mr := miniredis.RunT(t)
	ds, err := NewRedisDatabase("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	require.NoError(t, ds.CreateDatabase(context.Background()))
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func TestRedis_Contract(t *testing.T) {
	runStoreContract(t, newTestRedis)
}

func TestRedis_InvalidURL(t *testing.T) {
	_, err := NewRedisDatabase("not a url")
	assert.Error(t, err)
}

func TestRedis_NothingVisibleBeforeCommit(t *testing.T) {
	ds := newTestRedis(t)
	ctx := context.Background()

	tx := mustBegin(t, ds)
	require.NoError(t, tx.SeedImage(ctx, &Image{ID: "world.png", Data: []byte{1}}))

	n, err := ds.CountImages(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "no images before commit")

	require.NoError(t, tx.Commit())
	n, err = ds.CountImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Error(t, tx.Commit(), "second commit")
}
