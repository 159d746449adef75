package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB);`)
	require.NoError(t, err)

	return db
}

func TestSetAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	v, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "device_id", []byte("abc")))
	v, err = r.Get(ctx, "device_id")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)

	// overwrite
	require.NoError(t, r.Set(ctx, "device_id", []byte("def")))
	v, err = r.Get(ctx, "device_id")
	require.NoError(t, err)
	assert.Equal(t, []byte("def"), v)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v")))
	require.NoError(t, r.Delete(ctx, "k"))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGetBoolSetBool(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// default applies when the key is unset
	b, err := r.GetBool(ctx, KeySyncEnabled, true)
	require.NoError(t, err)
	assert.True(t, b)

	require.NoError(t, r.SetBool(ctx, KeySyncEnabled, false))
	b, err = r.GetBool(ctx, KeySyncEnabled, true)
	require.NoError(t, err)
	assert.False(t, b)

	require.NoError(t, r.SetBool(ctx, KeySyncEnabled, true))
	b, err = r.GetBool(ctx, KeySyncEnabled, false)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))
	require.NoError(t, r.Clear(ctx))

	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)
}
