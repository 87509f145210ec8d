package localstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE device_storage (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestKV_SetThenGet(t *testing.T) {
	kv := NewKV(setupDB(t))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k1", []byte{0x01, 0x02}))

	v, err := kv.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestKV_GetAbsent(t *testing.T) {
	kv := NewKV(setupDB(t))

	v, err := kv.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestKV_SetOverwrites(t *testing.T) {
	kv := NewKV(setupDB(t))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("old")))
	require.NoError(t, kv.Set(ctx, "k", []byte("new")))

	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestKV_Delete(t *testing.T) {
	kv := NewKV(setupDB(t))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "never-there"))

	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestKV_ClosedDB(t *testing.T) {
	db := setupDB(t)
	kv := NewKV(db)
	require.NoError(t, db.Close())

	_, err := kv.Get(context.Background(), "k")
	require.Error(t, err)
	require.Error(t, kv.Set(context.Background(), "k", []byte("v")))
}
