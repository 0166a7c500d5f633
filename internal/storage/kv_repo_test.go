package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *KVRepo {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewKVRepo(db)
}

func TestKVGetSetRemove(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "a", "1"))
	require.NoError(t, kv.Set(ctx, "a", "2"))
	v, ok, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, kv.Remove(ctx, "a"))
	require.NoError(t, kv.Remove(ctx, "a"))
	_, ok, err = kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVKeysByPrefix(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.SetMany(ctx, map[string]string{
		GamificationKey("b@x.io"): "{}",
		GamificationKey("a@x.io"): "{}",
		KeyUsers:                  "[]",
	}))

	keys, err := kv.Keys(ctx, KeyGamificationPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"lumen-gamification-a@x.io", "lumen-gamification-b@x.io"}, keys)
}

func TestJSONHelpers(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	type rec struct {
		Name string `json:"name"`
	}
	var got rec
	found, err := GetJSON(ctx, kv, "rec", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, kv, "rec", rec{Name: "ada"}))
	found, err = GetJSON(ctx, kv, "rec", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ada", got.Name)

	require.NoError(t, kv.Set(ctx, "rec", "{not json"))
	found, err = GetJSON(ctx, kv, "rec", &got)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lumen.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewKVRepo(db).Set(ctx, KeyCurrentUserEmail, "ada@x.io"))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	v, ok, err := NewKVRepo(db).Get(ctx, KeyCurrentUserEmail)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ada@x.io", v)
}

func TestScopedKeys(t *testing.T) {
	assert.Equal(t, "lumen-gamification-ada@x.io", GamificationKey(" Ada@X.io "))
	assert.Equal(t, "smartReminders", RemindersKey(""))
	assert.Equal(t, "smartReminders-ada@x.io", RemindersKey("ADA@x.io"))
}
