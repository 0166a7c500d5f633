package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/storage"
)

func TestAccessibilityRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	kv := storage.NewKVRepo(db)

	assert.Equal(t, Accessibility{}, Load(ctx, kv))

	require.NoError(t, Save(ctx, kv, Accessibility{DarkMode: true}))
	assert.Equal(t, Accessibility{DarkMode: true}, Load(ctx, kv))

	raw, _, err := kv.Get(ctx, storage.KeyAccessibility)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isDarkMode":true,"isDyslexicFont":false}`, raw)

	require.NoError(t, kv.Set(ctx, storage.KeyAccessibility, "not json"))
	assert.Equal(t, Accessibility{}, Load(ctx, kv))
}
