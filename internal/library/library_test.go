package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/engine"
	"lumen/internal/storage"
)

func newTestLibrary(t *testing.T) (*Library, *engine.Engine) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	eng := engine.NewEngine(storage.NewKVRepo(db), nil)
	lib, err := Load(eng)
	require.NoError(t, err)
	return lib, eng
}

func TestCatalogIsComplete(t *testing.T) {
	lib, _ := newTestLibrary(t)
	cats := lib.Categories()
	require.Len(t, cats, 9)

	for _, c := range cats {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Name)
		require.NotEmpty(t, c.Resources, c.ID)
		for _, r := range c.Resources {
			assert.NotEmpty(t, r.Title)
			assert.Contains(t, r.URL, "https://", r.Title)
		}
	}

	c, ok := lib.Category("Programming")
	require.True(t, ok)
	assert.Equal(t, "Eloquent JavaScript", c.Resources[0].Title)
}

func TestOpenAwardsXP(t *testing.T) {
	lib, eng := newTestLibrary(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		r, xp, err := lib.Open(ctx, "science", i)
		require.NoError(t, err)
		assert.NotEmpty(t, r.URL)
		assert.Equal(t, Reward, xp.XPAwarded)
	}
	st := eng.State()
	assert.Equal(t, 15, st.XP)
	assert.True(t, st.Achievements[engine.AchievementResourceExplorer].Unlocked)

	_, _, err := lib.Open(ctx, "science", 99)
	assert.Error(t, err)
	_, _, err = lib.Open(ctx, "astrology", 1)
	assert.Error(t, err)
	assert.Equal(t, 15, eng.State().XP)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := parse([]byte("- id: [unterminated"))
	assert.Error(t, err)
}
