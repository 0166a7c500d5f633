package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"lumen/internal/ai"
	"lumen/internal/auth"
	"lumen/internal/config"
	"lumen/internal/prefs"
	"lumen/internal/tools"
)

type echoGen struct{}

func (echoGen) GenerateText(ctx context.Context, req ai.Request) (string, error) {
	return "echo: " + req.Prompt, nil
}

func (echoGen) GenerateJSON(ctx context.Context, req ai.Request, schema *genai.Schema) (string, error) {
	return "{}", nil
}

func (echoGen) GenerateImage(ctx context.Context, req ai.ImageRequest) (*ai.Image, error) {
	return &ai.Image{MIMEType: "image/png", Data: []byte{1}}, nil
}

func openTestApp(t *testing.T, dbPath string) *App {
	t.Helper()
	a, err := Open(context.Background(), Options{
		Config:    &config.Config{DBPath: dbPath},
		Generator: echoGen{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func register(t *testing.T, a *App, email string) {
	t.Helper()
	_, err := a.Auth.Register(context.Background(), auth.RegisterInput{
		Name:     "Ada",
		Level:    "High School",
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
}

func TestSessionFollowsAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "lumen.db")

	a := openTestApp(t, dbPath)
	assert.True(t, a.HasAI())
	_, err := a.RequireUser()
	require.ErrorIs(t, err, auth.ErrNotSignedIn)

	register(t, a, "ada@school.test")
	assert.Equal(t, "ada@school.test", a.Engine.User())

	out, err := a.Tools.Run(ctx, "summarizer", tools.Input{Fields: map[string]string{"text": "photosynthesis"}})
	require.NoError(t, err)
	require.NotNil(t, out.XP)
	require.NoError(t, a.Close())

	b := openTestApp(t, dbPath)
	p, err := b.RequireUser()
	require.NoError(t, err)
	assert.Equal(t, "High School", p.Level)
	assert.Equal(t, out.XP.TotalXP, b.Engine.State().XP)

	require.NoError(t, b.Auth.Logout(ctx))
	assert.Equal(t, "", b.Engine.User())
	assert.Equal(t, 0, b.Engine.State().XP)
}

func TestChatHistoryIsPerUser(t *testing.T) {
	ctx := context.Background()
	a := openTestApp(t, filepath.Join(t.TempDir(), "lumen.db"))
	register(t, a, "ada@school.test")

	session := a.Tools.NewChat(a.ChatHistory(ctx))
	reply, xp, err := a.Tools.Chat(ctx, session, "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", reply)
	assert.Equal(t, 2, xp.XPAwarded)
	require.NoError(t, a.SaveChatHistory(ctx, session.History()))
	assert.Len(t, a.ChatHistory(ctx), 2)

	require.NoError(t, a.Auth.Logout(ctx))
	register(t, a, "bo@school.test")
	assert.Empty(t, a.ChatHistory(ctx))

	require.NoError(t, a.ClearChatHistory(ctx))
}

func TestAccessibilitySettings(t *testing.T) {
	ctx := context.Background()
	a := openTestApp(t, filepath.Join(t.TempDir(), "lumen.db"))

	assert.False(t, a.Accessibility(ctx).DarkMode)
	require.NoError(t, a.SetAccessibility(ctx, prefs.Accessibility{DyslexicFont: true}))
	assert.True(t, a.Accessibility(ctx).DyslexicFont)
}
