package tools

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"lumen/internal/ai"
	"lumen/internal/engine"
	"lumen/internal/storage"
)

type fakeGen struct {
	mu      sync.Mutex
	text    string
	json    string
	err     error
	imgErr  error
	reqs    []ai.Request
	schemas []*genai.Schema
	images  []ai.ImageRequest
}

func (f *fakeGen) GenerateText(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.text, f.err
}

func (f *fakeGen) GenerateJSON(_ context.Context, req ai.Request, schema *genai.Schema) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	f.schemas = append(f.schemas, schema)
	return f.json, f.err
}

func (f *fakeGen) GenerateImage(_ context.Context, req ai.ImageRequest) (*ai.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = append(f.images, req)
	if f.imgErr != nil {
		return nil, f.imgErr
	}
	return &ai.Image{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}, nil
}

func newTestRunner(t *testing.T, gen ai.Generator) (*Runner, *engine.Engine) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	eng := engine.NewEngine(storage.NewKVRepo(db), nil)
	r := NewRunner(gen, eng, func() string { return "High School" }, nil)
	r.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return r, eng
}

func fields(kv ...string) Input {
	in := Input{Fields: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		in.Fields[kv[i]] = kv[i+1]
	}
	return in
}

func TestCatalogRewards(t *testing.T) {
	want := map[string]int{
		IDAssistant: 10, IDSummarizer: 10, IDExplainer: 10, IDCorrector: 15,
		IDPresentation: 20, IDTest: 20, IDTranslator: 10, IDPlanner: 15,
		IDCalculator: 10, IDReminders: 15, IDPlagiarism: 20, IDReferences: 15,
		IDInfographics: 20, IDDiagram: 20, IDMapCreator: 25, IDCountryExplorer: 30,
		IDReviewQuiz: 25, IDPDFReader: 25, IDDocumentReader: 25,
	}
	cat := Catalog()
	require.Len(t, cat, len(want))
	seen := map[string]bool{}
	for _, tool := range cat {
		assert.False(t, seen[tool.ID], "duplicate id %s", tool.ID)
		seen[tool.ID] = true
		assert.Equal(t, want[tool.ID], tool.xpFor(Input{}, 0), tool.ID)
		assert.NotEmpty(t, tool.Name)
		assert.NotNil(t, tool.run, tool.ID)
	}
}

func TestRunTextToolAwardsXPOnce(t *testing.T) {
	gen := &fakeGen{text: "A short summary."}
	r, eng := newTestRunner(t, gen)

	out, err := r.Run(context.Background(), "summarizer", fields("text", "Photosynthesis converts light..."))
	require.NoError(t, err)
	assert.Equal(t, KindText, out.Kind)
	assert.Equal(t, "A short summary.", out.Text)
	require.NotNil(t, out.XP)
	assert.Equal(t, 10, out.XP.XPAwarded)

	st := eng.State()
	assert.Equal(t, 10, st.XP)
	assert.Equal(t, 1, st.ToolUsage[IDSummarizer])

	require.Len(t, gen.reqs, 1)
	assert.Contains(t, gen.reqs[0].System, "High School")
	assert.Contains(t, gen.reqs[0].Prompt, "Photosynthesis")
}

func TestRunFailureAwardsNothing(t *testing.T) {
	gen := &fakeGen{err: errors.New("503 from upstream")}
	r, eng := newTestRunner(t, gen)

	_, err := r.Run(context.Background(), IDExplainer, fields("concept", "entropy"))
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "503")

	st := eng.State()
	assert.Equal(t, 0, st.XP)
	assert.Empty(t, st.ToolUsage)
}

func TestRunValidation(t *testing.T) {
	gen := &fakeGen{text: "x", json: "[]"}
	r, _ := newTestRunner(t, gen)
	ctx := context.Background()

	var verr ValidationError
	_, err := r.Run(ctx, "nope", Input{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tool", verr.Field)

	_, err = r.Run(ctx, IDSummarizer, fields("text", "   "))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "text", verr.Field)

	_, err = r.Run(ctx, IDPresentation, fields("topic", "Volcanoes", "people", "40"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "people", verr.Field)

	_, err = r.Run(ctx, IDDiagram, fields("request", "water cycle", "type", "sequence"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)

	_, err = r.Run(ctx, IDPDFReader, fields("question", "what?"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file", verr.Field)

	_, err = r.Run(ctx, IDAssistant, Input{})
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, gen.reqs, "the model is never called for invalid input")
}

func TestRunJSONToolValidatesReply(t *testing.T) {
	gen := &fakeGen{json: "```json\n[{\"question\":\"2+2?\",\"options\":{\"A\":\"3\",\"B\":\"4\",\"C\":\"5\",\"D\":\"6\"},\"correctAnswer\":\"B\"}]\n```"}
	r, eng := newTestRunner(t, gen)
	ctx := context.Background()

	out, err := r.Run(ctx, IDTest, fields("topic", "Arithmetic", "questions", "1"))
	require.NoError(t, err)
	assert.Equal(t, KindJSON, out.Kind)
	assert.True(t, strings.HasPrefix(out.JSON, "["))
	require.Len(t, gen.schemas, 1)
	assert.Equal(t, genai.TypeArray, gen.schemas[0].Type)
	assert.Contains(t, gen.reqs[0].Prompt, "1-question")

	gen.json = `[]`
	_, err = r.Run(ctx, IDTest, fields("topic", "Arithmetic"))
	require.ErrorIs(t, err, ErrGenerationFailed)
	require.ErrorIs(t, err, ai.ErrInvalidJSON)

	assert.Equal(t, 1, eng.State().ToolUsage[IDTest])
}

func TestDocumentReadersGiveFirstUseBonus(t *testing.T) {
	gen := &fakeGen{text: "The answer is on page 2."}
	r, eng := newTestRunner(t, gen)
	ctx := context.Background()

	pdf := Input{
		Fields:     map[string]string{"question": "What is the thesis?"},
		Attachment: &ai.Attachment{MIMEType: "application/pdf", Data: []byte("%PDF-1.7")},
	}
	out, err := r.Run(ctx, IDPDFReader, pdf)
	require.NoError(t, err)
	assert.Equal(t, 25, out.XP.XPAwarded)
	require.Len(t, gen.reqs[0].Attachments, 1)

	out, err = r.Run(ctx, IDPDFReader, pdf)
	require.NoError(t, err)
	assert.Equal(t, 5, out.XP.XPAwarded)

	out, err = r.Run(ctx, IDDocumentReader, fields("document", "Notes...", "question", "Summary?"))
	require.NoError(t, err)
	assert.Equal(t, 25, out.XP.XPAwarded)

	st := eng.State()
	assert.Equal(t, 55, st.XP)
	assert.True(t, st.Achievements[engine.AchievementPDFExplorer].Unlocked)
	assert.True(t, st.Achievements[engine.AchievementDocExplorer].Unlocked)
}

func TestAssistantImageBonus(t *testing.T) {
	gen := &fakeGen{text: "Let's start with the first step."}
	r, _ := newTestRunner(t, gen)
	ctx := context.Background()

	out, err := r.Run(ctx, IDAssistant, fields("problem", "Solve x^2 = 4"))
	require.NoError(t, err)
	assert.Equal(t, 10, out.XP.XPAwarded)

	out, err = r.Run(ctx, IDAssistant, Input{Attachment: &ai.Attachment{MIMEType: "image/png", Data: []byte{1}}})
	require.NoError(t, err)
	assert.Equal(t, 15, out.XP.XPAwarded)

	_, err = r.Run(ctx, IDAssistant, Input{Attachment: &ai.Attachment{MIMEType: "application/zip", Data: []byte{1}}})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDiagramReturnsMermaid(t *testing.T) {
	gen := &fakeGen{json: `{"diagramCode":"graph LR\n    A(\"Rain\");\n    B(\"River\");\n    A --> B;"}`}
	r, _ := newTestRunner(t, gen)

	out, err := r.Run(context.Background(), IDDiagram, fields("request", "water cycle", "type", "graph lr"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Text, "graph LR"))
	assert.Contains(t, gen.reqs[0].System, `"graph LR"`)
	assert.Contains(t, gen.reqs[0].System, `A("Start`)
}

func TestMapCreatorReturnsImage(t *testing.T) {
	gen := &fakeGen{}
	r, _ := newTestRunner(t, gen)

	out, err := r.Run(context.Background(), IDMapCreator, fields("description", "Rivers of Europe"))
	require.NoError(t, err)
	assert.Equal(t, KindImage, out.Kind)
	require.Len(t, out.Images, 1)
	require.Len(t, gen.images, 1)
	assert.Contains(t, gen.images[0].Prompt, "political")
	assert.Contains(t, gen.images[0].Prompt, "vibrant")
}

func TestCountryExplorer(t *testing.T) {
	gen := &fakeGen{json: `{"summary":"s","capital":"Lima","geography":{},"culture":{},"economy":{},"politics":{}}`}
	r, eng := newTestRunner(t, gen)

	out, err := r.Run(context.Background(), IDCountryExplorer, fields("country", "Peru"))
	require.NoError(t, err)
	assert.Len(t, out.Images, 2)
	assert.Len(t, gen.images, 2)
	assert.Equal(t, 30, eng.State().XP)

	gen.imgErr = errors.New("safety filter")
	_, err = r.Run(context.Background(), IDCountryExplorer, fields("country", "Peru"))
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 30, eng.State().XP)
}

func TestRemindersToolSuggestions(t *testing.T) {
	gen := &fakeGen{json: `[{"note":"Recall the stages","reviewDate":"2024-03-02"},{"note":"bad","reviewDate":"soon"},{"note":"Teach it","reviewDate":"2024-03-31"}]`}
	r, _ := newTestRunner(t, gen)

	out, err := r.Run(context.Background(), IDReminders, fields("topic", "Mitosis"))
	require.NoError(t, err)
	assert.Contains(t, gen.reqs[0].System, "2024-03-01")

	items, err := ReviewSuggestions(out.JSON, "Mitosis")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Mitosis", items[0].Topic)
	assert.Equal(t, "2024-03-31", items[1].DueDate)

	_, err = ReviewSuggestions(`[{"note":"x","reviewDate":"later"}]`, "Mitosis")
	assert.Error(t, err)
}

func TestChatAwardsOnSuccessOnly(t *testing.T) {
	gen := &fakeGen{text: "Hi there!"}
	r, eng := newTestRunner(t, gen)
	ctx := context.Background()

	chat := r.NewChat([]ai.Message{{Role: ai.RoleUser, Text: "earlier"}, {Role: ai.RoleModel, Text: "reply"}})
	reply, xp, err := r.Chat(ctx, chat, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply)
	assert.Equal(t, ChatReward, xp.XPAwarded)
	assert.Len(t, gen.reqs[0].History, 2)
	assert.Contains(t, gen.reqs[0].System, "High School")

	gen.err = errors.New("offline")
	_, _, err = r.Chat(ctx, chat, "again")
	require.ErrorIs(t, err, ErrGenerationFailed)

	_, _, err = r.Chat(ctx, chat, "  ")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, ChatReward, eng.State().XP)
}

func TestNoGeneratorFailsWithoutXP(t *testing.T) {
	r, eng := newTestRunner(t, nil)
	_, err := r.Run(context.Background(), IDSummarizer, fields("text", "abc"))
	require.ErrorIs(t, err, ErrGenerationFailed)
	require.ErrorIs(t, err, ai.ErrNoAPIKey)
	assert.Equal(t, 0, eng.State().XP)
}
