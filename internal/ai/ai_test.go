package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestCleanJSON(t *testing.T) {
	cases := map[string]string{
		"bare":         `{"a":1}`,
		"fenced":       "```json\n{\"a\":1}\n```",
		"fenced upper": "```JSON\n{\"a\":1}\n```",
		"fence no tag": "```\n{\"a\":1}\n```",
		"one line":     "```{\"a\":1}```",
		"padded":       "  \n{\"a\":1}\n  ",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := CleanJSON(in)
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, got)
		})
	}

	_, err := CleanJSON("```json\n```")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = CleanJSON("Sure! Here is your quiz: {")
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestRequireFields(t *testing.T) {
	doc := `{"title":"x","slides":[{"title":"a"}]}`
	assert.NoError(t, RequireFields(doc, "title", "slides.0.title"))
	assert.ErrorIs(t, RequireFields(doc, "summary"), ErrInvalidJSON)
}

func TestBuildContents(t *testing.T) {
	contents := buildContents(Request{
		Prompt:      "what is this?",
		Attachments: []Attachment{{MIMEType: "application/pdf", Data: []byte("%PDF")}},
		History: []Message{
			{Role: RoleUser, Text: "hi"},
			{Role: RoleModel, Text: "hello"},
		},
	})
	require.Len(t, contents, 3)
	assert.Equal(t, genai.Role(genai.RoleUser), genai.Role(contents[0].Role))
	assert.Equal(t, genai.Role(genai.RoleModel), genai.Role(contents[1].Role))

	last := contents[2]
	require.Len(t, last.Parts, 2)
	require.NotNil(t, last.Parts[0].InlineData)
	assert.Equal(t, "application/pdf", last.Parts[0].InlineData.MIMEType)
	assert.Equal(t, "what is this?", last.Parts[1].Text)
}

func TestNewGeminiClientNeedsKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "  "}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

type scriptedGen struct {
	replies []string
	fail    bool
	seen    []Request
}

func (s *scriptedGen) GenerateText(_ context.Context, req Request) (string, error) {
	s.seen = append(s.seen, req)
	if s.fail {
		return "", errors.New("quota")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func (s *scriptedGen) GenerateJSON(context.Context, Request, *genai.Schema) (string, error) {
	return "{}", nil
}

func (s *scriptedGen) GenerateImage(context.Context, ImageRequest) (*Image, error) {
	return nil, ErrEmptyResponse
}

func TestChatSessionKeepsHistory(t *testing.T) {
	gen := &scriptedGen{replies: []string{" first ", "second"}}
	chat := NewChatSession(gen, "be brief")
	chat.AttachDocument(Attachment{MIMEType: "text/plain", Data: []byte("notes")})
	ctx := context.Background()

	r, err := chat.Send(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "first", r)

	_, err = chat.Send(ctx, "q2")
	require.NoError(t, err)

	require.Len(t, gen.seen, 2)
	assert.Empty(t, gen.seen[0].History)
	assert.Equal(t, []Message{{RoleUser, "q1"}, {RoleModel, "first"}}, gen.seen[1].History)
	assert.Equal(t, "be brief", gen.seen[1].System)
	assert.Len(t, gen.seen[1].Attachments, 1)
	assert.Len(t, chat.History(), 4)

	gen.fail = true
	_, err = chat.Send(ctx, "q3")
	require.Error(t, err)
	assert.Len(t, chat.History(), 4)

	chat.Reset()
	assert.Empty(t, chat.History())
}
