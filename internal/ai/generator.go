package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// Generator is the generative model behind every tool.
type Generator interface {
	GenerateText(ctx context.Context, req Request) (string, error)
	// GenerateJSON asks for a reply matching schema and returns the raw JSON document.
	GenerateJSON(ctx context.Context, req Request, schema *genai.Schema) (string, error)
	GenerateImage(ctx context.Context, req ImageRequest) (*Image, error)
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Attachment is inline binary input such as an uploaded image or PDF.
type Attachment struct {
	MIMEType string
	Data     []byte
}

type Request struct {
	System      string
	Prompt      string
	Attachments []Attachment
	// History holds earlier turns of a conversation, oldest first.
	History []Message
}

type ImageRequest struct {
	Prompt string
	// AspectRatio such as "16:9" or "4:3"; empty means 16:9.
	AspectRatio string
}

type Image struct {
	MIMEType string
	Data     []byte
}

var (
	ErrNoAPIKey      = errors.New("no API key configured (set GEMINI_API_KEY)")
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrInvalidJSON   = errors.New("model returned malformed JSON")
)
