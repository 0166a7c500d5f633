package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-3.0-generate-002"
)

type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

// GeminiClient implements Generator on the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
	log        *slog.Logger
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	g := &GeminiClient{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		log:        logger.With("component", "ai"),
	}
	if g.textModel == "" {
		g.textModel = DefaultTextModel
	}
	if g.imageModel == "" {
		g.imageModel = DefaultImageModel
	}
	return g, nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, req Request) (string, error) {
	text, err := g.generate(ctx, req, nil)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *GeminiClient) GenerateJSON(ctx context.Context, req Request, schema *genai.Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	text, err := g.generate(ctx, req, cfg)
	if err != nil {
		return "", err
	}
	return CleanJSON(text)
}

func (g *GeminiClient) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "16:9"
	}
	start := time.Now()
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, req.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    aspect,
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	g.log.Debug("image generated", "model", g.imageModel, "elapsed", time.Since(start))
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, ErrEmptyResponse
	}
	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return &Image{MIMEType: mime, Data: img.ImageBytes}, nil
}

func (g *GeminiClient) generate(ctx context.Context, req Request, cfg *genai.GenerateContentConfig) (string, error) {
	if cfg == nil {
		cfg = &genai.GenerateContentConfig{}
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, buildContents(req), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	g.log.Debug("content generated", "model", g.textModel, "turns", len(req.History)+1, "elapsed", time.Since(start))
	return resp.Text(), nil
}

func buildContents(req Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}

	parts := make([]*genai.Part, 0, len(req.Attachments)+1)
	for _, a := range req.Attachments {
		parts = append(parts, genai.NewPartFromBytes(a.Data, a.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	return append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
}
