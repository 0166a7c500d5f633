package tools

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"
	"google.golang.org/genai"

	"lumen/internal/ai"
)

type promptFunc func(in Input, e env) ai.Request

func textRun(prompt promptFunc) runFunc {
	return func(ctx context.Context, e env, in Input) (*Result, error) {
		text, err := e.gen.GenerateText(ctx, prompt(in, e))
		if err != nil {
			return nil, err
		}
		return &Result{Kind: KindText, Text: text}, nil
	}
}

// jsonRun asks for a document matching schema. Each path in required must be present in the
// reply; for array replies "0" requires at least one element.
func jsonRun(prompt promptFunc, schema func(in Input, e env) *genai.Schema, required ...string) runFunc {
	return func(ctx context.Context, e env, in Input) (*Result, error) {
		doc, err := e.gen.GenerateJSON(ctx, prompt(in, e), schema(in, e))
		if err != nil {
			return nil, err
		}
		if doc, err = ai.CleanJSON(doc); err != nil {
			return nil, err
		}
		if err := ai.RequireFields(doc, required...); err != nil {
			return nil, err
		}
		return &Result{Kind: KindJSON, JSON: doc}, nil
	}
}

func imageRun(prompt func(in Input) ai.ImageRequest) runFunc {
	return func(ctx context.Context, e env, in Input) (*Result, error) {
		img, err := e.gen.GenerateImage(ctx, prompt(in))
		if err != nil {
			return nil, err
		}
		return &Result{Kind: KindImage, Images: []*ai.Image{img}}, nil
	}
}

// diagramRun returns the Mermaid source as Text alongside the raw reply.
func diagramRun(prompt promptFunc) runFunc {
	base := jsonRun(prompt, func(in Input, _ env) *genai.Schema { return diagramSchema(in.Get("type")) }, "diagramCode")
	return func(ctx context.Context, e env, in Input) (*Result, error) {
		res, err := base(ctx, e, in)
		if err != nil {
			return nil, err
		}
		code := strings.TrimSpace(gjson.Get(res.JSON, "diagramCode").String())
		code = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(code, "```mermaid"), "```"))
		if code == "" {
			return nil, ai.ErrEmptyResponse
		}
		res.Text = code
		return res, nil
	}
}
