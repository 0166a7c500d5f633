package tools

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"lumen/internal/ai"
)

// countryRun builds a country report from one JSON call and two images requested
// concurrently. The first failure cancels the rest.
func countryRun(ctx context.Context, e env, in Input) (*Result, error) {
	country := in.Get("country")
	report := jsonRun(func(in Input, e env) ai.Request {
		return ai.Request{
			System: fmt.Sprintf("You are an expert geographer, historian and cultural analyst. Give detailed, accurate and concise information about a country for a student at the %s level. Keep it objective and well structured, and match the depth of the data to the student's level.", e.level),
			Prompt: fmt.Sprintf("Write a detailed report about %s.", country),
		}
	}, func(Input, env) *genai.Schema { return countrySchema() }, "summary", "capital", "geography", "culture", "economy", "politics")

	var (
		res         *Result
		mapImage    *ai.Image
		sceneryShot *ai.Image
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := report(gctx, e, in)
		res = r
		return err
	})
	g.Go(func() error {
		img, err := e.gen.GenerateImage(gctx, ai.ImageRequest{
			Prompt:      fmt.Sprintf("A clear, modern political map of %s showing its borders, capital and main cities. Atlas style. No text outside the map.", country),
			AspectRatio: "4:3",
		})
		mapImage = img
		return err
	})
	g.Go(func() error {
		img, err := e.gen.GenerateImage(gctx, ai.ImageRequest{
			Prompt:      fmt.Sprintf("A beautiful, representative photograph of the culture or landscape of %s. Documentary magazine style, high quality, iconic.", country),
			AspectRatio: "16:9",
		})
		sceneryShot = img
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if mapImage == nil || sceneryShot == nil {
		return nil, ai.ErrEmptyResponse
	}
	res.Images = []*ai.Image{mapImage, sceneryShot}
	return res, nil
}
