// Package library is the static catalog of free learning resources.
package library

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"lumen/internal/engine"
)

//go:embed resources.yaml
var resourcesYAML []byte

const (
	UsageID = "resourceLibrary"
	Reward  = 5
)

type Resource struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

type Category struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Resources   []Resource `yaml:"resources"`
}

// Awarder records XP for opening a resource.
type Awarder interface {
	AddXP(ctx context.Context, amount int, toolID string) (*engine.XPResult, error)
}

type Library struct {
	categories []Category
	xp         Awarder
}

// Load parses the embedded catalog.
func Load(xp Awarder) (*Library, error) {
	cats, err := parse(resourcesYAML)
	if err != nil {
		return nil, err
	}
	return &Library{categories: cats, xp: xp}, nil
}

func parse(data []byte) ([]Category, error) {
	var cats []Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parse resource catalog: %w", err)
	}
	return cats, nil
}

func (l *Library) Categories() []Category {
	out := make([]Category, len(l.categories))
	copy(out, l.categories)
	return out
}

func (l *Library) Category(id string) (Category, bool) {
	for _, c := range l.categories {
		if strings.EqualFold(c.ID, strings.TrimSpace(id)) {
			return c, true
		}
	}
	return Category{}, false
}

// Open returns resource n (1-based) of category id and awards the library XP.
func (l *Library) Open(ctx context.Context, id string, n int) (Resource, *engine.XPResult, error) {
	c, ok := l.Category(id)
	if !ok {
		return Resource{}, nil, fmt.Errorf("unknown category %q", id)
	}
	if n < 1 || n > len(c.Resources) {
		return Resource{}, nil, fmt.Errorf("category %s has resources 1 to %d", c.ID, len(c.Resources))
	}
	xp, err := l.xp.AddXP(ctx, Reward, UsageID)
	if err != nil {
		return Resource{}, nil, err
	}
	return c.Resources[n-1], xp, nil
}
