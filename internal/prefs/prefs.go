// Package prefs stores display preferences.
package prefs

import (
	"context"

	"lumen/internal/storage"
)

// Accessibility holds the display flags shared by every screen.
type Accessibility struct {
	DarkMode     bool `json:"isDarkMode"`
	DyslexicFont bool `json:"isDyslexicFont"`
}

// Load returns the saved settings. Missing or unreadable settings yield the zero value.
func Load(ctx context.Context, kv storage.KV) Accessibility {
	var a Accessibility
	if _, err := storage.GetJSON(ctx, kv, storage.KeyAccessibility, &a); err != nil {
		return Accessibility{}
	}
	return a
}

func Save(ctx context.Context, kv storage.KV, a Accessibility) error {
	return storage.SetJSON(ctx, kv, storage.KeyAccessibility, a)
}
