package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lumen/internal/ai"
)

// Kind is the shape of a tool's result.
type Kind string

const (
	KindText  Kind = "text"
	KindJSON  Kind = "json"
	KindImage Kind = "image"
)

// Field describes one input a tool accepts.
type Field struct {
	Name     string
	Label    string
	Required bool
	Default  string
	// Options restricts the value to a fixed set (matched case-insensitively).
	Options []string
	// Numeric fields must parse as an integer within [Min, Max].
	Numeric  bool
	Min, Max int
}

// Input is what the user hands a tool: named text fields and an optional file.
type Input struct {
	Fields     map[string]string
	Attachment *ai.Attachment
}

func (in Input) Get(name string) string {
	return strings.TrimSpace(in.Fields[name])
}

func (in Input) Int(name string) int {
	n, _ := strconv.Atoi(in.Get(name))
	return n
}

// Result is the outcome of a successful run.
type Result struct {
	ToolID string
	Kind   Kind
	// Text is set for text tools.
	Text string
	// JSON is the validated document for JSON tools.
	JSON string
	// Images holds generated images, in the order the tool defines.
	Images []*ai.Image
}

// env is what a run sees besides the user's input.
type env struct {
	gen   ai.Generator
	level string
	today time.Time
}

type runFunc func(ctx context.Context, e env, in Input) (*Result, error)

// Tool is one entry of the catalog.
type Tool struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	// Reward is the XP for a successful run; RewardFor overrides it when set.
	Reward    int
	RewardFor func(in Input, priorUses int) int
	Fields    []Field
	// NeedsAttachment lists accepted MIME types when the tool requires a file.
	NeedsAttachment []string
	// Check runs after field validation for cross-field rules.
	Check func(in Input) error

	run runFunc
}

// xpFor returns the XP t grants for in, given how often it has earned XP before.
func (t Tool) xpFor(in Input, priorUses int) int {
	if t.RewardFor != nil {
		return t.RewardFor(in, priorUses)
	}
	return t.Reward
}

// normalize applies defaults and validates in against t's fields.
func (t Tool) normalize(in Input) (Input, error) {
	out := Input{Fields: make(map[string]string, len(t.Fields)), Attachment: in.Attachment}
	for k, v := range in.Fields {
		out.Fields[k] = strings.TrimSpace(v)
	}

	for _, f := range t.Fields {
		v := out.Fields[f.Name]
		if v == "" {
			v = f.Default
		}
		if v == "" {
			if f.Required {
				return in, ValidationError{Field: f.Name, Reason: "is required"}
			}
			continue
		}
		if len(f.Options) > 0 {
			canon, ok := matchOption(f.Options, v)
			if !ok {
				return in, ValidationError{Field: f.Name, Reason: "must be one of: " + strings.Join(f.Options, ", ")}
			}
			v = canon
		}
		if f.Numeric {
			n, err := strconv.Atoi(v)
			if err != nil || n < f.Min || n > f.Max {
				return in, ValidationError{Field: f.Name, Reason: fmt.Sprintf("must be a whole number from %d to %d", f.Min, f.Max)}
			}
		}
		out.Fields[f.Name] = v
	}

	if len(t.NeedsAttachment) > 0 {
		if out.Attachment == nil || len(out.Attachment.Data) == 0 {
			return in, ValidationError{Field: "file", Reason: "is required"}
		}
		if !acceptsMIME(t.NeedsAttachment, out.Attachment.MIMEType) {
			return in, ValidationError{Field: "file", Reason: "must be one of: " + strings.Join(t.NeedsAttachment, ", ")}
		}
	}
	if t.Check != nil {
		if err := t.Check(out); err != nil {
			return in, err
		}
	}
	return out, nil
}

func matchOption(options []string, v string) (string, bool) {
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o, true
		}
	}
	return "", false
}

func acceptsMIME(accepted []string, mime string) bool {
	mime, _, _ = strings.Cut(mime, ";")
	mime = strings.TrimSpace(strings.ToLower(mime))
	for _, a := range accepted {
		if a == mime || (strings.HasSuffix(a, "/*") && strings.HasPrefix(mime, strings.TrimSuffix(a, "*"))) {
			return true
		}
	}
	return false
}
