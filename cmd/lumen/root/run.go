package root

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"lumen/internal/ai"
	"lumen/internal/tools"
	"lumen/internal/ui"
)

func newRunCmd() *cobra.Command {
	var fields []string
	var file string
	var outDir string
	var save bool

	cmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Run an AI tool (see lumen tools -v for its fields)",
		Example: `  lumen run summarizer --field text="$(cat notes.txt)"
  lumen run test --field topic="Photosynthesis" --field count=5
  lumen run pdfReader --file paper.pdf --field question="What is the main result?"
  lumen run reminders --field topic="Cell biology" --save`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("tool id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := a.RequireUser(); err != nil {
				return err
			}
			in, err := parseFields(fields)
			if err != nil {
				return err
			}
			if file != "" {
				if err := attachFile(&in, args[0], file); err != nil {
					return err
				}
			}

			res, err := a.Tools.Run(ctx, args[0], in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case res.Text != "":
				fmt.Fprintln(out, res.Text)
			case res.JSON != "":
				fmt.Fprintln(out, gjson.Get(res.JSON, "@pretty").String())
			}
			if res.ToolID == tools.IDDiagram {
				fmt.Fprintln(out, ui.Muted.Render("Paste the Mermaid code into https://mermaid.live to view the diagram."))
			}
			for i, img := range res.Images {
				path, err := saveImage(outDir, res.ToolID, i, img)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.LabelValue("Image saved", path))
			}
			printXP(out, res.XP)

			if save && res.ToolID == tools.IDReminders {
				items, err := tools.ReviewSuggestions(res.JSON, in.Fields["topic"])
				if err != nil {
					return err
				}
				added, err := a.Reminders.AddReminders(ctx, items)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s %d reminders scheduled.", ui.IconBell, len(added))))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Tool input as name=value (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "Attach a file (PDF for pdfReader, image for assistant, text for documentReader)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory for generated images")
	cmd.Flags().BoolVar(&save, "save", false, "Schedule the suggested reviews (reminders tool)")

	return cmd
}

func parseFields(raw []string) (tools.Input, error) {
	in := tools.Input{Fields: map[string]string{}}
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return in, fmt.Errorf("field %q must be name=value", kv)
		}
		in.Fields[name] = value
	}
	return in, nil
}

// attachFile loads path as the tool's attachment. The document reader takes text inline.
func attachFile(in *tools.Input, toolID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	mimeType, _, _ = strings.Cut(mimeType, ";")

	if strings.EqualFold(toolID, tools.IDDocumentReader) {
		if !strings.HasPrefix(mimeType, "text/") {
			return fmt.Errorf("%s: only plain text documents are supported, got %s", filepath.Base(path), mimeType)
		}
		in.Fields["document"] = string(data)
		return nil
	}
	in.Attachment = &ai.Attachment{MIMEType: mimeType, Data: data}
	return nil
}

func saveImage(dir, toolID string, i int, img *ai.Image) (string, error) {
	ext := ".png"
	if exts, _ := mime.ExtensionsByType(img.MIMEType); len(exts) > 0 {
		ext = exts[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d%s", toolID, i+1, ext))
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return path, nil
}
