package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/tools"
	"lumen/internal/ui"
)

func newToolsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the AI tools and what they reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLumen, "Tools"))
			for _, t := range tools.Catalog() {
				fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render(t.ID), t.Name, ui.Muted.Render(fmt.Sprintf("(+%d XP)", t.Reward)))
				if !verbose {
					continue
				}
				fmt.Fprintf(out, "    %s\n", ui.Muted.Render(t.Description))
				for _, f := range t.Fields {
					fmt.Fprintf(out, "    --field %s=…  %s\n", f.Name, fieldHint(f))
				}
				if len(t.NeedsAttachment) > 0 {
					fmt.Fprintf(out, "    --file …  %s\n", ui.Muted.Render(strings.Join(t.NeedsAttachment, ", ")))
				}
			}
			fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render(tools.IDChat), "Private chat (lumen chat)", ui.Muted.Render(fmt.Sprintf("(+%d XP)", tools.ChatReward)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show descriptions and fields")
	return cmd
}

func fieldHint(f tools.Field) string {
	var parts []string
	if f.Required {
		parts = append(parts, "required")
	}
	if f.Default != "" {
		parts = append(parts, "default "+f.Default)
	}
	if len(f.Options) > 0 {
		parts = append(parts, strings.Join(f.Options, "|"))
	}
	if f.Numeric {
		parts = append(parts, fmt.Sprintf("%d-%d", f.Min, f.Max))
	}
	return ui.Muted.Render(f.Label + " (" + strings.Join(parts, ", ") + ")")
}
