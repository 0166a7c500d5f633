package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lumen/internal/ui"
)

func newSettingsCmd() *cobra.Command {
	var dark, dyslexic bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change accessibility settings",
		Example: `  lumen settings --dark
  lumen settings --dyslexic=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{quiet: true})
			if err != nil {
				return err
			}
			defer cleanup()

			s := a.Accessibility(ctx)
			changed := false
			if cmd.Flags().Changed("dark") {
				s.DarkMode, changed = dark, true
			}
			if cmd.Flags().Changed("dyslexic") {
				s.DyslexicFont, changed = dyslexic, true
			}
			if changed {
				if err := a.SetAccessibility(ctx, s); err != nil {
					return err
				}
				ui.Apply(s.DarkMode, s.DyslexicFont)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconInfo, "Accessibility"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Dark mode", onOff(s.DarkMode)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Readable font", onOff(s.DyslexicFont)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dark, "dark", false, "Dark colour scheme")
	cmd.Flags().BoolVar(&dyslexic, "dyslexic", false, "Dyslexia-friendly rendering (no bold, wider panels)")
	return cmd
}

func onOff(v bool) string {
	if v {
		return ui.Good.Render("on")
	}
	return ui.Muted.Render("off")
}
