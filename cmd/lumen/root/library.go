package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"lumen/internal/ui"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library [category]",
		Short: "Browse free learning resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{quiet: true})
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, ui.Heading(ui.IconBook, "Resource library"))
				for _, c := range a.Library.Categories() {
					fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render(c.ID), c.Name, ui.Muted.Render(fmt.Sprintf("(%d)", len(c.Resources))))
				}
				return nil
			}

			c, ok := a.Library.Category(args[0])
			if !ok {
				return fmt.Errorf("unknown category %q", args[0])
			}
			fmt.Fprintln(out, ui.Heading(ui.IconBook, c.Name))
			fmt.Fprintln(out, ui.Muted.Render(c.Description))
			for i, r := range c.Resources {
				fmt.Fprintf(out, "%d. %s %s\n   %s\n", i+1, ui.Key.Render(r.Title), ui.Muted.Render("- "+r.Author), r.Description)
			}
			return nil
		},
	}
	cmd.AddCommand(newLibraryOpenCmd())
	return cmd
}

func newLibraryOpenCmd() *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "open <category> <n>",
		Short: "Open resource n of a category in the browser",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("category and resource number are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("resource number must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{quiet: true})
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := a.RequireUser(); err != nil {
				return err
			}
			n, _ := strconv.Atoi(args[1])
			r, xp, err := a.Library.Open(ctx, args[0], n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(r.Title, r.URL))
			if !noBrowser {
				browser.Stdout = cmd.ErrOrStderr()
				if err := browser.OpenURL(r.URL); err != nil {
					a.Log.Warn("failed to open browser", "url", r.URL, "error", err)
				}
			}
			printXP(cmd.OutOrStdout(), xp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Only print the link")
	return cmd
}
