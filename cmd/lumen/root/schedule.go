package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lumen/internal/ui"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Study organizer",
	}
	cmd.AddCommand(newScheduleListCmd(), newScheduleAddCmd(), newScheduleDeleteCmd())
	return cmd
}

func newScheduleListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the study schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{quiet: true})
			if err != nil {
				return err
			}
			defer cleanup()

			items := a.Organizer.List()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconCalendar, "Study schedule"))
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(empty)"))
			}
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s: %s %s\n", ui.Key.Render(it.Date), it.Subject, it.Task, ui.Muted.Render("("+it.ID+")"))
			}
			return nil
		},
	}
	return cmd
}

func newScheduleAddCmd() *cobra.Command {
	var subject, task, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a study task",
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
			item, xp, err := a.Organizer.Add(ctx, subject, task, date, a.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s %s: %s on %s", ui.IconPlus, item.Subject, item.Task, item.Date)))
			printXP(cmd.OutOrStdout(), xp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject")
	cmd.Flags().StringVarP(&task, "task", "t", "", "Task")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date YYYY-MM-DD (default today)")
	return cmd
}

func newScheduleDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a study task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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

			ok, err := a.Organizer.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no study task with id %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted."))
			return nil
		},
	}
	return cmd
}
