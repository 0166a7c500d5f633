package root

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lumen/internal/app"
	"lumen/internal/reminders"
	"lumen/internal/ui"
)

func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"rem"},
		Short:   "Spaced-repetition study reminders",
	}
	cmd.AddCommand(
		newRemindersListCmd(),
		newRemindersAddCmd(),
		newRemindersPlanCmd(),
		newRemindersDeleteCmd(),
		newRemindersPermissionCmd(),
		newRemindersWatchCmd(),
	)
	return cmd
}

func newRemindersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming reminders (fires any that are due)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			a.Reminders.CheckDue(ctx)
			printReminders(cmd, a)
			return nil
		},
	}
	return cmd
}

func newRemindersAddCmd() *cobra.Command {
	var in reminders.NewReminder

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if in.DueDate == "" {
				in.DueDate = a.Now().Format(reminders.DateLayout)
			}
			added, err := a.Reminders.AddReminders(ctx, []reminders.NewReminder{in})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Reminder %s set for %s.", ui.IconBell, added[0].ID, added[0].DueDate)))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Topic, "topic", "", "What to review")
	cmd.Flags().StringVar(&in.Note, "note", "", "Review prompt")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "Due date YYYY-MM-DD (default today)")
	return cmd
}

func newRemindersPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <topic>",
		Short: "Schedule reviews 1, 7 and 30 days from today (use lumen run reminders --save for an AI plan)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("topic is required")
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

			plan := reminders.SuggestSchedule(strings.Join(args, " "), a.Now())
			added, err := a.Reminders.AddReminders(ctx, plan)
			if err != nil {
				return err
			}
			for _, r := range added {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconBell, ui.Key.Render(r.DueDate), r.Note)
			}
			return nil
		},
	}
	return cmd
}

func newRemindersDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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

			ok, err := a.Reminders.DeleteReminder(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no reminder with id %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted."))
			return nil
		},
	}
	return cmd
}

func newRemindersPermissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permission",
		Short: "Allow or block reminder notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := a.Reminders.RequestPermission(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Notifications", string(p)))
			return nil
		},
	}
	return cmd
}

func newRemindersWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stay running and notify as reminders come due",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx, cmd, appOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if a.Reminders.Permission() != reminders.PermissionGranted {
				return errors.New("notifications are not allowed; run lumen reminders permission first")
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("Watching reminders every %s. Ctrl+C to stop.", a.Config.ReminderInterval)))
			a.Reminders.Start(ctx)
			<-ctx.Done()
			return nil
		},
	}
	return cmd
}

func printReminders(cmd *cobra.Command, a *app.App) {
	list := a.Reminders.List()
	fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconBell, fmt.Sprintf("Reminders (%d)", len(list))))
	if a.Reminders.Permission() != reminders.PermissionGranted {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" Notifications are off: lumen reminders permission"))
	}
	for _, r := range list {
		line := fmt.Sprintf("- %s %s %s", ui.Key.Render(r.DueDate), r.Topic, ui.Muted.Render("("+r.ID+")"))
		if r.Note != "" {
			line += "\n    " + ui.Muted.Render(r.Note)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
