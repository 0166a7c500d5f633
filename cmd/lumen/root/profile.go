package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/auth"
	"lumen/internal/ui"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your profile",
	}
	cmd.AddCommand(newSetLevelCmd(), newSetNameCmd())
	return cmd
}

func newSetLevelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-level <level>",
		Short: "Change your educational level (" + strings.Join(auth.EducationalLevels, " | ") + ")",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("level is required")
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

			if err := a.Auth.UpdateLevel(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Level set to "+a.Auth.Current().Level+"."))
			return nil
		},
	}
	return cmd
}

func newSetNameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-name <name>",
		Short: "Change your display name",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("name is required")
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

			if err := a.Auth.UpdateName(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Name set to "+a.Auth.Current().Name+"."))
			return nil
		},
	}
	return cmd
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := a.RequireUser()
			if err != nil {
				return err
			}
			if !p.IsAdmin() {
				return errors.New("admin access required")
			}
			users, err := a.Auth.ListUsers(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconUser, fmt.Sprintf("Users (%d)", len(users))))
			for _, u := range users {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", u.Name, ui.Muted.Render("<"+u.Email+">"), ui.Muted.Render(u.Level+", "+string(u.Role)))
			}
			return nil
		},
	}
	cmd.AddCommand(newUsersPruneCmd())
	return cmd
}

func newUsersPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete progress, reminders and chats left behind by removed accounts (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{quiet: true})
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := a.RequireUser()
			if err != nil {
				return err
			}
			if !p.IsAdmin() {
				return errors.New("admin access required")
			}
			removed, err := a.Auth.PruneOrphans(ctx)
			if err != nil {
				return err
			}
			for _, k := range removed {
				fmt.Fprintln(cmd.OutOrStdout(), "- "+ui.Muted.Render(k))
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s %d orphaned records removed.", ui.IconDone, len(removed))))
			return nil
		},
	}
	return cmd
}
