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

func newRegisterCmd() *cobra.Command {
	var in auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if in.Password == "" {
				if in.Password, err = promptSecret(cmd); err != nil {
					return err
				}
			}
			p, err := a.Auth.Register(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Welcome to Lumen, %s!", ui.IconSparkle, p.Name)))
			printProfile(cmd, p)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Level, "level", auth.DefaultEducationalLevel, "Educational level ("+strings.Join(auth.EducationalLevels, " | ")+")")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (prompted when omitted)")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("email is required")
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

			if password == "" {
				if password, err = promptSecret(cmd); err != nil {
					return err
				}
			}
			p, err := a.Auth.Login(ctx, args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Signed in as %s.", ui.IconDone, p.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear this account's progress on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, appOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Signed out."))
			return nil
		},
	}
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
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
			printProfile(cmd, p)
			return nil
		},
	}
	return cmd
}

func printProfile(cmd *cobra.Command, p *auth.Profile) {
	fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconUser, p.Name))
	fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Email", p.Email))
	fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Level", p.Level))
	fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Role", string(p.Role)))
}

func promptSecret(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	return readLine(cmd)
}
