package root

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/ai"
	"lumen/internal/app"
	"lumen/internal/tools"
	"lumen/internal/ui"
)

func newChatCmd() *cobra.Command {
	var reset bool
	var file string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat privately with Lumen (interactive when no message is given)",
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
			if reset {
				if err := a.ClearChatHistory(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Chat history cleared."))
				if len(args) == 0 {
					return nil
				}
			}

			session := a.Tools.NewChat(a.ChatHistory(ctx))
			if file != "" {
				in := tools.Input{Fields: map[string]string{}}
				if err := attachFile(&in, "", file); err != nil {
					return err
				}
				session.AttachDocument(*in.Attachment)
			}

			if len(args) > 0 {
				return chatTurn(ctx, cmd, a, session, strings.Join(args, " "))
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconChat, "Lumen chat"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Type a message, or /exit to leave."))
			for _, m := range session.History() {
				printTurn(cmd, m)
			}
			sc := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(cmd.OutOrStdout(), ui.Key.Render("you> "))
				if !sc.Scan() {
					break
				}
				line := strings.TrimSpace(sc.Text())
				switch line {
				case "":
					continue
				case "/exit", "/quit":
					return nil
				}
				if err := chatTurn(ctx, cmd, a, session, line); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), ui.Bad.Render(ui.IconError+" "+err.Error()))
				}
			}
			return sc.Err()
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Forget the saved conversation first")
	cmd.Flags().StringVar(&file, "file", "", "Attach a document the chat should use")
	return cmd
}

func chatTurn(ctx context.Context, cmd *cobra.Command, a *app.App, session *ai.ChatSession, msg string) error {
	reply, xp, err := a.Tools.Chat(ctx, session, msg)
	if err != nil {
		return err
	}
	printTurn(cmd, ai.Message{Role: ai.RoleModel, Text: reply})
	printXP(cmd.OutOrStdout(), xp)
	return a.SaveChatHistory(ctx, session.History())
}

func printTurn(cmd *cobra.Command, m ai.Message) {
	who := ui.Key.Render("you> ")
	if m.Role == ai.RoleModel {
		who = ui.Gold.Render("lumen> ")
	}
	fmt.Fprintln(cmd.OutOrStdout(), who+m.Text)
}
