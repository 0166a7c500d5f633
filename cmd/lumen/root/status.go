package root

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"lumen/internal/engine"
	"lumen/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, XP and achievements",
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
			st := a.Engine.State()
			prog := engine.ProgressFor(st)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, p.Name+"'s progress"))
			fmt.Fprintln(out, ui.LevelLine(st, 30))
			if !prog.MaxLevel {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("%d XP to level %d", prog.ToNext, prog.Level+1)))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Achievements (%d/%d)", ui.IconTrophy, engine.CountUnlocked(st), len(st.Achievements))))
			for _, ach := range engine.SortedAchievements(st) {
				fmt.Fprintln(out, "- "+ui.AchievementLine(ach))
			}
			fmt.Fprintln(out, "")

			if len(st.ToolUsage) == 0 {
				return nil
			}
			ids := make([]string, 0, len(st.ToolUsage))
			for id := range st.ToolUsage {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			fmt.Fprintln(out, ui.H2.Render("📊 Tool usage"))
			for _, id := range ids {
				fmt.Fprintf(out, "- %s %d\n", ui.Key.Render(id+":"), st.ToolUsage[id])
			}
			return nil
		},
	}

	return cmd
}
