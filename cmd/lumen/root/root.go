package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lumen/internal/ui"
)

const Version = "0.1.0"

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:           "lumen",
	Short:         "Lumen AI - study assistant with XP, achievements and smart reminders",
	Long:          "Lumen AI is a local-first study assistant: AI tools pitched at your academic level, a study organizer, spaced-repetition reminders and gamified progress.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/lumen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides config and LUMEN_DB)")

	rootCmd.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newUsersCmd(),
		newStatusCmd(),
		newToolsCmd(),
		newRunCmd(),
		newChatCmd(),
		newRemindersCmd(),
		newScheduleCmd(),
		newLibraryCmd(),
		newSettingsCmd(),
		newConfigCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
