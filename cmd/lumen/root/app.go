package root

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/app"
	"lumen/internal/config"
	"lumen/internal/engine"
	"lumen/internal/logging"
	"lumen/internal/reminders"
	"lumen/internal/ui"
)

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

type appOptions struct {
	// quiet discards reminder notifications instead of printing them.
	quiet bool
}

func openApp(ctx context.Context, cmd *cobra.Command, opts appOptions) (*app.App, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	out := cmd.OutOrStdout()
	if opts.quiet {
		out = io.Discard
	}
	notifier := &reminders.WriterNotifier{
		Out:    out,
		Answer: promptPermission(cmd),
		Format: func(title, body string) string {
			return ui.Warn.Render(ui.IconBell+" "+title) + "\n  " + body
		},
	}

	a, err := app.Open(ctx, app.Options{Config: cfg, Logger: log, Notifier: notifier})
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	s := a.Accessibility(ctx)
	ui.Apply(s.DarkMode, s.DyslexicFont)

	cleanup := func() {
		_ = a.Close()
		_ = closer.Close()
	}
	return a, cleanup, nil
}

func promptPermission(cmd *cobra.Command) func(ctx context.Context) (reminders.Permission, error) {
	return func(ctx context.Context) (reminders.Permission, error) {
		ok, err := confirm(cmd, "Allow Lumen to show study reminder notifications?")
		if err != nil {
			return reminders.PermissionDefault, err
		}
		if ok {
			return reminders.PermissionGranted, nil
		}
		return reminders.PermissionDenied, nil
	}
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), question+" [y/N] ")
	line, err := readLine(cmd)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// readLine reads one line from the command's input. EOF yields "".
func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printXP(w io.Writer, res *engine.XPResult) {
	if s := ui.XPSummary(res); s != "" {
		fmt.Fprintln(w, s)
	}
}
