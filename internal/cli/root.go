package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"chathistory/internal/format"
	"chathistory/internal/store"
	"chathistory/internal/tui"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	defaultDBPath  = "chat_history.db"
	defaultRefresh = time.Second
)

type App struct {
	DBPath     string
	Refresh    time.Duration
	LogFile    string
	Verbose    bool
	PrettyJSON bool
	Format     string
	Markdown   bool
	HeaderRule string

	log      *slog.Logger
	logClose func() error
}

func NewRootCmd() *cobra.Command {
	// A .env next to the bot's database is the usual way to point both at the same file.
	// Existing environment variables win over .env entries.
	_ = godotenv.Load()

	app := &App{}

	cmd := &cobra.Command{
		Use:          "chathistory",
		Short:        "Browse the chat relay's message history",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse the history interactively
  chathistory

  # Point at another database
  chathistory --db /srv/bot/chat_history.db

  # Scriptable commands
  chathistory records --order-by role --asc
  chathistory status --format table
  chathistory doctor --fail
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setupLogging()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.closeLogging()
	}

	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("CHAT_HISTORY_DB", defaultDBPath), "Path to the chat history sqlite database")
	cmd.PersistentFlags().DurationVar(&app.Refresh, "refresh", envDuration("CHAT_HISTORY_REFRESH", defaultRefresh), "Background refresh interval for the browser")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("CHAT_HISTORY_LOG", ""), "Append logs to this file (the browser owns the terminal; default: no logs)")
	cmd.PersistentFlags().BoolVar(&app.Verbose, "verbose", false, "Log at debug level")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CHAT_HISTORY_FORMAT", "json"), "Output format (json|edn|table)")
	cmd.Flags().BoolVar(&app.Markdown, "markdown", false, "Render overlay content as markdown")
	cmd.Flags().StringVar(&app.HeaderRule, "header-rule", envOr("CHAT_HISTORY_HEADER_RULE", "skip-first"), "Header emphasis rule (skip-first|selected)")

	cmd.AddCommand(newRecordsCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	rule, err := tui.ParseHeaderRule(app.HeaderRule)
	if err != nil {
		return writeErr(cmd, err)
	}
	st, err := openStore(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer st.Close()

	return tui.Run(cmd.Context(), st, tui.Options{
		Refresh:    app.Refresh,
		HeaderRule: rule,
		Markdown:   app.Markdown,
		Logger:     app.logger(),
	})
}

func openStore(cmd *cobra.Command, app *App) (*store.Store, error) {
	app.logger().Info("opening database", "path", app.DBPath)
	st, err := store.Open(cmd.Context(), app.DBPath)
	if err != nil {
		return nil, errOpen(app.DBPath, err)
	}
	return st, nil
}

// setupLogging sends slog output to --log-file; without one, logs are dropped.
func (app *App) setupLogging() error {
	level := slog.LevelInfo
	if app.Verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	if app.LogFile != "" {
		f, err := os.OpenFile(app.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		app.logClose = f.Close
	}

	app.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

func (app *App) closeLogging() error {
	if app.logClose == nil {
		return nil
	}
	err := app.logClose()
	app.logClose = nil
	return err
}

func (app *App) logger() *slog.Logger {
	if app.log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return app.log
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envDuration(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
		return dur
	}
	// Bare numbers are seconds.
	if dur, err := time.ParseDuration(v + "s"); err == nil && dur > 0 {
		return dur
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
