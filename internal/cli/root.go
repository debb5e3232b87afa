// Package cli wires the cobra command tree. Running askbob with no
// subcommand starts the interactive TUI; subcommands are the scriptable
// JSON-emitting surface over the same API client.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"askbob/internal/api"
	"askbob/internal/config"
	"askbob/internal/format"
	"askbob/internal/session"
	"askbob/internal/tui"
)

type App struct {
	ServerURL  string
	ConfigPath string
	TokenPath  string
	PrettyJSON bool
}

// env is the per-invocation wiring: config, session and API client.
type env struct {
	cfg    config.Config
	sess   *session.Store
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "askbob",
		Short:        "AskBob project/task client (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  askbob

  # Scriptable commands
  askbob login --email you@example.com --password secret
  askbob projects list
  askbob tasks list --project proj-1 --status todo --sort -created_at
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("ASKBOB_SERVER", ""), "API server base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("ASKBOB_CONFIG", ""), "Path to config file")
	cmd.PersistentFlags().StringVar(&app.TokenPath, "token-file", envOr("ASKBOB_TOKEN_FILE", ""), "Path to session token file")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))

	return cmd
}

func runTUI(app *App) error {
	e, err := app.load()
	if err != nil {
		return err
	}
	return tui.Run(e.client, e.sess, e.cfg)
}

func (app *App) load() (*env, error) {
	path := app.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, err
	}
	if app.ServerURL != "" {
		cfg.ServerURL = app.ServerURL
	}

	tokenPath := app.TokenPath
	if tokenPath == "" {
		tokenPath = cfg.TokenPath
	}
	if tokenPath == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		tokenPath = p
	}
	sess := session.NewStore(tokenPath)
	if err := sess.Load(); err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		sess:   sess,
		client: api.New(cfg.ServerURL, sess, cfg.Timeout()),
	}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
