// Package cli wires the cobra command tree. Running the binary with no
// subcommand starts the interactive TUI; the subcommands expose the same
// API operations in scriptable form with JSON output.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sampathkupparaju/coachingapp/internal/format"
	"github.com/sampathkupparaju/coachingapp/internal/tui"
)

const defaultAPIURL = "http://localhost:8080"

type App struct {
	APIURL     string
	Dir        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "coachingapp",
		Short:        "Coding-problem tracker client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  coachingapp

  # Scriptable commands
  coachingapp login
  coachingapp problems list --topic Arrays
  coachingapp problems solve 42
  coachingapp notes set 42 "two pointers, O(n)"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("COACHINGAPP_API_URL", defaultAPIURL), "Base URL of the backend API")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("COACHINGAPP_DIR", ""), "Path to the state dir (session + cache; default: per-user config dir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newProblemsCmd(app))
	cmd.AddCommand(newNotesCmd(app))

	return cmd
}

func runTUI(app *App) error {
	env, err := newEnv(app)
	if err != nil {
		return err
	}
	defer env.Close()
	return tui.Run(tui.Deps{
		Auth:     env.Auth,
		API:      env.API,
		Cache:    env.Cache,
		Sessions: env.Sessions,
		Log:      env.Log,
	})
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
