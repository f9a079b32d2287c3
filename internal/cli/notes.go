package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Read and write per-problem notes",
	}
	cmd.AddCommand(newNotesGetCmd(app))
	cmd.AddCommand(newNotesSetCmd(app))
	return cmd
}

func newNotesGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <problem-id>",
		Short: "Print the note for one problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(app)
			if err != nil {
				return err
			}
			defer env.Close()
			ctx := cmd.Context()

			if err := env.requireSession(ctx); err != nil {
				return writeErr(cmd, err)
			}

			// The contract has no single-note read; fetch the user's map and
			// pick the requested id (absent => empty note).
			notes, err := env.API.ListNotes(ctx, env.Auth.Session().UserID)
			if err != nil {
				return err
			}
			if err := env.Cache.EnsureOwner(ctx, env.Auth.Session().UserID); err == nil {
				_ = env.Cache.PutNotes(ctx, notes)
			}
			return writeOut(cmd, app, map[string]string{
				"problemId": args[0],
				"note":      notes[args[0]],
			})
		},
	}
}

func newNotesSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <problem-id> [text]",
		Short: "Save the note for one problem (text from the argument or stdin)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(app)
			if err != nil {
				return err
			}
			defer env.Close()
			ctx := cmd.Context()

			if err := env.requireSession(ctx); err != nil {
				return writeErr(cmd, err)
			}

			var text string
			if len(args) == 2 {
				text = args[1]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = strings.TrimRight(string(b), "\n")
			}

			userID := env.Auth.Session().UserID
			if err := env.API.SaveNote(ctx, userID, args[0], text); err != nil {
				return err
			}
			if err := env.Cache.EnsureOwner(ctx, userID); err == nil {
				_ = env.Cache.PutNote(ctx, args[0], text)
			}
			return writeOut(cmd, app, map[string]string{
				"problemId": args[0],
				"note":      text,
			})
		},
	}
}
