package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sampathkupparaju/coachingapp/internal/model"
)

func newProblemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problems",
		Short: "Browse and update the problem catalogue",
	}
	cmd.AddCommand(newProblemsListCmd(app))
	cmd.AddCommand(newProblemsToggleCmd(app, "solve", "Toggle a problem's solved flag"))
	cmd.AddCommand(newProblemsToggleCmd(app, "star", "Toggle a problem's starred flag"))
	return cmd
}

func newProblemsListCmd(app *App) *cobra.Command {
	var topic string
	var starredOnly bool
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List problems as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(app)
			if err != nil {
				return err
			}
			defer env.Close()
			ctx := cmd.Context()

			var problems []model.Problem
			if cached {
				problems, err = env.Cache.Problems(ctx)
				if err != nil {
					return err
				}
			} else {
				if err := env.requireSession(ctx); err != nil {
					return writeErr(cmd, err)
				}
				problems, err = env.API.ListProblems(ctx)
				if err != nil {
					return err
				}
				if err := env.Cache.EnsureOwner(ctx, env.Auth.Session().UserID); err == nil {
					_ = env.Cache.PutProblems(ctx, problems)
				}
			}

			out := problems[:0:0]
			for _, p := range problems {
				if topic != "" && p.Topic != topic {
					continue
				}
				if starredOnly && !p.Starred {
					continue
				}
				out = append(out, p)
			}
			if out == nil {
				out = []model.Problem{}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "Only problems in this topic (case-sensitive)")
	cmd.Flags().BoolVar(&starredOnly, "starred", false, "Only starred problems")
	cmd.Flags().BoolVar(&cached, "cached", false, "Read from the local cache instead of the server")
	return cmd
}

func newProblemsToggleCmd(app *App, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <problem-id>",
		Short: short,
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

			var ts model.ToggleState
			if action == "solve" {
				ts, err = env.API.ToggleSolved(ctx, args[0])
			} else {
				ts, err = env.API.ToggleStarred(ctx, args[0])
			}
			if err != nil {
				return err
			}

			if id, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
				_ = env.Cache.ApplyToggle(ctx, id, ts)
			}
			return writeOut(cmd, app, ts)
		},
	}
}
