package cli

import (
	"bufio"
	"errors"

	"github.com/spf13/cobra"

	"github.com/sampathkupparaju/coachingapp/internal/api"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(app)
			if err != nil {
				return err
			}
			defer env.Close()

			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				email, err = promptLine(reader, "Email", cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = promptPassword(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			if err := env.Auth.Login(cmd.Context(), email, password); err != nil {
				if errors.Is(err, api.ErrInvalidCredentials) {
					return writeErr(cmd, errors.New("invalid email or password"))
				}
				return err
			}

			s := env.Auth.Session()
			return writeOut(cmd, app, map[string]string{
				"userId": s.UserID,
				"email":  s.Email,
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted without echo when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(app)
			if err != nil {
				return err
			}
			defer env.Close()

			env.Auth.Logout()
			return writeOut(cmd, app, map[string]bool{"loggedOut": true})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the session and print the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(app)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			s := env.Auth.Session()
			return writeOut(cmd, app, map[string]string{
				"userId": s.UserID,
				"email":  s.Email,
			})
		},
	}
}
