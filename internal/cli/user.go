package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/pickupgames/internal/model"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Account and session commands",
	}

	cmd.AddCommand(newUserRegisterCmd())
	cmd.AddCommand(newUserLoginCmd())
	cmd.AddCommand(newUserLogoutCmd())
	cmd.AddCommand(newUserMeCmd())
	cmd.AddCommand(newUserSummaryCmd())
	cmd.AddCommand(newUserRequestsCmd())

	return cmd
}

func newUserRegisterCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new user and sign in as them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": args[0],
				"password": password,
			}

			var result User

			if err := client.Post(cmd.Context(), "/api/v1/auth/register", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in as an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": args[0],
				"password": password,
			}

			var result User

			if err := client.Post(cmd.Context(), "/api/v1/auth/login", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/auth/logout", nil, nil); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage("Signed out")
			return nil
		},
	}
}

func newUserMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get(cmd.Context(), "/api/v1/auth/me", &result); err != nil {
				if errors.Is(err, model.ErrNotAuthenticated) {
					return fmt.Errorf("%w; sign in with 'pickup user login <username>'", err)
				}
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newUserSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <user-id>",
		Short: "Show the events a user organizes, plays in or is waiting on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result UserSummary

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/users/%s/summary", args[0]), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newUserRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "List the signed-in user's join requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinRequestList

			if err := client.Get(cmd.Context(), "/api/v1/users/me/requests", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
