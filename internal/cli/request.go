package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Join request commands",
	}

	cmd.AddCommand(newRequestJoinCmd())
	cmd.AddCommand(newRequestTransitionCmd("accept", "Accept a pending request to an event you organize"))
	cmd.AddCommand(newRequestTransitionCmd("reject", "Reject a pending request to an event you organize"))
	cmd.AddCommand(newRequestTransitionCmd("cancel", "Cancel your own pending request"))

	return cmd
}

func newRequestJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <event-id>",
		Short: "Request to join an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinRequest

			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/events/%s/requests", args[0]), nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newRequestTransitionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinRequest

			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/requests/%s/%s", args[0], action), nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
