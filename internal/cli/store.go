package cli

import (
	"github.com/spf13/cobra"
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Whole-store commands",
	}

	cmd.AddCommand(newStoreWipeCmd())

	return cmd
}

func newStoreWipeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every user, event and join request and sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd)
			if !yes {
				out.PrintMessage("Refusing to wipe without --yes")
				return nil
			}

			if err := client.Delete(cmd.Context(), "/api/v1/store"); err != nil {
				return err
			}

			out.PrintMessage("Store wiped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the wipe")

	return cmd
}
