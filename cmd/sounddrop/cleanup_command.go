package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete all files in the daemon's download directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := apiClient.Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}
