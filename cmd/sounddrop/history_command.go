package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sounddrop/internal/api"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statuses []string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List download history",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			items, err := apiClient.History(cmd.Context(), limit, statuses...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No downloads recorded.")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(items))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of records to show")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (repeatable)")
	return cmd
}

func renderHistoryTable(items []api.HistoryItem) string {
	headers := []string{"ID", "Status", "Title", "Size", "Created", "Error"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		size := ""
		if item.FileSize > 0 {
			size = formatBytes(item.FileSize)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.ID),
			item.Status,
			truncate(item.Title, 40),
			size,
			item.CreatedAt,
			truncate(item.ErrorMessage, 40),
		})
	}
	return renderTable(headers, rows, aligns)
}
