package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Download a track through a running daemon and save it locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			apiClient.WithTimeout(timeout)

			resp, err := apiClient.Download(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			dir := strings.TrimSpace(outputDir)
			if dir == "" {
				dir = "."
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			target := filepath.Join(dir, resp.SafeFilename)
			file, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer file.Close()

			written, err := apiClient.FetchFile(cmd.Context(), resp.DownloadURL, file)
			if err != nil {
				_ = os.Remove(target)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", target, written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to save the file into (default current directory)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall request timeout")
	return cmd
}
