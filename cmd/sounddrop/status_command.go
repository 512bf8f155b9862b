package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sounddrop/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and dependency health",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := apiClient.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderDaemonStatus(status, colorize)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func renderDaemonStatus(status *api.DaemonStatus, colorize bool) []string {
	var lines []string
	lines = append(lines, renderSectionHeader("Daemon", colorize)...)

	runningKind := statusError
	runningMsg := "not running"
	if status.Running {
		runningKind = statusOK
		runningMsg = fmt.Sprintf("pid %d", status.PID)
		if status.UptimeSeconds > 0 {
			runningMsg = fmt.Sprintf("pid %d, up %ds", status.PID, status.UptimeSeconds)
		}
	}
	lines = append(lines, renderStatusLine("Running", runningKind, runningMsg, colorize))
	lines = append(lines, renderStatusLine("Bind", statusInfo, status.Bind, colorize))
	lines = append(lines, renderStatusLine("Download dir", statusInfo, status.DownloadDir, colorize))
	lines = append(lines, renderStatusLine("History DB", statusInfo, status.HistoryDBPath, colorize))
	if status.FreeDiskBytes > 0 {
		lines = append(lines, renderStatusLine("Free disk", statusInfo, formatBytes(int64(status.FreeDiskBytes)), colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Downloads", colorize)...)
	history := status.History
	lines = append(lines, renderStatusLine("Total", statusInfo, fmt.Sprintf("%d", history.Total), colorize))
	lines = append(lines, renderStatusLine("Active", statusInfo, fmt.Sprintf("%d", history.Pending+history.Downloading), colorize))
	lines = append(lines, renderStatusLine("Completed", statusInfo, fmt.Sprintf("%d", history.Completed), colorize))
	failedKind := statusInfo
	if history.Failed > 0 {
		failedKind = statusWarn
	}
	lines = append(lines, renderStatusLine("Failed", failedKind, fmt.Sprintf("%d", history.Failed), colorize))

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
	for _, dep := range status.Dependencies {
		kind := statusOK
		message := dep.Command
		if !dep.Available {
			kind = statusError
			if dep.Optional {
				kind = statusWarn
			}
			message = dep.Detail
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, message, colorize))
	}
	if len(status.MissingDeps) > 0 {
		lines = append(lines, renderStatusLine("Missing", statusError, strings.Join(status.MissingDeps, ", "), colorize))
	}
	return lines
}
