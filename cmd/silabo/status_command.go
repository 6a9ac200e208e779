package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"silabo/internal/daemon"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue and stage health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				status := d.Status(cmd.Context())
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Queue", colorize) {
					fmt.Fprintln(out, line)
				}
				counts := status.Health.Queue
				fmt.Fprintln(out, renderStatusLine("Pending", statusInfo, strconv.Itoa(counts.Pending), colorize))
				fmt.Fprintln(out, renderStatusLine("Processing", statusInfo, strconv.Itoa(counts.Processing), colorize))
				fmt.Fprintln(out, renderStatusLine("Grouped", statusOK, strconv.Itoa(counts.Grouped), colorize))
				reviewKind := statusOK
				if counts.Review > 0 {
					reviewKind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Needs review", reviewKind, strconv.Itoa(counts.Review), colorize))
				failedKind := statusOK
				if counts.Failed > 0 {
					failedKind = statusError
				}
				fmt.Fprintln(out, renderStatusLine("Failed", failedKind, strconv.Itoa(counts.Failed), colorize))

				for _, line := range renderSectionHeader("Stages", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, stageHealth := range status.Health.Stages {
					kind := statusOK
					if !stageHealth.Ready {
						kind = statusWarn
					}
					fmt.Fprintln(out, renderStatusLine(stageHealth.Name, kind, stageHealth.Detail, colorize))
				}

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, status.QueueDBPath, colorize))
				fmt.Fprintln(out, renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize))
				return nil
			})
		},
	}
}
