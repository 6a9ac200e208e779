package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"silabo/internal/daemon"
	"silabo/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the analysis queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueResetCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analysis queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				items, err := d.ListQueue(cmd.Context(), statuses)
				if err != nil {
					return fmt.Errorf("list queue: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				fmt.Fprintln(out, renderQueueTable(items))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Filter by status (pending, extracting, extracted, matching, grouped, review, failed)")
	return cmd
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove finished items (grouped, review, failed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				removed, err := d.ClearTerminal(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear queue: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d finished item(s)\n", removed)
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <item-id>",
		Short: "Requeue a finished item for another analysis pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				if err := d.Requeue(cmd.Context(), id); err != nil {
					return fmt.Errorf("requeue item %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d queued for another pass\n", id)
				return nil
			})
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Delete a queue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				removed, err := d.RemoveItem(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("remove item %d: %w", id, err)
				}
				if !removed {
					return fmt.Errorf("item %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", id)
				return nil
			})
		},
	}
}

func newQueueResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Return stuck in-flight items to their previous stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				reset, err := d.ResetStuck(cmd.Context())
				if err != nil {
					return fmt.Errorf("reset stuck items: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d stuck item(s)\n", reset)
				return nil
			})
		},
	}
}

func parseStatuses(values []string) ([]queue.Status, error) {
	if len(values) == 0 {
		return nil, nil
	}
	statuses := make([]queue.Status, 0, len(values))
	for _, value := range values {
		status := queue.Status(strings.ToLower(strings.TrimSpace(value)))
		if !status.IsValid() {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func renderQueueTable(items []*queue.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		detail := item.Outcome
		if item.ErrorMessage != "" {
			detail = item.ErrorMessage
		}
		retry := ""
		if item.NextRetryAt != nil {
			retry = item.NextRetryAt.Format("15:04:05")
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.CourseID,
			string(item.Status),
			strconv.Itoa(item.Attempts),
			retry,
			detail,
		})
	}
	return renderTable(
		[]string{"ID", "Course", "Status", "Attempts", "Retry At", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
