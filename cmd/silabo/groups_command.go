package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"silabo/internal/daemon"
)

func newGroupsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List equivalence groups and their membership",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				summaries, err := d.GroupSummaries(cmd.Context())
				if err != nil {
					return fmt.Errorf("list groups: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No equivalence groups yet")
					return nil
				}

				rows := make([][]string, 0, len(summaries))
				for _, summary := range summaries {
					rows = append(rows, []string{
						strconv.FormatInt(summary.Group.ID, 10),
						summary.Group.Name,
						strconv.Itoa(summary.MemberCount),
						strconv.Itoa(summary.SchoolCount),
						summary.Group.Description,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Courses", "Schools", "Description"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
