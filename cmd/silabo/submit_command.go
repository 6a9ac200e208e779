package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"silabo/internal/daemon"
	"silabo/internal/intake"
	"silabo/internal/services"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var school string
	var course string
	var code string
	var credits int

	cmd := &cobra.Command{
		Use:   "submit <syllabus.pdf>",
		Short: "Submit a syllabus for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				result, err := d.Intake().Submit(cmd.Context(), intake.Request{
					SchoolName: school,
					CourseName: course,
					CourseCode: code,
					Credits:    credits,
					SourcePath: args[0],
				})
				if err != nil {
					if msg := services.Message(err); msg != "" {
						return fmt.Errorf("%s", msg)
					}
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Submitted %q for %s (%d credits)\n", result.Course.Name, school, result.Course.Credits)
				fmt.Fprintf(out, "Queue item #%d is pending analysis\n", result.Item.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&school, "school", "s", "", "School offering the course (required)")
	cmd.Flags().StringVarP(&course, "course", "n", "", "Course name (required)")
	cmd.Flags().StringVar(&code, "code", "", "Course code")
	cmd.Flags().IntVar(&credits, "credits", 0, "Declared credits; corrected from the syllabus when found")
	_ = cmd.MarkFlagRequired("school")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}
