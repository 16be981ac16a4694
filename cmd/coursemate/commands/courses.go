// ABOUTME: CLI command to list indexed courses
// ABOUTME: Shows each course with its instructor and lesson count
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCoursesCmd creates the courses command
func NewCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List indexed courses",
		Long: `List every indexed course with its instructor and lesson count.

Examples:
  coursemate courses
  coursemate courses --format json`,
		Args: cobra.NoArgs,
		RunE: runCourses,
	}

	return cmd
}

func runCourses(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	analytics, err := app.RAG.CourseAnalytics(ctx)
	if err != nil {
		return fmt.Errorf("listing courses: %w", err)
	}

	out := cmd.OutOrStdout()
	if wantJSON() {
		return writeJSON(out, analytics)
	}
	if analytics.TotalCourses == 0 {
		fmt.Fprintln(out, "No courses indexed. Run 'coursemate ingest <dir>' first.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tINSTRUCTOR\tLESSONS")
	for _, title := range analytics.CourseTitles {
		course, err := app.Store.GetCourse(ctx, title)
		if err != nil {
			return fmt.Errorf("loading course %q: %w", title, err)
		}
		if course == nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", truncate(course.Title, 60), course.Instructor, len(course.Lessons))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d courses\n", analytics.TotalCourses)
	return nil
}
