// ABOUTME: Course outline lookup exposed to the language model
// ABOUTME: Returns title, link, instructor, and the ordered lesson list for one course
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/coursemate/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// OutlineToolName is the name the model uses to call the outline tool
const OutlineToolName = "get_course_outline"

// CourseCatalog looks courses up by approximate and exact title
type CourseCatalog interface {
	ResolveCourseName(ctx context.Context, name string) (string, bool)
	GetCourse(ctx context.Context, title string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]string, error)
}

// OutlineTool describes the structure of a course
type OutlineTool struct {
	catalog CourseCatalog
}

// NewOutlineTool creates an outline tool over catalog
func NewOutlineTool(catalog CourseCatalog) *OutlineTool {
	return &OutlineTool{catalog: catalog}
}

// Definition returns the tool schema
func (t *OutlineTool) Definition() mcp.Tool {
	return mcp.Tool{
		Name:        OutlineToolName,
		Description: "Get the complete outline of a course including all lesson numbers and titles",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"course_title": map[string]interface{}{
					"type":        "string",
					"description": "The course title to get the outline for (partial matches work)",
				},
			},
			Required: []string{"course_title"},
		},
	}
}

// Execute resolves the course and formats its outline
func (t *OutlineTool) Execute(ctx context.Context, args map[string]any) (Result, error) {
	name, ok := StringArg(args, "course_title")
	if !ok {
		return Result{}, errors.New("course_title argument is required and must be a string")
	}

	title, found := t.catalog.ResolveCourseName(ctx, name)
	if !found {
		titles, err := t.catalog.ListCourses(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("listing courses: %w", err)
		}
		return TextResult(fmt.Sprintf("No course found matching '%s'. Available courses: %s", name, strings.Join(titles, ", "))), nil
	}

	course, err := t.catalog.GetCourse(ctx, title)
	if err != nil {
		return Result{}, fmt.Errorf("retrieving course outline: %w", err)
	}
	if course == nil {
		return TextResult(fmt.Sprintf("No course found matching '%s'.", name)), nil
	}

	content, sources := FormatOutline(course)
	return Result{Content: content, Sources: sources, TrackSources: true}, nil
}

// FormatOutline renders a course outline and cites the course plus each linked lesson
func FormatOutline(c *models.Course) (string, []models.SourceCitation) {
	var b strings.Builder
	fmt.Fprintf(&b, "**Course Title:** %s\n", c.Title)
	if c.CourseLink != "" {
		fmt.Fprintf(&b, "**Course Link:** %s\n", c.CourseLink)
	}
	if c.Instructor != "" {
		fmt.Fprintf(&b, "**Instructor:** %s\n", c.Instructor)
	}
	fmt.Fprintf(&b, "**Number of Lessons:** %d\n\n**Course Outline:**\n", len(c.Lessons))

	if missing := c.MissingLessons(); len(missing) > 0 {
		fmt.Fprintf(&b, "*Note: Missing lessons: %v*\n\n", missing)
	}

	lessons := c.SortedLessons()
	sources := []models.SourceCitation{models.NewSourceCitation(c.Title+" - Course Outline", c.CourseLink)}
	if len(lessons) == 0 {
		b.WriteString("- No lessons found")
	}
	for i, l := range lessons {
		if l.Link != "" {
			fmt.Fprintf(&b, "- Lesson %d: %s - [%s](%s)", l.Number, l.Title, l.Link, l.Link)
			sources = append(sources, models.NewSourceCitation(fmt.Sprintf("Lesson %d: %s", l.Number, l.Title), l.Link))
		} else {
			fmt.Fprintf(&b, "- Lesson %d: %s", l.Number, l.Title)
		}
		if i < len(lessons)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), sources
}
