// ABOUTME: Course content search exposed to the language model
// ABOUTME: Formats ranked chunks as labeled blocks and cites one source per chunk
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/coursemate/internal/models"
	"github.com/harper/coursemate/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchToolName is the name the model uses to call the search tool
const SearchToolName = "search_course_content"

// ContentSearcher runs filtered content searches
type ContentSearcher interface {
	Search(ctx context.Context, q storage.SearchQuery) models.SearchResult
}

// SearchTool searches course content with fuzzy course names and lesson filters
type SearchTool struct {
	store ContentSearcher
}

// NewSearchTool creates a search tool over store
func NewSearchTool(store ContentSearcher) *SearchTool {
	return &SearchTool{store: store}
}

// Definition returns the tool schema
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.Tool{
		Name:        SearchToolName,
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "What to search for in the course content",
				},
				"course_name": map[string]interface{}{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": map[string]interface{}{
					"type":        "integer",
					"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Execute runs the search. Facade errors come back as content without touching citations.
func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (Result, error) {
	query, ok := StringArg(args, "query")
	if !ok {
		return Result{}, errors.New("query argument is required and must be a string")
	}
	courseName, _ := StringArg(args, "course_name")
	lesson, err := IntArg(args, "lesson_number")
	if err != nil {
		return Result{}, err
	}

	res := t.store.Search(ctx, storage.SearchQuery{
		Query:        query,
		CourseName:   courseName,
		LessonNumber: lesson,
	})

	if res.Failed() {
		return TextResult(res.Error), nil
	}

	if res.IsEmpty() {
		var filterInfo string
		if courseName != "" {
			filterInfo += fmt.Sprintf(" in course '%s'", courseName)
		}
		if lesson != nil {
			filterInfo += fmt.Sprintf(" in lesson %d", *lesson)
		}
		return Result{
			Content:      fmt.Sprintf("No relevant content found%s.", filterInfo),
			Sources:      []models.SourceCitation{},
			TrackSources: true,
		}, nil
	}

	content, sources := FormatHits(res.Hits)
	return Result{Content: content, Sources: sources, TrackSources: true}, nil
}

// FormatHits renders hits as "[Course - Lesson N]" blocks and builds one citation per hit
func FormatHits(hits []models.SearchHit) (string, []models.SourceCitation) {
	blocks := make([]string, 0, len(hits))
	sources := make([]models.SourceCitation, 0, len(hits))

	for _, h := range hits {
		label := HitLabel(h)
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", label, h.Content))

		link := h.CourseLink
		if h.LessonNumber != nil && h.LessonLink != "" {
			link = h.LessonLink
		}
		sources = append(sources, models.NewSourceCitation(label, link))
	}
	return strings.Join(blocks, "\n\n"), sources
}

// HitLabel is "Course - Lesson N", or the course title when the hit has no lesson
func HitLabel(h models.SearchHit) string {
	if h.LessonNumber == nil {
		return h.CourseTitle
	}
	return fmt.Sprintf("%s - Lesson %d", h.CourseTitle, *h.LessonNumber)
}
