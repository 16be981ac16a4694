// ABOUTME: Tests for the course content search tool
// ABOUTME: Verifies formatting, empty and error results, citations, and argument handling
package tools

import (
	"context"
	"testing"

	"github.com/harper/coursemate/internal/models"
	"github.com/harper/coursemate/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	result models.SearchResult
	got    storage.SearchQuery
	calls  int
}

func (f *fakeSearcher) Search(ctx context.Context, q storage.SearchQuery) models.SearchResult {
	f.calls++
	f.got = q
	return f.result
}

func mcpHits() []models.SearchHit {
	return []models.SearchHit{
		{
			Content:      "Servers expose tools.",
			CourseTitle:  "Intro to MCP",
			LessonNumber: models.IntPtr(1),
			LessonLink:   "https://example.com/mcp/1",
			CourseLink:   "https://example.com/mcp",
		},
		{
			Content:     "Notes without lessons.",
			CourseTitle: "Loose Notes",
			CourseLink:  "https://example.com/notes",
		},
		{
			Content:      "Clients connect.",
			CourseTitle:  "Intro to MCP",
			LessonNumber: models.IntPtr(2),
		},
	}
}

func TestSearchTool_Definition(t *testing.T) {
	def := NewSearchTool(&fakeSearcher{}).Definition()
	assert.Equal(t, SearchToolName, def.Name)
	assert.Equal(t, []string{"query"}, def.InputSchema.Required)
	assert.Contains(t, def.InputSchema.Properties, "course_name")
	lesson, ok := def.InputSchema.Properties["lesson_number"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "integer", lesson["type"])
}

func TestSearchTool_FormatsHitsAndCites(t *testing.T) {
	searcher := &fakeSearcher{result: models.SearchResult{Hits: mcpHits()}}
	tool := NewSearchTool(searcher)

	res, err := tool.Execute(context.Background(), map[string]any{
		"query":         "what do servers do",
		"course_name":   "MCP",
		"lesson_number": float64(1),
	})
	require.NoError(t, err)

	assert.Equal(t, "what do servers do", searcher.got.Query)
	assert.Equal(t, "MCP", searcher.got.CourseName)
	require.NotNil(t, searcher.got.LessonNumber)
	assert.Equal(t, 1, *searcher.got.LessonNumber)

	want := "[Intro to MCP - Lesson 1]\nServers expose tools.\n\n" +
		"[Loose Notes]\nNotes without lessons.\n\n" +
		"[Intro to MCP - Lesson 2]\nClients connect."
	assert.Equal(t, want, res.Content)

	assert.True(t, res.TrackSources)
	require.Len(t, res.Sources, 3)
	assert.Equal(t, "Intro to MCP - Lesson 1", res.Sources[0].Text)
	assert.Equal(t, "https://example.com/mcp/1", res.Sources[0].Link())
	// No lesson falls back to the course link
	assert.Equal(t, "Loose Notes", res.Sources[1].Text)
	assert.Equal(t, "https://example.com/notes", res.Sources[1].Link())
	// No links at all leaves the URL absent
	assert.Nil(t, res.Sources[2].URL)
}

func TestSearchTool_EmptyEchoesFilters(t *testing.T) {
	tool := NewSearchTool(&fakeSearcher{})

	res, err := tool.Execute(context.Background(), map[string]any{"query": "x", "course_name": "MCP", "lesson_number": float64(0)})
	require.NoError(t, err)
	assert.Equal(t, "No relevant content found in course 'MCP' in lesson 0.", res.Content)
	assert.True(t, res.TrackSources)
	assert.Empty(t, res.Sources)

	res, err = tool.Execute(context.Background(), map[string]any{"query": "x"})
	require.NoError(t, err)
	assert.Equal(t, "No relevant content found.", res.Content)
}

func TestSearchTool_ErrorVerbatim(t *testing.T) {
	tool := NewSearchTool(&fakeSearcher{result: models.NewSearchError("No course found matching 'Basket Weaving'")})

	res, err := tool.Execute(context.Background(), map[string]any{"query": "x", "course_name": "Basket Weaving"})
	require.NoError(t, err)
	assert.Equal(t, "No course found matching 'Basket Weaving'", res.Content)
	assert.False(t, res.TrackSources)
}

func TestSearchTool_BadArguments(t *testing.T) {
	searcher := &fakeSearcher{}
	tool := NewSearchTool(searcher)

	_, err := tool.Execute(context.Background(), map[string]any{})
	assert.Error(t, err)

	_, err = tool.Execute(context.Background(), map[string]any{"query": "x", "lesson_number": "first"})
	assert.Error(t, err)
	assert.Zero(t, searcher.calls)
}

func TestSearchTool_ThroughExecution(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewSearchTool(&fakeSearcher{result: models.SearchResult{Hits: mcpHits()[:1]}})))

	exec := r.NewExecution()
	out, err := exec.Execute(context.Background(), SearchToolName, map[string]any{"query": "servers"})
	require.NoError(t, err)
	assert.Contains(t, out, "[Intro to MCP - Lesson 1]")

	sources := exec.CollectSources()
	require.Len(t, sources, 1)
	assert.Equal(t, "Intro to MCP - Lesson 1", sources[0].Text)
}
