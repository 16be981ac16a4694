// ABOUTME: CourseChunk is the unit of semantic retrieval derived from lesson text
// ABOUTME: Chunks are regenerated wholesale when their course is re-ingested
package models

import "fmt"

// CourseChunk represents a bounded span of lesson text stored for embedding
type CourseChunk struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
	Content      string `json:"content"`
}

// ID returns the stable identifier of the chunk within the content collection
func (c CourseChunk) ID() string {
	return fmt.Sprintf("%s_%d", c.CourseTitle, c.ChunkIndex)
}

// IntPtr returns a pointer to n, for optional lesson numbers
func IntPtr(n int) *int {
	return &n
}
