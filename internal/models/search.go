// ABOUTME: Search result models returned by the vector store facade
// ABOUTME: A SearchResult carries either ranked hits or an error message, never both
package models

// SearchHit is one ranked chunk returned by a content search
type SearchHit struct {
	Content      string  `json:"content"`
	CourseTitle  string  `json:"course_title"`
	LessonNumber *int    `json:"lesson_number,omitempty"`
	Score        float64 `json:"score"`
	LessonLink   string  `json:"lesson_link,omitempty"`
	CourseLink   string  `json:"course_link,omitempty"`
}

// SearchResult holds ranked hits, or an error message when the search failed
type SearchResult struct {
	Hits  []SearchHit `json:"hits,omitempty"`
	Error string      `json:"error,omitempty"`
}

// NewSearchError builds an error result with no hits
func NewSearchError(msg string) SearchResult {
	return SearchResult{Error: msg}
}

// IsEmpty reports whether the result has no hits
func (r SearchResult) IsEmpty() bool {
	return len(r.Hits) == 0
}

// Failed reports whether the result carries an error
func (r SearchResult) Failed() bool {
	return r.Error != ""
}
