// ABOUTME: Course and Lesson represent one ingested course document
// ABOUTME: Title is the course identity; lessons are owned by their course
package models

import (
	"errors"
	"sort"
	"strings"
)

// Course represents a parsed course document
type Course struct {
	Title      string   `json:"title"`
	CourseLink string   `json:"course_link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// Lesson is a numbered section of a course
type Lesson struct {
	Number  int    `json:"lesson_number"`
	Title   string `json:"title"`
	Link    string `json:"lesson_link,omitempty"`
	Content string `json:"-"`
}

// Validate checks the course identity and lesson numbering
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("course title cannot be empty")
	}
	seen := make(map[int]bool, len(c.Lessons))
	for _, l := range c.Lessons {
		if seen[l.Number] {
			return errors.New("duplicate lesson number in course " + c.Title)
		}
		seen[l.Number] = true
	}
	return nil
}

// Lesson returns the lesson with the given number, if present
func (c *Course) Lesson(number int) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.Number == number {
			return l, true
		}
	}
	return Lesson{}, false
}

// SortedLessons returns a copy of the lessons ordered by lesson number
func (c *Course) SortedLessons() []Lesson {
	lessons := make([]Lesson, len(c.Lessons))
	copy(lessons, c.Lessons)
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Number < lessons[j].Number
	})
	return lessons
}

// MissingLessons reports gaps in the lesson numbering between the lowest and highest lesson
func (c *Course) MissingLessons() []int {
	if len(c.Lessons) == 0 {
		return nil
	}
	present := make(map[int]bool, len(c.Lessons))
	lo, hi := c.Lessons[0].Number, c.Lessons[0].Number
	for _, l := range c.Lessons {
		present[l.Number] = true
		if l.Number < lo {
			lo = l.Number
		}
		if l.Number > hi {
			hi = l.Number
		}
	}
	var missing []int
	for n := lo; n <= hi; n++ {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

// CourseAnalytics summarises the catalog
type CourseAnalytics struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}
