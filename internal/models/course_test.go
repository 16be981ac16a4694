// ABOUTME: Tests for Course and Lesson models
// ABOUTME: Verifies validation, lesson lookup, ordering and gap detection
package models

import (
	"reflect"
	"testing"
)

func TestCourse_Validate(t *testing.T) {
	tests := []struct {
		name    string
		course  Course
		wantErr bool
	}{
		{
			name:   "valid course",
			course: Course{Title: "Intro to MCP", Lessons: []Lesson{{Number: 0}, {Number: 1}}},
		},
		{
			name:    "empty title",
			course:  Course{Title: "  "},
			wantErr: true,
		},
		{
			name:    "duplicate lesson numbers",
			course:  Course{Title: "Dup", Lessons: []Lesson{{Number: 1}, {Number: 1}}},
			wantErr: true,
		},
		{
			name:   "no lessons",
			course: Course{Title: "Bare"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.course.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCourse_Lesson(t *testing.T) {
	c := Course{Title: "T", Lessons: []Lesson{{Number: 2, Title: "Two"}, {Number: 5, Title: "Five"}}}

	l, ok := c.Lesson(5)
	if !ok {
		t.Fatal("Lesson(5) not found")
	}
	if l.Title != "Five" {
		t.Errorf("Lesson(5).Title = %q, want Five", l.Title)
	}

	if _, ok := c.Lesson(3); ok {
		t.Error("Lesson(3) should not be found")
	}
}

func TestCourse_SortedLessons(t *testing.T) {
	c := Course{Lessons: []Lesson{{Number: 3}, {Number: 1}, {Number: 2}}}

	sorted := c.SortedLessons()
	got := []int{sorted[0].Number, sorted[1].Number, sorted[2].Number}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("SortedLessons() = %v, want [1 2 3]", got)
	}

	// Original order untouched
	if c.Lessons[0].Number != 3 {
		t.Error("SortedLessons() should not reorder the course lessons")
	}
}

func TestCourse_MissingLessons(t *testing.T) {
	tests := []struct {
		name    string
		lessons []Lesson
		want    []int
	}{
		{"no lessons", nil, nil},
		{"contiguous", []Lesson{{Number: 0}, {Number: 1}, {Number: 2}}, nil},
		{"gap", []Lesson{{Number: 0}, {Number: 3}}, []int{1, 2}},
		{"unordered gap", []Lesson{{Number: 4}, {Number: 1}, {Number: 2}}, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Course{Title: "T", Lessons: tt.lessons}
			got := c.MissingLessons()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingLessons() = %v, want %v", got, tt.want)
			}
		})
	}
}
