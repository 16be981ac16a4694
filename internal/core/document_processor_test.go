// ABOUTME: Tests for DocumentProcessor parsing and chunking
// ABOUTME: Verifies headers, lesson splitting, chunk bounds, overlap, and determinism
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

const mcpDocument = `Course Title: Intro to MCP
Course Link: https://example.com/mcp
Course Instructor: Ada Lovelace

Lesson 0: Welcome
Lesson Link: https://example.com/mcp/0
Welcome to the course. We will cover the Model Context Protocol from the ground up.

Lesson 1: Servers
Lesson Link: https://example.com/mcp/1
MCP servers expose tools, resources, and prompts. Clients discover them at runtime.
`

func TestProcessDocument_ParsesHeaderAndLessons(t *testing.T) {
	p := NewDocumentProcessor(800, 100)

	course, chunks, err := p.ProcessDocument(mcpDocument)
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}

	if course.Title != "Intro to MCP" {
		t.Errorf("Title = %q, want Intro to MCP", course.Title)
	}
	if course.CourseLink != "https://example.com/mcp" {
		t.Errorf("CourseLink = %q", course.CourseLink)
	}
	if course.Instructor != "Ada Lovelace" {
		t.Errorf("Instructor = %q", course.Instructor)
	}
	if len(course.Lessons) != 2 {
		t.Fatalf("Lessons = %d, want 2", len(course.Lessons))
	}
	if course.Lessons[1].Title != "Servers" || course.Lessons[1].Link != "https://example.com/mcp/1" {
		t.Errorf("Lesson 1 = %+v", course.Lessons[1])
	}
	if strings.Contains(course.Lessons[0].Content, "Lesson Link") {
		t.Errorf("lesson content kept the link line: %q", course.Lessons[0].Content)
	}

	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.LessonNumber == nil || *c.LessonNumber != i {
			t.Errorf("chunk %d lesson = %v, want %d", i, c.LessonNumber, i)
		}
	}
	wantPrefix := "Course Intro to MCP Lesson 1 content: MCP servers expose tools"
	if !strings.HasPrefix(chunks[1].Content, wantPrefix) {
		t.Errorf("chunk 1 = %q, want prefix %q", chunks[1].Content, wantPrefix)
	}
}

func TestProcessDocument_MissingTitle(t *testing.T) {
	p := NewDocumentProcessor(800, 100)

	_, _, err := p.ProcessDocument("Course Link: https://example.com\n\nLesson 0: Intro\nText.")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if !errors.Is(err, ErrMissingTitle) {
		t.Errorf("err = %v, want ErrMissingTitle", err)
	}
}

func TestProcessDocument_Empty(t *testing.T) {
	_, _, err := NewDocumentProcessor(800, 100).ProcessDocument("  \n\n ")
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestProcessDocument_DuplicateLessonNumbers(t *testing.T) {
	doc := "Course Title: Dupes\n\nLesson 1: A\nText one.\n\nLesson 1: B\nText two."
	_, _, err := NewDocumentProcessor(800, 100).ProcessDocument(doc)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("err = %v, want *ParseError", err)
	}
}

func TestProcessDocument_NoLessonMarkers(t *testing.T) {
	doc := "Course Title: Loose Notes\nCourse Instructor: Someone\n\nJust some notes. Nothing structured here."
	course, chunks, err := NewDocumentProcessor(800, 100).ProcessDocument(doc)
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	if len(course.Lessons) != 0 {
		t.Errorf("Lessons = %d, want 0", len(course.Lessons))
	}
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0].LessonNumber != nil {
		t.Errorf("LessonNumber = %v, want nil", *chunks[0].LessonNumber)
	}
	if !strings.Contains(chunks[0].Content, "Just some notes.") {
		t.Errorf("chunk = %q", chunks[0].Content)
	}
}

func TestProcessDocument_ChunkIndexAcrossLessons(t *testing.T) {
	body := longText(40)
	doc := fmt.Sprintf("Course Title: Long\n\nLesson 1: One\n%s\n\nLesson 2: Two\n%s", body, body)

	_, chunks, err := NewDocumentProcessor(300, 50).ProcessDocument(doc)
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	if len(chunks) < 4 {
		t.Fatalf("chunks = %d, want several per lesson", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
	}
}

func TestProcessFile_SetsPathAndHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp.txt")
	if err := os.WriteFile(path, []byte(mcpDocument), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := NewDocumentProcessor(800, 100).ProcessFile(path)
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if doc.Path != path || len(doc.Hash) != 64 {
		t.Errorf("doc = %s/%s", doc.Path, doc.Hash)
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("no header here"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = NewDocumentProcessor(800, 100).ProcessFile(bad)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Path != bad {
		t.Errorf("err = %v, want *ParseError with path", err)
	}
}

func longText(sentences int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&b, "Sentence number %d talks about protocol design and tool calling in detail. ", i)
	}
	return b.String()
}

// sharedOverlap returns the longest suffix of prev that is also a prefix of next
func sharedOverlap(prev, next string) int {
	p, n := []rune(prev), []rune(next)
	for k := min(len(p), len(n)); k > 0; k-- {
		if string(p[len(p)-k:]) == string(n[:k]) {
			return k
		}
	}
	return 0
}

func TestChunkText_BoundsOverlapDeterminism(t *testing.T) {
	inputs := map[string]string{
		"sentences":     longText(60),
		"no boundaries": strings.Repeat("lowercase words without any sentence end ", 80),
		"one long word": strings.Repeat("x", 2500),
		"abbreviations": strings.Repeat("Dr. Smith met Mr. Jones, e.g. at noon. The U.S. team won. ", 40),
		"unicode":       strings.Repeat("Größe ändert sich schnell. Überall gibt es Änderungen! ", 50),
	}
	configs := []struct{ size, overlap int }{{800, 100}, {300, 50}, {120, 0}, {100, 99}}

	for name, text := range inputs {
		for _, cfg := range configs {
			t.Run(fmt.Sprintf("%s/%d-%d", name, cfg.size, cfg.overlap), func(t *testing.T) {
				p := NewDocumentProcessor(cfg.size, cfg.overlap)
				prefix := "Course Demo Lesson 1 content: "

				chunks := p.ChunkText(text, prefix)
				if len(chunks) == 0 {
					t.Fatal("no chunks produced")
				}

				for i, c := range chunks {
					if n := utf8.RuneCountInString(c); n > cfg.size {
						t.Errorf("chunk %d length %d exceeds %d", i, n, cfg.size)
					}
				}

				for i := 1; i < len(chunks); i++ {
					prev := strings.TrimPrefix(chunks[i-1], prefix)
					if got := sharedOverlap(prev, chunks[i]); got < cfg.overlap {
						t.Errorf("chunks %d/%d share %d runes, want >= %d", i-1, i, got, cfg.overlap)
					}
				}

				again := p.ChunkText(text, prefix)
				if fmt.Sprint(again) != fmt.Sprint(chunks) {
					t.Error("chunking is not deterministic")
				}
			})
		}
	}
}

func TestChunkText_EveryChunkAddsNewText(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&b, "Sentence %d explains how a client discovers the tools a server exposes and when it should call them. ", i)
	}
	b.WriteString("The walkthrough then covers")
	for i := 0; i < 135; i++ {
		fmt.Fprintf(&b, " step%03d", i)
	}
	b.WriteString(" before it ends.")
	text := b.String()

	p := NewDocumentProcessor(800, 100)
	prefix := "Course Intro to MCP Lesson 1 content: "
	chunks := p.ChunkText(text, prefix)
	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want at least 2", len(chunks))
	}

	prevEnd := 0
	for i, c := range chunks {
		body := strings.TrimPrefix(c, prefix)
		at := strings.Index(text, body)
		if at < 0 {
			t.Fatalf("chunk %d not found in source text: %q", i, body)
		}
		if end := at + len(body); end <= prevEnd {
			t.Errorf("chunk %d ends at %d, previous chunk already reached %d", i, end, prevEnd)
		} else {
			prevEnd = end
		}
		if i > 0 && text[at-1] != ' ' {
			t.Errorf("chunk %d starts mid-word: %q", i, body[:min(20, len(body))])
		}
	}
	if prevEnd != len(text) {
		t.Errorf("chunks cover %d of %d bytes", prevEnd, len(text))
	}
}

func TestChunkText_PrefixOnFirstChunkOnly(t *testing.T) {
	p := NewDocumentProcessor(200, 20)
	prefix := "Course Demo Lesson 3 content: "

	chunks := p.ChunkText(longText(20), prefix)
	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want at least 2", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], prefix) {
		t.Errorf("first chunk missing prefix: %q", chunks[0])
	}
	for i, c := range chunks[1:] {
		if strings.HasPrefix(c, prefix) {
			t.Errorf("chunk %d unexpectedly has prefix", i+1)
		}
	}
}

func TestChunkText_PrefixDroppedWhenTooLong(t *testing.T) {
	p := NewDocumentProcessor(50, 10)
	prefix := strings.Repeat("p", 45)

	chunks := p.ChunkText("Short body text here.", prefix)
	if len(chunks) != 1 || chunks[0] != "Short body text here." {
		t.Errorf("chunks = %q", chunks)
	}
}

func TestChunkText_SplitsAtSentenceEnds(t *testing.T) {
	p := NewDocumentProcessor(60, 0)
	text := "First sentence is here. Second sentence follows now. Third one ends it."

	chunks := p.ChunkText(text, "")
	if len(chunks) < 2 {
		t.Fatalf("chunks = %q, want a split", chunks)
	}
	if !strings.HasSuffix(chunks[0], ".") {
		t.Errorf("first chunk %q should end at a sentence boundary", chunks[0])
	}
}

func TestChunkText_Empty(t *testing.T) {
	if chunks := NewDocumentProcessor(800, 100).ChunkText(" \n\t ", "prefix: "); chunks != nil {
		t.Errorf("chunks = %q, want nil", chunks)
	}
}

func TestSentenceEnds_SkipsAbbreviations(t *testing.T) {
	text := []rune("Dr. Smith arrived. Then e.g. Items appeared. Pi is 3.14 roughly. Done")
	ends := sentenceEnds(text)

	var got []string
	start := 0
	for _, e := range ends {
		got = append(got, strings.TrimSpace(string(text[start:e])))
		start = e
	}
	want := []string{"Dr. Smith arrived.", "Then e.g. Items appeared.", "Pi is 3.14 roughly."}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("sentences = %q, want %q", got, want)
	}
}
