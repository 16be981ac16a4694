// ABOUTME: DocumentProcessor parses course documents into a Course and its retrieval chunks
// ABOUTME: Implements header parsing, lesson splitting, and sentence-aware overlapping chunking
package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harper/coursemate/internal/models"
)

var (
	// ErrMissingTitle is returned when a document has no "Course Title:" header
	ErrMissingTitle = errors.New("missing course title")
	// ErrEmptyDocument is returned for documents with no text
	ErrEmptyDocument = errors.New("empty document")
)

// ParseError reports a document that could not be turned into a course
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse document: %v", e.Err)
	}
	return fmt.Sprintf("parse document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	headerPattern     = regexp.MustCompile(`(?i)^course\s+(title|link|instructor)\s*:\s*(.*)$`)
	lessonPattern     = regexp.MustCompile(`(?i)^lesson\s+(\d+)\s*:\s*(.*)$`)
	lessonLinkPattern = regexp.MustCompile(`(?i)^lesson\s+link\s*:\s*(.*)$`)
)

// ParsedDocument is a course document read from disk
type ParsedDocument struct {
	Path   string
	Hash   string
	Course *models.Course
	Chunks []models.CourseChunk
}

// DocumentProcessor turns raw course text into a Course plus chunks
type DocumentProcessor struct {
	chunkSize    int
	chunkOverlap int
}

// NewDocumentProcessor creates a processor. Overlap is clamped to [0, chunkSize).
func NewDocumentProcessor(chunkSize, chunkOverlap int) *DocumentProcessor {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize - 1
	}
	return &DocumentProcessor{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// ProcessFile reads and parses a course document
func (p *DocumentProcessor) ProcessFile(path string) (*ParsedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	course, chunks, err := p.ProcessDocument(string(data))
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}

	sum := sha256.Sum256(data)
	return &ParsedDocument{
		Path:   path,
		Hash:   hex.EncodeToString(sum[:]),
		Course: course,
		Chunks: chunks,
	}, nil
}

type lessonSection struct {
	lesson models.Lesson
	body   []string
}

// ProcessDocument parses document text. A missing title yields a *ParseError wrapping ErrMissingTitle.
func (p *DocumentProcessor) ProcessDocument(text string) (*models.Course, []models.CourseChunk, error) {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, nil, &ParseError{Err: ErrEmptyDocument}
	}

	lines := strings.Split(text, "\n")
	course := &models.Course{}

	// Header: labelled lines before the first lesson marker
	i := 0
	var preamble []string
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if lessonPattern.MatchString(line) {
			break
		}
		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			if line != "" {
				preamble = append(preamble, line)
			}
			continue
		}
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "title":
			course.Title = value
		case "link":
			course.CourseLink = value
		case "instructor":
			course.Instructor = value
		}
	}

	if course.Title == "" {
		return nil, nil, &ParseError{Err: ErrMissingTitle}
	}

	// Lessons in document order; each runs until the next marker
	var sections []*lessonSection
	var current *lessonSection
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if m := lessonPattern.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, nil, &ParseError{Err: fmt.Errorf("invalid lesson number %q: %w", m[1], err)}
			}
			current = &lessonSection{lesson: models.Lesson{Number: n, Title: strings.TrimSpace(m[2])}}
			sections = append(sections, current)

			// Optional link on the next non-blank line
			for j := i + 1; j < len(lines); j++ {
				next := strings.TrimSpace(lines[j])
				if next == "" {
					continue
				}
				if lm := lessonLinkPattern.FindStringSubmatch(next); lm != nil {
					current.lesson.Link = strings.TrimSpace(lm[1])
					i = j
				}
				break
			}
			continue
		}
		current.body = append(current.body, lines[i])
	}

	var chunks []models.CourseChunk
	index := 0

	if len(sections) == 0 {
		// No lesson markers: the body is one lesson-less section
		prefix := fmt.Sprintf("Course %s content: ", course.Title)
		for _, piece := range p.ChunkText(strings.Join(preamble, "\n"), prefix) {
			chunks = append(chunks, models.CourseChunk{CourseTitle: course.Title, ChunkIndex: index, Content: piece})
			index++
		}
		return course, chunks, nil
	}

	for _, s := range sections {
		s.lesson.Content = strings.TrimSpace(strings.Join(s.body, "\n"))
		course.Lessons = append(course.Lessons, s.lesson)

		prefix := fmt.Sprintf("Course %s Lesson %d content: ", course.Title, s.lesson.Number)
		for _, piece := range p.ChunkText(s.lesson.Content, prefix) {
			chunks = append(chunks, models.CourseChunk{
				CourseTitle:  course.Title,
				LessonNumber: models.IntPtr(s.lesson.Number),
				ChunkIndex:   index,
				Content:      piece,
			})
			index++
		}
	}

	if err := course.Validate(); err != nil {
		return nil, nil, &ParseError{Err: err}
	}
	return course, chunks, nil
}

// ChunkText splits text into overlapping chunks no longer than the chunk size.
// prefix is prepended to the first chunk and counted against its budget; it is
// dropped when it would leave no more room than the overlap.
func (p *DocumentProcessor) ChunkText(text string, prefix string) []string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) == 0 {
		return nil
	}

	size, overlap := p.chunkSize, p.chunkOverlap
	prefixLen := utf8.RuneCountInString(prefix)
	if prefixLen >= size-overlap {
		prefix, prefixLen = "", 0
	}

	ends := sentenceEnds(runes)

	var chunks []string
	start, prevEnd := 0, 0
	first := true
	for {
		budget := size
		if first {
			budget = size - prefixLen
		}

		if len(runes)-start <= budget {
			chunks = append(chunks, withPrefix(first, prefix, runes[start:]))
			break
		}

		// Every chunk must reach past the previous one, otherwise it adds no text
		limit := start + budget
		end := cutPoint(runes, ends, max(start+overlap, prevEnd), limit)
		chunks = append(chunks, withPrefix(first, prefix, runes[start:end]))

		start, prevEnd = nextStart(runes, start, end, overlap, size), end
		first = false
	}
	return chunks
}

func withPrefix(first bool, prefix string, body []rune) string {
	if first {
		return prefix + string(body)
	}
	return string(body)
}

// cutPoint picks where a chunk ends, preferring the last sentence end, then the
// last space, then a hard cut. The result is always in (lo, limit].
func cutPoint(runes []rune, ends []int, lo, limit int) int {
	for k := len(ends) - 1; k >= 0; k-- {
		if ends[k] <= limit && ends[k] > lo {
			return ends[k]
		}
		if ends[k] <= lo {
			break
		}
	}
	for s := limit; s > lo; s-- {
		if s < len(runes) && runes[s] == ' ' {
			return s
		}
	}
	return limit
}

// nextStart backs up from end so at least overlap runes are repeated, snapping to a
// word start. The snap never reaches before the previous start or so far back that
// the next chunk could not extend past end. Only a word longer than that window
// forces a mid-word start.
func nextStart(runes []rune, start, end, overlap, size int) int {
	if overlap == 0 {
		next := end
		for next < len(runes) && runes[next] == ' ' {
			next++
		}
		return next
	}

	next := end - overlap
	for next > start && end-(next-1) < size && runes[next-1] != ' ' {
		next--
	}
	if next > start && runes[next-1] == ' ' {
		return next
	}
	return end - overlap
}

// sentenceEnds returns the exclusive end offsets of sentences: . ? or ! followed by
// a space and an uppercase letter, skipping abbreviations such as "Dr." and "e.g."
func sentenceEnds(runes []rune) []int {
	var ends []int
	for i := 0; i+2 < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		if runes[i+1] != ' ' || !unicode.IsUpper(runes[i+2]) {
			continue
		}
		if r == '.' && isAbbreviation(runes, i) {
			continue
		}
		ends = append(ends, i+1)
	}
	return ends
}

var titleAbbreviations = map[string]bool{"Mrs": true, "Prof": true, "Sr": true, "Jr": true, "vs": true, "etc": true}

// isAbbreviation reports whether the period at dot closes an abbreviation
func isAbbreviation(runes []rune, dot int) bool {
	w := dot
	for w > 0 && runes[w-1] != ' ' {
		w--
	}
	word := runes[w:dot]

	switch {
	case len(word) == 0:
		return false
	case len(word) == 1 && unicode.IsLetter(word[0]):
		// Initials such as "J. Smith"
		return true
	case len(word) == 2 && unicode.IsUpper(word[0]) && unicode.IsLower(word[1]):
		// Dr. Mr. Ms. St.
		return true
	case strings.ContainsRune(string(word), '.'):
		// e.g. i.e. U.S.
		return true
	}
	return titleAbbreviations[string(word)]
}
