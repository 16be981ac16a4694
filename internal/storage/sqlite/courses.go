// ABOUTME: Course catalog storage operations for SQLite
// ABOUTME: Upserts courses with lessons and title embeddings, and looks them up by title or source
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harper/coursemate/internal/models"
)

// CourseRecord is a stored course plus the bookkeeping used for re-ingestion
type CourseRecord struct {
	Course     models.Course
	SourcePath string
	SourceHash string
}

// TitleVector pairs a course title with its embedding
type TitleVector struct {
	Title  string
	Vector []float64
}

// CourseStore handles course catalog persistence
type CourseStore struct {
	db *DB
}

// NewCourseStore creates a new CourseStore
func NewCourseStore(db *DB) *CourseStore {
	return &CourseStore{db: db}
}

// Save replaces any course with the same title. Lessons and chunks of the
// previous version are removed by cascade.
func (s *CourseStore) Save(ctx context.Context, rec CourseRecord, titleVector []float64) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return saveCourse(ctx, tx, rec, titleVector)
	})
}

// Replace swaps in a course together with its full chunk set in one transaction,
// so concurrent re-ingestion of the same title never mixes chunks of two versions.
func (s *CourseStore) Replace(ctx context.Context, rec CourseRecord, titleVector []float64, chunks []models.CourseChunk, chunkVectors [][]float64) error {
	if len(chunks) != len(chunkVectors) {
		return fmt.Errorf("got %d vectors for %d chunks", len(chunkVectors), len(chunks))
	}
	for _, c := range chunks {
		if c.CourseTitle != rec.Course.Title {
			return fmt.Errorf("chunk %s does not belong to course %q", c.ID(), rec.Course.Title)
		}
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := saveCourse(ctx, tx, rec, titleVector); err != nil {
			return err
		}
		return saveChunks(ctx, tx, chunks, chunkVectors)
	})
}

func saveCourse(ctx context.Context, tx *sql.Tx, rec CourseRecord, titleVector []float64) error {
	c := rec.Course
	if _, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE title = ?", c.Title); err != nil {
		return fmt.Errorf("delete previous course: %w", err)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO courses (title, course_link, instructor, source_path, source_hash, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.Title, c.CourseLink, c.Instructor, rec.SourcePath, rec.SourceHash, vectorToBlob(titleVector))
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}

	for _, l := range c.Lessons {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lessons (course_title, lesson_number, title, link)
			VALUES (?, ?, ?, ?)
		`, c.Title, l.Number, l.Title, l.Link)
		if err != nil {
			return fmt.Errorf("insert lesson %d: %w", l.Number, err)
		}
	}
	return nil
}

// Get retrieves a course and its lessons by exact title. Returns nil when absent.
func (s *CourseStore) Get(ctx context.Context, title string) (*CourseRecord, error) {
	var rec CourseRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT title, course_link, instructor, source_path, source_hash
		FROM courses
		WHERE title = ?
	`, title).Scan(&rec.Course.Title, &rec.Course.CourseLink, &rec.Course.Instructor, &rec.SourcePath, &rec.SourceHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT lesson_number, title, link
		FROM lessons
		WHERE course_title = ?
		ORDER BY lesson_number ASC
	`, title)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.Number, &l.Title, &l.Link); err != nil {
			return nil, err
		}
		rec.Course.Lessons = append(rec.Course.Lessons, l)
	}
	return &rec, rows.Err()
}

// Titles returns all course titles in alphabetical order
func (s *CourseStore) Titles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title FROM courses ORDER BY title ASC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// TitleVectors returns every course title with its stored embedding
func (s *CourseStore) TitleVectors(ctx context.Context) ([]TitleVector, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title, embedding FROM courses WHERE embedding IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []TitleVector
	for rows.Next() {
		var (
			tv   TitleVector
			blob []byte
		)
		if err := rows.Scan(&tv.Title, &blob); err != nil {
			return nil, err
		}
		tv.Vector = blobToVector(blob)
		out = append(out, tv)
	}
	return out, rows.Err()
}

// TitlesBySource returns the titles of courses ingested from path
func (s *CourseStore) TitlesBySource(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title FROM courses WHERE source_path = ?", path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Delete removes a course with its lessons and chunks. Reports whether a row was removed.
func (s *CourseStore) Delete(ctx context.Context, title string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM courses WHERE title = ?", title)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll removes every course, lesson, and chunk
func (s *CourseStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM courses")
	return err
}

// Count returns the number of stored courses
func (s *CourseStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses").Scan(&n)
	return n, err
}
