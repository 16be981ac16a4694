// ABOUTME: Course content chunk storage operations for SQLite
// ABOUTME: Stores chunk vectors and ranks them by cosine similarity with optional filters
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/harper/coursemate/internal/models"
)

// ChunkFilter narrows a similarity search. Zero values mean no filter.
type ChunkFilter struct {
	CourseTitle  string
	LessonNumber *int
}

// ChunkStore handles course content persistence
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// Save stores chunks with their vectors. vectors[i] belongs to chunks[i].
func (s *ChunkStore) Save(ctx context.Context, chunks []models.CourseChunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))
	}
	if len(chunks) == 0 {
		return nil
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return saveChunks(ctx, tx, chunks, vectors)
	})
}

func saveChunks(ctx context.Context, tx *sql.Tx, chunks []models.CourseChunk, vectors [][]float64) error {
	if len(chunks) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, course_title, lesson_number, chunk_index, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			lesson_number = excluded.lesson_number,
			content = excluded.content,
			embedding = excluded.embedding
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID(), c.CourseTitle, nullInt(c.LessonNumber), c.ChunkIndex, c.Content, vectorToBlob(vectors[i])); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID(), err)
		}
	}
	return nil
}

// Search ranks matching chunks by cosine similarity to queryVector, best first,
// and returns at most limit hits.
func (s *ChunkStore) Search(ctx context.Context, queryVector []float64, filter ChunkFilter, limit int) ([]models.SearchHit, error) {
	var (
		where []string
		args  []any
	)
	if filter.CourseTitle != "" {
		where = append(where, "c.course_title = ?")
		args = append(args, filter.CourseTitle)
	}
	if filter.LessonNumber != nil {
		where = append(where, "c.lesson_number = ?")
		args = append(args, *filter.LessonNumber)
	}

	query := `
		SELECT c.content, c.course_title, c.lesson_number, c.embedding,
		       COALESCE(l.link, ''), co.course_link
		FROM chunks c
		JOIN courses co ON co.title = c.course_title
		LEFT JOIN lessons l ON l.course_title = c.course_title AND l.lesson_number = c.lesson_number`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY c.course_title, c.chunk_index"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var hits []models.SearchHit
	for rows.Next() {
		var (
			hit    models.SearchHit
			lesson sql.NullInt64
			blob   []byte
		)
		if err := rows.Scan(&hit.Content, &hit.CourseTitle, &lesson, &blob, &hit.LessonLink, &hit.CourseLink); err != nil {
			return nil, err
		}
		if lesson.Valid {
			hit.LessonNumber = models.IntPtr(int(lesson.Int64))
		}
		hit.Score = CosineSimilarity(queryVector, blobToVector(blob))
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort by similarity descending; stable keeps document order for ties
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Count returns the number of stored chunks
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n)
	return n, err
}

// CountForCourse returns the number of chunks stored for a course
func (s *ChunkStore) CountForCourse(ctx context.Context, title string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE course_title = ?", title).Scan(&n)
	return n, err
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
