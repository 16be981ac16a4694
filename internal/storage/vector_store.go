// ABOUTME: Vector store facade over the SQLite course index
// ABOUTME: Embeds catalog titles and chunk text, resolves fuzzy course names, and runs filtered searches
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/internal/models"
	"github.com/harper/coursemate/internal/storage/sqlite"
)

// DefaultMaxResults is used when neither the query nor the store sets a limit
const DefaultMaxResults = 5

// DefaultCourseMatchThreshold is the minimum title similarity accepted for a fuzzy course name
const DefaultCourseMatchThreshold = 0.4

// Embedder turns text into vectors. ModelName identifies the vector space.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	ModelName() string
}

// SearchQuery describes one content search
type SearchQuery struct {
	Query        string
	CourseName   string
	LessonNumber *int
	Limit        int
}

// Options tunes the facade
type Options struct {
	MaxResults           int
	CourseMatchThreshold float64
}

// VectorStore keeps the course catalog and the chunk content in one database
type VectorStore struct {
	db        *sqlite.DB
	courses   *sqlite.CourseStore
	chunks    *sqlite.ChunkStore
	meta      *sqlite.MetaStore
	embedder  Embedder
	maxResult int
	threshold float64
}

// NewVectorStore wraps db with the given embedder. If the index was built with a
// different embedding model it is cleared, since its vectors are not comparable.
func NewVectorStore(ctx context.Context, db *sqlite.DB, embedder Embedder, opts Options) (*VectorStore, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.CourseMatchThreshold <= 0 {
		opts.CourseMatchThreshold = DefaultCourseMatchThreshold
	}

	vs := &VectorStore{
		db:        db,
		courses:   sqlite.NewCourseStore(db),
		chunks:    sqlite.NewChunkStore(db),
		meta:      sqlite.NewMetaStore(db),
		embedder:  embedder,
		maxResult: opts.MaxResults,
		threshold: opts.CourseMatchThreshold,
	}

	stored, err := vs.meta.Get(ctx, sqlite.MetaKeyEmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("reading index metadata: %w", err)
	}
	model := embedder.ModelName()
	if stored != "" && stored != model {
		log.Warn("embedding model changed, clearing course index", "was", stored, "now", model)
		if err := vs.courses.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("clearing stale index: %w", err)
		}
	}
	if stored != model {
		if err := vs.meta.Set(ctx, sqlite.MetaKeyEmbeddingModel, model); err != nil {
			return nil, fmt.Errorf("writing index metadata: %w", err)
		}
	}

	return vs, nil
}

// Close closes the underlying database
func (vs *VectorStore) Close() error {
	return vs.db.Close()
}

// AddCourse stores course metadata and its title embedding, replacing any
// course with the same title along with that course's chunks.
func (vs *VectorStore) AddCourse(ctx context.Context, course models.Course, sourcePath, sourceHash string) error {
	vectors, err := vs.embedder.Embed(ctx, []string{course.Title})
	if err != nil {
		return fmt.Errorf("embedding course title: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("embedding course title: got %d vectors", len(vectors))
	}

	rec := sqlite.CourseRecord{Course: course, SourcePath: sourcePath, SourceHash: sourceHash}
	if err := vs.courses.Save(ctx, rec, vectors[0]); err != nil {
		return fmt.Errorf("saving course %q: %w", course.Title, err)
	}
	return nil
}

// AddChunks embeds and stores chunk content
func (vs *VectorStore) AddChunks(ctx context.Context, chunks []models.CourseChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := vs.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}

	if err := vs.chunks.Save(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}
	return nil
}

// ReplaceCourse stores a course and its complete chunk set as one unit. All
// embeddings are computed before the write so the old version stays searchable
// until the new one commits.
func (vs *VectorStore) ReplaceCourse(ctx context.Context, course models.Course, chunks []models.CourseChunk, sourcePath, sourceHash string) error {
	texts := make([]string, 0, len(chunks)+1)
	texts = append(texts, course.Title)
	for _, c := range chunks {
		texts = append(texts, c.Content)
	}
	vectors, err := vs.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding course %q: %w", course.Title, err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding course %q: got %d vectors for %d texts", course.Title, len(vectors), len(texts))
	}

	rec := sqlite.CourseRecord{Course: course, SourcePath: sourcePath, SourceHash: sourceHash}
	if err := vs.courses.Replace(ctx, rec, vectors[0], chunks, vectors[1:]); err != nil {
		return fmt.Errorf("saving course %q: %w", course.Title, err)
	}
	return nil
}

// Search resolves the course name, applies filters, and ranks chunks by similarity.
// Failures are reported in the result's Error field rather than returned.
func (vs *VectorStore) Search(ctx context.Context, q SearchQuery) models.SearchResult {
	filter := sqlite.ChunkFilter{LessonNumber: q.LessonNumber}

	if q.CourseName != "" {
		title, ok, err := vs.resolveCourseName(ctx, q.CourseName)
		if err != nil {
			return models.NewSearchError(fmt.Sprintf("Search error: %v", err))
		}
		if !ok {
			return models.NewSearchError(fmt.Sprintf("No course found matching '%s'", q.CourseName))
		}
		filter.CourseTitle = title
	}

	vectors, err := vs.embedder.Embed(ctx, []string{q.Query})
	if err != nil {
		return models.NewSearchError(fmt.Sprintf("Search error: %v", err))
	}
	if len(vectors) != 1 {
		return models.NewSearchError(fmt.Sprintf("Search error: got %d query vectors", len(vectors)))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = vs.maxResult
	}

	hits, err := vs.chunks.Search(ctx, vectors[0], filter, limit)
	if err != nil {
		return models.NewSearchError(fmt.Sprintf("Search error: %v", err))
	}

	log.Debug("content search", "query", q.Query, "course", filter.CourseTitle, "hits", len(hits))
	return models.SearchResult{Hits: hits}
}

// ResolveCourseName maps a partial or approximate name to a stored course title
func (vs *VectorStore) ResolveCourseName(ctx context.Context, name string) (string, bool) {
	title, ok, err := vs.resolveCourseName(ctx, name)
	if err != nil {
		log.Warn("course name resolution failed", "name", name, "err", err)
		return "", false
	}
	return title, ok
}

func (vs *VectorStore) resolveCourseName(ctx context.Context, name string) (string, bool, error) {
	titles, err := vs.courses.Titles(ctx)
	if err != nil {
		return "", false, err
	}
	if len(titles) == 0 {
		return "", false, nil
	}

	// Exact, then substring, both case-insensitive
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false, nil
	}
	for _, t := range titles {
		if strings.ToLower(t) == needle {
			return t, true, nil
		}
	}
	for _, t := range titles {
		if strings.Contains(strings.ToLower(t), needle) {
			return t, true, nil
		}
	}

	vectors, err := vs.embedder.Embed(ctx, []string{name})
	if err != nil {
		return "", false, fmt.Errorf("embedding course name: %w", err)
	}
	if len(vectors) != 1 {
		return "", false, fmt.Errorf("embedding course name: got %d vectors", len(vectors))
	}

	candidates, err := vs.courses.TitleVectors(ctx)
	if err != nil {
		return "", false, err
	}

	best, bestScore := "", -1.0
	for _, c := range candidates {
		score := sqlite.CosineSimilarity(vectors[0], c.Vector)
		if score > bestScore {
			best, bestScore = c.Title, score
		}
	}
	if best == "" || bestScore < vs.threshold {
		log.Debug("no course above match threshold", "name", name, "best", best, "score", bestScore)
		return "", false, nil
	}
	return best, true, nil
}

// GetCourse returns a stored course by exact title, or nil when absent
func (vs *VectorStore) GetCourse(ctx context.Context, title string) (*models.Course, error) {
	rec, err := vs.courses.Get(ctx, title)
	if err != nil || rec == nil {
		return nil, err
	}
	return &rec.Course, nil
}

// ListCourses returns all course titles in alphabetical order
func (vs *VectorStore) ListCourses(ctx context.Context) ([]string, error) {
	return vs.courses.Titles(ctx)
}

// CourseAnalytics summarises the catalog
func (vs *VectorStore) CourseAnalytics(ctx context.Context) (models.CourseAnalytics, error) {
	titles, err := vs.courses.Titles(ctx)
	if err != nil {
		return models.CourseAnalytics{}, err
	}
	return models.CourseAnalytics{TotalCourses: len(titles), CourseTitles: titles}, nil
}

// CourseSource returns the source path and content hash a course was ingested from.
// Both are empty when the course is unknown.
func (vs *VectorStore) CourseSource(ctx context.Context, title string) (string, string, error) {
	rec, err := vs.courses.Get(ctx, title)
	if err != nil || rec == nil {
		return "", "", err
	}
	return rec.SourcePath, rec.SourceHash, nil
}

// ChunkCount returns the number of stored chunks
func (vs *VectorStore) ChunkCount(ctx context.Context) (int, error) {
	return vs.chunks.Count(ctx)
}

// DeleteCourse removes a course with its lessons and chunks
func (vs *VectorStore) DeleteCourse(ctx context.Context, title string) (bool, error) {
	return vs.courses.Delete(ctx, title)
}

// DeleteCourseBySource removes every course ingested from path and returns their titles
func (vs *VectorStore) DeleteCourseBySource(ctx context.Context, path string) ([]string, error) {
	titles, err := vs.courses.TitlesBySource(ctx, path)
	if err != nil {
		return nil, err
	}
	for _, t := range titles {
		if _, err := vs.courses.Delete(ctx, t); err != nil {
			return nil, fmt.Errorf("deleting course %q: %w", t, err)
		}
	}
	return titles, nil
}

// Clear removes every course, lesson, and chunk
func (vs *VectorStore) Clear(ctx context.Context) error {
	return vs.courses.DeleteAll(ctx)
}
