// ABOUTME: RAGSystem composes ingestion, retrieval tools, the AI generator, and sessions
// ABOUTME: Each query gets its own tool execution so citations never leak between queries
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/internal/config"
	"github.com/harper/coursemate/internal/models"
	"github.com/harper/coursemate/internal/storage"
	"github.com/harper/coursemate/internal/tools"
	"golang.org/x/sync/errgroup"
)

// QueryPrompt wraps the user's question before it reaches the model
const QueryPrompt = "Answer this question about course materials: %s"

// ingestWorkers bounds concurrent document ingestion
const ingestWorkers = 4

// ErrEmptyQuery is returned for blank questions
var ErrEmptyQuery = errors.New("query cannot be empty")

// SupportedExtensions lists the document types picked up from a course folder
var SupportedExtensions = map[string]bool{".txt": true, ".md": true}

// QueryResult is the answer to one question
type QueryResult struct {
	Answer    string                  `json:"answer"`
	Sources   []models.SourceCitation `json:"sources"`
	SessionID string                  `json:"session_id"`
}

// IngestResult describes one ingested document
type IngestResult struct {
	Path        string
	CourseTitle string
	Chunks      int
	Skipped     bool
}

// IngestSummary totals a folder ingestion
type IngestSummary struct {
	Courses int
	Chunks  int
	Skipped int
	Failed  int
}

// RAGSystem is the query and ingestion entry point shared by every adapter
type RAGSystem struct {
	processor *DocumentProcessor
	store     *storage.VectorStore
	registry  *tools.Registry
	generator *AIGenerator
	sessions  *SessionManager
}

// NewRAGSystem wires the pipeline over store and the chat client
func NewRAGSystem(cfg *config.Config, store *storage.VectorStore, client ChatCompleter) (*RAGSystem, error) {
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewSearchTool(store)); err != nil {
		return nil, err
	}
	if err := registry.Register(tools.NewOutlineTool(store)); err != nil {
		return nil, err
	}

	return &RAGSystem{
		processor: NewDocumentProcessor(cfg.ChunkSize, cfg.ChunkOverlap),
		store:     store,
		registry:  registry,
		generator: NewAIGenerator(client, GeneratorConfig{
			Model:         cfg.ChatModel,
			Temperature:   float32(cfg.Temperature),
			MaxTokens:     cfg.MaxTokens,
			MaxToolRounds: cfg.MaxToolRounds,
		}),
		sessions: NewSessionManager(cfg.MaxHistory),
	}, nil
}

// Registry returns the tools offered to the model
func (r *RAGSystem) Registry() *tools.Registry { return r.registry }

// Store returns the vector store facade
func (r *RAGSystem) Store() *storage.VectorStore { return r.store }

// Sessions returns the session store
func (r *RAGSystem) Sessions() *SessionManager { return r.sessions }

// Query answers text within a session, creating one when sessionID is empty.
// A model failure is returned as-is and leaves the session untouched.
func (r *RAGSystem) Query(ctx context.Context, text, sessionID string) (*QueryResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if sessionID == "" {
		sessionID = r.sessions.CreateSession()
	}

	history := r.sessions.GetHistory(sessionID)
	exec := r.registry.NewExecution()

	answer, err := r.generator.GenerateResponse(ctx, fmt.Sprintf(QueryPrompt, text), history, exec)
	sources := exec.CollectSources()
	exec.ResetSources()
	if err != nil {
		log.Error("query failed", "session", sessionID, "err", err)
		return nil, err
	}

	r.sessions.AddExchange(sessionID, text, answer)
	log.Debug("query answered", "session", sessionID, "sources", len(sources))

	return &QueryResult{Answer: answer, Sources: sources, SessionID: sessionID}, nil
}

// ClearSession discards a session's history
func (r *RAGSystem) ClearSession(sessionID string) {
	r.sessions.ClearSession(sessionID)
}

// CourseAnalytics summarises the catalog
func (r *RAGSystem) CourseAnalytics(ctx context.Context) (models.CourseAnalytics, error) {
	return r.store.CourseAnalytics(ctx)
}

// AddCourseDocument ingests one file. Unchanged files already indexed from the same path are skipped.
func (r *RAGSystem) AddCourseDocument(ctx context.Context, path string) (*IngestResult, error) {
	doc, err := r.processor.ProcessFile(path)
	if err != nil {
		return nil, err
	}
	title := doc.Course.Title

	prevPath, prevHash, err := r.store.CourseSource(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("checking existing course %q: %w", title, err)
	}
	if prevHash == doc.Hash && prevPath == path {
		log.Debug("course unchanged, skipping", "course", title, "path", path)
		return &IngestResult{Path: path, CourseTitle: title, Skipped: true}, nil
	}
	if prevPath != "" && prevPath != path {
		log.Warn("course title reused, replacing", "course", title, "was", prevPath, "now", path)
	}

	if err := r.store.ReplaceCourse(ctx, *doc.Course, doc.Chunks, path, doc.Hash); err != nil {
		return nil, err
	}

	log.Info("ingested course", "course", title, "lessons", len(doc.Course.Lessons), "chunks", len(doc.Chunks))
	return &IngestResult{Path: path, CourseTitle: title, Chunks: len(doc.Chunks)}, nil
}

// AddCourseFolder ingests every supported document in dir. Documents that fail
// are logged and counted; the rest of the batch continues.
func (r *RAGSystem) AddCourseFolder(ctx context.Context, dir string, clearExisting bool) (IngestSummary, error) {
	var summary IngestSummary

	entries, err := os.ReadDir(dir)
	if err != nil {
		return summary, fmt.Errorf("reading course folder: %w", err)
	}

	if clearExisting {
		log.Info("clearing existing course data")
		if err := r.store.Clear(ctx); err != nil {
			return summary, fmt.Errorf("clearing course data: %w", err)
		}
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if SupportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestWorkers)

	for _, path := range paths {
		g.Go(func() error {
			res, err := r.AddCourseDocument(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				log.Error("skipping course document", "path", path, "err", err)
				summary.Failed++
			case res.Skipped:
				summary.Skipped++
			default:
				summary.Courses++
				summary.Chunks += res.Chunks
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	log.Info("course folder loaded", "dir", dir, "courses", summary.Courses, "chunks", summary.Chunks,
		"skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// RemoveCourseDocument drops every course ingested from path
func (r *RAGSystem) RemoveCourseDocument(ctx context.Context, path string) ([]string, error) {
	titles, err := r.store.DeleteCourseBySource(ctx, path)
	if err != nil {
		return nil, err
	}
	for _, t := range titles {
		log.Info("removed course", "course", t, "path", path)
	}
	return titles, nil
}
