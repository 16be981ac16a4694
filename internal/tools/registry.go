// ABOUTME: Tool registry and per-query execution context
// ABOUTME: Dispatches by name, converts tool failures to text, and tracks citations per query
package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrEmptyToolName is returned when registering a tool without a name
	ErrEmptyToolName = errors.New("tool name cannot be empty")
	// ErrDuplicateTool is returned when a name is registered twice
	ErrDuplicateTool = errors.New("tool already registered")
)

// UnknownToolError reports a call to a name that was never registered
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool '%s' not found", e.Name)
}

// Registry holds the tools offered to the model. It is read-only once queries start.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its definition name
func (r *Registry) Register(tool Tool) error {
	name := tool.Definition().Name
	if name == "" {
		return ErrEmptyToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Schemas returns every tool definition in registration order
func (r *Registry) Schemas() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].Definition())
	}
	return schemas
}

// Tools returns the registered tools in registration order
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Tool looks up a tool by name
func (r *Registry) Tool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// NewExecution starts a per-query context with an empty citation list
func (r *Registry) NewExecution() *Execution {
	return &Execution{registry: r}
}

// Execution runs tools on behalf of one query and collects that query's citations
type Execution struct {
	registry *Registry

	mu      sync.Mutex
	sources []models.SourceCitation
}

// Schemas returns the definitions of the tools this execution can run
func (e *Execution) Schemas() []mcp.Tool {
	return e.registry.Schemas()
}

// Execute runs the named tool. Unknown names return *UnknownToolError; tool errors
// and panics come back as descriptive text so the model can read them.
func (e *Execution) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	tool, ok := e.registry.Tool(name)
	if !ok {
		return "", &UnknownToolError{Name: name}
	}

	res, err := runTool(ctx, tool, args)
	if err != nil {
		log.Warn("tool execution failed", "tool", name, "err", err)
		return fmt.Sprintf("Tool '%s' failed: %v", name, err), nil
	}

	if res.TrackSources {
		e.mu.Lock()
		e.sources = append([]models.SourceCitation(nil), res.Sources...)
		e.mu.Unlock()
	}
	return res.Content, nil
}

func runTool(ctx context.Context, tool Tool, args map[string]any) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if args == nil {
		args = map[string]any{}
	}
	return tool.Execute(ctx, args)
}

// CollectSources returns a copy of the citations gathered so far
func (e *Execution) CollectSources() []models.SourceCitation {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.SourceCitation, len(e.sources))
	copy(out, e.sources)
	return out
}

// ResetSources clears the gathered citations
func (e *Execution) ResetSources() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = nil
}
