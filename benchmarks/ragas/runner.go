// ABOUTME: Test runner for RAGAS benchmarks - executes scenarios and collects results
// ABOUTME: Indexes fixture courses, asks each turn through the RAG system, and scores the answers

package ragas

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/coursemate/internal/config"
	"github.com/harper/coursemate/internal/core"
)

// BenchmarkRunner executes RAGAS benchmark tests
type BenchmarkRunner struct {
	cfg     *config.Config
	metrics *MetricsCalculator
	verbose bool
}

// NewBenchmarkRunner creates a new benchmark runner. Each test gets its own
// in-memory store, so cfg.DBPath is ignored.
func NewBenchmarkRunner(cfg *config.Config, verbose bool) (*BenchmarkRunner, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("benchmarks need OPENAI_API_KEY to answer questions")
	}
	return &BenchmarkRunner{
		cfg:     cfg,
		metrics: NewMetricsCalculator(),
		verbose: verbose,
	}, nil
}

// RunTest executes a single benchmark test
func (r *BenchmarkRunner) RunTest(ctx context.Context, scenario TestScenario) (TestResult, error) {
	if r.verbose {
		fmt.Printf("\n========================================\n")
		fmt.Printf("RUNNING: %s\n", scenario.Name)
		fmt.Printf("========================================\n")
		fmt.Printf("Description: %s\n\n", scenario.Description)
	}

	docsDir, err := os.MkdirTemp("", "coursemate_bench_"+scenario.ID+"_")
	if err != nil {
		return TestResult{}, fmt.Errorf("failed to create fixture dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(docsDir) }()

	for name, body := range scenario.Documents {
		if err := os.WriteFile(filepath.Join(docsDir, name), []byte(body), 0644); err != nil {
			return TestResult{}, fmt.Errorf("failed to write fixture %s: %w", name, err)
		}
	}

	cfg := *r.cfg
	cfg.DBPath = core.InMemoryDBPath
	app, err := core.Bootstrap(ctx, &cfg)
	if err != nil {
		return TestResult{}, fmt.Errorf("setup failed: %w", err)
	}
	defer func() { _ = app.Close() }()

	summary, err := app.RAG.AddCourseFolder(ctx, docsDir, false)
	if err != nil {
		return TestResult{}, fmt.Errorf("indexing fixtures failed: %w", err)
	}
	if r.verbose {
		fmt.Printf("✓ Indexed %d courses (%d chunks)\n", summary.Courses, summary.Chunks)
	}

	var finalResponse string
	var retrievedSources []string
	var sessionID string

	for _, turn := range scenario.Turns {
		if r.verbose {
			fmt.Printf("[Turn %d] User: %s\n", turn.TurnNumber, turn.UserMessage)
		}

		res, err := app.RAG.Query(ctx, turn.UserMessage, sessionID)
		if err != nil {
			return TestResult{}, fmt.Errorf("turn %d failed: %w", turn.TurnNumber, err)
		}
		sessionID = res.SessionID

		sources := make([]string, 0, len(res.Sources))
		for _, s := range res.Sources {
			sources = append(sources, s.Text)
		}

		if r.verbose {
			preview := []rune(res.Answer)
			if len(preview) > 150 {
				preview = preview[:150]
			}
			fmt.Printf("[Turn %d] AI: %s\n", turn.TurnNumber, string(preview))
			fmt.Printf("[Turn %d] Sources: %v\n\n", turn.TurnNumber, sources)
		}

		if turn.TurnNumber == scenario.GroundTruth.FinalQueryTurn {
			finalResponse = res.Answer
			retrievedSources = sources
		}
	}

	result := r.metrics.EvaluateTest(scenario, finalResponse, retrievedSources)

	if r.verbose {
		fmt.Printf("\n========================================\n")
		fmt.Printf("RESULTS: %s\n", scenario.Name)
		fmt.Printf("========================================\n")
		fmt.Printf("Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Printf("Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Printf("Overall Score: %.2f\n", result.OverallScore)
		fmt.Printf("Status: %s\n", result.Status)
		fmt.Printf("========================================\n\n")
	}

	return result, nil
}

// RunTests executes the given scenarios in order. A scenario that errors is
// recorded as a failed result and the run continues.
func (r *BenchmarkRunner) RunTests(ctx context.Context, scenarios []TestScenario) []TestResult {
	results := make([]TestResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		result, err := r.RunTest(ctx, scenario)
		if err != nil {
			result = TestResult{
				TestID:       scenario.ID,
				TestName:     scenario.Name,
				Status:       "FAIL",
				ErrorMessage: err.Error(),
			}
		}
		results = append(results, result)
	}
	return results
}

// RunAllTests executes all benchmark tests
func (r *BenchmarkRunner) RunAllTests(ctx context.Context) []TestResult {
	return r.RunTests(ctx, GetAllTests())
}

// ExportResults exports test results to JSON
func ExportResults(results []TestResult, outputPath string) error {
	passed := 0
	for _, result := range results {
		if result.Status == "PASS" {
			passed++
		}
	}

	summary := map[string]interface{}{
		"timestamp":   time.Now().Format(time.RFC3339),
		"total_tests": len(results),
		"passed":      passed,
		"failed":      len(results) - passed,
		"results":     results,
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
