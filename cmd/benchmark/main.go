// ABOUTME: Command-line benchmark runner for RAGAS tests
// ABOUTME: Answers fixture questions against indexed sample courses and outputs JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/benchmarks/ragas"
	"github.com/harper/coursemate/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	testIDs := flag.String("test", "", "Comma-separated test IDs (lesson, outline, followup, general). If empty, runs all tests.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found (continuing anyway)", "err", err)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	scenarios := ragas.GetAllTests()
	if *testIDs != "" {
		scenarios = scenarios[:0]
		for _, id := range strings.Split(*testIDs, ",") {
			s, ok := ragas.GetTest(strings.TrimSpace(id))
			if !ok {
				log.Fatal("unknown test ID", "id", id, "valid", "lesson, outline, followup, general")
			}
			scenarios = append(scenarios, s)
		}
	}

	fmt.Println("========================================")
	fmt.Println("Coursemate RAGAS Benchmarks")
	fmt.Println("========================================")
	fmt.Println()

	runner, err := ragas.NewBenchmarkRunner(cfg, *verbose)
	if err != nil {
		log.Fatal("failed to create benchmark runner", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Running %d benchmark tests...\n\n", len(scenarios))
	results := runner.RunTests(ctx, scenarios)

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	passed := 0
	failed := 0

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		if result.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", result.ErrorMessage)
		}
		fmt.Printf("  Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Printf("  Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Printf("  Overall: %.2f\n", result.OverallScore)
		fmt.Printf("  Status: %s\n", result.Status)

		if result.Status == "PASS" {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", len(results))
	fmt.Printf("Passed: %d\n", passed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Println("========================================")

	if err := ragas.ExportResults(results, *outputPath); err != nil {
		log.Fatal("failed to export results", "err", err)
	}
	fmt.Printf("✓ Results exported to: %s\n", *outputPath)

	if failed > 0 {
		os.Exit(1)
	}
}
