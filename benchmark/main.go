// Package main provides a performance benchmarking tool for the schoolfit CLI.
// It generates synthetic joined tables of several sizes, then times each
// command reading straight from a Parquet file and from an imported SQLite
// store, treating the first successful store run as cold and averaging the rest as warm.
// Results are written as CSV for performance analysis and documentation.
//
// Prerequisites:
// - schoolfit binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated tables and store files
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/schoolfit/internal/parquet"
	"github.com/huangsam/schoolfit/schema"
)

// BenchmarkResult holds the result of a benchmark run (file average, cold store run and average of warm store runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	FileTime string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	FileRuns   int
	StoreRuns  int
	Datasets   map[string]int
	Order      []string
	Commands   map[string][]string
	CommandSeq []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:   workDir,
		Timeout:   2 * time.Minute,
		FileRuns:  3,
		StoreRuns: 4,
		Datasets: map[string]int{
			"county":    800,
			"statewide": 10000,
			"stress":    50000,
		},
		Order: []string{"county", "statewide", "stress"},
		Commands: map[string][]string{
			"schools":   {"schools", "--limit", "50"},
			"districts": {"districts", "--limit", "50"},
			"compare":   {"compare", "--by-district", "--select", "District 1", "--select", "District 2"},
		},
		CommandSeq: []string{"schools", "districts", "compare"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the schoolfit binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("schoolfit"); err != nil {
		return fmt.Errorf("schoolfit binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateTable writes a synthetic table of n schools spread over n/20 districts.
func generateTable(path string, n int, seed uint64) error {
	rng := rand.New(rand.NewPCG(seed, seed))
	counties := []string{"Alameda", "Fresno", "Los Angeles", "Orange", "Sacramento", "San Diego"}
	districts := max(n/20, 1)

	table := schema.Table{Columns: schema.DefaultRegistry.Keys()}
	for i := range n {
		d := i % districts
		e := schema.Entity{
			CDSCode:  fmt.Sprintf("%02d%05d%07d", d%58+1, d, i),
			County:   counties[d%len(counties)],
			District: fmt.Sprintf("District %d", d+1),
			School:   fmt.Sprintf("School %d", i+1),
			Values:   make(map[schema.MetricKey]any, len(table.Columns)),
		}
		for _, key := range table.Columns {
			if rng.IntN(25) == 0 {
				e.Values[key] = nil // suppressed cell
				continue
			}
			if key == schema.ClassSizeKey {
				e.Values[key] = 15 + rng.Float64()*20
			} else {
				e.Values[key] = rng.Float64() * 100
			}
		}
		table.Rows = append(table.Rows, e)
	}
	return parquet.WriteEntityRowsParquet(parquet.NewEntityRows(table), path)
}

// runBenchmarks executes all benchmark tests across generated datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, file: %d runs, store: %d runs\n",
		len(config.Order), config.Timeout, config.FileRuns, config.StoreRuns)

	for i, name := range config.Order {
		n := config.Datasets[name]
		fmt.Printf("Generating %s dataset (%d schools)\n", name, n)

		dataPath := filepath.Join(config.WorkDir, name+".parquet")
		if err := generateTable(dataPath, n, uint64(i+1)); err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", name, err)
			continue
		}

		storePath := filepath.Join(config.WorkDir, name+".db")
		_ = os.Remove(storePath)
		storeArgs := []string{"--data-backend", "sqlite", "--data-db-connect", storePath}
		importArgs := append([]string{"data", "import", dataPath}, storeArgs...)
		if output, err := exec.Command("schoolfit", importArgs...).CombinedOutput(); err != nil {
			fmt.Printf("Warning: failed to import %s: %v\nOutput: %s\n", name, err, string(output))
			continue
		}

		for _, command := range config.CommandSeq {
			results = append(results, runBenchmarkSuite(config, name, command, dataPath, storeArgs))
		}
	}

	return results
}

// runBenchmarkSuite runs both file and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset, command, dataPath string, storeArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)
	base := config.Commands[command]

	// Helper to run a benchmark phase
	runPhase := func(args []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: Read the Parquet file every run
	fileArgs := append(append([]string{}, base...), dataPath, "--data-backend", "none")
	_, fileAvg := runPhase(fileArgs, config.FileRuns, "File")

	// Phase 2: Load from the imported store
	storeRunArgs := append(append([]string{}, base...), storeArgs...)
	coldTime, warmAvg := runPhase(storeRunArgs, config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  File average: %s, Cold time: %s, Warm average: %s\n", fileAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  command,
		FileTime: fileAvg,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a schoolfit command multiple times and returns cold time and warm times.
// For the file phase every run counts as warm, so the caller ignores the cold time.
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("schoolfit", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, args[0]) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times
		if len(times) > 1 {
			warmTimes = times[1:]
		}
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "compare" {
		return strings.Contains(outputStr, "Compared")
	}
	return strings.Contains(outputStr, "Scored in") && strings.Contains(outputStr, "Data source")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/schoolfit_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "file_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.FileTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.CommandSeq {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-10s: File: %s, Cold: %s, Warm: %s\n", result.Dataset, result.FileTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
