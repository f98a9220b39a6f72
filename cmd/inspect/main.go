package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/logging"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the provenance database (provenance.sqlite_path)")
	last := flag.Int("last", 20, "show N most recent chains")
	steps := flag.Bool("steps", false, "include per-step outcomes")
	summary := flag.Bool("summary", false, "show per-strategy aggregates instead of chains")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/provenance.db [--last N] [--steps] [--summary] [--json]")
		os.Exit(2)
	}
	if _, err := os.Stat(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}

	chainLog, err := logging.OpenChainLog(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer chainLog.Close()

	ctx := context.Background()
	if *summary {
		err = runSummaryMode(ctx, chainLog, *jsonOut)
	} else {
		err = runListMode(ctx, chainLog, *last, *steps, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(ctx context.Context, chainLog *logging.ChainLog, last int, withSteps, jsonOut bool) error {
	entries, err := chainLog.Recent(ctx, last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no chains found")
		return nil
	}

	// Recent is newest first; print chronologically
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if withSteps {
		for i := range entries {
			if entries[i].Steps, err = chainLog.Steps(ctx, entries[i].ChainID); err != nil {
				return err
			}
		}
	}

	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-10s  %-10s  %6s  %6s  %5s  %-20s  %s\n",
		"Chain", "Outcome", "Conf", "Score", "Steps", "Time", "Goal")
	fmt.Printf("%-10s+-%-10s+-%6s+-%6s+-%5s+-%-20s+-%s\n",
		"----------", "----------", "------", "------", "-----", "--------------------", "--------------------")
	for _, e := range entries {
		fmt.Printf("%-10s  %-10s  %6.3f  %6.3f  %5d  %-20s  %s\n",
			shortID(e.ChainID), e.Outcome, e.Confidence, e.ConvergenceScore, e.StepsExecuted,
			e.CreatedAt.Format("2006-01-02T15:04:05Z"), e.Goal)
		if !withSteps {
			continue
		}
		for _, s := range e.Steps {
			detail := s.Error
			if detail == "" {
				detail = fmt.Sprintf("conf=%.3f", s.Confidence)
			}
			fmt.Printf("    #%-3d %-16s %-6s %10s  %s\n", s.Iteration, s.Strategy, s.Status, s.Latency, detail)
		}
	}

	latest := entries[len(entries)-1]
	fmt.Printf("\nLatest conclusion:\n  %s\n", latest.Statement)
	fmt.Printf("  strategies: %s\n", strings.Join(latest.Strategies, ", "))
	return nil
}

// #endregion list-mode

// #region summary-mode

func runSummaryMode(ctx context.Context, chainLog *logging.ChainLog, jsonOut bool) error {
	summaries, err := chainLog.StrategySummaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(os.Stderr, "no step outcomes found")
		return nil
	}
	if jsonOut {
		return printJSON(summaries)
	}

	fmt.Printf("%-16s  %8s  %8s  %8s  %8s\n", "Strategy", "Attempts", "Failures", "Avg Conf", "Success")
	fmt.Printf("%-16s+-%8s+-%8s+-%8s+-%8s\n", "----------------", "--------", "--------", "--------", "--------")
	for _, s := range summaries {
		fmt.Printf("%-16s  %8d  %8d  %8.3f  %8.3f\n",
			s.Strategy, s.Attempts, s.Failures, s.AverageConfidence, s.SuccessRate)
	}
	return nil
}

// #endregion summary-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
