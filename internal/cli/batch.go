package cli

// #region imports
import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/orchestrator"
)

// #endregion

// #region batch

type batchRow struct {
	Goal       string  `json:"goal"`
	ChainID    string  `json:"chain_id"`
	Outcome    string  `json:"outcome"`
	Statement  string  `json:"statement"`
	Confidence float64 `json:"confidence"`
	Score      float64 `json:"convergence_score"`
	Steps      int     `json:"steps_executed"`
}

func newBatchCommand(a *app) *cobra.Command {
	var flags requestFlags
	var concurrency int
	cmd := &cobra.Command{
		Use:   "batch <file|->",
		Short: "Execute one chain per goal line, concurrently",
		Long: `batch reads goals one per line from a file (or stdin with "-").
Blank lines and lines starting with # are skipped. Every goal shares the
request flags; results are printed in input order.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			goals, err := readGoals(args[0], a.stdin)
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				return fmt.Errorf("no goals in %s", args[0])
			}
			reqs := make([]orchestrator.Request, len(goals))
			for i, g := range goals {
				reqs[i] = flags.request(cmd, g)
			}

			results, err := a.eng.orch.ExecuteBatch(cmd.Context(), reqs, concurrency)
			if err != nil {
				return err
			}
			rows := make([]batchRow, len(results))
			for i, res := range results {
				rows[i] = summarize(res)
			}
			return a.emit(cmd.OutOrStdout(), rows, func(w io.Writer) error {
				return printBatchTable(w, rows)
			})
		}),
	}
	flags.bind(cmd)
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "chains in flight; 0 uses engine.batch_concurrency")
	return cmd
}

func summarize(res *orchestrator.Result) batchRow {
	row := batchRow{
		Goal:    res.Chain.Goal(),
		ChainID: res.Chain.ID(),
		Outcome: string(res.Outcome),
		Score:   res.ConvergenceMetrics.Overall,
		Steps:   res.Performance.StepsExecuted,
	}
	if final := res.Chain.FinalConclusion(); final != nil {
		row.Statement = final.Statement
		row.Confidence = final.Confidence
	}
	return row
}

func readGoals(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open goals: %w", err)
		}
		defer f.Close()
		r = f
	}

	var goals []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		goals = append(goals, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read goals: %w", err)
	}
	return goals, nil
}

func printBatchTable(w io.Writer, rows []batchRow) error {
	fmt.Fprintf(w, "%-10s  %-10s  %6s  %6s  %5s  %s\n", "Chain", "Outcome", "Conf", "Score", "Steps", "Goal")
	fmt.Fprintf(w, "%-10s+-%-10s+-%6s+-%6s+-%5s+-%s\n", "----------", "----------", "------", "------", "-----", "--------------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s  %-10s  %6.3f  %6.3f  %5d  %s\n",
			shortID(r.ChainID), r.Outcome, r.Confidence, r.Score, r.Steps, r.Goal)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion
