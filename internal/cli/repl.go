package cli

// #region imports
import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// #endregion

// #region repl

func newReplCommand(a *app) *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive loop: one reasoning chain per line",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd, &flags)
		}),
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) repl(cmd *cobra.Command, flags *requestFlags) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Reasoner ready.")
	fmt.Fprintf(out, "  Knowledge: %s | Strategies: %d\n", a.cfg.Knowledge.Backend, a.eng.orch.Registry().Len())
	fmt.Fprintln(out, "Type a goal (or 'quit' to exit):")

	scanner := bufio.NewScanner(a.stdin)
	turn := 0
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		goal := strings.TrimSpace(scanner.Text())
		if goal == "" {
			continue
		}
		if goal == "quit" || goal == "exit" {
			break
		}
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		turn++
		res, err := a.eng.orch.ExecuteReasoningChain(cmd.Context(), flags.request(cmd, goal))
		if err != nil {
			fmt.Fprintf(a.stderr, "chain error: %v\n", err)
			continue
		}
		fmt.Fprintln(out)
		if err := a.emit(out, res, func(w io.Writer) error { return printResult(w, res) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n[turn-%d] outcome=%s score=%.4f\n", turn, res.Outcome, res.ConvergenceMetrics.Overall)
	}
	return scanner.Err()
}

// #endregion
