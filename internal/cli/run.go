package cli

// #region imports
import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/orchestrator"
)

// #endregion

// #region request-flags

// requestFlags are the per-chain options shared by run, batch and repl.
type requestFlags struct {
	strategies  []string
	target      float64
	noCognitive bool
	context     map[string]string
	maxSteps    int
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.strategies, "strategy", "s", nil, "restrict the candidate strategies (repeatable, comma separated)")
	cmd.Flags().Float64Var(&f.target, "target", 0, "convergence target in (0,1]; 0 uses the configured default")
	cmd.Flags().BoolVar(&f.noCognitive, "no-cognitive", false, "disable cognitive enhancement for this chain")
	cmd.Flags().StringToStringVarP(&f.context, "context", "c", nil, "query context entries as key=value (domain, cause, effect, horizon, max_facts, ...)")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "override the per-chain step cap")
}

// request builds an orchestrator request for goal. Flags the user did not
// set leave the corresponding field nil so the engine default applies.
func (f *requestFlags) request(cmd *cobra.Command, goal string) orchestrator.Request {
	req := orchestrator.Request{
		Goal:       goal,
		Strategies: f.strategies,
		MaxSteps:   f.maxSteps,
	}
	if cmd.Flags().Changed("target") {
		target := f.target
		req.ConvergenceTarget = &target
	}
	if f.noCognitive {
		off := false
		req.CognitiveEnhancement = &off
	}
	if len(f.context) > 0 {
		req.Context = make(map[string]any, len(f.context))
		for k, v := range f.context {
			req.Context[k] = v
		}
	}
	return req
}

// #endregion

// #region run

func newRunCommand(a *app) *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "run <goal>",
		Short: "Execute one reasoning chain",
		Example: `  reasoner run "Why are the streets wet after rain?"
  reasoner run -s Causal -c cause=rain -c effect="wet streets" -o json "rain and streets"`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			goal := strings.Join(args, " ")
			res, err := a.eng.orch.ExecuteReasoningChain(cmd.Context(), flags.request(cmd, goal))
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), res, func(w io.Writer) error {
				return printResult(w, res)
			})
		}),
	}
	flags.bind(cmd)
	return cmd
}

// #endregion
