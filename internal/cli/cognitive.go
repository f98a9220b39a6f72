package cli

// #region imports
import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/cognitive"
)

// #endregion

// #region superpose

type superposeOutput struct {
	State      cognitive.State       `json:"state"`
	Resolution *cognitive.Resolution `json:"resolution,omitempty"`
}

func newSuperposeCommand(a *app) *cobra.Command {
	var resolve string
	cmd := &cobra.Command{
		Use:   "superpose <concept> [concept...]",
		Short: "Create a cognitive superposition and optionally resolve it",
		Example: `  reasoner superpose rain sprinkler flood
  reasoner superpose --resolve weighted_random rain sprinkler flood`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			cog := a.eng.orch.Cognitive()
			st, err := cog.CreateSuperposition(args)
			if err != nil {
				return err
			}
			out := superposeOutput{State: st}
			if resolve != "" {
				res, err := cog.Resolve(st.ID, cognitive.Method(resolve))
				if err != nil {
					return err
				}
				out.Resolution = &res
				if out.State, err = cog.Get(st.ID); err != nil {
					return err
				}
			}
			return a.emit(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return printSuperposition(w, out)
			})
		}),
	}
	cmd.Flags().StringVar(&resolve, "resolve", "", "collapse the new state: highest_confidence | weighted_random")
	return cmd
}

func printSuperposition(w io.Writer, out superposeOutput) error {
	st := out.State
	fmt.Fprintf(w, "State:      %s\n", st.ID)
	fmt.Fprintf(w, "Coherence:  %.4f (measurements %d)\n", st.Coherence, st.MeasurementCount)
	fmt.Fprintf(w, "\n%-24s  %10s  %10s  %8s\n", "Concept", "Confidence", "Potential", "Weight")
	for i, c := range st.Concepts {
		amp := st.Amplitudes[i]
		fmt.Fprintf(w, "%-24s  %10.4f  %10.4f  %8.4f\n", c, amp.Confidence, amp.Potential, amp.Weight())
	}
	if r := out.Resolution; r != nil {
		fmt.Fprintf(w, "\nResolved:   %s (p=%.4f, %s)\n", r.Concept, r.Probability, r.Method)
	}
	return nil
}

// #endregion

// #region link

type linkOutput struct {
	A          string   `json:"a"`
	B          string   `json:"b"`
	NeighborsA []string `json:"neighbors_a"`
	NeighborsB []string `json:"neighbors_b"`
}

func newLinkCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "link <a> <b>",
		Short: "Link two concepts in the cognitive graph",
		Args:  cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			cog := a.eng.orch.Cognitive()
			if err := cog.Link(args[0], args[1]); err != nil {
				return err
			}
			out := linkOutput{
				A:          args[0],
				B:          args[1],
				NeighborsA: cog.Neighbors(args[0]),
				NeighborsB: cog.Neighbors(args[1]),
			}
			return a.emit(cmd.OutOrStdout(), out, func(w io.Writer) error {
				fmt.Fprintf(w, "linked %s <-> %s\n", out.A, out.B)
				return nil
			})
		}),
	}
}

// #endregion
