package cli

// #region imports
import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/logging"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/strategy"
)

// #endregion

// #region strategies

// strategyRow is registry metadata plus logged history when provenance is on.
type strategyRow struct {
	strategy.Info
	History *logging.StrategySummary `json:"history,omitempty"`
}

func newStrategiesCommand(a *app) *cobra.Command {
	var compatibleOnly bool
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List registered reasoning strategies",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			history := map[string]*logging.StrategySummary{}
			if a.eng.chainLog != nil {
				summaries, err := a.eng.chainLog.StrategySummaries(cmd.Context())
				if err != nil {
					return err
				}
				for i := range summaries {
					history[summaries[i].Strategy] = &summaries[i]
				}
			}
			var rows []strategyRow
			for _, info := range a.eng.orch.Registry().Infos() {
				if compatibleOnly && !info.CognitiveCompatible {
					continue
				}
				rows = append(rows, strategyRow{Info: info, History: history[info.Name]})
			}
			return a.emit(cmd.OutOrStdout(), rows, func(w io.Writer) error {
				return printStrategyTable(w, rows)
			})
		}),
	}
	cmd.Flags().BoolVar(&compatibleOnly, "cognitive", false, "only strategies usable with cognitive enhancement")
	return cmd
}

func printStrategyTable(w io.Writer, rows []strategyRow) error {
	fmt.Fprintf(w, "%-16s  %-14s  %-9s  %6s  %8s  %s\n", "Strategy", "Category", "Cognitive", "Weight", "Success", "Use cases")
	fmt.Fprintf(w, "%-16s+-%-14s+-%-9s+-%6s+-%8s+-%s\n", "----------------", "--------------", "---------", "------", "--------", "--------------------")
	for _, r := range rows {
		cog := "no"
		if r.CognitiveCompatible {
			cog = "yes"
		}
		success := "-"
		if r.History != nil {
			success = fmt.Sprintf("%.2f/%d", r.History.SuccessRate, r.History.Attempts)
		}
		fmt.Fprintf(w, "%-16s  %-14s  %-9s  %6.2f  %8s  %s\n",
			r.Name, r.Category, cog, r.ConvergenceWeight, success, strings.Join(r.UseCases, ", "))
	}
	return nil
}

// #endregion
