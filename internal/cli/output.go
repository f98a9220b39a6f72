package cli

// #region imports
import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/orchestrator"
)

// #endregion

// #region formats

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func checkOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// emit writes v as JSON or YAML, or calls text for the human format.
func (a *app) emit(w io.Writer, v any, text func(io.Writer) error) error {
	switch a.output {
	case outputJSON:
		return printJSON(w, v)
	case outputYAML:
		return printYAML(w, v)
	}
	return text(w)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printYAML goes through JSON first so types with custom MarshalJSON (the
// chain) render the same fields in both formats.
func printYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("decode json as yaml: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return enc.Close()
}

// #endregion

// #region result-text

func printResult(w io.Writer, res *orchestrator.Result) error {
	c := res.Chain
	fmt.Fprintf(w, "Chain:       %s\n", c.ID())
	fmt.Fprintf(w, "Goal:        %s\n", c.Goal())
	fmt.Fprintf(w, "Outcome:     %s\n", res.Outcome)
	fmt.Fprintf(w, "Strategies:  %s\n", strings.Join(res.Strategies, ", "))
	if final := c.FinalConclusion(); final != nil {
		fmt.Fprintf(w, "Conclusion:  %s\n", final.Statement)
		fmt.Fprintf(w, "Confidence:  %.3f\n", final.Confidence)
		for _, alt := range final.Alternatives {
			fmt.Fprintf(w, "  alt %.3f  %s\n", alt.Score, alt.Statement)
		}
	}

	m := res.ConvergenceMetrics
	fmt.Fprintf(w, "\nConvergence: %.3f (coherence %.3f, alignment %.3f, evidence %.3f, stability %.3f)\n",
		m.Overall, m.CognitiveCoherence, m.StrategicAlignment, m.EvidenceConsistency, m.ConclusionStability)
	fmt.Fprintf(w, "Steps:       %d in %dms\n", res.Performance.StepsExecuted, res.Performance.TotalProcessingTimeMs)

	steps := c.Steps()
	if len(steps) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%-4s  %-14s  %6s  %8s  %s\n", "#", "Strategy", "Conf", "Latency", "Statement")
	fmt.Fprintf(w, "%-4s+-%-14s+-%6s+-%8s+-%s\n", "----", "--------------", "------", "--------", "--------------------")
	for i, s := range steps {
		fmt.Fprintf(w, "%-4d  %-14s  %6.3f  %8s  %s\n",
			i+1, s.Strategy, s.Confidence, s.Metadata.Latency.Round(time.Microsecond), s.Conclusion.Statement)
	}
	return nil
}

// #endregion
