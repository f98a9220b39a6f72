package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
)

const causalGoal = "Analyze causal link between rain and wet streets"

// writeConfig writes a quiet, seeded config plus extra YAML into a temp dir.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reasoner.yaml")
	body := "logging:\n  level: error\ncognitive:\n  seed: 7\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := NewRootCommandWithIO(strings.NewReader(stdin), out, &bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type runJSON struct {
	Outcome    string   `json:"outcome"`
	Strategies []string `json:"strategies"`
	Chain      struct {
		ID              string `json:"id"`
		FinalConclusion struct {
			Statement string `json:"statement"`
		} `json:"final_conclusion"`
	} `json:"chain"`
}

func TestRunCommand_JSON(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "", "--config", cfg, "-o", "json", "run", "-s", "Causal", "--target", "0.5", causalGoal)
	require.NoError(t, err)

	var got runJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, "converged", got.Outcome)
	assert.Equal(t, []string{"Causal"}, got.Strategies)
	assert.Equal(t, "Rain causes wet streets", got.Chain.FinalConclusion.Statement)
	assert.NotEmpty(t, got.Chain.ID)
}

func TestRunCommand_TextAndYAML(t *testing.T) {
	cfg := writeConfig(t, "")

	text, err := execute(t, "", "--config", cfg, "run", "-s", "Causal", "--target", "0.5", causalGoal)
	require.NoError(t, err)
	assert.Contains(t, text, "Outcome:     converged")
	assert.Contains(t, text, "Conclusion:  Rain causes wet streets")

	yml, err := execute(t, "", "--config", cfg, "-o", "yaml", "run", "-s", "Causal", "--target", "0.5", causalGoal)
	require.NoError(t, err)
	assert.Contains(t, yml, "outcome: converged")
	assert.Contains(t, yml, "statement: Rain causes wet streets")
}

func TestRunCommand_Errors(t *testing.T) {
	cfg := writeConfig(t, "")
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"target out of range", []string{"run", "--target", "2", "goal"}, errs.ErrValidation},
		{"unknown strategy", []string{"run", "-s", "Telepathic", "goal"}, errs.ErrValidation},
		{"unknown context key", []string{"run", "-c", "colour=blue", "goal"}, errs.ErrValidation},
		{"missing goal", []string{"run"}, nil},
		{"bad output format", []string{"-o", "xml", "run", "goal"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"--config", cfg}, tt.args...)...)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "engine:\n  convergence_target: 3\n")
	_, err := execute(t, "", "--config", cfg, "run", "goal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestBatchCommand_KeepsInputOrder(t *testing.T) {
	cfg := writeConfig(t, "")
	goals := filepath.Join(t.TempDir(), "goals.txt")
	body := "# weather\n" + causalGoal + "\n\nWhy did interest rates change borrowing cost?\n"
	require.NoError(t, os.WriteFile(goals, []byte(body), 0o644))

	out, err := execute(t, "", "--config", cfg, "-o", "json", "batch", "--concurrency", "2", goals)
	require.NoError(t, err)

	var rows []batchRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	require.Len(t, rows, 2)
	assert.Equal(t, causalGoal, rows[0].Goal)
	assert.Equal(t, "Why did interest rates change borrowing cost?", rows[1].Goal)
	for _, r := range rows {
		assert.NotEmpty(t, r.ChainID)
		assert.NotEmpty(t, r.Outcome)
	}
}

func TestBatchCommand_Stdin(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, causalGoal+"\n", "--config", cfg, "batch", "-s", "Causal", "-")
	require.NoError(t, err)
	assert.Contains(t, out, causalGoal)

	_, err = execute(t, "\n# nothing\n", "--config", cfg, "batch", "-")
	assert.Error(t, err)
}

func TestProvenanceFeedsStrategyHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "provenance:\n  enabled: true\n  sqlite_path: "+filepath.Join(dir, "provenance.db")+"\n")

	_, err := execute(t, "", "--config", cfg, "run", "-s", "Causal", "--target", "0.5", causalGoal)
	require.NoError(t, err)

	out, err := execute(t, "", "--config", cfg, "-o", "json", "strategies")
	require.NoError(t, err)
	var rows []strategyRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)

	var causal *strategyRow
	for i := range rows {
		if rows[i].Name == "Causal" {
			causal = &rows[i]
		}
	}
	require.NotNil(t, causal)
	require.NotNil(t, causal.History, "a recorded chain should show up in the history")
	assert.GreaterOrEqual(t, causal.History.Attempts, 1)
}

func TestStrategiesCommand(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, "", "--config", cfg, "-o", "json", "strategies")
	require.NoError(t, err)
	var all []strategyRow
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Len(t, all, 20)

	out, err = execute(t, "", "--config", cfg, "-o", "json", "strategies", "--cognitive")
	require.NoError(t, err)
	var compatible []strategyRow
	require.NoError(t, json.Unmarshal([]byte(out), &compatible))
	assert.Len(t, compatible, 17)
	for _, r := range compatible {
		assert.True(t, r.CognitiveCompatible, r.Name)
		assert.Nil(t, r.History)
	}

	text, err := execute(t, "", "--config", cfg, "strategies")
	require.NoError(t, err)
	assert.Contains(t, text, "Causal")
}

func TestReplCommand(t *testing.T) {
	cfg := writeConfig(t, "")
	stdin := "\n" + causalGoal + "\nquit\nnever reached\n"
	out, err := execute(t, stdin, "--config", cfg, "repl", "-s", "Causal", "--target", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Reasoner ready.")
	assert.Contains(t, out, "[turn-1] outcome=converged")
	assert.NotContains(t, out, "[turn-2]")
}

func TestSuperposeCommand(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "", "--config", cfg, "-o", "json", "superpose", "--resolve", "highest_confidence", "rain", "sprinkler", "flood")
	require.NoError(t, err)

	var got superposeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, []string{"rain", "sprinkler", "flood"}, got.State.Concepts)
	require.NotNil(t, got.Resolution)
	assert.Contains(t, got.State.Concepts, got.Resolution.Concept)
	assert.Equal(t, 1, got.State.MeasurementCount)

	_, err = execute(t, "", "--config", cfg, "superpose", "--resolve", "coin_flip", "rain")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestLinkCommand(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "", "--config", cfg, "-o", "json", "link", "rain", "wet streets")
	require.NoError(t, err)

	var got linkOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"wet streets"}, got.NeighborsA)
	assert.Equal(t, []string{"rain"}, got.NeighborsB)

	_, err = execute(t, "", "--config", cfg, "link", "rain", "rain")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestVersionSkipsSetup(t *testing.T) {
	out, err := execute(t, "", "--config", "/nonexistent/dir/reasoner.yaml", "-o", "xml", "version")
	require.NoError(t, err)
	assert.Equal(t, "reasoner version dev\n", out)
}
