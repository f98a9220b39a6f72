// Package cli provides the reasoner command-line interface.
package cli

// #region imports
import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/config"
)

// #endregion

// #region app

// app holds per-invocation state shared by every subcommand.
type app struct {
	configPath string
	output     string

	cfg *config.Config
	eng *engine

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// #endregion

// #region root

// NewRootCommand builds the reasoner command tree bound to the process stdio.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithIO(os.Stdin, os.Stdout, os.Stderr)
}

// NewRootCommandWithIO builds the command tree with explicit streams.
func NewRootCommandWithIO(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{stdin: in, stdout: out, stderr: errOut}

	cmd := &cobra.Command{
		Use:   "reasoner",
		Short: "Multi-strategy reasoning chain orchestrator",
		Long: `reasoner runs reasoning chains over a knowledge corpus.

Each chain picks strategies for the goal, executes them step by step and stops
once the chain's convergence score reaches the target or the step cap is hit.

Quick Start:
  reasoner run "Why are the streets wet after rain?"
  reasoner run --strategy Causal --context cause=rain --context effect="wet streets" "rain and streets"
  reasoner batch goals.txt
  reasoner strategies
  reasoner repl`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file (REASONER_* env vars override it)")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "output format: text | json | yaml")

	cmd.AddCommand(
		newRunCommand(a),
		newBatchCommand(a),
		newReplCommand(a),
		newStrategiesCommand(a),
		newSuperposeCommand(a),
		newLinkCommand(a),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the CLI against the process stdio and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// #endregion

// #region lifecycle

func (a *app) setup(cmd *cobra.Command) error {
	if err := checkOutput(a.output); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if errList := cfg.Validate(); len(errList) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errList...))
	}
	a.cfg = cfg

	eng, err := buildEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	a.eng = eng
	return nil
}

// runE adapts fn to a cobra RunE that releases the engine afterwards, whether
// or not fn failed.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		return errors.Join(err, a.teardown())
	}
}

func (a *app) teardown() error {
	if a.eng == nil {
		return nil
	}
	err := a.eng.close()
	a.eng = nil
	return err
}

// #endregion

var version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reasoner version %s\n", version)
		},
	}
}
