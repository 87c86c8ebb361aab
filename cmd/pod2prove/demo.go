package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robknight/pod2-prover/internal/engine"
	"github.com/robknight/pod2-prover/internal/types"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in worked example",
	Long: `Asserts X = Y, Y > Z, Z = W plus one irrelevant value entry, then
proves Y != Z from the order statement.`,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	eng, err := engine.New(cfg.EngineLimits(), engine.WithLogger(logger))
	if err != nil {
		return err
	}

	facts := []types.Statement{
		types.Equal(types.At("X", "X"), types.At("Y", "Y")),
		types.Gt(types.At("Y", "Y"), types.At("Z", "Z")),
		types.Equal(types.At("Z", "Z"), types.At("W", "W")),
		types.ValueOf(types.At("A", "A"), types.String("Hello")),
	}
	if err := eng.AddFacts(facts); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Known facts:")
	for _, fact := range facts {
		fmt.Fprintf(out, "  %s\n", fact)
	}

	target := types.NotEqual(types.At("Y", "Y"), types.At("Z", "Z"))
	fmt.Fprintf(out, "\nTarget: %s\n", target)

	proofs, err := eng.Prove(cmd.Context(), target)
	if err != nil {
		return err
	}
	if len(proofs) == 0 {
		fmt.Fprintln(out, "Cannot prove the target statement")
		return nil
	}

	fmt.Fprintln(out, "We can prove the target statement!")
	for _, proof := range proofs {
		fmt.Fprintln(out, proof.Render())
	}
	return nil
}
