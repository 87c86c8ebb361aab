package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/robknight/pod2-prover/internal/engine"
	"github.com/robknight/pod2-prover/internal/store"
)

var proveCmd = &cobra.Command{
	Use:   "prove [request.yaml]",
	Short: "Prove the targets in a request file",
	Long: `Loads facts and targets from a YAML request file and attempts to prove
every target. When --db is set, stored facts are merged with the request's.

Exits with status 1 if any target is unprovable.`,
	Args: cobra.ExactArgs(1),
	RunE: runProve,
}

// targetResult is the JSON output shape for one target.
type targetResult struct {
	Target string         `json:"target"`
	Proved bool           `json:"proved"`
	Proofs []engine.Proof `json:"proofs"`
}

func runProve(cmd *cobra.Command, args []string) error {
	req, err := loadRequest(args[0])
	if err != nil {
		return err
	}
	facts, err := req.factStatements()
	if err != nil {
		return err
	}
	targets, err := req.proveTargets()
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("request has no targets")
	}

	eng, err := engine.New(cfg.EngineLimits(), engine.WithLogger(logger))
	if err != nil {
		return err
	}

	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		stored, err := st.LoadFacts()
		st.Close()
		if err != nil {
			return err
		}
		logger.Debug("merged stored facts", zap.Int("count", len(stored)), zap.String("db", dbPath))
		if err := eng.AddFacts(stored); err != nil {
			return err
		}
	}
	if err := eng.AddFacts(facts); err != nil {
		return err
	}

	results := make([][]engine.Proof, len(targets))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			proofs, err := target.run(ctx, eng)
			if err != nil {
				return fmt.Errorf("prove %s: %w", target.label, err)
			}
			results[i] = proofs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	unprovable := 0
	for _, proofs := range results {
		if len(proofs) == 0 {
			unprovable++
		}
	}

	if jsonOutput {
		out := make([]targetResult, len(targets))
		for i, target := range targets {
			proofs := results[i]
			if proofs == nil {
				proofs = []engine.Proof{}
			}
			out[i] = targetResult{
				Target: target.label,
				Proved: len(proofs) > 0,
				Proofs: proofs,
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		for i, target := range targets {
			if len(results[i]) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Cannot prove: %s\n", target.label)
				continue
			}
			for _, proof := range results[i] {
				fmt.Fprintln(cmd.OutOrStdout(), proof.Render())
			}
		}
	}

	if unprovable > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d of %d targets unprovable", unprovable, len(targets))
	}
	return nil
}
