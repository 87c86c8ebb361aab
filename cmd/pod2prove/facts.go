package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robknight/pod2-prover/internal/store"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Manage the persistent fact store",
}

var factsAddCmd = &cobra.Command{
	Use:   "add [request.yaml]",
	Short: "Add the facts from a request file to the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runFactsAdd,
}

var factsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored facts",
	RunE:  runFactsList,
}

var factsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored facts",
	RunE:  runFactsClear,
}

func init() {
	factsCmd.AddCommand(factsAddCmd)
	factsCmd.AddCommand(factsListCmd)
	factsCmd.AddCommand(factsClearCmd)
}

func runFactsAdd(cmd *cobra.Command, args []string) error {
	req, err := loadRequest(args[0])
	if err != nil {
		return err
	}
	facts, err := req.factStatements()
	if err != nil {
		return err
	}
	if len(facts) == 0 {
		return fmt.Errorf("request has no facts")
	}

	st, err := store.Open(storePath())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveFacts(facts); err != nil {
		return err
	}
	logger.Debug("saved facts", zap.Int("count", len(facts)), zap.String("db", st.Path()))
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d facts to %s\n", len(facts), st.Path())
	return nil
}

func runFactsList(cmd *cobra.Command, args []string) error {
	st, err := store.Open(storePath())
	if err != nil {
		return err
	}
	defer st.Close()

	facts, err := st.LoadFacts()
	if err != nil {
		return err
	}
	if len(facts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored facts")
		return nil
	}
	for i, fact := range facts {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", i+1, fact)
	}
	return nil
}

func runFactsClear(cmd *cobra.Command, args []string) error {
	st, err := store.Open(storePath())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", st.Path())
	return nil
}
