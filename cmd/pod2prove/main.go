package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/robknight/pod2-prover/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dbPath     string
	jsonOutput bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pod2prove",
	Short: "pod2prove - deduction prover for POD2 statements",
	Long: `pod2prove derives new POD2 statements from a set of known facts.

Facts are statements over anchored keys (ValueOf, Equal, Gt, Contains, ...).
Targets may carry a wildcard anchored key; the prover finds every provable
binding and emits a machine-checkable deduction chain for each.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if cfg.Logging.Format == "text" {
			zcfg.Encoding = "console"
		}
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to parse log level: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// storePath resolves the fact database location: the --db flag wins,
// then the configured default.
func storePath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.Store.DatabasePath
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pod2prove.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Fact database (overrides configuration)")

	proveCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit proofs as JSON")

	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(factsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
