// Package main is the entry point for the symptom-checker CLI. It runs
// analyses and manages the catalog and the local feedback database without
// starting a server.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/symptom-checker-server/internal/config"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/knowledge"
	"github.com/symptom-checker-server/internal/logging"
	"github.com/symptom-checker-server/internal/service"
)

// app carries what the subcommands share once flags are parsed.
type app struct {
	cfg    *config.LiteConfig
	logger *logrus.Logger
}

func (a *app) knowledge() (*knowledge.Base, error) {
	return knowledge.Resolve(a.cfg.CatalogFile)
}

func (a *app) service() (*service.SymptomCheckerService, error) {
	kb, err := a.knowledge()
	if err != nil {
		return nil, err
	}
	return service.NewSymptomCheckerService(a.logger, kb), nil
}

func (a *app) openFeedback() (*feedback.SQLiteStore, error) {
	if err := a.cfg.EnsureDataDir(); err != nil {
		return nil, err
	}
	return feedback.NewSQLiteStore(a.cfg.FeedbackDBPath())
}

// logLevel picks the CLI log level: the flag, then SYMPTOM_LOG_LEVEL, then warn.
func (a *app) logLevel(cmd *cobra.Command) string {
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		return level
	}
	if os.Getenv("SYMPTOM_LOG_LEVEL") != "" {
		return a.cfg.LogLevel
	}
	return "warn"
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{})
}

func newRootCmdFor(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "symptom-checker",
		Short: "Educational symptom checker",
		Long: `symptom-checker ranks likely conditions for a set of symptoms and suggests
next actions. It is an educational tool and not a substitute for professional
medical advice.

Settings come from SYMPTOM_* environment variables (and a .env file); the flags
below override them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.LoadLiteConfig()

			flags := cmd.Flags()
			if flags.Changed("data-dir") {
				a.cfg.DataDir, _ = flags.GetString("data-dir")
			}
			if flags.Changed("catalog") {
				a.cfg.CatalogFile, _ = flags.GetString("catalog")
			}
			a.logger = logging.New(a.logLevel(cmd), "text", cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the feedback database (default: $SYMPTOM_DATA_DIR or ~/.symptom-checker)")
	rootCmd.PersistentFlags().String("catalog", "", "YAML condition catalog replacing the built-in one")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: $SYMPTOM_LOG_LEVEL or warn)")

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newConditionsCmd(a),
		newNormalizeCmd(a),
		newCatalogCmd(a),
		newFeedbackCmd(a),
		newSetupCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
