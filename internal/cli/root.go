package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/logging"
)

var (
	cfgFile string
	dryRun  bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "gh-maestro",
	Short: "Maestro issue triage bot",
	Long: `gh-maestro triages issues on the Maestro server repository: it labels
issues by detected provider, assigns provider maintainers, validates the
issue template, surfaces similar issues and analyzes attached log files
against a catalog of known error patterns (optionally backed by AI).`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "plan only, skip all tracker writes")

	rootCmd.AddCommand(newTriageCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gh-maestro version %s\n", version)
		},
	}
}

// loadConfig resolves and loads configuration, falling back to built-in
// defaults when no config file exists. Logging is initialized from the
// resulting config so every command gets structured output.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config

	cfgPath := config.FindConfigPath(cfgFile)
	if cfgPath == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)

	if cfgPath == "" {
		logging.New("cli").Warn("no config file found, using built-in defaults")
	}

	return cfg, nil
}
