package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maestrobot/gh-maestro/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := config.FindConfigPath(cfgFile)
			if cfgPath == "" {
				return fmt.Errorf("config file not found")
			}

			fmt.Printf("Validating config: %s\n", cfgPath)

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Println("\nValidation errors:")
				for _, e := range errs {
					fmt.Printf("  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Println("\nConfiguration is valid!")
			fmt.Printf("  - Server repo: %s\n", cfg.Manifest.ServerRepo)
			fmt.Printf("  - Providers: %d music, %d player\n", len(cfg.Providers.Music), len(cfg.Providers.Players))
			if cfg.LLM.Provider != "" && cfg.LLM.APIKey != "" {
				fmt.Printf("  - AI analysis: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
			} else {
				fmt.Println("  - AI analysis: disabled")
			}

			return nil
		},
	}
}
