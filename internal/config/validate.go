package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Manifest.ServerRepo != "" && !strings.Contains(cfg.Manifest.ServerRepo, "/") {
		errs = append(errs, ValidationError{"manifest.server_repo", "must be in format 'org/repo'"})
	}
	if cfg.Manifest.PathTemplate != "" && !strings.Contains(cfg.Manifest.PathTemplate, "%s") {
		errs = append(errs, ValidationError{"manifest.path_template", "must contain %s for the provider id"})
	}

	// Alias strings are matched case-insensitively; require them lowercase
	// so overlap review stays a configuration-time concern.
	for id, aliases := range cfg.Providers.AliasTable() {
		for _, alias := range aliases {
			if alias != strings.ToLower(alias) {
				errs = append(errs, ValidationError{
					"providers." + id,
					fmt.Sprintf("alias %q must be lowercase", alias),
				})
			}
			if strings.TrimSpace(alias) == "" {
				errs = append(errs, ValidationError{"providers." + id, "empty alias"})
			}
		}
	}

	if cfg.LLM.Provider != "" {
		switch cfg.LLM.Provider {
		case "anthropic", "openai", "gemini":
		default:
			errs = append(errs, ValidationError{"llm.provider", "must be 'anthropic', 'openai' or 'gemini'"})
		}
	}

	if cfg.Similar.MaxResults < 0 {
		errs = append(errs, ValidationError{"similar.max_results", "must not be negative"})
	}
	if cfg.Analysis.MaxIssuesInComment < 1 {
		errs = append(errs, ValidationError{"analysis.max_issues_in_comment", "must be at least 1"})
	}
	if cfg.Analysis.DownloadTimeoutSeconds < 1 {
		errs = append(errs, ValidationError{"analysis.download_timeout_seconds", "must be at least 1"})
	}

	return errs
}
