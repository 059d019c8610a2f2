package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Providers ProvidersConfig `yaml:"providers"`
	Manifest  ManifestConfig  `yaml:"manifest"`
	Template  TemplateConfig  `yaml:"template"`
	Similar   SimilarConfig   `yaml:"similar"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	LLM       LLMConfig       `yaml:"llm"`
	Batch     BatchConfig     `yaml:"batch"`
}

// LoggingConfig controls slog output
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ProvidersConfig holds the provider alias tables.
// Keys are canonical provider identifiers (also used as label names);
// values are lowercase aliases matched as substrings.
type ProvidersConfig struct {
	Music          map[string][]string `yaml:"music"`
	Players        map[string][]string `yaml:"players"`
	GenericAliases []string            `yaml:"generic_aliases"`
}

// AliasTable flattens music and player providers into a single table
func (p *ProvidersConfig) AliasTable() map[string][]string {
	table := make(map[string][]string, len(p.Music)+len(p.Players))
	for id, aliases := range p.Music {
		table[id] = aliases
	}
	for id, aliases := range p.Players {
		table[id] = aliases
	}
	return table
}

// ManifestConfig locates provider manifests in the server repository
type ManifestConfig struct {
	ServerRepo     string `yaml:"server_repo"`     // "org/repo"
	PathTemplate   string `yaml:"path_template"`   // contains %s for provider id
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ExcludeAccount string `yaml:"exclude_account"` // org-wide account, never assigned
}

// TemplateConfig controls issue template validation
type TemplateConfig struct {
	RequiredSections []string `yaml:"required_sections"`
	LogSection       string   `yaml:"log_section"`
	PastedLogChars   int      `yaml:"pasted_log_chars"`   // above this, log was pasted not attached
	MinLogChars      int      `yaml:"min_log_chars"`      // below this, nothing was attached
	PlaceholderTexts []string `yaml:"placeholder_texts"`
	DocsURL          string   `yaml:"docs_url"`
}

// SimilarConfig controls duplicate candidate search
type SimilarConfig struct {
	MaxResults   int      `yaml:"max_results"`
	MaxShown     int      `yaml:"max_shown"`
	MaxProviders int      `yaml:"max_providers"` // providers added to the search query
	MaxKeywords  int      `yaml:"max_keywords"`  // title keywords added to the query
	Stopwords    []string `yaml:"stopwords"`
}

// AnalysisConfig controls log download and classification
type AnalysisConfig struct {
	MaxIssuesInComment     int `yaml:"max_issues_in_comment"`
	MaxLogChars            int `yaml:"max_log_chars"` // prompt budget for AI analysis
	DownloadTimeoutSeconds int `yaml:"download_timeout_seconds"`
	DownloadConcurrency    int `yaml:"download_concurrency"`
}

// LLMConfig contains AI analysis settings. An empty APIKey after env
// expansion means the AI step is disabled, which is the normal path.
type LLMConfig struct {
	Provider string `yaml:"provider"` // anthropic, openai, gemini
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// BatchConfig contains batch-run defaults
type BatchConfig struct {
	Max          int    `yaml:"max"`
	Label        string `yaml:"label"`
	DelaySeconds int    `yaml:"delay_seconds"`
}

// Load reads and parses config from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns the built-in configuration used when no config file is
// found or the file cannot be parsed.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		".github/maestro.yaml",
		".github/maestro.yml",
		"maestro.yaml",
		"maestro.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "gh-maestro", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Providers.Music == nil {
		cfg.Providers.Music = defaultMusicProviders()
	}
	if cfg.Providers.Players == nil {
		cfg.Providers.Players = defaultPlayerProviders()
	}
	if cfg.Providers.GenericAliases == nil {
		cfg.Providers.GenericAliases = []string{"url"}
	}

	if cfg.Manifest.ServerRepo == "" {
		cfg.Manifest.ServerRepo = "maestrobot/server"
	}
	if cfg.Manifest.PathTemplate == "" {
		cfg.Manifest.PathTemplate = "maestro/providers/%s/manifest.json"
	}
	if cfg.Manifest.TimeoutSeconds == 0 {
		cfg.Manifest.TimeoutSeconds = 10
	}
	if cfg.Manifest.ExcludeAccount == "" {
		cfg.Manifest.ExcludeAccount = "maestrobot"
	}

	if cfg.Template.RequiredSections == nil {
		cfg.Template.RequiredSections = []string{
			"The problem",
			"How to reproduce",
			"Music Providers",
			"Player Providers",
			"Full log output",
			"Additional information",
		}
	}
	if cfg.Template.LogSection == "" {
		cfg.Template.LogSection = "Full log output"
	}
	if cfg.Template.PastedLogChars == 0 {
		cfg.Template.PastedLogChars = 200
	}
	if cfg.Template.MinLogChars == 0 {
		cfg.Template.MinLogChars = 50
	}
	if cfg.Template.PlaceholderTexts == nil {
		cfg.Template.PlaceholderTexts = []string{
			"DO NOT PASTE the log here",
			"For Audiobookshelf include broken book ASINs here",
		}
	}
	if cfg.Template.DocsURL == "" {
		cfg.Template.DocsURL = "https://maestrohq.io/faq/troubleshooting"
	}

	if cfg.Similar.MaxResults == 0 {
		cfg.Similar.MaxResults = 5
	}
	if cfg.Similar.MaxShown == 0 {
		cfg.Similar.MaxShown = 3
	}
	if cfg.Similar.MaxProviders == 0 {
		cfg.Similar.MaxProviders = 2
	}
	if cfg.Similar.MaxKeywords == 0 {
		cfg.Similar.MaxKeywords = 3
	}
	if cfg.Similar.Stopwords == nil {
		cfg.Similar.Stopwords = []string{
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
			"for", "with", "issue", "error", "problem", "not", "working",
		}
	}

	if cfg.Analysis.MaxIssuesInComment == 0 {
		cfg.Analysis.MaxIssuesInComment = 5
	}
	if cfg.Analysis.MaxLogChars == 0 {
		cfg.Analysis.MaxLogChars = 50000
	}
	if cfg.Analysis.DownloadTimeoutSeconds == 0 {
		cfg.Analysis.DownloadTimeoutSeconds = 30
	}
	if cfg.Analysis.DownloadConcurrency == 0 {
		cfg.Analysis.DownloadConcurrency = 4
	}

	if cfg.LLM.Provider == "" && os.Getenv("ANTHROPIC_API_KEY") != "" {
		cfg.LLM.Provider = "anthropic"
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.LLM.Provider == "anthropic" && cfg.LLM.Model == "" {
		cfg.LLM.Model = "claude-3-5-sonnet-20241022"
	}

	if cfg.Batch.Max == 0 {
		cfg.Batch.Max = 10
	}
	if cfg.Batch.Label == "" {
		cfg.Batch.Label = "triage"
	}
	if cfg.Batch.DelaySeconds == 0 {
		cfg.Batch.DelaySeconds = 5
	}
}

func defaultMusicProviders() map[string][]string {
	return map[string][]string{
		"spotify":       {"spotify"},
		"tidal":         {"tidal"},
		"qobuz":         {"qobuz"},
		"apple_music":   {"apple", "applemusic", "apple music"},
		"deezer":        {"deezer"},
		"youtube_music": {"ytmusic", "youtubemusic", "youtube music", "youtube_music"},
		"soundcloud":    {"soundcloud"},
		"tunein":        {"tunein"},
		"plex":          {"plex"},
		"jellyfin":      {"jellyfin"},
		"subsonic":      {"subsonic"},
	}
}

func defaultPlayerProviders() map[string][]string {
	return map[string][]string{
		"sonos":     {"sonos"},
		"airplay":   {"airplay"},
		"cast":      {"cast", "chromecast"},
		"dlna":      {"dlna"},
		"snapcast":  {"snapcast"},
		"slimproto": {"slimproto", "squeezebox"},
	}
}
