package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/logging"
)

// Manifest is the small JSON document describing a provider in the server
// repository. Only the maintainer list is consumed here.
type Manifest struct {
	Name        string   `json:"name"`
	Maintainers []string `json:"maintainers"`
}

// ManifestClient fetches provider manifests from the server repository.
type ManifestClient struct {
	baseURL        string
	pathTemplate   string
	excludeAccount string
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewManifestClient builds a manifest client from configuration.
func NewManifestClient(cfg *config.ManifestConfig) *ManifestClient {
	return &ManifestClient{
		baseURL:        fmt.Sprintf("https://raw.githubusercontent.com/%s/main", cfg.ServerRepo),
		pathTemplate:   cfg.PathTemplate,
		excludeAccount: strings.ToLower(cfg.ExcludeAccount),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logging.New("manifest"),
	}
}

// Maintainers fetches the manifest for a provider and returns its maintainer
// usernames, excluding the generic org account. Absence or fetch failure
// yields an empty list, never an error.
func (m *ManifestClient) Maintainers(ctx context.Context, provider string) []string {
	manifest, err := m.fetch(ctx, provider)
	if err != nil {
		m.logger.Warn("could not fetch manifest", "provider", provider, "error", err)
		return nil
	}

	var maintainers []string
	for _, u := range manifest.Maintainers {
		if strings.ToLower(u) == m.excludeAccount {
			continue
		}
		maintainers = append(maintainers, u)
	}
	return maintainers
}

func (m *ManifestClient) fetch(ctx context.Context, provider string) (*Manifest, error) {
	url := fmt.Sprintf("%s/%s", m.baseURL, fmt.Sprintf(m.pathTemplate, provider))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest fetch returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest body: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	return &manifest, nil
}
