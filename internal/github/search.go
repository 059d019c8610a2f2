package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/maestrobot/gh-maestro/pkg/models"
)

type searchResponse struct {
	TotalCount int     `json:"total_count"`
	Items      []Issue `json:"items"`
}

// SearchOpenIssues runs a text search over open issues in a repository,
// most recently updated first.
func (c *Client) SearchOpenIssues(ctx context.Context, org, repo, query string, limit int) ([]*models.Issue, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = 30
	}

	q := fmt.Sprintf("repo:%s/%s is:issue is:open %s", org, repo, query)

	params := url.Values{}
	params.Set("q", q)
	params.Set("sort", "updated")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("search/issues?%s", params.Encode())

	var resp searchResponse
	if err := c.rest.Get(endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	issues := make([]*models.Issue, 0, len(resp.Items))
	for _, ai := range resp.Items {
		if ai.PullRequest != nil {
			continue
		}
		issues = append(issues, ai.ToModel(org, repo))
	}

	return issues, nil
}
