package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/maestrobot/gh-maestro/pkg/models"
)

// GetIssue fetches a single issue
func (c *Client) GetIssue(ctx context.Context, org, repo string, number int) (*models.Issue, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", org, repo, number)

	var ai Issue
	if err := c.rest.Get(endpoint, &ai); err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	return ai.ToModel(org, repo), nil
}

// ListIssuesByLabel fetches open issues with a specific label, most recently
// created first, with pagination. Pull requests are filtered out.
func (c *Client) ListIssuesByLabel(ctx context.Context, org, repo, label string, max int) ([]*models.Issue, error) {
	var allIssues []*models.Issue
	page := 1
	perPage := 100
	if max > 0 && max < perPage {
		perPage = max
	}

	for {
		params := url.Values{}
		params.Set("labels", label)
		params.Set("state", "open")
		params.Set("per_page", strconv.Itoa(perPage))
		params.Set("page", strconv.Itoa(page))
		params.Set("sort", "created")
		params.Set("direction", "desc")

		endpoint := fmt.Sprintf("repos/%s/%s/issues?%s", org, repo, params.Encode())

		var apiIssues []Issue
		if err := c.rest.Get(endpoint, &apiIssues); err != nil {
			return nil, fmt.Errorf("failed to list issues by label: %w", err)
		}

		if len(apiIssues) == 0 {
			break
		}

		for _, ai := range apiIssues {
			if ai.PullRequest != nil {
				continue
			}
			allIssues = append(allIssues, ai.ToModel(org, repo))
			if max > 0 && len(allIssues) >= max {
				return allIssues, nil
			}
		}

		if len(apiIssues) < perPage {
			break
		}
		page++
	}

	return allIssues, nil
}
