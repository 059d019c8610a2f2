package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// AddAssignees assigns users to an issue. Fails for users without repository
// access; callers are expected to fall back to mentioning them in a comment.
func (c *Client) AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error {
	if len(assignees) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d/assignees", org, repo, number)

	payload := map[string][]string{"assignees": assignees}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := c.rest.Post(endpoint, bytes.NewReader(jsonBody), nil); err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}

	return nil
}
