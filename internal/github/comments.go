package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ListComments fetches comments on an issue
func (c *Client) ListComments(ctx context.Context, org, repo string, number int) ([]Comment, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d/comments", org, repo, number)

	var comments []Comment
	if err := c.rest.Get(endpoint, &comments); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// PostComment adds a comment to an issue
func (c *Client) PostComment(ctx context.Context, org, repo string, number int, body string) error {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d/comments", org, repo, number)

	payload := map[string]string{"body": body}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := c.rest.Post(endpoint, bytes.NewReader(jsonBody), nil); err != nil {
		return fmt.Errorf("failed to post comment: %w", err)
	}

	return nil
}

// HasCommentContaining reports whether any existing comment contains one of
// the given marker phrases (case-insensitive). The tracker's comment history
// is the source of truth for "already handled".
func (c *Client) HasCommentContaining(ctx context.Context, org, repo string, number int, markers ...string) (bool, error) {
	comments, err := c.ListComments(ctx, org, repo, number)
	if err != nil {
		return false, err
	}

	return CommentsContain(comments, markers...), nil
}

// CommentsContain reports whether any of the comments contains one of the
// marker phrases (case-insensitive).
func CommentsContain(comments []Comment, markers ...string) bool {
	for _, comment := range comments {
		body := strings.ToLower(comment.Body)
		for _, marker := range markers {
			if strings.Contains(body, strings.ToLower(marker)) {
				return true
			}
		}
	}
	return false
}
