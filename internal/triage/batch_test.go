package triage

import (
	"context"
	"testing"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/github"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

func TestBatchRun_ProcessesIssues(t *testing.T) {
	gh := &fakeTracker{labelIssues: []*models.Issue{
		{Org: "acme", Repo: "server", Number: 1, Title: "Spotify broken", Body: "spotify stopped"},
		{Org: "acme", Repo: "server", Number: 2, Title: "Sonos dropout", Body: "sonos player gone"},
	}}
	agent := newTestAgent(gh, nil, nil)
	runner := NewRunner(agent, NewExecutor(gh, false))

	results, stats, err := runner.Run(context.Background(), BatchOptions{
		Org: "acme", Repo: "server", Label: "triage", Max: 10,
	})
	if err != nil {
		t.Fatal(err)
	}

	if stats.Processed != 2 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want 2 processed", stats)
	}
	if len(results) != 2 {
		t.Fatalf("expected one result per issue, got %d", len(results))
	}
	for _, r := range results {
		if r.Skipped {
			t.Errorf("issue #%d unexpectedly skipped", r.IssueNumber)
		}
		if r.IssueID == "" {
			t.Errorf("issue #%d result missing issue id", r.IssueNumber)
		}
	}
	if len(gh.addedLabels) == 0 {
		t.Error("expected provider labels to be applied")
	}
}

func TestBatchRun_SkipsProcessed(t *testing.T) {
	gh := &fakeTracker{
		labelIssues: []*models.Issue{
			{Org: "acme", Repo: "server", Number: 1, Title: "Spotify broken", Body: "spotify"},
		},
		comments: []github.Comment{{Body: "## 🔍 Similar Issues Found\n\nold run"}},
	}
	agent := newTestAgent(gh, nil, nil)
	runner := NewRunner(agent, NewExecutor(gh, false))

	results, stats, err := runner.Run(context.Background(), BatchOptions{
		Org: "acme", Repo: "server", Label: "triage", Max: 10, SkipProcessed: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if stats.Skipped != 1 || stats.Processed != 0 {
		t.Errorf("stats = %+v, want 1 skipped", stats)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	r := results[0]
	if !r.Skipped || r.SkipReason == "" {
		t.Errorf("result = %+v, want skipped with a reason", r)
	}
	if r.IssueID != (&models.Issue{Org: "acme", Repo: "server", Number: 1}).UUID() {
		t.Errorf("issue id = %q, want deterministic issue UUID", r.IssueID)
	}
	if len(gh.postedComments) != 0 {
		t.Error("skipped issue must not be mutated")
	}
}

func TestBatchOptionsFromConfig(t *testing.T) {
	cfg := config.Default()

	opts := BatchOptionsFromConfig(&cfg.Batch, "acme", "server")

	if opts.Label != "triage" || opts.Max != 10 || !opts.SkipProcessed {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Delay.Seconds() != 5 {
		t.Errorf("delay = %v, want 5s", opts.Delay)
	}
}
