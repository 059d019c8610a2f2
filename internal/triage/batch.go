package triage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/github"
	"github.com/maestrobot/gh-maestro/internal/logging"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

// BatchOptions controls a batch triage run over a repository.
type BatchOptions struct {
	Org           string
	Repo          string
	Label         string
	Max           int
	SkipProcessed bool
	Delay         time.Duration
}

// Runner triages open issues in bulk, paced to stay within API limits.
type Runner struct {
	agent    *Agent
	executor *Executor
	gh       Tracker
	logger   *slog.Logger
}

// NewRunner creates a batch runner sharing the agent's tracker client.
func NewRunner(agent *Agent, executor *Executor) *Runner {
	return &Runner{
		agent:    agent,
		executor: executor,
		gh:       agent.gh,
		logger:   logging.New("batch"),
	}
}

// BatchOptionsFromConfig seeds options from the batch config section.
func BatchOptionsFromConfig(cfg *config.BatchConfig, org, repo string) BatchOptions {
	return BatchOptions{
		Org:           org,
		Repo:          repo,
		Label:         cfg.Label,
		Max:           cfg.Max,
		SkipProcessed: true,
		Delay:         time.Duration(cfg.DelaySeconds) * time.Second,
	}
}

// Run lists open issues matching the label and triages each in turn,
// returning one result per issue alongside the aggregate stats.
// Already-processed issues (detected via bot comment markers) are skipped
// when SkipProcessed is set and surface as results with Skipped set.
// Per-issue failures are counted, not fatal.
func (r *Runner) Run(ctx context.Context, opts BatchOptions) ([]*models.TriageResult, *models.BatchStats, error) {
	issues, err := r.gh.ListIssuesByLabel(ctx, opts.Org, opts.Repo, opts.Label, opts.Max)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list issues: %w", err)
	}
	r.logger.Info("starting batch triage",
		"repo", opts.Org+"/"+opts.Repo, "label", opts.Label, "issues", len(issues))

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	var results []*models.TriageResult
	stats := &models.BatchStats{}
	for _, issue := range issues {
		if err := limiter.Wait(ctx); err != nil {
			return results, stats, err
		}

		if opts.SkipProcessed {
			processed, err := r.alreadyProcessed(ctx, issue)
			if err != nil {
				r.logger.Warn("failed to check processed state", "issue", issue.Number, "error", err)
			} else if processed {
				r.logger.Info("skipping already-processed issue", "issue", issue.Number)
				results = append(results, &models.TriageResult{
					IssueID:     issue.UUID(),
					IssueNumber: issue.Number,
					Skipped:     true,
					SkipReason:  "bot comment already present",
				})
				stats.Skipped++
				continue
			}
		}

		summary, err := r.agent.Run(ctx, issue, r.executor)
		if err != nil {
			r.logger.Warn("triage failed", "issue", issue.Number, "error", err)
			results = append(results, &models.TriageResult{
				IssueID:     issue.UUID(),
				IssueNumber: issue.Number,
				Error:       err.Error(),
			})
			stats.Errors++
			continue
		}
		if summary.Error != "" {
			stats.Errors++
		}
		results = append(results, summary)
		stats.Processed++
	}

	r.logger.Info("batch triage complete",
		"processed", stats.Processed, "skipped", stats.Skipped, "errors", stats.Errors)
	return results, stats, nil
}

// alreadyProcessed reports whether any bot marker comment exists on the issue.
func (r *Runner) alreadyProcessed(ctx context.Context, issue *models.Issue) (bool, error) {
	comments, err := r.gh.ListComments(ctx, issue.Org, issue.Repo, issue.Number)
	if err != nil {
		return false, err
	}
	return github.CommentsContain(comments,
		MarkerValidation, MarkerSimilar, MarkerLogAnalysis, MarkerAIAnalysis), nil
}
