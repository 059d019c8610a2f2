package triage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maestrobot/gh-maestro/internal/logging"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

// Executor applies planned triage actions to the tracker.
type Executor struct {
	gh     Tracker
	dryRun bool
	logger *slog.Logger
}

// NewExecutor creates a new action executor
func NewExecutor(gh Tracker, dryRun bool) *Executor {
	return &Executor{
		gh:     gh,
		dryRun: dryRun,
		logger: logging.New("executor"),
	}
}

// Execute performs all actions in a triage result. A failing action is
// logged and counted but never stops the remaining actions.
func (e *Executor) Execute(ctx context.Context, issue *models.Issue, result *Result) *models.TriageResult {
	summary := &models.TriageResult{
		IssueID:     issue.UUID(),
		IssueNumber: issue.Number,
		Providers:   result.Providers,
	}

	for _, action := range result.Actions {
		if err := e.executeAction(ctx, issue, action, summary); err != nil {
			e.logger.Warn("action failed", "type", action.Type, "issue", issue.Number, "error", err)
			summary.Error = err.Error()
		}
	}

	return summary
}

func (e *Executor) executeAction(ctx context.Context, issue *models.Issue, action Action, summary *models.TriageResult) error {
	e.logger.Info("executing action", "type", action.Type, "issue", issue.Number, "reason", action.Reason)

	if e.dryRun {
		e.logger.Info("[dry-run] skipping tracker mutation", "type", action.Type, "issue", issue.Number)
		return nil
	}

	switch action.Type {
	case ActionAddLabel:
		if err := e.gh.AddLabels(ctx, issue.Org, issue.Repo, issue.Number, []string{action.Label}); err != nil {
			return err
		}
		summary.LabelsAdded = append(summary.LabelsAdded, action.Label)
		return nil

	case ActionAssign:
		if err := e.gh.AddAssignees(ctx, issue.Org, issue.Repo, issue.Number, action.Assignees); err != nil {
			return e.mentionFallback(ctx, issue, action, err)
		}
		summary.AssigneesAdded = append(summary.AssigneesAdded, action.Assignees...)
		return nil

	case ActionComment:
		if err := e.gh.PostComment(ctx, issue.Org, issue.Repo, issue.Number, action.Comment); err != nil {
			return err
		}
		noteComment(summary, action.Comment)
		return nil

	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}

// noteComment flips the summary flag matching the comment's marker phrase.
func noteComment(summary *models.TriageResult, comment string) {
	lower := strings.ToLower(comment)
	switch {
	case strings.Contains(lower, MarkerValidation):
		summary.ValidationPosted = true
	case strings.Contains(lower, MarkerSimilar):
		summary.SimilarPosted = true
	case strings.Contains(lower, MarkerLogAnalysis), strings.Contains(lower, MarkerAIAnalysis):
		summary.LogAnalysisPosted = true
	}
}

// mentionFallback posts a mention comment when direct assignment fails,
// which happens for maintainers without repository access. PRs get no
// fallback comment.
func (e *Executor) mentionFallback(ctx context.Context, issue *models.Issue, action Action, assignErr error) error {
	e.logger.Warn("failed to assign maintainers, falling back to mention",
		"issue", issue.Number, "assignees", action.Assignees, "error", assignErr)

	if issue.IsPullRequest {
		return assignErr
	}

	comment := composeMentionComment(action.Assignees)
	if err := e.gh.PostComment(ctx, issue.Org, issue.Repo, issue.Number, comment); err != nil {
		return fmt.Errorf("failed to post mention comment: %w", err)
	}
	return nil
}
