package triage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/maestrobot/gh-maestro/internal/analyzer"
	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/github"
	"github.com/maestrobot/gh-maestro/internal/logging"
	"github.com/maestrobot/gh-maestro/internal/providers"
	"github.com/maestrobot/gh-maestro/internal/report"
	"github.com/maestrobot/gh-maestro/internal/similar"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

// Tracker is the issue-tracker capability the agent depends on. The concrete
// github.Client satisfies it; tests supply fakes.
type Tracker interface {
	GetIssue(ctx context.Context, org, repo string, number int) (*models.Issue, error)
	ListComments(ctx context.Context, org, repo string, number int) ([]github.Comment, error)
	PostComment(ctx context.Context, org, repo string, number int, body string) error
	AddLabels(ctx context.Context, org, repo string, number int, labels []string) error
	AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error
	SearchOpenIssues(ctx context.Context, org, repo, query string, limit int) ([]*models.Issue, error)
	ListIssuesByLabel(ctx context.Context, org, repo, label string, max int) ([]*models.Issue, error)
}

// MaintainerSource resolves a provider id to its maintainer logins.
// Failures yield an empty list, never an error.
type MaintainerSource interface {
	Maintainers(ctx context.Context, provider string) []string
}

// LogAnalyzer produces a Markdown analysis comment from issue context, or
// "" when there is nothing to say.
type LogAnalyzer interface {
	Analyze(ctx context.Context, title, body string) string
}

// Agent plans and applies the full triage pass for one issue or PR.
type Agent struct {
	cfg       *config.Config
	gh        Tracker
	extractor *providers.Extractor
	manifests MaintainerSource
	validator *report.Validator
	ranker    *similar.Ranker
	analyzer  LogAnalyzer
	logger    *slog.Logger
}

// NewAgent creates a triage agent. analyzer may be nil to skip log analysis.
func NewAgent(cfg *config.Config, gh Tracker, manifests MaintainerSource, analyzer LogAnalyzer) *Agent {
	return &Agent{
		cfg:       cfg,
		gh:        gh,
		extractor: providers.NewExtractor(cfg.Providers.AliasTable(), cfg.Providers.GenericAliases),
		manifests: manifests,
		validator: report.NewValidator(&cfg.Template),
		ranker:    similar.NewRanker(&cfg.Similar),
		analyzer:  analyzer,
		logger:    logging.New("triage"),
	}
}

// Plan computes the triage result for an issue without mutating the tracker.
// Sub-steps are individually fault-tolerant: a failing step logs a warning
// and contributes nothing rather than aborting the pass.
func (a *Agent) Plan(ctx context.Context, issue *models.Issue) (*Result, error) {
	result := &Result{IssueNumber: issue.Number}

	comments, err := a.gh.ListComments(ctx, issue.Org, issue.Repo, issue.Number)
	if err != nil {
		a.logger.Warn("failed to list comments, idempotency markers unavailable", "error", err)
	}

	sections := report.ParseSections(issue.Body)

	detected := a.detectProviders(issue, sections)
	result.Providers = providers.Sorted(detected)
	a.logger.Info("detected providers", "issue", issue.Number, "providers", result.Providers)

	a.planLabels(issue, result)
	a.planAssignees(ctx, issue, result)

	// Validation, similar issues and log analysis are issue-only concerns.
	if issue.IsPullRequest {
		return result, nil
	}

	a.planValidation(issue, sections, comments, result)
	a.planSimilar(ctx, issue, detected, comments, result)
	a.planLogAnalysis(ctx, issue, comments, result)

	return result, nil
}

// Run plans and executes triage for an issue, returning a summary.
func (a *Agent) Run(ctx context.Context, issue *models.Issue, executor *Executor) (*models.TriageResult, error) {
	result, err := a.Plan(ctx, issue)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, issue, result), nil
}

// detectProviders extracts provider ids from the issue title plus the body
// sections where providers are actually named. Bodies that don't follow the
// template fall back to a full-body scan.
func (a *Agent) detectProviders(issue *models.Issue, sections map[string]string) map[string]bool {
	var b strings.Builder
	b.WriteString(issue.Title)
	b.WriteString("\n")

	found := false
	for _, name := range []string{"The problem", "Music Providers", "Player Providers"} {
		if content, ok := sections[name]; ok {
			b.WriteString(content)
			b.WriteString("\n")
			found = true
		}
	}
	if !found {
		b.WriteString(issue.Body)
	}

	return a.extractor.DetectFiltered(b.String())
}

// planLabels adds one label per detected provider not already present.
func (a *Agent) planLabels(issue *models.Issue, result *Result) {
	for _, provider := range result.Providers {
		if issue.HasLabel(provider) {
			continue
		}
		result.Actions = append(result.Actions, Action{
			Type:   ActionAddLabel,
			Label:  provider,
			Reason: fmt.Sprintf("provider %s detected in issue", provider),
		})
	}
}

// planAssignees resolves maintainers for each detected provider and plans
// an assignment for the ones not already assigned.
func (a *Agent) planAssignees(ctx context.Context, issue *models.Issue, result *Result) {
	assigned := make(map[string]bool, len(issue.Assignees))
	for _, login := range issue.Assignees {
		assigned[login] = true
	}

	maintainers := make(map[string]bool)
	for _, provider := range result.Providers {
		for _, login := range a.manifests.Maintainers(ctx, provider) {
			if !assigned[login] {
				maintainers[login] = true
			}
		}
	}
	if len(maintainers) == 0 {
		return
	}

	logins := make([]string, 0, len(maintainers))
	for login := range maintainers {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	result.Maintainers = logins

	result.Actions = append(result.Actions, Action{
		Type:      ActionAssign,
		Assignees: logins,
		Reason:    "provider maintainers from manifest",
	})
}

func (a *Agent) planValidation(issue *models.Issue, sections map[string]string, comments []github.Comment, result *Result) {
	findings := a.validator.Validate(issue.Body, sections, analyzer.HasAttachment(issue.Body))
	if len(findings) == 0 {
		return
	}
	result.Findings = findings

	if github.CommentsContain(comments, MarkerValidation) {
		a.logger.Info("validation comment already exists, skipping", "issue", issue.Number)
		return
	}

	result.Actions = append(result.Actions, Action{
		Type:    ActionComment,
		Comment: composeValidationComment(findings, a.cfg.Template.DocsURL),
		Reason:  "issue template validation findings",
	})
}

func (a *Agent) planSimilar(ctx context.Context, issue *models.Issue, detected map[string]bool, comments []github.Comment, result *Result) {
	found := a.ranker.Find(ctx, similar.Input{
		Org:               issue.Org,
		Repo:              issue.Repo,
		Number:            issue.Number,
		Title:             issue.Title,
		DetectedProviders: detected,
	}, a.gh)
	if len(found) == 0 {
		a.logger.Info("no similar issues found", "issue", issue.Number)
		return
	}
	result.Similar = found

	if github.CommentsContain(comments, MarkerSimilar) {
		a.logger.Info("similar issues comment already exists, skipping", "issue", issue.Number)
		return
	}

	result.Actions = append(result.Actions, Action{
		Type:    ActionComment,
		Comment: composeSimilarComment(found, a.cfg.Similar.MaxShown),
		Reason:  fmt.Sprintf("%d similar issue(s) found", len(found)),
	})
}

func (a *Agent) planLogAnalysis(ctx context.Context, issue *models.Issue, comments []github.Comment, result *Result) {
	if a.analyzer == nil {
		return
	}
	if github.CommentsContain(comments, MarkerLogAnalysis, MarkerAIAnalysis) {
		a.logger.Info("log analysis comment already exists, skipping", "issue", issue.Number)
		return
	}

	comment := a.analyzer.Analyze(ctx, issue.Title, issue.Body)
	if comment == "" {
		a.logger.Info("no issues detected in logs or no logs found", "issue", issue.Number)
		return
	}

	result.Actions = append(result.Actions, Action{
		Type:    ActionComment,
		Comment: comment,
		Reason:  "log analysis produced findings",
	})
}

// composeValidationComment renders template findings as a Markdown comment.
func composeValidationComment(findings []report.Finding, docsURL string) string {
	var b strings.Builder
	b.WriteString("## ⚠️ Issue Template Validation\n\n")
	b.WriteString("Thank you for reporting this issue! However, there are some problems with the issue template:\n\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "- %s\n", f.Message)
	}
	b.WriteString("\n")
	b.WriteString("Please update your issue with the missing information. ")
	b.WriteString("Providing complete information helps us resolve issues faster. ")
	fmt.Fprintf(&b, "See the [Troubleshooting Guide](%s) for more details.\n", docsURL)
	return b.String()
}

// composeSimilarComment renders the top similar issues as a Markdown comment.
func composeSimilarComment(found []models.SimilarIssue, maxShown int) string {
	var b strings.Builder
	b.WriteString("## 🔍 Similar Issues Found\n\n")
	b.WriteString("Before proceeding, please check if your issue might be related to or a duplicate of:\n\n")

	shown := found
	if maxShown > 0 && len(shown) > maxShown {
		shown = shown[:maxShown]
	}
	for _, s := range shown {
		fmt.Fprintf(&b, "- #%d: [%s](%s)\n", s.Number, s.Title, s.URL)
	}

	b.WriteString("\nIf your issue is the same as one of the above, please consider adding your information to the existing issue instead. ")
	b.WriteString("This helps us track and resolve issues more efficiently. Thank you! 🙏\n")
	return b.String()
}

// composeMentionComment is the fallback when maintainers cannot be assigned.
func composeMentionComment(maintainers []string) string {
	mentions := make([]string, len(maintainers))
	for i, m := range maintainers {
		mentions[i] = "@" + m
	}
	return fmt.Sprintf("👋 %s - This issue appears to be related to a provider you maintain.", strings.Join(mentions, " "))
}
