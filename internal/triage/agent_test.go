package triage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/github"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

type fakeTracker struct {
	comments      []github.Comment
	searchResults []*models.Issue
	labelIssues   []*models.Issue

	listCommentsErr error
	addAssigneesErr error

	postedComments []string
	addedLabels    [][]string
	addedAssignees [][]string
	searchQueries  []string
}

func (f *fakeTracker) GetIssue(_ context.Context, org, repo string, number int) (*models.Issue, error) {
	return &models.Issue{Org: org, Repo: repo, Number: number}, nil
}

func (f *fakeTracker) ListComments(_ context.Context, _, _ string, _ int) ([]github.Comment, error) {
	if f.listCommentsErr != nil {
		return nil, f.listCommentsErr
	}
	return f.comments, nil
}

func (f *fakeTracker) PostComment(_ context.Context, _, _ string, _ int, body string) error {
	f.postedComments = append(f.postedComments, body)
	return nil
}

func (f *fakeTracker) AddLabels(_ context.Context, _, _ string, _ int, labels []string) error {
	f.addedLabels = append(f.addedLabels, labels)
	return nil
}

func (f *fakeTracker) AddAssignees(_ context.Context, _, _ string, _ int, assignees []string) error {
	if f.addAssigneesErr != nil {
		return f.addAssigneesErr
	}
	f.addedAssignees = append(f.addedAssignees, assignees)
	return nil
}

func (f *fakeTracker) SearchOpenIssues(_ context.Context, _, _, query string, _ int) ([]*models.Issue, error) {
	f.searchQueries = append(f.searchQueries, query)
	return f.searchResults, nil
}

func (f *fakeTracker) ListIssuesByLabel(_ context.Context, _, _, _ string, _ int) ([]*models.Issue, error) {
	return f.labelIssues, nil
}

type fakeMaintainers struct {
	byProvider map[string][]string
}

func (f *fakeMaintainers) Maintainers(_ context.Context, provider string) []string {
	return f.byProvider[provider]
}

type fakeAnalyzer struct {
	comment string
	calls   int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _, _ string) string {
	f.calls++
	return f.comment
}

// completeBody builds an issue body that passes template validation.
func completeBody() string {
	return strings.Join([]string{
		"### The problem",
		"Playback stops after a few seconds on my Spotify account.",
		"### How to reproduce",
		"Start playback and wait.",
		"### Music Providers",
		"Spotify",
		"### Player Providers",
		"Sonos",
		"### Full log output",
		"https://github.com/acme/server/files/1/server.log",
		"### Additional information",
		"Running the stable release.",
	}, "\n")
}

func testIssue(body string) *models.Issue {
	return &models.Issue{
		Org:    "acme",
		Repo:   "server",
		Number: 42,
		Title:  "Spotify playback stops",
		Body:   body,
		State:  "open",
	}
}

func newTestAgent(gh Tracker, maintainers MaintainerSource, analyzer LogAnalyzer) *Agent {
	cfg := config.Default()
	if maintainers == nil {
		maintainers = &fakeMaintainers{}
	}
	return NewAgent(cfg, gh, maintainers, analyzer)
}

func TestPlan_ProviderLabels(t *testing.T) {
	gh := &fakeTracker{}
	agent := newTestAgent(gh, nil, nil)

	result, err := agent.Plan(context.Background(), testIssue(completeBody()))
	if err != nil {
		t.Fatal(err)
	}

	wantProviders := []string{"sonos", "spotify"}
	if len(result.Providers) != len(wantProviders) {
		t.Fatalf("providers = %v, want %v", result.Providers, wantProviders)
	}
	for i := range wantProviders {
		if result.Providers[i] != wantProviders[i] {
			t.Errorf("providers[%d] = %q, want %q", i, result.Providers[i], wantProviders[i])
		}
	}

	labels := FilterActions(result, ActionAddLabel)
	if len(labels) != 2 {
		t.Fatalf("expected 2 label actions, got %d", len(labels))
	}
}

func TestPlan_SkipsExistingLabels(t *testing.T) {
	gh := &fakeTracker{}
	agent := newTestAgent(gh, nil, nil)

	issue := testIssue(completeBody())
	issue.Labels = []string{"spotify"}

	result, err := agent.Plan(context.Background(), issue)
	if err != nil {
		t.Fatal(err)
	}

	for _, a := range FilterActions(result, ActionAddLabel) {
		if a.Label == "spotify" {
			t.Error("should not re-add an existing label")
		}
	}
}

func TestPlan_AssignsMaintainers(t *testing.T) {
	gh := &fakeTracker{}
	maintainers := &fakeMaintainers{byProvider: map[string][]string{
		"spotify": {"zoe", "alex"},
		"sonos":   {"alex"},
	}}
	agent := newTestAgent(gh, maintainers, nil)

	issue := testIssue(completeBody())
	issue.Assignees = []string{"zoe"}

	result, err := agent.Plan(context.Background(), issue)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Maintainers) != 1 || result.Maintainers[0] != "alex" {
		t.Errorf("maintainers = %v, want [alex]", result.Maintainers)
	}
	assigns := FilterActions(result, ActionAssign)
	if len(assigns) != 1 {
		t.Fatalf("expected one assign action, got %d", len(assigns))
	}
}

func TestPlan_PullRequestSkipsIssueOnlySteps(t *testing.T) {
	gh := &fakeTracker{}
	analyzer := &fakeAnalyzer{comment: "analysis"}
	agent := newTestAgent(gh, nil, analyzer)

	issue := testIssue("spotify is broken") // would fail validation as an issue
	issue.IsPullRequest = true

	result, err := agent.Plan(context.Background(), issue)
	if err != nil {
		t.Fatal(err)
	}

	if HasAction(result, ActionComment) {
		t.Error("PRs should get no validation/similar/analysis comments")
	}
	if analyzer.calls != 0 {
		t.Error("log analysis should not run for PRs")
	}
	if !HasAction(result, ActionAddLabel) {
		t.Error("PRs still get provider labels")
	}
}

func TestPlan_ValidationComment(t *testing.T) {
	gh := &fakeTracker{}
	agent := newTestAgent(gh, nil, nil)

	result, err := agent.Plan(context.Background(), testIssue("### How to reproduce\nStart playback on Sonos."))
	if err != nil {
		t.Fatal(err)
	}

	comments := FilterActions(result, ActionComment)
	if len(comments) == 0 {
		t.Fatal("expected a validation comment action")
	}
	body := comments[0].Comment
	if !strings.Contains(body, "## ⚠️ Issue Template Validation") {
		t.Errorf("missing validation header:\n%s", body)
	}
	if !strings.Contains(body, "Section 'The problem' is missing or empty") {
		t.Errorf("missing finding line:\n%s", body)
	}
	if !strings.Contains(body, "Troubleshooting Guide") {
		t.Errorf("missing docs link:\n%s", body)
	}
}

func TestPlan_ValidationIdempotent(t *testing.T) {
	gh := &fakeTracker{comments: []github.Comment{
		{Body: "## ⚠️ Issue Template Validation\n\nprevious findings"},
	}}
	agent := newTestAgent(gh, nil, nil)

	result, err := agent.Plan(context.Background(), testIssue("no sections"))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Findings) == 0 {
		t.Error("findings should still be reported")
	}
	for _, a := range FilterActions(result, ActionComment) {
		if strings.Contains(a.Comment, "Template Validation") {
			t.Error("validation comment should not be planned twice")
		}
	}
}

func TestPlan_SimilarIssuesComment(t *testing.T) {
	gh := &fakeTracker{searchResults: []*models.Issue{
		{Number: 7, Title: "Spotify playback stops randomly", URL: "https://github.com/acme/server/issues/7", State: "open"},
		{Number: 42, Title: "self", State: "open"},
	}}
	agent := newTestAgent(gh, nil, nil)

	result, err := agent.Plan(context.Background(), testIssue(completeBody()))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Similar) != 1 || result.Similar[0].Number != 7 {
		t.Fatalf("similar = %v, want issue #7 only", result.Similar)
	}

	var found bool
	for _, a := range FilterActions(result, ActionComment) {
		if strings.Contains(a.Comment, "## 🔍 Similar Issues Found") {
			found = true
			if !strings.Contains(a.Comment, "#7: [Spotify playback stops randomly](https://github.com/acme/server/issues/7)") {
				t.Errorf("missing similar issue line:\n%s", a.Comment)
			}
		}
	}
	if !found {
		t.Error("expected a similar-issues comment action")
	}
}

func TestPlan_SimilarIdempotent(t *testing.T) {
	gh := &fakeTracker{
		comments: []github.Comment{{Body: "## 🔍 Similar Issues Found\n\nolder list"}},
		searchResults: []*models.Issue{
			{Number: 7, Title: "Spotify playback stops randomly", State: "open"},
		},
	}
	agent := newTestAgent(gh, nil, nil)

	result, err := agent.Plan(context.Background(), testIssue(completeBody()))
	if err != nil {
		t.Fatal(err)
	}

	for _, a := range FilterActions(result, ActionComment) {
		if strings.Contains(a.Comment, "Similar Issues Found") {
			t.Error("similar comment should not be planned twice")
		}
	}
}

func TestPlan_LogAnalysisComment(t *testing.T) {
	gh := &fakeTracker{}
	analyzer := &fakeAnalyzer{comment: "## 🔍 Automatic Log Analysis\n\nfindings"}
	agent := newTestAgent(gh, nil, analyzer)

	result, err := agent.Plan(context.Background(), testIssue(completeBody()))
	if err != nil {
		t.Fatal(err)
	}

	if analyzer.calls != 1 {
		t.Fatalf("expected one analyzer call, got %d", analyzer.calls)
	}
	var found bool
	for _, a := range FilterActions(result, ActionComment) {
		if strings.Contains(a.Comment, "Automatic Log Analysis") {
			found = true
		}
	}
	if !found {
		t.Error("expected a log analysis comment action")
	}
}

func TestPlan_LogAnalysisIdempotent(t *testing.T) {
	gh := &fakeTracker{comments: []github.Comment{
		{Body: "## 🤖 AI-Powered Log Analysis\n\nolder analysis"},
	}}
	analyzer := &fakeAnalyzer{comment: "new analysis"}
	agent := newTestAgent(gh, nil, analyzer)

	if _, err := agent.Plan(context.Background(), testIssue(completeBody())); err != nil {
		t.Fatal(err)
	}

	if analyzer.calls != 0 {
		t.Error("analysis should be skipped when a marker comment exists")
	}
}

func TestPlan_CommentListFailureDegrades(t *testing.T) {
	gh := &fakeTracker{listCommentsErr: errors.New("api down")}
	agent := newTestAgent(gh, nil, nil)

	result, err := agent.Plan(context.Background(), testIssue(completeBody()))
	if err != nil {
		t.Fatalf("comment listing failure should not abort the plan: %v", err)
	}
	if !HasAction(result, ActionAddLabel) {
		t.Error("labels should still be planned")
	}
}

func TestComposeMentionComment(t *testing.T) {
	got := composeMentionComment([]string{"alex", "zoe"})
	want := "👋 @alex @zoe - This issue appears to be related to a provider you maintain."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
