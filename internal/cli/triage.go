package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maestrobot/gh-maestro/internal/analyzer"
	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/github"
	"github.com/maestrobot/gh-maestro/internal/llm"
	"github.com/maestrobot/gh-maestro/internal/providers"
	"github.com/maestrobot/gh-maestro/internal/triage"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

func newTriageCmd() *cobra.Command {
	var (
		eventPath string
		repoFlag  string
		issueNum  int
	)

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Triage a single issue or pull request",
		Long: `Run the full triage pass for one issue: provider labels, maintainer
assignment, template validation, similar-issue detection and log analysis.

The issue comes either from a GitHub Actions event file (--event-path) or
from an explicit --repo/--issue pair.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			gh, err := github.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}

			issue, err := resolveIssue(ctx, gh, eventPath, repoFlag, issueNum)
			if err != nil {
				return err
			}
			if issue == nil {
				fmt.Println("Skipped: nothing to triage for this event")
				return nil
			}

			agent, cleanup, err := buildAgent(cfg, gh)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Printf("Triaging issue #%d: %s\n", issue.Number, issue.Title)

			executor := triage.NewExecutor(gh, dryRun)
			summary, err := agent.Run(ctx, issue, executor)
			if err != nil {
				return fmt.Errorf("triage failed: %w", err)
			}

			printSummary(summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&eventPath, "event-path", "", "path to GitHub event JSON file")
	cmd.Flags().StringVar(&repoFlag, "repo", "", "repository in org/repo form")
	cmd.Flags().IntVar(&issueNum, "issue", 0, "issue number")

	return cmd
}

// resolveIssue loads the target issue from an event file or the API. A nil
// issue with nil error means the event is not one we act on.
func resolveIssue(ctx context.Context, gh *github.Client, eventPath, repoFlag string, issueNum int) (*models.Issue, error) {
	if eventPath != "" {
		event, err := github.ParseEventFile(eventPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event: %w", err)
		}
		if !event.IsIssueEvent() || (!event.IsOpenedEvent() && !event.IsEditedEvent()) {
			return nil, nil
		}
		issue := event.ToIssue()
		if issue == nil {
			return nil, fmt.Errorf("failed to extract issue from event")
		}
		return issue, nil
	}

	if repoFlag == "" || issueNum == 0 {
		return nil, fmt.Errorf("either --event-path or both --repo and --issue are required")
	}

	org, repo, err := github.ParseRepo(repoFlag)
	if err != nil {
		return nil, err
	}
	return gh.GetIssue(ctx, org, repo, issueNum)
}

// buildAgent wires the triage agent and its collaborators from config.
// The returned cleanup closes the LLM provider if one was configured.
func buildAgent(cfg *config.Config, gh *github.Client) (*triage.Agent, func(), error) {
	aiProvider, err := llm.FromConfig(&cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	cleanup := func() {
		if aiProvider != nil {
			aiProvider.Close()
		}
	}

	extractor := providers.NewExtractor(cfg.Providers.AliasTable(), cfg.Providers.GenericAliases)
	logAnalyzer := analyzer.New(&cfg.Analysis, extractor, aiProvider)
	manifests := providers.NewManifestClient(&cfg.Manifest)

	return triage.NewAgent(cfg, gh, manifests, logAnalyzer), cleanup, nil
}

func printSummary(summary *models.TriageResult) {
	fmt.Printf("\nTriage summary for issue #%d:\n", summary.IssueNumber)
	fmt.Printf("  Providers:    %v\n", summary.Providers)
	fmt.Printf("  Labels added: %v\n", summary.LabelsAdded)
	if len(summary.AssigneesAdded) > 0 {
		fmt.Printf("  Assigned:     %v\n", summary.AssigneesAdded)
	}
	fmt.Printf("  Validation comment: %v\n", summary.ValidationPosted)
	fmt.Printf("  Similar comment:    %v\n", summary.SimilarPosted)
	fmt.Printf("  Log analysis:       %v\n", summary.LogAnalysisPosted)
	if summary.Error != "" {
		fmt.Printf("  Errors: %s\n", summary.Error)
	}
}
