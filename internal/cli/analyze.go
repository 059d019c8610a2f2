package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maestrobot/gh-maestro/internal/analyzer"
	"github.com/maestrobot/gh-maestro/internal/github"
	"github.com/maestrobot/gh-maestro/internal/llm"
	"github.com/maestrobot/gh-maestro/internal/providers"
	"github.com/maestrobot/gh-maestro/internal/triage"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		repoFlag string
		issueNum int
		post     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze log attachments on an issue",
		Long: `Download the log files attached to an issue, classify them against the
known error patterns and print the resulting analysis. With --post the
analysis is added as an issue comment instead of printed.`,
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

			org, repo, err := github.ParseRepo(repoFlag)
			if err != nil {
				return err
			}

			issue, err := gh.GetIssue(ctx, org, repo, issueNum)
			if err != nil {
				return err
			}

			aiProvider, err := llm.FromConfig(&cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to create LLM provider: %w", err)
			}
			if aiProvider != nil {
				defer aiProvider.Close()
			}

			extractor := providers.NewExtractor(cfg.Providers.AliasTable(), cfg.Providers.GenericAliases)
			a := analyzer.New(&cfg.Analysis, extractor, aiProvider)

			comment := a.Analyze(ctx, issue.Title, issue.Body)
			if comment == "" {
				fmt.Println("No log attachments found or nothing detected")
				return nil
			}

			if !post || dryRun {
				fmt.Println(comment)
				return nil
			}

			posted, err := gh.HasCommentContaining(ctx, org, repo, issueNum,
				triage.MarkerLogAnalysis, triage.MarkerAIAnalysis)
			if err != nil {
				return fmt.Errorf("failed to check existing comments: %w", err)
			}
			if posted {
				fmt.Printf("Analysis comment already exists on #%d, skipping\n", issueNum)
				return nil
			}

			if err := gh.PostComment(ctx, org, repo, issueNum, comment); err != nil {
				return fmt.Errorf("failed to post analysis comment: %w", err)
			}
			fmt.Printf("Posted analysis comment on #%d\n", issueNum)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoFlag, "repo", "", "repository in org/repo form")
	cmd.Flags().IntVar(&issueNum, "issue", 0, "issue number")
	cmd.Flags().BoolVar(&post, "post", false, "post the analysis as an issue comment")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("issue")

	return cmd
}
