package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maestrobot/gh-maestro/internal/github"
	"github.com/maestrobot/gh-maestro/internal/triage"
)

func newBatchCmd() *cobra.Command {
	var (
		repoFlag      string
		label         string
		max           int
		skipProcessed bool
		delay         int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Triage open issues in bulk",
		Long: `List open issues carrying the given label and run the full triage pass
on each, paced with a configurable delay. Issues that already carry a bot
comment are skipped unless --skip-processed=false.`,
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

			exists, err := gh.RepoExists(ctx, org, repo)
			if err != nil {
				return fmt.Errorf("failed to check repository: %w", err)
			}
			if !exists {
				return fmt.Errorf("repository %s/%s not found", org, repo)
			}

			agent, cleanup, err := buildAgent(cfg, gh)
			if err != nil {
				return err
			}
			defer cleanup()

			opts := triage.BatchOptionsFromConfig(&cfg.Batch, org, repo)
			if cmd.Flags().Changed("label") {
				opts.Label = label
			}
			if cmd.Flags().Changed("max") {
				opts.Max = max
			}
			if cmd.Flags().Changed("delay") {
				opts.Delay = time.Duration(delay) * time.Second
			}
			opts.SkipProcessed = skipProcessed

			runner := triage.NewRunner(agent, triage.NewExecutor(gh, dryRun))
			results, stats, err := runner.Run(ctx, opts)
			if err != nil {
				return fmt.Errorf("batch triage failed: %w", err)
			}

			for _, r := range results {
				switch {
				case r.Skipped:
					fmt.Printf("  #%d skipped: %s\n", r.IssueNumber, r.SkipReason)
				case r.Error != "":
					fmt.Printf("  #%d error: %s\n", r.IssueNumber, r.Error)
				default:
					fmt.Printf("  #%d providers=%v labels=%v\n", r.IssueNumber, r.Providers, r.LabelsAdded)
				}
			}

			fmt.Printf("\nBatch complete: %d processed, %d skipped, %d errors\n",
				stats.Processed, stats.Skipped, stats.Errors)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoFlag, "repo", "", "repository in org/repo form")
	cmd.Flags().StringVar(&label, "label", "", "label filter (default from config)")
	cmd.Flags().IntVar(&max, "max", 0, "maximum issues to process (default from config)")
	cmd.Flags().BoolVar(&skipProcessed, "skip-processed", true, "skip issues that already carry a bot comment")
	cmd.Flags().IntVar(&delay, "delay", 0, "seconds between issues (default from config)")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}
