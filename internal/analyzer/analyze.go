package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/llm"
	"github.com/maestrobot/gh-maestro/internal/logging"
	"github.com/maestrobot/gh-maestro/internal/providers"
	"github.com/maestrobot/gh-maestro/internal/rules"
)

const aiAnalysisFooter = "---\n*This analysis was generated using AI and should be reviewed for accuracy.*\n"

// maxPromptBodyChars caps how much of the issue description goes into the
// AI prompt; the log corpus carries the signal, the body is just context.
const maxPromptBodyChars = 2000

// Analyzer downloads log attachments, classifies errors against the rule
// catalog and optionally asks an AI model for deeper analysis.
type Analyzer struct {
	cfg       *config.AnalysisConfig
	extractor *providers.Extractor
	fetcher   *Fetcher
	ai        llm.Provider
	logger    *slog.Logger
}

// New builds an analyzer. ai may be nil, which disables the AI pass.
func New(cfg *config.AnalysisConfig, extractor *providers.Extractor, ai llm.Provider) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		extractor: extractor,
		fetcher:   NewFetcher(time.Duration(cfg.DownloadTimeoutSeconds)*time.Second, cfg.DownloadConcurrency),
		ai:        ai,
		logger:    logging.New("analyzer"),
	}
}

// Analyze extracts attachment URLs from the issue body, downloads the logs
// and returns a composed Markdown comment. An empty string means there was
// nothing to analyze or nothing was detected.
func (a *Analyzer) Analyze(ctx context.Context, title, body string) string {
	urls := ExtractAttachmentURLs(body)
	if len(urls) == 0 {
		a.logger.Debug("no log file attachments found")
		return ""
	}
	a.logger.Info("found log attachments", "count", len(urls))

	corpus := a.fetcher.FetchCorpus(ctx, urls)
	if corpus == "" {
		a.logger.Warn("could not download any log files")
		return ""
	}

	return a.AnalyzeCorpus(ctx, title, body, corpus)
}

// AnalyzeCorpus runs pattern classification and the optional AI pass over
// an already-assembled log corpus.
func (a *Analyzer) AnalyzeCorpus(ctx context.Context, title, body, corpus string) string {
	detectedProviders := a.extractor.DetectFiltered(corpus)
	detected := rules.Classify(corpus, detectedProviders)
	comment := ComposeComment(detected, a.cfg.MaxIssuesInComment)

	if a.ai != nil {
		aiComment, err := a.analyzeWithAI(ctx, title, body, corpus)
		if err != nil {
			a.logger.Warn("AI analysis failed", "error", err)
		} else if aiComment != "" {
			if comment != "" {
				comment += "\n\n---\n\n"
			}
			comment += aiComment
		}
	}

	return comment
}

// analyzeWithAI asks the configured model for a contextual read of the log.
func (a *Analyzer) analyzeWithAI(ctx context.Context, title, body, corpus string) (string, error) {
	corpus = truncateMiddle(corpus, a.cfg.MaxLogChars)
	body = truncateHead(body, maxPromptBodyChars)

	prompt := fmt.Sprintf(`You are analyzing a Maestro server log file for a bug report.

Issue Title: %s

Issue Description:
%s

Log Content:
%s

Please analyze this log and provide:
1. Root cause of the issue (if identifiable)
2. Specific error messages or patterns that are problematic
3. Step-by-step troubleshooting suggestions
4. Whether this appears to be a bug or user configuration issue

Focus on actionable insights. Be concise but specific. Use markdown formatting.
If you detect network issues, authentication problems, or provider-specific errors, explain them clearly.
`, title, body, corpus)

	analysis, err := a.ai.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to get AI analysis: %w", err)
	}
	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("## 🤖 AI-Powered Log Analysis\n\n")
	b.WriteString(analysis)
	b.WriteString("\n\n")
	b.WriteString(aiAnalysisFooter)
	return b.String(), nil
}

// truncateHead cuts s down to at most max bytes without splitting a
// multibyte rune at the boundary.
func truncateHead(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// truncateMiddle keeps the head and tail of oversized log content, where
// startup context and the most recent errors live. Both cuts land on rune
// boundaries.
func truncateMiddle(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	half := max / 2
	start := len(s) - half
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return truncateHead(s, half) + "\n\n... [log truncated] ...\n\n" + s[start:]
}
