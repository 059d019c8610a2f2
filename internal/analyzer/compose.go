package analyzer

import (
	"fmt"
	"strings"

	"github.com/maestrobot/gh-maestro/internal/rules"
)

const analysisFooter = "---\n*This is an automated pattern-based analysis. Please review the suggestions and provide additional context if needed.*"

// ComposeComment renders detected log issues into a Markdown comment,
// most severe first. At most maxIssues get a full block; the remainder
// is summarized in one line. Returns "" when nothing was detected.
func ComposeComment(detected []rules.Detected, maxIssues int) string {
	if len(detected) == 0 {
		return ""
	}

	sorted := make([]rules.Detected, len(detected))
	copy(sorted, detected)
	rules.SortBySeverity(sorted)

	var b strings.Builder
	b.WriteString("## 🔍 Automatic Log Analysis\n\n")
	b.WriteString("I've analyzed the log file and detected the following potential issues:\n\n")

	shown := sorted
	if maxIssues > 0 && len(shown) > maxIssues {
		shown = shown[:maxIssues]
	}

	for _, d := range shown {
		fmt.Fprintf(&b, "### %s %s\n\n", d.Severity.Marker(), d.Title)
		if d.Provider != "" {
			fmt.Fprintf(&b, "**Provider:** %s\n\n", providerDisplayName(d.Provider))
		}
		b.WriteString(d.Description)
		b.WriteString("\n\n")
		b.WriteString(d.Remediation)
		b.WriteString("\n\n")
	}

	if remaining := len(sorted) - len(shown); remaining > 0 {
		fmt.Fprintf(&b, "*... and %d more issue(s) detected.*\n\n", remaining)
	}

	b.WriteString(analysisFooter)
	return b.String()
}

// providerDisplayName turns a provider id like "youtube_music" into
// "Youtube Music" for display.
func providerDisplayName(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
