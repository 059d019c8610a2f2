package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maestrobot/gh-maestro/internal/config"
)

// Finding is a human-readable template deficiency, advisory only.
type Finding struct {
	Section string `json:"section,omitempty"`
	Message string `json:"message"`
}

// Validator checks issue-template completeness and attachment policy.
type Validator struct {
	cfg *config.TemplateConfig
}

// NewValidator builds a validator from template configuration.
func NewValidator(cfg *config.TemplateConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate reports template deficiencies for an issue body and its parsed
// sections. An empty result means the template is acceptable. A truly empty
// body yields the single empty-body finding; a body without any section
// headings gets one finding per missing required section instead. The
// validator only reports; posting (and idempotency suppression) is the
// caller's concern.
func (v *Validator) Validate(body string, sections map[string]string, hasAttachment bool) []Finding {
	if strings.TrimSpace(body) == "" {
		return []Finding{{Message: "Issue body is empty"}}
	}

	var findings []Finding

	for _, section := range v.cfg.RequiredSections {
		if content, ok := sections[section]; !ok || strings.TrimSpace(content) == "" {
			findings = append(findings, Finding{
				Section: section,
				Message: fmt.Sprintf("Section '%s' is missing or empty", section),
			})
		}
	}

	if logContent, ok := sections[v.cfg.LogSection]; ok {
		// Logs pasted inline instead of attached
		if len(logContent) > v.cfg.PastedLogChars || strings.Contains(logContent, "DO NOT PASTE") {
			if !hasAttachment {
				findings = append(findings, Finding{
					Section: v.cfg.LogSection,
					Message: "Please ATTACH the log file instead of pasting it. See instructions in the template.",
				})
			}
		}

		// Nothing pasted and nothing attached either
		if !hasAttachment && len(logContent) < v.cfg.MinLogChars {
			findings = append(findings, Finding{
				Section: v.cfg.LogSection,
				Message: "No log file appears to be attached. Please attach the full log file.",
			})
		}
	}

	// Placeholder boilerplate left in place of real content. Only flagged
	// when the section is short enough that the placeholder is plausibly
	// the entire content. Section names are sorted so finding order is
	// deterministic.
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, sectionName := range names {
		content := sections[sectionName]
		for _, placeholder := range v.cfg.PlaceholderTexts {
			if strings.Contains(content, placeholder) && len(content) < 100 {
				findings = append(findings, Finding{
					Section: sectionName,
					Message: fmt.Sprintf("Section '%s' appears to contain placeholder text", sectionName),
				})
			}
		}
	}

	return findings
}
