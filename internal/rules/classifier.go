package rules

import "sort"

// Detected is a single classification result produced from a rule match.
type Detected struct {
	Key         string   `json:"key"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remediation string   `json:"remediation"`
	Provider    string   `json:"provider,omitempty"`
}

// Classify evaluates the catalog against a log corpus. Provider-scoped rules
// only fire when their provider appears in detectedProviders, so generic
// substrings can't trigger branded advice for an unrelated provider.
// Results are deduplicated by title, first seen in catalog order wins.
// Pure and side-effect-free; an empty corpus yields no results.
func Classify(corpus string, detectedProviders map[string]bool) []Detected {
	if corpus == "" {
		return nil
	}

	var detected []Detected
	seenTitles := make(map[string]bool)

	for _, rule := range Catalog {
		if !rule.Pattern.MatchString(corpus) {
			continue
		}
		if rule.Provider != "" && !detectedProviders[rule.Provider] {
			continue
		}
		if seenTitles[rule.Title] {
			continue
		}
		seenTitles[rule.Title] = true

		detected = append(detected, Detected{
			Key:         rule.Key,
			Severity:    rule.Severity,
			Title:       rule.Title,
			Description: rule.Description,
			Remediation: rule.Remediation,
			Provider:    rule.Provider,
		})
	}

	return detected
}

// SortBySeverity orders issues for presentation: critical, error, warning,
// info, stable within a rank.
func SortBySeverity(issues []Detected) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})
}
