package report

import "strings"

// ParseSections splits an issue body into named sections keyed by heading
// text. A line starting with a markdown heading marker opens a section; its
// name is the heading with marker characters and surrounding whitespace
// stripped. Lines before the first heading are discarded. This is a simple
// header-driven scan matched to the issue-template generator's output, not a
// markdown parser.
func ParseSections(body string) map[string]string {
	sections := make(map[string]string)
	if body == "" {
		return sections
	}

	var currentSection string
	var currentContent []string

	flush := func() {
		if currentSection != "" {
			sections[currentSection] = strings.TrimSpace(strings.Join(currentContent, "\n"))
		}
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "###") {
			flush()
			currentSection = strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
			currentContent = nil
			continue
		}
		if currentSection != "" {
			currentContent = append(currentContent, line)
		}
	}
	flush()

	return sections
}
