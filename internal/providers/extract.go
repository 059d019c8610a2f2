package providers

import (
	"sort"
	"strings"
)

// Extractor detects canonical provider identifiers in free text using a
// configured alias table. The table is read-only after construction and safe
// to share across concurrent runs.
type Extractor struct {
	aliases map[string][]string
	generic map[string]bool
}

// NewExtractor builds an extractor from a canonical-id → aliases table and a
// list of generic aliases that are excluded after extraction. A nil or empty
// table is valid and yields empty results.
func NewExtractor(aliases map[string][]string, genericAliases []string) *Extractor {
	generic := make(map[string]bool, len(genericAliases))
	for _, g := range genericAliases {
		generic[strings.ToLower(g)] = true
	}
	return &Extractor{
		aliases: aliases,
		generic: generic,
	}
}

// Detect returns the set of canonical provider identifiers whose aliases
// occur in text. Matching is case-insensitive substring; the first alias hit
// short-circuits to the next provider.
func (e *Extractor) Detect(text string) map[string]bool {
	detected := make(map[string]bool)
	if text == "" || len(e.aliases) == 0 {
		return detected
	}

	lower := strings.ToLower(text)
	for id, aliases := range e.aliases {
		for _, alias := range aliases {
			if strings.Contains(lower, alias) {
				detected[id] = true
				break
			}
		}
	}

	return detected
}

// FilterGeneric removes identifiers that match a configured generic alias.
// Alias-driven extraction can't tell "url" the provider from "url" the word;
// the exclusion list is a configuration knob, not a fixed rule.
func (e *Extractor) FilterGeneric(detected map[string]bool) map[string]bool {
	for id := range detected {
		if e.generic[id] {
			delete(detected, id)
		}
	}
	return detected
}

// DetectFiltered is Detect followed by FilterGeneric.
func (e *Extractor) DetectFiltered(text string) map[string]bool {
	return e.FilterGeneric(e.Detect(text))
}

// Sorted is a convenience for deterministic presentation of a detected set.
func Sorted(detected map[string]bool) []string {
	ids := make([]string, 0, len(detected))
	for id := range detected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
