package triage

import (
	"github.com/maestrobot/gh-maestro/internal/report"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

// Result holds the planned triage outcome for a single issue
type Result struct {
	IssueNumber int                   `json:"issue_number"`
	Providers   []string              `json:"providers"`
	Maintainers []string              `json:"maintainers"`
	Findings    []report.Finding      `json:"findings,omitempty"`
	Similar     []models.SimilarIssue `json:"similar,omitempty"`
	Actions     []Action              `json:"actions"`
}

// Action represents a single tracker mutation to perform
type Action struct {
	Type      ActionType `json:"type"`
	Label     string     `json:"label,omitempty"`
	Assignees []string   `json:"assignees,omitempty"`
	Comment   string     `json:"comment,omitempty"`
	Reason    string     `json:"reason"`
}

// ActionType represents the type of action
type ActionType string

const (
	ActionAddLabel ActionType = "add_label"
	ActionAssign   ActionType = "assign"
	ActionComment  ActionType = "comment"
)

// Marker phrases scanned in existing comments to keep triage idempotent.
// Each side-effecting comment embeds its own marker in its header.
const (
	MarkerValidation  = "issue template validation"
	MarkerSimilar     = "similar issues found"
	MarkerLogAnalysis = "automatic log analysis"
	MarkerAIAnalysis  = "ai-powered log analysis"
)

// HasAction checks if result contains a specific action type
func HasAction(result *Result, actionType ActionType) bool {
	for _, a := range result.Actions {
		if a.Type == actionType {
			return true
		}
	}
	return false
}

// FilterActions filters result actions by type
func FilterActions(result *Result, types ...ActionType) []Action {
	typeSet := make(map[ActionType]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	var filtered []Action
	for _, a := range result.Actions {
		if typeSet[a.Type] {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
