package models

// SimilarIssue represents a candidate duplicate found via tracker search
type SimilarIssue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	State     string `json:"state"`
	Relevance int    `json:"relevance"` // ranking signal, not a probability
}

// TriageResult contains the outcome of processing a single issue.
// IssueID is the deterministic issue UUID, stable across runs so results
// for the same issue can be correlated.
type TriageResult struct {
	IssueID           string   `json:"issue_id"`
	IssueNumber       int      `json:"issue_number"`
	Providers         []string `json:"providers,omitempty"`
	LabelsAdded       []string `json:"labels_added,omitempty"`
	AssigneesAdded    []string `json:"assignees_added,omitempty"`
	ValidationPosted  bool     `json:"validation_posted"`
	SimilarPosted     bool     `json:"similar_posted"`
	LogAnalysisPosted bool     `json:"log_analysis_posted"`
	Skipped           bool     `json:"skipped"`
	SkipReason        string   `json:"skip_reason,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// BatchStats contains statistics from a batch run
type BatchStats struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}
