package github

import "testing"

func TestParseRepo(t *testing.T) {
	tests := []struct {
		input    string
		org      string
		repo     string
		wantErr  bool
	}{
		{"acme/server", "acme", "server", false},
		{"acme", "", "", true},
		{"acme/server/extra", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		org, repo, err := ParseRepo(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepo(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepo(%q): %v", tt.input, err)
			continue
		}
		if org != tt.org || repo != tt.repo {
			t.Errorf("ParseRepo(%q) = %q, %q", tt.input, org, repo)
		}
	}
}

func TestCommentsContain(t *testing.T) {
	comments := []Comment{
		{Body: "First comment"},
		{Body: "## ⚠️ Issue Template Validation\n\nfindings here"},
	}

	if !CommentsContain(comments, "issue template validation") {
		t.Error("marker scan should be case-insensitive")
	}
	if CommentsContain(comments, "similar issues found") {
		t.Error("absent marker should not match")
	}
	if CommentsContain(nil, "anything") {
		t.Error("no comments, no match")
	}
	if !CommentsContain(comments, "no match", "template validation") {
		t.Error("any marker matching should suffice")
	}
}
