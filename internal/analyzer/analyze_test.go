package analyzer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/providers"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) CompleteWithSystem(ctx context.Context, _, prompt string) (string, error) {
	return f.Complete(ctx, prompt)
}

func (f *fakeLLM) Close() error { return nil }

func testAnalyzer(ai *fakeLLM) *Analyzer {
	cfg := config.Default()
	ext := providers.NewExtractor(cfg.Providers.AliasTable(), cfg.Providers.GenericAliases)
	if ai == nil {
		return New(&cfg.Analysis, ext, nil)
	}
	return New(&cfg.Analysis, ext, ai)
}

func TestAnalyze_NoAttachments(t *testing.T) {
	a := testAnalyzer(nil)
	if got := a.Analyze(context.Background(), "title", "body without any links"); got != "" {
		t.Errorf("expected empty comment, got %q", got)
	}
}

func TestAnalyzeCorpus_PatternDetection(t *testing.T) {
	a := testAnalyzer(nil)
	corpus := "2024-01-01 ERROR token expired for account\nplayback continues"

	got := a.AnalyzeCorpus(context.Background(), "t", "b", corpus)

	if !strings.Contains(got, "## 🔍 Automatic Log Analysis") {
		t.Errorf("missing pattern analysis header:\n%s", got)
	}
	if !strings.Contains(got, "Authentication Token Expired") {
		t.Errorf("expected token rule to fire:\n%s", got)
	}
}

func TestAnalyzeCorpus_NothingDetected(t *testing.T) {
	a := testAnalyzer(nil)
	if got := a.AnalyzeCorpus(context.Background(), "t", "b", "all fine here"); got != "" {
		t.Errorf("expected empty comment, got %q", got)
	}
}

func TestAnalyzeCorpus_AIAppended(t *testing.T) {
	ai := &fakeLLM{response: "The root cause is an expired token."}
	a := testAnalyzer(ai)
	corpus := "ERROR token expired"

	got := a.AnalyzeCorpus(context.Background(), "Playback broken", "my body", corpus)

	if !strings.Contains(got, "## 🤖 AI-Powered Log Analysis") {
		t.Errorf("missing AI section:\n%s", got)
	}
	if !strings.Contains(got, "The root cause is an expired token.") {
		t.Errorf("missing AI content:\n%s", got)
	}
	patternIdx := strings.Index(got, "## 🔍 Automatic Log Analysis")
	aiIdx := strings.Index(got, "## 🤖 AI-Powered Log Analysis")
	if !(patternIdx >= 0 && aiIdx > patternIdx) {
		t.Errorf("AI section should follow pattern section:\n%s", got)
	}
	if !strings.Contains(got, "\n\n---\n\n## 🤖") {
		t.Errorf("sections should be joined with a divider:\n%s", got)
	}

	if len(ai.prompts) != 1 {
		t.Fatalf("expected one AI call, got %d", len(ai.prompts))
	}
	prompt := ai.prompts[0]
	if !strings.Contains(prompt, "Issue Title: Playback broken") {
		t.Errorf("prompt missing issue title:\n%s", prompt)
	}
	if !strings.Contains(prompt, corpus) {
		t.Errorf("prompt missing log content")
	}
}

func TestAnalyzeCorpus_AIFailureDegrades(t *testing.T) {
	ai := &fakeLLM{err: errors.New("api unavailable")}
	a := testAnalyzer(ai)

	got := a.AnalyzeCorpus(context.Background(), "t", "b", "ERROR token expired")

	if !strings.Contains(got, "## 🔍 Automatic Log Analysis") {
		t.Errorf("pattern analysis should survive AI failure:\n%s", got)
	}
	if strings.Contains(got, "🤖") {
		t.Errorf("AI section should be absent on failure:\n%s", got)
	}
}

func TestAnalyzeCorpus_AIOnlyWhenNoPatterns(t *testing.T) {
	ai := &fakeLLM{response: "Nothing obvious; check configuration."}
	a := testAnalyzer(ai)

	got := a.AnalyzeCorpus(context.Background(), "t", "b", "unremarkable log output")

	if strings.Contains(got, "## 🔍 Automatic Log Analysis") {
		t.Errorf("no pattern section expected:\n%s", got)
	}
	if !strings.HasPrefix(got, "## 🤖 AI-Powered Log Analysis") {
		t.Errorf("AI section should stand alone:\n%s", got)
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ERROR rate limit exceeded"))
	}))
	defer srv.Close()

	a := testAnalyzer(nil)
	// Swap in a corpus fetched from the test server via AnalyzeCorpus,
	// since attachment URLs are pinned to github.com.
	corpus := a.fetcher.FetchCorpus(context.Background(), []string{srv.URL + "/log.txt"})
	got := a.AnalyzeCorpus(context.Background(), "t", "b", corpus)

	if !strings.Contains(got, "API Rate Limit Exceeded") {
		t.Errorf("expected rate limit rule to fire:\n%s", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	long := strings.Repeat("a", 60) + strings.Repeat("b", 60)

	got := truncateMiddle(long, 40)

	if !strings.Contains(got, "... [log truncated] ...") {
		t.Errorf("missing truncation marker: %q", got)
	}
	if !strings.HasPrefix(got, strings.Repeat("a", 20)) {
		t.Errorf("head not preserved: %q", got)
	}
	if !strings.HasSuffix(got, strings.Repeat("b", 20)) {
		t.Errorf("tail not preserved: %q", got)
	}

	if got := truncateMiddle("short", 100); got != "short" {
		t.Errorf("short input should pass through, got %q", got)
	}
}

func TestTruncateMiddle_MultibyteBoundaries(t *testing.T) {
	// Snowmen are 3 bytes each, so both the head cut and the tail cut land
	// mid-rune unless they are snapped back to a boundary.
	long := strings.Repeat("☃", 50)

	got := truncateMiddle(long, 40)

	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if len(got) > 40+len("\n\n... [log truncated] ...\n\n") {
		t.Errorf("result longer than budget plus marker: %d bytes", len(got))
	}
}

func TestTruncateHead(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 100, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"mid-rune cut backs off", "ab☃cd", 4, "ab"},
		{"cut on rune boundary", "ab☃cd", 5, "ab☃"},
		{"zero max", "hello", 0, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateHead(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncateHead(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("invalid UTF-8 in result: %q", got)
			}
		})
	}
}
