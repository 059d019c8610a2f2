package similar

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

type fakeSearcher struct {
	issues  []*models.Issue
	err     error
	queries []string
}

func (f *fakeSearcher) SearchOpenIssues(ctx context.Context, org, repo, query string, limit int) ([]*models.Issue, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.issues, nil
}

func testRanker() *Ranker {
	cfg := config.Default()
	return NewRanker(&cfg.Similar)
}

func TestRanker_TitleKeywords(t *testing.T) {
	r := testRanker()

	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{
			name:  "filters stopwords and short words",
			title: "Spotify not working on my sonos speaker",
			want:  []string{"spotify", "sonos", "speaker"},
		},
		{
			name:  "empty title",
			title: "",
			want:  nil,
		},
		{
			name:  "only stopwords",
			title: "the issue with an error",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.TitleKeywords(tt.title)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TitleKeywords(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestRanker_NoSearchTermsNoCall(t *testing.T) {
	r := testRanker()
	search := &fakeSearcher{}

	got := r.Find(context.Background(), Input{
		Org:   "maestro",
		Repo:  "support",
		Title: "",
	}, search)

	if got != nil {
		t.Errorf("Find with no terms = %v, want nil", got)
	}
	if len(search.queries) != 0 {
		t.Errorf("search was called %d times, want 0", len(search.queries))
	}
}

func TestRanker_ScoringAndOrdering(t *testing.T) {
	r := testRanker()
	search := &fakeSearcher{
		issues: []*models.Issue{
			{Number: 10, Title: "random unrelated thing", Body: "nothing useful", State: "open"},
			{Number: 11, Title: "playback stutter", Body: "happens on spotify", State: "open"},
			{Number: 12, Title: "spotify playback broken", Body: "spotify dies", State: "open"},
		},
	}

	got := r.Find(context.Background(), Input{
		Org:               "maestro",
		Repo:              "support",
		Number:            99,
		Title:             "Spotify playback stutter",
		DetectedProviders: map[string]bool{"spotify": true},
	}, search)

	if len(got) != 2 {
		t.Fatalf("Find returned %d candidates, want 2 (zero-relevance dropped): %v", len(got), got)
	}

	// #12: provider in title (+2) + "spotify" and "playback" keywords (+2) = 4
	// #11: provider in body (+2) + "playback" and "stutter" keywords (+2) = 4
	// Tie keeps search order, so #11 before #12.
	if got[0].Number != 11 || got[1].Number != 12 {
		t.Errorf("candidate order = [%d %d], want [11 12]", got[0].Number, got[1].Number)
	}

	for _, c := range got {
		if c.Relevance == 0 {
			t.Errorf("zero relevance candidate survived: %v", c)
		}
	}
}

func TestRanker_ExcludesCurrentIssue(t *testing.T) {
	r := testRanker()
	search := &fakeSearcher{
		issues: []*models.Issue{
			{Number: 99, Title: "spotify broken", Body: "", State: "open"},
			{Number: 42, Title: "spotify broken too", Body: "", State: "open"},
		},
	}

	got := r.Find(context.Background(), Input{
		Org:               "maestro",
		Repo:              "support",
		Number:            99,
		Title:             "spotify broken",
		DetectedProviders: map[string]bool{"spotify": true},
	}, search)

	for _, c := range got {
		if c.Number == 99 {
			t.Errorf("current issue appeared in candidates: %v", got)
		}
	}
	if len(got) != 1 {
		t.Errorf("len(candidates) = %d, want 1", len(got))
	}
}

func TestRanker_SearchFailureDegrades(t *testing.T) {
	r := testRanker()
	search := &fakeSearcher{err: errors.New("api down")}

	got := r.Find(context.Background(), Input{
		Org:               "maestro",
		Repo:              "support",
		Title:             "spotify playback broken",
		DetectedProviders: map[string]bool{"spotify": true},
	}, search)

	if got != nil {
		t.Errorf("Find with failing search = %v, want nil", got)
	}
}

func TestRanker_QueryBounded(t *testing.T) {
	r := testRanker()
	search := &fakeSearcher{}

	r.Find(context.Background(), Input{
		Org:    "maestro",
		Repo:   "support",
		Number: 1,
		Title:  "spotify tidal qobuz deezer jellyfin plex subsonic all broken together",
		DetectedProviders: map[string]bool{
			"spotify": true, "tidal": true, "qobuz": true, "deezer": true,
		},
	}, search)

	if len(search.queries) != 1 {
		t.Fatalf("search called %d times, want 1", len(search.queries))
	}

	// 2 providers + 3 keywords max
	terms := len(splitWords(search.queries[0]))
	if terms > 5 {
		t.Errorf("query has %d terms, want at most 5: %q", terms, search.queries[0])
	}
}

func splitWords(s string) []string {
	return wordPattern.FindAllString(s, -1)
}
