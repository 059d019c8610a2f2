package similar

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/maestrobot/gh-maestro/internal/config"
	"github.com/maestrobot/gh-maestro/internal/logging"
	"github.com/maestrobot/gh-maestro/pkg/models"
)

// Searcher is the narrow tracker search capability the ranker delegates to.
// Implementations return open issues, most recently updated first.
type Searcher interface {
	SearchOpenIssues(ctx context.Context, org, repo, query string, limit int) ([]*models.Issue, error)
}

// Input describes the issue being ranked against prior issues.
type Input struct {
	Org               string
	Repo              string
	Number            int
	Title             string
	DetectedProviders map[string]bool
}

// Ranker surfaces candidate duplicate issues via tracker text search and a
// simple keyword/provider overlap score.
type Ranker struct {
	cfg    *config.SimilarConfig
	logger *slog.Logger

	stopwords map[string]bool
}

// NewRanker builds a ranker from configuration.
func NewRanker(cfg *config.SimilarConfig) *Ranker {
	stopwords := make(map[string]bool, len(cfg.Stopwords))
	for _, w := range cfg.Stopwords {
		stopwords[w] = true
	}
	return &Ranker{
		cfg:       cfg,
		logger:    logging.New("similar"),
		stopwords: stopwords,
	}
}

var wordPattern = regexp.MustCompile(`\w+`)

// TitleKeywords extracts ranked search keywords from a title: lowercased
// words longer than 3 characters that are not stopwords, in title order.
func (r *Ranker) TitleKeywords(title string) []string {
	var keywords []string
	for _, word := range wordPattern.FindAllString(title, -1) {
		w := strings.ToLower(word)
		if len(w) > 3 && !r.stopwords[w] {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// buildQuery assembles the search query: up to MaxProviders detected
// providers plus up to MaxKeywords title keywords. Empty means no usable
// search terms.
func (r *Ranker) buildQuery(in Input, keywords []string) string {
	var terms []string

	providers := sortedProviders(in.DetectedProviders)
	if len(providers) > r.cfg.MaxProviders {
		providers = providers[:r.cfg.MaxProviders]
	}
	terms = append(terms, providers...)

	kw := keywords
	if len(kw) > r.cfg.MaxKeywords {
		kw = kw[:r.cfg.MaxKeywords]
	}
	terms = append(terms, kw...)

	if len(terms) > 5 {
		terms = terms[:5]
	}
	return strings.Join(terms, " ")
}

// Find returns ranked candidate duplicates for the input issue, bounded to
// MaxResults. With no extractable search terms it returns nil without
// issuing a search; a failing search degrades to "no similar issues".
func (r *Ranker) Find(ctx context.Context, in Input, search Searcher) []models.SimilarIssue {
	keywords := r.TitleKeywords(in.Title)

	query := r.buildQuery(in, keywords)
	if query == "" {
		return nil
	}

	r.logger.Debug("searching for similar issues", "query", query)

	candidates, err := search.SearchOpenIssues(ctx, in.Org, in.Repo, query, 30)
	if err != nil {
		r.logger.Warn("similar issue search failed", "error", err)
		return nil
	}

	scoreKeywords := keywords
	if len(scoreKeywords) > 5 {
		scoreKeywords = scoreKeywords[:5]
	}

	var similar []models.SimilarIssue
	for _, candidate := range candidates {
		if candidate.Number == in.Number {
			continue
		}
		if len(similar) >= r.cfg.MaxResults {
			break
		}

		relevance := score(candidate, in.DetectedProviders, scoreKeywords)
		if relevance == 0 {
			continue
		}

		similar = append(similar, models.SimilarIssue{
			Number:    candidate.Number,
			Title:     candidate.Title,
			URL:       candidate.URL,
			State:     candidate.State,
			Relevance: relevance,
		})
	}

	// Descending relevance; ties keep the search engine's native
	// most-recently-updated ordering.
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Relevance > similar[j].Relevance
	})

	return similar
}

// score computes the relevance signal: +2 per detected provider appearing in
// the candidate's title or body, +1 per title keyword appearing in the
// candidate's title.
func score(candidate *models.Issue, providers map[string]bool, keywords []string) int {
	titleLower := strings.ToLower(candidate.Title)
	bodyLower := strings.ToLower(candidate.Body)

	relevance := 0
	for provider := range providers {
		if strings.Contains(titleLower, provider) || strings.Contains(bodyLower, provider) {
			relevance += 2
		}
	}
	for _, word := range keywords {
		if strings.Contains(titleLower, word) {
			relevance++
		}
	}
	return relevance
}

func sortedProviders(detected map[string]bool) []string {
	providers := make([]string, 0, len(detected))
	for p := range detected {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}
