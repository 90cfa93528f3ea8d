// Package search provides a small, deterministic, concurrency-safe in-memory
// index used for free-text search over catalog entries (product titles,
// listing descriptions, group names).
//
// The library does no logging and has no dependencies. An Index is immutable
// once built, so concurrent reads need no locking. Tokenization is
// Unicode-aware with optional stop-word removal, and ranking is stable:
// equal-score entries order by text length, then by ID.
//
// Scoring is Jaccard similarity between the query token set and each
// entry's token set: score = |Q ∩ E| / |Q ∪ E|.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Entry is one searchable unit: an opaque ID (usually the catalog item ID)
// plus the text to index.
type Entry struct {
	ID   string
	Text string
}

// Result is a ranked entry ID with its similarity score.
type Result struct {
	ID    string
	Score float64
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
}

// Option customizes index construction.
type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	maxDocs   int
}

// WithStopwords removes the given words from both entries and queries
// before matching.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMaxDocs caps the number of indexed entries.
func WithMaxDocs(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDocs = n
		}
	}
}

// record is one indexed entry with its precomputed token set.
type record struct {
	id     string
	tokens map[string]struct{}
	runes  int
}

type index struct {
	cfg  config
	recs []record
}

// NewIndex builds an Index from the given entries. Entries with a blank ID
// or no indexable tokens are skipped.
func NewIndex(entries []Entry, opts ...Option) Index {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	recs := make([]record, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" || e.ID == "" {
			continue
		}
		toks := tokenSet(text, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		recs = append(recs, record{id: e.ID, tokens: toks, runes: utf8.RuneCountInString(text)})
		if cfg.maxDocs > 0 && len(recs) >= cfg.maxDocs {
			break
		}
	}
	return &index{cfg: cfg, recs: recs}
}

// TopK returns up to k best-matching entries by Jaccard similarity. A
// non-positive k defaults to 3. Entries sharing no token with the query are
// never returned; with nothing to return, the result is nil.
func (i *index) TopK(q string, k int) []Result {
	if len(i.recs) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	query := tokenSet(q, i.cfg.stopwords)
	if len(query) == 0 {
		return nil
	}

	type ranked struct {
		rec   *record
		score float64
	}
	hits := make([]ranked, 0, len(i.recs))
	for n := range i.recs {
		rec := &i.recs[n]
		if s := jaccard(query, rec.tokens); s > 0 {
			hits = append(hits, ranked{rec: rec, score: s})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	// Ties resolve toward shorter entries, then lexicographically smaller IDs.
	sort.SliceStable(hits, func(a, b int) bool {
		switch {
		case hits[a].score != hits[b].score:
			return hits[a].score > hits[b].score
		case hits[a].rec.runes != hits[b].rec.runes:
			return hits[a].rec.runes < hits[b].rec.runes
		default:
			return hits[a].rec.id < hits[b].rec.id
		}
	})

	if k > len(hits) {
		k = len(hits)
	}
	out := make([]Result, k)
	for n := 0; n < k; n++ {
		out[n] = Result{ID: hits[n].rec.id, Score: hits[n].score}
	}
	return out
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

// tokenSet lowercases s and splits it into a set of word tokens, dropping
// any that appear in stop.
func tokenSet(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, skip := stop[w]; skip {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b| for two token sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for k := range small {
		if _, ok := large[k]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}
