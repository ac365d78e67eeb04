// Package search resolves free-form queries against a built catalog index.
package search

import (
	"sort"
	"strconv"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/meta"
)

// Status is the outcome class of a resolution.
type Status string

const (
	StatusHit     Status = "HIT"
	StatusResults Status = "RESULTS"
	StatusNoMatch Status = "NO_MATCH"
	StatusTooLong Status = "TOO_LONG"
)

// Defaults for Options.
const (
	DefaultCutoff         = 85.0
	DefaultLimit          = 10
	DefaultMaxQueryLength = 200
)

// Match is one ranked song.
type Match struct {
	ID    catalog.SongID
	Score float64
}

// Result is what a query resolved to. Primary is set only for HIT. Related
// holds the other songs sharing the title on a title HIT, and the ranked
// fuzzy matches on RESULTS.
type Result struct {
	Status  Status
	Primary *catalog.SongID
	Related []Match
	Query   string
}

// Options tunes resolution. Zero values fall back to the defaults.
type Options struct {
	DefaultBook    string
	Cutoff         float64
	Limit          int
	MaxQueryLength int
	Scorer         Scorer
}

func (o Options) withDefaults() Options {
	if o.Cutoff <= 0 {
		o.Cutoff = DefaultCutoff
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MaxQueryLength <= 0 {
		o.MaxQueryLength = DefaultMaxQueryLength
	}
	if o.Scorer == nil {
		o.Scorer = IndelScorer{}
	}
	return o
}

// Resolver answers queries against one immutable index. It holds no mutable
// state and is safe for any number of concurrent callers.
type Resolver struct {
	index *catalog.Index
	opts  Options
}

// NewResolver creates a resolver over index.
func NewResolver(index *catalog.Index, opts Options) *Resolver {
	return &Resolver{index: index, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve maps a raw query to songs. In order: a song id (a bare number
// means the default book), an exact normalized title, then a fuzzy lyric
// search over the corpus.
func (r *Resolver) Resolve(raw string) Result {
	q := meta.Prepare(raw)
	if meta.IsDigits(q) && r.opts.DefaultBook != "" {
		if n, err := strconv.Atoi(q); err == nil {
			q = catalog.NewSongID(r.opts.DefaultBook, n).String()
		}
	}
	if id, err := catalog.ParseSongID(q); err == nil && r.index.Has(id) {
		return Result{Status: StatusHit, Primary: &id, Query: q}
	}

	key := meta.Normalize(raw)
	if key != "" {
		if ids := r.index.TitleMatches(key); len(ids) > 0 {
			primary := ids[0]
			related := make([]Match, 0, len(ids)-1)
			for _, id := range ids[1:] {
				related = append(related, Match{ID: id, Score: 100})
			}
			return Result{Status: StatusHit, Primary: &primary, Related: related, Query: key}
		}
	}

	if len(key) > r.opts.MaxQueryLength {
		return Result{Status: StatusTooLong, Query: key}
	}
	if key == "" {
		return Result{Status: StatusNoMatch, Query: key}
	}

	matches := r.rank(meta.CollapseSpaces(key))
	if len(matches) == 0 {
		return Result{Status: StatusNoMatch, Query: key}
	}
	return Result{Status: StatusResults, Related: matches, Query: key}
}

// rank scores every corpus entry and keeps the best Limit at or above the
// cutoff. Equal scores keep corpus order.
func (r *Resolver) rank(key string) []Match {
	var matches []Match
	for _, entry := range r.index.Corpus() {
		score := r.opts.Scorer.Score(key, entry.Key, r.opts.Cutoff)
		if score >= r.opts.Cutoff {
			matches = append(matches, Match{ID: entry.ID, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > r.opts.Limit {
		matches = matches[:r.opts.Limit]
	}
	return matches
}
