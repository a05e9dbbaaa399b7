package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"parindex/pkg/indexer"
	"parindex/pkg/metrics"
	"parindex/pkg/parser"

	pq "github.com/emirpasic/gods/v2/queues/priorityqueue"
	"github.com/rs/zerolog/log"
)

const DefaultCacheSize = 256

var ErrNilIndex = errors.New("engine needs an index")

type Options struct {
	// CacheSize bounds the query result cache; 0 disables it.
	CacheSize int
	// QueryNormalizer, when set, is applied to every query term before the
	// lookup. By default query terms are looked up exactly as typed.
	QueryNormalizer parser.Normalizer
	Metrics         *metrics.Metrics
}

// Result holds the matched terms of a query in query order and their
// posting lists. Results may be shared through the cache and must not be
// modified.
type Result struct {
	Terms []string
	Lists map[string]indexer.PostingList
}

func (r Result) Empty() bool {
	return len(r.Terms) == 0
}

// Print writes one line per matched term and nothing for an empty result.
func (r Result) Print(w io.Writer) error {
	for _, term := range r.Terms {
		if _, err := fmt.Fprintf(w, "%s: %v\n", term, r.Lists[term]); err != nil {
			return err
		}
	}
	return nil
}

// Engine answers term lookups against a built index. It never modifies the
// index and is safe for concurrent use.
type Engine struct {
	index      *indexer.GlobalIndex
	cache      *ResultCache
	normalizer parser.Normalizer
	metrics    *metrics.Metrics
}

func NewEngine(index *indexer.GlobalIndex, opts Options) (*Engine, error) {
	if index == nil {
		return nil, ErrNilIndex
	}
	cache, err := NewResultCache(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &Engine{
		index:      index,
		cache:      cache,
		normalizer: opts.QueryNormalizer,
		metrics:    opts.Metrics,
	}, nil
}

func (eg *Engine) Index() *indexer.GlobalIndex {
	return eg.index
}

// Search splits query on whitespace and looks every term up. Terms missing
// from the index are left out of the result.
func (eg *Engine) Search(query string) Result {
	if result, ok := eg.cache.Get(query); ok {
		eg.metrics.ObserveQuery(!result.Empty(), true)
		return result
	}

	result := Result{
		Terms: []string{},
		Lists: map[string]indexer.PostingList{},
	}
	for _, term := range eg.queryTerms(query) {
		if _, ok := result.Lists[term]; ok {
			continue
		}
		list, ok := eg.index.Lookup(term)
		if !ok {
			continue
		}
		result.Terms = append(result.Terms, term)
		result.Lists[term] = list
	}

	eg.cache.Set(query, result)
	eg.metrics.ObserveQuery(!result.Empty(), false)
	return result
}

func (eg *Engine) queryTerms(query string) []string {
	raw := strings.Fields(query)
	if eg.normalizer == nil {
		return raw
	}

	terms := make([]string, 0, len(raw))
	for _, term := range raw {
		normalized, err := eg.normalizer.Normalize(term)
		if err != nil {
			log.Debug().Err(err).Str("term", term).Msg("query term skipped")
			continue
		}
		terms = append(terms, normalized...)
	}
	return terms
}

// TermCount is an index term and the number of documents containing it.
type TermCount struct {
	Term string
	Docs int
}

// Suggest returns up to limit index terms starting with prefix, the ones
// found in most documents first.
func (eg *Engine) Suggest(prefix string, limit int) []TermCount {
	if prefix == "" || limit <= 0 {
		return nil
	}

	queue := pq.NewWith(func(a, b TermCount) int {
		if a.Docs != b.Docs {
			return b.Docs - a.Docs
		}
		return strings.Compare(a.Term, b.Term)
	})
	eg.index.Each(func(term string, list indexer.PostingList) {
		if strings.HasPrefix(term, prefix) {
			queue.Enqueue(TermCount{Term: term, Docs: len(list)})
		}
	})

	suggestions := []TermCount{}
	for len(suggestions) < limit {
		tc, ok := queue.Dequeue()
		if !ok {
			break
		}
		suggestions = append(suggestions, tc)
	}
	return suggestions
}
