package indexer

import (
	"github.com/rs/zerolog/log"
)

// GlobalIndex maps every term of the corpus to its posting list. It is
// built once by Merge and never modified afterwards, so concurrent readers
// need no locking.
type GlobalIndex struct {
	termMap
	docs []DocInfo
}

// Lookup returns a copy of the posting list stored for term.
func (g *GlobalIndex) Lookup(term string) (PostingList, bool) {
	list, ok := g.lists.Get(term)
	if !ok {
		return nil, false
	}
	return list.Clone(), true
}

func (g *GlobalIndex) DocCount() int {
	return len(g.docs)
}

// Merge folds the partial indexes into one global index. Partials are
// visited in slice order and each partial's terms in discovery order: a new
// term takes over the partial's list, a known term gets the partial's
// appearances appended. Callers pass the partials ordered by worker.
func Merge(partials ...*PartialIndex) *GlobalIndex {
	global := &GlobalIndex{
		termMap: newTermMap(),
	}

	for _, partial := range partials {
		if partial == nil {
			continue
		}
		partial.Each(func(term string, list PostingList) {
			global.add(term, list...)
		})
		global.docs = append(global.docs, partial.Docs...)
	}

	log.Debug().
		Int("partials", len(partials)).
		Int("docs", len(global.docs)).
		Int("terms", global.Len()).
		Msg("partial indexes merged")

	return global
}
