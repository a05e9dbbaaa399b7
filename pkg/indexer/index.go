package indexer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"parindex/pkg/parser"
	"parindex/pkg/utils/stream"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidWorkers = errors.New("worker count must be at least 1")
	ErrNoNormalizer   = errors.New("no normalizer configured")
)

// Document is one unit of the corpus: a stable identity and its raw text.
type Document interface {
	ID() string
	Text() (string, error)
}

// PartitionError aborts a build when a document of a partition cannot be
// read or normalized.
type PartitionError struct {
	Worker int
	DocID  string
	Op     string
	Err    error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %d: %s %s: %v", e.Worker, e.Op, e.DocID, e.Err)
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}

// DocInfo describes one indexed document.
type DocInfo struct {
	ID          string
	Terms       int
	Fingerprint uint64
}

// termMap keeps posting lists in the order their terms were first added.
type termMap struct {
	lists *linkedhashmap.Map[string, PostingList]
}

func newTermMap() termMap {
	return termMap{
		lists: linkedhashmap.New[string, PostingList](),
	}
}

func (m termMap) add(term string, appearances ...Appearance) {
	list, ok := m.lists.Get(term)
	if !ok {
		m.lists.Put(term, slices.Clip(appearances))
		return
	}
	m.lists.Put(term, append(list, appearances...))
}

// Len is the number of distinct terms.
func (m termMap) Len() int {
	return m.lists.Size()
}

// Terms lists the terms in first-insertion order.
func (m termMap) Terms() []string {
	return m.lists.Keys()
}

// SortedTerms lists the terms in lexical order.
func (m termMap) SortedTerms() []string {
	terms := m.lists.Keys()
	sort.Strings(terms)
	return terms
}

// Each calls fn for every term in first-insertion order. The lists passed to
// fn are owned by the index and must not be modified.
func (m termMap) Each(fn func(term string, list PostingList)) {
	m.lists.Each(fn)
}

// PartialIndex maps terms to posting lists for the documents of one
// partition.
type PartialIndex struct {
	termMap
	Worker int
	Docs   []DocInfo
}

func NewPartialIndex(worker int) *PartialIndex {
	return &PartialIndex{
		termMap: newTermMap(),
		Worker:  worker,
	}
}

func (p *PartialIndex) Get(term string) (PostingList, bool) {
	return p.lists.Get(term)
}

// AddDocument adds the already normalized terms of one document.
func (p *PartialIndex) AddDocument(docID string, terms []string) {
	ParseAppearances(docID, terms, p)
	p.Docs = append(p.Docs, DocInfo{
		ID:          docID,
		Terms:       len(terms),
		Fingerprint: parser.Fingerprint(terms),
	})
}

// BuildPartialIndex indexes every document handed out by producer. The first
// document that fails to read or normalize aborts the partition; nothing of
// the partition is returned in that case.
func BuildPartialIndex(ctx context.Context, worker int, producer stream.Producer[Document], normalizer parser.Normalizer) (*PartialIndex, error) {
	if normalizer == nil {
		return nil, ErrNoNormalizer
	}

	index := NewPartialIndex(worker)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, ok := producer.Produce()
		if !ok {
			break
		}

		text, err := doc.Text()
		if err != nil {
			return nil, &PartitionError{Worker: worker, DocID: doc.ID(), Op: "read", Err: err}
		}

		terms, err := normalizer.Normalize(text)
		if err != nil {
			return nil, &PartitionError{Worker: worker, DocID: doc.ID(), Op: "normalize", Err: err}
		}

		index.AddDocument(doc.ID(), terms)
	}

	log.Debug().
		Int("worker", worker).
		Int("docs", len(index.Docs)).
		Int("terms", index.Len()).
		Msg("partial index built")

	return index, nil
}

// Documents converts a slice of concrete documents for BuildIndex.
func Documents[T Document](docs []T) []Document {
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc)
	}
	return out
}
