package indexer

import (
	"fmt"
	"slices"
)

// Appearance records how often a term occurs in one document.
type Appearance struct {
	DocID     string
	Frequency int
}

func (a Appearance) String() string {
	return fmt.Sprintf("(%s, %d)", a.DocID, a.Frequency)
}

// PostingList holds the appearances of one term. A document appears at most
// once per list.
type PostingList []Appearance

func (l PostingList) DocIDs() []string {
	ids := make([]string, 0, len(l))
	for _, a := range l {
		ids = append(ids, a.DocID)
	}
	return ids
}

// Frequency returns the number of occurrences of the term in docID, or 0.
func (l PostingList) Frequency(docID string) int {
	for _, a := range l {
		if a.DocID == docID {
			return a.Frequency
		}
	}
	return 0
}

func (l PostingList) Clone() PostingList {
	return slices.Clone(l)
}

// CountTerms counts the occurrences of every distinct term and returns the
// terms in order of first occurrence alongside their counts.
func CountTerms(terms []string) ([]string, map[string]int) {
	order := []string{}
	counts := map[string]int{}
	for _, term := range terms {
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}
	return order, counts
}

// ParseAppearances turns the normalized terms of one document into one
// appearance per distinct term and adds them to index.
func ParseAppearances(docID string, terms []string, index *PartialIndex) {
	order, counts := CountTerms(terms)
	for _, term := range order {
		index.add(term, Appearance{
			DocID:     docID,
			Frequency: counts[term],
		})
	}
}
