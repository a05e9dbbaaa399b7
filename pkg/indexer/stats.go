package indexer

import "github.com/rs/zerolog/log"

type IndexStats struct {
	Documents      int
	Terms          int
	Postings       int
	AvgTermsPerDoc float64
	// Groups of documents whose normalized text has the same fingerprint.
	DuplicateGroups [][]string
}

func (g *GlobalIndex) Stats() IndexStats {
	stats := IndexStats{
		Documents: len(g.docs),
		Terms:     g.Len(),
	}

	g.Each(func(_ string, list PostingList) {
		stats.Postings += len(list)
	})

	totalTerms := 0
	for _, doc := range g.docs {
		totalTerms += doc.Terms
	}
	if stats.Documents > 0 {
		stats.AvgTermsPerDoc = float64(totalTerms) / float64(stats.Documents)
	}

	stats.DuplicateGroups = duplicateGroups(g.docs)
	return stats
}

// duplicateGroups keeps the order in which documents were indexed, both
// across and within groups. Documents without terms are never duplicates.
func duplicateGroups(docs []DocInfo) [][]string {
	groupOf := map[uint64]int{}
	groups := [][]string{}
	for _, doc := range docs {
		if doc.Terms == 0 {
			continue
		}
		i, ok := groupOf[doc.Fingerprint]
		if !ok {
			groupOf[doc.Fingerprint] = len(groups)
			groups = append(groups, []string{doc.ID})
			continue
		}
		groups[i] = append(groups[i], doc.ID)
	}

	dups := [][]string{}
	for _, group := range groups {
		if len(group) > 1 {
			dups = append(dups, group)
		}
	}
	return dups
}

func LogStats(stats IndexStats) {
	log.Info().
		Int("docs", stats.Documents).
		Int("terms", stats.Terms).
		Int("postings", stats.Postings).
		Float64("avg_terms_per_doc", stats.AvgTermsPerDoc).
		Int("duplicate_groups", len(stats.DuplicateGroups)).
		Msg("index stats")

	for _, group := range stats.DuplicateGroups {
		log.Debug().Strs("docs", group).Msg("documents with identical fingerprint")
	}
}
