package knowledge

import (
	"sort"
	"strings"

	"gyaansetu-gateway/internal/common/metrics"
)

const DefaultTopK = 5

// Index is an immutable, in-memory document collection. It is safe for
// concurrent use because nothing mutates it after NewIndex returns.
type Index struct {
	docs      []Document
	haystacks []string
}

func NewIndex(docs []Document) *Index {
	idx := &Index{
		docs:      make([]Document, len(docs)),
		haystacks: make([]string, len(docs)),
	}
	for i, d := range docs {
		d = normalizeDocument(d)
		idx.docs[i] = d
		idx.haystacks[i] = strings.ToLower(d.ContentEn + " " + d.ContentGu)
	}
	return idx
}

func (idx *Index) Len() int { return len(idx.docs) }

// Documents returns a copy of the collection in load order.
func (idx *Index) Documents() []Document {
	out := make([]Document, len(idx.docs))
	copy(out, idx.docs)
	return out
}

// Search scores every document passing the filters by the fraction of query
// terms found as substrings of its combined content. Ties keep collection
// order, zero scores are dropped and at most topK results are returned. A
// topK of zero or less means DefaultTopK.
func (idx *Index) Search(query string, f Filters, topK int) []ScoredDocument {
	if topK <= 0 {
		topK = DefaultTopK
	}

	terms := strings.Fields(strings.ToLower(NormalizeText(query)))
	if len(terms) == 0 {
		metrics.KnowledgeSearchResults.Observe(0)
		return []ScoredDocument{}
	}

	subject := NormalizeText(f.Subject)
	chapter := NormalizeText(f.Chapter)

	scored := make([]ScoredDocument, 0, len(idx.docs))
	for i, d := range idx.docs {
		if subject != "" && d.Subject != subject {
			continue
		}
		if f.ClassLevel != 0 && d.ClassLevel != f.ClassLevel {
			continue
		}
		if chapter != "" && !strings.Contains(d.Chapter, chapter) {
			continue
		}

		hits := 0
		for _, term := range terms {
			if strings.Contains(idx.haystacks[i], term) {
				hits++
			}
		}
		scored = append(scored, ScoredDocument{Document: d, Score: float64(hits) / float64(len(terms))})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	results := make([]ScoredDocument, 0, topK)
	for _, s := range scored {
		if s.Score == 0 || len(results) == topK {
			break
		}
		results = append(results, s)
	}

	metrics.KnowledgeSearchResults.Observe(float64(len(results)))
	return results
}
