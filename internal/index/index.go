package index

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	apperrors "github.com/tokiwa-akira/gkentei/internal/errors"
)

// ErrInvalidLimit is returned by Query when the result cap is not positive.
// It wraps the shared invalid-argument sentinel so the boundary maps it to
// a client error even when it surfaces past the validator.
var ErrInvalidLimit = fmt.Errorf("%w: result limit must be positive", apperrors.ErrInvalidArgument)

// Document is the indexable part of a problem.
type Document struct {
	ID   uint
	Text string
}

// Hit is a scored candidate. Scores are non-negative and comparable only
// within a single query.
type Hit struct {
	ProblemID uint
	Score     float64
}

type termEntry struct {
	docCount int
	freq     map[uint]int
}

type docEntry struct {
	length    int
	lowerText string
}

// Index is an immutable inverted index over problem text. Build constructs
// a complete instance; no method mutates it afterwards, so a published
// snapshot is safe for any number of concurrent readers while a replacement
// is built off to the side.
type Index struct {
	terms     map[string]*termEntry
	docs      map[uint]docEntry
	tokenizer *Tokenizer
	builtAt   time.Time
}

// Build creates an index over the given documents. It is deterministic for
// identical input: the same documents always produce the same term
// statistics and therefore identical query results.
func Build(docs []Document) *Index {
	idx := &Index{
		terms:     make(map[string]*termEntry),
		docs:      make(map[uint]docEntry, len(docs)),
		tokenizer: NewTokenizer(),
		builtAt:   time.Now(),
	}

	for _, doc := range docs {
		tokens := idx.tokenizer.Tokenize(doc.Text)
		idx.docs[doc.ID] = docEntry{
			length:    len(tokens),
			lowerText: strings.ToLower(doc.Text),
		}
		for _, term := range tokens {
			entry := idx.terms[term]
			if entry == nil {
				entry = &termEntry{freq: make(map[uint]int)}
				idx.terms[term] = entry
			}
			if entry.freq[doc.ID] == 0 {
				entry.docCount++
			}
			entry.freq[doc.ID]++
		}
	}
	return idx
}

// phraseBoost rewards documents containing the raw query verbatim, so an
// exact-substring match can never rank below an otherwise-identical
// document without it.
const phraseBoost = 1.5

// Query scores every document sharing a term with the query and returns the
// top k hits ordered by descending score, ties broken by ascending problem
// id. An empty or whitespace-only query yields no hits.
func (idx *Index) Query(text string, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, ErrInvalidLimit
	}
	query := strings.TrimSpace(text)
	if query == "" {
		return []Hit{}, nil
	}

	queryTerms := idx.tokenizer.Tokenize(query)
	if len(queryTerms) == 0 {
		return []Hit{}, nil
	}

	totalDocs := float64(len(idx.docs))
	scores := make(map[uint]float64)
	for _, term := range queryTerms {
		entry, ok := idx.terms[term]
		if !ok {
			continue
		}
		idf := math.Log(1 + totalDocs/float64(entry.docCount))
		for docID, tf := range entry.freq {
			scores[docID] += float64(tf) * idf
		}
	}

	lowerQuery := strings.ToLower(query)
	hits := make([]Hit, 0, len(scores))
	for docID, score := range scores {
		if strings.Contains(idx.docs[docID].lowerText, lowerQuery) {
			score *= phraseBoost
		}
		hits = append(hits, Hit{ProblemID: docID, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ProblemID < hits[j].ProblemID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DocumentCount returns the number of indexed documents.
func (idx *Index) DocumentCount() int {
	return len(idx.docs)
}

// TermCount returns the number of distinct terms.
func (idx *Index) TermCount() int {
	return len(idx.terms)
}

// BuiltAt returns when this snapshot was constructed.
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}
