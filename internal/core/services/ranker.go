package services

import (
	"fmt"
	"math"
	"slices"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// Ranker orders a corpus by cosine similarity to an answer entity.
// It is stateless and safe for concurrent use.
type Ranker struct{}

// NewRanker creates a ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank scores every corpus entity against answer and returns them ordered
// by rank. The answer itself is always rank 1 with score 1.0; the rest
// follow by descending score, ties keeping corpus order.
func (r *Ranker) Rank(corpus *domain.Corpus, answer domain.Entity) ([]domain.RankEntry, error) {
	if corpus == nil || corpus.Len() == 0 {
		return nil, fmt.Errorf("%w: empty corpus", domain.ErrComputation)
	}
	stored, ok := corpus.Get(answer.ID)
	if !ok {
		return nil, fmt.Errorf("%w: answer %d not in corpus", domain.ErrComputation, answer.ID)
	}

	entities := corpus.Entities()
	entries := make([]domain.RankEntry, len(entities))
	for i, e := range entities {
		score := 1.0
		if e.ID != answer.ID {
			s, err := cosine(stored.Vector, e.Vector)
			if err != nil {
				return nil, fmt.Errorf("scoring %q: %w", e.Name, err)
			}
			score = s
		}
		entries[i] = domain.RankEntry{ID: e.ID, Name: e.Name, Score: score}
	}

	slices.SortStableFunc(entries, func(a, b domain.RankEntry) int {
		switch {
		case a.ID == answer.ID:
			return -1
		case b.ID == answer.ID:
			return 1
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// cosine returns the cosine similarity of a and b clamped to [-1, 1].
// A zero vector on either side scores 0.
func cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: dimension mismatch %d != %d", domain.ErrComputation, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: non-finite similarity", domain.ErrComputation)
	}
	return max(-1, min(1, score)), nil
}
