package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// abcCorpus is the three-entity corpus used across service tests.
func abcCorpus(t *testing.T) *domain.Corpus {
	t.Helper()
	corpus, err := domain.NewCorpus([]domain.Entity{
		{ID: 1, Name: "A", Content: "content of A", Vector: []float64{1, 0}},
		{ID: 2, Name: "B", Content: "content of B", Vector: []float64{0, 1}},
		{ID: 3, Name: "C", Content: "content of C", Vector: []float64{0.9, 0.1}},
	})
	require.NoError(t, err)
	return corpus
}

func mustEntity(t *testing.T, corpus *domain.Corpus, id int64) domain.Entity {
	t.Helper()
	e, ok := corpus.Get(id)
	require.True(t, ok)
	return e
}

func TestRanker_Rank_ABC(t *testing.T) {
	corpus := abcCorpus(t)
	ranker := NewRanker()

	ranking, err := ranker.Rank(corpus, mustEntity(t, corpus, 1))
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	assert.Equal(t, "A", ranking[0].Name)
	assert.Equal(t, 1, ranking[0].Rank)
	assert.Equal(t, 1.0, ranking[0].Score)

	assert.Equal(t, "C", ranking[1].Name)
	assert.Equal(t, 2, ranking[1].Rank)
	assert.InDelta(t, 0.9/math.Sqrt(0.82), ranking[1].Score, 1e-12)
	assert.InDelta(t, 0.994, ranking[1].Score, 0.001)

	assert.Equal(t, "B", ranking[2].Name)
	assert.Equal(t, 3, ranking[2].Rank)
	assert.Equal(t, 0.0, ranking[2].Score)
}

func TestRanker_Rank_DenseRanks(t *testing.T) {
	corpus, err := domain.NewCorpus([]domain.Entity{
		{ID: 10, Name: "a", Vector: []float64{1, 2, 3}},
		{ID: 11, Name: "b", Vector: []float64{-1, 0, 2}},
		{ID: 12, Name: "c", Vector: []float64{3, 2, 1}},
		{ID: 13, Name: "d", Vector: []float64{0, 0, 0}},
		{ID: 14, Name: "e", Vector: []float64{-3, -2, -1}},
		{ID: 15, Name: "f", Vector: []float64{1, 2, 3}},
	})
	require.NoError(t, err)

	ranking, err := NewRanker().Rank(corpus, mustEntity(t, corpus, 12))
	require.NoError(t, err)
	require.Len(t, ranking, corpus.Len())

	seen := make(map[int64]bool)
	for i, e := range ranking {
		assert.Equal(t, i+1, e.Rank)
		assert.GreaterOrEqual(t, e.Score, -1.0)
		assert.LessOrEqual(t, e.Score, 1.0)
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
		if i > 1 {
			assert.GreaterOrEqual(t, ranking[i-1].Score, e.Score)
		}
	}
	assert.Equal(t, int64(12), ranking[0].ID)
	assert.Equal(t, int64(14), ranking[len(ranking)-1].ID)
}

func TestRanker_Rank_TiesKeepCorpusOrder(t *testing.T) {
	corpus, err := domain.NewCorpus([]domain.Entity{
		{ID: 1, Name: "answer", Vector: []float64{1, 0}},
		{ID: 2, Name: "first twin", Vector: []float64{0, 1}},
		{ID: 3, Name: "second twin", Vector: []float64{0, 2}},
	})
	require.NoError(t, err)

	ranking, err := NewRanker().Rank(corpus, mustEntity(t, corpus, 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"answer", "first twin", "second twin"},
		[]string{ranking[0].Name, ranking[1].Name, ranking[2].Name})
	assert.Equal(t, 2, ranking[1].Rank)
	assert.Equal(t, 3, ranking[2].Rank)
}

func TestRanker_Rank_AnswerBeatsIdenticalVector(t *testing.T) {
	corpus, err := domain.NewCorpus([]domain.Entity{
		{ID: 1, Name: "copy", Vector: []float64{1, 1}},
		{ID: 2, Name: "answer", Vector: []float64{1, 1}},
	})
	require.NoError(t, err)

	ranking, err := NewRanker().Rank(corpus, mustEntity(t, corpus, 2))
	require.NoError(t, err)

	assert.Equal(t, "answer", ranking[0].Name)
	assert.Equal(t, 1, ranking[0].Rank)
	assert.Equal(t, "copy", ranking[1].Name)
	assert.Equal(t, 2, ranking[1].Rank)
}

func TestRanker_Rank_ZeroVectorAnswer(t *testing.T) {
	corpus, err := domain.NewCorpus([]domain.Entity{
		{ID: 1, Name: "zero", Vector: []float64{0, 0}},
		{ID: 2, Name: "other", Vector: []float64{1, 0}},
	})
	require.NoError(t, err)

	ranking, err := NewRanker().Rank(corpus, mustEntity(t, corpus, 1))
	require.NoError(t, err)

	assert.Equal(t, 1.0, ranking[0].Score)
	assert.Equal(t, 0.0, ranking[1].Score)
}

func TestRanker_Rank_Deterministic(t *testing.T) {
	corpus := abcCorpus(t)
	ranker := NewRanker()

	first, err := ranker.Rank(corpus, mustEntity(t, corpus, 2))
	require.NoError(t, err)
	second, err := ranker.Rank(corpus, mustEntity(t, corpus, 2))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRanker_Rank_Errors(t *testing.T) {
	corpus := abcCorpus(t)
	ranker := NewRanker()

	t.Run("answer not in corpus", func(t *testing.T) {
		_, err := ranker.Rank(corpus, domain.Entity{ID: 99, Name: "ghost", Vector: []float64{1, 0}})
		assert.ErrorIs(t, err, domain.ErrComputation)
	})

	t.Run("nil corpus", func(t *testing.T) {
		_, err := ranker.Rank(nil, domain.Entity{ID: 1})
		assert.ErrorIs(t, err, domain.ErrComputation)
	})
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2}, b: []float64{1, 2}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "zero left", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
		{name: "zero right", a: []float64{1, 1}, b: []float64{0, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := cosine([]float64{1}, []float64{1, 2})
		assert.ErrorIs(t, err, domain.ErrComputation)
	})
}
