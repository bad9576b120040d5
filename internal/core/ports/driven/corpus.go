package driven

import (
	"context"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// CorpusSource loads the entity corpus with precomputed vectors.
type CorpusSource interface {
	// Load returns the validated corpus.
	// Returns domain.ErrInvalidCorpus if the data cannot be used for ranking.
	Load(ctx context.Context) (*domain.Corpus, error)
}
