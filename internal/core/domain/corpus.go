package domain

import "fmt"

// Entity is a single guessable corpus entry with its precomputed vector.
type Entity struct {
	// ID is the stable numeric identifier.
	ID int64 `json:"id"`

	// Name is unique across the corpus and is what players guess.
	Name string `json:"name"`

	// Content is revealed only when the entity is guessed as the answer.
	Content string `json:"content"`

	// Vector is the precomputed embedding. All vectors share one dimension.
	Vector []float64 `json:"vector"`
}

// Corpus is an immutable, validated, ordered set of entities.
// Iteration order is load order and is the ranking tie-break order.
type Corpus struct {
	entities  []Entity
	byID      map[int64]int
	dimension int
}

// NewCorpus validates entities and builds a Corpus.
// It rejects an empty corpus, duplicate ids or names, blank names,
// empty vectors and mixed vector dimensions.
func NewCorpus(entities []Entity) (*Corpus, error) {
	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: corpus is empty", ErrInvalidCorpus)
	}

	c := &Corpus{
		entities:  make([]Entity, len(entities)),
		byID:      make(map[int64]int, len(entities)),
		dimension: len(entities[0].Vector),
	}
	if c.dimension == 0 {
		return nil, fmt.Errorf("%w: entity %d has an empty vector", ErrInvalidCorpus, entities[0].ID)
	}

	names := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: entity %d has no name", ErrInvalidCorpus, e.ID)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidCorpus, e.ID)
		}
		if _, dup := names[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidCorpus, e.Name)
		}
		if len(e.Vector) != c.dimension {
			return nil, fmt.Errorf("%w: entity %d has dimension %d, want %d",
				ErrInvalidCorpus, e.ID, len(e.Vector), c.dimension)
		}

		vec := make([]float64, len(e.Vector))
		copy(vec, e.Vector)
		e.Vector = vec

		c.entities[i] = e
		c.byID[e.ID] = i
		names[e.Name] = struct{}{}
	}

	return c, nil
}

// Len returns the number of entities.
func (c *Corpus) Len() int {
	return len(c.entities)
}

// Dimension returns the shared vector dimension.
func (c *Corpus) Dimension() int {
	return c.dimension
}

// Entities returns the entities in corpus order.
// The returned slice must not be modified.
func (c *Corpus) Entities() []Entity {
	return c.entities
}

// IDs returns the entity ids in corpus order.
func (c *Corpus) IDs() []int64 {
	ids := make([]int64, len(c.entities))
	for i, e := range c.entities {
		ids[i] = e.ID
	}
	return ids
}

// Get returns the entity with the given id.
func (c *Corpus) Get(id int64) (Entity, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entity{}, false
	}
	return c.entities[i], true
}
