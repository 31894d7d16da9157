package interdisc

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

// Direction selects the side of the citing/cited relation.
type Direction string

const (
	// DirectionOut selects papers cited by the input papers.
	DirectionOut Direction = "out"
	// DirectionIn selects papers citing the input papers.
	DirectionIn Direction = "in"
)

// CitationStore is the external collaborator the scorer reads from.
// Implementations are expected to treat empty results as data (empty
// slices), not errors; query failures propagate unretried.
type CitationStore interface {
	VenueCountSource

	// Citations returns the paper IDs on the other end of the
	// citing/cited relation for the given papers.
	Citations(ctx context.Context, paperIDs []string, direction Direction) ([]string, error)

	// AuthorPapers resolves author IDs to the IDs of their papers.
	AuthorPapers(ctx context.Context, authorIDs []string) ([]string, error)
}

// Score is one interdisciplinarity score together with the number of
// citations it was computed over.
type Score struct {
	Value     float64 `json:"score" yaml:"score"`
	Citations int     `json:"citations" yaml:"citations"`
}

// Scores pairs the two interdisciplinarity measures for one paper or
// author set.
type Scores struct {
	Integrator Score `json:"integrator" yaml:"integrator"`
	Broadcast  Score `json:"broadcast" yaml:"broadcast"`
}

// Scorer orchestrates the scoring pipeline: citation lookup, venue-count
// aggregation, and the integrator/broadcast calculations against the
// loaded matrix. It holds no per-request state; a single Scorer serves
// concurrent requests.
type Scorer struct {
	store  CitationStore
	matrix *Matrix
	agg    *Aggregator
}

// NewScorer builds a Scorer over a citation store and a loaded matrix.
// venueCols are the store's venue taxonomy columns, in prefix order;
// batchSize <= 0 selects the default.
func NewScorer(store CitationStore, m *Matrix, venueCols []string, batchSize int) (*Scorer, error) {
	if store == nil {
		return nil, errors.New("citation store is required")
	}
	agg, err := NewAggregator(store, m, venueCols, batchSize)
	if err != nil {
		return nil, err
	}
	return &Scorer{store: store, matrix: m, agg: agg}, nil
}

// IntegratorScore fetches the outgoing citations of the given papers,
// aggregates them to a venue count vector, and computes the integrator
// score. Papers with no usable outgoing citations score 0 with the
// citation count reported as found.
func (s *Scorer) IntegratorScore(ctx context.Context, paperIDs []string) (Score, error) {
	return s.score(ctx, paperIDs, DirectionOut, Integrator)
}

// BroadcastScore is the symmetric measure over incoming citations.
func (s *Scorer) BroadcastScore(ctx context.Context, paperIDs []string) (Score, error) {
	return s.score(ctx, paperIDs, DirectionIn, Broadcast)
}

func (s *Scorer) score(ctx context.Context, paperIDs []string, dir Direction, calc func([]float64, *Matrix) float64) (Score, error) {
	cites, err := s.store.Citations(ctx, paperIDs, dir)
	if err != nil {
		return Score{}, errors.Wrapf(err, "failed to fetch %s-citations", dir)
	}

	counts, err := s.agg.Counts(ctx, cites)
	if err != nil {
		return Score{}, err
	}

	score := Score{Citations: len(cites)}
	if counts == nil {
		slog.Debug("no venue counts, scoring 0", "direction", dir, "papers", len(paperIDs))
		return score, nil
	}

	score.Value = calc(counts, s.matrix)
	return score, nil
}

// ScoresFromPaperIDs computes both scores for a paper set.
func (s *Scorer) ScoresFromPaperIDs(ctx context.Context, paperIDs []string) (*Scores, error) {
	integrator, err := s.IntegratorScore(ctx, paperIDs)
	if err != nil {
		return nil, err
	}
	broadcast, err := s.BroadcastScore(ctx, paperIDs)
	if err != nil {
		return nil, err
	}
	return &Scores{Integrator: integrator, Broadcast: broadcast}, nil
}

// ScoresFromAuthorIDs resolves author IDs to their papers and computes
// both scores over the combined paper set.
func (s *Scorer) ScoresFromAuthorIDs(ctx context.Context, authorIDs []string) (*Scores, error) {
	paperIDs, err := s.store.AuthorPapers(ctx, authorIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve author papers")
	}
	return s.ScoresFromPaperIDs(ctx, paperIDs)
}
