package interdisc

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

const (
	// QueryBatchSizeDefault caps the number of paper IDs per counting
	// query, to respect store-side limits on IN-clause size.
	QueryBatchSizeDefault = 100000

	maxTaxonomies = 26 // one-letter prefixes 'A'..'Z'
)

// VenueCount is one row of a venue counting query: how many of the
// queried papers belong to VenueID under some taxonomy column.
type VenueCount struct {
	VenueID string
	Count   int64
}

// VenueCountSource is the slice of the citation store the aggregator
// needs: a counting query over a batch of paper IDs for one venue
// taxonomy column.
type VenueCountSource interface {
	VenueCounts(ctx context.Context, paperIDs []string, venueCol string) ([]VenueCount, error)
}

// Aggregator turns paper-ID lists into per-venue citation count vectors
// indexed by the matrix's fixed venue order.
//
// A store may classify a paper under more than one venue taxonomy (in
// MAG, a journal ID and a conference-series ID). Numeric venue IDs can
// collide across taxonomies, so taxonomy i gets the one-letter prefix
// 'A'+i applied to its venue IDs before merging; the persisted venue-ID
// list carries the same prefixes.
type Aggregator struct {
	source    VenueCountSource
	matrix    *Matrix
	venueCols []string
	batchSize int
}

// NewAggregator builds an Aggregator over the given taxonomy columns.
// batchSize <= 0 selects QueryBatchSizeDefault.
func NewAggregator(source VenueCountSource, m *Matrix, venueCols []string, batchSize int) (*Aggregator, error) {
	if source == nil {
		return nil, errors.New("venue count source is required")
	}
	if m == nil {
		return nil, errors.New("matrix is required")
	}
	if len(venueCols) == 0 {
		return nil, errors.New("at least one venue taxonomy column is required")
	}
	if len(venueCols) > maxTaxonomies {
		return nil, errors.Errorf("too many venue taxonomies: %d (max %d)", len(venueCols), maxTaxonomies)
	}
	if batchSize <= 0 {
		batchSize = QueryBatchSizeDefault
	}
	return &Aggregator{
		source:    source,
		matrix:    m,
		venueCols: venueCols,
		batchSize: batchSize,
	}, nil
}

// Counts aggregates venue citation counts for the given papers into a
// vector indexed by the matrix's venue order, with missing venues as 0.
// Batches are issued sequentially, one counting query per batch per
// taxonomy, and merged into a single counter.
//
// When the merge produces no data at all, Counts returns nil rather
// than a zero vector: "no data" is distinct from "all zero", and a nil
// vector short-circuits scoring to 0.
func (a *Aggregator) Counts(ctx context.Context, paperIDs []string) ([]float64, error) {
	counter := make(map[string]float64)

	for lower := 0; lower < len(paperIDs); lower += a.batchSize {
		upper := lower + a.batchSize
		if upper > len(paperIDs) {
			upper = len(paperIDs)
		}
		batch := paperIDs[lower:upper]

		for i, col := range a.venueCols {
			prefix := string(rune('A' + i))
			rows, err := a.source.VenueCounts(ctx, batch, col)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to count venues for column %s", col)
			}
			for _, vc := range rows {
				counter[prefix+vc.VenueID] += float64(vc.Count)
			}
		}
		slog.Debug("aggregated venue count batch", "from", lower, "to", upper, "venues", len(counter))
	}

	if len(counter) == 0 {
		return nil, nil
	}

	// Reindex onto the fixed venue order. Counts for venues outside the
	// list are dropped; venues with no counts stay 0.
	out := make([]float64, a.matrix.N())
	empty := true
	for i, id := range a.matrix.VenueIDs() {
		if c, ok := counter[id]; ok && c != 0 {
			out[i] = c
			empty = false
		}
	}
	if empty {
		return nil, nil
	}
	return out, nil
}
