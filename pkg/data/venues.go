package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/scisight/interdisc/pkg/interdisc"
)

const (
	selectVenueCountsSQLFmt = `SELECT %[1]s, COUNT(*) FROM %[2]s WHERE %[3]s IN (%[4]s) AND %[1]s IS NOT NULL GROUP BY %[1]s`
)

// VenueCounts counts the given papers per venue under one taxonomy
// column. Venue IDs are returned raw, without taxonomy prefixes; the
// aggregator applies those. Papers without a venue under this taxonomy
// contribute nothing.
func (s *Store) VenueCounts(ctx context.Context, paperIDs []string, venueCol string) ([]interdisc.VenueCount, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !contains(s.schema.Venues, venueCol) {
		return nil, errors.Errorf("unknown venue column for source %s: %s", s.schema.Source, venueCol)
	}
	if len(paperIDs) == 0 {
		return []interdisc.VenueCount{}, nil
	}

	q := fmt.Sprintf(selectVenueCountsSQLFmt, venueCol, s.schema.Papers, s.schema.PaperID, placeholders(len(paperIDs)))
	rows, err := s.db.QueryContext(ctx, s.rebind(q), toArgs(paperIDs)...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query venue counts for %s", venueCol)
	}
	defer rows.Close()

	result := []interdisc.VenueCount{}
	for rows.Next() {
		var venue sql.NullString
		var count int64
		if err := rows.Scan(&venue, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan venue count row")
		}
		if !venue.Valid || venue.String == "" {
			continue
		}
		result = append(result, interdisc.VenueCount{VenueID: venue.String, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read venue count rows")
	}

	slog.Debug("counted venues", "column", venueCol, "papers", len(paperIDs), "venues", len(result))
	return result, nil
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
