package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/scisight/interdisc/pkg/interdisc"
)

const (
	selectCitationsSQLFmt = `SELECT %s FROM %s WHERE %s IN (%s)`

	selectAuthorPapersSQLFmt = `SELECT DISTINCT %s FROM %s WHERE %s IN (%s)`
)

// Citations returns the paper IDs on the other end of the citing/cited
// relation for the given papers: cited papers for DirectionOut, citing
// papers for DirectionIn. Duplicates are preserved; a paper cited by two
// input papers counts twice downstream.
func (s *Store) Citations(ctx context.Context, paperIDs []string, direction interdisc.Direction) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if len(paperIDs) == 0 {
		return []string{}, nil
	}

	match, out := s.schema.Citing, s.schema.Cited
	if direction == interdisc.DirectionIn {
		match, out = out, match
	}

	q := fmt.Sprintf(selectCitationsSQLFmt, out, s.schema.Links, match, placeholders(len(paperIDs)))
	rows, err := s.db.QueryContext(ctx, s.rebind(q), toArgs(paperIDs)...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query %s-citations", direction)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan citation row")
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read citation rows")
	}

	slog.Debug("fetched citations", "direction", direction, "papers", len(paperIDs), "citations", len(result))
	return result, nil
}

// AuthorPapers resolves author IDs to the distinct IDs of their papers.
func (s *Store) AuthorPapers(ctx context.Context, authorIDs []string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !s.schema.hasAuthors() {
		return nil, errors.Errorf("source %s does not define author links", s.schema.Source)
	}
	if len(authorIDs) == 0 {
		return []string{}, nil
	}

	q := fmt.Sprintf(selectAuthorPapersSQLFmt,
		s.schema.AuthorPaper, s.schema.AuthorLinks, s.schema.AuthorID, placeholders(len(authorIDs)))
	rows, err := s.db.QueryContext(ctx, s.rebind(q), toArgs(authorIDs)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query author papers")
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan author paper row")
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read author paper rows")
	}

	return result, nil
}
