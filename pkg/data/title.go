package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	selectByTitleSQLFmt = `SELECT %s FROM %s WHERE lower(%s) = ? LIMIT 1`

	selectByTitleLikeSQLFmt = `SELECT %s FROM %s WHERE lower(%s) LIKE ? LIMIT 1`
)

var (
	titleNoiseRegEx = regexp.MustCompile(`\s+`)
)

// ResolveTitle resolves a paper title to a paper ID: exact
// case-insensitive match first, then a prefix LIKE, then a substring
// LIKE. Returns "" without error when nothing matches.
//
// This is identity-resolution glue, deliberately separate from the
// scoring pipeline; nothing in the scorer depends on it.
func (s *Store) ResolveTitle(ctx context.Context, title string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if s.schema.Title == "" {
		return "", errors.Errorf("source %s does not define a title column", s.schema.Source)
	}

	normalized := normalizeTitle(title)
	if normalized == "" {
		return "", errors.New("title is required")
	}

	exact := fmt.Sprintf(selectByTitleSQLFmt, s.schema.PaperID, s.schema.Papers, s.schema.Title)
	like := fmt.Sprintf(selectByTitleLikeSQLFmt, s.schema.PaperID, s.schema.Papers, s.schema.Title)

	attempts := []struct {
		query string
		arg   string
	}{
		{exact, normalized},
		{like, normalized + "%"},
		{like, "%" + normalized + "%"},
	}
	for _, a := range attempts {
		var id string
		err := s.db.QueryRowContext(ctx, s.rebind(a.query), a.arg).Scan(&id)
		switch {
		case err == sql.ErrNoRows:
			continue
		case err != nil:
			return "", errors.Wrap(err, "failed to query paper by title")
		default:
			slog.Debug("resolved title", "title", normalized, "paper", id)
			return id, nil
		}
	}
	return "", nil
}

func normalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	return titleNoiseRegEx.ReplaceAllString(t, " ")
}
