package data

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

const (
	selectPaperFieldsSQLFmt = `SELECT %s FROM %s WHERE %s IN (%s)`

	selectTopLevelParentsSQLFmt = `SELECT %s FROM %s WHERE %s IN (%s) AND %s = ?`

	selectFieldNamesSQLFmt = `SELECT %s, %s FROM %s WHERE %s IN (%s)`
)

// FieldCount is an ordered counter entry: how many of the queried
// fields roll up to top-level field FieldID.
type FieldCount struct {
	FieldID string `json:"field_id" yaml:"field_id"`
	Count   int64  `json:"count" yaml:"count"`
}

// PaperField is the dominant top-level field of study for a paper.
type PaperField struct {
	FieldID string `json:"field_id" yaml:"field_id"`
	Name    string `json:"name" yaml:"name"`
}

func (s *Store) requireFields() error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.schema.hasFields() {
		return errors.Errorf("source %s does not define field-of-study tables", s.schema.Source)
	}
	return nil
}

// PaperFields returns the field-of-study IDs attached to the given
// papers, duplicates included.
func (s *Store) PaperFields(ctx context.Context, paperIDs []string) ([]string, error) {
	if err := s.requireFields(); err != nil {
		return nil, err
	}
	if len(paperIDs) == 0 {
		return []string{}, nil
	}

	q := fmt.Sprintf(selectPaperFieldsSQLFmt,
		s.schema.FieldLinkField, s.schema.FieldLinks, s.schema.FieldLinkPaper, placeholders(len(paperIDs)))
	rows, err := s.db.QueryContext(ctx, s.rebind(q), toArgs(paperIDs)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query paper fields")
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan field row")
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read field rows")
	}
	return result, nil
}

// TopLevelFieldCounts rolls the given field IDs up the field hierarchy
// and counts their top-level parents. The counter preserves first-seen
// insertion order, which is also the tie-break order consumers rely on.
func (s *Store) TopLevelFieldCounts(ctx context.Context, fieldIDs []string) ([]FieldCount, error) {
	if err := s.requireFields(); err != nil {
		return nil, err
	}
	if len(fieldIDs) == 0 {
		return []FieldCount{}, nil
	}

	q := fmt.Sprintf(selectTopLevelParentsSQLFmt,
		s.schema.ParentField, s.schema.FieldHierarchy, s.schema.ChildField, placeholders(len(fieldIDs)), s.schema.ParentLevel)
	args := append(toArgs(fieldIDs), s.schema.TopLevel)
	rows, err := s.db.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query top-level fields")
	}
	defer rows.Close()

	tally := make(map[string]int)
	order := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan top-level field row")
		}
		if _, seen := tally[id]; !seen {
			order = append(order, id)
		}
		tally[id]++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read top-level field rows")
	}

	result := make([]FieldCount, 0, len(order))
	for _, id := range order {
		result = append(result, FieldCount{FieldID: id, Count: int64(tally[id])})
	}
	return result, nil
}

// FieldNames resolves field-of-study IDs to display names.
func (s *Store) FieldNames(ctx context.Context, fieldIDs []string) (map[string]string, error) {
	if err := s.requireFields(); err != nil {
		return nil, err
	}
	if len(fieldIDs) == 0 {
		return map[string]string{}, nil
	}

	q := fmt.Sprintf(selectFieldNamesSQLFmt,
		s.schema.FieldID, s.schema.FieldName, s.schema.Fields, s.schema.FieldID, placeholders(len(fieldIDs)))
	rows, err := s.db.QueryContext(ctx, s.rebind(q), toArgs(fieldIDs)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query field names")
	}
	defer rows.Close()

	result := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, errors.Wrap(err, "failed to scan field name row")
		}
		result[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read field name rows")
	}
	return result, nil
}

// SingleFieldForPaper returns the most frequent top-level field of study
// for one paper. When several top-level fields are equally frequent, the
// first by counter insertion order wins; no stronger guarantee is made.
// Returns nil when the paper has no fields.
func (s *Store) SingleFieldForPaper(ctx context.Context, paperID string) (*PaperField, error) {
	fields, err := s.PaperFields(ctx, []string{paperID})
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	counts, err := s.TopLevelFieldCounts(ctx, fields)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, nil
	}

	top := counts[0]
	for _, fc := range counts[1:] {
		if fc.Count > top.Count {
			top = fc
		}
	}

	names, err := s.FieldNames(ctx, []string{top.FieldID})
	if err != nil {
		return nil, err
	}
	return &PaperField{FieldID: top.FieldID, Name: names[top.FieldID]}, nil
}
