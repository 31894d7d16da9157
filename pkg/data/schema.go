package data

import (
	"regexp"
	"sync"

	"github.com/pkg/errors"
)

// Schema maps the logical fields of a citation source to its physical
// table and column names. Every SQL statement the store issues is built
// from one of these descriptors, resolved once at store construction;
// there is no per-call table-name dispatch.
//
// Author, field-of-study, and title fields are optional: a source that
// leaves them empty simply does not support the corresponding lookups.
type Schema struct {
	Source string `yaml:"source"`

	// paper (node) table
	Papers  string `yaml:"papers"`
	PaperID string `yaml:"paper_id"`
	Title   string `yaml:"title,omitempty"`
	// Venue taxonomy columns, in prefix order: the first gets venue-ID
	// prefix 'A', the second 'B', and so on.
	Venues []string `yaml:"venues"`

	// citation (link) table
	Links  string `yaml:"links"`
	Citing string `yaml:"citing"`
	Cited  string `yaml:"cited"`

	// author-paper link table
	AuthorLinks string `yaml:"author_links,omitempty"`
	AuthorID    string `yaml:"author_id,omitempty"`
	AuthorPaper string `yaml:"author_paper,omitempty"`

	// field-of-study tables
	FieldLinks     string `yaml:"field_links,omitempty"`
	FieldLinkPaper string `yaml:"field_link_paper,omitempty"`
	FieldLinkField string `yaml:"field_link_field,omitempty"`
	Fields         string `yaml:"fields,omitempty"`
	FieldID        string `yaml:"field_id,omitempty"`
	FieldName      string `yaml:"field_name,omitempty"`
	FieldHierarchy string `yaml:"field_hierarchy,omitempty"`
	ChildField     string `yaml:"child_field,omitempty"`
	ParentField    string `yaml:"parent_field,omitempty"`
	ParentLevel    string `yaml:"parent_level,omitempty"`
	// TopLevel is the ParentLevel value marking top-level fields.
	TopLevel string `yaml:"top_level,omitempty"`
}

var (
	identRegEx = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	registryMu sync.RWMutex
	registry   = map[string]*Schema{
		// Microsoft Academic Graph. Two venue taxonomies: journals and
		// conference series.
		"mag": {
			Source:  "mag",
			Papers:  "Papers",
			PaperID: "PaperId",
			Title:   "NormalizedPaperTitle",
			Venues:  []string{"JournalId", "ConferenceSeriesId"},

			Links:  "PaperReferences",
			Citing: "PaperId",
			Cited:  "PaperReferenceId",

			AuthorLinks: "PaperAuthorAffiliations",
			AuthorID:    "AuthorId",
			AuthorPaper: "PaperId",

			FieldLinks:     "PaperKeywords",
			FieldLinkPaper: "PaperId",
			FieldLinkField: "FieldOfStudyIdMappedToKeyword",
			Fields:         "FieldsOfStudy",
			FieldID:        "FieldOfStudyId",
			FieldName:      "FieldOfStudyName",
			FieldHierarchy: "FieldOfStudyHierarchy",
			ChildField:     "ChildFieldOfStudyId",
			ParentField:    "ParentFieldOfStudyId",
			ParentLevel:    "ParentFieldOfStudyLevel",
			TopLevel:       "L0",
		},
		// JSTOR journal citation network. Single venue taxonomy, no
		// author or field-of-study tables.
		"jstor": {
			Source:  "jstor",
			Papers:  "nodes",
			PaperID: "pID",
			Title:   "title",
			Venues:  []string{"jID"},

			Links:  "links",
			Citing: "citing",
			Cited:  "cited",
		},
	}
)

// GetSchema returns the registered schema for a source name.
func GetSchema(source string) (*Schema, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[source]
	if !ok {
		return nil, errors.Errorf("unknown citation source: %s", source)
	}
	return s, nil
}

// RegisterSchema adds or replaces a source schema, validating every
// identifier before it can ever be spliced into SQL.
func RegisterSchema(s *Schema) error {
	if s == nil {
		return errors.New("schema is required")
	}
	if err := s.validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Source] = s
	return nil
}

// Sources lists the registered source names.
func Sources() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func (s *Schema) validate() error {
	if s.Source == "" {
		return errors.New("schema source name is required")
	}

	required := map[string]string{
		"papers":   s.Papers,
		"paper_id": s.PaperID,
		"links":    s.Links,
		"citing":   s.Citing,
		"cited":    s.Cited,
	}
	for field, v := range required {
		if v == "" {
			return errors.Errorf("schema %s: %s is required", s.Source, field)
		}
	}
	if len(s.Venues) == 0 {
		return errors.Errorf("schema %s: at least one venue column is required", s.Source)
	}

	all := []string{s.Papers, s.PaperID, s.Links, s.Citing, s.Cited}
	all = append(all, s.Venues...)
	optional := []string{
		s.Title,
		s.AuthorLinks, s.AuthorID, s.AuthorPaper,
		s.FieldLinks, s.FieldLinkPaper, s.FieldLinkField,
		s.Fields, s.FieldID, s.FieldName,
		s.FieldHierarchy, s.ChildField, s.ParentField, s.ParentLevel,
	}
	for _, v := range optional {
		if v != "" {
			all = append(all, v)
		}
	}
	for _, ident := range all {
		if !identRegEx.MatchString(ident) {
			return errors.Errorf("schema %s: invalid identifier: %q", s.Source, ident)
		}
	}
	return nil
}

// hasAuthors reports whether the source defines the author link table.
func (s *Schema) hasAuthors() bool {
	return s.AuthorLinks != "" && s.AuthorID != "" && s.AuthorPaper != ""
}

// hasFields reports whether the source defines the field-of-study tables.
func (s *Schema) hasFields() bool {
	return s.FieldLinks != "" && s.Fields != "" && s.FieldHierarchy != ""
}
