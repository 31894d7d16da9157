package data

import (
	"database/sql"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	// DriverSQLite is the default, file-backed citation store driver.
	DriverSQLite = "sqlite"
	// DriverPostgres serves server-hosted stores (MAG-scale graphs).
	DriverPostgres = "postgres"
)

var (
	errStoreNotInitialized = errors.New("citation store not initialized")
)

// Store is a SQL-backed citation store for one source schema. It
// implements the interdisc.CitationStore collaborator surface plus the
// title and field-of-study lookups.
type Store struct {
	db     *sql.DB
	driver string
	schema *Schema
}

// Open connects a Store for a registered source.
func Open(driver, dsn, source string) (*Store, error) {
	schema, err := GetSchema(source)
	if err != nil {
		return nil, err
	}
	return OpenWithSchema(driver, dsn, schema)
}

// OpenWithSchema connects a Store with an explicit schema descriptor.
func OpenWithSchema(driver, dsn string, schema *Schema) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, errors.Errorf("unsupported driver: %s", driver)
	}
	if dsn == "" {
		return nil, errors.New("store DSN is required")
	}
	if schema == nil {
		return nil, errors.New("schema is required")
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s store", driver)
	}

	slog.Debug("citation store opened", "driver", driver, "source", schema.Source)
	return &Store{db: db, driver: driver, schema: schema}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Schema returns the source schema the store was opened with.
func (s *Store) Schema() *Schema {
	return s.schema
}

// VenueColumns returns the source's venue taxonomy columns in prefix
// order, for wiring the aggregator.
func (s *Store) VenueColumns() []string {
	return s.schema.Venues
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}
	return nil
}

// rebind rewrites ?-style placeholders to the $n form for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders renders n comma-separated ?-placeholders for an IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
