package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scisight/interdisc/pkg/interdisc"
)

func setupJSTORStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(DriverSQLite, path, "jstor")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.db.Exec(`
		CREATE TABLE nodes (pID TEXT PRIMARY KEY, jID TEXT, title TEXT, year INTEGER);
		CREATE TABLE links (citing TEXT, cited TEXT);
	`)
	require.NoError(t, err)

	_, err = store.db.Exec(`
		INSERT INTO nodes (pID, jID, title, year) VALUES
			('p1', '10', 'Interdisciplinarity in Science', 1999),
			('p2', '10', 'Citation Networks', 2001),
			('p3', '11', 'Journal Mapping', 2003),
			('p4', NULL, 'Orphan Paper', 2005);
		INSERT INTO links (citing, cited) VALUES
			('p1', 'p2'),
			('p1', 'p3'),
			('p1', 'p4'),
			('p2', 'p3'),
			('p3', 'p1');
	`)
	require.NoError(t, err)
	return store
}

func TestStore_CitationsOut(t *testing.T) {
	store := setupJSTORStore(t)

	out, err := store.Citations(context.Background(), []string{"p1"}, interdisc.DirectionOut)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p2", "p3", "p4"}, out)
}

func TestStore_CitationsIn(t *testing.T) {
	store := setupJSTORStore(t)

	in, err := store.Citations(context.Background(), []string{"p3"}, interdisc.DirectionIn)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, in)
}

func TestStore_CitationsEmptyInput(t *testing.T) {
	store := setupJSTORStore(t)

	out, err := store.Citations(context.Background(), nil, interdisc.DirectionOut)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStore_CitationsNoMatches(t *testing.T) {
	store := setupJSTORStore(t)

	out, err := store.Citations(context.Background(), []string{"unknown"}, interdisc.DirectionOut)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStore_VenueCounts(t *testing.T) {
	store := setupJSTORStore(t)

	counts, err := store.VenueCounts(context.Background(), []string{"p1", "p2", "p3", "p4"}, "jID")
	require.NoError(t, err)
	// p4 has a NULL venue and contributes nothing
	assert.ElementsMatch(t, []interdisc.VenueCount{
		{VenueID: "10", Count: 2},
		{VenueID: "11", Count: 1},
	}, counts)
}

func TestStore_VenueCountsUnknownColumn(t *testing.T) {
	store := setupJSTORStore(t)

	_, err := store.VenueCounts(context.Background(), []string{"p1"}, "ConferenceSeriesId")
	assert.Error(t, err)
}

func TestStore_VenueCountsEmptyInput(t *testing.T) {
	store := setupJSTORStore(t)

	counts, err := store.VenueCounts(context.Background(), nil, "jID")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestStore_AuthorPapersUnsupportedSource(t *testing.T) {
	store := setupJSTORStore(t)

	_, err := store.AuthorPapers(context.Background(), []string{"a1"})
	assert.Error(t, err)
}

func TestStore_ResolveTitle(t *testing.T) {
	store := setupJSTORStore(t)
	ctx := context.Background()

	id, err := store.ResolveTitle(ctx, "Interdisciplinarity in Science")
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	// case and whitespace insensitive
	id, err = store.ResolveTitle(ctx, "  CITATION   networks ")
	require.NoError(t, err)
	assert.Equal(t, "p2", id)

	// prefix fallback
	id, err = store.ResolveTitle(ctx, "journal map")
	require.NoError(t, err)
	assert.Equal(t, "p3", id)

	// substring fallback
	id, err = store.ResolveTitle(ctx, "orphan")
	require.NoError(t, err)
	assert.Equal(t, "p4", id)

	// no match is not an error
	id, err = store.ResolveTitle(ctx, "nonexistent paper")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestStore_NotInitialized(t *testing.T) {
	var store *Store
	_, err := store.Citations(context.Background(), []string{"p1"}, interdisc.DirectionOut)
	assert.ErrorIs(t, err, errStoreNotInitialized)
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open("mysql", "dsn", "jstor")
	assert.Error(t, err)

	_, err = Open(DriverSQLite, "", "jstor")
	assert.Error(t, err)

	_, err = Open(DriverSQLite, "x.db", "unknown-source")
	assert.Error(t, err)
}

func TestStore_Rebind(t *testing.T) {
	s := &Store{driver: DriverPostgres}
	assert.Equal(t,
		"SELECT cited FROM links WHERE citing IN ($1,$2,$3)",
		s.rebind("SELECT cited FROM links WHERE citing IN (?,?,?)"))

	s.driver = DriverSQLite
	assert.Equal(t, "SELECT 1 WHERE a = ?", s.rebind("SELECT 1 WHERE a = ?"))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
