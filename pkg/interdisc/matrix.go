package interdisc

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

const (
	// VenueIDDelimiterDefault separates venue IDs in the persisted ID list.
	VenueIDDelimiterDefault = ","

	mmHeaderPrefix = "%%MatrixMarket"
)

var (
	// ErrDimensionMismatch is returned when the matrix dimension does not
	// match the number of venue IDs. This is a configuration error and
	// fails construction.
	ErrDimensionMismatch = errors.New("venue matrix dimension does not match venue ID count")
)

// Entry is one nonzero cell of the venue citation matrix:
// Count citations from venue Row to venue Col.
type Entry struct {
	Row   int
	Col   int
	Count float64
}

// Matrix is the immutable venue-to-venue citation matrix together with
// its row- and column-L1-normalized forms. All three are held in CSR;
// the column-normalized form is stored as rows of the transpose so that
// column extraction is a contiguous scan. There is no dense code path.
//
// A Matrix is safe for unsynchronized concurrent reads once constructed.
type Matrix struct {
	venueIDs []string
	index    map[string]int
	counts   *csr
	rowNorm  *csr
	colNorm  *csr // transpose, rows are columns of the original
}

// csr is a compressed sparse row matrix of order n.
type csr struct {
	n      int
	rowPtr []int
	colIdx []int
	val    []float64
}

// NewMatrix builds a Matrix from an ordered venue-ID list and the
// nonzero entries of the citation matrix. The matrix order is fixed by
// len(venueIDs); entries outside [0,n) fail construction. Duplicate
// entries are summed. Both normalized forms are computed here, eagerly.
func NewMatrix(venueIDs []string, entries []Entry) (*Matrix, error) {
	n := len(venueIDs)
	if n == 0 {
		return nil, errors.New("venue ID list is empty")
	}

	index := make(map[string]int, n)
	for i, id := range venueIDs {
		if id == "" {
			return nil, errors.Errorf("empty venue ID at position %d", i)
		}
		if _, ok := index[id]; ok {
			return nil, errors.Errorf("duplicate venue ID: %s", id)
		}
		index[id] = i
	}

	counts, err := newCSR(n, entries)
	if err != nil {
		return nil, err
	}

	m := &Matrix{
		venueIDs: venueIDs,
		index:    index,
		counts:   counts,
	}

	// The two normalized forms are independent; compute them concurrently.
	var g errgroup.Group
	g.Go(func() error {
		m.rowNorm = counts.normalizeRows()
		return nil
	})
	g.Go(func() error {
		m.colNorm = counts.transpose().normalizeRows()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return m, nil
}

// Load reads a Matrix Market coordinate file and a delimited venue-ID
// file (delimiter defaults to ","), and fails if the matrix order does
// not equal the number of venue IDs.
func Load(matrixPath, venueIDsPath, delimiter string) (*Matrix, error) {
	ids, err := LoadVenueIDs(venueIDsPath, delimiter)
	if err != nil {
		return nil, err
	}

	n, entries, err := readMatrixMarket(matrixPath)
	if err != nil {
		return nil, err
	}
	if n != len(ids) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "matrix order %d, venue IDs %d", n, len(ids))
	}

	return NewMatrix(ids, entries)
}

// LoadVenueIDs reads the ordered venue-ID list from a delimited file.
// The file is a single token stream split on the delimiter; surrounding
// whitespace (including newlines) is trimmed from each token.
func LoadVenueIDs(path, delimiter string) ([]string, error) {
	if delimiter == "" {
		delimiter = VenueIDDelimiterDefault
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read venue ID file: %s", path)
	}

	raw := strings.Split(strings.TrimSpace(string(b)), delimiter)
	ids := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t != "" {
			ids = append(ids, t)
		}
	}
	if len(ids) == 0 {
		return nil, errors.Errorf("no venue IDs in file: %s", path)
	}
	return ids, nil
}

// readMatrixMarket parses a Matrix Market file in coordinate format with
// 1-based indices. Array (dense) format is rejected: the citation matrix
// has exactly one supported representation.
func readMatrixMarket(path string) (int, []Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "failed to open matrix file: %s", path)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	if !s.Scan() {
		return 0, nil, errors.Errorf("empty matrix file: %s", path)
	}
	header := strings.Fields(s.Text())
	if len(header) < 3 || !strings.HasPrefix(header[0], mmHeaderPrefix) {
		return 0, nil, errors.Errorf("not a Matrix Market file: %s", path)
	}
	if !strings.EqualFold(header[2], "coordinate") {
		return 0, nil, errors.Errorf("unsupported matrix format %q (only coordinate is supported): %s", header[2], path)
	}

	var (
		rows, cols, nnz int
		haveSize        bool
		entries         []Entry
		line            int
	)
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		fields := strings.Fields(text)

		if !haveSize {
			if len(fields) != 3 {
				return 0, nil, errors.Errorf("malformed size line %q in %s", text, path)
			}
			rows, err = strconv.Atoi(fields[0])
			if err == nil {
				cols, err = strconv.Atoi(fields[1])
			}
			if err == nil {
				nnz, err = strconv.Atoi(fields[2])
			}
			if err != nil {
				return 0, nil, errors.Wrapf(err, "malformed size line %q in %s", text, path)
			}
			if rows != cols {
				return 0, nil, errors.Errorf("matrix is not square (%dx%d): %s", rows, cols, path)
			}
			haveSize = true
			entries = make([]Entry, 0, nnz)
			continue
		}

		if len(fields) < 2 {
			return 0, nil, errors.Errorf("malformed entry %q in %s", text, path)
		}
		r, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, nil, errors.Wrapf(err, "malformed row index %q in %s", fields[0], path)
		}
		c, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, nil, errors.Wrapf(err, "malformed column index %q in %s", fields[1], path)
		}
		v := 1.0 // pattern matrices carry no value field
		if len(fields) > 2 {
			v, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return 0, nil, errors.Wrapf(err, "malformed value %q in %s", fields[2], path)
			}
		}
		entries = append(entries, Entry{Row: r - 1, Col: c - 1, Count: v})
	}
	if err := s.Err(); err != nil {
		return 0, nil, errors.Wrapf(err, "failed to read matrix file: %s", path)
	}
	if !haveSize {
		return 0, nil, errors.Errorf("missing size line in matrix file: %s", path)
	}
	if len(entries) != nnz {
		return 0, nil, errors.Errorf("expected %d entries, found %d in %s", nnz, len(entries), path)
	}
	return rows, entries, nil
}

// N returns the matrix order (the number of venues).
func (m *Matrix) N() int { return m.counts.n }

// NNZ returns the number of stored nonzero counts.
func (m *Matrix) NNZ() int { return len(m.counts.val) }

// VenueIDs returns the ordered venue-ID list. The returned slice is
// shared and must not be modified.
func (m *Matrix) VenueIDs() []string { return m.venueIDs }

// Index returns the row/column index of a venue ID.
func (m *Matrix) Index(venueID string) (int, bool) {
	i, ok := m.index[venueID]
	return i, ok
}

// RowProfile writes row j of the row-normalized matrix (the outgoing
// citation profile of venue j) into dst and returns it. dst must have
// length N.
func (m *Matrix) RowProfile(j int, dst []float64) []float64 {
	return m.rowNorm.row(j, dst)
}

// ColProfile writes column j of the column-normalized matrix (the
// incoming citation profile of venue j) into dst and returns it. dst
// must have length N.
func (m *Matrix) ColProfile(j int, dst []float64) []float64 {
	return m.colNorm.row(j, dst)
}

func newCSR(n int, entries []Entry) (*csr, error) {
	for _, e := range entries {
		if e.Row < 0 || e.Row >= n || e.Col < 0 || e.Col >= n {
			return nil, errors.Errorf("matrix entry (%d,%d) outside order %d", e.Row, e.Col, n)
		}
		if e.Count < 0 {
			return nil, errors.Errorf("negative citation count %f at (%d,%d)", e.Count, e.Row, e.Col)
		}
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	c := &csr{
		n:      n,
		rowPtr: make([]int, n+1),
		colIdx: make([]int, 0, len(sorted)),
		val:    make([]float64, 0, len(sorted)),
	}
	prevRow, prevCol := -1, -1
	for _, e := range sorted {
		if e.Row == prevRow && e.Col == prevCol {
			c.val[len(c.val)-1] += e.Count // coalesce duplicates
			continue
		}
		c.colIdx = append(c.colIdx, e.Col)
		c.val = append(c.val, e.Count)
		c.rowPtr[e.Row+1]++
		prevRow, prevCol = e.Row, e.Col
	}
	for i := 0; i < n; i++ {
		c.rowPtr[i+1] += c.rowPtr[i]
	}
	return c, nil
}

// row densifies row i into dst.
func (c *csr) row(i int, dst []float64) []float64 {
	for k := range dst {
		dst[k] = 0
	}
	for k := c.rowPtr[i]; k < c.rowPtr[i+1]; k++ {
		dst[c.colIdx[k]] = c.val[k]
	}
	return dst
}

// normalizeRows returns a copy of c with every row L1-normalized.
// Rows that sum to zero stay zero; there is no division by zero.
func (c *csr) normalizeRows() *csr {
	out := &csr{
		n:      c.n,
		rowPtr: c.rowPtr,
		colIdx: c.colIdx,
		val:    make([]float64, len(c.val)),
	}
	for i := 0; i < c.n; i++ {
		start, end := c.rowPtr[i], c.rowPtr[i+1]
		sum := floats.Sum(c.val[start:end])
		if sum <= 0 {
			continue
		}
		for k := start; k < end; k++ {
			out.val[k] = c.val[k] / sum
		}
	}
	return out
}

// transpose returns the CSC form of c as a CSR matrix over the
// transposed axes.
func (c *csr) transpose() *csr {
	t := &csr{
		n:      c.n,
		rowPtr: make([]int, c.n+1),
		colIdx: make([]int, len(c.colIdx)),
		val:    make([]float64, len(c.val)),
	}
	for _, j := range c.colIdx {
		t.rowPtr[j+1]++
	}
	for i := 0; i < c.n; i++ {
		t.rowPtr[i+1] += t.rowPtr[i]
	}
	next := make([]int, c.n)
	copy(next, t.rowPtr[:c.n])
	for i := 0; i < c.n; i++ {
		for k := c.rowPtr[i]; k < c.rowPtr[i+1]; k++ {
			j := c.colIdx[k]
			pos := next[j]
			t.colIdx[pos] = i
			t.val[pos] = c.val[k]
			next[j]++
		}
	}
	return t
}
