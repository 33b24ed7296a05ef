// Package datasource defines the read-only table and matrix contracts a
// layer plots from, with in-memory, CSV and XLSX implementations.
package datasource

import (
	"fmt"
	"strings"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// ColumnType is the declared semantic type of a column.
type ColumnType int

const (
	Numeric ColumnType = iota
	Text
	Date
	Time
)

func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "Numeric"
	case Text:
		return "Text"
	case Date:
		return "Date"
	case Time:
		return "Time"
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// Designation is the plot role of a column.
type Designation int

const (
	None Designation = iota
	X
	Y
	Z
	XError
	YError
)

func (d Designation) String() string {
	switch d {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	case XError:
		return "xErr"
	case YError:
		return "yErr"
	}
	return "None"
}

// Source is a table a layer reads curve data from. Row and column indices
// are 0-based. Implementations return "" for out-of-range cells.
type Source interface {
	Name() string
	RowCount() int
	ColumnCount() int
	ColumnName(col int) string
	// ColumnIndex resolves a column name, -1 when unknown.
	ColumnIndex(name string) int
	Cell(row, col int) string
	ColumnType(col int) ColumnType
	// ColumnFormat is the Go time layout of Date/Time columns.
	ColumnFormat(col int) string
	Designation(col int) Designation
}

// Matrix is a grid of values spanning a rectangle in data space.
type Matrix interface {
	Name() string
	Rows() int
	Cols() int
	Value(row, col int) float64
	// Bounds returns x0, x1, y0, y1.
	Bounds() [4]float64
}

// Column is one column of a Table.
type Column struct {
	Name        string
	Type        ColumnType
	Format      string
	Designation Designation
	Cells       []string
}

// Table is an in-memory Source.
type Table struct {
	name    string
	columns []Column
}

// NewTable creates a table with the given columns.
func NewTable(name string, columns ...Column) *Table {
	t := &Table{name: name}
	for _, c := range columns {
		c.Cells = append([]string(nil), c.Cells...)
		t.columns = append(t.columns, c)
	}
	return t
}

func (t *Table) Name() string     { return t.name }
func (t *Table) ColumnCount() int { return len(t.columns) }

// RowCount returns the length of the longest column.
func (t *Table) RowCount() int {
	n := 0
	for _, c := range t.columns {
		if len(c.Cells) > n {
			n = len(c.Cells)
		}
	}
	return n
}

func (t *Table) ColumnName(col int) string {
	if col < 0 || col >= len(t.columns) {
		return ""
	}
	return t.columns[col].Name
}

// ColumnIndex accepts the bare column name or "table_column".
func (t *Table) ColumnIndex(name string) int {
	name = strings.TrimPrefix(name, t.name+"_")
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.columns) || row < 0 || row >= len(t.columns[col].Cells) {
		return ""
	}
	return t.columns[col].Cells[row]
}

func (t *Table) ColumnType(col int) ColumnType {
	if col < 0 || col >= len(t.columns) {
		return Numeric
	}
	return t.columns[col].Type
}

func (t *Table) ColumnFormat(col int) string {
	if col < 0 || col >= len(t.columns) {
		return ""
	}
	return t.columns[col].Format
}

func (t *Table) Designation(col int) Designation {
	if col < 0 || col >= len(t.columns) {
		return None
	}
	return t.columns[col].Designation
}

// SetColumnType declares the type and time layout of a column.
func (t *Table) SetColumnType(col int, typ ColumnType, format string) error {
	if col < 0 || col >= len(t.columns) {
		return types.Errorf(types.ErrRange, "setColumnType", "column %d", col)
	}
	t.columns[col].Type = typ
	t.columns[col].Format = format
	return nil
}

// SetCell writes a cell, growing the column as needed. This is the write
// path cell-update notifications end in.
func (t *Table) SetCell(row, col int, text string) error {
	if col < 0 || col >= len(t.columns) || row < 0 {
		return types.Errorf(types.ErrRange, "setCell", "cell (%d,%d)", row, col)
	}
	c := &t.columns[col]
	for len(c.Cells) <= row {
		c.Cells = append(c.Cells, "")
	}
	c.Cells[row] = text
	return nil
}

// Grid is an in-memory Matrix.
type Grid struct {
	name   string
	values [][]float64
	bounds [4]float64
}

// NewGrid creates a matrix from rows of values. Rows shorter than the first
// are padded with zeros.
func NewGrid(name string, values [][]float64, bounds [4]float64) *Grid {
	g := &Grid{name: name, bounds: bounds}
	cols := 0
	if len(values) > 0 {
		cols = len(values[0])
	}
	for _, row := range values {
		r := make([]float64, cols)
		copy(r, row)
		g.values = append(g.values, r)
	}
	return g
}

func (g *Grid) Name() string       { return g.name }
func (g *Grid) Rows() int          { return len(g.values) }
func (g *Grid) Bounds() [4]float64 { return g.bounds }

func (g *Grid) Cols() int {
	if len(g.values) == 0 {
		return 0
	}
	return len(g.values[0])
}

func (g *Grid) Value(row, col int) float64 {
	if row < 0 || row >= len(g.values) || col < 0 || col >= len(g.values[row]) {
		return 0
	}
	return g.values[row][col]
}

// Values copies a matrix into rows of values.
func Values(m Matrix) [][]float64 {
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = make([]float64, m.Cols())
		for j := range out[i] {
			out[i][j] = m.Value(i, j)
		}
	}
	return out
}

// Catalog resolves sources and matrices by name.
type Catalog struct {
	tables   map[string]Source
	matrices map[string]Matrix
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: map[string]Source{}, matrices: map[string]Matrix{}}
}

// AddTable registers s under its name.
func (c *Catalog) AddTable(s Source) { c.tables[s.Name()] = s }

// AddMatrix registers m under its name.
func (c *Catalog) AddMatrix(m Matrix) { c.matrices[m.Name()] = m }

// Table looks up a source.
func (c *Catalog) Table(name string) (Source, bool) {
	s, ok := c.tables[name]
	return s, ok
}

// Matrix looks up a matrix.
func (c *Catalog) Matrix(name string) (Matrix, bool) {
	m, ok := c.matrices[name]
	return m, ok
}

// Tables returns the registered table names.
func (c *Catalog) Tables() []string {
	out := make([]string, 0, len(c.tables))
	for n := range c.tables {
		out = append(out, n)
	}
	return out
}
