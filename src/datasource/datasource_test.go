package datasource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

func TestReadCSVTypesAndDesignations(t *testing.T) {
	tab, err := ReadCSV("t", strings.NewReader("X, Y, City\n1,2,Paris\n2,,Rome\n3,4.5,Paris\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tab.RowCount() != 3 || tab.ColumnCount() != 3 {
		t.Fatalf("unexpected shape %dx%d", tab.RowCount(), tab.ColumnCount())
	}
	if tab.ColumnType(1) != Numeric || tab.ColumnType(2) != Text {
		t.Fatalf("column types %v %v", tab.ColumnType(1), tab.ColumnType(2))
	}
	if tab.Designation(0) != X || tab.Designation(1) != Y {
		t.Fatalf("designations %v %v", tab.Designation(0), tab.Designation(1))
	}
	if got := tab.Cell(1, 1); got != "" {
		t.Fatalf("empty cell read as %q", got)
	}
	if tab.ColumnIndex("t_Y") != 1 || tab.ColumnIndex("City") != 2 || tab.ColumnIndex("nope") != -1 {
		t.Fatalf("column index lookup failed")
	}
	if tab.Cell(99, 0) != "" || tab.Cell(0, 99) != "" {
		t.Fatalf("out-of-range cells must read empty")
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV("t", strings.NewReader("")); !errors.Is(err, types.ErrData) {
		t.Fatalf("expected data error, got %v", err)
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tab, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if tab.Name() != "samples" {
		t.Fatalf("table name %q", tab.Name())
	}
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, types.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "X")
	f.SetCellValue(sheet, "B1", "Y")
	f.SetCellValue(sheet, "A2", 1)
	f.SetCellValue(sheet, "B2", 10.5)
	f.SetCellValue(sheet, "A3", 2)
	f.SetCellValue(sheet, "B3", "n/a")
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	tab, err := LoadXLSX(path, "")
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	if tab.Name() != sheet || tab.RowCount() != 2 {
		t.Fatalf("unexpected table %q rows=%d", tab.Name(), tab.RowCount())
	}
	if tab.Cell(0, 1) != "10.5" || tab.ColumnType(1) != Text || tab.ColumnType(0) != Numeric {
		t.Fatalf("cells %q type %v", tab.Cell(0, 1), tab.ColumnType(1))
	}
}

func TestSetCellGrows(t *testing.T) {
	tab := NewTable("t", Column{Name: "A", Cells: []string{"1"}})
	if err := tab.SetCell(3, 0, "4"); err != nil {
		t.Fatal(err)
	}
	if tab.RowCount() != 4 || tab.Cell(3, 0) != "4" {
		t.Fatalf("set cell failed: rows=%d", tab.RowCount())
	}
	if err := tab.SetCell(0, 5, "x"); !errors.Is(err, types.ErrRange) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestGridAndCatalog(t *testing.T) {
	g := NewGrid("m", [][]float64{{1, 2}, {3}}, [4]float64{0, 1, 0, 1})
	if g.Rows() != 2 || g.Cols() != 2 || g.Value(1, 1) != 0 || g.Value(1, 0) != 3 {
		t.Fatalf("grid values wrong")
	}
	c := NewCatalog()
	c.AddMatrix(g)
	c.AddTable(NewTable("t"))
	if _, ok := c.Matrix("m"); !ok {
		t.Fatalf("matrix not found")
	}
	if _, ok := c.Table("t"); !ok || len(c.Tables()) != 1 {
		t.Fatalf("table not found")
	}
	if v := Values(g); len(v) != 2 || v[0][1] != 2 {
		t.Fatalf("values copy %v", v)
	}
}
