package main

import (
	"testing"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/datasource"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/layer"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

func sampleTable() *datasource.Table {
	return datasource.NewTable("growth",
		datasource.Column{Name: "day", Designation: datasource.X, Cells: []string{"1", "2", "3", "4"}},
		datasource.Column{Name: "height", Designation: datasource.Y, Cells: []string{"2", "4", "5", "8"}},
		datasource.Column{Name: "note", Cells: []string{"a", "b", "c", "d"}},
	)
}

func newState(t *testing.T) *uiState {
	t.Helper()
	tbl := sampleTable()
	l, err := buildLayer(tbl, curves.Line, 640, 480)
	if err != nil {
		t.Fatalf("build layer: %v", err)
	}
	t.Cleanup(l.Close)
	s := &uiState{table: tbl, kind: curves.Line}
	replaceLayer(s, l)
	l.Replot()
	return s
}

func TestBuildLayerUsesDesignations(t *testing.T) {
	s := newState(t)
	if n := s.layer.Curves().Len(); n != 1 {
		t.Fatalf("expected one curve for the single Y column, got %d", n)
	}
	if s.layer.Config().Title != "growth" {
		t.Fatalf("title %q", s.layer.Config().Title)
	}
	bare := datasource.NewTable("bare", datasource.Column{Name: "v", Cells: []string{"1"}})
	if _, err := buildLayer(bare, curves.Line, 640, 480); err == nil {
		t.Fatalf("a table without X/Y designations should be refused")
	}
}

func TestOptionsListXYKindsAndEveryTool(t *testing.T) {
	kinds := kindOptions()
	for _, k := range kinds {
		if k == curves.Pie.String() || k == curves.Box.String() {
			t.Fatalf("%s is not an XY kind", k)
		}
	}
	if kinds[0] != curves.Line.String() {
		t.Fatalf("first kind %q", kinds[0])
	}
	if tools := toolOptions(); len(tools) != 8 || tools[0] != "idle" || tools[7] != "read" {
		t.Fatalf("tools %v", tools)
	}
}

func TestCellUpdateRebindsCurves(t *testing.T) {
	s := newState(t)
	applyCellUpdate(s, layer.CellUpdate{Source: "growth", Column: "height", Row: 1, Text: "40"})
	c, _ := s.layer.Curves().Curve(0)
	pts := c.(*curves.XYCurve).Points
	if len(pts) != 4 || pts[1].Y != 40 {
		t.Fatalf("curve not rebound after edit: %v", pts)
	}
	applyCellUpdate(s, layer.CellUpdate{Source: "growth", Column: "height", Row: 2})
	c, _ = s.layer.Curves().Curve(0)
	if n := len(c.(*curves.XYCurve).Points); n != 3 {
		t.Fatalf("cleared cell should drop a point, have %d", n)
	}
	// Other sources are not owned by the viewer.
	applyCellUpdate(s, layer.CellUpdate{Source: "elsewhere", Column: "height", Row: 0, Text: "1"})
	if s.table.Cell(0, 1) != "2" {
		t.Fatalf("foreign update touched the table")
	}
}

func TestPointRemoveToolEditsTable(t *testing.T) {
	s := newState(t)
	selectTool(s, layer.ToolPointRemove)
	if s.layer.Tool() != layer.ToolPointRemove {
		t.Fatalf("tool %s", s.layer.Tool())
	}
	s.layer.Replot()
	sf := s.layer.Surface()
	px, ok1 := sf.ToPixel(render.Bottom, 3)
	py, ok2 := sf.ToPixel(render.Left, 5)
	if !ok1 || !ok2 {
		t.Fatalf("point not on the canvas")
	}
	s.layer.Press(px, py)
	s.layer.Release(px, py)
	if got := s.table.Cell(2, 1); got != "" {
		t.Fatalf("removed point should clear its cell, got %q", got)
	}
	c, _ := s.layer.Curves().Curve(0)
	if n := len(c.(*curves.XYCurve).Points); n != 3 {
		t.Fatalf("curve has %d points after removal", n)
	}
}

func TestScreenReaderFillsReadout(t *testing.T) {
	s := newState(t)
	selectTool(s, layer.ToolScreenRead)
	s.layer.Replot()
	c := s.layer.Surface().Canvas()
	s.layer.Press((c.X0+c.X1)/2, (c.Y0+c.Y1)/2)
	if s.readout == "" {
		t.Fatalf("screen reader left no readout")
	}
}

func TestConvertAllSkipsUnconvertible(t *testing.T) {
	s := newState(t)
	s.kind = curves.Scatter
	convertAll(s)
	if k, _ := s.layer.Curves().Kind(0); k != curves.Scatter {
		t.Fatalf("kind %s", k)
	}
	s.kind = curves.Pie
	convertAll(s)
	if k, _ := s.layer.Curves().Kind(0); k != curves.Scatter {
		t.Fatalf("XY curve converted to %s", k)
	}
}

func TestTruncatePath(t *testing.T) {
	if got := truncatePath("/a/b", 10); got != "/a/b" {
		t.Fatalf("short path changed: %q", got)
	}
	got := truncatePath("/very/long/path/to/data.csv", 10)
	if len([]rune(got)) != 10 || got[len(got)-8:] != "data.csv" {
		t.Fatalf("truncated %q", got)
	}
}
