package markers

import (
	"reflect"
	"testing"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

func TestLegendStringAndParse(t *testing.T) {
	l := Legend{Entries: []LegendEntry{{Index: 1, Label: "Y"}, {Label: "note"}, {Index: 2, Label: "Z"}}}
	text := l.String()
	if text != "\\c{1}Y\nnote\n\\c{2}Z" {
		t.Fatalf("unexpected text %q", text)
	}
	if got := ParseLegend(text); !reflect.DeepEqual(got, l) {
		t.Fatalf("parse mismatch %+v", got)
	}
	if len(ParseLegend("").Entries) != 0 {
		t.Fatalf("empty text should give empty legend")
	}
}

func TestLegendRemoveRenumbers(t *testing.T) {
	s := NewStore(render.NewSurface(400, 300))
	h := s.InsertText(DefaultTextSpec("", render.Point{X: 0, Y: 1}))
	s.SetLegend(h)
	for i, name := range []string{"a", "b", "c", "d"} {
		s.AppendCurve(i, name)
	}
	if got := s.Legend().Indices(); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Fatalf("indices %v", got)
	}
	s.RemoveCurve(1)
	l := s.Legend()
	if !reflect.DeepEqual(l.Indices(), []int{1, 2, 3}) {
		t.Fatalf("indices after remove %v", l.Indices())
	}
	if l.Entries[1].Label != "c" {
		t.Fatalf("wrong line pruned: %+v", l.Entries)
	}
	it, _ := s.Item(h)
	if it.Text != "\\c{1}a\n\\c{2}c\n\\c{3}d" {
		t.Fatalf("legend marker text %q", it.Text)
	}
}

func TestRemoveLegendClearsFlag(t *testing.T) {
	s := NewStore(render.NewSurface(400, 300))
	h := s.InsertText(DefaultTextSpec("\\c{1}x", render.Point{}))
	if !s.SetLegend(h) || s.LegendID() != h {
		t.Fatalf("legend not set")
	}
	if len(s.Legend().Entries) != 1 {
		t.Fatalf("legend text not parsed")
	}
	if !s.Remove(h) {
		t.Fatalf("remove failed")
	}
	if !s.LegendID().IsZero() || len(s.Texts()) != 0 {
		t.Fatalf("legend flag survived removal")
	}
	if s.Remove(h) {
		t.Fatalf("second remove must report false")
	}
	l := s.InsertLine(DefaultLineSpec(render.Point{}, render.Point{X: 1, Y: 1}, true))
	if s.SetLegend(l) {
		t.Fatalf("line marker cannot be the legend")
	}
}

func TestSelectionNeverMixesFamilies(t *testing.T) {
	surf := render.NewSurface(400, 300)
	s := NewStore(surf)
	t1 := s.InsertText(DefaultTextSpec("a", render.Point{}))
	t2 := s.InsertText(DefaultTextSpec("b", render.Point{}))
	l1 := s.InsertLine(DefaultLineSpec(render.Point{}, render.Point{X: 1, Y: 1}, false))

	s.Select(t1, true)
	s.Select(t2, true)
	g := s.Selection()
	if g == nil || g.Family != TextFamily || len(g.Members) != 2 {
		t.Fatalf("unexpected group %+v", g)
	}
	s.Select(l1, true)
	g = s.Selection()
	if g.Family != LineFamily || len(g.Members) != 1 || g.Members[0] != l1 {
		t.Fatalf("crossing family should replace the group, got %+v", g)
	}
	for _, h := range []render.Handle{t1, t2} {
		if it, _ := surf.Marker(h); it.Selected {
			t.Fatalf("released member %v still drawn selected", h)
		}
	}
	if it, _ := surf.Marker(l1); !it.Selected {
		t.Fatalf("new member not drawn selected")
	}
	s.Remove(l1)
	if s.Selection() != nil {
		t.Fatalf("group should be dropped once empty")
	}
}

func TestMoveAndResizeSelection(t *testing.T) {
	surf := render.NewSurface(400, 300)
	s := NewStore(surf)
	l := s.InsertLine(DefaultLineSpec(render.Point{X: 1, Y: 1}, render.Point{X: 3, Y: 2}, false))
	s.Select(l, false)
	s.MoveSelection(1, -1)
	it, _ := surf.Marker(l)
	if it.Origin != (render.Point{X: 2, Y: 0}) || it.End != (render.Point{X: 4, Y: 1}) {
		t.Fatalf("move gave %v %v", it.Origin, it.End)
	}
	s.ResizeSelection(2)
	if it.End != (render.Point{X: 6, Y: 2}) {
		t.Fatalf("resize gave %v", it.End)
	}
}

func TestCopyFromKeepsLegend(t *testing.T) {
	a := NewStore(render.NewSurface(400, 300))
	h := a.InsertText(DefaultTextSpec("\\c{1}y", render.Point{}))
	a.SetLegend(h)
	a.InsertLine(DefaultLineSpec(render.Point{}, render.Point{X: 1}, true))
	a.Select(h, false)

	b := NewStore(render.NewSurface(400, 300))
	b.CopyFrom(a)
	if len(b.Texts()) != 1 || len(b.Lines()) != 1 || b.LegendID().IsZero() {
		t.Fatalf("copy incomplete: texts=%d lines=%d", len(b.Texts()), len(b.Lines()))
	}
	if it, _ := b.Item(b.LegendID()); it.Selected || it.Text != "\\c{1}y" {
		t.Fatalf("copied legend item %+v", it)
	}
}
