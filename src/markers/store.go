// Package markers owns the text, line and image annotations of a layer,
// the legend and the multi-selection group.
package markers

import (
	"image"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

// Family is the ownership list a marker belongs to.
type Family int

const (
	TextFamily Family = iota
	LineFamily
	ImageFamily
)

func (f Family) String() string {
	switch f {
	case TextFamily:
		return "text"
	case LineFamily:
		return "line"
	case ImageFamily:
		return "image"
	}
	return "unknown"
}

// TextSpec describes a text marker.
type TextSpec struct {
	Text       string
	Origin     render.Point
	XAxis      render.AxisPos
	YAxis      render.AxisPos
	Font       render.Font
	Color      drawing.Color
	Background drawing.Color
	Frame      int // 0 none, 1 line, 2 shadow
	Angle      float64
}

// DefaultTextSpec is a framed black text at origin.
func DefaultTextSpec(text string, origin render.Point) TextSpec {
	return TextSpec{
		Text:   text,
		Origin: origin,
		XAxis:  render.Bottom,
		YAxis:  render.Left,
		Font:   render.DefaultFont,
		Color:  render.ColorBlack,
		Frame:  1,
	}
}

// LineSpec describes a line or arrow marker.
type LineSpec struct {
	Start, End   render.Point
	XAxis, YAxis render.AxisPos
	Color        drawing.Color
	Width        float64
	Style        render.LineStyle
	StartArrow   bool
	EndArrow     bool
	HeadLength   int
	HeadAngle    int
	FilledHead   bool
}

// DefaultLineSpec is a 1px black line, optionally arrowed at the end.
func DefaultLineSpec(start, end render.Point, arrow bool) LineSpec {
	return LineSpec{
		Start: start, End: end,
		XAxis: render.Bottom, YAxis: render.Left,
		Color: render.ColorBlack, Width: 1,
		EndArrow: arrow, HeadLength: 8, HeadAngle: 30, FilledHead: true,
	}
}

// ImageSpec describes an image marker spanning Origin..End.
type ImageSpec struct {
	Path         string
	Image        image.Image
	Origin, End  render.Point
	XAxis, YAxis render.AxisPos
}

// Group is a multi-selection of markers of a single family.
type Group struct {
	Family  Family
	Members []render.Handle
}

// Store keeps the three marker families. At most one text marker is the
// legend.
type Store struct {
	surface  *render.Surface
	texts    []render.Handle
	lines    []render.Handle
	images   []render.Handle
	legendID render.Handle
	legend   Legend
	group    *Group
}

// NewStore creates an empty store drawing on surface.
func NewStore(surface *render.Surface) *Store {
	return &Store{surface: surface}
}

// InsertText adds a text marker.
func (s *Store) InsertText(spec TextSpec) render.Handle {
	h := s.surface.InsertMarker(&render.MarkerItem{
		Kind:       render.MarkerText,
		Origin:     spec.Origin,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		Text:       spec.Text,
		Font:       spec.Font,
		TextColor:  spec.Color,
		Background: spec.Background,
		Frame:      spec.Frame,
		Angle:      spec.Angle,
		LineColor:  spec.Color,
		LineWidth:  1,
	})
	s.texts = append(s.texts, h)
	return h
}

// InsertLine adds a line or arrow marker.
func (s *Store) InsertLine(spec LineSpec) render.Handle {
	h := s.surface.InsertMarker(&render.MarkerItem{
		Kind:       render.MarkerLine,
		Origin:     spec.Start,
		End:        spec.End,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		LineColor:  spec.Color,
		LineWidth:  spec.Width,
		LineStyle:  spec.Style,
		StartArrow: spec.StartArrow,
		EndArrow:   spec.EndArrow,
		HeadLength: spec.HeadLength,
		HeadAngle:  spec.HeadAngle,
		FilledHead: spec.FilledHead,
	})
	s.lines = append(s.lines, h)
	return h
}

// InsertImage adds an image marker.
func (s *Store) InsertImage(spec ImageSpec) render.Handle {
	h := s.surface.InsertMarker(&render.MarkerItem{
		Kind:      render.MarkerImage,
		Origin:    spec.Origin,
		End:       spec.End,
		XAxis:     spec.XAxis,
		YAxis:     spec.YAxis,
		ImagePath: spec.Path,
		Image:     spec.Image,
	})
	s.images = append(s.images, h)
	return h
}

// Texts returns the text marker handles in insertion order.
func (s *Store) Texts() []render.Handle { return append([]render.Handle(nil), s.texts...) }

// Lines returns the line marker handles in insertion order.
func (s *Store) Lines() []render.Handle { return append([]render.Handle(nil), s.lines...) }

// Images returns the image marker handles in insertion order.
func (s *Store) Images() []render.Handle { return append([]render.Handle(nil), s.images...) }

// Len returns the number of markers over all families.
func (s *Store) Len() int { return len(s.texts) + len(s.lines) + len(s.images) }

// Item returns the render item of marker h.
func (s *Store) Item(h render.Handle) (*render.MarkerItem, bool) {
	if _, ok := s.Family(h); !ok {
		return nil, false
	}
	return s.surface.Marker(h)
}

// Family reports which list owns h.
func (s *Store) Family(h render.Handle) (Family, bool) {
	switch {
	case indexOf(s.texts, h) >= 0:
		return TextFamily, true
	case indexOf(s.lines, h) >= 0:
		return LineFamily, true
	case indexOf(s.images, h) >= 0:
		return ImageFamily, true
	}
	return 0, false
}

func indexOf(list []render.Handle, h render.Handle) int {
	for i, x := range list {
		if x == h {
			return i
		}
	}
	return -1
}

func without(list []render.Handle, h render.Handle) ([]render.Handle, bool) {
	i := indexOf(list, h)
	if i < 0 {
		return list, false
	}
	return append(list[:i], list[i+1:]...), true
}

// Remove detaches marker h from its family and the render surface. Removing
// the legend clears the legend flag. Unknown handles report false.
func (s *Store) Remove(h render.Handle) bool {
	var ok bool
	if s.texts, ok = without(s.texts, h); !ok {
		if s.lines, ok = without(s.lines, h); !ok {
			if s.images, ok = without(s.images, h); !ok {
				return false
			}
		}
	}
	s.surface.RemoveMarker(h)
	if h == s.legendID {
		s.legendID = render.Handle{}
		s.legend = Legend{}
	}
	if s.group != nil {
		s.group.Members, _ = without(s.group.Members, h)
		if len(s.group.Members) == 0 {
			s.group = nil
		}
	}
	return true
}

// Clear removes every marker.
func (s *Store) Clear() {
	s.ClearSelection()
	for _, list := range [][]render.Handle{s.Texts(), s.Lines(), s.Images()} {
		for _, h := range list {
			s.Remove(h)
		}
	}
}

// Select adds h to the selection. Without extend, or when h belongs to a
// different family than the current group, the old group is released and
// a new one holding only h takes its place.
func (s *Store) Select(h render.Handle, extend bool) bool {
	fam, ok := s.Family(h)
	if !ok {
		return false
	}
	if s.group == nil || !extend || s.group.Family != fam {
		if s.group != nil && s.group.Family != fam {
			logger.Debugf("selection moved from %s to %s markers, releasing group", s.group.Family, fam)
		}
		s.ClearSelection()
		s.group = &Group{Family: fam}
	}
	if indexOf(s.group.Members, h) < 0 {
		s.group.Members = append(s.group.Members, h)
		s.setSelected(h, true)
	}
	return true
}

// Selection returns the current group, nil when nothing is selected.
func (s *Store) Selection() *Group {
	if s.group == nil {
		return nil
	}
	return &Group{Family: s.group.Family, Members: append([]render.Handle(nil), s.group.Members...)}
}

// ClearSelection releases the group; its members draw normally again.
func (s *Store) ClearSelection() {
	if s.group == nil {
		return
	}
	for _, h := range s.group.Members {
		s.setSelected(h, false)
	}
	s.group = nil
}

func (s *Store) setSelected(h render.Handle, on bool) {
	if it, ok := s.surface.Marker(h); ok {
		it.Selected = on
		s.surface.MarkDirty()
	}
}

// MoveSelection shifts every selected marker by (dx, dy) data units.
func (s *Store) MoveSelection(dx, dy float64) {
	if s.group == nil {
		return
	}
	for _, h := range s.group.Members {
		if it, ok := s.surface.Marker(h); ok {
			it.Origin.X += dx
			it.Origin.Y += dy
			if it.Kind != render.MarkerText {
				it.End.X += dx
				it.End.Y += dy
			}
		}
	}
	s.surface.MarkDirty()
}

// ResizeSelection scales line and image markers about their origin. Text
// markers scale their font.
func (s *Store) ResizeSelection(factor float64) {
	if s.group == nil || factor <= 0 {
		return
	}
	for _, h := range s.group.Members {
		it, ok := s.surface.Marker(h)
		if !ok {
			continue
		}
		if it.Kind == render.MarkerText {
			it.Font.Size *= factor
			continue
		}
		it.End.X = it.Origin.X + (it.End.X-it.Origin.X)*factor
		it.End.Y = it.Origin.Y + (it.End.Y-it.Origin.Y)*factor
	}
	s.surface.MarkDirty()
}

// SetLegend flags text marker h as the legend and parses its text. A zero
// handle clears the flag.
func (s *Store) SetLegend(h render.Handle) bool {
	if h.IsZero() {
		s.legendID = render.Handle{}
		s.legend = Legend{}
		return true
	}
	if indexOf(s.texts, h) < 0 {
		return false
	}
	s.legendID = h
	if it, ok := s.surface.Marker(h); ok {
		s.legend = ParseLegend(it.Text)
	}
	return true
}

// LegendID returns the legend marker handle, zero when there is none.
func (s *Store) LegendID() render.Handle { return s.legendID }

// Legend returns a copy of the legend entries.
func (s *Store) Legend() Legend { return s.legend.clone() }

// SetLegendEntries replaces the legend content and redraws it.
func (s *Store) SetLegendEntries(l Legend) {
	s.legend = l.clone()
	s.syncLegend()
}

// AppendCurve adds the line of the curve at 0-based position pos.
func (s *Store) AppendCurve(pos int, label string) {
	if s.legendID.IsZero() {
		return
	}
	s.legend.Entries = append(s.legend.Entries, LegendEntry{Index: pos + 1, Label: label})
	s.syncLegend()
}

// RemoveCurve prunes the line of the curve at 0-based position pos and
// renumbers the following lines.
func (s *Store) RemoveCurve(pos int) {
	if s.legendID.IsZero() {
		return
	}
	s.legend.dropCurve(pos + 1)
	s.syncLegend()
}

func (s *Store) syncLegend() {
	if s.legendID.IsZero() {
		return
	}
	if it, ok := s.surface.Marker(s.legendID); ok {
		it.Text = s.legend.String()
		s.surface.MarkDirty()
	}
}

// CopyFrom duplicates every marker of other into s, including the legend
// flag. The selection is not copied.
func (s *Store) CopyFrom(other *Store) {
	for _, fam := range [][]render.Handle{other.texts, other.lines, other.images} {
		for _, h := range fam {
			src, ok := other.surface.Marker(h)
			if !ok {
				continue
			}
			it := *src
			it.Selected = false
			nh := s.surface.InsertMarker(&it)
			switch it.Kind {
			case render.MarkerText:
				s.texts = append(s.texts, nh)
				if h == other.legendID {
					s.legendID = nh
					s.legend = other.legend.clone()
				}
			case render.MarkerLine:
				s.lines = append(s.lines, nh)
			case render.MarkerImage:
				s.images = append(s.images, nh)
			}
		}
	}
}
