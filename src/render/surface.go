package render

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Transform is the value→pixel mapping of an axis.
type Transform int

const (
	Linear Transform = iota
	Log10
)

func (t Transform) String() string {
	if t == Log10 {
		return "log10"
	}
	return "linear"
}

// Division is the computed tick layout of one axis. Lo > Hi means the axis
// is inverted; Major and Minor are ordered from Lo to Hi.
type Division struct {
	Lo, Hi float64
	Major  []float64
	Minor  []float64
}

// Inverted reports whether the division runs high to low.
func (d Division) Inverted() bool { return d.Lo > d.Hi }

// Clone returns a deep copy.
func (d Division) Clone() Division {
	out := Division{Lo: d.Lo, Hi: d.Hi}
	out.Major = append([]float64(nil), d.Major...)
	out.Minor = append([]float64(nil), d.Minor...)
	return out
}

// AxisState is everything the surface needs to draw one axis.
type AxisState struct {
	Enabled       bool
	Transform     Transform
	Division      Division
	Font          Font
	Title         string
	TitleFont     Font
	TitleColor    drawing.Color
	Color         drawing.Color
	NumberColor   drawing.Color
	LabelsEnabled bool
	LabelRotation float64
	LabelAlign    int
	MajorTickLen  int
	MinorTickLen  int
	Border        int // baseline distance in pixels
	Format        func(float64) string
}

// GridSpec is the render-side grid configuration.
type GridSpec struct {
	XMajor, XMinor bool
	YMajor, YMinor bool
	MajorColor     drawing.Color
	MinorColor     drawing.Color
	MajorStyle     LineStyle
	MinorStyle     LineStyle
	MajorWidth     float64
	MinorWidth     float64
	XAxis, YAxis   AxisPos
}

// FrameSpec carries layer-wide decoration.
type FrameSpec struct {
	Title      string
	TitleFont  Font
	TitleColor drawing.Color
	TitleAlign int
	Background drawing.Color
	Canvas     drawing.Color
	FrameWidth int
	FrameColor drawing.Color
	Margin     int
	Antialias  bool
}

// Surface owns curve and marker render items and the per-axis state of one
// layer. It is not safe for concurrent use.
type Surface struct {
	curves  SlotMap[*CurveItem]
	markers SlotMap[*MarkerItem]
	axes    [AxisCount]AxisState
	grid    GridSpec
	frame   FrameSpec
	swatch  LegendSwatch

	width, height int

	// BeforeReplot runs at the start of every Replot (autoscale hook).
	BeforeReplot func()
	replots      int
	dirty        bool
}

// NewSurface creates a surface of the given pixel size with default axes:
// bottom and left enabled over [0,1].
func NewSurface(width, height int) *Surface {
	s := &Surface{width: width, height: height}
	for i := range s.axes {
		s.axes[i] = AxisState{
			Enabled:       AxisPos(i) == Bottom || AxisPos(i) == Left,
			Division:      Division{Lo: 0, Hi: 1, Major: []float64{0, 0.5, 1}},
			Font:          DefaultFont,
			TitleFont:     DefaultFont,
			TitleColor:    ColorBlack,
			Color:         ColorBlack,
			NumberColor:   ColorBlack,
			LabelsEnabled: true,
			MajorTickLen:  8,
			MinorTickLen:  5,
		}
	}
	s.grid = GridSpec{XAxis: Bottom, YAxis: Left, MajorColor: drawing.Color{R: 0, G: 0, B: 255, A: 255}, MinorColor: drawing.Color{R: 128, G: 128, B: 128, A: 255}, MajorWidth: 1, MinorWidth: 1, MinorStyle: DotLine}
	s.frame = FrameSpec{Background: ColorWhite, Canvas: ColorWhite, FrameColor: ColorBlack, TitleColor: ColorBlack, TitleFont: Font{Family: "Sans", Size: 14, Bold: true}, Margin: 10, Antialias: true}
	return s
}

// Size returns the surface size in pixels.
func (s *Surface) Size() (int, int) { return s.width, s.height }

// Resize changes the pixel size and schedules a redraw.
func (s *Surface) Resize(width, height int) {
	if width > 0 && height > 0 {
		s.width, s.height = width, height
		s.dirty = true
	}
}

// InsertCurve stores item and returns its handle.
func (s *Surface) InsertCurve(item *CurveItem) Handle {
	s.dirty = true
	return s.curves.Insert(item)
}

// InsertMarker stores item and returns its handle.
func (s *Surface) InsertMarker(item *MarkerItem) Handle {
	s.dirty = true
	return s.markers.Insert(item)
}

// RemoveCurve detaches the curve item; false for unknown handles.
func (s *Surface) RemoveCurve(h Handle) bool {
	ok := s.curves.Remove(h)
	s.dirty = s.dirty || ok
	return ok
}

// RemoveMarker detaches the marker item; false for unknown handles.
func (s *Surface) RemoveMarker(h Handle) bool {
	ok := s.markers.Remove(h)
	s.dirty = s.dirty || ok
	return ok
}

// Curve looks up a curve item.
func (s *Surface) Curve(h Handle) (*CurveItem, bool) { return s.curves.Get(h) }

// Marker looks up a marker item.
func (s *Surface) Marker(h Handle) (*MarkerItem, bool) { return s.markers.Get(h) }

// CurveHandles returns the live curve handles in insertion order.
func (s *Surface) CurveHandles() []Handle { return s.curves.Handles() }

// MarkerHandles returns the live marker handles in insertion order.
func (s *Surface) MarkerHandles() []Handle { return s.markers.Handles() }

// Axis returns a copy of the state of axis a.
func (s *Surface) Axis(a AxisPos) AxisState {
	if !a.Valid() {
		return AxisState{}
	}
	st := s.axes[a]
	st.Division = st.Division.Clone()
	return st
}

// SetAxis replaces the state of axis a.
func (s *Surface) SetAxis(a AxisPos, st AxisState) {
	if !a.Valid() {
		return
	}
	s.axes[a] = st
	s.dirty = true
}

// AxisEnabled reports whether axis a is shown.
func (s *Surface) AxisEnabled(a AxisPos) bool { return a.Valid() && s.axes[a].Enabled }

// SetAxisEnabled shows or hides axis a.
func (s *Surface) SetAxisEnabled(a AxisPos, on bool) {
	if !a.Valid() {
		return
	}
	s.axes[a].Enabled = on
	s.dirty = true
}

// SetScaleDivision installs the division and transform of axis a.
func (s *Surface) SetScaleDivision(a AxisPos, tr Transform, d Division) {
	if !a.Valid() {
		return
	}
	s.axes[a].Transform = tr
	s.axes[a].Division = d.Clone()
	s.dirty = true
}

// ScaleDivision returns the current division of axis a.
func (s *Surface) ScaleDivision(a AxisPos) Division {
	if !a.Valid() {
		return Division{}
	}
	return s.axes[a].Division.Clone()
}

// SetGrid replaces the grid configuration.
func (s *Surface) SetGrid(g GridSpec) {
	s.grid = g
	s.dirty = true
}

// Grid returns the grid configuration.
func (s *Surface) Grid() GridSpec { return s.grid }

// SetFrame replaces the layer decoration.
func (s *Surface) SetFrame(f FrameSpec) {
	s.frame = f
	s.dirty = true
}

// Frame returns the layer decoration.
func (s *Surface) Frame() FrameSpec { return s.frame }

// MarkDirty schedules a redraw.
func (s *Surface) MarkDirty() { s.dirty = true }

// Dirty reports whether a redraw is pending.
func (s *Surface) Dirty() bool { return s.dirty }

// Replot runs the pre-replot hook and clears the pending redraw.
func (s *Surface) Replot() {
	if s.BeforeReplot != nil {
		s.BeforeReplot()
	}
	s.replots++
	s.dirty = false
}

// Replots returns how many times Replot ran.
func (s *Surface) Replots() int { return s.replots }

// Rect is a pixel rectangle.
type Rect struct{ X0, Y0, X1, Y1 float64 }

// Canvas returns the plot area in pixels.
func (s *Surface) Canvas() Rect {
	m := float64(s.frame.Margin)
	left, right, top, bottom := m+60, m+20, m+30, m+45
	if s.axes[Right].Enabled {
		right += 40
	}
	if s.axes[Top].Enabled {
		top += 25
	}
	r := Rect{X0: left, Y0: top, X1: float64(s.width) - right, Y1: float64(s.height) - bottom}
	if r.X1 <= r.X0 {
		r.X1 = r.X0 + 1
	}
	if r.Y1 <= r.Y0 {
		r.Y1 = r.Y0 + 1
	}
	return r
}

func (s *Surface) project(a AxisPos, v float64) (float64, bool) {
	if !a.Valid() {
		return 0, false
	}
	st := s.axes[a]
	lo, hi := st.Division.Lo, st.Division.Hi
	if st.Transform == Log10 {
		if v <= 0 || lo <= 0 || hi <= 0 {
			return 0, false
		}
		v, lo, hi = math.Log10(v), math.Log10(lo), math.Log10(hi)
	}
	if hi == lo {
		return 0, false
	}
	return (v - lo) / (hi - lo), true
}

// ToPixel maps a data value on axis a to a pixel coordinate.
func (s *Surface) ToPixel(a AxisPos, v float64) (float64, bool) {
	f, ok := s.project(a, v)
	if !ok {
		return 0, false
	}
	c := s.Canvas()
	if a.IsX() {
		return c.X0 + f*(c.X1-c.X0), true
	}
	return c.Y1 - f*(c.Y1-c.Y0), true
}

// FromPixel maps a pixel coordinate on axis a back to a data value. An
// unknown axis maps everything to 0.
func (s *Surface) FromPixel(a AxisPos, p float64) float64 {
	if !a.Valid() {
		return 0
	}
	c := s.Canvas()
	var f float64
	if a.IsX() {
		f = (p - c.X0) / (c.X1 - c.X0)
	} else {
		f = (c.Y1 - p) / (c.Y1 - c.Y0)
	}
	st := s.axes[a]
	lo, hi := st.Division.Lo, st.Division.Hi
	if st.Transform == Log10 && lo > 0 && hi > 0 {
		return math.Pow(10, math.Log10(lo)+f*(math.Log10(hi)-math.Log10(lo)))
	}
	return lo + f*(hi-lo)
}

// ClosestCurve finds the visible curve point nearest to pixel (x, y).
func (s *Surface) ClosestCurve(x, y float64) (h Handle, dist float64, point int, ok bool) {
	dist = math.MaxFloat64
	point = -1
	for _, ch := range s.curves.Handles() {
		c, _ := s.curves.Get(ch)
		if !c.Visible {
			continue
		}
		for i, p := range c.Points {
			px, okx := s.ToPixel(c.XAxis, p.X)
			py, oky := s.ToPixel(c.YAxis, p.Y)
			if !okx || !oky {
				continue
			}
			d := math.Hypot(px-x, py-y)
			if d < dist {
				dist, h, point, ok = d, ch, i, true
			}
		}
	}
	return h, dist, point, ok
}
