package curves

import (
	"math"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// Registry is the ordered, index-aligned list of curves of one layer. The
// handle, kind and curve slices always have the same length.
type Registry struct {
	surface *render.Surface
	handles []render.Handle
	kinds   []Kind
	curves  []Curve
}

// NewRegistry creates an empty registry drawing on surface.
func NewRegistry(surface *render.Surface) *Registry {
	return &Registry{surface: surface}
}

// Removed describes a curve taken out of the registry.
type Removed struct {
	Index  int
	Handle render.Handle
	Kind   Kind
	Curve  Curve
	// Detached lists the indices (after compaction) of error-bar curves
	// that lost their master.
	Detached []int
}

// Len returns the number of curves.
func (r *Registry) Len() int { return len(r.handles) }

func (r *Registry) inRange(i int) bool { return i >= 0 && i < len(r.handles) }

// Curve returns the curve at index i.
func (r *Registry) Curve(i int) (Curve, bool) {
	if !r.inRange(i) {
		return nil, false
	}
	return r.curves[i], true
}

// Handle returns the render handle of the curve at index i.
func (r *Registry) Handle(i int) (render.Handle, bool) {
	if !r.inRange(i) {
		return render.Handle{}, false
	}
	return r.handles[i], true
}

// Kind returns the type tag of the curve at index i.
func (r *Registry) Kind(i int) (Kind, bool) {
	if !r.inRange(i) {
		return 0, false
	}
	return r.kinds[i], true
}

// Kinds returns a copy of the type tag list.
func (r *Registry) Kinds() []Kind { return append([]Kind(nil), r.kinds...) }

// Handles returns a copy of the handle list.
func (r *Registry) Handles() []render.Handle { return append([]render.Handle(nil), r.handles...) }

// IndexOf returns the index of the curve drawn by h, or -1.
func (r *Registry) IndexOf(h render.Handle) int {
	for i, x := range r.handles {
		if x == h {
			return i
		}
	}
	return -1
}

// Insert appends c and creates its render item.
func (r *Registry) Insert(c Curve) (int, render.Handle) {
	h := r.surface.InsertCurve(r.item(c))
	r.handles = append(r.handles, h)
	r.kinds = append(r.kinds, c.Kind())
	r.curves = append(r.curves, c)
	logger.Debugf("curve %d inserted kind=%s handle=%s", len(r.handles)-1, c.Kind(), h)
	return len(r.handles) - 1, h
}

// Remove deletes the curve at index i, compacting the lists and detaching
// error bars whose master it was. Out-of-range indices report false.
func (r *Registry) Remove(i int) (Removed, bool) {
	if !r.inRange(i) {
		return Removed{}, false
	}
	rm := Removed{Index: i, Handle: r.handles[i], Kind: r.kinds[i], Curve: r.curves[i]}
	r.surface.RemoveCurve(rm.Handle)
	r.handles = append(r.handles[:i], r.handles[i+1:]...)
	r.kinds = append(r.kinds[:i], r.kinds[i+1:]...)
	r.curves = append(r.curves[:i], r.curves[i+1:]...)
	for j, c := range r.curves {
		if eb, ok := c.(*ErrorBarsCurve); ok && eb.Master == rm.Handle {
			eb.Master = render.Handle{}
			r.Refresh(j)
			rm.Detached = append(rm.Detached, j)
		}
	}
	logger.Debugf("curve %d removed kind=%s detached=%v", i, rm.Kind, rm.Detached)
	return rm, true
}

// ConvertType changes the kind of the curve at i within the XY family. The
// render item is replaced by inserting the converted item and removing the
// old one; binding, row range and colors survive. Incompatible kinds fail
// with a ConversionError and leave the curve untouched.
func (r *Registry) ConvertType(i int, to Kind) error {
	if !r.inRange(i) {
		return types.Errorf(types.ErrRange, "convertType", "curve index %d", i)
	}
	from := r.kinds[i]
	if from == to {
		return nil
	}
	if !Convertible(from, to) {
		return types.Errorf(types.ErrConversion, "convertType", "%s cannot become %s", from, to)
	}
	old := r.curves[i].(*XYCurve)
	nc := Copy(old).(*XYCurve)
	nc.Type = to
	nc.Layout = StyleFor(to, old.Layout)
	oldH := r.handles[i]
	newH := r.surface.InsertCurve(r.item(nc))
	r.surface.RemoveCurve(oldH)
	r.handles[i], r.kinds[i], r.curves[i] = newH, to, nc
	for j, c := range r.curves {
		if eb, ok := c.(*ErrorBarsCurve); ok && eb.Master == oldH {
			eb.Master = newH
			r.Refresh(j)
		}
	}
	logger.Debugf("curve %d converted %s -> %s", i, from, to)
	return nil
}

// Refresh rebuilds the render item of curve i after its data or layout
// changed, and those of error bars hanging off it.
func (r *Registry) Refresh(i int) {
	if !r.inRange(i) {
		return
	}
	if it, ok := r.surface.Curve(r.handles[i]); ok {
		*it = *r.item(r.curves[i])
	}
	r.surface.MarkDirty()
	h := r.handles[i]
	for j, c := range r.curves {
		if eb, ok := c.(*ErrorBarsCurve); ok && j != i && eb.Master == h {
			if it, ok := r.surface.Curve(r.handles[j]); ok {
				*it = *r.item(eb)
			}
		}
	}
}

// Replace swaps the curve at i for c of the same kind and refreshes it.
func (r *Registry) Replace(i int, c Curve) bool {
	if !r.inRange(i) || c.Kind() != r.kinds[i] {
		return false
	}
	r.curves[i] = c
	r.Refresh(i)
	return true
}

// GuessUniqueLayout proposes the color and symbol of the next curve: one
// past the largest palette index in use, skipping the reserved slot, and
// one past the largest symbol. Error bars do not take part.
func (r *Registry) GuessUniqueLayout() (color, symbol int) {
	maxColor, maxSymbol := -1, 0
	for _, c := range r.curves {
		if c.Kind() == ErrorBars {
			continue
		}
		l := c.Common().Layout
		if l.LineColor > maxColor {
			maxColor = l.LineColor
		}
		if l.Symbol > maxSymbol {
			maxSymbol = l.Symbol
		}
	}
	color = (maxColor + 1) % len(render.Palette)
	if color == render.ReservedColor {
		color = (color + 1) % len(render.Palette)
	}
	symbol = maxSymbol%render.SymbolCount + 1
	return color, symbol
}

// MasterColor returns the line color of the curve drawn by h.
func (r *Registry) MasterColor(h render.Handle) (int, bool) {
	i := r.IndexOf(h)
	if i < 0 {
		return 0, false
	}
	return r.curves[i].Common().Layout.LineColor, true
}

// HasCurvesOn reports whether any curve uses axis p.
func (r *Registry) HasCurvesOn(p render.AxisPos) bool {
	for _, c := range r.curves {
		b := c.Common()
		if b.XAxis == p || b.YAxis == p {
			return true
		}
	}
	return false
}

// Clear removes every curve.
func (r *Registry) Clear() {
	for len(r.handles) > 0 {
		r.Remove(len(r.handles) - 1)
	}
}

// item builds the render item of c.
func (r *Registry) item(c Curve) *render.CurveItem {
	b := c.Common()
	it := &render.CurveItem{
		Title:   b.Title,
		Style:   drawStyle(c.Kind()),
		Layout:  b.Layout,
		XAxis:   b.XAxis,
		YAxis:   b.YAxis,
		Visible: b.Visible,
	}
	switch v := c.(type) {
	case *XYCurve:
		it.Points = clonePoints(v.Points)
		it.Vertical = v.Type == VerticalSteps
		if v.Type == Area {
			it.Layout.FillArea = true
		}
		if v.Type == VerticalBars || v.Type == HorizontalBars {
			it.BarWidth = barWidth(v)
		}
	case *PieCurve:
		it.Points = make([]render.Point, len(v.Values))
		for i, y := range v.Values {
			it.Points[i] = render.Point{X: float64(i + 1), Y: y}
		}
		it.Labels = append([]string(nil), v.Labels...)
	case *HistogramCurve:
		it.Points = v.Bins()
		it.BarWidth = v.binWidth()
	case *BoxCurve:
		if s, ok := v.Summary(); ok {
			it.Points = make([]render.Point, 5)
			for i, y := range s {
				it.Points[i] = render.Point{X: v.Position, Y: y}
			}
		}
		it.BarWidth = v.BoxWidth
		if it.BarWidth <= 0 {
			it.BarWidth = 0.5
		}
	case *VectorCurve:
		it.Points = clonePoints(v.Points)
		it.Ends = v.Ends()
	case *ErrorBarsCurve:
		it.Vertical = v.Vertical
		it.Errors = append([]float64(nil), v.Errors...)
		if i := r.IndexOf(v.Master); i >= 0 {
			it.Points = clonePoints(Points(r.curves[i]))
		}
	case *FunctionCurve:
		it.Points = clonePoints(v.Points)
	case *SpectrogramCurve:
		it.Grid = v.Grid
		it.Bounds = v.Bounds
		it.Layout.FillArea = v.Type != GrayMap
	}
	return it
}

// barWidth derives the bar width from the smallest point spacing and the gap.
func barWidth(c *XYCurve) float64 {
	spacing := math.MaxFloat64
	for i := 1; i < len(c.Points); i++ {
		d := c.Points[i].X - c.Points[i-1].X
		if c.Type == HorizontalBars {
			d = c.Points[i].Y - c.Points[i-1].Y
		}
		if d = math.Abs(d); d > 0 && d < spacing {
			spacing = d
		}
	}
	if spacing == math.MaxFloat64 {
		spacing = 1
	}
	gap := math.Max(0, math.Min(100, float64(c.BarGap)))
	return spacing * (1 - gap/100)
}

// Range is a closed interval that may be empty.
type Range struct {
	Lo, Hi float64
	OK     bool
}

// Include extends r to contain v; non-finite values are ignored.
func (r *Range) Include(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if !r.OK {
		r.Lo, r.Hi, r.OK = v, v, true
		return
	}
	r.Lo, r.Hi = math.Min(r.Lo, v), math.Max(r.Hi, v)
}

// Bounds returns the tight data range of every axis over all visible
// curves, as the render items draw them. Pie curves have no axis extent.
func (r *Registry) Bounds() [render.AxisCount]Range {
	var out [render.AxisCount]Range
	for _, h := range r.handles {
		it, ok := r.surface.Curve(h)
		if !ok || !it.Visible || it.Style == render.DrawPie {
			continue
		}
		xr, yr := &out[it.XAxis], &out[it.YAxis]
		if it.Style == render.DrawSpectrogram {
			xr.Include(it.Bounds[0])
			xr.Include(it.Bounds[1])
			yr.Include(it.Bounds[2])
			yr.Include(it.Bounds[3])
			continue
		}
		w := it.BarWidth / 2
		for i, p := range it.Points {
			switch it.Style {
			case render.DrawVerticalBars, render.DrawHistogram:
				xr.Include(p.X - w)
				xr.Include(p.X + w)
				yr.Include(0)
			case render.DrawHorizontalBars:
				yr.Include(p.Y - w)
				yr.Include(p.Y + w)
				xr.Include(0)
			case render.DrawBox:
				xr.Include(p.X - w)
				xr.Include(p.X + w)
			}
			xr.Include(p.X)
			yr.Include(p.Y)
			if i < len(it.Ends) {
				xr.Include(it.Ends[i].X)
				yr.Include(it.Ends[i].Y)
			}
			if i < len(it.Errors) {
				if it.Vertical {
					yr.Include(p.Y - it.Errors[i])
					yr.Include(p.Y + it.Errors[i])
				} else {
					xr.Include(p.X - it.Errors[i])
					xr.Include(p.X + it.Errors[i])
				}
			}
		}
	}
	return out
}
