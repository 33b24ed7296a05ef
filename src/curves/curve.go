package curves

import (
	"math"
	"sort"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/formula"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

// Binding ties a curve to columns of a data source. EndRow < 0 means the
// last row.
type Binding struct {
	Source   string
	XColumn  string
	YColumn  string
	StartRow int
	EndRow   int
}

// Base holds the attributes every curve variant shares.
type Base struct {
	Title   string
	Binding Binding
	Layout  render.CurveLayout
	XAxis   render.AxisPos
	YAxis   render.AxisPos
	Visible bool
}

// Common returns the shared attributes.
func (b *Base) Common() *Base { return b }

// Curve is one of the concrete curve variants below. Code that needs
// variant data switches on the concrete type.
type Curve interface {
	Kind() Kind
	Common() *Base
}

// XYCurve is a point sequence drawn as lines, symbols, bars, steps or area.
type XYCurve struct {
	Base
	Type      Kind
	Points    []render.Point
	Rows      []int // source row of each point
	BarGap    int   // percent of the bar slot left empty
	BarOffset int
}

func (c *XYCurve) Kind() Kind { return c.Type }

// PieCurve draws the Y column as pie slices.
type PieCurve struct {
	Base
	Values       []float64
	Labels       []string
	Radius       int
	StartAzimuth float64
}

func (c *PieCurve) Kind() Kind { return Pie }

// HistogramCurve bins the Y column.
type HistogramCurve struct {
	Base
	Values  []float64
	AutoBin bool
	BinSize float64
	Begin   float64
	End     float64
}

func (c *HistogramCurve) Kind() Kind { return Histogram }

// autoBins is the bin count of automatic binning.
const autoBins = 10

// Bins returns (bin center, count) pairs. Automatic binning spans the data
// range with a fixed number of bins.
func (c *HistogramCurve) Bins() []render.Point {
	if len(c.Values) == 0 {
		return nil
	}
	begin, end, size := c.Begin, c.End, c.BinSize
	if c.AutoBin || size <= 0 || end <= begin {
		begin, end = c.Values[0], c.Values[0]
		for _, v := range c.Values {
			begin, end = math.Min(begin, v), math.Max(end, v)
		}
		if end == begin {
			end = begin + 1
		}
		size = (end - begin) / autoBins
	}
	n := int(math.Ceil((end - begin) / size))
	if n < 1 {
		n = 1
	}
	counts := make([]float64, n)
	for _, v := range c.Values {
		if v < begin || v > end {
			continue
		}
		i := int((v - begin) / size)
		if i >= n {
			i = n - 1
		}
		counts[i]++
	}
	out := make([]render.Point, n)
	for i, cnt := range counts {
		out[i] = render.Point{X: begin + (float64(i)+0.5)*size, Y: cnt}
	}
	return out
}

// binWidth returns the bin width Bins used.
func (c *HistogramCurve) binWidth() float64 {
	b := c.Bins()
	if len(b) > 1 {
		return b[1].X - b[0].X
	}
	if c.BinSize > 0 {
		return c.BinSize
	}
	return 1
}

// BoxCurve draws a box-and-whisker summary of the Y column at Position.
type BoxCurve struct {
	Base
	Values   []float64
	Position float64
	BoxWidth float64
}

func (c *BoxCurve) Kind() Kind { return Box }

// Summary returns min, first quartile, median, third quartile and max.
func (c *BoxCurve) Summary() ([5]float64, bool) {
	var s [5]float64
	if len(c.Values) == 0 {
		return s, false
	}
	v := append([]float64(nil), c.Values...)
	sort.Float64s(v)
	s[0], s[4] = v[0], v[len(v)-1]
	s[1], s[2], s[3] = quantile(v, 0.25), quantile(v, 0.5), quantile(v, 0.75)
	return s, true
}

// quantile interpolates linearly between the closest ranks of sorted data.
func quantile(sorted []float64, f float64) float64 {
	pos := f * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	d := pos - float64(lo)
	return sorted[lo]*(1-d) + sorted[hi]*d
}

// VectorCurve draws arrows from Points. For VectorXYXY Second holds the
// arrow end points, for VectorXYAM it holds (angle in radians, magnitude).
type VectorCurve struct {
	Base
	Type       Kind
	EndXColumn string
	EndYColumn string
	Points     []render.Point
	Second     []render.Point
	HeadLength int
	HeadAngle  int
	Filled     bool
}

func (c *VectorCurve) Kind() Kind { return c.Type }

// Ends returns the arrow end points.
func (c *VectorCurve) Ends() []render.Point {
	out := make([]render.Point, 0, len(c.Points))
	for i, p := range c.Points {
		if i >= len(c.Second) {
			break
		}
		s := c.Second[i]
		if c.Type == VectorXYAM {
			out = append(out, render.Point{X: p.X + s.Y*math.Cos(s.X), Y: p.Y + s.Y*math.Sin(s.X)})
		} else {
			out = append(out, s)
		}
	}
	return out
}

// ErrorBarsCurve attaches error magnitudes to the points of a master curve.
// A zero Master handle means the curve is detached.
type ErrorBarsCurve struct {
	Base
	Master    render.Handle
	Vertical  bool
	Errors    []float64
	CapLength int
	Through   bool
	Plus      bool
	Minus     bool
}

func (c *ErrorBarsCurve) Kind() Kind { return ErrorBars }

// Detached reports whether the master curve is gone.
func (c *ErrorBarsCurve) Detached() bool { return c.Master.IsZero() }

// FunctionCurve samples a formula over [From, To].
type FunctionCurve struct {
	Base
	Formula  string
	Variable string
	From     float64
	To       float64
	Samples  int
	Points   []render.Point
}

func (c *FunctionCurve) Kind() Kind { return Function }

// Sample evaluates the formula and stores the points. Samples above
// formula.MaxSamples are lowered to it.
func (c *FunctionCurve) Sample() error {
	c.Samples = min(c.Samples, formula.MaxSamples)
	v := c.Variable
	if v == "" {
		v = "x"
	}
	e, err := formula.Compile(c.Formula, v)
	if err != nil {
		return err
	}
	xs, ys, err := e.Sample(c.From, c.To, c.Samples)
	if err != nil {
		return err
	}
	c.Points = make([]render.Point, len(xs))
	for i := range xs {
		c.Points[i] = render.Point{X: xs[i], Y: ys[i]}
	}
	return nil
}

// SpectrogramCurve maps a matrix onto the rectangle Bounds (x0, x1, y0, y1).
type SpectrogramCurve struct {
	Base
	Type   Kind
	Matrix string
	Grid   [][]float64
	Bounds [4]float64
	Levels int
}

func (c *SpectrogramCurve) Kind() Kind { return c.Type }

// Copy returns a deep copy of c, preserving its concrete variant.
func Copy(c Curve) Curve {
	switch v := c.(type) {
	case *XYCurve:
		out := *v
		out.Points = clonePoints(v.Points)
		out.Rows = append([]int(nil), v.Rows...)
		return &out
	case *PieCurve:
		out := *v
		out.Values = append([]float64(nil), v.Values...)
		out.Labels = append([]string(nil), v.Labels...)
		return &out
	case *HistogramCurve:
		out := *v
		out.Values = append([]float64(nil), v.Values...)
		return &out
	case *BoxCurve:
		out := *v
		out.Values = append([]float64(nil), v.Values...)
		return &out
	case *VectorCurve:
		out := *v
		out.Points = clonePoints(v.Points)
		out.Second = clonePoints(v.Second)
		return &out
	case *ErrorBarsCurve:
		out := *v
		out.Errors = append([]float64(nil), v.Errors...)
		return &out
	case *FunctionCurve:
		out := *v
		out.Points = clonePoints(v.Points)
		return &out
	case *SpectrogramCurve:
		out := *v
		out.Grid = make([][]float64, len(v.Grid))
		for i, row := range v.Grid {
			out.Grid[i] = append([]float64(nil), row...)
		}
		return &out
	}
	return nil
}

func clonePoints(p []render.Point) []render.Point {
	if p == nil {
		return nil
	}
	return append([]render.Point(nil), p...)
}

// Points returns the data points of c as drawn, nil for variants without a
// point list. Error bars report nothing of their own.
func Points(c Curve) []render.Point {
	switch v := c.(type) {
	case *XYCurve:
		return v.Points
	case *FunctionCurve:
		return v.Points
	case *VectorCurve:
		return v.Points
	case *HistogramCurve:
		return v.Bins()
	}
	return nil
}

// SetPoints replaces the point list of a point-based variant. It reports
// false for variants whose points are derived.
func SetPoints(c Curve, pts []render.Point) bool {
	switch v := c.(type) {
	case *XYCurve:
		v.Points = pts
	case *FunctionCurve:
		v.Points = pts
	case *VectorCurve:
		v.Points = pts
	default:
		return false
	}
	return true
}
