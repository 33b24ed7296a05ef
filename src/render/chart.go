package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the export encoder.
type Format int

const (
	PNG Format = iota
	SVG
)

// invisible keeps go-chart from inheriting a default stroke for point-only series.
var invisible = drawing.Color{R: 255, G: 255, B: 255, A: 0}

// Render writes the layer in the given format. PNG output carries the full
// marker overlay; SVG output carries text and line markers as chart elements.
func (s *Surface) Render(w io.Writer, f Format) error {
	switch f {
	case PNG:
		img, err := s.Image()
		if err != nil {
			return err
		}
		return png.Encode(w, img)
	case SVG:
		return s.renderChart(chart.SVG, w, true)
	default:
		return fmt.Errorf("render: unknown format %d", f)
	}
}

// Image renders the layer to an image, including markers.
func (s *Surface) Image() (image.Image, error) {
	var buf bytes.Buffer
	if err := s.renderChart(chart.PNG, &buf, false); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("render: decode chart: %w", err)
	}
	return s.overlay(img), nil
}

func (s *Surface) renderChart(rp chart.RendererProvider, w io.Writer, withMarkers bool) error {
	if pie := s.pieItem(); pie != nil {
		pc, ok := s.pieChart(pie)
		if ok {
			return pc.Render(rp, w)
		}
	}
	ch := s.buildChart(withMarkers)
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// pieItem returns the visible pie curve, if the layer hosts one.
func (s *Surface) pieItem() *CurveItem {
	for _, h := range s.curves.Handles() {
		c, _ := s.curves.Get(h)
		if c.Visible && c.Style == DrawPie {
			return c
		}
	}
	return nil
}

func (s *Surface) pieChart(c *CurveItem) (chart.PieChart, bool) {
	values := make([]chart.Value, 0, len(c.Points))
	for i, p := range c.Points {
		if p.Y <= 0 || math.IsNaN(p.Y) {
			continue
		}
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		values = append(values, chart.Value{
			Value: p.Y,
			Label: label,
			Style: chart.Style{FillColor: PaletteColor(c.Layout.LineColor + i), StrokeColor: ColorBlack},
		})
	}
	if len(values) == 0 {
		return chart.PieChart{}, false
	}
	return chart.PieChart{
		Title:      s.frame.Title,
		Width:      s.width,
		Height:     s.height,
		Background: chart.Style{FillColor: s.frame.Background},
		Values:     values,
	}, true
}

// xRef is the axis whose range go-chart uses for the X dimension.
func (s *Surface) xRef() AxisPos {
	if !s.axes[Bottom].Enabled && s.axes[Top].Enabled {
		return Top
	}
	return Bottom
}

// chartRange returns the go-chart range of axis a in transformed space.
func (s *Surface) chartRange(a AxisPos) *chart.ContinuousRange {
	lo, hi, desc := s.transformedBounds(a)
	return &chart.ContinuousRange{Min: lo, Max: hi, Descending: desc}
}

func (s *Surface) transformedBounds(a AxisPos) (lo, hi float64, desc bool) {
	st := s.axes[a]
	lo, hi = st.Division.Lo, st.Division.Hi
	if lo > hi {
		lo, hi, desc = hi, lo, true
	}
	if st.Transform == Log10 && lo > 0 {
		lo, hi = math.Log10(lo), math.Log10(hi)
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi, desc
}

// chartValue maps v on axis a into the transformed space of axis ref.
func (s *Surface) chartValue(a, ref AxisPos, v float64) (float64, bool) {
	f, ok := s.project(a, v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	st := s.axes[ref]
	lo, hi := st.Division.Lo, st.Division.Hi
	if st.Transform == Log10 && lo > 0 && hi > 0 {
		lo, hi = math.Log10(lo), math.Log10(hi)
	}
	return lo + f*(hi-lo), true
}

func (s *Surface) chartTicks(a AxisPos) []chart.Tick {
	st := s.axes[a]
	ticks := make([]chart.Tick, 0, len(st.Division.Major))
	for _, v := range st.Division.Major {
		tv, ok := s.chartValue(a, a, v)
		if !ok {
			continue
		}
		label := ""
		if st.LabelsEnabled {
			if st.Format != nil {
				label = st.Format(v)
			} else {
				label = fmt.Sprintf("%g", v)
			}
		}
		ticks = append(ticks, chart.Tick{Value: tv, Label: label})
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
	return ticks
}

func (s *Surface) gridLines(a AxisPos, major, minor bool) []chart.GridLine {
	st := s.axes[a]
	var out []chart.GridLine
	add := func(vals []float64, isMinor bool, style chart.Style) {
		for _, v := range vals {
			tv, ok := s.chartValue(a, a, v)
			if ok {
				out = append(out, chart.GridLine{IsMinor: isMinor, Style: style, Value: tv})
			}
		}
	}
	if major {
		add(st.Division.Major, false, s.gridStyle(false))
	}
	if minor {
		add(st.Division.Minor, true, s.gridStyle(true))
	}
	return out
}

func (s *Surface) gridStyle(minor bool) chart.Style {
	if minor {
		return chart.Style{StrokeColor: s.grid.MinorColor, StrokeWidth: s.grid.MinorWidth, StrokeDashArray: s.grid.MinorStyle.DashArray()}
	}
	return chart.Style{StrokeColor: s.grid.MajorColor, StrokeWidth: s.grid.MajorWidth, StrokeDashArray: s.grid.MajorStyle.DashArray()}
}

func (s *Surface) axisStyle(a AxisPos) chart.Style {
	st := s.axes[a]
	return chart.Style{
		Hidden:              !st.Enabled,
		StrokeColor:         st.Color,
		StrokeWidth:         1,
		FontColor:           st.NumberColor,
		FontSize:            st.Font.Size,
		TextRotationDegrees: st.LabelRotation,
	}
}

func (s *Surface) buildChart(withMarkers bool) chart.Chart {
	c := s.Canvas()
	xr := s.xRef()
	xa := chart.XAxis{
		Name:      s.axes[xr].Title,
		NameStyle: chart.Style{FontColor: s.axes[xr].TitleColor, FontSize: s.axes[xr].TitleFont.Size},
		Style:     s.axisStyle(xr),
		Range:     s.chartRange(xr),
		Ticks:     s.chartTicks(xr),
	}
	ya := chart.YAxis{
		Name:      s.axes[Left].Title,
		NameStyle: chart.Style{FontColor: s.axes[Left].TitleColor, FontSize: s.axes[Left].TitleFont.Size},
		Style:     s.axisStyle(Left),
		Range:     s.chartRange(Left),
		Ticks:     s.chartTicks(Left),
	}
	y2 := chart.YAxis{
		Name:      s.axes[Right].Title,
		NameStyle: chart.Style{FontColor: s.axes[Right].TitleColor, FontSize: s.axes[Right].TitleFont.Size},
		Style:     s.axisStyle(Right),
		Range:     s.chartRange(Right),
		Ticks:     s.chartTicks(Right),
	}
	xa.GridMajorStyle, xa.GridMinorStyle = chart.Style{Hidden: true}, chart.Style{Hidden: true}
	ya.GridMajorStyle, ya.GridMinorStyle = chart.Style{Hidden: true}, chart.Style{Hidden: true}
	if s.grid.XMajor || s.grid.XMinor {
		xa.GridMajorStyle, xa.GridMinorStyle = s.gridStyle(false), s.gridStyle(true)
		xa.GridLines = s.gridLines(s.grid.XAxis, s.grid.XMajor, s.grid.XMinor)
	}
	if s.grid.YMajor || s.grid.YMinor {
		ya.GridMajorStyle, ya.GridMinorStyle = s.gridStyle(false), s.gridStyle(true)
		ya.GridLines = s.gridLines(s.grid.YAxis, s.grid.YMajor, s.grid.YMinor)
	}

	ch := chart.Chart{
		Title:      s.frame.Title,
		TitleStyle: chart.Style{FontColor: s.frame.TitleColor, FontSize: s.frame.TitleFont.Size},
		Width:      s.width,
		Height:     s.height,
		Background: chart.Style{
			FillColor: s.frame.Background,
			Padding:   chart.Box{Top: int(c.Y0) - 20, Left: s.frame.Margin, Right: s.frame.Margin, Bottom: s.frame.Margin},
		},
		Canvas:         chart.Style{FillColor: s.frame.Canvas, StrokeColor: s.frame.FrameColor, StrokeWidth: float64(s.frame.FrameWidth)},
		XAxis:          xa,
		YAxis:          ya,
		YAxisSecondary: y2,
	}
	ch.Series = append(ch.Series, s.frameSeries(xr, Left, chart.YAxisPrimary))
	if s.axes[Right].Enabled {
		ch.Series = append(ch.Series, s.frameSeries(xr, Right, chart.YAxisSecondary))
	}
	for _, h := range s.curves.Handles() {
		item, _ := s.curves.Get(h)
		if !item.Visible || item.Style == DrawPie || item.Style == DrawSpectrogram {
			continue
		}
		ch.Series = append(ch.Series, s.curveSeries(item, xr)...)
	}
	for _, h := range s.markers.Handles() {
		m, _ := s.markers.Get(h)
		switch {
		case m.Kind == MarkerZeroLine:
			ch.Series = append(ch.Series, s.zeroLineSeries(m, xr))
		case withMarkers && m.Kind == MarkerLine:
			ch.Series = append(ch.Series, s.segment(m.XAxis, m.YAxis, xr, m.Origin, m.End, chart.Style{StrokeColor: m.LineColor, StrokeWidth: m.LineWidth, StrokeDashArray: m.LineStyle.DashArray()}))
		case withMarkers && m.Kind == MarkerText:
			ch.Series = append(ch.Series, s.textAnnotation(m, xr))
		}
	}
	return ch
}

// frameSeries is a hidden series spanning the axis ranges; go-chart refuses
// to render a chart without series.
func (s *Surface) frameSeries(xr, ya AxisPos, yt chart.YAxisType) chart.Series {
	xlo, xhi, _ := s.transformedBounds(xr)
	ylo, yhi, _ := s.transformedBounds(ya)
	return chart.ContinuousSeries{
		Name:    "frame",
		Style:   chart.Style{Hidden: true},
		YAxis:   yt,
		XValues: []float64{xlo, xhi},
		YValues: []float64{ylo, yhi},
	}
}

func yAxisType(a AxisPos) chart.YAxisType {
	if a == Right {
		return chart.YAxisSecondary
	}
	return chart.YAxisPrimary
}

// yRef is the chart Y axis carrying values of axis a.
func yRef(a AxisPos) AxisPos {
	if a == Right {
		return Right
	}
	return Left
}

func (s *Surface) segment(xa, ya, xr AxisPos, p0, p1 Point, st chart.Style) chart.Series {
	return s.polyline(xa, ya, xr, []Point{p0, p1}, st, "")
}

func (s *Surface) polyline(xa, ya, xr AxisPos, pts []Point, st chart.Style, name string) chart.Series {
	xs := make([]float64, 0, len(pts))
	ys := make([]float64, 0, len(pts))
	for _, p := range pts {
		x, okx := s.chartValue(xa, xr, p.X)
		y, oky := s.chartValue(ya, yRef(ya), p.Y)
		if !okx || !oky {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		st.Hidden = true
		xs, ys = []float64{0}, []float64{0}
	}
	return chart.ContinuousSeries{Name: name, Style: st, YAxis: yAxisType(ya), XValues: xs, YValues: ys}
}

func (s *Surface) zeroLineSeries(m *MarkerItem, xr AxisPos) chart.Series {
	st := chart.Style{StrokeColor: m.LineColor, StrokeWidth: m.LineWidth, StrokeDashArray: m.LineStyle.DashArray()}
	if m.Vertical {
		d := s.axes[m.YAxis].Division
		return s.segment(m.XAxis, m.YAxis, xr, Point{0, d.Lo}, Point{0, d.Hi}, st)
	}
	d := s.axes[m.XAxis].Division
	return s.segment(m.XAxis, m.YAxis, xr, Point{d.Lo, 0}, Point{d.Hi, 0}, st)
}

func (s *Surface) textAnnotation(m *MarkerItem, xr AxisPos) chart.Series {
	x, okx := s.chartValue(m.XAxis, xr, m.Origin.X)
	y, oky := s.chartValue(m.YAxis, yRef(m.YAxis), m.Origin.Y)
	st := chart.Style{FontColor: m.TextColor, FontSize: m.Font.Size, FillColor: m.Background, StrokeColor: m.LineColor}
	if !okx || !oky {
		st.Hidden = true
	}
	return chart.AnnotationSeries{
		Style:       st,
		YAxis:       yAxisType(m.YAxis),
		Annotations: []chart.Value2{{XValue: x, YValue: y, Label: legendPlain(m.Text)}},
	}
}

func (s *Surface) curveStyle(l CurveLayout) chart.Style {
	st := chart.Style{
		StrokeColor:     PaletteColor(l.LineColor),
		StrokeWidth:     l.LineWidth,
		StrokeDashArray: l.LineStyle.DashArray(),
	}
	if l.Connect == NoCurve || l.Connect == Dots {
		st.StrokeColor = invisible
		st.StrokeWidth = 0
	}
	if l.Symbol > 0 || l.Connect == Dots {
		st.DotWidth = math.Max(1, float64(l.SymbolSize)/2)
		st.DotColor = PaletteColor(l.SymbolColor)
	}
	if l.FillArea {
		fc := PaletteColor(l.AreaColor)
		fc.A = uint8(clampInt(l.FillAlpha, 0, 255))
		st.FillColor = fc
	}
	return st
}

func (s *Surface) curveSeries(c *CurveItem, xr AxisPos) []chart.Series {
	st := s.curveStyle(c.Layout)
	switch c.Style {
	case DrawXY, DrawFunction, DrawArea:
		switch c.Layout.Connect {
		case Sticks:
			out := make([]chart.Series, 0, len(c.Points))
			for _, p := range c.Points {
				out = append(out, s.segment(c.XAxis, c.YAxis, xr, Point{p.X, 0}, p, st))
			}
			return out
		case Steps:
			return []chart.Series{s.polyline(c.XAxis, c.YAxis, xr, stepPoints(c.Points, c.Vertical), st, c.Title)}
		case SplineLines:
			return []chart.Series{s.polyline(c.XAxis, c.YAxis, xr, SplinePoints(c.Points, 8), st, c.Title)}
		}
		return []chart.Series{s.polyline(c.XAxis, c.YAxis, xr, c.Points, st, c.Title)}
	case DrawVerticalBars, DrawHistogram:
		w := c.BarWidth / 2
		out := make([]chart.Series, 0, len(c.Points))
		for _, p := range c.Points {
			rect := []Point{{p.X - w, 0}, {p.X - w, p.Y}, {p.X + w, p.Y}, {p.X + w, 0}}
			out = append(out, s.polyline(c.XAxis, c.YAxis, xr, rect, st, ""))
		}
		return out
	case DrawHorizontalBars:
		w := c.BarWidth / 2
		out := make([]chart.Series, 0, len(c.Points))
		for _, p := range c.Points {
			rect := []Point{{0, p.Y - w}, {p.X, p.Y - w}, {p.X, p.Y + w}, {0, p.Y + w}}
			out = append(out, s.polyline(c.XAxis, c.YAxis, xr, rect, st, ""))
		}
		return out
	case DrawBox:
		if len(c.Points) < 5 {
			return nil
		}
		x, w := c.Points[0].X, c.BarWidth/2
		min, q1, med, q3, max := c.Points[0].Y, c.Points[1].Y, c.Points[2].Y, c.Points[3].Y, c.Points[4].Y
		return []chart.Series{
			s.segment(c.XAxis, c.YAxis, xr, Point{x, min}, Point{x, q1}, st),
			s.segment(c.XAxis, c.YAxis, xr, Point{x, q3}, Point{x, max}, st),
			s.polyline(c.XAxis, c.YAxis, xr, []Point{{x - w, q1}, {x + w, q1}, {x + w, q3}, {x - w, q3}, {x - w, q1}}, st, c.Title),
			s.segment(c.XAxis, c.YAxis, xr, Point{x - w, med}, Point{x + w, med}, st),
		}
	case DrawVectors:
		out := make([]chart.Series, 0, len(c.Points))
		for i, p := range c.Points {
			if i < len(c.Ends) {
				out = append(out, s.segment(c.XAxis, c.YAxis, xr, p, c.Ends[i], st))
			}
		}
		return out
	case DrawErrorBars:
		out := make([]chart.Series, 0, len(c.Points))
		for i, p := range c.Points {
			if i >= len(c.Errors) {
				break
			}
			e := c.Errors[i]
			if c.Vertical {
				out = append(out, s.segment(c.XAxis, c.YAxis, xr, Point{p.X, p.Y - e}, Point{p.X, p.Y + e}, st))
			} else {
				out = append(out, s.segment(c.XAxis, c.YAxis, xr, Point{p.X - e, p.Y}, Point{p.X + e, p.Y}, st))
			}
		}
		return out
	}
	return nil
}

// stepPoints expands pts into a staircase; vertical steps rise before
// running to the next x.
func stepPoints(pts []Point, vertical bool) []Point {
	if len(pts) < 2 {
		return pts
	}
	out := make([]Point, 0, 2*len(pts))
	for i := 0; i < len(pts)-1; i++ {
		corner := Point{pts[i+1].X, pts[i].Y}
		if vertical {
			corner = Point{pts[i].X, pts[i+1].Y}
		}
		out = append(out, pts[i], corner)
	}
	return append(out, pts[len(pts)-1])
}

// SplinePoints interpolates a Catmull-Rom spline through pts with n
// sub-steps per segment.
func SplinePoints(pts []Point, n int) []Point {
	if len(pts) < 3 || n < 2 {
		return pts
	}
	at := func(i int) Point {
		if i < 0 {
			return pts[0]
		}
		if i >= len(pts) {
			return pts[len(pts)-1]
		}
		return pts[i]
	}
	out := make([]Point, 0, (len(pts)-1)*n+1)
	for i := 0; i < len(pts)-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		for k := 0; k < n; k++ {
			t := float64(k) / float64(n)
			t2, t3 := t*t, t*t*t
			x := 0.5 * (2*p1.X + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3)
			y := 0.5 * (2*p1.Y + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3)
			out = append(out, Point{x, y})
		}
	}
	return append(out, pts[len(pts)-1])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
