package serialize

import (
	"strings"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/layer"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

// Options control Save.
type Options struct {
	Version int
	// Template drops curve data, keeping bindings and styles only.
	Template bool
}

// DefaultOptions saves everything in the current version.
func DefaultOptions() Options { return Options{Version: CurrentVersion} }

var axes = [...]render.AxisPos{render.Bottom, render.Top, render.Left, render.Right}

// Save writes l as tagged lines. Every property is written, defaults
// included.
func Save(l *layer.Layer, opts Options) string {
	if !Supported(opts.Version) {
		logger.Warnf("serialize: unsupported version %d, writing %d", opts.Version, CurrentVersion)
		opts.Version = CurrentVersion
	}
	w := &writer{version: opts.Version}
	saveConfig(w, l)
	saveAxes(w, l)
	saveCurves(w, l, opts.Template)
	saveMarkers(w, l)
	return w.b.String()
}

func saveConfig(w *writer, l *layer.Layer) {
	c := l.Config()
	w.line("ggeometry", c.X, c.Y, c.Width, c.Height)
	w.line("PlotTitle", c.Title, c.TitleColor, c.TitleAlign)
	w.line("TitleFont", c.TitleFont)
	w.line("Background", c.Background)
	w.line("Canvas", c.Canvas)
	w.line("Border", c.FrameWidth, c.FrameColor)
	w.line("Margin", c.Margin)
	w.line("Antialiasing", c.Antialias)
	w.line("AutoLegend", c.AutoLegend)
	w.line("Autoscale", c.Autoscale)
	w.line("PickTolerance", c.PickTolerance)
	g := l.Grid()
	w.line("grid",
		g.XMajor, g.XMinor, g.YMajor, g.YMinor,
		g.MajorColor, int(g.MajorStyle), g.MajorWidth,
		g.MinorColor, int(g.MinorStyle), g.MinorWidth,
		g.ZeroX, g.ZeroY, g.XAxis, g.YAxis)
}

func saveAxes(w *writer, l *layer.Layer) {
	e := l.Scales()
	enabled := make([]interface{}, len(axes))
	for i, p := range axes {
		enabled[i] = e.Axis(p).Enabled
	}
	w.line("EnabledAxes", enabled...)
	for _, p := range axes {
		a, s := e.Axis(p), e.Scale(p)
		w.line("AxisType", p, int(a.Type), a.FormatInfo)
		w.line("scale", p, s.Lo, s.Hi, s.Step, s.MajorTicks, s.MinorTicks, int(s.Transform), s.Inverted)
		w.line("AxisTitle", p, a.Title.Text, a.Title.Color, a.Title.Alignment, a.Title.Font)
		w.line("LabelsFormat", p, int(a.NumberFormat), a.Precision, a.Formula)
		w.line("TicksType", p, tickToFile(a.MajorTicks, w.version), tickToFile(a.MinorTicks, w.version))
		w.line("AxisColors", p, a.Color, a.NumberColor)
		w.line("AxisFont", p, a.Font)
		w.line("ShowLabels", p, a.LabelsEnabled)
		if len(a.TextLabels) > 0 {
			fields := []interface{}{p}
			for _, t := range a.TextLabels {
				fields = append(fields, t)
			}
			w.line("TextLabels", fields...)
		}
		if w.version >= Version96 {
			w.line("LabelsRotation", p, a.LabelRotation)
			w.line("AxesBaseline", p, a.Baseline)
		}
	}
}

func layoutFields(l render.CurveLayout, version int) []interface{} {
	f := []interface{}{
		int(l.Connect), l.LineColor, int(l.LineStyle), l.LineWidth,
		l.Symbol, l.SymbolSize, l.SymbolColor, l.SymbolFill,
		l.FillArea, l.AreaColor, int(l.AreaPattern),
	}
	if version >= Version90 {
		f = append(f, l.FillAlpha)
	}
	return append(f, l.PenWidth)
}

func saveCurves(w *writer, l *layer.Layer, template bool) {
	reg := l.Curves()
	for i := 0; i < reg.Len(); i++ {
		c, _ := reg.Curve(i)
		b := c.Common()
		f := []interface{}{c.Kind().String(), b.Title, b.Binding.Source, b.Binding.XColumn, b.Binding.YColumn}
		f = append(f, layoutFields(b.Layout, w.version)...)
		f = append(f, b.XAxis, b.YAxis)
		if w.version >= Version90 {
			f = append(f, b.Binding.StartRow, b.Binding.EndRow)
		}
		f = append(f, b.Visible)
		w.line("curve", f...)
		saveVariant(w, l, c, template)
	}
}

func pointFields(pts []render.Point) []interface{} {
	out := make([]interface{}, len(pts))
	for i, p := range pts {
		out[i] = p
	}
	return out
}

func floatFields(v []float64) []interface{} {
	out := make([]interface{}, len(v))
	for i, x := range v {
		out[i] = x
	}
	return out
}

func intFields(v []int) []interface{} {
	out := make([]interface{}, len(v))
	for i, x := range v {
		out[i] = x
	}
	return out
}

func stringFields(v []string) []interface{} {
	out := make([]interface{}, len(v))
	for i, x := range v {
		out[i] = x
	}
	return out
}

func saveVariant(w *writer, l *layer.Layer, c curves.Curve, template bool) {
	switch v := c.(type) {
	case *curves.XYCurve:
		w.line("BarStyle", v.BarGap, v.BarOffset)
		if !template {
			w.line("points", pointFields(v.Points)...)
			w.line("rows", intFields(v.Rows)...)
		}
	case *curves.PieCurve:
		w.line("PieCurve", v.Radius, v.StartAzimuth)
		if !template {
			w.line("values", floatFields(v.Values)...)
			if len(v.Labels) > 0 {
				w.line("labels", stringFields(v.Labels)...)
			}
		}
	case *curves.HistogramCurve:
		w.line("Histogram", v.AutoBin, v.BinSize, v.Begin, v.End)
		if !template {
			w.line("values", floatFields(v.Values)...)
		}
	case *curves.BoxCurve:
		w.line("BoxCurve", v.Position, v.BoxWidth)
		if !template {
			w.line("values", floatFields(v.Values)...)
		}
	case *curves.VectorCurve:
		w.line("Vectors", v.EndXColumn, v.EndYColumn, v.HeadLength, v.HeadAngle, v.Filled)
		if !template {
			w.line("points", pointFields(v.Points)...)
			w.line("second", pointFields(v.Second)...)
		}
	case *curves.ErrorBarsCurve:
		w.line("ErrorBars", l.Curves().IndexOf(v.Master), v.Vertical, v.CapLength, v.Through, v.Plus, v.Minus)
		if !template {
			w.line("errors", floatFields(v.Errors)...)
		}
	case *curves.FunctionCurve:
		w.line("FunctionCurve", v.Formula, v.Variable, v.From, v.To, v.Samples)
	case *curves.SpectrogramCurve:
		w.line("Spectrogram", v.Matrix, v.Levels, v.Bounds[0], v.Bounds[1], v.Bounds[2], v.Bounds[3])
		if !template {
			for _, row := range v.Grid {
				w.line("gridrow", floatFields(row)...)
			}
		}
	}
}

func saveMarkers(w *writer, l *layer.Layer) {
	st := l.Markers()
	legend := st.LegendID()
	for _, h := range st.Texts() {
		it, ok := st.Item(h)
		if !ok {
			continue
		}
		tag := "text"
		if h == legend {
			tag = "legend"
		}
		w.raw("<" + tag + ">")
		w.line("origin", it.Origin)
		w.line("axes", it.XAxis, it.YAxis)
		w.line("text", stringFields(strings.Split(it.Text, "\n"))...)
		w.line("font", it.Font)
		w.line("colors", it.TextColor, it.Background)
		w.line("frame", it.Frame)
		w.line("angle", it.Angle)
		w.raw("</" + tag + ">")
	}
	for _, h := range st.Lines() {
		it, ok := st.Item(h)
		if !ok {
			continue
		}
		w.raw("<line>")
		w.line("start", it.Origin)
		w.line("end", it.End)
		w.line("axes", it.XAxis, it.YAxis)
		w.line("pen", it.LineColor, it.LineWidth, int(it.LineStyle))
		w.line("arrows", it.StartArrow, it.EndArrow)
		w.line("head", it.HeadLength, it.HeadAngle, it.FilledHead)
		w.raw("</line>")
	}
	for _, h := range st.Images() {
		it, ok := st.Item(h)
		if !ok {
			continue
		}
		w.raw("<image>")
		w.line("file", it.ImagePath)
		w.line("origin", it.Origin)
		w.line("end", it.End)
		w.line("axes", it.XAxis, it.YAxis)
		w.raw("</image>")
	}
}
