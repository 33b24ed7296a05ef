package serialize

import (
	"strings"
	"time"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/datasource"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/formula"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/layer"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/markers"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/scale"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// Resolver finds the data sources curves are bound to. A nil Resolver
// leaves curves saved without data empty.
type Resolver interface {
	Table(name string) (datasource.Source, bool)
	Matrix(name string) (datasource.Matrix, bool)
}

type pendingCurve struct {
	curve   curves.Curve
	master  int
	hasData bool
}

type block struct {
	tag     string
	lineNo  int
	records map[string]*record
}

// doc is everything read from the text before the layer is built.
type doc struct {
	version int
	cfg     layer.Config
	grid    layer.Grid
	axes    [render.AxisCount]scale.Axis
	scales  [render.AxisCount]scale.Scale
	curves  []*pendingCurve
	blocks  []*block

	seen     map[string]bool
	axisSeen map[string]*[render.AxisCount]bool
}

// Load parses one layer written by Save in the given version. On any error
// no layer is returned.
func Load(text string, version int, res Resolver) (*layer.Layer, error) {
	if !Supported(version) {
		return nil, types.Errorf(types.ErrIO, "load", "unsupported format version %d", version)
	}
	defer logger.TimeTrack(time.Now(), "serialize: load")
	d, err := parse(text, version)
	if err != nil {
		return nil, err
	}
	return d.build(res)
}

func newDoc(version int) *doc {
	d := &doc{
		version:  version,
		cfg:      layer.DefaultConfig(),
		grid:     layer.DefaultGrid(),
		seen:     map[string]bool{},
		axisSeen: map[string]*[render.AxisCount]bool{},
	}
	defaults := scale.NewEngine(render.NewSurface(d.cfg.Width, d.cfg.Height))
	for i := range d.axes {
		d.axes[i] = defaults.Axis(render.AxisPos(i))
		d.scales[i] = defaults.Scale(render.AxisPos(i))
	}
	for t := range perAxisTags {
		d.axisSeen[t] = &[render.AxisCount]bool{}
	}
	return d
}

func parse(text string, version int) (*doc, error) {
	d := newDoc(version)
	var open *block
	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "</") && strings.HasSuffix(line, ">") {
			tag := line[2 : len(line)-1]
			if open == nil || open.tag != tag {
				return nil, types.Errorf(types.ErrIO, "load", "line %d: unexpected %s", n+1, line)
			}
			d.blocks = append(d.blocks, open)
			open = nil
			continue
		}
		if strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">") {
			if open != nil {
				return nil, types.Errorf(types.ErrIO, "load", "line %d: %s inside <%s>", n+1, line, open.tag)
			}
			open = &block{tag: line[1 : len(line)-1], lineNo: n + 1, records: map[string]*record{}}
			continue
		}
		parts := strings.Split(line, "\t")
		r := &record{tag: parts[0], f: parts[1:], lineNo: n + 1, version: version}
		if open != nil {
			open.records[r.tag] = r
			continue
		}
		d.apply(r)
		if r.bad != nil {
			return nil, r.bad
		}
	}
	if open != nil {
		return nil, types.Errorf(types.ErrIO, "load", "line %d: <%s> never closed", open.lineNo, open.tag)
	}
	for _, t := range requiredTags {
		if !d.seen[t] {
			return nil, types.Errorf(types.ErrIO, "load", "missing required tag %q", t)
		}
		if seen, ok := d.axisSeen[t]; ok {
			for p, ok := range seen {
				if !ok {
					return nil, types.Errorf(types.ErrIO, "load", "missing %q for axis %s", t, render.AxisPos(p))
				}
			}
		}
	}
	return d, nil
}

func (d *doc) markAxis(r *record, p render.AxisPos) {
	if seen, ok := d.axisSeen[r.tag]; ok && p.Valid() {
		seen[p] = true
	}
}

func (d *doc) apply(r *record) {
	d.seen[r.tag] = true
	c := &d.cfg
	switch r.tag {
	case "ggeometry":
		if r.need(4) {
			c.X, c.Y, c.Width, c.Height = r.int(0), r.int(1), r.int(2), r.int(3)
		}
	case "PlotTitle":
		if r.need(3) {
			c.Title, c.TitleColor, c.TitleAlign = r.str(0), r.color(1), r.int(2)
		}
	case "TitleFont":
		c.TitleFont = r.font(0)
	case "Background":
		c.Background = r.color(0)
	case "Canvas":
		c.Canvas = r.color(0)
	case "Border":
		if r.need(2) {
			c.FrameWidth, c.FrameColor = r.int(0), r.color(1)
		}
	case "Margin":
		c.Margin = r.int(0)
	case "Antialiasing":
		c.Antialias = r.bool(0)
	case "AutoLegend":
		c.AutoLegend = r.bool(0)
	case "Autoscale":
		c.Autoscale = r.bool(0)
	case "PickTolerance":
		c.PickTolerance = r.num(0)
	case "grid":
		d.applyGrid(r)
	case "EnabledAxes":
		if r.need(render.AxisCount) {
			for i, p := range axes {
				d.axes[p].Enabled = r.bool(i)
			}
		}
	case "AxisType", "scale", "AxisTitle", "LabelsFormat", "TicksType", "AxisColors",
		"AxisFont", "ShowLabels", "TextLabels", "LabelsRotation", "AxesBaseline":
		d.applyAxis(r)
	case "curve":
		d.applyCurve(r)
	case "BarStyle", "points", "rows", "PieCurve", "values", "labels", "Histogram", "BoxCurve",
		"Vectors", "second", "ErrorBars", "errors", "FunctionCurve", "Spectrogram", "gridrow":
		d.applyVariant(r)
	default:
		logger.Warnf("serialize: line %d: unknown tag %q skipped", r.lineNo, r.tag)
	}
}

func (d *doc) applyGrid(r *record) {
	if !r.need(14) {
		return
	}
	g := &d.grid
	g.XMajor, g.XMinor, g.YMajor, g.YMinor = r.bool(0), r.bool(1), r.bool(2), r.bool(3)
	g.MajorColor, g.MajorStyle, g.MajorWidth = r.color(4), render.LineStyle(r.int(5)), r.num(6)
	g.MinorColor, g.MinorStyle, g.MinorWidth = r.color(7), render.LineStyle(r.int(8)), r.num(9)
	g.ZeroX, g.ZeroY = r.bool(10), r.bool(11)
	g.XAxis, g.YAxis = r.axis(12), r.axis(13)
}

func (d *doc) applyAxis(r *record) {
	if !r.need(1) {
		return
	}
	p := r.axis(0)
	if r.bad != nil {
		return
	}
	d.markAxis(r, p)
	a, s := &d.axes[p], &d.scales[p]
	switch r.tag {
	case "AxisType":
		if r.need(3) {
			a.Type, a.FormatInfo = scale.AxisType(r.int(1)), r.str(2)
		}
		if a.Type == scale.Date || a.Type == scale.Time {
			if _, _, err := scale.ParseDateTimeInfo(a.FormatInfo); err != nil {
				r.fail("%v", err)
			}
		}
	case "scale":
		if r.need(8) {
			*s = scale.Scale{
				Lo: r.num(1), Hi: r.num(2), Step: r.num(3),
				MajorTicks: r.int(4), MinorTicks: r.int(5),
				Transform: scale.Transform(r.int(6)), Inverted: r.bool(7),
			}
		}
	case "AxisTitle":
		if r.need(5) {
			a.Title = scale.Title{Text: r.str(1), Color: r.color(2), Alignment: r.int(3), Font: r.font(4)}
		}
	case "LabelsFormat":
		if r.need(4) {
			a.NumberFormat, a.Precision, a.Formula = scale.NumericFormat(r.int(1)), r.int(2), r.str(3)
		}
	case "TicksType":
		if r.need(3) {
			a.MajorTicks, a.MinorTicks = tickFromFile(r.int(1), d.version), tickFromFile(r.int(2), d.version)
		}
	case "AxisColors":
		if r.need(3) {
			a.Color, a.NumberColor = r.color(1), r.color(2)
		}
	case "AxisFont":
		if r.need(2) {
			a.Font = r.font(1)
		}
	case "ShowLabels":
		if r.need(2) {
			a.LabelsEnabled = r.bool(1)
		}
	case "TextLabels":
		a.TextLabels = r.rest(1)
	case "LabelsRotation":
		if r.need(2) {
			a.LabelRotation = r.num(1)
		}
	case "AxesBaseline":
		if r.need(2) {
			a.Baseline = r.int(1)
		}
	}
}

func (d *doc) applyCurve(r *record) {
	layoutN := 12
	if d.version >= Version90 {
		layoutN = 13
	}
	n := 5 + layoutN + 2 + 1
	if d.version >= Version90 {
		n += 2
	}
	if !r.need(n) {
		return
	}
	k, err := curves.ParseKind(r.str(0))
	if err != nil {
		r.fail("%v", err)
		return
	}
	base := curves.Base{
		Title:   r.str(1),
		Binding: curves.Binding{Source: r.str(2), XColumn: r.str(3), YColumn: r.str(4), EndRow: -1},
	}
	i := 5
	lay := render.DefaultLayout()
	lay.Connect = render.ConnectStyle(r.int(i))
	lay.LineColor = r.int(i + 1)
	lay.LineStyle = render.LineStyle(r.int(i + 2))
	lay.LineWidth = r.num(i + 3)
	lay.Symbol = r.int(i + 4)
	lay.SymbolSize = r.int(i + 5)
	lay.SymbolColor = r.int(i + 6)
	lay.SymbolFill = r.int(i + 7)
	lay.FillArea = r.bool(i + 8)
	lay.AreaColor = r.int(i + 9)
	lay.AreaPattern = render.Pattern(r.int(i + 10))
	i += 11
	if d.version >= Version90 {
		lay.FillAlpha = r.int(i)
		i++
	}
	lay.PenWidth = r.num(i)
	i++
	base.Layout = lay
	base.XAxis, base.YAxis = r.axis(i), r.axis(i+1)
	i += 2
	if d.version >= Version90 {
		base.Binding.StartRow, base.Binding.EndRow = r.int(i), r.int(i+1)
		i += 2
	}
	base.Visible = r.bool(i)

	pc := &pendingCurve{master: -1}
	switch {
	case k.IsXY():
		pc.curve = &curves.XYCurve{Base: base, Type: k}
	case k == curves.Pie:
		pc.curve = &curves.PieCurve{Base: base}
	case k == curves.Histogram:
		pc.curve = &curves.HistogramCurve{Base: base}
	case k == curves.Box:
		pc.curve = &curves.BoxCurve{Base: base}
	case k.IsVector():
		pc.curve = &curves.VectorCurve{Base: base, Type: k}
	case k == curves.ErrorBars:
		pc.curve = &curves.ErrorBarsCurve{Base: base}
	case k == curves.Function:
		pc.curve = &curves.FunctionCurve{Base: base}
		pc.hasData = true
	case k.IsSpectrogram():
		pc.curve = &curves.SpectrogramCurve{Base: base, Type: k}
	}
	d.curves = append(d.curves, pc)
}

// applyVariant fills the most recent curve from one of its detail lines.
func (d *doc) applyVariant(r *record) {
	if len(d.curves) == 0 {
		r.fail("no preceding curve")
		return
	}
	pc := d.curves[len(d.curves)-1]
	mismatch := func() { r.fail("does not apply to a %s curve", pc.curve.Kind()) }
	switch v := pc.curve.(type) {
	case *curves.XYCurve:
		switch r.tag {
		case "BarStyle":
			if r.need(2) {
				v.BarGap, v.BarOffset = r.int(0), r.int(1)
			}
		case "points":
			v.Points, pc.hasData = r.points(0), true
		case "rows":
			v.Rows = make([]int, len(r.f))
			for k := range r.f {
				v.Rows[k] = r.int(k)
			}
		default:
			mismatch()
		}
	case *curves.PieCurve:
		switch r.tag {
		case "PieCurve":
			if r.need(2) {
				v.Radius, v.StartAzimuth = r.int(0), r.num(1)
			}
		case "values":
			v.Values, pc.hasData = r.floats(0), true
		case "labels":
			v.Labels = r.rest(0)
		default:
			mismatch()
		}
	case *curves.HistogramCurve:
		switch r.tag {
		case "Histogram":
			if r.need(4) {
				v.AutoBin, v.BinSize, v.Begin, v.End = r.bool(0), r.num(1), r.num(2), r.num(3)
			}
		case "values":
			v.Values, pc.hasData = r.floats(0), true
		default:
			mismatch()
		}
	case *curves.BoxCurve:
		switch r.tag {
		case "BoxCurve":
			if r.need(2) {
				v.Position, v.BoxWidth = r.num(0), r.num(1)
			}
		case "values":
			v.Values, pc.hasData = r.floats(0), true
		default:
			mismatch()
		}
	case *curves.VectorCurve:
		switch r.tag {
		case "Vectors":
			if r.need(5) {
				v.EndXColumn, v.EndYColumn = r.str(0), r.str(1)
				v.HeadLength, v.HeadAngle, v.Filled = r.int(2), r.int(3), r.bool(4)
			}
		case "points":
			v.Points, pc.hasData = r.points(0), true
		case "second":
			v.Second = r.points(0)
		default:
			mismatch()
		}
	case *curves.ErrorBarsCurve:
		switch r.tag {
		case "ErrorBars":
			if r.need(6) {
				pc.master = r.int(0)
				v.Vertical, v.CapLength, v.Through = r.bool(1), r.int(2), r.bool(3)
				v.Plus, v.Minus = r.bool(4), r.bool(5)
			}
		case "errors":
			v.Errors, pc.hasData = r.floats(0), true
		default:
			mismatch()
		}
	case *curves.FunctionCurve:
		if r.tag != "FunctionCurve" {
			mismatch()
			return
		}
		if r.need(5) {
			v.Formula, v.Variable, v.From, v.To, v.Samples = r.str(0), r.str(1), r.num(2), r.num(3), r.int(4)
			if v.Samples > formula.MaxSamples {
				logger.Warnf("serialize: line %d: %d samples lowered to %d", r.lineNo, v.Samples, formula.MaxSamples)
			}
		}
	case *curves.SpectrogramCurve:
		switch r.tag {
		case "Spectrogram":
			if r.need(6) {
				v.Matrix, v.Levels = r.str(0), r.int(1)
				v.Bounds = [4]float64{r.num(2), r.num(3), r.num(4), r.num(5)}
			}
		case "gridrow":
			v.Grid, pc.hasData = append(v.Grid, r.floats(0)), true
		default:
			mismatch()
		}
	}
}

// build creates the layer. Any failure closes the partial layer.
func (d *doc) build(res Resolver) (*layer.Layer, error) {
	l := layer.New(d.cfg)
	fail := func(err error) (*layer.Layer, error) {
		l.Close()
		return nil, err
	}
	l.SetGrid(d.grid)
	for i := range d.axes {
		if err := l.Scales().Restore(render.AxisPos(i), d.axes[i], d.scales[i]); err != nil {
			return fail(types.Wrap(types.ErrIO, "load", err))
		}
	}
	handles := make([]render.Handle, 0, len(d.curves))
	for i, pc := range d.curves {
		if eb, ok := pc.curve.(*curves.ErrorBarsCurve); ok && pc.master >= 0 {
			if pc.master >= i {
				return fail(types.Errorf(types.ErrIO, "load", "error bars %d reference later curve %d", i, pc.master))
			}
			eb.Master = handles[pc.master]
		}
		if fc, ok := pc.curve.(*curves.FunctionCurve); ok {
			if err := fc.Sample(); err != nil {
				return fail(types.Wrap(types.ErrIO, "load", err))
			}
		}
		idx, h := l.Curves().Insert(pc.curve)
		handles = append(handles, h)
		if !pc.hasData {
			d.rebind(l, idx, pc.curve, res)
		}
	}
	for _, b := range d.blocks {
		if err := d.buildMarker(l, b); err != nil {
			return fail(err)
		}
	}
	logger.Debugf("serialize: loaded %d curves, %d markers", l.Curves().Len(), l.Markers().Len())
	return l, nil
}

// rebind fills a curve saved without data from its source. Missing sources
// leave the curve empty.
func (d *doc) rebind(l *layer.Layer, i int, c curves.Curve, res Resolver) {
	if res == nil {
		return
	}
	var err error
	if sc, ok := c.(*curves.SpectrogramCurve); ok {
		m, found := res.Matrix(sc.Matrix)
		if !found {
			logger.Warnf("serialize: matrix %q not found", sc.Matrix)
			return
		}
		err = l.RebindMatrix(i, m)
	} else {
		src, found := res.Table(c.Common().Binding.Source)
		if !found {
			logger.Warnf("serialize: table %q not found", c.Common().Binding.Source)
			return
		}
		err = l.RebindCurve(i, src)
	}
	if err != nil {
		logger.Warnf("serialize: curve %d: %v", i, err)
	}
}

// field returns the record for key inside a block, failing when absent.
func (b *block) field(key string, n int) (*record, error) {
	r, ok := b.records[key]
	if !ok {
		return nil, types.Errorf(types.ErrIO, "load", "line %d: <%s> lacks %q", b.lineNo, b.tag, key)
	}
	if !r.need(n) {
		return nil, r.bad
	}
	return r, nil
}

func (d *doc) buildMarker(l *layer.Layer, b *block) error {
	var recs []*record
	get := func(key string, n int) *record {
		r, err := b.field(key, n)
		if err != nil {
			recs = append(recs, &record{bad: err})
			return &record{tag: key, f: make([]string, n)}
		}
		recs = append(recs, r)
		return r
	}
	check := func() error {
		for _, r := range recs {
			if r.bad != nil {
				return r.bad
			}
		}
		return nil
	}
	st := l.Markers()
	switch b.tag {
	case "text", "legend":
		ax := get("axes", 2)
		spec := markers.TextSpec{
			Origin: get("origin", 1).point(0),
			XAxis:  ax.axis(0),
			YAxis:  ax.axis(1),
			Text:   strings.Join(get("text", 0).rest(0), "\n"),
			Font:   get("font", 1).font(0),
			Frame:  get("frame", 1).int(0),
			Angle:  get("angle", 1).num(0),
		}
		colors := get("colors", 2)
		spec.Color, spec.Background = colors.color(0), colors.color(1)
		if err := check(); err != nil {
			return err
		}
		h := st.InsertText(spec)
		if b.tag == "legend" {
			st.SetLegend(h)
		}
	case "line":
		ax, pen := get("axes", 2), get("pen", 3)
		arrows, head := get("arrows", 2), get("head", 3)
		spec := markers.LineSpec{
			Start: get("start", 1).point(0), End: get("end", 1).point(0),
			XAxis: ax.axis(0), YAxis: ax.axis(1),
			Color: pen.color(0), Width: pen.num(1), Style: render.LineStyle(pen.int(2)),
			StartArrow: arrows.bool(0), EndArrow: arrows.bool(1),
			HeadLength: head.int(0), HeadAngle: head.int(1), FilledHead: head.bool(2),
		}
		if err := check(); err != nil {
			return err
		}
		st.InsertLine(spec)
	case "image":
		ax := get("axes", 2)
		spec := markers.ImageSpec{
			Path:   get("file", 1).str(0),
			Origin: get("origin", 1).point(0), End: get("end", 1).point(0),
			XAxis: ax.axis(0), YAxis: ax.axis(1),
		}
		if err := check(); err != nil {
			return err
		}
		if spec.Path != "" {
			img, err := markers.LoadImage(spec.Path)
			if err != nil {
				logger.Warnf("serialize: image marker: %v", err)
			}
			spec.Image = img
		}
		st.InsertImage(spec)
	default:
		logger.Warnf("serialize: line %d: unknown block <%s> skipped", b.lineNo, b.tag)
	}
	return nil
}
