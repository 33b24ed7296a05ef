package layer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/datasource"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/markers"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/scale"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// Rows is an inclusive 0-based row range; End < 0 means the last row.
type Rows struct {
	Start, End int
}

// AllRows selects every row.
var AllRows = Rows{Start: 0, End: -1}

func (r Rows) clamp(n int) (int, int) {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end < 0 || end >= n {
		end = n - 1
	}
	return start, end
}

// dictionary assigns sequential codes, starting at 1, to the distinct
// strings of a text column in first-seen order.
type dictionary struct {
	codes  map[string]int
	labels []string
}

func newDictionary() *dictionary { return &dictionary{codes: map[string]int{}} }

func (d *dictionary) code(s string) int {
	if c, ok := d.codes[s]; ok {
		return c
	}
	d.labels = append(d.labels, s)
	d.codes[s] = len(d.labels)
	return len(d.labels)
}

func (d *dictionary) clone() *dictionary {
	out := newDictionary()
	for _, l := range d.labels {
		out.code(l)
	}
	return out
}

func dictKey(src datasource.Source, col int) string {
	return src.Name() + "_" + src.ColumnName(col)
}

// TextLabels returns the code labels assigned to a text column.
func (l *Layer) TextLabels(source, column string) []string {
	if d, ok := l.dicts[source+"_"+column]; ok {
		return append([]string(nil), d.labels...)
	}
	return nil
}

// columnReader turns cell text into a coordinate according to the column
// type. It works on a scratch dictionary so nothing leaks on failure.
type columnReader struct {
	typ    datasource.ColumnType
	layout string
	dict   *dictionary
	origin time.Time
	hasOrg bool
}

// newReader prepares a reader for column col plotted on axis p. Date and
// Time columns keep the origin of an axis already showing that type, so
// curves sharing the axis share its offsets.
func (l *Layer) newReader(src datasource.Source, col int, p render.AxisPos) *columnReader {
	r := &columnReader{typ: src.ColumnType(col), layout: src.ColumnFormat(col)}
	switch r.typ {
	case datasource.Text:
		if d, ok := l.dicts[dictKey(src, col)]; ok {
			r.dict = d.clone()
		} else {
			r.dict = newDictionary()
		}
	case datasource.Date:
		if r.layout == "" {
			r.layout = time.DateOnly
		}
		l.seedOrigin(r, p, scale.Date)
	case datasource.Time:
		if r.layout == "" {
			r.layout = time.TimeOnly
		}
		l.seedOrigin(r, p, scale.Time)
	}
	return r
}

func (l *Layer) seedOrigin(r *columnReader, p render.AxisPos, want scale.AxisType) {
	a := l.scales.Axis(p)
	if a.Type != want {
		return
	}
	origin, _, err := scale.ParseDateTimeInfo(a.FormatInfo)
	if err != nil {
		return
	}
	r.origin, r.hasOrg = origin, true
}

// clock records how a Date or Time column maps onto axis offsets, so edits
// made in axis coordinates can be written back as cell text.
type clock struct {
	typ    datasource.ColumnType
	layout string
	origin time.Time
}

func (c clock) format(v float64) string {
	t := scale.TimeFromCoordinate(c.origin, v)
	if c.typ == datasource.Date {
		t = scale.DateFromCoordinate(c.origin, v)
	}
	// Pixel round trips leave nanosecond noise that would flip a date
	// sitting exactly on midnight to the previous day.
	return t.Round(time.Millisecond).Format(c.layout)
}

func (r *columnReader) read(text string) (float64, bool) {
	switch r.typ {
	case datasource.Text:
		return float64(r.dict.code(text)), true
	case datasource.Date, datasource.Time:
		t, err := time.Parse(r.layout, text)
		if err != nil {
			return 0, false
		}
		if !r.hasOrg {
			r.origin = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
			r.hasOrg = true
		}
		if r.typ == datasource.Date {
			return scale.DateCoordinate(r.origin, t), true
		}
		return scale.TimeCoordinate(r.origin, t), true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	return v, err == nil
}

// axisChange is the display switch an axis needs for the data just read.
type axisChange struct {
	pos    render.AxisPos
	typ    scale.AxisType
	info   string
	labels []string
}

func (r *columnReader) axisChange(p render.AxisPos) (axisChange, bool) {
	switch r.typ {
	case datasource.Text:
		return axisChange{pos: p, typ: scale.Text, labels: r.dict.labels}, true
	case datasource.Date:
		return axisChange{pos: p, typ: scale.Date, info: r.origin.Format(r.layout) + ";" + r.layout}, true
	case datasource.Time:
		return axisChange{pos: p, typ: scale.Time, info: r.origin.Format(r.layout) + ";" + r.layout}, true
	}
	return axisChange{}, false
}

// readColumns reads (x, y) pairs, skipping rows where either cell is empty
// or unreadable. It returns the points, their source rows and the pending
// axis changes; nothing is committed.
func (l *Layer) readColumns(op string, src datasource.Source, xCol, yCol string, rows Rows) ([]render.Point, []int, []axisChange, []*columnReader, error) {
	if src == nil {
		return nil, nil, nil, nil, types.New(types.ErrData, op, "no data source")
	}
	xi, yi := src.ColumnIndex(xCol), src.ColumnIndex(yCol)
	if xi < 0 {
		return nil, nil, nil, nil, types.Errorf(types.ErrData, op, "column %q not found in %s", xCol, src.Name())
	}
	if yi < 0 {
		return nil, nil, nil, nil, types.Errorf(types.ErrData, op, "column %q not found in %s", yCol, src.Name())
	}
	xr, yr := l.newReader(src, xi, render.Bottom), l.newReader(src, yi, render.Left)
	start, end := rows.clamp(src.RowCount())
	var pts []render.Point
	var idx []int
	for row := start; row <= end; row++ {
		xs, ys := src.Cell(row, xi), src.Cell(row, yi)
		if strings.TrimSpace(xs) == "" || strings.TrimSpace(ys) == "" {
			continue
		}
		x, okx := xr.read(xs)
		y, oky := yr.read(ys)
		if !okx || !oky {
			continue
		}
		pts = append(pts, render.Point{X: x, Y: y})
		idx = append(idx, row)
	}
	if len(pts) == 0 {
		return nil, nil, nil, nil, types.Errorf(types.ErrData, op, "no plottable rows in %s/%s", xCol, yCol)
	}
	var changes []axisChange
	if c, ok := xr.axisChange(render.Bottom); ok {
		changes = append(changes, c)
	}
	if c, ok := yr.axisChange(render.Left); ok {
		changes = append(changes, c)
	}
	for _, c := range changes {
		if c.typ == scale.Date || c.typ == scale.Time {
			if _, _, err := scale.ParseDateTimeInfo(c.info); err != nil {
				return nil, nil, nil, nil, err
			}
		}
	}
	return pts, idx, changes, []*columnReader{xr, yr}, nil
}

// commitReaders stores the dictionaries the readers extended and the
// origins of the Date/Time columns they read.
func (l *Layer) commitReaders(src datasource.Source, cols []int, readers []*columnReader) {
	for i, r := range readers {
		key := dictKey(src, cols[i])
		if r.dict != nil {
			l.dicts[key] = r.dict
		}
		if r.hasOrg {
			l.clocks[key] = clock{typ: r.typ, layout: r.layout, origin: r.origin}
		}
	}
}

// cellText renders coordinate v of axis p back into the text column
// column of source would read as v. It fails for codes outside a text
// dictionary and for non-numeric axes whose column format is unknown.
func (l *Layer) cellText(p render.AxisPos, source, column string, v float64) (string, bool) {
	key := source + "_" + column
	if d, ok := l.dicts[key]; ok {
		code := int(math.Round(v))
		if code < 1 || code > len(d.labels) {
			return "", false
		}
		return d.labels[code-1], true
	}
	if c, ok := l.clocks[key]; ok {
		return c.format(v), true
	}
	if t := l.scales.Axis(p).Type; t != scale.Numeric && t != scale.Log {
		return "", false
	}
	return formatCell(v), true
}

func (l *Layer) applyAxisChanges(changes []axisChange) {
	for _, c := range changes {
		if err := l.scales.SetAxisType(c.pos, c.typ, c.info); err != nil {
			// Validated in readColumns.
			logger.Warnf("axis %s: %v", c.pos, err)
			continue
		}
		if c.labels != nil {
			l.scales.SetTextLabels(c.pos, c.labels)
		}
	}
}

// newLayout is the default layout of kind in the next unique color.
func (l *Layer) newLayout(k curves.Kind) render.CurveLayout {
	color, symbol := l.curves.GuessUniqueLayout()
	lay := render.DefaultLayout()
	lay.LineColor, lay.SymbolColor, lay.AreaColor = color, color, color
	lay.Symbol = symbol
	if k.IsXY() {
		return curves.StyleFor(k, lay)
	}
	lay.Symbol = 0
	return lay
}

// InsertCurve plots yCol against xCol of src over rows. Rows with an empty
// or unreadable cell are skipped. Text columns are coded through a
// per-column dictionary and Date/Time columns become day/second offsets;
// the matching axes switch display type. If no row survives, a DataError
// is returned and nothing changes.
func (l *Layer) InsertCurve(src datasource.Source, xCol, yCol string, kind curves.Kind, rows Rows) (int, error) {
	switch {
	case kind == curves.Pie:
		return l.InsertPie(src, yCol, rows)
	case kind == curves.Histogram:
		return l.InsertHistogram(src, yCol, rows)
	case kind == curves.Box:
		return l.InsertBox(src, yCol, rows, float64(l.curves.Len()+1))
	case !kind.IsXY():
		return -1, types.Errorf(types.ErrData, "insertCurve", "%s curves need their own insertion", kind)
	}
	pts, idx, changes, readers, err := l.readColumns("insertCurve", src, xCol, yCol, rows)
	if err != nil {
		return -1, err
	}
	l.commitReaders(src, []int{src.ColumnIndex(xCol), src.ColumnIndex(yCol)}, readers)
	l.applyAxisChanges(changes)
	c := &curves.XYCurve{
		Base: curves.Base{
			Title:   yCol,
			Binding: curves.Binding{Source: src.Name(), XColumn: xCol, YColumn: yCol, StartRow: rows.Start, EndRow: rows.End},
			Layout:  l.newLayout(kind),
			XAxis:   render.Bottom,
			YAxis:   render.Left,
			Visible: true,
		},
		Type:   kind,
		Points: pts,
		Rows:   idx,
	}
	return l.addCurve(c), nil
}

// addCurve appends c and updates the legend.
func (l *Layer) addCurve(c curves.Curve) int {
	i, _ := l.curves.Insert(c)
	if l.eligibleForLegend(c.Kind()) {
		if l.markers.LegendID().IsZero() && l.cfg.AutoLegend {
			l.NewLegend()
		} else {
			l.markers.AppendCurve(i, c.Common().Title)
		}
	}
	l.surface.MarkDirty()
	logger.Debugf("layer: %s curve %q at %d", c.Kind(), c.Common().Title, i)
	return i
}

// readValues reads one numeric column, skipping empty and unparsable cells.
func (l *Layer) readValues(op string, src datasource.Source, col string, rows Rows) ([]float64, error) {
	if src == nil {
		return nil, types.New(types.ErrData, op, "no data source")
	}
	ci := src.ColumnIndex(col)
	if ci < 0 {
		return nil, types.Errorf(types.ErrData, op, "column %q not found in %s", col, src.Name())
	}
	start, end := rows.clamp(src.RowCount())
	var out []float64
	for row := start; row <= end; row++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(src.Cell(row, ci)), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, types.Errorf(types.ErrData, op, "no numeric rows in %s", col)
	}
	return out, nil
}

func (l *Layer) valueBase(src datasource.Source, col string, rows Rows, k curves.Kind) curves.Base {
	return curves.Base{
		Title:   col,
		Binding: curves.Binding{Source: src.Name(), YColumn: col, StartRow: rows.Start, EndRow: rows.End},
		Layout:  l.newLayout(k),
		XAxis:   render.Bottom,
		YAxis:   render.Left,
		Visible: true,
	}
}

// InsertPie plots col as pie slices.
func (l *Layer) InsertPie(src datasource.Source, col string, rows Rows) (int, error) {
	vals, err := l.readValues("insertPie", src, col, rows)
	if err != nil {
		return -1, err
	}
	return l.addCurve(&curves.PieCurve{Base: l.valueBase(src, col, rows, curves.Pie), Values: vals, Radius: 100}), nil
}

// InsertHistogram bins col automatically.
func (l *Layer) InsertHistogram(src datasource.Source, col string, rows Rows) (int, error) {
	vals, err := l.readValues("insertHistogram", src, col, rows)
	if err != nil {
		return -1, err
	}
	b := l.valueBase(src, col, rows, curves.Histogram)
	b.Layout.FillArea = true
	return l.addCurve(&curves.HistogramCurve{Base: b, Values: vals, AutoBin: true}), nil
}

// InsertBox draws a box plot of col at x position pos.
func (l *Layer) InsertBox(src datasource.Source, col string, rows Rows, pos float64) (int, error) {
	vals, err := l.readValues("insertBox", src, col, rows)
	if err != nil {
		return -1, err
	}
	return l.addCurve(&curves.BoxCurve{Base: l.valueBase(src, col, rows, curves.Box), Values: vals, Position: pos, BoxWidth: 0.5}), nil
}

// InsertErrorBars attaches errors read from errCol to the curve at master.
// Rows follow the master's source rows; the bars take the master's color.
func (l *Layer) InsertErrorBars(master int, src datasource.Source, errCol string, vertical bool) (int, error) {
	mc, ok := l.curves.Curve(master)
	if !ok {
		return -1, types.Errorf(types.ErrRange, "insertErrorBars", "curve index %d", master)
	}
	xy, ok := mc.(*curves.XYCurve)
	if !ok {
		return -1, types.Errorf(types.ErrData, "insertErrorBars", "%s curves take no error bars", mc.Kind())
	}
	if src == nil {
		return -1, types.New(types.ErrData, "insertErrorBars", "no data source")
	}
	ci := src.ColumnIndex(errCol)
	if ci < 0 {
		return -1, types.Errorf(types.ErrData, "insertErrorBars", "column %q not found in %s", errCol, src.Name())
	}
	errs := make([]float64, len(xy.Points))
	found := false
	for i, row := range xy.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(src.Cell(row, ci)), 64)
		if err == nil {
			errs[i] = v
			found = true
		}
	}
	if !found {
		return -1, types.Errorf(types.ErrData, "insertErrorBars", "no numeric rows in %s", errCol)
	}
	h, _ := l.curves.Handle(master)
	lay := render.DefaultLayout()
	lay.LineColor = xy.Layout.LineColor
	eb := &curves.ErrorBarsCurve{
		Base: curves.Base{
			Title:   errCol,
			Binding: curves.Binding{Source: src.Name(), XColumn: xy.Binding.YColumn, YColumn: errCol, StartRow: xy.Binding.StartRow, EndRow: xy.Binding.EndRow},
			Layout:  lay,
			XAxis:   xy.XAxis,
			YAxis:   xy.YAxis,
			Visible: true,
		},
		Master: h, Vertical: vertical, Errors: errs, CapLength: 8, Through: true, Plus: true, Minus: true,
	}
	return l.addCurve(eb), nil
}

// InsertFunctionCurve samples formula over [from, to].
func (l *Layer) InsertFunctionCurve(formulaSrc string, from, to float64, samples int) (int, error) {
	fc := &curves.FunctionCurve{
		Base: curves.Base{
			Title:   "f(x)=" + formulaSrc,
			Binding: curves.Binding{EndRow: -1},
			Layout:  l.newLayout(curves.Function),
			XAxis:   render.Bottom,
			YAxis:   render.Left,
			Visible: true,
		},
		Formula: formulaSrc, Variable: "x", From: from, To: to, Samples: samples,
	}
	if err := fc.Sample(); err != nil {
		return -1, types.Wrap(types.ErrData, "insertFunctionCurve", err)
	}
	if len(fc.Points) == 0 {
		return -1, types.Errorf(types.ErrData, "insertFunctionCurve", "%q has no finite value on [%g, %g]", formulaSrc, from, to)
	}
	return l.addCurve(fc), nil
}

// InsertVectors draws arrows from (xCol, yCol) using two more columns: end
// coordinates for VectorXYXY, angle and magnitude for VectorXYAM.
func (l *Layer) InsertVectors(src datasource.Source, kind curves.Kind, xCol, yCol, col3, col4 string, rows Rows) (int, error) {
	if !kind.IsVector() {
		return -1, types.Errorf(types.ErrData, "insertVectors", "%s is not a vector kind", kind)
	}
	pts, idx, _, _, err := l.readColumns("insertVectors", src, xCol, yCol, rows)
	if err != nil {
		return -1, err
	}
	c3, c4 := src.ColumnIndex(col3), src.ColumnIndex(col4)
	if c3 < 0 || c4 < 0 {
		return -1, types.Errorf(types.ErrData, "insertVectors", "columns %q/%q not found in %s", col3, col4, src.Name())
	}
	var starts, second []render.Point
	for i, row := range idx {
		a, err1 := strconv.ParseFloat(strings.TrimSpace(src.Cell(row, c3)), 64)
		b, err2 := strconv.ParseFloat(strings.TrimSpace(src.Cell(row, c4)), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		starts = append(starts, pts[i])
		second = append(second, render.Point{X: a, Y: b})
	}
	if len(starts) == 0 {
		return -1, types.Errorf(types.ErrData, "insertVectors", "no plottable rows")
	}
	vc := &curves.VectorCurve{
		Base: curves.Base{
			Title:   yCol,
			Binding: curves.Binding{Source: src.Name(), XColumn: xCol, YColumn: yCol, StartRow: rows.Start, EndRow: rows.End},
			Layout:  l.newLayout(kind),
			XAxis:   render.Bottom,
			YAxis:   render.Left,
			Visible: true,
		},
		Type: kind, EndXColumn: col3, EndYColumn: col4,
		Points: starts, Second: second, HeadLength: 8, HeadAngle: 30, Filled: true,
	}
	return l.addCurve(vc), nil
}

// InsertSpectrogram maps matrix m as a gray, color or contour map.
func (l *Layer) InsertSpectrogram(m datasource.Matrix, kind curves.Kind) (int, error) {
	if !kind.IsSpectrogram() {
		return -1, types.Errorf(types.ErrData, "insertSpectrogram", "%s is not a map kind", kind)
	}
	if m == nil || m.Rows() == 0 || m.Cols() == 0 {
		return -1, types.New(types.ErrData, "insertSpectrogram", "empty matrix")
	}
	sc := &curves.SpectrogramCurve{
		Base: curves.Base{
			Title:   m.Name(),
			Binding: curves.Binding{Source: m.Name(), EndRow: -1},
			Layout:  render.DefaultLayout(),
			XAxis:   render.Bottom,
			YAxis:   render.Left,
			Visible: true,
		},
		Type: kind, Matrix: m.Name(), Grid: datasource.Values(m), Bounds: m.Bounds(), Levels: 10,
	}
	return l.addCurve(sc), nil
}

// RemoveCurve deletes the curve at index i, prunes its legend line and
// renumbers the rest. It reports false for an unknown index.
func (l *Layer) RemoveCurve(i int) bool {
	if _, ok := l.curves.Curve(i); !ok {
		return false
	}
	l.curves.Remove(i)
	l.markers.RemoveCurve(i)
	l.surface.MarkDirty()
	return true
}

// ConvertCurve changes the kind of curve i within the XY family.
func (l *Layer) ConvertCurve(i int, kind curves.Kind) error {
	return l.curves.ConvertType(i, kind)
}

// SetCurveLayout replaces the layout of curve i.
func (l *Layer) SetCurveLayout(i int, lay render.CurveLayout) bool {
	c, ok := l.curves.Curve(i)
	if !ok {
		return false
	}
	c.Common().Layout = lay
	l.curves.Refresh(i)
	return true
}

// SetCurveVisible shows or hides curve i.
func (l *Layer) SetCurveVisible(i int, on bool) bool {
	c, ok := l.curves.Curve(i)
	if !ok {
		return false
	}
	c.Common().Visible = on
	l.curves.Refresh(i)
	return true
}

// SetCurveAxes moves curve i onto another axis pair.
func (l *Layer) SetCurveAxes(i int, x, y render.AxisPos) bool {
	c, ok := l.curves.Curve(i)
	if !ok || !x.IsX() || y.IsX() {
		return false
	}
	b := c.Common()
	b.XAxis, b.YAxis = x, y
	l.curves.Refresh(i)
	return true
}

// isPieLayer reports whether the layer hosts a pie.
func (l *Layer) isPieLayer() bool {
	for _, k := range l.curves.Kinds() {
		if k == curves.Pie {
			return true
		}
	}
	return false
}

func (l *Layer) eligibleForLegend(k curves.Kind) bool {
	if k == curves.ErrorBars {
		return false
	}
	if k.IsSpectrogram() && !l.isPieLayer() {
		return false
	}
	return true
}

// LegendEntries derives the legend from the current curves.
func (l *Layer) LegendEntries() markers.Legend {
	var lg markers.Legend
	for i := 0; i < l.curves.Len(); i++ {
		c, _ := l.curves.Curve(i)
		if l.eligibleForLegend(c.Kind()) {
			lg.Entries = append(lg.Entries, markers.LegendEntry{Index: i + 1, Label: c.Common().Title})
		}
	}
	return lg
}

// NewLegend creates the legend marker, replacing an existing one, near the
// top left corner of the canvas.
func (l *Layer) NewLegend() render.Handle {
	if old := l.markers.LegendID(); !old.IsZero() {
		l.markers.Remove(old)
	}
	c := l.surface.Canvas()
	origin := render.Point{
		X: l.surface.FromPixel(render.Bottom, c.X0+10),
		Y: l.surface.FromPixel(render.Left, c.Y0+10),
	}
	spec := markers.DefaultTextSpec("", origin)
	h := l.markers.InsertText(spec)
	l.markers.SetLegend(h)
	l.markers.SetLegendEntries(l.LegendEntries())
	return h
}

// RegenerateLegend rewrites the legend from the current curves.
func (l *Layer) RegenerateLegend() {
	if l.markers.LegendID().IsZero() {
		return
	}
	l.markers.SetLegendEntries(l.LegendEntries())
}

func formatCell(v float64) string { return strconv.FormatFloat(v, 'g', 15, 64) }

// RebindCurve re-reads the data of curve i from src using its binding.
// Function curves are resampled and src may be nil for them. Spectrograms
// need RebindMatrix.
func (l *Layer) RebindCurve(i int, src datasource.Source) error {
	c, ok := l.curves.Curve(i)
	if !ok {
		return types.Errorf(types.ErrRange, "rebindCurve", "curve index %d", i)
	}
	b := c.Common().Binding
	rows := Rows{Start: b.StartRow, End: b.EndRow}
	switch v := c.(type) {
	case *curves.XYCurve:
		pts, idx, changes, readers, err := l.readColumns("rebindCurve", src, b.XColumn, b.YColumn, rows)
		if err != nil {
			return err
		}
		l.commitReaders(src, []int{src.ColumnIndex(b.XColumn), src.ColumnIndex(b.YColumn)}, readers)
		l.applyAxisChanges(changes)
		v.Points, v.Rows = pts, idx
	case *curves.VectorCurve:
		pts, idx, _, _, err := l.readColumns("rebindCurve", src, b.XColumn, b.YColumn, rows)
		if err != nil {
			return err
		}
		c3, c4 := src.ColumnIndex(v.EndXColumn), src.ColumnIndex(v.EndYColumn)
		if c3 < 0 || c4 < 0 {
			return types.Errorf(types.ErrData, "rebindCurve", "columns %q/%q not found in %s", v.EndXColumn, v.EndYColumn, src.Name())
		}
		v.Points, v.Second = v.Points[:0], v.Second[:0]
		for k, row := range idx {
			a, err1 := strconv.ParseFloat(strings.TrimSpace(src.Cell(row, c3)), 64)
			e, err2 := strconv.ParseFloat(strings.TrimSpace(src.Cell(row, c4)), 64)
			if err1 == nil && err2 == nil {
				v.Points = append(v.Points, pts[k])
				v.Second = append(v.Second, render.Point{X: a, Y: e})
			}
		}
	case *curves.PieCurve:
		vals, err := l.readValues("rebindCurve", src, b.YColumn, rows)
		if err != nil {
			return err
		}
		v.Values = vals
	case *curves.HistogramCurve:
		vals, err := l.readValues("rebindCurve", src, b.YColumn, rows)
		if err != nil {
			return err
		}
		v.Values = vals
	case *curves.BoxCurve:
		vals, err := l.readValues("rebindCurve", src, b.YColumn, rows)
		if err != nil {
			return err
		}
		v.Values = vals
	case *curves.ErrorBarsCurve:
		mi := l.curves.IndexOf(v.Master)
		mc, ok := l.curves.Curve(mi)
		if !ok || src == nil {
			return types.New(types.ErrData, "rebindCurve", "error bars without master or source")
		}
		ci := src.ColumnIndex(b.YColumn)
		if ci < 0 {
			return types.Errorf(types.ErrData, "rebindCurve", "column %q not found in %s", b.YColumn, src.Name())
		}
		xy, ok := mc.(*curves.XYCurve)
		if !ok {
			return types.New(types.ErrData, "rebindCurve", "master has no source rows")
		}
		v.Errors = make([]float64, len(xy.Rows))
		for k, row := range xy.Rows {
			if e, err := strconv.ParseFloat(strings.TrimSpace(src.Cell(row, ci)), 64); err == nil {
				v.Errors[k] = e
			}
		}
	case *curves.FunctionCurve:
		if err := v.Sample(); err != nil {
			return types.Wrap(types.ErrData, "rebindCurve", err)
		}
	default:
		return types.Errorf(types.ErrData, "rebindCurve", "%s curves bind to a matrix", c.Kind())
	}
	l.curves.Refresh(i)
	return nil
}

// RebindMatrix reloads the grid of spectrogram i from m.
func (l *Layer) RebindMatrix(i int, m datasource.Matrix) error {
	c, ok := l.curves.Curve(i)
	if !ok {
		return types.Errorf(types.ErrRange, "rebindMatrix", "curve index %d", i)
	}
	sc, ok := c.(*curves.SpectrogramCurve)
	if !ok {
		return types.Errorf(types.ErrData, "rebindMatrix", "%s curves bind to columns", c.Kind())
	}
	if m == nil || m.Rows() == 0 || m.Cols() == 0 {
		return types.New(types.ErrData, "rebindMatrix", "empty matrix")
	}
	sc.Matrix, sc.Grid, sc.Bounds = m.Name(), datasource.Values(m), m.Bounds()
	l.curves.Refresh(i)
	return nil
}
