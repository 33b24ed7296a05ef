package layer

import (
	"math"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/markers"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// Tool is the active interactive input mode.
type Tool int

const (
	ToolIdle Tool = iota
	ToolZoom
	ToolDrawText
	ToolDrawLine
	ToolRangeSelect
	ToolPointMove
	ToolPointRemove
	ToolScreenRead
)

var toolNames = [...]string{"idle", "zoom", "text", "line", "range", "move", "remove", "read"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool maps a tool name back to its value.
func ParseTool(s string) (Tool, error) {
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return ToolIdle, types.Errorf(types.ErrFormat, "parseTool", "unknown tool %q", s)
}

// Cursor is the pointer shape a viewer should show.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorCross
	CursorText
	CursorPointing
)

// ToolOptions parameterize SetTool.
type ToolOptions struct {
	Arrow bool   // DrawLine ends in an arrow head
	Curve int    // RangeSelect target curve index
	Text  string // DrawText content, "" gives "text"
}

// CellUpdate asks the owner of a data source to change one cell. An empty
// Text means the cell should be cleared.
type CellUpdate struct {
	Source string
	Column string
	Row    int
	Text   string
}

// RangeSelection is the data range picked by the range selector.
type RangeSelection struct {
	Curve    int
	From, To int // point indices, From <= To
}

type selector struct {
	target render.Handle
	lo, hi int
	active int // 0 moves lo, 1 moves hi
	lines  [2]render.Handle
}

// pick is a point grabbed by the point tools.
type pick struct {
	curve render.Handle
	point int
}

type toolState struct {
	kind    Tool
	opts    ToolOptions
	cursor  Cursor
	pressed bool
	start   render.Point // pixels
	current render.Point
	picked  *pick
	sel     *selector
}

// Tool returns the active tool.
func (l *Layer) Tool() Tool { return l.tool.kind }

// Cursor returns the cursor for the active tool.
func (l *Layer) Cursor() Cursor { return l.tool.cursor }

// Range returns the current range selection.
func (l *Layer) Range() (RangeSelection, bool) {
	s := l.tool.sel
	if s == nil {
		return RangeSelection{}, false
	}
	i := l.curves.IndexOf(s.target)
	if i < 0 {
		return RangeSelection{}, false
	}
	lo, hi := s.lo, s.hi
	if lo > hi {
		lo, hi = hi, lo
	}
	return RangeSelection{Curve: i, From: lo, To: hi}, true
}

// SetTool leaves the active tool, discarding any pending shape, and enters
// t. RangeSelect needs a curve with points.
func (l *Layer) SetTool(t Tool, opts ToolOptions) error {
	if l.closed {
		return types.New(types.ErrData, "setTool", "layer closed")
	}
	if t < ToolIdle || t > ToolScreenRead {
		return types.Errorf(types.ErrRange, "setTool", "tool %d", int(t))
	}
	var sel *selector
	if t == ToolRangeSelect {
		var err error
		if sel, err = l.newSelector(opts.Curve); err != nil {
			return err
		}
	}
	l.exitTool()
	l.tool = toolState{kind: t, opts: opts, cursor: cursorFor(t), sel: sel}
	if sel != nil {
		l.drawSelector()
	}
	logger.Debugf("tool %s", t)
	return nil
}

// SetRangeTarget points the range selector at another curve. The old
// selector is destroyed and a fresh one spans the whole new curve.
func (l *Layer) SetRangeTarget(curve int) error {
	if l.tool.kind != ToolRangeSelect {
		return types.New(types.ErrData, "setRangeTarget", "range selector inactive")
	}
	sel, err := l.newSelector(curve)
	if err != nil {
		return err
	}
	l.removeSelector()
	l.tool.sel = sel
	l.tool.opts.Curve = curve
	l.drawSelector()
	return nil
}

func cursorFor(t Tool) Cursor {
	switch t {
	case ToolZoom, ToolDrawLine, ToolScreenRead:
		return CursorCross
	case ToolDrawText:
		return CursorText
	case ToolRangeSelect, ToolPointMove, ToolPointRemove:
		return CursorPointing
	}
	return CursorArrow
}

// exitTool detaches picker and selector and restores the arrow cursor.
func (l *Layer) exitTool() {
	if l.tool.kind == ToolIdle {
		return
	}
	l.removeSelector()
	logger.Debugf("tool %s exited", l.tool.kind)
	l.tool = toolState{}
	l.surface.MarkDirty()
}

func (l *Layer) newSelector(curve int) (*selector, error) {
	c, ok := l.curves.Curve(curve)
	if !ok {
		return nil, types.Errorf(types.ErrRange, "rangeSelect", "curve index %d", curve)
	}
	n := len(curves.Points(c))
	if n == 0 || c.Kind() == curves.ErrorBars {
		return nil, types.Errorf(types.ErrData, "rangeSelect", "%s curve has no selectable points", c.Kind())
	}
	h, _ := l.curves.Handle(curve)
	return &selector{target: h, lo: 0, hi: n - 1, active: 0}, nil
}

func (l *Layer) removeSelector() {
	s := l.tool.sel
	if s == nil {
		return
	}
	for _, h := range s.lines {
		if !h.IsZero() {
			l.surface.RemoveMarker(h)
		}
	}
	l.tool.sel = nil
}

// drawSelector places a vertical marker line at each end of the range.
func (l *Layer) drawSelector() {
	s := l.tool.sel
	if s == nil {
		return
	}
	i := l.curves.IndexOf(s.target)
	c, ok := l.curves.Curve(i)
	if !ok {
		return
	}
	pts := curves.Points(c)
	b := c.Common()
	ylo, yhi := l.surface.FromPixel(b.YAxis, l.surface.Canvas().Y1), l.surface.FromPixel(b.YAxis, l.surface.Canvas().Y0)
	for k, idx := range []int{s.lo, s.hi} {
		if idx < 0 || idx >= len(pts) {
			continue
		}
		x := pts[idx].X
		if s.lines[k].IsZero() {
			s.lines[k] = l.surface.InsertMarker(&render.MarkerItem{
				Kind:      render.MarkerLine,
				XAxis:     b.XAxis,
				YAxis:     b.YAxis,
				LineColor: render.ColorBlack,
				LineWidth: 1,
				LineStyle: render.DashLine,
			})
		}
		if it, ok := l.surface.Marker(s.lines[k]); ok {
			it.Origin = render.Point{X: x, Y: ylo}
			it.End = render.Point{X: x, Y: yhi}
			it.XAxis, it.YAxis = b.XAxis, b.YAxis
		}
	}
	l.surface.MarkDirty()
}

// dataPoint converts pixels to bottom/left data coordinates.
func (l *Layer) dataPoint(x, y float64) render.Point {
	return render.Point{X: l.surface.FromPixel(render.Bottom, x), Y: l.surface.FromPixel(render.Left, y)}
}

// Press starts a gesture at pixel (x, y).
func (l *Layer) Press(x, y float64) {
	t := &l.tool
	if t.kind == ToolIdle {
		return
	}
	t.pressed = true
	t.start = render.Point{X: x, Y: y}
	t.current = t.start
	switch t.kind {
	case ToolRangeSelect:
		l.moveSelectorEnd(x, y, true)
	case ToolPointMove, ToolPointRemove:
		t.picked = l.pickPoint(x, y)
	case ToolScreenRead:
		l.screenRead(x, y)
	}
}

// Move continues a gesture.
func (l *Layer) Move(x, y float64) {
	t := &l.tool
	if t.kind == ToolIdle || !t.pressed {
		return
	}
	t.current = render.Point{X: x, Y: y}
	switch t.kind {
	case ToolRangeSelect:
		l.moveSelectorEnd(x, y, false)
	case ToolScreenRead:
		l.screenRead(x, y)
	}
}

// Release ends a gesture and commits its result.
func (l *Layer) Release(x, y float64) {
	t := &l.tool
	if t.kind == ToolIdle || !t.pressed {
		return
	}
	t.pressed = false
	t.current = render.Point{X: x, Y: y}
	start := t.start
	switch t.kind {
	case ToolZoom:
		if math.Abs(x-start.X) > 2 && math.Abs(y-start.Y) > 2 {
			l.ZoomTo(start.X, start.Y, x, y)
		}
	case ToolDrawText:
		text := t.opts.Text
		if text == "" {
			text = "text"
		}
		l.markers.InsertText(markers.DefaultTextSpec(text, l.dataPoint(x, y)))
	case ToolDrawLine:
		if start == t.current {
			break
		}
		l.markers.InsertLine(markers.DefaultLineSpec(l.dataPoint(start.X, start.Y), l.dataPoint(x, y), t.opts.Arrow))
	case ToolPointMove:
		l.commitMove(x, y)
	case ToolPointRemove:
		l.commitRemove()
	}
	t.picked = nil
}

func (l *Layer) screenRead(x, y float64) {
	if l.OnScreenRead == nil {
		return
	}
	p := l.dataPoint(x, y)
	l.OnScreenRead(p.X, p.Y)
}

// pickPoint returns the closest curve point within the pick tolerance.
func (l *Layer) pickPoint(x, y float64) *pick {
	h, d, i, ok := l.surface.ClosestCurve(x, y)
	if !ok || d > l.cfg.PickTolerance {
		return nil
	}
	return &pick{curve: h, point: i}
}

// moveSelectorEnd moves the nearer (on press) or the grabbed (on drag)
// range end to the target point closest in x.
func (l *Layer) moveSelectorEnd(x, _ float64, press bool) {
	s := l.tool.sel
	if s == nil {
		return
	}
	c, ok := l.curves.Curve(l.curves.IndexOf(s.target))
	if !ok {
		return
	}
	pts := curves.Points(c)
	xa := c.Common().XAxis
	best, bestD := -1, math.MaxFloat64
	for i, p := range pts {
		px, ok := l.surface.ToPixel(xa, p.X)
		if !ok {
			continue
		}
		if d := math.Abs(px - x); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return
	}
	if press {
		if abs(best-s.lo) <= abs(best-s.hi) {
			s.active = 0
		} else {
			s.active = 1
		}
	}
	if s.active == 0 {
		s.lo = best
	} else {
		s.hi = best
	}
	l.drawSelector()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// sourceCell locates the data cells behind a picked point.
func (l *Layer) sourceCell(p *pick) (*curves.XYCurve, int, bool) {
	if p == nil {
		return nil, 0, false
	}
	c, ok := l.curves.Curve(l.curves.IndexOf(p.curve))
	if !ok {
		return nil, 0, false
	}
	xy, ok := c.(*curves.XYCurve)
	if !ok || p.point >= len(xy.Rows) || xy.Binding.Source == "" {
		logger.Debugf("picked point of a %s curve has no source cell", c.Kind())
		return nil, 0, false
	}
	return xy, xy.Rows[p.point], true
}

func (l *Layer) emit(u CellUpdate) {
	if l.OnCellUpdate != nil {
		l.OnCellUpdate(u)
	}
}

// commitMove asks the source owner to move the picked point to pixel (x, y).
func (l *Layer) commitMove(x, y float64) {
	xy, row, ok := l.sourceCell(l.tool.picked)
	if !ok {
		return
	}
	b := xy.Binding
	xs, okx := l.cellText(xy.XAxis, b.Source, b.XColumn, l.surface.FromPixel(xy.XAxis, x))
	ys, oky := l.cellText(xy.YAxis, b.Source, b.YColumn, l.surface.FromPixel(xy.YAxis, y))
	if !okx || !oky {
		logger.Debugf("layer: point of %s/%s cannot move there", b.XColumn, b.YColumn)
		return
	}
	l.emit(CellUpdate{Source: b.Source, Column: b.XColumn, Row: row, Text: xs})
	l.emit(CellUpdate{Source: b.Source, Column: b.YColumn, Row: row, Text: ys})
}

// commitRemove asks the source owner to clear the Y cell of the picked point.
func (l *Layer) commitRemove() {
	xy, row, ok := l.sourceCell(l.tool.picked)
	if !ok {
		return
	}
	l.emit(CellUpdate{Source: xy.Binding.Source, Column: xy.Binding.YColumn, Row: row})
}
