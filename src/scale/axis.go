// Package scale owns the four axes of a layer: their display types, label
// formats, tick styles and the scale division math.
package scale

import (
	"fmt"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/formula"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// Position is one of the four axis positions.
type Position = render.AxisPos

const (
	Bottom = render.Bottom
	Top    = render.Top
	Left   = render.Left
	Right  = render.Right
)

// Transform is the scale transform.
type Transform = render.Transform

const (
	Linear = render.Linear
	Log10  = render.Log10
)

// Primary returns the primary axis of a secondary one (Top→Bottom,
// Right→Left); primaries map to themselves.
func Primary(p Position) Position {
	switch p {
	case Top:
		return Bottom
	case Right:
		return Left
	}
	return p
}

// Secondary returns the secondary axis of a primary one.
func Secondary(p Position) Position {
	switch p {
	case Bottom:
		return Top
	case Left:
		return Right
	}
	return p
}

// AxisType selects how tick values are labelled.
type AxisType int

const (
	Numeric AxisType = iota
	Log
	Date
	Time
	Text
	ColumnHeader
	WeekDay
	Month
)

var axisTypeNames = []string{"Numeric", "Log", "Date", "Time", "Text", "ColumnHeader", "WeekDay", "Month"}

func (t AxisType) String() string {
	if t < 0 || int(t) >= len(axisTypeNames) {
		return fmt.Sprintf("AxisType(%d)", int(t))
	}
	return axisTypeNames[t]
}

// Categorical reports whether tick values are integer codes for labels.
func (t AxisType) Categorical() bool { return t == Text || t == ColumnHeader }

// TickStyle is the direction ticks are drawn in.
type TickStyle int

const (
	TicksNone TickStyle = iota
	TicksOut
	TicksBoth
	TicksIn
)

func (s TickStyle) String() string {
	switch s {
	case TicksNone:
		return "None"
	case TicksOut:
		return "Out"
	case TicksBoth:
		return "Both"
	case TicksIn:
		return "In"
	}
	return fmt.Sprintf("TickStyle(%d)", int(s))
}

// NumericFormat selects numeric label rendering.
type NumericFormat int

const (
	Automatic NumericFormat = iota
	Decimal
	Scientific
	Superscripts
)

// Title is the axis title.
type Title struct {
	Text      string
	Font      render.Font
	Color     drawing.Color
	Alignment int
}

// Axis is the display configuration of one axis.
type Axis struct {
	Type          AxisType
	FormatInfo    string
	Enabled       bool
	MajorTicks    TickStyle
	MinorTicks    TickStyle
	LabelRotation float64
	Title         Title
	NumberColor   drawing.Color
	Color         drawing.Color
	Font          render.Font
	Baseline      int
	NumberFormat  NumericFormat
	Precision     int
	Formula       string
	LabelsEnabled bool
	TextLabels    []string // Text/ColumnHeader: label for code i+1
}

// Scale is the numeric range configuration of one axis.
type Scale struct {
	Lo, Hi     float64
	Step       float64 // 0 = automatic
	MajorTicks int
	MinorTicks int
	Transform  Transform
	Inverted   bool
}

// DefaultScale is the scale of a fresh axis.
func DefaultScale() Scale {
	return Scale{Lo: 0, Hi: 10, MajorTicks: 5, MinorTicks: 5}
}

// Engine holds the four axes of a layer and keeps the render surface's axis
// state in sync with them.
type Engine struct {
	surface *render.Surface
	axes    [render.AxisCount]Axis
	scales  [render.AxisCount]Scale
	formula [render.AxisCount]*formula.Expr

	// HasCurves reports whether any curve is attached to the axis. Secondary
	// axes with attached curves keep their own scale instead of mirroring.
	HasCurves func(Position) bool
}

// NewEngine creates the axis model for surface with default axes: bottom
// and left enabled, numeric, linear [0,10].
func NewEngine(surface *render.Surface) *Engine {
	e := &Engine{surface: surface}
	for i := range e.axes {
		p := Position(i)
		e.axes[i] = Axis{
			Enabled:       p == Bottom || p == Left,
			MajorTicks:    TicksOut,
			MinorTicks:    TicksOut,
			Title:         Title{Text: defaultTitle(p), Font: render.DefaultFont, Color: render.ColorBlack, Alignment: 1},
			NumberColor:   render.ColorBlack,
			Color:         render.ColorBlack,
			Font:          render.DefaultFont,
			Precision:     4,
			LabelsEnabled: true,
		}
		e.scales[i] = DefaultScale()
	}
	for i := range e.axes {
		e.apply(Position(i))
	}
	return e
}

func defaultTitle(p Position) string {
	switch p {
	case Bottom:
		return "X Axis Title"
	case Left:
		return "Y Axis Title"
	}
	return ""
}

func valid(p Position) error {
	if !p.Valid() {
		return types.Errorf(types.ErrRange, "axis", "position %d", int(p))
	}
	return nil
}

// Axis returns a copy of the configuration of axis p.
func (e *Engine) Axis(p Position) Axis {
	if valid(p) != nil {
		return Axis{}
	}
	a := e.axes[p]
	a.TextLabels = append([]string(nil), a.TextLabels...)
	return a
}

// Scale returns the scale configuration of axis p.
func (e *Engine) Scale(p Position) Scale {
	if valid(p) != nil {
		return Scale{}
	}
	return e.scales[p]
}

// Division returns the current division of axis p.
func (e *Engine) Division(p Position) render.Division {
	if valid(p) != nil {
		return render.Division{}
	}
	return e.surface.ScaleDivision(p)
}

// apply pushes axis p's configuration to the surface.
func (e *Engine) apply(p Position) {
	a := e.axes[p]
	st := e.surface.Axis(p)
	st.Enabled = a.Enabled
	st.Title = a.Title.Text
	st.TitleFont = a.Title.Font
	st.TitleColor = a.Title.Color
	st.Color = a.Color
	st.NumberColor = a.NumberColor
	st.Font = a.Font
	st.LabelsEnabled = a.LabelsEnabled
	st.LabelRotation = a.LabelRotation
	st.LabelAlign = a.Title.Alignment
	st.Border = a.Baseline
	st.MajorTickLen = tickLength(a.MajorTicks, 8)
	st.MinorTickLen = tickLength(a.MinorTicks, 5)
	st.Format = func(v float64) string { return e.TickLabel(p, v) }
	e.surface.SetAxis(p, st)
	if a.Enabled {
		s := e.scales[p]
		step := s.Step
		if step <= 0 {
			step = e.autoStep(p)
		}
		e.surface.SetScaleDivision(p, s.Transform, Divide(s.Lo, s.Hi, s.MajorTicks, s.MinorTicks, step, s.Transform, s.Inverted))
	}
}

func tickLength(s TickStyle, n int) int {
	if s == TicksNone {
		return 0
	}
	return n
}

// SetAxisType changes the display type of axis p. Date and Time need
// formatInfo "origin;layout" with both fields non-empty; otherwise the call
// fails with a FormatError and the axis is left unmodified.
func (e *Engine) SetAxisType(p Position, t AxisType, formatInfo string) error {
	if err := valid(p); err != nil {
		return err
	}
	switch t {
	case Date, Time:
		if _, _, err := ParseDateTimeInfo(formatInfo); err != nil {
			return err
		}
	case WeekDay, Month:
		if formatInfo == "" {
			formatInfo = "0"
		}
		if formatInfo != "0" && formatInfo != "1" && formatInfo != "2" {
			return types.Errorf(types.ErrFormat, "setAxisType", "%s format must be 0, 1 or 2, got %q", t, formatInfo)
		}
	case Numeric, Log, Text, ColumnHeader:
	default:
		return types.Errorf(types.ErrFormat, "setAxisType", "unknown axis type %d", int(t))
	}
	e.axes[p].Type = t
	e.axes[p].FormatInfo = formatInfo
	if t == Log && e.scales[p].Transform != Log10 {
		e.scales[p].Transform = Log10
	}
	logger.Debugf("axis %s type=%s info=%q", p, t, formatInfo)
	e.apply(p)
	e.mirrorFrom(p)
	return nil
}

// SetTextLabels installs the code→label table of a Text/ColumnHeader axis.
func (e *Engine) SetTextLabels(p Position, labels []string) {
	if valid(p) != nil {
		return
	}
	e.axes[p].TextLabels = append([]string(nil), labels...)
	e.surface.MarkDirty()
}

// ParseDateTimeInfo splits "origin;layout" and parses the origin with the
// layout (or RFC 3339).
func ParseDateTimeInfo(info string) (time.Time, string, error) {
	fields := strings.Split(info, ";")
	if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" || strings.TrimSpace(fields[1]) == "" {
		return time.Time{}, "", types.Errorf(types.ErrFormat, "setAxisType", "date/time format must be \"origin;format\", got %q", info)
	}
	layout := fields[1]
	origin, err := time.Parse(layout, fields[0])
	if err != nil {
		if origin, err = time.Parse(time.RFC3339, fields[0]); err != nil {
			return time.Time{}, "", types.Errorf(types.ErrFormat, "setAxisType", "origin %q matches neither %q nor RFC 3339", fields[0], layout)
		}
	}
	return origin, layout, nil
}

// SetLabelFormat sets the numeric label format. Precision is clamped to
// [0,15]. A non-empty formula must compile with variable x, otherwise the
// call fails with a FormatError and the axis is unchanged.
func (e *Engine) SetLabelFormat(p Position, f NumericFormat, precision int, formulaSrc string) error {
	if err := valid(p); err != nil {
		return err
	}
	if f < Automatic || f > Superscripts {
		return types.Errorf(types.ErrFormat, "setLabelFormat", "unknown numeric format %d", int(f))
	}
	var fx *formula.Expr
	if strings.TrimSpace(formulaSrc) != "" {
		var err error
		if fx, err = formula.Compile(formulaSrc, "x"); err != nil {
			return types.Wrap(types.ErrFormat, "setLabelFormat", err)
		}
	}
	if precision < 0 {
		precision = 0
	}
	if precision > 15 {
		precision = 15
	}
	e.axes[p].NumberFormat = f
	e.axes[p].Precision = precision
	e.axes[p].Formula = formulaSrc
	e.formula[p] = fx
	e.surface.MarkDirty()
	return nil
}

// SetScale sets the range and tick configuration of axis p, recomputes its
// division and re-mirrors the dependent secondary axis.
func (e *Engine) SetScale(p Position, lo, hi, step float64, majorTicks, minorTicks int, tr Transform, inverted bool) {
	if valid(p) != nil {
		return
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	e.scales[p] = Scale{Lo: lo, Hi: hi, Step: step, MajorTicks: majorTicks, MinorTicks: minorTicks, Transform: tr, Inverted: inverted}
	if tr == Linear && e.axes[p].Type == Log {
		e.axes[p].Type = Numeric
	}
	e.apply(p)
	e.mirrorFrom(p)
}

// autoStep picks a calendar-friendly step for Date (days) and Time (seconds) axes.
func (e *Engine) autoStep(p Position) float64 {
	s := e.scales[p]
	switch e.axes[p].Type {
	case Time:
		return pickTimeStep(time.Duration((s.Hi - s.Lo) * float64(time.Second))).Seconds()
	case Date:
		if d := pickTimeStep(time.Duration((s.Hi-s.Lo)*24*float64(time.Hour))).Hours() / 24; d >= 1 {
			return d
		}
	case Text, ColumnHeader, WeekDay, Month:
		if s.Hi-s.Lo <= float64(maxLabelTicks) {
			return 1
		}
	}
	return 0
}

// maxLabelTicks is the largest categorical range labelled at every code.
const maxLabelTicks = 20

// EnableAxis shows or hides axis p. Enabling a secondary axis mirrors it
// from its primary.
func (e *Engine) EnableAxis(p Position, on bool) {
	if valid(p) != nil {
		return
	}
	e.axes[p].Enabled = on
	e.apply(p)
	if on && (p == Top || p == Right) {
		e.MirrorSecondaryAxis(p)
	}
}

// SetTicksStyle sets major and minor tick direction.
func (e *Engine) SetTicksStyle(p Position, major, minor TickStyle) {
	if valid(p) != nil {
		return
	}
	e.axes[p].MajorTicks = major
	e.axes[p].MinorTicks = minor
	e.apply(p)
}

// SetLabelRotation sets the tick label angle, clamped to [-90, 90].
func (e *Engine) SetLabelRotation(p Position, degrees float64) {
	if valid(p) != nil {
		return
	}
	if degrees < -90 {
		degrees = -90
	}
	if degrees > 90 {
		degrees = 90
	}
	e.axes[p].LabelRotation = degrees
	e.apply(p)
}

// SetAxisTitle sets the title text of axis p.
func (e *Engine) SetAxisTitle(p Position, text string) {
	if valid(p) != nil {
		return
	}
	e.axes[p].Title.Text = text
	e.apply(p)
}

// SetTitle replaces the whole title of axis p.
func (e *Engine) SetTitle(p Position, t Title) {
	if valid(p) != nil {
		return
	}
	e.axes[p].Title = t
	e.apply(p)
}

// SetTitleAlignment sets the title alignment of axis p.
func (e *Engine) SetTitleAlignment(p Position, align int) {
	if valid(p) != nil {
		return
	}
	e.axes[p].Title.Alignment = align
	e.apply(p)
}

// SetAxisColors sets the backbone and number colors of axis p.
func (e *Engine) SetAxisColors(p Position, axis, numbers drawing.Color) {
	if valid(p) != nil {
		return
	}
	e.axes[p].Color = axis
	e.axes[p].NumberColor = numbers
	e.apply(p)
}

// SetAxisFont sets the tick label font of axis p.
func (e *Engine) SetAxisFont(p Position, f render.Font) {
	if valid(p) != nil {
		return
	}
	e.axes[p].Font = f
	e.apply(p)
}

// SetBaseline sets the border distance of axis p.
func (e *Engine) SetBaseline(p Position, px int) {
	if valid(p) != nil {
		return
	}
	e.axes[p].Baseline = px
	e.apply(p)
	e.mirrorFrom(p)
}

// SetLabelsEnabled shows or hides tick labels of axis p.
func (e *Engine) SetLabelsEnabled(p Position, on bool) {
	if valid(p) != nil {
		return
	}
	e.axes[p].LabelsEnabled = on
	e.apply(p)
}

// mirrorFrom re-applies mirroring after a change on primary axis p.
func (e *Engine) mirrorFrom(p Position) {
	if p == Bottom || p == Left {
		e.MirrorSecondaryAxis(Secondary(p))
	}
}

// MirrorSecondaryAxis copies transform, division, inversion and border
// distance from the primary axis onto secondary axis p when both are
// enabled. Secondary axes carrying their own curves are left alone.
func (e *Engine) MirrorSecondaryAxis(p Position) {
	sec := Secondary(p)
	prim := Primary(sec)
	if sec == prim || !e.axes[sec].Enabled || !e.axes[prim].Enabled {
		return
	}
	if e.HasCurves != nil && e.HasCurves(sec) {
		return
	}
	e.scales[sec] = e.scales[prim]
	e.axes[sec].Baseline = e.axes[prim].Baseline
	st := e.surface.Axis(sec)
	st.Border = e.axes[prim].Baseline
	e.surface.SetAxis(sec, st)
	e.surface.SetScaleDivision(sec, e.scales[prim].Transform, e.surface.ScaleDivision(prim))
}

// CopyFrom duplicates every axis and scale of other into e.
func (e *Engine) CopyFrom(other *Engine) {
	for i := range e.axes {
		e.axes[i] = other.Axis(Position(i))
		e.scales[i] = other.scales[i]
		e.formula[i] = other.formula[i]
	}
	for i := range e.axes {
		e.apply(Position(i))
	}
	e.MirrorSecondaryAxis(Top)
	e.MirrorSecondaryAxis(Right)
}

// Restore installs a complete axis configuration without validation side
// effects. Used by the loader after it has validated every field.
func (e *Engine) Restore(p Position, a Axis, s Scale) error {
	if err := valid(p); err != nil {
		return err
	}
	var fx *formula.Expr
	if strings.TrimSpace(a.Formula) != "" {
		var err error
		if fx, err = formula.Compile(a.Formula, "x"); err != nil {
			return types.Wrap(types.ErrFormat, "restoreAxis", err)
		}
	}
	e.axes[p] = a
	e.scales[p] = s
	e.formula[p] = fx
	e.apply(p)
	return nil
}
