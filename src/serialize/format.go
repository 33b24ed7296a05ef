// Package serialize converts a plot layer to and from its versioned,
// tab-separated text form.
package serialize

import (
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/scale"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// Format versions. Each version changes the grammar of some tags.
const (
	// Version84 stores colors without alpha, curves without row ranges and
	// ticks in the legacy None/In/Out/Both order.
	Version84 = 84
	// Version90 adds alpha channels, curve row ranges and fill alpha.
	Version90 = 90
	// Version96 adds label rotation and axis baselines.
	Version96 = 96

	CurrentVersion = Version96
)

// Supported reports whether v is a readable format version.
func Supported(v int) bool { return v == Version84 || v == Version90 || v == Version96 }

// Tags whose absence makes a layer unreadable.
var requiredTags = []string{"ggeometry", "PlotTitle", "grid", "EnabledAxes", "AxisType", "scale"}

// perAxisTags must appear once for each axis position.
var perAxisTags = map[string]bool{"AxisType": true, "scale": true}

// legacyTicks maps TickStyle to its position in the old enumeration.
var legacyTicks = [...]int{scale.TicksNone: 0, scale.TicksIn: 1, scale.TicksOut: 2, scale.TicksBoth: 3}

func tickToFile(s scale.TickStyle, version int) int {
	if version < Version90 && int(s) < len(legacyTicks) {
		return legacyTicks[s]
	}
	return int(s)
}

func tickFromFile(n, version int) scale.TickStyle {
	if version < Version90 {
		for s, v := range legacyTicks {
			if v == n {
				return scale.TickStyle(s)
			}
		}
		return scale.TicksNone
	}
	return scale.TickStyle(n)
}

// writer accumulates tagged lines.
type writer struct {
	b       strings.Builder
	version int
}

func (w *writer) line(tag string, fields ...interface{}) {
	w.b.WriteString(tag)
	for _, f := range fields {
		w.b.WriteByte('\t')
		w.b.WriteString(w.field(f))
	}
	w.b.WriteByte('\n')
}

func (w *writer) raw(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) field(f interface{}) string {
	switch v := f.(type) {
	case string:
		return clean(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case drawing.Color:
		if w.version < Version90 {
			if v.A == 0 {
				return noColor
			}
			return render.ColorHex(v)[:7]
		}
		return render.ColorHex(v)
	case render.Font:
		return v.String()
	case render.AxisPos:
		return strconv.Itoa(int(v))
	case render.Point:
		return strconv.FormatFloat(v.X, 'g', -1, 64) + "," + strconv.FormatFloat(v.Y, 'g', -1, 64)
	}
	return ""
}

// noColor stands for a fully transparent color in versions without alpha.
const noColor = "none"

// clean keeps free text on one field.
func clean(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
}

// record is one parsed line. Conversion failures are remembered and
// reported once by err.
type record struct {
	tag     string
	f       []string
	lineNo  int
	version int
	bad     error
}

func (r *record) fail(format string, args ...interface{}) {
	if r.bad == nil {
		args = append([]interface{}{r.lineNo, r.tag}, args...)
		r.bad = types.Errorf(types.ErrIO, "load", "line %d (%s): "+format, args...)
	}
}

// need checks the field count.
func (r *record) need(n int) bool {
	if len(r.f) < n {
		r.fail("expected %d fields, got %d", n, len(r.f))
		return false
	}
	return true
}

func (r *record) str(i int) string {
	if i >= len(r.f) {
		r.fail("missing field %d", i+1)
		return ""
	}
	return r.f[i]
}

func (r *record) num(i int) float64 {
	v, err := strconv.ParseFloat(r.str(i), 64)
	if err != nil {
		r.fail("field %d: %v", i+1, err)
	}
	return v
}

func (r *record) int(i int) int {
	v, err := strconv.Atoi(r.str(i))
	if err != nil {
		r.fail("field %d: %v", i+1, err)
	}
	return v
}

func (r *record) bool(i int) bool { return r.int(i) != 0 }

func (r *record) color(i int) drawing.Color {
	s := r.str(i)
	if strings.TrimSpace(s) == noColor {
		return render.ColorNone
	}
	if r.version < Version90 && len(strings.TrimSpace(s)) != 7 {
		r.fail("field %d: color %q must be #rrggbb", i+1, s)
		return drawing.Color{}
	}
	c, err := render.ParseColor(s)
	if err != nil {
		r.fail("field %d: %v", i+1, err)
	}
	return c
}

func (r *record) font(i int) render.Font {
	f, err := render.ParseFont(r.str(i))
	if err != nil {
		r.fail("field %d: %v", i+1, err)
	}
	return f
}

func (r *record) axis(i int) render.AxisPos {
	a := render.AxisPos(r.int(i))
	if r.bad == nil && !a.Valid() {
		r.fail("field %d: axis %d out of range", i+1, int(a))
	}
	return a
}

func (r *record) point(i int) render.Point {
	s := r.str(i)
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		r.fail("field %d: point %q", i+1, s)
		return render.Point{}
	}
	px, err1 := strconv.ParseFloat(x, 64)
	py, err2 := strconv.ParseFloat(y, 64)
	if err1 != nil || err2 != nil {
		r.fail("field %d: point %q", i+1, s)
	}
	return render.Point{X: px, Y: py}
}

// floats parses every field from i on.
func (r *record) floats(i int) []float64 {
	out := make([]float64, 0, len(r.f)-i)
	for k := i; k < len(r.f); k++ {
		out = append(out, r.num(k))
	}
	return out
}

// points parses every field from i on.
func (r *record) points(i int) []render.Point {
	out := make([]render.Point, 0, len(r.f)-i)
	for k := i; k < len(r.f); k++ {
		out = append(out, r.point(k))
	}
	return out
}

// rest returns fields from i on, nil when there are none.
func (r *record) rest(i int) []string {
	if i >= len(r.f) {
		return nil
	}
	return append([]string(nil), r.f[i:]...)
}
