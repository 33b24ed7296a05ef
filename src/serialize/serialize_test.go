package serialize

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

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

func table() *datasource.Table {
	return datasource.NewTable("data",
		datasource.Column{Name: "X", Cells: []string{"1", "2", "3", "4"}},
		datasource.Column{Name: "Y", Cells: []string{"10", "20", "", "40"}},
		datasource.Column{Name: "E", Cells: []string{"1", "2", "3", "4"}},
	)
}

// build creates a layer exercising every serialized feature the version
// can carry.
func build(t *testing.T, version int) *layer.Layer {
	t.Helper()
	cfg := layer.DefaultConfig()
	cfg.Title = "Growth"
	cfg.FrameWidth = 2
	if version >= Version90 {
		cfg.Canvas.A = 128
	}
	l := layer.New(cfg)
	src := table()
	m, err := l.InsertCurve(src, "X", "Y", curves.LineSymbols, layer.AllRows)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := l.InsertErrorBars(m, src, "E", true); err != nil {
		t.Fatalf("error bars: %v", err)
	}
	if _, err := l.InsertFunctionCurve("sin(x)", 0, 3, 20); err != nil {
		t.Fatalf("function: %v", err)
	}
	if _, err := l.InsertBox(src, "E", layer.AllRows, 5); err != nil {
		t.Fatalf("box: %v", err)
	}
	e := l.Scales()
	if err := e.SetAxisType(render.Left, scale.Log, ""); err != nil {
		t.Fatalf("axis type: %v", err)
	}
	e.SetScale(render.Left, 1, 1000, 0, 5, 3, scale.Log10, true)
	e.SetTicksStyle(render.Bottom, scale.TicksIn, scale.TicksBoth)
	if err := e.SetLabelFormat(render.Bottom, scale.Decimal, 2, "x*100"); err != nil {
		t.Fatalf("label format: %v", err)
	}
	e.SetAxisTitle(render.Bottom, "Time")
	e.EnableAxis(render.Top, true)
	if version >= Version96 {
		e.SetLabelRotation(render.Bottom, 45)
		e.SetBaseline(render.Left, 4)
	}
	g := l.Grid()
	g.XMajor, g.ZeroY = true, true
	l.SetGrid(g)
	l.Markers().InsertText(markers.DefaultTextSpec("note", render.Point{X: 2, Y: 15}))
	l.Markers().InsertLine(markers.DefaultLineSpec(render.Point{X: 1, Y: 2}, render.Point{X: 3, Y: 4}, true))
	return l
}

func TestRoundTripPerVersion(t *testing.T) {
	for _, v := range []int{Version84, Version90, Version96} {
		orig := build(t, v)
		text := Save(orig, Options{Version: v})
		got, err := Load(text, v, nil)
		if err != nil {
			t.Fatalf("v%d load: %v", v, err)
		}
		if again := Save(got, Options{Version: v}); again != text {
			t.Fatalf("v%d round trip differs:\n--- saved\n%s\n--- reloaded\n%s", v, text, again)
		}
		for p := render.AxisPos(0); p < render.AxisCount; p++ {
			if !reflect.DeepEqual(orig.Scales().Axis(p), got.Scales().Axis(p)) {
				t.Fatalf("v%d axis %s differs: %+v vs %+v", v, p, orig.Scales().Axis(p), got.Scales().Axis(p))
			}
			if orig.Scales().Scale(p) != got.Scales().Scale(p) {
				t.Fatalf("v%d scale %s differs", v, p)
			}
		}
		if got.Curves().Len() != orig.Curves().Len() {
			t.Fatalf("v%d curve count %d", v, got.Curves().Len())
		}
		for i := 0; i < orig.Curves().Len(); i++ {
			a, _ := orig.Curves().Curve(i)
			b, _ := got.Curves().Curve(i)
			if a.Kind() != b.Kind() || a.Common().Binding != b.Common().Binding || a.Common().Layout != b.Common().Layout {
				t.Fatalf("v%d curve %d differs: %+v vs %+v", v, i, a.Common(), b.Common())
			}
		}
		eb, _ := got.Curves().Curve(1)
		mh, _ := got.Curves().Handle(0)
		if eb.(*curves.ErrorBarsCurve).Master != mh {
			t.Fatalf("v%d error bars lost their master", v)
		}
		if got.Markers().Legend().String() != orig.Markers().Legend().String() || got.Markers().LegendID().IsZero() {
			t.Fatalf("v%d legend %q", v, got.Markers().Legend().String())
		}
		for _, fam := range []struct {
			name      string
			orig, got []render.Handle
		}{
			{"text", orig.Markers().Texts(), got.Markers().Texts()},
			{"line", orig.Markers().Lines(), got.Markers().Lines()},
		} {
			if len(fam.orig) != len(fam.got) {
				t.Fatalf("v%d %s markers %d vs %d", v, fam.name, len(fam.orig), len(fam.got))
			}
			for i := range fam.orig {
				a, _ := orig.Markers().Item(fam.orig[i])
				b, _ := got.Markers().Item(fam.got[i])
				if !reflect.DeepEqual(*a, *b) {
					t.Fatalf("v%d %s marker %d differs:\n%+v\n%+v", v, fam.name, i, *a, *b)
				}
			}
		}
		if got.Config().Title != "Growth" {
			t.Fatalf("v%d title %q", v, got.Config().Title)
		}
		if zx, zy := got.Grid().ZeroLines(); !zx.IsZero() || zy.IsZero() {
			t.Fatalf("v%d zero lines not rebuilt", v)
		}
	}
}

func TestVersionGatesGrammar(t *testing.T) {
	l := build(t, Version90)
	old := Save(l, Options{Version: Version84})
	if strings.Contains(old, "LabelsRotation") || strings.Contains(old, "AxesBaseline") {
		t.Fatalf("v84 must not carry rotation or baselines")
	}
	if strings.Contains(old, "#ffffff80") {
		t.Fatalf("v84 must not carry alpha")
	}
	got, err := Load(old, Version84, nil)
	if err != nil {
		t.Fatalf("load v84: %v", err)
	}
	if got.Config().Canvas.A != 255 {
		t.Fatalf("v84 alpha %d", got.Config().Canvas.A)
	}
	if !strings.Contains(old, "colors\t#000000\tnone") {
		t.Fatalf("v84 should write a transparent background as none:\n%s", old)
	}
	for _, h := range got.Markers().Texts() {
		if it, _ := got.Markers().Item(h); it.Background.A != 0 {
			t.Fatalf("v84 text background became %s", render.ColorHex(it.Background))
		}
	}
	if a := got.Scales().Axis(render.Bottom); a.MajorTicks != scale.TicksIn || a.MinorTicks != scale.TicksBoth {
		t.Fatalf("legacy ticks decoded as %s/%s", a.MajorTicks, a.MinorTicks)
	}
	cur := Save(l, Options{Version: Version90})
	if !strings.Contains(cur, "#ffffff80") {
		t.Fatalf("v90 lost the canvas alpha")
	}
	if _, err := Load(cur, Version84, nil); !errors.Is(err, types.ErrIO) {
		t.Fatalf("v90 text read as v84 should fail, got %v", err)
	}
	if _, err := Load(cur, 70, nil); !errors.Is(err, types.ErrIO) {
		t.Fatalf("unsupported version: %v", err)
	}
}

func dropLines(text string, match func(string) bool) string {
	var keep []string
	for _, line := range strings.Split(text, "\n") {
		if !match(line) {
			keep = append(keep, line)
		}
	}
	return strings.Join(keep, "\n")
}

func TestMissingRequiredTagFails(t *testing.T) {
	text := Save(build(t, Version96), DefaultOptions())
	for _, tag := range requiredTags {
		broken := dropLines(text, func(line string) bool { return strings.HasPrefix(line, tag+"\t") })
		l, err := Load(broken, Version96, nil)
		if !errors.Is(err, types.ErrIO) || l != nil {
			t.Fatalf("without %s: layer=%v err=%v", tag, l, err)
		}
	}
	rightScale := dropLines(text, func(line string) bool { return strings.HasPrefix(line, "scale\t3\t") })
	if _, err := Load(rightScale, Version96, nil); !errors.Is(err, types.ErrIO) {
		t.Fatalf("missing right scale: %v", err)
	}
}

func TestMalformedLinesFail(t *testing.T) {
	text := Save(build(t, Version96), DefaultOptions())
	cases := map[string]string{
		"bad number":   strings.Replace(text, "ggeometry\t0\t0", "ggeometry\tx\t0", 1),
		"open block":   text + "<line>\n",
		"stray close":  "</text>\n" + text,
		"orphan data":  "points\t1,2\n" + text,
		"bad axis":     strings.Replace(text, "AxisType\t0\t", "AxisType\t9\t", 1),
		"bad kind":     strings.Replace(text, "curve\tLineSymbols", "curve\tBubbles", 1),
		"bad formula":  strings.Replace(text, "FunctionCurve\tsin(x)", "FunctionCurve\tsin(", 1),
		"missing font": strings.Replace(text, "font\t", "fnt\t", 1),
	}
	for name, broken := range cases {
		if l, err := Load(broken, Version96, nil); !errors.Is(err, types.ErrIO) || l != nil {
			t.Fatalf("%s: layer=%v err=%v", name, l, err)
		}
	}
}

func TestUnknownTagIsSkippedWithWarning(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	text := Save(build(t, Version96), DefaultOptions()) + "Sparkle\t1\t2\n"
	if _, err := Load(text, Version96, nil); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(buf.String(), "[WARN]") || !strings.Contains(buf.String(), "Sparkle") {
		t.Fatalf("expected a warning, got %q", buf.String())
	}
}

func TestHugeSampleCountIsLowered(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	text := Save(build(t, Version96), DefaultOptions())
	huge := strings.Replace(text, "FunctionCurve\tsin(x)\tx\t0\t3\t20", "FunctionCurve\tsin(x)\tx\t0\t3\t1000000000000", 1)
	if huge == text {
		t.Fatalf("function curve line not found in:\n%s", text)
	}
	l, err := Load(huge, Version96, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, _ := l.Curves().Curve(2)
	fc := c.(*curves.FunctionCurve)
	if fc.Samples != formula.MaxSamples || len(fc.Points) > formula.MaxSamples {
		t.Fatalf("samples %d, points %d", fc.Samples, len(fc.Points))
	}
	if !strings.Contains(buf.String(), "samples lowered") {
		t.Fatalf("expected a warning, got %q", buf.String())
	}
}

func TestTemplateRebindsThroughResolver(t *testing.T) {
	l := build(t, Version96)
	text := Save(l, Options{Version: Version96, Template: true})
	if strings.Contains(text, "\npoints\t") || strings.Contains(text, "\nvalues\t") {
		t.Fatalf("template carries data")
	}

	empty, err := Load(text, Version96, nil)
	if err != nil {
		t.Fatalf("load without resolver: %v", err)
	}
	c, _ := empty.Curves().Curve(0)
	if len(c.(*curves.XYCurve).Points) != 0 {
		t.Fatalf("curve should stay empty without a resolver")
	}
	f, _ := empty.Curves().Curve(2)
	if len(f.(*curves.FunctionCurve).Points) != 20 {
		t.Fatalf("function curves are always resampled")
	}

	cat := datasource.NewCatalog()
	cat.AddTable(table())
	full, err := Load(text, Version96, cat)
	if err != nil {
		t.Fatalf("load with resolver: %v", err)
	}
	c, _ = full.Curves().Curve(0)
	xy := c.(*curves.XYCurve)
	if len(xy.Points) != 3 || xy.Points[2].Y != 40 {
		t.Fatalf("rebound points %v", xy.Points)
	}
	eb, _ := full.Curves().Curve(1)
	if errs := eb.(*curves.ErrorBarsCurve).Errors; len(errs) != 3 || errs[2] != 4 {
		t.Fatalf("rebound errors %v", errs)
	}
	box, _ := full.Curves().Curve(3)
	if len(box.(*curves.BoxCurve).Values) != 4 {
		t.Fatalf("rebound box values")
	}
}

func TestLegendKeepsMultipleLines(t *testing.T) {
	l := layer.New(layer.DefaultConfig())
	src := table()
	l.InsertCurve(src, "X", "Y", curves.Line, layer.AllRows)
	l.InsertCurve(src, "X", "E", curves.Scatter, layer.AllRows)
	text := Save(l, DefaultOptions())
	if !strings.Contains(text, "text\t\\c{1}Y\t\\c{2}E") {
		t.Fatalf("legend lines not tab separated:\n%s", text)
	}
	got, err := Load(text, CurrentVersion, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if idx := got.Markers().Legend().Indices(); len(idx) != 2 || idx[0] != 1 || idx[1] != 2 {
		t.Fatalf("legend indices %v", idx)
	}
}
