package render

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"
)

func TestSlotMapStaleHandleFails(t *testing.T) {
	var m SlotMap[string]
	a := m.Insert("a")
	b := m.Insert("b")
	if !m.Remove(a) {
		t.Fatalf("remove a failed")
	}
	c := m.Insert("c") // reuses a's slot
	if _, ok := m.Get(a); ok {
		t.Fatalf("stale handle %v resolved after slot reuse", a)
	}
	if v, ok := m.Get(c); !ok || v != "c" {
		t.Fatalf("expected c, got %q ok=%v", v, ok)
	}
	if m.Remove(a) {
		t.Fatalf("removing a stale handle must fail")
	}
	hs := m.Handles()
	if len(hs) != 2 || hs[0] != b || hs[1] != c {
		t.Fatalf("unexpected insertion order: %v", hs)
	}
	var zero Handle
	if !zero.IsZero() || m.Contains(zero) {
		t.Fatalf("zero handle must never resolve")
	}
}

func TestPixelMappingRoundTrip(t *testing.T) {
	s := NewSurface(800, 600)
	s.SetScaleDivision(Bottom, Linear, Division{Lo: -10, Hi: 10})
	s.SetScaleDivision(Left, Log10, Division{Lo: 1, Hi: 1000})
	for _, v := range []float64{-10, -3.5, 0, 7, 10} {
		px, ok := s.ToPixel(Bottom, v)
		if !ok {
			t.Fatalf("ToPixel(%v) failed", v)
		}
		if back := s.FromPixel(Bottom, px); math.Abs(back-v) > 1e-9 {
			t.Fatalf("bottom round trip %v -> %v", v, back)
		}
	}
	for _, v := range []float64{1, 10, 42, 1000} {
		py, ok := s.ToPixel(Left, v)
		if !ok {
			t.Fatalf("ToPixel(log %v) failed", v)
		}
		if back := s.FromPixel(Left, py); math.Abs(back-v)/v > 1e-9 {
			t.Fatalf("left round trip %v -> %v", v, back)
		}
	}
	if _, ok := s.ToPixel(Left, -1); ok {
		t.Fatalf("negative value on log axis must not map")
	}
	c := s.Canvas()
	lo, _ := s.ToPixel(Left, 1)
	hi, _ := s.ToPixel(Left, 1000)
	if math.Abs(lo-c.Y1) > 1e-9 || math.Abs(hi-c.Y0) > 1e-9 {
		t.Fatalf("log axis ends should hit canvas edges: %v %v vs %+v", lo, hi, c)
	}
}

func TestUnknownAxisIsNoOp(t *testing.T) {
	s := NewSurface(400, 300)
	bad := AxisPos(7)
	s.SetAxisEnabled(bad, true)
	s.SetScaleDivision(bad, Linear, Division{Lo: 0, Hi: 1})
	s.SetAxis(bad, AxisState{Enabled: true})
	if s.AxisEnabled(bad) || s.Axis(bad).Enabled {
		t.Fatalf("unknown axis reported enabled")
	}
	if _, ok := s.ToPixel(bad, 1); ok {
		t.Fatalf("ToPixel on unknown axis succeeded")
	}
	if v := s.FromPixel(bad, 10); v != 0 {
		t.Fatalf("FromPixel on unknown axis = %v", v)
	}
	if d := s.ScaleDivision(bad); d.Major != nil {
		t.Fatalf("division %+v", d)
	}
}

func TestInvertedDivisionMapsReversed(t *testing.T) {
	s := NewSurface(800, 600)
	s.SetScaleDivision(Bottom, Linear, Division{Lo: 10, Hi: 0})
	left, _ := s.ToPixel(Bottom, 10)
	right, _ := s.ToPixel(Bottom, 0)
	if !(left < right) {
		t.Fatalf("inverted axis should put 10 left of 0: %v %v", left, right)
	}
}

func TestClosestCurve(t *testing.T) {
	s := NewSurface(800, 600)
	s.SetScaleDivision(Bottom, Linear, Division{Lo: 0, Hi: 10})
	s.SetScaleDivision(Left, Linear, Division{Lo: 0, Hi: 10})
	a := s.InsertCurve(&CurveItem{Visible: true, XAxis: Bottom, YAxis: Left, Points: []Point{{1, 1}, {2, 2}, {3, 3}}})
	b := s.InsertCurve(&CurveItem{Visible: true, XAxis: Bottom, YAxis: Left, Points: []Point{{1, 9}, {5, 9}}})
	s.InsertCurve(&CurveItem{Visible: false, XAxis: Bottom, YAxis: Left, Points: []Point{{5, 8.9}}})

	x, _ := s.ToPixel(Bottom, 5)
	y, _ := s.ToPixel(Left, 8.8)
	h, d, idx, ok := s.ClosestCurve(x, y)
	if !ok || h != b || idx != 1 {
		t.Fatalf("expected curve b point 1, got %v idx=%d ok=%v", h, idx, ok)
	}
	if d <= 0 {
		t.Fatalf("expected positive pixel distance, got %v", d)
	}
	x, _ = s.ToPixel(Bottom, 2.1)
	y, _ = s.ToPixel(Left, 2)
	if h, _, idx, _ = s.ClosestCurve(x, y); h != a || idx != 1 {
		t.Fatalf("expected curve a point 1, got %v idx=%d", h, idx)
	}
}

func TestReplotRunsHook(t *testing.T) {
	s := NewSurface(400, 300)
	calls := 0
	s.BeforeReplot = func() { calls++ }
	s.InsertCurve(&CurveItem{Visible: true})
	if !s.Dirty() {
		t.Fatalf("insert should schedule a redraw")
	}
	s.Replot()
	if calls != 1 || s.Replots() != 1 || s.Dirty() {
		t.Fatalf("unexpected replot state calls=%d replots=%d dirty=%v", calls, s.Replots(), s.Dirty())
	}
}

func TestSplinePointsKeepsEndpoints(t *testing.T) {
	pts := []Point{{0, 0}, {1, 2}, {2, 0}, {3, 1}}
	sp := SplinePoints(pts, 6)
	if len(sp) != 3*6+1 {
		t.Fatalf("unexpected spline length %d", len(sp))
	}
	if sp[0] != pts[0] || sp[len(sp)-1] != pts[len(pts)-1] {
		t.Fatalf("spline must pass through end points: %v %v", sp[0], sp[len(sp)-1])
	}
	if sp[6] != pts[1] {
		t.Fatalf("spline must pass through knots: %v", sp[6])
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	c := PaletteColor(15)
	c.A = 128
	got, err := ParseColor(ColorHex(c))
	if err != nil || got != c {
		t.Fatalf("round trip failed: %v %v", got, err)
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("expected error for short color")
	}
	rgb, err := ParseColor("#ff0000")
	if err != nil || rgb.R != 255 || rgb.A != 255 {
		t.Fatalf("rgb parse failed: %v %v", rgb, err)
	}
}

func TestPaletteColorsDistinct(t *testing.T) {
	seen := map[[3]uint8]int{}
	for i, c := range Palette {
		if i == ReservedColor {
			continue
		}
		key := [3]uint8{c.R, c.G, c.B}
		if j, dup := seen[key]; dup {
			t.Fatalf("palette slots %d and %d share %s", j, i, ColorHex(c))
		}
		seen[key] = i
	}
	if len(seen) != len(Palette)-1 {
		t.Fatalf("expected %d usable colors, got %d", len(Palette)-1, len(seen))
	}
}

func TestFontRoundTrip(t *testing.T) {
	f := Font{Family: "Serif", Size: 12.5, Bold: true, Underline: true}
	got, err := ParseFont(f.String())
	if err != nil || got != f {
		t.Fatalf("font round trip: %+v %v", got, err)
	}
}

func TestRenderPNGAndSVG(t *testing.T) {
	s := NewSurface(640, 420)
	s.SetScaleDivision(Bottom, Linear, Division{Lo: 0, Hi: 4, Major: []float64{0, 1, 2, 3, 4}})
	s.SetScaleDivision(Left, Linear, Division{Lo: 0, Hi: 16, Major: []float64{0, 4, 8, 12, 16}})
	layout := DefaultLayout()
	layout.LineColor = 1
	s.InsertCurve(&CurveItem{Title: "y", Visible: true, XAxis: Bottom, YAxis: Left, Layout: layout, Points: []Point{{0, 0}, {1, 1}, {2, 4}, {3, 9}, {4, 16}}})
	s.InsertMarker(&MarkerItem{Kind: MarkerText, XAxis: Bottom, YAxis: Left, Origin: Point{0.5, 14}, Text: "\\c{1}y", TextColor: ColorBlack, Frame: 1, LineColor: ColorBlack})
	s.InsertMarker(&MarkerItem{Kind: MarkerLine, XAxis: Bottom, YAxis: Left, Origin: Point{1, 10}, End: Point{2, 5}, LineColor: ColorBlack, LineWidth: 1, EndArrow: true})

	var buf bytes.Buffer
	if err := s.Render(&buf, PNG); err != nil {
		t.Fatalf("png render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 640 || h != 420 {
		t.Fatalf("unexpected image size %dx%d", w, h)
	}
	buf.Reset()
	if err := s.Render(&buf, SVG); err != nil {
		t.Fatalf("svg render: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatalf("expected svg output")
	}
}

func TestLegendPlain(t *testing.T) {
	if got := legendPlain("\\c{1}Y\n\\c{12}Z"); got != "Y\nZ" {
		t.Fatalf("unexpected plain legend %q", got)
	}
}
