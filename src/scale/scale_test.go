package scale

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

func TestMinorIntervals(t *testing.T) {
	cases := map[int]int{0: 0, 1: 3, 2: 3, 4: 5, -2: 0}
	for in, want := range cases {
		if got := MinorIntervals(in); got != want {
			t.Errorf("MinorIntervals(%d)=%d want %d", in, got, want)
		}
	}
}

func TestDivideLinear(t *testing.T) {
	d := Divide(10, 0, 5, 1, 0, Linear, false)
	if d.Lo != 0 || d.Hi != 10 {
		t.Fatalf("bounds not normalized: %v %v", d.Lo, d.Hi)
	}
	want := []float64{0, 2, 4, 6, 8, 10}
	if !reflect.DeepEqual(d.Major, want) {
		t.Fatalf("major ticks %v want %v", d.Major, want)
	}
	if len(d.Minor) != 10 {
		t.Fatalf("expected 10 minor ticks (3 intervals per step), got %d: %v", len(d.Minor), d.Minor)
	}
	for i := 1; i < len(d.Minor); i++ {
		if d.Minor[i] <= d.Minor[i-1] {
			t.Fatalf("minor ticks not ascending: %v", d.Minor)
		}
	}
}

func TestDivideFixedStep(t *testing.T) {
	d := Divide(0, 1, 5, 0, 0.25, Linear, false)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if !reflect.DeepEqual(d.Major, want) || len(d.Minor) != 0 {
		t.Fatalf("unexpected division %+v", d)
	}
}

func TestDivideInverted(t *testing.T) {
	d := Divide(0, 10, 5, 0, 0, Linear, true)
	if !d.Inverted() || d.Lo != 10 || d.Hi != 0 {
		t.Fatalf("expected swapped bounds, got %v..%v", d.Lo, d.Hi)
	}
	if d.Major[0] != 10 || d.Major[len(d.Major)-1] != 0 {
		t.Fatalf("major ticks not reversed: %v", d.Major)
	}
}

func TestDivideDegenerateRange(t *testing.T) {
	d := Divide(0, 0, 5, 0, 0, Linear, false)
	if d.Lo != -0.5 || d.Hi != 0.5 {
		t.Fatalf("zero-width range should widen to ±0.5, got %v..%v", d.Lo, d.Hi)
	}
	d = Divide(10, 10, 5, 0, 0, Linear, false)
	if d.Lo != 9 || d.Hi != 11 {
		t.Fatalf("expected ±10%%, got %v..%v", d.Lo, d.Hi)
	}
}

func TestDivideLog(t *testing.T) {
	d := Divide(1, 1000, 5, 5, 0, Log10, false)
	want := []float64{1, 10, 100, 1000}
	if !reflect.DeepEqual(d.Major, want) {
		t.Fatalf("decade ticks %v want %v", d.Major, want)
	}
	if len(d.Minor) != 12 {
		t.Fatalf("expected 4 minors per decade, got %d: %v", len(d.Minor), d.Minor)
	}
	d = Divide(-5, 100, 5, 0, 0, Log10, false)
	if d.Lo <= 0 {
		t.Fatalf("non-positive log bound must be clamped, got %v", d.Lo)
	}
}

func TestNiceStep(t *testing.T) {
	cases := map[float64]float64{0.3: 0.5, 1.7: 2, 2.2: 2.5, 4: 5, 7: 10, 120: 200}
	for in, want := range cases {
		if got := NiceStep(in); math.Abs(got-want) > 1e-12 {
			t.Errorf("NiceStep(%v)=%v want %v", in, got, want)
		}
	}
}

func TestDateAxisRequiresOriginAndFormat(t *testing.T) {
	e := NewEngine(render.NewSurface(400, 300))
	before := e.Axis(Bottom)
	for _, info := range []string{"", "2024-01-01", ";2006-01-02", "2024-01-01;"} {
		err := e.SetAxisType(Bottom, Date, info)
		if !errors.Is(err, types.ErrFormat) {
			t.Fatalf("info %q: expected format error, got %v", info, err)
		}
	}
	after := e.Axis(Bottom)
	if after.Type != before.Type || after.FormatInfo != before.FormatInfo {
		t.Fatalf("axis modified after failed call: %+v", after)
	}
	if err := e.SetAxisType(Bottom, Date, "2024-01-01;2006-01-02"); err != nil {
		t.Fatalf("valid date format rejected: %v", err)
	}
	if got := e.TickLabel(Bottom, 31); got != "2024-02-01" {
		t.Fatalf("date label %q", got)
	}
}

func TestTimeAxisLabel(t *testing.T) {
	e := NewEngine(render.NewSurface(400, 300))
	if err := e.SetAxisType(Left, Time, "00:00:00;15:04:05"); err != nil {
		t.Fatal(err)
	}
	if got := e.TickLabel(Left, 3725); got != "01:02:05" {
		t.Fatalf("time label %q", got)
	}
}

func TestUnknownPositionReadsZero(t *testing.T) {
	e := NewEngine(render.NewSurface(400, 300))
	for _, p := range []Position{-1, 4, 99} {
		if a := e.Axis(p); a.Type != Numeric || a.Enabled {
			t.Fatalf("axis %d: %+v", p, a)
		}
		if s := e.Scale(p); s != (Scale{}) {
			t.Fatalf("scale %d: %+v", p, s)
		}
		if d := e.Division(p); d.Major != nil || d.Lo != 0 || d.Hi != 0 {
			t.Fatalf("division %d: %+v", p, d)
		}
		if got := e.TickLabel(p, 1); got != "" {
			t.Fatalf("label %d: %q", p, got)
		}
	}
}

func TestPickTimeStep(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		time.Minute:          10 * time.Second,
		90 * time.Minute:     10 * time.Minute,
		12 * time.Hour:       time.Hour,
		48 * time.Hour:       6 * time.Hour,
		10 * 24 * time.Hour:  24 * time.Hour,
		400 * 24 * time.Hour: 30 * 24 * time.Hour,
	}
	for span, want := range cases {
		if got := pickTimeStep(span); got != want {
			t.Errorf("pickTimeStep(%s)=%s want %s", span, got, want)
		}
	}
}

func TestSecondaryAxisMirrorsLogInvertedPrimary(t *testing.T) {
	s := render.NewSurface(400, 300)
	e := NewEngine(s)
	e.SetScale(Bottom, 1, 1000, 0, 5, 5, Log10, true)
	e.EnableAxis(Top, true)

	bot, top := s.Axis(Bottom), s.Axis(Top)
	if top.Transform != Log10 || top.Transform != bot.Transform {
		t.Fatalf("transform not mirrored: %v vs %v", top.Transform, bot.Transform)
	}
	if !reflect.DeepEqual(top.Division, bot.Division) {
		t.Fatalf("division not mirrored:\n top %+v\n bot %+v", top.Division, bot.Division)
	}
	if !top.Division.Inverted() {
		t.Fatalf("inversion not mirrored")
	}
	if e.Scale(Top) != e.Scale(Bottom) {
		t.Fatalf("scale config not mirrored: %+v vs %+v", e.Scale(Top), e.Scale(Bottom))
	}

	// Re-applied after every primary change.
	e.SetBaseline(Bottom, 7)
	e.SetScale(Bottom, 0, 50, 10, 5, 0, Linear, false)
	top = s.Axis(Top)
	if top.Transform != Linear || top.Division.Lo != 0 || top.Division.Hi != 50 || top.Border != 7 {
		t.Fatalf("mirror not re-applied: %+v", top)
	}
}

func TestSecondaryAxisWithCurvesKeepsOwnScale(t *testing.T) {
	s := render.NewSurface(400, 300)
	e := NewEngine(s)
	e.HasCurves = func(p Position) bool { return p == Right }
	e.EnableAxis(Right, true)
	e.SetScale(Right, 100, 200, 0, 5, 0, Linear, false)
	e.SetScale(Left, 0, 1, 0, 5, 0, Linear, false)
	if d := s.ScaleDivision(Right); d.Lo != 100 || d.Hi != 200 {
		t.Fatalf("right axis was overwritten: %+v", d)
	}
}

func TestLabelFormat(t *testing.T) {
	e := NewEngine(render.NewSurface(400, 300))
	if err := e.SetLabelFormat(Left, Automatic, 20, "x*100"); err != nil {
		t.Fatal(err)
	}
	if e.Axis(Left).Precision != 15 {
		t.Fatalf("precision not clamped: %d", e.Axis(Left).Precision)
	}
	if got := e.TickLabel(Left, 0.25); got != "25" {
		t.Fatalf("formula label %q", got)
	}
	err := e.SetLabelFormat(Left, Decimal, 2, "x*")
	if !errors.Is(err, types.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
	if e.Axis(Left).Formula != "x*100" {
		t.Fatalf("failed call modified formula")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		v    float64
		f    NumericFormat
		prec int
		want string
	}{
		{1500, Decimal, 1, "1500.0"},
		{1500, Scientific, 2, "1.50e+03"},
		{1500, Superscripts, 1, "1.5×10³"},
		{0.002, Superscripts, 0, "2×10⁻³"},
		{0.5, Automatic, 4, "0.5"},
		{0, Automatic, 4, "0"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.v, c.f, c.prec); got != c.want {
			t.Errorf("FormatNumber(%v,%v,%d)=%q want %q", c.v, c.f, c.prec, got, c.want)
		}
	}
}

func TestFormatNumericTick(t *testing.T) {
	cases := map[float64]string{150: "150", 12.34: "12.3", 1.234: "1.23", 0.1234: "0.123", 0.001234: "0.0012"}
	for in, want := range cases {
		if got := FormatNumericTick(in); got != want {
			t.Errorf("FormatNumericTick(%v)=%q want %q", in, got, want)
		}
	}
}

func TestCategoricalLabels(t *testing.T) {
	e := NewEngine(render.NewSurface(400, 300))
	if err := e.SetAxisType(Bottom, Text, ""); err != nil {
		t.Fatal(err)
	}
	e.SetTextLabels(Bottom, []string{"red", "green"})
	if got := e.TickLabel(Bottom, 2); got != "green" {
		t.Fatalf("text label %q", got)
	}
	for _, v := range []float64{0, 1.5, 3} {
		if got := e.TickLabel(Bottom, v); got != "" {
			t.Fatalf("position %v should be unlabelled, got %q", v, got)
		}
	}
	if err := e.SetAxisType(Left, WeekDay, "1"); err != nil {
		t.Fatal(err)
	}
	if got := e.TickLabel(Left, 1); got != "Monday" {
		t.Fatalf("weekday label %q", got)
	}
	if err := e.SetAxisType(Left, Month, "0"); err != nil {
		t.Fatal(err)
	}
	if got := e.TickLabel(Left, 12); got != "Dec" {
		t.Fatalf("month label %q", got)
	}
	if err := e.SetAxisType(Left, Month, "7"); !errors.Is(err, types.ErrFormat) {
		t.Fatalf("expected format error for bad month format, got %v", err)
	}
}

func TestLabelRotationClamped(t *testing.T) {
	s := render.NewSurface(400, 300)
	e := NewEngine(s)
	e.SetLabelRotation(Bottom, 120)
	if e.Axis(Bottom).LabelRotation != 90 || s.Axis(Bottom).LabelRotation != 90 {
		t.Fatalf("rotation not clamped: %v", e.Axis(Bottom).LabelRotation)
	}
}

func TestTicksStyleSetsLengths(t *testing.T) {
	s := render.NewSurface(400, 300)
	e := NewEngine(s)
	e.SetTicksStyle(Left, TicksNone, TicksIn)
	st := s.Axis(Left)
	if st.MajorTickLen != 0 || st.MinorTickLen == 0 {
		t.Fatalf("unexpected tick lengths %d/%d", st.MajorTickLen, st.MinorTickLen)
	}
}
