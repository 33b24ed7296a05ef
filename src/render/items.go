package render

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// AxisPos is one of the four fixed axis positions. The index mapping is
// fixed for the lifetime of a surface.
type AxisPos int

const (
	Bottom AxisPos = iota
	Top
	Left
	Right
)

// AxisCount is the number of axis positions.
const AxisCount = 4

var axisNames = [AxisCount]string{"bottom", "top", "left", "right"}

func (a AxisPos) String() string {
	if a < 0 || int(a) >= AxisCount {
		return "axis(" + strconv.Itoa(int(a)) + ")"
	}
	return axisNames[a]
}

// IsX reports whether the axis is horizontal.
func (a AxisPos) IsX() bool { return a == Bottom || a == Top }

// Valid reports whether a is one of the four positions.
func (a AxisPos) Valid() bool { return a >= Bottom && a <= Right }

// Point is a data-space coordinate.
type Point struct{ X, Y float64 }

// Font describes a text face by name; rendering falls back to the built-in face.
type Font struct {
	Family    string
	Size      float64
	Bold      bool
	Italic    bool
	Underline bool
}

// DefaultFont is used for titles, labels and markers unless configured.
var DefaultFont = Font{Family: "Sans", Size: 10}

// String encodes the font as family,size,bold,italic,underline.
func (f Font) String() string {
	return fmt.Sprintf("%s,%g,%d,%d,%d", f.Family, f.Size, b2i(f.Bold), b2i(f.Italic), b2i(f.Underline))
}

// ParseFont decodes the String form.
func ParseFont(s string) (Font, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return Font{}, fmt.Errorf("font %q: expected 5 fields", s)
	}
	size, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Font{}, fmt.Errorf("font %q: %w", s, err)
	}
	return Font{Family: parts[0], Size: size, Bold: parts[2] == "1", Italic: parts[3] == "1", Underline: parts[4] == "1"}, nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ConnectStyle controls how curve points are joined.
type ConnectStyle int

const (
	NoCurve ConnectStyle = iota
	Lines
	Sticks
	Steps
	Dots
	SplineLines
)

// LineStyle is a pen dash pattern.
type LineStyle int

const (
	SolidLine LineStyle = iota
	DashLine
	DotLine
	DashDotLine
	DashDotDotLine
)

// DashArray returns the go-chart dash array for the style.
func (s LineStyle) DashArray() []float64 {
	switch s {
	case DashLine:
		return []float64{6, 3}
	case DotLine:
		return []float64{1, 3}
	case DashDotLine:
		return []float64{6, 3, 1, 3}
	case DashDotDotLine:
		return []float64{6, 3, 1, 3, 1, 3}
	default:
		return nil
	}
}

// Pattern is an area fill pattern.
type Pattern int

const (
	SolidPattern Pattern = iota
	HorizontalPattern
	VerticalPattern
	CrossPattern
	BDiagPattern
	FDiagPattern
	DiagCrossPattern
)

// SymbolCount is the number of distinct symbol shapes (index 0 means "no symbol").
const SymbolCount = 15

// CurveLayout is the full set of visual attributes of a curve. Colors are
// palette indices.
type CurveLayout struct {
	Connect     ConnectStyle
	LineColor   int
	LineStyle   LineStyle
	LineWidth   float64
	Symbol      int // 0 = none, 1..SymbolCount
	SymbolSize  int
	SymbolColor int
	SymbolFill  int // palette index, -1 = hollow
	FillArea    bool
	AreaColor   int
	AreaPattern Pattern
	FillAlpha   int // 0..255
	PenWidth    float64
}

// DefaultLayout is the layout of a plain line curve in the first palette color.
func DefaultLayout() CurveLayout {
	return CurveLayout{
		Connect:    Lines,
		LineWidth:  1,
		SymbolSize: 7,
		SymbolFill: -1,
		FillAlpha:  255,
		PenWidth:   1,
	}
}

// DrawStyle tells the backend how to turn a curve item into primitives.
type DrawStyle int

const (
	DrawXY DrawStyle = iota // honours Layout.Connect
	DrawVerticalBars
	DrawHorizontalBars
	DrawArea
	DrawPie
	DrawHistogram
	DrawBox
	DrawVectors
	DrawErrorBars
	DrawFunction
	DrawSpectrogram
)

// CurveItem is the render-side representation of one curve.
type CurveItem struct {
	Title   string
	Style   DrawStyle
	Points  []Point
	Layout  CurveLayout
	XAxis   AxisPos
	YAxis   AxisPos
	Visible bool

	BarWidth float64   // bar width in data units (bars, histogram)
	Ends     []Point   // vector end points, index-aligned with Points
	Errors   []float64 // error magnitudes, index-aligned with Points
	Vertical bool      // error bars along Y, steps rising first
	Labels   []string  // pie slice labels
	Grid     [][]float64
	Bounds   [4]float64 // spectrogram x0, x1, y0, y1
}

// MarkerKind discriminates marker items.
type MarkerKind int

const (
	MarkerText MarkerKind = iota
	MarkerLine
	MarkerImage
	MarkerZeroLine
)

// MarkerItem is the render-side representation of a marker. Coordinates are
// in data space of the XAxis/YAxis pair.
type MarkerItem struct {
	Kind   MarkerKind
	Origin Point
	End    Point
	XAxis  AxisPos
	YAxis  AxisPos

	Text       string
	Font       Font
	TextColor  drawing.Color
	Background drawing.Color
	Frame      int // 0 none, 1 line, 2 shadow
	Angle      float64

	LineColor  drawing.Color
	LineWidth  float64
	LineStyle  LineStyle
	StartArrow bool
	EndArrow   bool
	HeadLength int
	HeadAngle  int
	FilledHead bool

	ImagePath string
	Image     image.Image

	Vertical bool // zero lines: vertical line at x=0
	Selected bool
}

// Palette holds the curve colors in index order. Slot ReservedColor (white)
// would be invisible on the default background and is never auto-assigned.
var Palette = []drawing.Color{
	{R: 0, G: 0, B: 0, A: 255},       // black
	{R: 255, G: 0, B: 0, A: 255},     // red
	{R: 0, G: 255, B: 0, A: 255},     // green
	{R: 0, G: 0, B: 255, A: 255},     // blue
	{R: 0, G: 255, B: 255, A: 255},   // cyan
	{R: 255, G: 0, B: 255, A: 255},   // magenta
	{R: 255, G: 255, B: 0, A: 255},   // yellow
	{R: 128, G: 128, B: 0, A: 255},   // dark yellow
	{R: 0, G: 0, B: 128, A: 255},     // navy
	{R: 128, G: 0, B: 128, A: 255},   // purple
	{R: 128, G: 0, B: 0, A: 255},     // wine
	{R: 128, G: 128, B: 128, A: 255}, // dark gray
	{R: 0, G: 128, B: 128, A: 255},   // dark cyan
	{R: 255, G: 255, B: 255, A: 255}, // white (reserved)
	{R: 0, G: 0, B: 160, A: 255},     // royal
	{R: 255, G: 128, B: 0, A: 255},   // orange
	{R: 128, G: 0, B: 255, A: 255},   // violet
}

// ReservedColor is the palette slot skipped by automatic color assignment.
const ReservedColor = 13

// PaletteColor returns the palette color for index i (wrapping).
func PaletteColor(i int) drawing.Color {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}

// ColorHex encodes c as #rrggbbaa.
func ColorHex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor accepts #rrggbb or #rrggbbaa.
func ParseColor(s string) (drawing.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return drawing.Color{}, fmt.Errorf("color %q: expected #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return drawing.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(h) == 6 {
		return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return drawing.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Fixed colors used for defaults.
var (
	ColorBlack = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	ColorWhite = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	ColorNone  = drawing.Color{}
)
