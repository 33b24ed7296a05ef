// Package curves keeps the ordered list of curves of a layer, their tagged
// data variants and the render items that draw them.
package curves

import (
	"fmt"
	"strings"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// Kind is the curve type tag.
type Kind int

const (
	Line Kind = iota
	Scatter
	LineSymbols
	VerticalBars
	HorizontalBars
	Area
	Pie
	VerticalDropLines
	Spline
	HorizontalSteps
	VerticalSteps
	Histogram
	Box
	VectorXYXY
	VectorXYAM
	ErrorBars
	Function
	GrayMap
	ColorMap
	ContourMap
)

var kindNames = [...]string{
	"Line", "Scatter", "LineSymbols", "VerticalBars", "HorizontalBars", "Area",
	"Pie", "VerticalDropLines", "Spline", "HorizontalSteps", "VerticalSteps",
	"Histogram", "Box", "VectorXYXY", "VectorXYAM", "ErrorBars", "Function",
	"GrayMap", "ColorMap", "ContourMap",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, s) {
			return Kind(i), nil
		}
	}
	return 0, types.Errorf(types.ErrFormat, "parseKind", "unknown curve type %q", s)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k >= 0 && int(k) < len(kindNames) }

// IsXY reports whether k belongs to the freely convertible point family.
func (k Kind) IsXY() bool {
	switch k {
	case Line, Scatter, LineSymbols, VerticalBars, HorizontalBars,
		HorizontalSteps, VerticalSteps, Area, VerticalDropLines, Spline:
		return true
	}
	return false
}

// IsSpectrogram reports whether k is a matrix map.
func (k Kind) IsSpectrogram() bool { return k == GrayMap || k == ColorMap || k == ContourMap }

// IsVector reports whether k is a vector field.
func (k Kind) IsVector() bool { return k == VectorXYXY || k == VectorXYAM }

// Convertible reports whether a curve of kind from may become kind to.
func Convertible(from, to Kind) bool {
	return from == to || (from.IsXY() && to.IsXY())
}

// StyleFor adapts layout to the visual conventions of an XY kind. Colors
// are never touched.
func StyleFor(k Kind, l render.CurveLayout) render.CurveLayout {
	l.FillArea = false
	switch k {
	case Line:
		l.Connect, l.Symbol = render.Lines, 0
	case Scatter:
		l.Connect = render.NoCurve
	case LineSymbols:
		l.Connect = render.Lines
	case VerticalDropLines:
		l.Connect = render.Sticks
	case Spline:
		l.Connect, l.Symbol = render.SplineLines, 0
	case HorizontalSteps, VerticalSteps:
		l.Connect, l.Symbol = render.Steps, 0
	case Area:
		l.Connect, l.Symbol = render.Lines, 0
		l.FillArea = true
		l.AreaColor = l.LineColor
	case VerticalBars, HorizontalBars:
		l.Connect, l.Symbol = render.Lines, 0
		l.FillArea = true
		l.AreaColor = l.LineColor
	}
	if (k == Scatter || k == LineSymbols || k == VerticalDropLines) && l.Symbol == 0 {
		l.Symbol = 1
		l.SymbolColor = l.LineColor
	}
	return l
}

// drawStyle maps a kind to the render draw style.
func drawStyle(k Kind) render.DrawStyle {
	switch k {
	case VerticalBars:
		return render.DrawVerticalBars
	case HorizontalBars:
		return render.DrawHorizontalBars
	case Area:
		return render.DrawArea
	case Pie:
		return render.DrawPie
	case Histogram:
		return render.DrawHistogram
	case Box:
		return render.DrawBox
	case VectorXYXY, VectorXYAM:
		return render.DrawVectors
	case ErrorBars:
		return render.DrawErrorBars
	case Function:
		return render.DrawFunction
	case GrayMap, ColorMap, ContourMap:
		return render.DrawSpectrogram
	}
	return render.DrawXY
}
