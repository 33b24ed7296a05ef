package layer

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

// Grid holds the grid options. The zero-line handles are owned by the layer
// and exist exactly while the matching flag is on.
type Grid struct {
	XMajor, XMinor bool
	YMajor, YMinor bool
	MajorColor     drawing.Color
	MinorColor     drawing.Color
	MajorStyle     render.LineStyle
	MinorStyle     render.LineStyle
	MajorWidth     float64
	MinorWidth     float64
	ZeroX, ZeroY   bool // vertical line at x=0, horizontal line at y=0
	XAxis, YAxis   render.AxisPos

	zeroX, zeroY render.Handle
}

// DefaultGrid is a hidden grid on the bottom/left axes.
func DefaultGrid() Grid {
	return Grid{
		MajorColor: drawing.Color{R: 0, G: 0, B: 255, A: 255},
		MinorColor: drawing.Color{R: 128, G: 128, B: 128, A: 255},
		MinorStyle: render.DotLine,
		MajorWidth: 1,
		MinorWidth: 1,
		XAxis:      render.Bottom,
		YAxis:      render.Left,
	}
}

// ZeroLines returns the zero-line marker handles, zero when absent.
func (g Grid) ZeroLines() (x, y render.Handle) { return g.zeroX, g.zeroY }

// Grid returns the grid options.
func (l *Layer) Grid() Grid { return l.grid }

// SetGrid applies grid options, creating or destroying zero-line markers as
// their flags toggle.
func (l *Layer) SetGrid(g Grid) {
	g.zeroX, g.zeroY = l.grid.zeroX, l.grid.zeroY
	g.zeroX = l.toggleZeroLine(g.zeroX, g.ZeroX, true, g)
	g.zeroY = l.toggleZeroLine(g.zeroY, g.ZeroY, false, g)
	l.grid = g
	l.surface.SetGrid(render.GridSpec{
		XMajor: g.XMajor, XMinor: g.XMinor,
		YMajor: g.YMajor, YMinor: g.YMinor,
		MajorColor: g.MajorColor, MinorColor: g.MinorColor,
		MajorStyle: g.MajorStyle, MinorStyle: g.MinorStyle,
		MajorWidth: g.MajorWidth, MinorWidth: g.MinorWidth,
		XAxis: g.XAxis, YAxis: g.YAxis,
	})
}

func (l *Layer) toggleZeroLine(h render.Handle, on, vertical bool, g Grid) render.Handle {
	switch {
	case on && h.IsZero():
		return l.surface.InsertMarker(&render.MarkerItem{
			Kind:      render.MarkerZeroLine,
			Vertical:  vertical,
			XAxis:     g.XAxis,
			YAxis:     g.YAxis,
			LineColor: g.MajorColor,
			LineWidth: g.MajorWidth,
			LineStyle: render.SolidLine,
		})
	case !on && !h.IsZero():
		l.surface.RemoveMarker(h)
		return render.Handle{}
	case on:
		if it, ok := l.surface.Marker(h); ok {
			it.XAxis, it.YAxis = g.XAxis, g.YAxis
			it.LineColor, it.LineWidth = g.MajorColor, g.MajorWidth
		}
	}
	return h
}
