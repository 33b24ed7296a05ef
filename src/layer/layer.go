// Package layer ties a render surface, its axes, curves and markers into one
// plot layer: data binding, interactive tools, autoscale and zoom.
package layer

import (
	"image"
	"io"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/logger"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/markers"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/scale"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Layer is one plot layer. It is not safe for concurrent use.
type Layer struct {
	surface *render.Surface
	scales  *scale.Engine
	curves  *curves.Registry
	markers *markers.Store

	cfg  Config
	grid Grid

	dicts  map[string]*dictionary
	clocks map[string]clock
	zoom  [][render.AxisCount]scale.Scale
	tool  toolState

	// OnCellUpdate receives cell edits requested by the point tools. The
	// layer never writes its sources itself.
	OnCellUpdate func(CellUpdate)
	// OnScreenRead receives data coordinates under the screen reader.
	OnScreenRead func(x, y float64)

	closed bool
}

// New creates an empty layer.
func New(cfg Config) *Layer {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		def := DefaultConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	s := render.NewSurface(cfg.Width, cfg.Height)
	l := &Layer{
		surface: s,
		cfg:     cfg,
		dicts:   map[string]*dictionary{},
		clocks:  map[string]clock{},
	}
	l.scales = scale.NewEngine(s)
	l.curves = curves.NewRegistry(s)
	l.markers = markers.NewStore(s)
	l.scales.HasCurves = l.curves.HasCurvesOn
	s.SetFrame(cfg.frame())
	s.SetLegendSwatch(l.legendSwatch)
	s.BeforeReplot = l.autoscale
	l.SetGrid(DefaultGrid())
	return l
}

// Surface returns the render surface.
func (l *Layer) Surface() *render.Surface { return l.surface }

// Scales returns the axis model.
func (l *Layer) Scales() *scale.Engine { return l.scales }

// Curves returns the curve registry.
func (l *Layer) Curves() *curves.Registry { return l.curves }

// Markers returns the marker store.
func (l *Layer) Markers() *markers.Store { return l.markers }

// Closed reports whether Close ran.
func (l *Layer) Closed() bool { return l.closed }

func (l *Layer) legendSwatch(index int) (drawing.Color, bool) {
	c, ok := l.curves.Curve(index - 1)
	if !ok {
		return drawing.Color{}, false
	}
	return render.PaletteColor(c.Common().Layout.LineColor), true
}

// Replot runs autoscale and clears the pending redraw.
func (l *Layer) Replot() { l.surface.Replot() }

// Render replots and writes the layer as PNG or SVG.
func (l *Layer) Render(w io.Writer, f render.Format) error {
	l.Replot()
	return l.surface.Render(w, f)
}

// Image replots and rasterizes the layer.
func (l *Layer) Image() (image.Image, error) {
	l.Replot()
	return l.surface.Image()
}

// SetAutoscale toggles autoscaling.
func (l *Layer) SetAutoscale(on bool) { l.cfg.Autoscale = on }

// autoscale fits every enabled axis to the curve bounds. It only runs while
// autoscale is on, nothing is zoomed and no tool is active.
func (l *Layer) autoscale() {
	if !l.cfg.Autoscale || len(l.zoom) > 0 || l.tool.kind != ToolIdle {
		return
	}
	b := l.curves.Bounds()
	for _, p := range []render.AxisPos{render.Bottom, render.Left, render.Top, render.Right} {
		if !l.surface.AxisEnabled(p) || !b[p].OK {
			continue
		}
		s := l.scales.Scale(p)
		l.scales.SetScale(p, b[p].Lo, b[p].Hi, 0, s.MajorTicks, s.MinorTicks, s.Transform, s.Inverted)
	}
}

// Zoomed reports whether a zoom is active.
func (l *Layer) Zoomed() bool { return len(l.zoom) > 0 }

// ZoomTo pushes the current scales and shows the data rectangle spanned by
// pixel corners (x0, y0) and (x1, y1) on every enabled axis.
func (l *Layer) ZoomTo(x0, y0, x1, y1 float64) {
	var saved [render.AxisCount]scale.Scale
	for i := range saved {
		saved[i] = l.scales.Scale(render.AxisPos(i))
	}
	l.zoom = append(l.zoom, saved)
	for i := range saved {
		p := render.AxisPos(i)
		if !l.surface.AxisEnabled(p) {
			continue
		}
		var a, b float64
		if p.IsX() {
			a, b = l.surface.FromPixel(p, x0), l.surface.FromPixel(p, x1)
		} else {
			a, b = l.surface.FromPixel(p, y0), l.surface.FromPixel(p, y1)
		}
		s := saved[i]
		l.scales.SetScale(p, a, b, 0, s.MajorTicks, s.MinorTicks, s.Transform, s.Inverted)
	}
	logger.Debugf("zoom depth %d", len(l.zoom))
}

// ZoomOut restores the scales from before the last zoom.
func (l *Layer) ZoomOut() bool {
	if len(l.zoom) == 0 {
		return false
	}
	saved := l.zoom[len(l.zoom)-1]
	l.zoom = l.zoom[:len(l.zoom)-1]
	for i, s := range saved {
		l.scales.SetScale(render.AxisPos(i), s.Lo, s.Hi, s.Step, s.MajorTicks, s.MinorTicks, s.Transform, s.Inverted)
	}
	return true
}

// Copy appends deep copies of other's curves and markers to l and takes
// over its configuration, grid, axes and scales.
func (l *Layer) Copy(other *Layer) {
	l.SetConfig(other.cfg)
	g := other.grid
	g.zeroX, g.zeroY = l.grid.zeroX, l.grid.zeroY
	l.SetGrid(g)
	for k, d := range other.dicts {
		l.dicts[k] = d.clone()
	}
	for k, c := range other.clocks {
		l.clocks[k] = c
	}
	// Error bars always follow their master, so the master's new handle is
	// known by the time the error bars are copied.
	remap := map[render.Handle]render.Handle{}
	for i := 0; i < other.curves.Len(); i++ {
		c, _ := other.curves.Curve(i)
		oldH, _ := other.curves.Handle(i)
		cp := curves.Copy(c)
		if eb, ok := cp.(*curves.ErrorBarsCurve); ok {
			eb.Master = remap[eb.Master]
		}
		_, h := l.curves.Insert(cp)
		remap[oldH] = h
	}
	l.markers.CopyFrom(other.markers)
	l.scales.CopyFrom(other.scales)
}

// Close force-exits the active tool, then releases every curve and marker.
func (l *Layer) Close() {
	if l.closed {
		return
	}
	l.exitTool()
	l.markers.Clear()
	l.curves.Clear()
	g := l.grid
	g.ZeroX, g.ZeroY = false, false
	l.SetGrid(g)
	l.zoom = nil
	l.closed = true
	logger.Debugf("layer closed")
}
