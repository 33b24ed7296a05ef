package main

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/MehdiChinoune/scidavis-svn-sub001/cmd/plotview/viewport"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/layer"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

// plotOverlay sits above the rendered layer. It forwards mouse gestures to
// the active layer tool and draws a crosshair with the data coordinates.
type plotOverlay struct {
	widget.BaseWidget
	state    *uiState
	mouse    fyne.Position
	hovering bool
	pressed  bool
	start    [2]float64 // image coordinates of the press
	last     [2]float64 // last image coordinates seen during a gesture
}

func newPlotOverlay(state *uiState) *plotOverlay {
	o := &plotOverlay{state: state}
	o.ExtendBaseWidget(o)
	return o
}

// toImage maps a widget position to layer pixels.
func (o *plotOverlay) toImage(p fyne.Position) (float64, float64, bool) {
	l := o.state.layer
	if l == nil {
		return 0, 0, false
	}
	w, h := l.Surface().Size()
	sz := o.Size()
	return viewport.ViewToImage(p.X, p.Y, float32(w), float32(h), sz.Width, sz.Height)
}

func (o *plotOverlay) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y, ok := o.toImage(ev.Position)
	if !ok {
		return
	}
	o.pressed = true
	o.start = [2]float64{x, y}
	o.last = o.start
	o.state.layer.Press(x, y)
	o.afterGesture()
}

func (o *plotOverlay) MouseUp(ev *desktop.MouseEvent) {
	if !o.pressed {
		return
	}
	if x, y, ok := o.toImage(ev.Position); ok {
		o.last = [2]float64{x, y}
	}
	o.release()
}

func (o *plotOverlay) Dragged(ev *fyne.DragEvent) {
	o.mouse = ev.Position
	if !o.pressed {
		return
	}
	if x, y, ok := o.toImage(ev.Position); ok {
		o.last = [2]float64{x, y}
		o.state.layer.Move(x, y)
		if o.state.layer.Tool() == layer.ToolRangeSelect || o.state.layer.Tool() == layer.ToolScreenRead {
			redraw(o.state)
		}
	}
	o.Refresh()
}

func (o *plotOverlay) DragEnd() {
	if o.pressed {
		o.release()
	}
}

func (o *plotOverlay) release() {
	o.pressed = false
	if o.state.layer == nil {
		return
	}
	o.state.layer.Release(o.last[0], o.last[1])
	o.afterGesture()
}

// afterGesture redraws after a tool changed the layer.
func (o *plotOverlay) afterGesture() {
	if r, ok := o.state.layer.Range(); ok {
		setStatus(o.state, fmt.Sprintf("curve %d: points %d…%d", r.Curve, r.From, r.To))
	}
	redraw(o.state)
}

func (o *plotOverlay) MouseMoved(ev *desktop.MouseEvent) {
	o.hovering = true
	o.mouse = ev.Position
	o.Refresh()
}
func (o *plotOverlay) MouseIn(ev *desktop.MouseEvent) { o.hovering = true; o.Refresh() }
func (o *plotOverlay) MouseOut()                      { o.hovering = false; o.Refresh() }

// Cursor maps the layer tool to a pointer shape.
func (o *plotOverlay) Cursor() desktop.Cursor {
	if o.state.layer == nil {
		return desktop.DefaultCursor
	}
	switch o.state.layer.Cursor() {
	case layer.CursorCross:
		return desktop.CrosshairCursor
	case layer.CursorText:
		return desktop.TextCursor
	case layer.CursorPointing:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

var (
	_ desktop.Hoverable  = (*plotOverlay)(nil)
	_ desktop.Mouseable  = (*plotOverlay)(nil)
	_ desktop.Cursorable = (*plotOverlay)(nil)
	_ fyne.Draggable     = (*plotOverlay)(nil)
)

func (o *plotOverlay) CreateRenderer() fyne.WidgetRenderer {
	// background to ensure full hit-area for hover events
	bg := canvas.NewRectangle(color.RGBA{})
	lineV := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	lineH := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	band := canvas.NewRectangle(color.RGBA{R: 124, G: 58, B: 237, A: 48})
	label := canvas.NewText("", color.White)
	label.TextSize = theme.CaptionTextSize()
	labelBG := canvas.NewRectangle(color.RGBA{A: 170})
	objs := []fyne.CanvasObject{bg, band, lineV, lineH, labelBG, label}
	return &overlayRenderer{o: o, bg: bg, band: band, lineV: lineV, lineH: lineH, labelBG: labelBG, label: label, objs: objs}
}

type overlayRenderer struct {
	o       *plotOverlay
	bg      *canvas.Rectangle
	band    *canvas.Rectangle
	lineV   *canvas.Line
	lineH   *canvas.Line
	labelBG *canvas.Rectangle
	label   *canvas.Text
	objs    []fyne.CanvasObject
}

func (r *overlayRenderer) Destroy() {}

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.band.Hide()
	o := r.o
	l := o.state.layer
	x, y, ok := o.toImage(o.mouse)
	if l == nil || !ok || !(o.hovering || o.pressed) {
		r.lineV.Hide()
		r.lineH.Hide()
		r.label.Hide()
		r.labelBG.Hide()
		return
	}
	s := l.Surface()
	c := s.Canvas()
	w, h := s.Size()
	// Lines stay inside the drawing canvas.
	x0, y0 := viewport.ImageToView(c.X0, c.Y0, float32(w), float32(h), size.Width, size.Height)
	x1, y1 := viewport.ImageToView(c.X1, c.Y1, float32(w), float32(h), size.Width, size.Height)
	mx, my := o.mouse.X, o.mouse.Y
	if mx < x0 || mx > x1 || my < y0 || my > y1 {
		r.lineV.Hide()
		r.lineH.Hide()
		r.label.Hide()
		r.labelBG.Hide()
		return
	}
	r.lineV.Position1, r.lineV.Position2 = fyne.NewPos(mx, y0), fyne.NewPos(mx, y1)
	r.lineH.Position1, r.lineH.Position2 = fyne.NewPos(x0, my), fyne.NewPos(x1, my)
	r.lineV.Show()
	r.lineH.Show()

	if l.Tool() == layer.ToolZoom && o.pressed {
		sx, sy := viewport.ImageToView(o.start[0], o.start[1], float32(w), float32(h), size.Width, size.Height)
		bx, by := min(sx, mx), min(sy, my)
		r.band.Move(fyne.NewPos(bx, by))
		r.band.Resize(fyne.NewSize(max(sx, mx)-bx, max(sy, my)-by))
		r.band.Show()
	}

	text := viewport.FormatCoordinate(s.FromPixel(render.Bottom, x)) + ", " + viewport.FormatCoordinate(s.FromPixel(render.Left, y))
	if l.Tool() == layer.ToolScreenRead && o.state.readout != "" {
		text = o.state.readout
	}
	r.label.Text = text
	ts := fyne.MeasureText(text, r.label.TextSize, r.label.TextStyle)
	lx, ly := mx+8, my-ts.Height-8
	if lx+ts.Width+6 > size.Width {
		lx = mx - ts.Width - 14
	}
	if ly < 0 {
		ly = my + 8
	}
	r.label.Move(fyne.NewPos(lx+3, ly))
	r.labelBG.Move(fyne.NewPos(lx, ly))
	r.labelBG.Resize(fyne.NewSize(ts.Width+6, ts.Height))
	r.label.Show()
	r.labelBG.Show()
}

func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return r.objs }

func (r *overlayRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.lineV.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.lineV.StrokeWidth = 1
	r.lineH.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.lineH.StrokeWidth = 1
	for _, obj := range r.objs {
		obj.Refresh()
	}
}
