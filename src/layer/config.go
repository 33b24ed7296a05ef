package layer

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

// Config is the layer-wide decoration and behavior.
type Config struct {
	X, Y          int // position inside the parent window
	Width, Height int

	Title      string
	TitleFont  render.Font
	TitleColor drawing.Color
	TitleAlign int

	Background drawing.Color
	Canvas     drawing.Color
	FrameWidth int
	FrameColor drawing.Color
	Margin     int
	Antialias  bool

	// AutoLegend creates a legend with the first curve.
	AutoLegend bool
	// Autoscale fits every enabled axis to the curves before each replot.
	Autoscale bool
	// PickTolerance is the pixel radius for point picking.
	PickTolerance float64
}

// DefaultConfig returns the configuration of a fresh layer.
func DefaultConfig() Config {
	return Config{
		Width:         640,
		Height:        480,
		TitleFont:     render.Font{Family: "Sans", Size: 14, Bold: true},
		TitleColor:    render.ColorBlack,
		TitleAlign:    1,
		Background:    render.ColorWhite,
		Canvas:        render.ColorWhite,
		FrameColor:    render.ColorBlack,
		Margin:        10,
		Antialias:     true,
		AutoLegend:    true,
		Autoscale:     true,
		PickTolerance: 10,
	}
}

func (c Config) frame() render.FrameSpec {
	return render.FrameSpec{
		Title:      c.Title,
		TitleFont:  c.TitleFont,
		TitleColor: c.TitleColor,
		TitleAlign: c.TitleAlign,
		Background: c.Background,
		Canvas:     c.Canvas,
		FrameWidth: c.FrameWidth,
		FrameColor: c.FrameColor,
		Margin:     c.Margin,
		Antialias:  c.Antialias,
	}
}

// Config returns the current configuration.
func (l *Layer) Config() Config { return l.cfg }

// SetConfig replaces the configuration and resizes the surface.
func (l *Layer) SetConfig(c Config) {
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = l.cfg.Width, l.cfg.Height
	}
	l.cfg = c
	l.surface.Resize(c.Width, c.Height)
	l.surface.SetFrame(c.frame())
}

// SetTitle sets the layer title.
func (l *Layer) SetTitle(text string) {
	l.cfg.Title = text
	l.surface.SetFrame(l.cfg.frame())
}

// Resize changes the layer geometry.
func (l *Layer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.cfg.Width, l.cfg.Height = width, height
	l.surface.Resize(width, height)
}
