package render

import (
	"image"
	"image/color"
	stddraw "image/draw"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// legendToken matches the curve reference escape at the start of a legend line.
var legendToken = regexp.MustCompile(`^\\c\{(\d+)\}`)

// legendPlain strips curve reference escapes from legend text.
func legendPlain(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = legendToken.ReplaceAllString(l, "")
	}
	return strings.Join(lines, "\n")
}

// LegendSwatch resolves a 1-based curve reference in legend text to the
// curve's line color. Set by the owning layer.
type LegendSwatch func(index int) (drawing.Color, bool)

// SetLegendSwatch installs the legend color resolver.
func (s *Surface) SetLegendSwatch(fn LegendSwatch) { s.swatch = fn }

func rgba(c drawing.Color) color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// overlay draws spectrograms and markers on top of the chart image.
func (s *Surface) overlay(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	stddraw.Draw(dst, b, img, b.Min, stddraw.Src)
	for _, h := range s.curves.Handles() {
		c, _ := s.curves.Get(h)
		if c.Visible && c.Style == DrawSpectrogram {
			s.drawSpectrogram(dst, c)
		}
	}
	for _, h := range s.markers.Handles() {
		m, _ := s.markers.Get(h)
		switch m.Kind {
		case MarkerText:
			s.drawText(dst, m)
		case MarkerLine:
			s.drawLineMarker(dst, m)
		case MarkerImage:
			s.drawImage(dst, m)
		}
	}
	return dst
}

func (s *Surface) pixel(xa, ya AxisPos, p Point) (int, int, bool) {
	x, okx := s.ToPixel(xa, p.X)
	y, oky := s.ToPixel(ya, p.Y)
	return int(math.Round(x)), int(math.Round(y)), okx && oky
}

func (s *Surface) drawText(dst *image.RGBA, m *MarkerItem) {
	x, y, ok := s.pixel(m.XAxis, m.YAxis, m.Origin)
	if !ok {
		return
	}
	face := basicfont.Face7x13
	lines := strings.Split(m.Text, "\n")
	lineH := face.Metrics().Height.Ceil()
	const swatchW = 22
	width := 0
	for _, l := range lines {
		w := font.MeasureString(face, legendPlain(l)).Ceil()
		if legendToken.MatchString(l) {
			w += swatchW + 4
		}
		if w > width {
			width = w
		}
	}
	pad := 4
	box := image.Rect(x, y, x+width+2*pad, y+len(lines)*lineH+2*pad)
	if m.Background.A > 0 {
		stddraw.Draw(dst, box, image.NewUniform(rgba(m.Background)), image.Point{}, stddraw.Over)
	}
	frameCol := rgba(m.LineColor)
	if m.Frame == 2 {
		shadow := box.Add(image.Pt(3, 3))
		stddraw.Draw(dst, image.Rect(box.Max.X, shadow.Min.Y, shadow.Max.X, shadow.Max.Y), image.NewUniform(frameCol), image.Point{}, stddraw.Over)
		stddraw.Draw(dst, image.Rect(shadow.Min.X, box.Max.Y, shadow.Max.X, shadow.Max.Y), image.NewUniform(frameCol), image.Point{}, stddraw.Over)
	}
	if m.Frame > 0 {
		strokeRect(dst, box, frameCol, 1)
	}
	if m.Selected {
		strokeRect(dst, box.Inset(-3), color.RGBA{R: 0, G: 120, B: 215, A: 255}, 1)
	}
	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(rgba(m.TextColor)), Face: face}
	for i, l := range lines {
		tx := x + pad
		baseline := y + pad + (i+1)*lineH - face.Metrics().Descent.Ceil()
		if sm := legendToken.FindStringSubmatch(l); sm != nil {
			idx, _ := strconv.Atoi(sm[1])
			if s.swatch != nil {
				if col, ok := s.swatch(idx); ok {
					mid := baseline - lineH/3
					strokeLine(dst, tx, mid, tx+swatchW, mid, rgba(col), 2)
				}
			}
			tx += swatchW + 4
			l = legendToken.ReplaceAllString(l, "")
		}
		dr.Dot = fixed.Point26_6{X: fixed.I(tx), Y: fixed.I(baseline)}
		dr.DrawString(l)
	}
}

func (s *Surface) drawLineMarker(dst *image.RGBA, m *MarkerItem) {
	x0, y0, ok0 := s.pixel(m.XAxis, m.YAxis, m.Origin)
	x1, y1, ok1 := s.pixel(m.XAxis, m.YAxis, m.End)
	if !ok0 || !ok1 {
		return
	}
	col := rgba(m.LineColor)
	w := int(math.Max(1, math.Round(m.LineWidth)))
	strokeLine(dst, x0, y0, x1, y1, col, w)
	if m.EndArrow {
		drawArrowHead(dst, x0, y0, x1, y1, m.HeadLength, m.HeadAngle, col, w)
	}
	if m.StartArrow {
		drawArrowHead(dst, x1, y1, x0, y0, m.HeadLength, m.HeadAngle, col, w)
	}
	if m.Selected {
		strokeRect(dst, image.Rect(minInt(x0, x1), minInt(y0, y1), maxInt(x0, x1), maxInt(y0, y1)).Inset(-4), color.RGBA{R: 0, G: 120, B: 215, A: 255}, 1)
	}
}

func drawArrowHead(dst *image.RGBA, x0, y0, x1, y1, length, angle int, col color.RGBA, w int) {
	if length <= 0 {
		length = 8
	}
	if angle <= 0 {
		angle = 30
	}
	theta := math.Atan2(float64(y1-y0), float64(x1-x0))
	a := float64(angle) * math.Pi / 180
	for _, sign := range []float64{-1, 1} {
		ex := float64(x1) - float64(length)*math.Cos(theta+sign*a)
		ey := float64(y1) - float64(length)*math.Sin(theta+sign*a)
		strokeLine(dst, x1, y1, int(math.Round(ex)), int(math.Round(ey)), col, w)
	}
}

func (s *Surface) drawImage(dst *image.RGBA, m *MarkerItem) {
	if m.Image == nil {
		return
	}
	x0, y0, ok0 := s.pixel(m.XAxis, m.YAxis, m.Origin)
	x1, y1, ok1 := s.pixel(m.XAxis, m.YAxis, m.End)
	if !ok0 || !ok1 {
		return
	}
	r := image.Rect(minInt(x0, x1), minInt(y0, y1), maxInt(x0, x1), maxInt(y0, y1))
	if r.Empty() {
		return
	}
	draw.ApproxBiLinear.Scale(dst, r, m.Image, m.Image.Bounds(), draw.Over, nil)
	if m.Selected {
		strokeRect(dst, r.Inset(-3), color.RGBA{R: 0, G: 120, B: 215, A: 255}, 1)
	}
}

func (s *Surface) drawSpectrogram(dst *image.RGBA, c *CurveItem) {
	rows := len(c.Grid)
	if rows == 0 || len(c.Grid[0]) == 0 {
		return
	}
	cols := len(c.Grid[0])
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, row := range c.Grid {
		for _, v := range row {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if hi <= lo {
		hi = lo + 1
	}
	x0, x1, y0, y1 := c.Bounds[0], c.Bounds[1], c.Bounds[2], c.Bounds[3]
	dx, dy := (x1-x0)/float64(cols), (y1-y0)/float64(rows)
	for i, row := range c.Grid {
		for j, v := range row {
			px0, py0, ok0 := s.pixel(c.XAxis, c.YAxis, Point{x0 + float64(j)*dx, y0 + float64(i+1)*dy})
			px1, py1, ok1 := s.pixel(c.XAxis, c.YAxis, Point{x0 + float64(j+1)*dx, y0 + float64(i)*dy})
			if !ok0 || !ok1 {
				continue
			}
			g := uint8(255 * (v - lo) / (hi - lo))
			col := color.RGBA{R: g, G: g, B: g, A: 255}
			if c.Layout.FillArea {
				col = color.RGBA{R: g, G: 0, B: 255 - g, A: 255}
			}
			r := image.Rect(minInt(px0, px1), minInt(py0, py1), maxInt(px0, px1), maxInt(py0, py1))
			stddraw.Draw(dst, r, image.NewUniform(col), image.Point{}, stddraw.Src)
		}
	}
}

// strokeLine draws a w-pixel wide line with Bresenham's algorithm.
func strokeLine(dst *image.RGBA, x0, y0, x1, y1 int, col color.RGBA, w int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	half := w / 2
	for {
		for ox := -half; ox <= half; ox++ {
			for oy := -half; oy <= half; oy++ {
				dst.SetRGBA(x0+ox, y0+oy, col)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func strokeRect(dst *image.RGBA, r image.Rectangle, col color.RGBA, w int) {
	strokeLine(dst, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, col, w)
	strokeLine(dst, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, col, w)
	strokeLine(dst, r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, col, w)
	strokeLine(dst, r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, col, w)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
