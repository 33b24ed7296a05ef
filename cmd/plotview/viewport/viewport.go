// Package viewport maps between the viewer widget and the rendered layer
// image, which is drawn scaled to fit ("contain") inside the widget.
package viewport

import (
	"math"
	"strconv"
)

// ComputeLayerDimensions applies the width/height clamp rules used for the
// rendered layer. Input: the raw widget width. Returns the clamped size.
func ComputeLayerDimensions(rawW int) (int, int) {
	w := rawW
	if w < 480 {
		w = 480
	}
	if w > 2400 {
		w = 2400
	}
	h := int(float32(w) * 0.75)
	if h < 360 {
		h = 360
	}
	return w, h
}

// ContainRect returns the rectangle an image of imgW x imgH occupies when
// scaled to fit a view of viewW x viewH, plus the scale factor.
func ContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 1
	}
	scale = viewW / imgW
	if s := viewH / imgH; s < scale {
		scale = s
	}
	w, h = imgW*scale, imgH*scale
	return (viewW - w) / 2, (viewH - h) / 2, w, h, scale
}

// ViewToImage converts a widget position into image pixel coordinates.
// ok is false outside the drawn image.
func ViewToImage(vx, vy, imgW, imgH, viewW, viewH float32) (px, py float64, ok bool) {
	x, y, w, h, scale := ContainRect(imgW, imgH, viewW, viewH)
	if w == 0 || vx < x || vy < y || vx > x+w || vy > y+h {
		return 0, 0, false
	}
	return float64((vx - x) / scale), float64((vy - y) / scale), true
}

// ImageToView is the inverse of ViewToImage.
func ImageToView(px, py float64, imgW, imgH, viewW, viewH float32) (float32, float32) {
	x, y, _, _, scale := ContainRect(imgW, imgH, viewW, viewH)
	return x + float32(px)*scale, y + float32(py)*scale
}

// FormatCoordinate provides a compact label for a data coordinate.
func FormatCoordinate(v float64) string {
	av := math.Abs(v)
	switch {
	case av == 0:
		return "0"
	case av >= 1e6 || av < 1e-4:
		return strconv.FormatFloat(v, 'e', 3, 64)
	case av >= 100:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 5, 64)
	}
}
