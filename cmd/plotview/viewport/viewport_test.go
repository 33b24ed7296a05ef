package viewport

import (
	"math"
	"testing"
)

func TestComputeLayerDimensions(t *testing.T) {
	cases := []struct{ in, w, h int }{
		{100, 480, 360},
		{800, 800, 600},
		{5000, 2400, 1800},
	}
	for _, c := range cases {
		w, h := ComputeLayerDimensions(c.in)
		if w != c.w || h != c.h {
			t.Fatalf("ComputeLayerDimensions(%d) = %d,%d want %d,%d", c.in, w, h, c.w, c.h)
		}
	}
}

func TestContainRectCentersTheImage(t *testing.T) {
	// Wide view: height limits, horizontal bars.
	x, y, w, h, s := ContainRect(800, 600, 1000, 600)
	if s != 1 || w != 800 || h != 600 || x != 100 || y != 0 {
		t.Fatalf("wide: %v %v %v %v %v", x, y, w, h, s)
	}
	// Tall view: width limits, vertical bars.
	x, y, w, h, s = ContainRect(800, 600, 400, 600)
	if s != 0.5 || w != 400 || h != 300 || x != 0 || y != 150 {
		t.Fatalf("tall: %v %v %v %v %v", x, y, w, h, s)
	}
	if _, _, w, _, _ := ContainRect(0, 600, 400, 600); w != 0 {
		t.Fatalf("empty image should give an empty rect")
	}
}

func TestViewToImageRoundTrip(t *testing.T) {
	sizes := [][4]float32{{800, 600, 800, 600}, {800, 600, 1200, 700}, {640, 480, 320, 900}}
	for _, s := range sizes {
		for _, p := range [][2]float64{{0, 0}, {100.5, 200.25}, {639, 479}} {
			vx, vy := ImageToView(p[0], p[1], s[0], s[1], s[2], s[3])
			px, py, ok := ViewToImage(vx, vy, s[0], s[1], s[2], s[3])
			if !ok || math.Abs(px-p[0]) > 0.01 || math.Abs(py-p[1]) > 0.01 {
				t.Fatalf("size %v point %v: got %v,%v ok=%v", s, p, px, py, ok)
			}
		}
	}
	if _, _, ok := ViewToImage(10, 10, 800, 600, 1000, 600); ok {
		t.Fatalf("point in the side bar should be outside the image")
	}
}

func TestFormatCoordinate(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		1234.56:   "1234.6",
		3.14159:   "3.142",
		0.0123456: "0.01235",
		2.5e7:     "2.500e+07",
		-0.00001:  "-1.000e-05",
	}
	for in, want := range cases {
		if got := FormatCoordinate(in); got != want {
			t.Fatalf("FormatCoordinate(%v) = %q want %q", in, got, want)
		}
	}
}
