package scale

import (
	"math"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

// maxTicks bounds the number of major ticks a single division may produce.
const maxTicks = 1000

// MinorIntervals converts a user minor tick count into the number of minor
// intervals per major step: 1 → 3, n>1 → n+1, otherwise n (0 disables).
func MinorIntervals(minorTicks int) int {
	switch {
	case minorTicks == 1:
		return 3
	case minorTicks > 1:
		return minorTicks + 1
	case minorTicks < 0:
		return 0
	default:
		return minorTicks
	}
}

// Divide computes the tick layout of [lo, hi]. lo and hi are normalized so
// lo ≤ hi; inverted swaps the resulting bounds and reverses both tick lists.
// A step ≤ 0 selects an automatic step (decades for Log10).
func Divide(lo, hi float64, majorTicks, minorTicks int, step float64, tr render.Transform, inverted bool) render.Division {
	if lo > hi {
		lo, hi = hi, lo
	}
	if majorTicks < 1 {
		majorTicks = 1
	}
	var d render.Division
	if tr == render.Log10 {
		d = divideLog(lo, hi, majorTicks, MinorIntervals(minorTicks), step)
	} else {
		lo, hi = widen(lo, hi)
		d = divideLinear(lo, hi, majorTicks, MinorIntervals(minorTicks), step)
	}
	if inverted {
		d.Lo, d.Hi = d.Hi, d.Lo
		reverse(d.Major)
		reverse(d.Minor)
	}
	return d
}

// widen makes degenerate ranges usable.
func widen(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 0.5
	}
	return lo - pad, hi + pad
}

// NiceStep rounds raw up to the 1, 2, 2.5, 5 × 10^k pattern.
func NiceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	norm := raw / mag
	switch {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 2.5:
		return 2.5 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func divideLinear(lo, hi float64, majorTicks, minorIntervals int, step float64) render.Division {
	span := hi - lo
	if step <= 0 {
		step = NiceStep(span / float64(majorTicks))
	}
	if span/step > maxTicks {
		step = NiceStep(span / maxTicks)
	}
	d := render.Division{Lo: lo, Hi: hi}
	eps := step * 1e-9
	first := math.Ceil((lo-eps)/step) * step
	for i := 0; ; i++ {
		v := snap(first+float64(i)*step, step)
		if v > hi+eps {
			break
		}
		d.Major = append(d.Major, v)
	}
	if minorIntervals > 1 {
		mstep := step / float64(minorIntervals)
		for i := -1; ; i++ {
			base := first + float64(i)*step
			if base > hi+eps {
				break
			}
			for k := 1; k < minorIntervals; k++ {
				v := snap(base+float64(k)*mstep, mstep)
				if v >= lo-eps && v <= hi+eps {
					d.Minor = append(d.Minor, v)
				}
			}
		}
	}
	return d
}

// snap removes float noise around zero.
func snap(v, step float64) float64 {
	if math.Abs(v) < math.Abs(step)*1e-9 {
		return 0
	}
	return v
}

// minorMultipliers returns the in-decade minor positions for a given count.
func minorMultipliers(n int) []float64 {
	switch {
	case n <= 1:
		return nil
	case n == 2:
		return []float64{5}
	case n <= 4:
		return []float64{2, 5}
	case n <= 8:
		return []float64{2, 4, 6, 8}
	default:
		return []float64{2, 3, 4, 5, 6, 7, 8, 9}
	}
}

func divideLog(lo, hi float64, majorTicks, minorIntervals int, step float64) render.Division {
	if hi <= 0 {
		lo, hi = 0.1, 10
	}
	if lo <= 0 {
		lo = hi * 1e-3
	}
	if lo == hi {
		lo, hi = lo/10, hi*10
	}
	llo, lhi := math.Log10(lo), math.Log10(hi)
	var decades float64
	if step > 1 {
		decades = math.Max(1, math.Round(math.Log10(step)))
	} else {
		decades = math.Max(1, math.Ceil((lhi-llo)/float64(majorTicks)))
	}
	d := render.Division{Lo: lo, Hi: hi}
	const eps = 1e-9
	first := math.Ceil((llo-eps)/decades) * decades
	for e := first; e <= lhi+eps; e += decades {
		d.Major = append(d.Major, math.Pow(10, e))
	}
	if len(d.Major) == 0 {
		// Range inside a single decade: linear ticks read better.
		lin := divideLinear(lo, hi, majorTicks, minorIntervals, 0)
		lin.Lo, lin.Hi = lo, hi
		return lin
	}
	if decades > 1 {
		if minorIntervals > 0 {
			for e := math.Floor(llo); e <= lhi+eps; e++ {
				if math.Mod(e-first, decades) == 0 {
					continue
				}
				if v := math.Pow(10, e); v >= lo*(1-eps) && v <= hi*(1+eps) {
					d.Minor = append(d.Minor, v)
				}
			}
		}
		return d
	}
	mults := minorMultipliers(minorIntervals)
	for e := math.Floor(llo); e <= math.Ceil(lhi); e++ {
		base := math.Pow(10, e)
		for _, m := range mults {
			if v := m * base; v >= lo*(1-eps) && v <= hi*(1+eps) {
				d.Minor = append(d.Minor, v)
			}
		}
	}
	return d
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
