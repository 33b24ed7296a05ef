package scale

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TickLabel renders value v as a tick label of axis p according to the
// axis type and label format.
func (e *Engine) TickLabel(p Position, v float64) string {
	if !p.Valid() {
		return ""
	}
	a := &e.axes[p]
	switch a.Type {
	case Date:
		origin, layout, err := ParseDateTimeInfo(a.FormatInfo)
		if err != nil {
			return FormatNumericTick(v)
		}
		return DateFromCoordinate(origin, v).Format(layout)
	case Time:
		origin, layout, err := ParseDateTimeInfo(a.FormatInfo)
		if err != nil {
			return FormatNumericTick(v)
		}
		return TimeFromCoordinate(origin, v).Format(layout)
	case Text, ColumnHeader:
		return textLabel(a.TextLabels, v)
	case WeekDay:
		return weekDayLabel(v, a.FormatInfo)
	case Month:
		return monthLabel(v, a.FormatInfo)
	}
	if fx := e.formula[p]; fx != nil {
		if y, err := fx.Eval(v); err == nil {
			v = y
		}
	}
	return FormatNumber(v, a.NumberFormat, a.Precision)
}

// FormatNumber renders v with the given numeric format and precision.
func FormatNumber(v float64, f NumericFormat, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	switch f {
	case Decimal:
		return strconv.FormatFloat(v, 'f', precision, 64)
	case Scientific:
		return strconv.FormatFloat(v, 'e', precision, 64)
	case Superscripts:
		return superscript(v, precision)
	}
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', precision+1, 64)
}

// FormatNumericTick provides a compact label scaled to the magnitude of v.
func FormatNumericTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	case av == 0:
		return "0"
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

var superDigits = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹', '-': '⁻',
}

// superscript renders v as "m×10ⁿ".
func superscript(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'e', precision, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	if n == 0 {
		return mant
	}
	var b strings.Builder
	b.WriteString(mant)
	b.WriteString("×10")
	for _, r := range strconv.Itoa(n) {
		b.WriteRune(superDigits[r])
	}
	return b.String()
}

// DateFromCoordinate converts a day count relative to origin into a time.
func DateFromCoordinate(origin time.Time, days float64) time.Time {
	return origin.Add(time.Duration(math.Round(days * 24 * float64(time.Hour))))
}

// DateCoordinate is the inverse of DateFromCoordinate.
func DateCoordinate(origin, t time.Time) float64 {
	return t.Sub(origin).Hours() / 24
}

// TimeFromCoordinate converts a second count relative to origin into a time.
func TimeFromCoordinate(origin time.Time, secs float64) time.Time {
	return origin.Add(time.Duration(math.Round(secs * float64(time.Second))))
}

// TimeCoordinate is the inverse of TimeFromCoordinate.
func TimeCoordinate(origin, t time.Time) float64 {
	return t.Sub(origin).Seconds()
}

// textLabel looks up the label of integer code v (1-based). Fractional
// and out-of-range positions are unlabelled.
func textLabel(labels []string, v float64) string {
	code := math.Round(v)
	if math.Abs(v-code) > 1e-6 || code < 1 || int(code) > len(labels) {
		return ""
	}
	return labels[int(code)-1]
}

// weekDayLabel labels v as a day of the week, 1 = Monday. Format "0" gives
// short names, "1" full names and "2" initials.
func weekDayLabel(v float64, format string) string {
	code := math.Round(v)
	if math.Abs(v-code) > 1e-6 {
		return ""
	}
	d := time.Weekday(((int(code) % 7) + 7) % 7)
	return nameFormat(d.String(), format)
}

// monthLabel labels v as a month, 1 = January, with the weekDayLabel formats.
func monthLabel(v float64, format string) string {
	code := math.Round(v)
	if math.Abs(v-code) > 1e-6 {
		return ""
	}
	m := time.Month(((int(code)-1)%12+12)%12 + 1)
	return nameFormat(m.String(), format)
}

func nameFormat(name, format string) string {
	switch format {
	case "1":
		return name
	case "2":
		return name[:1]
	}
	return name[:3]
}

// pickTimeStep maps a span to a readable tick step. Labels keep the
// layout of the axis format info.
func pickTimeStep(span time.Duration) time.Duration {
	switch {
	case span <= 2*time.Minute:
		return 10 * time.Second
	case span <= 10*time.Minute:
		return time.Minute
	case span <= 30*time.Minute:
		return 5 * time.Minute
	case span <= 2*time.Hour:
		return 10 * time.Minute
	case span <= 6*time.Hour:
		return 30 * time.Minute
	case span <= 24*time.Hour:
		return time.Hour
	case span <= 3*24*time.Hour:
		return 6 * time.Hour
	case span <= 14*24*time.Hour:
		return 24 * time.Hour
	case span <= 120*24*time.Hour:
		return 7 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}
