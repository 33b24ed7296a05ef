package markers

import (
	"regexp"
	"strconv"
	"strings"
)

// LegendEntry is one legend line. Index is the 1-based position of the
// curve whose swatch the line shows; 0 marks free text.
type LegendEntry struct {
	Index int
	Label string
}

// Legend is the structured content of the legend marker.
type Legend struct {
	Entries []LegendEntry
}

var curveRef = regexp.MustCompile(`^\\c\{(\d+)\}`)

// String renders the legend as marker text, one `\c{N}label` line per entry.
func (l Legend) String() string {
	lines := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		if e.Index > 0 {
			lines[i] = `\c{` + strconv.Itoa(e.Index) + `}` + e.Label
		} else {
			lines[i] = e.Label
		}
	}
	return strings.Join(lines, "\n")
}

// ParseLegend reads legend text back into entries.
func ParseLegend(text string) Legend {
	if text == "" {
		return Legend{}
	}
	var l Legend
	for _, line := range strings.Split(text, "\n") {
		if m := curveRef.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			l.Entries = append(l.Entries, LegendEntry{Index: n, Label: line[len(m[0]):]})
			continue
		}
		l.Entries = append(l.Entries, LegendEntry{Label: line})
	}
	return l
}

// Indices returns the curve indices the legend references, in line order.
func (l Legend) Indices() []int {
	var out []int
	for _, e := range l.Entries {
		if e.Index > 0 {
			out = append(out, e.Index)
		}
	}
	return out
}

func (l Legend) clone() Legend {
	return Legend{Entries: append([]LegendEntry(nil), l.Entries...)}
}

// dropCurve removes the line of the curve at 1-based index n and shifts the
// following references down by one.
func (l *Legend) dropCurve(n int) {
	out := l.Entries[:0]
	for _, e := range l.Entries {
		switch {
		case e.Index == n:
			continue
		case e.Index > n:
			e.Index--
		}
		out = append(out, e)
	}
	l.Entries = out
}
