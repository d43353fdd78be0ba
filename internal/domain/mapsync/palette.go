package mapsync

import "strings"

// The category set is closed and known at design time, so the palette is
// a finite mapping with an explicit default rather than dynamic dispatch.
var categoryColors = map[string]string{
	"restaurant":    "#e74c3c",
	"cafe":          "#a0522d",
	"bar":           "#8e44ad",
	"park":          "#27ae60",
	"museum":        "#2980b9",
	"shopping":      "#f39c12",
	"hotel":         "#16a085",
	"entertainment": "#d35400",
}

const defaultMarkerColor = "#7f8c8d"

// colorForCategory resolves a marker color; unknown categories map to the
// fixed default.
func colorForCategory(category string) string {
	if c, ok := categoryColors[strings.ToLower(category)]; ok {
		return c
	}
	return defaultMarkerColor
}
