package ui

import (
	"strings"
)

// ProgressBar renders a fixed-width bar for a 0-100 value.
func ProgressBar(s Styles, width, value int) string {
	if width < 10 {
		width = 10
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := width * value / 100
	var b strings.Builder
	b.WriteString(s.BarFilled.Render(strings.Repeat("█", filled)))
	b.WriteString(s.BarEmpty.Render(strings.Repeat("░", width-filled)))
	return b.String()
}

// visualizerGlyphs cycle while the anchor image is still pending. The
// placeholder shows regardless of bar progress until the image resolves.
var visualizerGlyphs = []string{"◜", "◠", "◝", "◞", "◡", "◟"}

// VisualizerFrame renders one frame of the placeholder visualizer. The
// pattern densifies as the counter climbs.
func VisualizerFrame(s Styles, width, progress int) string {
	if width < 12 {
		width = 12
	}
	glyph := visualizerGlyphs[(progress/4)%len(visualizerGlyphs)]
	density := 1 + progress/25
	cell := glyph + strings.Repeat("·", 4-minInt(3, density))
	line := strings.Repeat(cell, width/len(cell))
	return s.Tagline.Render(line)
}

// BurstFrame renders the commit burst overlay.
func BurstFrame(s Styles, width int) string {
	if width < 12 {
		width = 12
	}
	return s.Accent.Render(strings.Repeat("✦ ", width/2))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
