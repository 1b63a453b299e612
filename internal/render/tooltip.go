package render

import (
	"strings"
	"unicode/utf8"
)

// Debug font metrics and panel insets used to measure the tooltip.
const (
	GlyphWidth  = 6
	LineHeight  = 16
	TooltipPadX = 8
	TooltipPadY = 6
)

const (
	tooltipGap       = 12
	tooltipLift      = 10
	tooltipEdgePad   = 8
	tooltipWrapRunes = 33 // about 200px of debug font
)

// Tooltip is a measured, placed text panel in screen pixels.
type Tooltip struct {
	Left, Top     float64
	Width, Height float64
	Lines         []string
}

// NewTooltip measures a panel for lines. It is unplaced.
func NewTooltip(lines []string) *Tooltip {
	w := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > w {
			w = n
		}
	}
	return &Tooltip{
		Width:  float64(w*GlyphWidth + 2*TooltipPadX),
		Height: float64(len(lines)*LineHeight + 2*TooltipPadY),
		Lines:  lines,
	}
}

// Place positions the measured panel next to the pointer.
func (t *Tooltip) Place(px, py, screenW, screenH float64) {
	t.Left, t.Top = PlaceTooltip(px, py, t.Width, t.Height, screenW, screenH)
}

// PlaceTooltip returns the top-left corner for a w×h panel near the
// pointer. The panel sits right of and slightly above the pointer, flips
// to the other side when it would cross the right or bottom edge, and
// keeps the edge padding from every side of the screen.
func PlaceTooltip(px, py, w, h, screenW, screenH float64) (left, top float64) {
	left = px + tooltipGap
	top = py - tooltipLift
	if left+w+tooltipEdgePad > screenW {
		left = px - w - tooltipGap
	}
	if top+h+tooltipEdgePad > screenH {
		top = py - h - tooltipGap
	}
	// A panel wider than the space on either side is pushed back inside;
	// the left and top clamps win when it cannot fit at all.
	if left+w+tooltipEdgePad > screenW {
		left = screenW - w - tooltipEdgePad
	}
	if top+h+tooltipEdgePad > screenH {
		top = screenH - h - tooltipEdgePad
	}
	if left < tooltipEdgePad {
		left = tooltipEdgePad
	}
	if top < tooltipEdgePad {
		top = tooltipEdgePad
	}
	return left, top
}

// Wrap breaks text on spaces into lines of at most width runes. Words
// longer than width are split.
func Wrap(text string, width int) []string {
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = cur[:0]
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			lines = append(lines, string(cur))
			cur = append(cur[:0], w...)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
