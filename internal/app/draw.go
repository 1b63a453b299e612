package app

import (
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/clustergraph/internal/render"
)

var (
	background  = color.RGBA{0x03, 0x07, 0x12, 0xff}
	panelFill   = color.RGBA{0x11, 0x18, 0x27, 0xff}
	panelBorder = color.RGBA{0x37, 0x41, 0x51, 0xff}
	buttonFill  = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	emptyBorder = color.RGBA{0x1f, 0x29, 0x37, 0xff}
)

const (
	buttonW      = 48
	buttonH      = 22
	buttonMargin = 12
)

type rect struct {
	x, y, w, h float64
}

func (r rect) contains(px, py float64) bool {
	return px >= r.x && px <= r.x+r.w && py >= r.y && py <= r.y+r.h
}

func resetButton(width, height int) rect {
	return rect{
		x: float64(width) - buttonW - buttonMargin,
		y: float64(height) - buttonH - buttonMargin,
		w: buttonW,
		h: buttonH,
	}
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	if g.frame.Empty {
		g.drawEmpty(screen)
		return
	}

	for _, e := range g.frame.Edges {
		vector.StrokeLine(screen, float32(e.X1), float32(e.Y1), float32(e.X2), float32(e.Y2),
			float32(e.Width), fade(render.EdgeColor, e.Opacity), true)
	}

	for _, n := range g.frame.Nodes {
		vector.DrawFilledCircle(screen, float32(n.X), float32(n.Y), float32(n.R),
			fade(n.Fill, render.FillOpacity), true)
		vector.StrokeCircle(screen, float32(n.X), float32(n.Y), float32(n.R),
			render.StrokeWidth, fade(n.Fill, render.StrokeOpacity), true)
		if n.Label != "" {
			w := utf8.RuneCountInString(n.Label) * render.GlyphWidth
			ebitenutil.DebugPrintAt(screen, n.Label, int(n.X)-w/2, int(n.Y)-render.LineHeight/2)
		}
	}

	if t := g.frame.Tooltip; t != nil {
		vector.DrawFilledRect(screen, float32(t.Left), float32(t.Top), float32(t.Width), float32(t.Height), panelFill, false)
		vector.StrokeRect(screen, float32(t.Left), float32(t.Top), float32(t.Width), float32(t.Height), 1, panelBorder, false)
		for i, line := range t.Lines {
			ebitenutil.DebugPrintAt(screen, line, int(t.Left)+render.TooltipPadX, int(t.Top)+render.TooltipPadY+i*render.LineHeight)
		}
	}

	b := resetButton(g.Width, g.Height)
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), buttonFill, false)
	ebitenutil.DebugPrintAt(screen, "Reset", int(b.x)+9, int(b.y)+3)

	ebitenutil.DebugPrintAt(screen, g.status(), 8, 4)
}

// drawEmpty paints the no-data state in place of the graph.
func (g *Game) drawEmpty(screen *ebiten.Image) {
	w, h := float64(g.Width), float64(g.Height)
	vector.StrokeRect(screen, 4, 4, float32(w-8), float32(h-8), 1, emptyBorder, false)
	msg := g.frame.Message
	x := int(w/2) - utf8.RuneCountInString(msg)*render.GlyphWidth/2
	y := int(h/2) - render.LineHeight/2
	ebitenutil.DebugPrintAt(screen, msg, x, y)
}

// fade returns c at opacity a.
func fade(c color.RGBA, a float64) color.NRGBA {
	a = math.Max(0, math.Min(1, a))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a * 255))}
}
