// Package viewport maps a world-space rectangle onto the pixel box of the
// rendering surface and implements anchored zoom, pan and pinch.
package viewport

import "math"

// Reference wheel factors. Values above 1 widen the visible world.
const (
	ZoomOutFactor = 1.1
	ZoomInFactor  = 0.9
)

// Viewport is the world rectangle currently shown. W and H stay positive.
type Viewport struct {
	X, Y, W, H float64
}

// Box is the on-screen pixel rectangle occupied by the surface.
type Box struct {
	Left, Top, Width, Height float64
}

// Controller holds the live viewport and the measured box.
type Controller struct {
	vp  Viewport
	box Box
}

// New returns a controller showing the box at world origin, one world unit
// per pixel.
func New(box Box) *Controller {
	c := &Controller{}
	c.Resize(box)
	return c
}

// Viewport returns the current world rectangle.
func (c *Controller) Viewport() Viewport { return c.vp }

// Box returns the measured pixel box.
func (c *Controller) Box() Box { return c.box }

// Set replaces the viewport. Rectangles without positive finite
// dimensions are ignored.
func (c *Controller) Set(vp Viewport) {
	if !valid(vp) {
		return
	}
	c.vp = vp
}

// Resize records a new pixel box and resets the view to it. Empty boxes
// are ignored.
func (c *Controller) Resize(box Box) {
	if box.Width <= 0 || box.Height <= 0 {
		return
	}
	c.box = box
	c.Reset()
}

// Reset shows the measured box 1:1 at the world origin.
func (c *Controller) Reset() {
	c.vp = Viewport{X: 0, Y: 0, W: c.box.Width, H: c.box.Height}
}

// ScreenToWorld converts a pixel position to world coordinates.
func (c *Controller) ScreenToWorld(px, py float64) (float64, float64) {
	return ScreenToWorld(c.vp, c.box, px, py)
}

// WorldToScreen converts a world position to pixels.
func (c *Controller) WorldToScreen(wx, wy float64) (float64, float64) {
	return WorldToScreen(c.vp, c.box, wx, wy)
}

// Scale returns pixels per world unit along each axis.
func (c *Controller) Scale() (float64, float64) {
	return c.box.Width / c.vp.W, c.box.Height / c.vp.H
}

// Zoom multiplies the viewport size by factor, keeping the world point
// under (px, py) fixed on screen.
func (c *Controller) Zoom(px, py, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	wx, wy := c.ScreenToWorld(px, py)
	c.Set(zoomAbout(c.vp, wx, wy, factor))
}

// Wheel zooms out for positive deltaY and in otherwise, as a browser
// wheel does.
func (c *Controller) Wheel(px, py, deltaY float64) {
	switch {
	case deltaY > 0:
		c.Zoom(px, py, ZoomOutFactor)
	case deltaY < 0:
		c.Zoom(px, py, ZoomInFactor)
	}
}

// PanFrom sets the viewport to start translated by the screen delta from
// (sx0, sy0) to (sx, sy), converted to world units.
func (c *Controller) PanFrom(start Viewport, sx0, sy0, sx, sy float64) {
	kx := start.W / c.box.Width
	ky := start.H / c.box.Height
	c.Set(Viewport{
		X: start.X - (sx-sx0)*kx,
		Y: start.Y - (sy-sy0)*ky,
		W: start.W,
		H: start.H,
	})
}

// PinchFrom zooms start by initialDist/dist anchored at the screen point
// (cx, cy), which is resolved against start rather than the live viewport.
func (c *Controller) PinchFrom(start Viewport, cx, cy, initialDist, dist float64) {
	if initialDist <= 0 || dist <= 0 {
		return
	}
	wx, wy := ScreenToWorld(start, c.box, cx, cy)
	c.Set(zoomAbout(start, wx, wy, initialDist/dist))
}

// ScreenToWorld converts a pixel position against an arbitrary viewport.
func ScreenToWorld(vp Viewport, box Box, px, py float64) (float64, float64) {
	return vp.X + (px-box.Left)*vp.W/box.Width,
		vp.Y + (py-box.Top)*vp.H/box.Height
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(vp Viewport, box Box, wx, wy float64) (float64, float64) {
	return box.Left + (wx-vp.X)*box.Width/vp.W,
		box.Top + (wy-vp.Y)*box.Height/vp.H
}

// zoomAbout solves w - x' = (w - x)·f for the new origin so the anchor
// keeps its relative place in the rectangle.
func zoomAbout(vp Viewport, wx, wy, f float64) Viewport {
	return Viewport{
		X: wx - (wx-vp.X)*f,
		Y: wy - (wy-vp.Y)*f,
		W: vp.W * f,
		H: vp.H * f,
	}
}

func valid(vp Viewport) bool {
	for _, v := range []float64{vp.X, vp.Y, vp.W, vp.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return vp.W > 0 && vp.H > 0
}
