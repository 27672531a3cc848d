package scene

import "github.com/chewxy/math32"

// OrthoCamera2D looks at the world plane from (X, Y). Its view-projection
// matrix is column-major, ready for a mat4 uniform.
type OrthoCamera2D struct {
	Left, Right, Bottom, Top float32
	Near, Far                float32
	X, Y                     float32
	RotationRad              float32
	Zoom                     float32 // 1 = no zoom
	vp                       Mat4
	dirty                    bool
}

// Mat4 is a column-major 4x4 matrix: element (row r, col c) is at r+4*c.
type Mat4 = [16]float32

// NewOrtho2D returns a camera whose view spans width x height world units
// centered on the origin.
func NewOrtho2D(width, height int) *OrthoCamera2D {
	c := &OrthoCamera2D{Near: -1, Far: 1, Zoom: 1}
	c.SetViewportPixels(width, height)
	c.Recalculate()
	return c
}

func (c *OrthoCamera2D) SetViewportPixels(w, h int) {
	halfW := float32(w) * 0.5
	halfH := float32(h) * 0.5
	c.Left, c.Right = -halfW, halfW
	c.Bottom, c.Top = -halfH, halfH
	c.dirty = true
}

// SetPosition centers the camera on (x, y).
func (c *OrthoCamera2D) SetPosition(x, y float32) { c.X, c.Y = x, y; c.dirty = true }

func (c *OrthoCamera2D) Width() float32  { return c.Right - c.Left }
func (c *OrthoCamera2D) Height() float32 { return c.Top - c.Bottom }

func (c *OrthoCamera2D) Move(dx, dy float32) { c.X += dx; c.Y += dy; c.dirty = true }
func (c *OrthoCamera2D) Rotate(dRad float32) { c.RotationRad += dRad; c.dirty = true }

// SetZoom clamps z to 0.05 so the view never collapses.
func (c *OrthoCamera2D) SetZoom(z float32) {
	c.Zoom = math32.Max(z, 0.05)
	c.dirty = true
}

func (c *OrthoCamera2D) VP() Mat4 {
	if c.dirty {
		c.Recalculate()
	}
	return c.vp
}

// Recalculate rebuilds proj * R(-rot) * T(-pos): world points are moved to
// the camera, turned around it, then projected.
func (c *OrthoCamera2D) Recalculate() {
	z := c.Zoom
	proj := ortho(c.Left/z, c.Right/z, c.Bottom/z, c.Top/z, c.Near, c.Far)
	view := mul4(rotateZ(-c.RotationRad), translate(-c.X, -c.Y, 0))
	c.vp = mul4(proj, view)
	c.dirty = false
}

func translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

func rotateZ(a float32) Mat4 {
	s, c := math32.Sincos(a)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func ortho(l, r, b, t, n, f float32) Mat4 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}

// mul4 returns a*b, so b is applied to a point first.
func mul4(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[row+4*k] * b[k+4*col]
			}
			out[row+4*col] = sum
		}
	}
	return out
}
