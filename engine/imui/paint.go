package imui

import "math"

// Vertex is a tessellated vertex in UI space.
type Vertex struct {
	Pos   Pos2
	UV    Pos2 // (0,0) is the top-left texel
	Color Color32
}

// Mesh is a textured triangle list.
type Mesh struct {
	Indices  []uint32 // triples
	Vertices []Vertex
	Texture  TextureID
}

func NewMesh(tex TextureID) *Mesh { return &Mesh{Texture: tex} }

func (m *Mesh) IsEmpty() bool { return len(m.Indices) == 0 }

// AddTriangle appends one triangle referencing existing vertices.
func (m *Mesh) AddTriangle(a, b, c uint32) { m.Indices = append(m.Indices, a, b, c) }

// AddRectWithUV appends a quad covering rect that samples uv.
func (m *Mesh) AddRectWithUV(rect, uv Rect, color Color32) {
	i := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Pos: rect.Min, UV: uv.Min, Color: color},
		Vertex{Pos: Pos2{rect.Max.X, rect.Min.Y}, UV: Pos2{uv.Max.X, uv.Min.Y}, Color: color},
		Vertex{Pos: Pos2{rect.Min.X, rect.Max.Y}, UV: Pos2{uv.Min.X, uv.Max.Y}, Color: color},
		Vertex{Pos: rect.Max, UV: uv.Max, Color: color},
	)
	m.AddTriangle(i, i+1, i+2)
	m.AddTriangle(i+2, i+1, i+3)
}

// Primitive is what a clipped primitive renders.
type Primitive interface{ isPrimitive() }

func (*Mesh) isPrimitive() {}

// PaintCallback asks the painter to run host code inside Rect.
type PaintCallback struct {
	Rect Rect
	// Callback is owned by the painter backend; it decides which concrete types
	// it understands.
	Callback any
}

func (PaintCallback) isPrimitive() {}

type ClippedPrimitive struct {
	ClipRect  Rect
	Primitive Primitive
}

// ClippedShape is an untessellated shape; only the UI library looks inside.
type ClippedShape struct {
	ClipRect Rect
	Shape    any
}

// PaintCallbackInfo is handed to a paint callback.
type PaintCallbackInfo struct {
	Viewport       Rect
	ClipRect       Rect
	PixelsPerPoint float32
	ScreenSizePx   [2]uint32
}

// ViewportInPixels is a rect in physical pixels, both from the top and from
// the bottom of the screen.
type ViewportInPixels struct {
	LeftPx       int32
	TopPx        int32
	FromBottomPx int32
	WidthPx      int32
	HeightPx     int32
}

func (info PaintCallbackInfo) ViewportInPixels() ViewportInPixels {
	return info.pixels(info.Viewport)
}

func (info PaintCallbackInfo) ClipRectInPixels() ViewportInPixels {
	return info.pixels(info.ClipRect)
}

func (info PaintCallbackInfo) pixels(r Rect) ViewportInPixels {
	ppp := float64(info.PixelsPerPoint)
	sw, sh := float64(info.ScreenSizePx[0]), float64(info.ScreenSizePx[1])

	left := clamp64(math.Round(float64(r.Min.X)*ppp), 0, sw)
	right := clamp64(math.Round(float64(r.Max.X)*ppp), left, sw)
	top := clamp64(math.Round(float64(r.Min.Y)*ppp), 0, sh)
	bottom := clamp64(math.Round(float64(r.Max.Y)*ppp), top, sh)

	return ViewportInPixels{
		LeftPx:       int32(left),
		TopPx:        int32(top),
		FromBottomPx: int32(sh - bottom),
		WidthPx:      int32(right - left),
		HeightPx:     int32(bottom - top),
	}
}

func clamp64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FullOutput is what EndFrame returns.
type FullOutput struct {
	Shapes        []ClippedShape
	TexturesDelta TexturesDelta
}

// Context is the frame API of the UI library.
type Context interface {
	BeginFrame(in RawInput)
	EndFrame() FullOutput
	Tessellate(shapes []ClippedShape) []ClippedPrimitive
	PixelsPerPoint() float32
	TexManager() TextureAllocator
}
