package bridge

import (
	"github.com/chewxy/math32"
	"github.com/hubastard/grovegui/engine/colors"
	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/imui"
)

// PosToVec moves the origin of p from the top-left to the bottom-left of a
// surface of the given height.
func PosToVec(p imui.Pos2, height float32) [2]float32 {
	return [2]float32{p.X, height - p.Y}
}

// HostToUI maps a host pointer position onto the UI library's coordinates. It
// is the exact inverse of PosToVec for the same height.
func HostToUI(x, y float64, height float32) imui.Pos2 {
	return imui.Pos2{X: float32(x), Y: height - float32(y)}
}

// ClipViewport converts a clip rect into a backend viewport inside an fbW x fbH
// framebuffer. Edges are rounded outwards so nothing visible is cut off.
func ClipViewport(clip imui.Rect, fbW, fbH int) core.Viewport {
	h := float32(fbH)
	a, b := PosToVec(clip.Min, h), PosToVec(clip.Max, h)

	minX := math32.Floor(math32.Min(a[0], b[0]))
	minY := math32.Floor(math32.Min(a[1], b[1]))
	maxX := math32.Ceil(math32.Max(a[0], b[0]))
	maxY := math32.Ceil(math32.Max(a[1], b[1]))

	x0, y0 := clampInt(int(minX), 0, fbW), clampInt(int(minY), 0, fbH)
	x1, y1 := clampInt(int(maxX), x0, fbW), clampInt(int(maxY), y0, fbH)
	return core.Viewport{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Vertex is the backend layout of a textured vertex.
type Vertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color colors.Color
}

const vertexFloats = 8

var vertexLayout = core.VertexLayout{
	Stride: vertexFloats * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},     // a_pos
		{Location: 1, Size: 2, Type: core.AttribFloat32, Offset: 2 * 4}, // a_vt
		{Location: 2, Size: 4, Type: core.AttribFloat32, Offset: 4 * 4}, // a_color
	},
}

// TexturedVertex converts a UI vertex into backend space. UVs are flipped
// because backend textures store row 0 at the bottom.
func TexturedVertex(v imui.Vertex, height float32) Vertex {
	return Vertex{
		Pos:   PosToVec(v.Pos, height),
		UV:    PosToVec(v.UV, 1),
		Color: colors.FromRGBA8(v.Color.R(), v.Color.G(), v.Color.B(), v.Color.A()),
	}
}

func (v Vertex) appendTo(dst []float32) []float32 {
	return append(dst,
		v.Pos[0], v.Pos[1],
		v.UV[0], v.UV[1],
		v.Color[0], v.Color[1], v.Color[2], v.Color[3],
	)
}
