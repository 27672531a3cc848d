// Package renderer2d batches colored and textured quads into as few draw
// calls as possible. It is meant for custom paint callbacks that draw a scene
// inside a region of the UI.
package renderer2d

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/hubastard/grovegui/engine/assets"
	"github.com/hubastard/grovegui/engine/colors"
	"github.com/hubastard/grovegui/engine/core"
)

// Max textures per batch; must match uTex in quad2d.frag.
const maxTexSlots = 8

// Vertex: pos2 + color4 + uv2 + texIndex1 => 9 floats
const vStride = 9
const vertsPerQuad = 4
const indsPerQuad = 6

var quadVertexLayout = core.VertexLayout{
	Stride: vStride * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},     // pos
		{Location: 1, Size: 4, Type: core.AttribFloat32, Offset: 2 * 4}, // color
		{Location: 2, Size: 2, Type: core.AttribFloat32, Offset: 6 * 4}, // uv
		{Location: 3, Size: 1, Type: core.AttribFloat32, Offset: 8 * 4}, // texIndex
	},
}

// Statistics captures the counts generated during a scene.
type Statistics struct {
	DrawCalls    int
	QuadCount    int
	TextureCount int
}

// TotalVertexCount reports vertices submitted this scene.
func (s Statistics) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }

// TotalIndexCount reports indices submitted this scene.
func (s Statistics) TotalIndexCount() int { return s.QuadCount * indsPerQuad }

type Renderer2D struct {
	r      core.Renderer
	pipe   core.Pipeline
	white  core.Texture // 1x1 white (slot 0)
	texArr [maxTexSlots]core.Texture
	texCnt int

	verts     []float32
	inds      []uint32
	quadCount int
	maxQuads  int

	mesh     core.Mesh
	samplers map[string]core.Texture
	uniforms map[string]any
	texNames [maxTexSlots]string

	target   core.Framebuffer
	viewport *core.Viewport
	vp       [16]float32
	stats    Statistics
	inScene  bool
}

// New compiles the quad pipeline and allocates a streaming mesh.
func New(r core.Renderer, maxQuads int) (*Renderer2D, error) {
	if maxQuads <= 0 {
		maxQuads = 10000
	}
	vs, fs, err := assets.LoadProgram("quad2d")
	if err != nil {
		return nil, err
	}
	pipe, err := r.CreatePipeline(core.PipelineDesc{
		VertexSource:   vs,
		FragmentSource: fs,
		Blend:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("quad2d pipeline: %w", err)
	}

	// build 1x1 white texture
	white, err := r.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format:    core.TextureRGBA8,
		Pixels:    []byte{255, 255, 255, 255},
		MinFilter: core.FilterNearest, MagFilter: core.FilterNearest,
		WrapU: core.WrapClamp, WrapV: core.WrapClamp,
	})
	if err != nil {
		r.DeletePipeline(pipe)
		return nil, fmt.Errorf("quad2d white texture: %w", err)
	}

	mesh, err := r.CreateMesh(core.MeshDesc{Layout: quadVertexLayout, Dynamic: true})
	if err != nil {
		r.DeleteTexture(white)
		r.DeletePipeline(pipe)
		return nil, fmt.Errorf("quad2d mesh: %w", err)
	}

	rd := &Renderer2D{
		r: r, pipe: pipe, white: white, mesh: mesh, maxQuads: maxQuads,
		verts:    make([]float32, 0, maxQuads*vertsPerQuad*vStride),
		inds:     make([]uint32, 0, maxQuads*indsPerQuad),
		samplers: make(map[string]core.Texture, maxTexSlots),
		uniforms: make(map[string]any, 1),
	}
	for i := 0; i < maxTexSlots; i++ {
		rd.texNames[i] = "uTex[" + strconv.Itoa(i) + "]"
	}
	return rd, nil
}

// BeginScene starts batching quads for target. With a viewport, drawing is
// confined to it and vp maps into it.
func (rd *Renderer2D) BeginScene(target core.Framebuffer, viewport *core.Viewport, vp [16]float32) {
	rd.target = target
	rd.viewport = nil
	if viewport != nil {
		v := *viewport
		rd.viewport = &v
	}
	rd.vp = vp
	rd.stats = Statistics{}
	rd.inScene = true
	rd.resetBatch()
}

func (rd *Renderer2D) EndScene() {
	rd.flush()
	rd.inScene = false
	rd.target = nil
}

// Stats returns the current scene statistics snapshot.
func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// Draw solid color quad centered on (x, y) (uses white texture in slot 0)
func (rd *Renderer2D) DrawQuad(x, y, w, h float32, color colors.Color, rotationRad float32) {
	rd.ensureQuadCapacity()
	rd.drawQuadInternal(x, y, w, h, color, rotationRad, rd.texSlot(rd.white), 0, 0, 1, 1)
}

// Draw textured quad (tint color)
func (rd *Renderer2D) DrawTexturedQuad(x, y, w, h float32, tex core.Texture, tint colors.Color, rotationRad float32) {
	rd.DrawTexturedQuadUV(x, y, w, h, tex, tint, rotationRad, 0, 0, 1, 1)
}

// Draw textured sub-rect (UV rect: u0,v0 -> u1,v1, top-left origin)
func (rd *Renderer2D) DrawTexturedQuadUV(x, y, w, h float32, tex core.Texture, tint colors.Color, rotationRad float32, u0, v0, u1, v1 float32) {
	rd.ensureQuadCapacity()
	slot := rd.texSlot(tex)
	rd.drawQuadInternal(x, y, w, h, tint, rotationRad, slot, u0, v0, u1, v1)
}

// Destroy releases the pipeline, mesh and white texture.
func (rd *Renderer2D) Destroy() {
	rd.r.DeleteMesh(rd.mesh)
	rd.r.DeleteTexture(rd.white)
	rd.r.DeletePipeline(rd.pipe)
}

// --- internals ---

func (rd *Renderer2D) texSlot(t core.Texture) float32 {
	for i := 0; i < rd.texCnt; i++ {
		if rd.texArr[i] == t {
			return float32(i)
		}
	}
	// need a new slot
	if rd.texCnt >= maxTexSlots {
		// flush and reset texture bindings
		rd.flush()
	}
	rd.texArr[rd.texCnt] = t
	rd.texCnt++
	if rd.texCnt > rd.stats.TextureCount {
		rd.stats.TextureCount = rd.texCnt
	}
	return float32(rd.texCnt - 1)
}

func (rd *Renderer2D) drawQuadInternal(x, y, w, h float32, color colors.Color, rotationRad float32, texIndex float32, u0, v0, u1, v1 float32) {
	halfW := w * 0.5
	halfH := h * 0.5

	// corners (TL, TR, BL, BR) with UVs, y up.
	corners := [4][4]float32{
		{-halfW, halfH, u0, v0},
		{halfW, halfH, u1, v0},
		{-halfW, -halfH, u0, v1},
		{halfW, -halfH, u1, v1},
	}
	s, c := math32.Sincos(rotationRad)

	startVertex := uint32(len(rd.verts) / vStride)
	for _, p := range corners {
		rx := p[0]*c - p[1]*s + x
		ry := p[0]*s + p[1]*c + y
		rd.verts = append(rd.verts,
			rx, ry,
			color[0], color[1], color[2], color[3],
			p[2], p[3],
			texIndex,
		)
	}
	rd.inds = append(rd.inds,
		startVertex+0, startVertex+2, startVertex+1,
		startVertex+1, startVertex+2, startVertex+3,
	)
	rd.quadCount++
	rd.stats.QuadCount++
}

func (rd *Renderer2D) flush() {
	if rd.quadCount == 0 {
		return
	}
	if !rd.inScene {
		rd.resetBatch()
		return
	}

	if err := rd.r.UpdateMesh(rd.mesh, rd.verts, rd.inds); err != nil {
		// The batch is lost; the next one may still fit.
		rd.resetBatch()
		return
	}

	clear(rd.samplers)
	for i := 0; i < rd.texCnt; i++ {
		rd.samplers[rd.texNames[i]] = rd.texArr[i]
	}
	rd.uniforms["uVP"] = rd.vp

	rd.r.Draw(core.DrawCmd{
		Target:   rd.target,
		Pipe:     rd.pipe,
		Mesh:     rd.mesh,
		Mode:     core.DrawTriangles,
		Uniforms: rd.uniforms,
		Samplers: rd.samplers,
		Blend:    core.BlendStraightAlpha,
		Viewport: rd.viewport,
	})
	rd.stats.DrawCalls++

	rd.resetBatch()
}

func (rd *Renderer2D) resetBatch() {
	rd.verts = rd.verts[:0]
	rd.inds = rd.inds[:0]
	rd.quadCount = 0
	for i := range rd.texArr {
		rd.texArr[i] = nil
	}
	rd.texArr[0] = rd.white
	rd.texCnt = 1
	if rd.stats.TextureCount < rd.texCnt {
		rd.stats.TextureCount = rd.texCnt
	}
}

func (rd *Renderer2D) ensureQuadCapacity() {
	if rd.quadCount >= rd.maxQuads {
		rd.flush()
	}
}
