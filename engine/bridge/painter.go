package bridge

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/hubastard/grovegui/engine/assets"
	"github.com/hubastard/grovegui/engine/colors"
	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/imui"
	"github.com/hubastard/grovegui/engine/scene"
)

// CallbackFn is the custom-render payload this painter understands. Put it in
// imui.PaintCallback.Callback to draw with the backend directly.
type CallbackFn struct {
	f func(info imui.PaintCallbackInfo, fb core.Framebuffer)
}

func NewCallbackFn(f func(info imui.PaintCallbackInfo, fb core.Framebuffer)) *CallbackFn {
	return &CallbackFn{f: f}
}

// NewPaintCallback wraps f into a primitive covering rect.
func NewPaintCallback(rect imui.Rect, f func(info imui.PaintCallbackInfo, fb core.Framebuffer)) imui.PaintCallback {
	return imui.PaintCallback{Rect: rect, Callback: NewCallbackFn(f)}
}

// FrameStats captures the work done by the last Paint call.
type FrameStats struct {
	DrawCalls int
	Meshes    int
	Callbacks int
	Skipped   int
	Vertices  int
	Textures  int
}

// Painter turns clipped primitives into backend draw calls.
type Painter struct {
	r        core.Renderer
	pipe     core.Pipeline
	mesh     core.Mesh
	textures *TextureCache
	log      *slog.Logger
	camera   scene.PixelPerfectCamera

	verts    []float32
	uniforms map[string]any
	samplers map[string]core.Texture
	stats    FrameStats
}

// NewPainter compiles the textured pipeline and allocates the streaming mesh.
func NewPainter(r core.Renderer, textures *TextureCache, log *slog.Logger) (*Painter, error) {
	if log == nil {
		log = slog.Default()
	}
	vs, fs, err := assets.LoadProgram("textured")
	if err != nil {
		return nil, err
	}
	pipe, err := r.CreatePipeline(core.PipelineDesc{
		VertexSource:   vs,
		FragmentSource: fs,
		Blend:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("textured pipeline: %w", err)
	}
	mesh, err := r.CreateMesh(core.MeshDesc{Layout: vertexLayout, Dynamic: true})
	if err != nil {
		r.DeletePipeline(pipe)
		return nil, fmt.Errorf("painter mesh: %w", err)
	}
	return &Painter{
		r: r, pipe: pipe, mesh: mesh, textures: textures, log: log,
		uniforms: make(map[string]any, 6),
		samplers: make(map[string]core.Texture, 1),
	}, nil
}

func (p *Painter) Stats() FrameStats { return p.stats }

// PaintAndUpdateTextures applies texture sets, paints, then applies frees, so
// primitives of this frame may still use textures freed by it.
func (p *Painter) PaintAndUpdateTextures(fb core.Framebuffer, prims []imui.ClippedPrimitive, delta *imui.TexturesDelta, pixelsPerPoint float32) {
	for _, s := range delta.Set {
		p.textures.Set(s.ID, s.Delta)
	}
	p.Paint(fb, prims, pixelsPerPoint)
	for _, id := range delta.Free {
		p.textures.Free(id)
	}
	p.stats.Textures = p.textures.Len()
}

// Paint draws prims in order, one draw call per mesh.
func (p *Painter) Paint(fb core.Framebuffer, prims []imui.ClippedPrimitive, pixelsPerPoint float32) {
	p.stats = FrameStats{Textures: p.textures.Len()}
	for _, clipped := range prims {
		switch prim := clipped.Primitive.(type) {
		case *imui.Mesh:
			p.paintMesh(fb, clipped.ClipRect, prim)
		case imui.PaintCallback:
			p.paintCallback(fb, clipped.ClipRect, prim, pixelsPerPoint)
		default:
			p.log.Warn("unsupported primitive", "type", fmt.Sprintf("%T", clipped.Primitive))
			p.stats.Skipped++
		}
	}
}

func (p *Painter) paintMesh(fb core.Framebuffer, clip imui.Rect, mesh *imui.Mesh) {
	if mesh == nil || mesh.IsEmpty() {
		return
	}
	fbW, fbH := fb.Size()
	vp := ClipViewport(clip, fbW, fbH)
	if vp.Empty() {
		return
	}

	tex, ok := p.textures.Get(mesh.Texture)
	if !ok {
		p.log.Error("texture not found", "texture", mesh.Texture)
		p.stats.Skipped++
		return
	}

	// The viewport is the new origin: positions are relative to it.
	height := float32(fbH)
	shiftX, shiftY := float32(vp.X), float32(vp.Y)
	p.verts = p.verts[:0]
	for _, i := range mesh.Indices {
		v := TexturedVertex(mesh.Vertices[i], height)
		v.Pos[0] -= shiftX
		v.Pos[1] -= shiftY
		p.verts = v.appendTo(p.verts)
	}
	if err := p.r.UpdateMesh(p.mesh, p.verts, nil); err != nil {
		p.log.Error("upload mesh failed", "error", err)
		p.stats.Skipped++
		return
	}

	vw, vh := float32(vp.W), float32(vp.H)
	clear(p.uniforms)
	p.uniforms["u_color"] = [4]float32(colors.White)
	p.uniforms["u_framebuffer_size"] = [2]float32{vw, vh}
	p.uniforms["u_model_matrix"] = [9]float32(scene.Identity3())
	p.camera.Uniforms(p.uniforms, vw, vh)
	clear(p.samplers)
	p.samplers["u_texture"] = tex

	p.r.Draw(core.DrawCmd{
		Target:   fb,
		Pipe:     p.pipe,
		Mesh:     p.mesh,
		Mode:     core.DrawTriangles,
		Uniforms: p.uniforms,
		Samplers: p.samplers,
		Blend:    core.BlendStraightAlpha,
		Viewport: &vp,
	})
	p.stats.DrawCalls++
	p.stats.Meshes++
	p.stats.Vertices += len(mesh.Indices)
}

func (p *Painter) paintCallback(fb core.Framebuffer, clip imui.Rect, cb imui.PaintCallback, pixelsPerPoint float32) {
	fbW, fbH := fb.Size()
	info := imui.PaintCallbackInfo{
		Viewport:       cb.Rect,
		ClipRect:       clip,
		PixelsPerPoint: pixelsPerPoint,
		ScreenSizePx: [2]uint32{
			uint32(math32.Round(float32(fbW))),
			uint32(math32.Round(float32(fbH))),
		},
	}

	var fn *CallbackFn
	switch c := cb.Callback.(type) {
	case *CallbackFn:
		fn = c
	case CallbackFn:
		fn = &c
	}
	if fn == nil || fn.f == nil {
		p.log.Warn("unsupported render callback, expected *bridge.CallbackFn",
			"type", fmt.Sprintf("%T", cb.Callback))
		p.stats.Skipped++
		return
	}
	fn.f(info, fb)
	p.stats.Callbacks++
}

// Destroy releases the pipeline and mesh.
func (p *Painter) Destroy() {
	if p.mesh != nil {
		p.r.DeleteMesh(p.mesh)
		p.mesh = nil
	}
	if p.pipe != nil {
		p.r.DeletePipeline(p.pipe)
		p.pipe = nil
	}
}
