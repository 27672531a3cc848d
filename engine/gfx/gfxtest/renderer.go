// Package gfxtest provides an in-memory core.Renderer that records every call,
// for tests that must run without a GPU context.
package gfxtest

import (
	"fmt"

	"github.com/hubastard/grovegui/engine/core"
)

// Texture is a CPU copy of a texture, row 0 at the bottom.
type Texture struct {
	ID        int
	W, H      int
	Pixels    []byte
	MinFilter core.Filter
	MagFilter core.Filter
	WrapU     core.Wrap
	WrapV     core.Wrap
	Deleted   bool
}

func (t *Texture) Size() (int, int) { return t.W, t.H }

// At returns the RGBA of the texel at (x, y), bottom-left origin.
func (t *Texture) At(x, y int) [4]byte {
	i := (y*t.W + x) * 4
	return [4]byte{t.Pixels[i], t.Pixels[i+1], t.Pixels[i+2], t.Pixels[i+3]}
}

type Mesh struct {
	Layout   core.VertexLayout
	Vertices []float32
	Indices  []uint32
	Deleted  bool
}

func (m *Mesh) VertexCount() int {
	if m.Layout.Stride == 0 {
		return 0
	}
	return len(m.Vertices) * 4 / m.Layout.Stride
}

type Pipeline struct {
	Desc    core.PipelineDesc
	Deleted bool
}

// Draw is a snapshot of one Draw call, including the vertex data bound at the
// time of the call.
type Draw struct {
	Cmd      core.DrawCmd
	Vertices []float32
	Indices  []uint32
}

// Framebuffer is a fixed size render target.
type Framebuffer struct{ W, H int }

func (f *Framebuffer) Size() (int, int) { return f.W, f.H }

// Renderer records resources and draws.
type Renderer struct {
	Screen   *Framebuffer
	Textures []*Texture
	Meshes   []*Mesh
	Draws    []Draw
	Clears   int

	// FailTextures makes CreateTexture fail, to exercise error paths.
	FailTextures bool
}

func NewRenderer(w, h int) *Renderer {
	return &Renderer{Screen: &Framebuffer{W: w, H: h}}
}

func (r *Renderer) Init() error { return nil }
func (r *Renderer) Shutdown()   {}

func (r *Renderer) Resize(w, h int) { r.Screen.W, r.Screen.H = w, h }

func (r *Renderer) Clear(_, _, _, _ float32) { r.Clears++ }

func (r *Renderer) Framebuffer() core.Framebuffer { return r.Screen }

func (r *Renderer) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	return &Pipeline{Desc: desc}, nil
}

func (r *Renderer) DeletePipeline(p core.Pipeline) {
	if pp, ok := p.(*Pipeline); ok {
		pp.Deleted = true
	}
}

func (r *Renderer) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	m := &Mesh{Layout: desc.Layout}
	m.Vertices = append(m.Vertices, desc.Vertices...)
	m.Indices = append(m.Indices, desc.Indices...)
	r.Meshes = append(r.Meshes, m)
	return m, nil
}

func (r *Renderer) UpdateMesh(mesh core.Mesh, vertices []float32, indices []uint32) error {
	m, ok := mesh.(*Mesh)
	if !ok {
		return fmt.Errorf("gfxtest: foreign mesh %T", mesh)
	}
	m.Vertices = append(m.Vertices[:0], vertices...)
	m.Indices = append(m.Indices[:0], indices...)
	return nil
}

func (r *Renderer) DeleteMesh(mesh core.Mesh) {
	if m, ok := mesh.(*Mesh); ok {
		m.Deleted = true
	}
}

func (r *Renderer) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if r.FailTextures {
		return nil, fmt.Errorf("gfxtest: texture creation disabled")
	}
	if desc.Pixels != nil && len(desc.Pixels) != desc.Width*desc.Height*4 {
		return nil, fmt.Errorf("gfxtest: %d bytes for %dx%d", len(desc.Pixels), desc.Width, desc.Height)
	}
	t := &Texture{
		ID: len(r.Textures) + 1,
		W:  desc.Width, H: desc.Height,
		Pixels:    make([]byte, desc.Width*desc.Height*4),
		MinFilter: desc.MinFilter, MagFilter: desc.MagFilter,
		WrapU: desc.WrapU, WrapV: desc.WrapV,
	}
	copy(t.Pixels, desc.Pixels)
	r.Textures = append(r.Textures, t)
	return t, nil
}

func (r *Renderer) UpdateTexture(tex core.Texture, x, y, w, h int, pixels []byte) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("gfxtest: foreign texture %T", tex)
	}
	if x < 0 || y < 0 || x+w > t.W || y+h > t.H {
		return fmt.Errorf("gfxtest: region %dx%d@(%d,%d) outside %dx%d", w, h, x, y, t.W, t.H)
	}
	if len(pixels) != w*h*4 {
		return fmt.Errorf("gfxtest: %d bytes for %dx%d region", len(pixels), w, h)
	}
	for row := 0; row < h; row++ {
		dst := ((y+row)*t.W + x) * 4
		copy(t.Pixels[dst:dst+w*4], pixels[row*w*4:(row+1)*w*4])
	}
	return nil
}

func (r *Renderer) SetTextureFilter(tex core.Texture, min, mag core.Filter) {
	if t, ok := tex.(*Texture); ok {
		t.MinFilter, t.MagFilter = min, mag
	}
}

func (r *Renderer) DeleteTexture(tex core.Texture) {
	if t, ok := tex.(*Texture); ok {
		t.Deleted = true
	}
}

func (r *Renderer) Draw(cmd core.DrawCmd) {
	d := Draw{Cmd: cmd}
	// callers may reuse their maps and viewport between draws
	d.Cmd.Uniforms = make(map[string]any, len(cmd.Uniforms))
	for k, v := range cmd.Uniforms {
		d.Cmd.Uniforms[k] = v
	}
	d.Cmd.Samplers = make(map[string]core.Texture, len(cmd.Samplers))
	for k, v := range cmd.Samplers {
		d.Cmd.Samplers[k] = v
	}
	if cmd.Viewport != nil {
		vp := *cmd.Viewport
		d.Cmd.Viewport = &vp
	}
	if m, ok := cmd.Mesh.(*Mesh); ok {
		d.Vertices = append([]float32(nil), m.Vertices...)
		d.Indices = append([]uint32(nil), m.Indices...)
	}
	r.Draws = append(r.Draws, d)
}

// LiveTextures counts textures that have not been deleted.
func (r *Renderer) LiveTextures() int {
	n := 0
	for _, t := range r.Textures {
		if !t.Deleted {
			n++
		}
	}
	return n
}
