package glbackend

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grovegui/engine/core"
)

// RendererGL implements core.Renderer on an OpenGL 3.3 core context.
type RendererGL struct {
	win    core.Window
	screen *screenFramebuffer
}

func NewRendererGL(win core.Window, _ core.Config) (*RendererGL, error) {
	r := &RendererGL{win: win, screen: &screenFramebuffer{win: win}}
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) Init() error {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	slog.Debug("gl renderer ready",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return nil
}

func (r *RendererGL) Shutdown() {}

func (r *RendererGL) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *RendererGL) Framebuffer() core.Framebuffer { return r.screen }

type screenFramebuffer struct{ win core.Window }

func (s *screenFramebuffer) Size() (int, int) { return s.win.FramebufferSize() }

// --- pipelines ---

type glPipeline struct {
	program   uint32
	depthTest bool
	locations map[string]int32
}

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	prog, err := makeProgram(desc.VertexSource, desc.FragmentSource)
	if err != nil {
		return nil, err
	}
	return &glPipeline{program: prog, depthTest: desc.DepthTest, locations: map[string]int32{}}, nil
}

func (r *RendererGL) DeletePipeline(p core.Pipeline) {
	if gp, ok := p.(*glPipeline); ok && gp.program != 0 {
		gl.DeleteProgram(gp.program)
		gp.program = 0
	}
}

func (p *glPipeline) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// --- drawing ---

func (r *RendererGL) Draw(cmd core.DrawCmd) {
	pipe, ok := cmd.Pipe.(*glPipeline)
	if !ok {
		slog.Error("gl draw: foreign pipeline", "type", fmt.Sprintf("%T", cmd.Pipe))
		return
	}
	mesh, ok := cmd.Mesh.(*glMesh)
	if !ok {
		slog.Error("gl draw: foreign mesh", "type", fmt.Sprintf("%T", cmd.Mesh))
		return
	}

	fw, fh := r.screen.Size()
	if cmd.Target != nil {
		fw, fh = cmd.Target.Size()
	}
	if cmd.Viewport != nil {
		v := cmd.Viewport
		gl.Viewport(int32(v.X), int32(v.Y), int32(v.W), int32(v.H))
		gl.Enable(gl.SCISSOR_TEST)
		gl.Scissor(int32(v.X), int32(v.Y), int32(v.W), int32(v.H))
	} else {
		gl.Viewport(0, 0, int32(fw), int32(fh))
	}
	defer func() {
		gl.Disable(gl.SCISSOR_TEST)
		gl.Viewport(0, 0, int32(fw), int32(fh))
	}()

	if pipe.depthTest {
		gl.Enable(gl.DEPTH_TEST)
		defer gl.Disable(gl.DEPTH_TEST)
	}

	switch cmd.Blend {
	case core.BlendStraightAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendEquation(gl.FUNC_ADD)
		gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	case core.BlendPremultipliedAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendEquation(gl.FUNC_ADD)
		gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	default:
		gl.Disable(gl.BLEND)
	}

	gl.UseProgram(pipe.program)
	unit := int32(0)
	for name, tex := range cmd.Samplers {
		t, ok := tex.(*glTexture)
		if !ok {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.Uniform1i(pipe.location(name), unit)
		unit++
	}
	for name, v := range cmd.Uniforms {
		setUniform(pipe.location(name), name, v)
	}

	mode := uint32(gl.TRIANGLES)
	if cmd.Mode == core.DrawLines {
		mode = gl.LINES
	}
	gl.BindVertexArray(mesh.vao)
	if mesh.indexCount > 0 {
		gl.DrawElements(mode, int32(mesh.indexCount), gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(mode, 0, int32(mesh.vertexCount))
	}
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func setUniform(loc int32, name string, v any) {
	if loc < 0 {
		return
	}
	switch u := v.(type) {
	case float32:
		gl.Uniform1f(loc, u)
	case int32:
		gl.Uniform1i(loc, u)
	case int:
		gl.Uniform1i(loc, int32(u))
	case [2]float32:
		gl.Uniform2f(loc, u[0], u[1])
	case [2]int:
		gl.Uniform2f(loc, float32(u[0]), float32(u[1]))
	case [4]float32:
		gl.Uniform4f(loc, u[0], u[1], u[2], u[3])
	case [9]float32:
		gl.UniformMatrix3fv(loc, 1, false, &u[0])
	case [16]float32:
		gl.UniformMatrix4fv(loc, 1, false, &u[0])
	default:
		slog.Warn("gl draw: unsupported uniform type", "name", name, "type", fmt.Sprintf("%T", v))
	}
}
