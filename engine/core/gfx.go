package core

// Renderer is the GPU backend. Resources it returns are only valid on the
// thread that created the context.
type Renderer interface {
	Init() error
	Resize(w, h int)
	Clear(r, g, b, a float32)
	Shutdown()

	// Framebuffer is the default (window) framebuffer.
	Framebuffer() Framebuffer

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	DeletePipeline(p Pipeline)

	CreateMesh(desc MeshDesc) (Mesh, error)
	// UpdateMesh replaces the mesh contents; a nil indices slice draws the
	// vertices as a plain list.
	UpdateMesh(m Mesh, vertices []float32, indices []uint32) error
	DeleteMesh(m Mesh)

	CreateTexture(desc TextureDesc) (Texture, error)
	// UpdateTexture writes a w*h RGBA8 block at (x, y), bottom-left origin.
	UpdateTexture(t Texture, x, y, w, h int, pixels []byte) error
	SetTextureFilter(t Texture, min, mag Filter)
	DeleteTexture(t Texture)

	Draw(cmd DrawCmd)
}

// Framebuffer is a render target.
type Framebuffer interface {
	Size() (w, h int)
}

type Pipeline interface{}

type Mesh interface {
	VertexCount() int
}

type Texture interface {
	Size() (w, h int)
}

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	DepthTest      bool
	Blend          bool
}

type AttribType int

const (
	AttribFloat32 AttribType = iota
	AttribUint8Norm
)

type VertexAttrib struct {
	Location int
	Size     int
	Type     AttribType
	Offset   int
}

type VertexLayout struct {
	Stride     int
	Attributes []VertexAttrib
}

type MeshDesc struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
	Dynamic  bool
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type Filter string

const (
	FilterNearest Filter = "nearest"
	FilterLinear  Filter = "linear"
)

type Wrap string

const (
	WrapClamp  Wrap = "clamp"
	WrapRepeat Wrap = "repeat"
	WrapMirror Wrap = "mirror"
)

// TextureDesc describes a texture; Pixels are RGBA8 rows, row 0 at the bottom.
type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte
	MinFilter     Filter
	MagFilter     Filter
	WrapU, WrapV  Wrap
}

// TextureOptions are asset-level sampling settings.
type TextureOptions struct {
	Filter           Filter
	Wrap             Wrap
	PremultiplyAlpha bool
}

type BlendMode int

const (
	BlendNone BlendMode = iota
	// BlendStraightAlpha is src*a + dst*(1-a) on color, non-premultiplied.
	BlendStraightAlpha
	BlendPremultipliedAlpha
)

// Viewport is a pixel rect with a bottom-left origin.
type Viewport struct {
	X, Y, W, H int
}

func (v Viewport) Empty() bool { return v.W <= 0 || v.H <= 0 }

type DrawMode int

const (
	DrawTriangles DrawMode = iota
	DrawLines
)

type DrawCmd struct {
	Target   Framebuffer
	Pipe     Pipeline
	Mesh     Mesh
	Mode     DrawMode
	Uniforms map[string]any
	Samplers map[string]Texture
	Blend    BlendMode
	// Viewport scopes rasterization; nil means the whole target.
	Viewport *Viewport
}
