package imui

import "fmt"

type TextureKind uint8

const (
	// TextureManaged textures are created and freed through TexturesDelta.
	TextureManaged TextureKind = iota
	// TextureUser textures are registered by the host with the painter.
	TextureUser
)

// TextureID is an opaque handle the UI library puts on meshes.
type TextureID struct {
	Kind TextureKind
	ID   uint64
}

func Managed(id uint64) TextureID { return TextureID{Kind: TextureManaged, ID: id} }
func User(id uint64) TextureID    { return TextureID{Kind: TextureUser, ID: id} }

func (t TextureID) String() string {
	if t.Kind == TextureUser {
		return fmt.Sprintf("User(%d)", t.ID)
	}
	return fmt.Sprintf("Managed(%d)", t.ID)
}

type TextureFilter uint8

const (
	FilterLinear TextureFilter = iota
	FilterNearest
)

type TextureWrapMode uint8

const (
	WrapClampToEdge TextureWrapMode = iota
	WrapRepeat
	WrapMirroredRepeat
)

type TextureOptions struct {
	Magnification TextureFilter
	Minification  TextureFilter
	WrapMode      TextureWrapMode
}

var (
	TextureLinear  = TextureOptions{Magnification: FilterLinear, Minification: FilterLinear}
	TextureNearest = TextureOptions{Magnification: FilterNearest, Minification: FilterNearest}
)

// Color32 is an 8-bit RGBA color.
type Color32 [4]uint8

func RGBA(r, g, b, a uint8) Color32 { return Color32{r, g, b, a} }

func (c Color32) R() uint8 { return c[0] }
func (c Color32) G() uint8 { return c[1] }
func (c Color32) B() uint8 { return c[2] }
func (c Color32) A() uint8 { return c[3] }

var (
	White       = Color32{255, 255, 255, 255}
	Black       = Color32{0, 0, 0, 255}
	Transparent = Color32{}
)

// ImageData is the payload of a texture delta.
type ImageData interface {
	Width() int
	Height() int
	// Len is the number of pixels actually stored.
	Len() int
	isImage()
}

// ColorImage holds row-major RGBA pixels, row 0 at the top.
type ColorImage struct {
	Size   [2]int
	Pixels []Color32
}

// NewColorImageRGBA builds an image from tightly packed, unmultiplied RGBA8 bytes.
func NewColorImageRGBA(w, h int, rgba []byte) *ColorImage {
	img := &ColorImage{Size: [2]int{w, h}, Pixels: make([]Color32, len(rgba)/4)}
	for i := range img.Pixels {
		copy(img.Pixels[i][:], rgba[i*4:i*4+4])
	}
	return img
}

func (c *ColorImage) Width() int  { return c.Size[0] }
func (c *ColorImage) Height() int { return c.Size[1] }
func (c *ColorImage) Len() int    { return len(c.Pixels) }
func (*ColorImage) isImage()      {}

// FontImage holds row-major coverage values in [0, 1], row 0 at the top.
type FontImage struct {
	Size   [2]int
	Pixels []float32
}

func NewFontImage(w, h int) *FontImage {
	return &FontImage{Size: [2]int{w, h}, Pixels: make([]float32, w*h)}
}

func (f *FontImage) Width() int  { return f.Size[0] }
func (f *FontImage) Height() int { return f.Size[1] }
func (f *FontImage) Len() int    { return len(f.Pixels) }
func (*FontImage) isImage()      {}

// ImageDelta creates or patches one texture.
type ImageDelta struct {
	Image   ImageData
	Options TextureOptions
	// Pos is nil for a full create-or-replace, otherwise the top-left corner of
	// the patched region.
	Pos *[2]int
}

func FullDelta(img ImageData, opts TextureOptions) ImageDelta {
	return ImageDelta{Image: img, Options: opts}
}

func PartialDelta(x, y int, img ImageData, opts TextureOptions) ImageDelta {
	return ImageDelta{Image: img, Options: opts, Pos: &[2]int{x, y}}
}

func (d ImageDelta) IsWhole() bool { return d.Pos == nil }

type TextureSet struct {
	ID    TextureID
	Delta ImageDelta
}

// TexturesDelta is the texture work a frame produced.
type TexturesDelta struct {
	Set  []TextureSet
	Free []TextureID
}

func (t TexturesDelta) IsEmpty() bool { return len(t.Set) == 0 && len(t.Free) == 0 }

// Append queues other after t, keeping the order of each list.
func (t *TexturesDelta) Append(other TexturesDelta) {
	t.Set = append(t.Set, other.Set...)
	t.Free = append(t.Free, other.Free...)
}

// Clear empties t, keeping its capacity but no image data.
func (t *TexturesDelta) Clear() {
	clear(t.Set)
	t.Set = t.Set[:0]
	t.Free = t.Free[:0]
}

// TextureAllocator hands out managed texture ids.
type TextureAllocator interface {
	Alloc(name string, image ImageData, opts TextureOptions) TextureID
	Free(id TextureID)
}
