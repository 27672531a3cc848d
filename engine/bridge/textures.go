package bridge

import (
	"fmt"
	"log/slog"

	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/imui"
)

type cacheEntry struct {
	tex core.Texture
	// owned textures are deleted by the cache; user textures belong to the host.
	owned bool
}

// TextureCache mirrors the UI library's textures onto backend textures.
type TextureCache struct {
	r        core.Renderer
	log      *slog.Logger
	entries  map[imui.TextureID]cacheEntry
	nextUser uint64
}

func NewTextureCache(r core.Renderer, log *slog.Logger) *TextureCache {
	if log == nil {
		log = slog.Default()
	}
	return &TextureCache{r: r, log: log, entries: make(map[imui.TextureID]cacheEntry)}
}

// Get returns the backend texture for id.
func (c *TextureCache) Get(id imui.TextureID) (core.Texture, bool) {
	e, ok := c.entries[id]
	return e.tex, ok
}

func (c *TextureCache) Len() int { return len(c.entries) }

// Set applies one create-or-replace or partial-update delta.
func (c *TextureCache) Set(id imui.TextureID, delta imui.ImageDelta) {
	if delta.Pos != nil {
		c.update(id, delta)
		return
	}
	c.create(id, delta)
}

func (c *TextureCache) create(id imui.TextureID, delta imui.ImageDelta) {
	img := delta.Image
	pixels := convertImage(img)
	minF, magF := filters(delta.Options)
	wrap := wrapMode(delta.Options.WrapMode)

	tex, err := c.r.CreateTexture(core.TextureDesc{
		Width: img.Width(), Height: img.Height(),
		Format:    core.TextureRGBA8,
		Pixels:    pixels,
		MinFilter: minF, MagFilter: magF,
		WrapU: wrap, WrapV: wrap,
	})
	if err != nil {
		c.log.Error("create texture failed", "texture", id, "error", err)
		return
	}
	c.release(id)
	c.entries[id] = cacheEntry{tex: tex, owned: true}
}

func (c *TextureCache) update(id imui.TextureID, delta imui.ImageDelta) {
	e, ok := c.entries[id]
	if !ok {
		c.log.Error("partial update of unknown texture", "texture", id)
		return
	}
	minF, magF := filters(delta.Options)
	c.r.SetTextureFilter(e.tex, minF, magF)

	img := delta.Image
	pixels := convertImage(img)
	_, texH := e.tex.Size()
	// Pos is the top-left corner in image space; the backend counts rows from
	// the bottom.
	x, y := delta.Pos[0], texH-delta.Pos[1]-img.Height()
	if err := c.r.UpdateTexture(e.tex, x, y, img.Width(), img.Height(), pixels); err != nil {
		c.log.Error("partial texture update failed", "texture", id, "error", err)
	}
}

// Free releases the texture for id. Unknown ids are ignored since a delta
// bundle may be replayed or free a texture twice.
func (c *TextureCache) Free(id imui.TextureID) {
	c.release(id)
	delete(c.entries, id)
}

func (c *TextureCache) release(id imui.TextureID) {
	if e, ok := c.entries[id]; ok && e.owned {
		c.r.DeleteTexture(e.tex)
	}
}

// RegisterUser makes a host texture drawable by meshes. The cache never
// deletes it.
func (c *TextureCache) RegisterUser(tex core.Texture) imui.TextureID {
	id := imui.User(c.nextUser)
	c.nextUser++
	c.entries[id] = cacheEntry{tex: tex}
	return id
}

// ReplaceUser points an existing user id at another host texture.
func (c *TextureCache) ReplaceUser(id imui.TextureID, tex core.Texture) bool {
	e, ok := c.entries[id]
	if !ok || e.owned {
		return false
	}
	c.entries[id] = cacheEntry{tex: tex}
	return true
}

// Clear drops every entry, deleting the textures the cache owns.
func (c *TextureCache) Clear() {
	for id := range c.entries {
		c.release(id)
	}
	clear(c.entries)
}

func filters(o imui.TextureOptions) (minF, magF core.Filter) {
	return filter(o.Minification), filter(o.Magnification)
}

func filter(f imui.TextureFilter) core.Filter {
	if f == imui.FilterNearest {
		return core.FilterNearest
	}
	return core.FilterLinear
}

func wrapMode(w imui.TextureWrapMode) core.Wrap {
	switch w {
	case imui.WrapRepeat:
		return core.WrapRepeat
	case imui.WrapMirroredRepeat:
		return core.WrapMirror
	default:
		return core.WrapClamp
	}
}

// convertImage turns an image into backend RGBA8 bytes, last source row first.
// A pixel count that does not match the image size is a corrupted delta and
// panics.
func convertImage(img imui.ImageData) []byte {
	w, h := img.Width(), img.Height()
	if w*h != img.Len() {
		panic(fmt.Sprintf("bridge: mismatch between texture size %dx%d and texel count %d", w, h, img.Len()))
	}
	out := make([]byte, w*h*4)
	switch im := img.(type) {
	case *imui.ColorImage:
		for row := 0; row < h; row++ {
			dst := (h - 1 - row) * w * 4
			for x, px := range im.Pixels[row*w : (row+1)*w] {
				copy(out[dst+x*4:dst+x*4+4], px[:])
			}
		}
	case *imui.FontImage:
		for row := 0; row < h; row++ {
			dst := (h - 1 - row) * w * 4
			for x, a := range im.Pixels[row*w : (row+1)*w] {
				o := dst + x*4
				out[o], out[o+1], out[o+2] = 255, 255, 255
				out[o+3] = coverageByte(a)
			}
		}
	default:
		panic(fmt.Sprintf("bridge: unsupported image type %T", img))
	}
	return out
}

func coverageByte(a float32) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 255
	}
	return uint8(a*255 + 0.5)
}
