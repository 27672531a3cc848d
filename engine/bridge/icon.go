package bridge

import (
	"fmt"

	"github.com/hubastard/grovegui/engine/assets"
	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/imui"
)

// Icon is an image registered with the UI library as a managed texture.
type Icon struct {
	texture imui.TextureID
	w, h    int
}

// NewIconFromRaw registers tightly packed, unmultiplied RGBA8 pixels (row 0 at
// the top) with the UI library's texture manager.
func NewIconFromRaw(alloc imui.TextureAllocator, name string, w, h int, rgba []byte, opts core.TextureOptions) (*Icon, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("icon %q: invalid size %dx%d", name, w, h)
	}
	if len(rgba) != w*h*4 {
		return nil, fmt.Errorf("icon %q: %d bytes for %dx%d RGBA8", name, len(rgba), w, h)
	}
	img := imui.NewColorImageRGBA(w, h, rgba)
	id := alloc.Alloc(name, img, iconOptions(opts))
	return &Icon{texture: id, w: w, h: h}, nil
}

// LoadIcon decodes a PNG file into an icon.
func LoadIcon(alloc imui.TextureAllocator, path string, opts core.TextureOptions) (*Icon, error) {
	w, h, rgba, err := assets.LoadPNG(path)
	if err != nil {
		return nil, fmt.Errorf("load icon: %w", err)
	}
	return NewIconFromRaw(alloc, path, w, h, rgba, opts)
}

func (i *Icon) ID() imui.TextureID { return i.texture }

func (i *Icon) Size() (w, h int) { return i.w, i.h }

func iconOptions(opts core.TextureOptions) imui.TextureOptions {
	f := imui.FilterLinear
	if opts.Filter == core.FilterNearest {
		f = imui.FilterNearest
	}
	wrap := imui.WrapClampToEdge
	switch opts.Wrap {
	case core.WrapRepeat:
		wrap = imui.WrapRepeat
	case core.WrapMirror:
		wrap = imui.WrapMirroredRepeat
	}
	return imui.TextureOptions{Magnification: f, Minification: f, WrapMode: wrap}
}
