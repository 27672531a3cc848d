package bridge

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/gfx/gfxtest"
	"github.com/hubastard/grovegui/engine/imui"
)

var (
	red   = imui.RGBA(255, 0, 0, 255)
	green = imui.RGBA(0, 255, 0, 255)
	blue  = imui.RGBA(0, 0, 255, 255)
)

func newCache(t *testing.T) (*TextureCache, *gfxtest.Renderer, *bytes.Buffer) {
	t.Helper()
	r := gfxtest.NewRenderer(64, 64)
	var logs bytes.Buffer
	return NewTextureCache(r, slog.New(slog.NewTextHandler(&logs, nil))), r, &logs
}

func cachedTexture(t *testing.T, c *TextureCache, id imui.TextureID) *gfxtest.Texture {
	t.Helper()
	tex, ok := c.Get(id)
	require.True(t, ok, "texture %v not cached", id)
	return tex.(*gfxtest.Texture)
}

func TestUploadFlipsRows(t *testing.T) {
	c, _, _ := newCache(t)
	img := &imui.ColorImage{Size: [2]int{2, 2}, Pixels: []imui.Color32{red, red, blue, blue}}
	c.Set(imui.Managed(1), imui.FullDelta(img, imui.TextureLinear))

	tex := cachedTexture(t, c, imui.Managed(1))
	assert.Equal(t, [4]byte(blue), tex.At(0, 0))
	assert.Equal(t, [4]byte(blue), tex.At(1, 0))
	assert.Equal(t, [4]byte(red), tex.At(0, 1))
	assert.Equal(t, [4]byte(red), tex.At(1, 1))
}

func TestFontImageUploadsCoverageAsAlpha(t *testing.T) {
	c, _, _ := newCache(t)
	img := imui.NewFontImage(2, 1)
	img.Pixels[0], img.Pixels[1] = 0.5, 1
	c.Set(imui.Managed(0), imui.FullDelta(img, imui.TextureLinear))

	tex := cachedTexture(t, c, imui.Managed(0))
	assert.Equal(t, [4]byte{255, 255, 255, 128}, tex.At(0, 0))
	assert.Equal(t, [4]byte{255, 255, 255, 255}, tex.At(1, 0))
}

func TestPartialUpdateCountsRowsFromTop(t *testing.T) {
	c, _, logs := newCache(t)
	id := imui.Managed(1)
	c.Set(id, imui.FullDelta(solidImage(4, 4, red), imui.TextureLinear))

	patch := solidImage(2, 1, green)
	c.Set(id, imui.PartialDelta(1, 0, patch, imui.TextureNearest))

	tex := cachedTexture(t, c, id)
	// Image row 0 is the top row, backend row 3.
	assert.Equal(t, [4]byte(green), tex.At(1, 3))
	assert.Equal(t, [4]byte(green), tex.At(2, 3))
	assert.Equal(t, [4]byte(red), tex.At(0, 3))
	assert.Equal(t, [4]byte(red), tex.At(1, 2))
	assert.Equal(t, core.FilterNearest, tex.MagFilter)
	assert.Empty(t, logs.String())
}

func TestPartialUpdateOfUnknownTexture(t *testing.T) {
	c, r, logs := newCache(t)
	c.Set(imui.Managed(7), imui.PartialDelta(0, 0, solidImage(1, 1, red), imui.TextureLinear))

	assert.Zero(t, c.Len())
	assert.Empty(t, r.Textures)
	assert.Contains(t, logs.String(), "partial update of unknown texture")
}

func TestPartialUpdateOutOfBounds(t *testing.T) {
	c, _, logs := newCache(t)
	id := imui.Managed(1)
	c.Set(id, imui.FullDelta(solidImage(2, 2, red), imui.TextureLinear))
	c.Set(id, imui.PartialDelta(1, 1, solidImage(2, 2, green), imui.TextureLinear))

	assert.Contains(t, logs.String(), "partial texture update failed")
	assert.Equal(t, [4]byte(red), cachedTexture(t, c, id).At(1, 1))
}

func TestReplaceDeletesPreviousTexture(t *testing.T) {
	c, r, _ := newCache(t)
	id := imui.Managed(2)
	c.Set(id, imui.FullDelta(solidImage(1, 1, red), imui.TextureLinear))
	c.Set(id, imui.FullDelta(solidImage(3, 1, green), imui.TextureLinear))

	require.Len(t, r.Textures, 2)
	assert.True(t, r.Textures[0].Deleted)
	assert.Equal(t, 1, c.Len())
	w, h := cachedTexture(t, c, id).Size()
	assert.Equal(t, [2]int{3, 1}, [2]int{w, h})
}

func TestFailedCreateKeepsOldEntry(t *testing.T) {
	c, r, logs := newCache(t)
	id := imui.Managed(1)
	c.Set(id, imui.FullDelta(solidImage(1, 1, red), imui.TextureLinear))
	old := cachedTexture(t, c, id)

	r.FailTextures = true
	c.Set(id, imui.FullDelta(solidImage(1, 1, green), imui.TextureLinear))

	assert.Same(t, old, cachedTexture(t, c, id))
	assert.False(t, old.Deleted)
	assert.Contains(t, logs.String(), "create texture failed")
}

func TestSizeMismatchPanics(t *testing.T) {
	c, _, _ := newCache(t)
	img := &imui.ColorImage{Size: [2]int{2, 2}, Pixels: make([]imui.Color32, 3)}
	assert.Panics(t, func() {
		c.Set(imui.Managed(1), imui.FullDelta(img, imui.TextureLinear))
	})
}

func TestFreeIsIdempotent(t *testing.T) {
	c, r, _ := newCache(t)
	id := imui.Managed(1)
	c.Set(id, imui.FullDelta(solidImage(1, 1, red), imui.TextureLinear))
	c.Free(id)
	c.Free(id)

	assert.Zero(t, c.Len())
	assert.True(t, r.Textures[0].Deleted)
}

func TestUserTextures(t *testing.T) {
	c, r, _ := newCache(t)
	a, _ := r.CreateTexture(core.TextureDesc{Width: 1, Height: 1})
	b, _ := r.CreateTexture(core.TextureDesc{Width: 2, Height: 2})

	id := c.RegisterUser(a)
	assert.Equal(t, imui.TextureUser, id.Kind)
	assert.NotEqual(t, id, c.RegisterUser(b))

	require.True(t, c.ReplaceUser(id, b))
	got, _ := c.Get(id)
	assert.Equal(t, b, got)

	c.Set(imui.Managed(1), imui.FullDelta(solidImage(1, 1, red), imui.TextureLinear))
	assert.False(t, c.ReplaceUser(imui.Managed(1), a))
	assert.False(t, c.ReplaceUser(imui.User(99), a))

	c.Free(id)
	assert.False(t, a.(*gfxtest.Texture).Deleted)
	assert.False(t, b.(*gfxtest.Texture).Deleted)
}

func TestWrapAndFilterMapping(t *testing.T) {
	c, _, _ := newCache(t)
	opts := imui.TextureOptions{Magnification: imui.FilterNearest, Minification: imui.FilterLinear, WrapMode: imui.WrapMirroredRepeat}
	c.Set(imui.Managed(1), imui.FullDelta(solidImage(1, 1, red), opts))

	tex := cachedTexture(t, c, imui.Managed(1))
	assert.Equal(t, core.FilterNearest, tex.MagFilter)
	assert.Equal(t, core.FilterLinear, tex.MinFilter)
	assert.Equal(t, core.WrapMirror, tex.WrapU)
	assert.Equal(t, core.WrapMirror, tex.WrapV)
}
