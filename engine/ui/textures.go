package ui

import "github.com/hubastard/grovegui/engine/imui"

// TextureManager hands out managed texture ids. Every allocation, update and
// free is queued and leaves with the next EndFrame.
type TextureManager struct {
	next  uint64
	names map[imui.TextureID]string
	delta imui.TexturesDelta
}

func newTextureManager() *TextureManager {
	// 0 is the font atlas.
	return &TextureManager{next: 1, names: make(map[imui.TextureID]string)}
}

func (m *TextureManager) Alloc(name string, image imui.ImageData, opts imui.TextureOptions) imui.TextureID {
	id := imui.Managed(m.next)
	m.next++
	m.names[id] = name
	m.delta.Set = append(m.delta.Set, imui.TextureSet{ID: id, Delta: imui.FullDelta(image, opts)})
	return id
}

// Update patches the region of id whose top-left corner is (x, y).
func (m *TextureManager) Update(id imui.TextureID, x, y int, image imui.ImageData, opts imui.TextureOptions) {
	m.delta.Set = append(m.delta.Set, imui.TextureSet{ID: id, Delta: imui.PartialDelta(x, y, image, opts)})
}

func (m *TextureManager) Free(id imui.TextureID) {
	delete(m.names, id)
	m.delta.Free = append(m.delta.Free, id)
}

// Name is the name id was allocated with.
func (m *TextureManager) Name(id imui.TextureID) (string, bool) {
	n, ok := m.names[id]
	return n, ok
}

func (m *TextureManager) take() imui.TexturesDelta {
	d := m.delta
	m.delta = imui.TexturesDelta{}
	return d
}
