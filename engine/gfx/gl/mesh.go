package glbackend

import (
	"errors"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grovegui/engine/core"
)

type glMesh struct {
	vao, vbo, ebo uint32
	layout        core.VertexLayout
	usage         uint32
	vertexCount   int
	indexCount    int
}

func (m *glMesh) VertexCount() int { return m.vertexCount }

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	if desc.Layout.Stride <= 0 {
		return nil, errors.New("gl mesh: layout stride must be positive")
	}
	m := &glMesh{layout: desc.Layout, usage: gl.STATIC_DRAW}
	if desc.Dynamic {
		m.usage = gl.STREAM_DRAW
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)

	for _, a := range desc.Layout.Attributes {
		gl.EnableVertexAttribArray(uint32(a.Location))
		switch a.Type {
		case core.AttribUint8Norm:
			gl.VertexAttribPointerWithOffset(uint32(a.Location), int32(a.Size), gl.UNSIGNED_BYTE, true, int32(desc.Layout.Stride), uintptr(a.Offset))
		default:
			gl.VertexAttribPointerWithOffset(uint32(a.Location), int32(a.Size), gl.FLOAT, false, int32(desc.Layout.Stride), uintptr(a.Offset))
		}
	}

	m.upload(desc.Vertices, desc.Indices)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m, nil
}

func (r *RendererGL) UpdateMesh(mesh core.Mesh, vertices []float32, indices []uint32) error {
	m, ok := mesh.(*glMesh)
	if !ok {
		return errors.New("gl mesh: foreign mesh")
	}
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	m.upload(vertices, indices)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// upload expects the VAO and VBO to be bound.
func (m *glMesh) upload(vertices []float32, indices []uint32) {
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), m.usage)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, m.usage)
	}
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), m.usage)
	}
	m.vertexCount = len(vertices) * 4 / m.layout.Stride
	m.indexCount = len(indices)
}

func (r *RendererGL) DeleteMesh(mesh core.Mesh) {
	m, ok := mesh.(*glMesh)
	if !ok {
		return
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	*m = glMesh{}
}
