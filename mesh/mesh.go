package mesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/richinsley/gotriangle/graphics"
)

// ErrNoVertices is returned when a mesh is created from empty data.
var ErrNoVertices = errors.New("mesh has no vertices")

// Mesh owns one vertex buffer and the vertex array describing it. The
// contents are uploaded once and never change.
type Mesh struct {
	dev         graphics.Device
	vao         uint32
	vbo         uint32
	vertexCount int
	floats      int
}

// New uploads data as static storage and configures the attribute pointers
// of layout. Data is checked before anything is allocated, so a rejected
// mesh leaves no objects behind.
func New(dev graphics.Device, data []float32, layout Layout) (*Mesh, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vertex layout: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoVertices
	}
	if (len(data)*floatSize)%layout.Stride != 0 {
		return nil, fmt.Errorf("%d bytes of vertex data is not a multiple of stride %d", len(data)*floatSize, layout.Stride)
	}
	for i, f := range data {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return nil, fmt.Errorf("vertex data element %d is not finite: %v", i, f)
		}
	}

	m := &Mesh{
		dev:         dev,
		vertexCount: len(data) * floatSize / layout.Stride,
		floats:      len(data),
	}

	m.vao = dev.GenVertexArray()
	dev.BindVertexArray(m.vao)
	m.vbo = dev.GenBuffer()
	dev.BindArrayBuffer(m.vbo)
	dev.BufferStaticData(data)
	for _, a := range layout.Attributes {
		dev.EnableVertexAttribArray(a.Index)
		dev.VertexAttribPointer(a.Index, a.Components, int32(layout.Stride), a.Offset)
	}
	dev.BindArrayBuffer(0)
	dev.BindVertexArray(0)

	return m, nil
}

// Bind makes the mesh's vertex array current for draw calls.
func (m *Mesh) Bind() {
	m.dev.BindVertexArray(m.vao)
}

func (m *Mesh) VertexCount() int {
	return m.vertexCount
}

func (m *Mesh) VAO() uint32 {
	return m.vao
}

func (m *Mesh) VBO() uint32 {
	return m.vbo
}

// ReadBack returns the buffer contents as stored on the device.
func (m *Mesh) ReadBack() []float32 {
	out := make([]float32, m.floats)
	m.dev.BindArrayBuffer(m.vbo)
	m.dev.GetBufferData(out)
	m.dev.BindArrayBuffer(0)
	return out
}

// Destroy releases the buffer and the vertex array. The mesh must not be
// used afterwards.
func (m *Mesh) Destroy() {
	m.dev.DeleteBuffer(m.vbo)
	m.dev.DeleteVertexArray(m.vao)
	m.vbo = 0
	m.vao = 0
}
