package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/richinsley/gotriangle/graphics/fakegl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func littleEndian(data []float32) []byte {
	out := make([]byte, len(data)*4)
	for i, f := range data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

func TestNewUploadsExactBytes(t *testing.T) {
	for _, tc := range []struct {
		name   string
		layout Layout
	}{
		{"position color", PositionColor},
		{"position color texcoord", PositionColorTexCoord},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev := fakegl.New()
			data := Pack(Triangle[:], tc.layout)

			m, err := New(dev, data, tc.layout)
			require.NoError(t, err)

			got := dev.BufferBytes(m.VBO())
			assert.Len(t, got, 3*tc.layout.Stride)
			assert.Equal(t, littleEndian(data), got)
			assert.Equal(t, 3, m.VertexCount())
			assert.Empty(t, dev.Errors)
		})
	}
}

func TestReadBackMatchesTriangle(t *testing.T) {
	dev := fakegl.New()
	m, err := New(dev, Pack(Triangle[:], PositionColorTexCoord), PositionColorTexCoord)
	require.NoError(t, err)

	want := []float32{
		-0.5, -0.5, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0,
		0.5, -0.5, 0.0, 0.0, 1.0, 0.0, 1.0, 1.0,
		0.0, 0.5, 0.0, 0.0, 0.0, 1.0, 0.5, 0.0,
	}
	assert.Equal(t, want, m.ReadBack())
}

func TestNewConfiguresAttributes(t *testing.T) {
	dev := fakegl.New()
	m, err := New(dev, Pack(Triangle[:], PositionColorTexCoord), PositionColorTexCoord)
	require.NoError(t, err)

	attribs := dev.Attribs(m.VAO())
	require.Len(t, attribs, 3)
	for _, a := range PositionColorTexCoord.Attributes {
		got := attribs[a.Index]
		require.NotNil(t, got)
		assert.True(t, got.Enabled)
		assert.Equal(t, a.Components, got.Components)
		assert.Equal(t, int32(32), got.Stride)
		assert.Equal(t, a.Offset, got.Offset)
		assert.Equal(t, m.VBO(), got.Buffer)
	}
	// Creation leaves nothing bound.
	assert.Zero(t, dev.BoundVAO)
	assert.Zero(t, dev.BoundArrayBuffer)
}

func TestBindIsIdempotent(t *testing.T) {
	dev := fakegl.New()
	m, err := New(dev, Pack(Triangle[:], PositionColor), PositionColor)
	require.NoError(t, err)

	m.Bind()
	once := dev.BoundVAO
	m.Bind()
	m.Bind()
	assert.Equal(t, once, dev.BoundVAO)
	assert.Equal(t, m.VAO(), dev.BoundVAO)
}

func TestDestroyReleasesOnce(t *testing.T) {
	dev := fakegl.New()
	m, err := New(dev, Pack(Triangle[:], PositionColor), PositionColor)
	require.NoError(t, err)
	vao, vbo := m.VAO(), m.VBO()

	m.Destroy()

	assert.Equal(t, 1, dev.Released(fakegl.Buffer, vbo))
	assert.Equal(t, 1, dev.Released(fakegl.VertexArray, vao))
	assert.Zero(t, dev.Live(fakegl.Buffer))
	assert.Zero(t, dev.Live(fakegl.VertexArray))
	assert.Empty(t, dev.Errors)
}

func TestNewRejectsBadInput(t *testing.T) {
	for _, tc := range []struct {
		name   string
		data   []float32
		layout Layout
	}{
		{"empty", nil, PositionColor},
		{"partial vertex", make([]float32, 7), PositionColor},
		{"nan", []float32{float32(math.NaN()), 0, 0, 0, 0, 0}, PositionColor},
		{"inf", []float32{0, 0, 0, float32(math.Inf(1)), 0, 0}, PositionColor},
		{"attribute past stride", make([]float32, 6), Layout{Stride: 24, Attributes: []Attribute{{Index: 0, Components: 4, Offset: 12}}}},
		{"overlap", make([]float32, 6), Layout{Stride: 24, Attributes: []Attribute{{Index: 0, Components: 3, Offset: 0}, {Index: 1, Components: 3, Offset: 8}}}},
		{"duplicate location", make([]float32, 6), Layout{Stride: 24, Attributes: []Attribute{{Index: 0, Components: 3, Offset: 0}, {Index: 0, Components: 3, Offset: 12}}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev := fakegl.New()
			_, err := New(dev, tc.data, tc.layout)
			assert.Error(t, err)
			assert.Empty(t, dev.Calls, "nothing may be allocated for rejected data")
		})
	}
}

func TestPackUntextured(t *testing.T) {
	got := Pack(Triangle[:], PositionColor)
	assert.Equal(t, []float32{
		-0.5, -0.5, 0.0, 1.0, 0.0, 0.0,
		0.5, -0.5, 0.0, 0.0, 1.0, 0.0,
		0.0, 0.5, 0.0, 0.0, 0.0, 1.0,
	}, got)
}
