// Package fakegl provides an in-memory graphics.Device and graphics.Context
// that record every call. It lets the renderer and its resources run
// without a GPU.
package fakegl

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/richinsley/gotriangle/graphics"
)

// Kind names a class of GL object.
type Kind string

const (
	Buffer      Kind = "buffer"
	VertexArray Kind = "vertex array"
	Texture     Kind = "texture"
	Shader      Kind = "shader"
	Program     Kind = "program"
)

// Attrib is a recorded vertex attribute pointer.
type Attrib struct {
	Enabled    bool
	Components int32
	Stride     int32
	Offset     int
	Buffer     uint32
}

// TextureState is the recorded storage and sampler state of one texture.
type TextureState struct {
	Width, Height        int32
	Pixels               []byte
	WrapS, WrapT         graphics.Wrap
	MinFilter, MagFilter graphics.Filter
	Mipmapped            bool
}

type shaderState struct {
	stage  graphics.ShaderStage
	source string
}

// Device is a recording graphics.Device. Misuse such as releasing an object
// twice or drawing without a program is collected in Errors instead of
// panicking.
type Device struct {
	Calls  []string
	Errors []string

	ClearColor [4]float32

	// CompileFunc decides compilation results. The default accepts any
	// source with a main function and balanced brackets.
	CompileFunc func(stage graphics.ShaderStage, source string) (infoLog string, ok bool)
	// LinkFunc decides link results. The default always succeeds.
	LinkFunc func(shaders []uint32) (infoLog string, ok bool)

	BoundVAO         uint32
	BoundArrayBuffer uint32
	CurrentProgram   uint32
	ActiveUnit       uint32
	// BoundTextures maps texture units to 2D textures.
	BoundTextures map[uint32]uint32
	// Uniforms holds integer uniform values of the current program keyed by
	// location.
	Uniforms map[int32]int32

	nextID   uint32
	live     map[Kind]map[uint32]bool
	released map[Kind]map[uint32]int
	buffers  map[uint32][]byte
	attribs  map[uint32]map[uint32]*Attrib
	textures map[uint32]*TextureState
	shaders  map[uint32]shaderState
	programs map[uint32][]string
}

// New returns an empty recording device.
func New() *Device {
	d := &Device{
		BoundTextures: make(map[uint32]uint32),
		Uniforms:      make(map[int32]int32),
		live:          make(map[Kind]map[uint32]bool),
		released:      make(map[Kind]map[uint32]int),
		buffers:       make(map[uint32][]byte),
		attribs:       make(map[uint32]map[uint32]*Attrib),
		textures:      make(map[uint32]*TextureState),
		shaders:       make(map[uint32]shaderState),
		programs:      make(map[uint32][]string),
	}
	for _, k := range []Kind{Buffer, VertexArray, Texture, Shader, Program} {
		d.live[k] = make(map[uint32]bool)
		d.released[k] = make(map[uint32]int)
	}
	return d
}

var _ graphics.Device = (*Device)(nil)

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) fail(format string, args ...any) {
	d.Errors = append(d.Errors, fmt.Sprintf(format, args...))
}

func (d *Device) gen(kind Kind) uint32 {
	d.nextID++
	d.live[kind][d.nextID] = true
	return d.nextID
}

func (d *Device) release(kind Kind, id uint32) {
	if id == 0 {
		return
	}
	d.released[kind][id]++
	if !d.live[kind][id] {
		d.fail("delete of %s %d that is not live", kind, id)
		return
	}
	delete(d.live[kind], id)
}

// Live returns the number of objects of kind that have been created and not
// yet deleted.
func (d *Device) Live(kind Kind) int {
	return len(d.live[kind])
}

// Released returns how many times the object id of kind was deleted.
func (d *Device) Released(kind Kind, id uint32) int {
	return d.released[kind][id]
}

// Count returns the number of recorded calls whose text starts with prefix.
func (d *Device) Count(prefix string) int {
	n := 0
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// BufferBytes returns the raw contents uploaded to buffer id.
func (d *Device) BufferBytes(id uint32) []byte {
	return d.buffers[id]
}

// Attribs returns the attribute state recorded on vertex array vao.
func (d *Device) Attribs(vao uint32) map[uint32]*Attrib {
	return d.attribs[vao]
}

// TextureState returns the recorded state of texture id.
func (d *Device) TextureState(id uint32) *TextureState {
	return d.textures[id]
}

func (d *Device) SetClearColor(r, g, b, a float32) {
	d.ClearColor = [4]float32{r, g, b, a}
	d.record("SetClearColor(%g, %g, %g, %g)", r, g, b, a)
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
}

func (d *Device) Clear() {
	d.record("Clear")
}

func (d *Device) CompileShader(stage graphics.ShaderStage, source string) (uint32, string, bool) {
	id := d.gen(Shader)
	d.shaders[id] = shaderState{stage: stage, source: source}
	d.record("CompileShader(%s)", stage)
	compile := d.CompileFunc
	if compile == nil {
		compile = defaultCompile
	}
	infoLog, ok := compile(stage, source)
	return id, infoLog, ok
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	id := d.gen(Program)
	d.record("LinkProgram(%d)", id)
	var uniforms []string
	for _, s := range shaders {
		st, ok := d.shaders[s]
		if !ok || !d.live[Shader][s] {
			d.fail("attach of shader %d that is not live", s)
			continue
		}
		uniforms = append(uniforms, uniformNames(st.source)...)
	}
	d.programs[id] = uniforms
	if d.LinkFunc != nil {
		if infoLog, ok := d.LinkFunc(shaders); !ok {
			return id, infoLog, false
		}
	}
	return id, "", true
}

func (d *Device) DeleteShader(id uint32) {
	d.record("DeleteShader(%d)", id)
	d.release(Shader, id)
}

func (d *Device) DeleteProgram(id uint32) {
	d.record("DeleteProgram(%d)", id)
	d.release(Program, id)
	if d.CurrentProgram == id {
		d.CurrentProgram = 0
	}
}

func (d *Device) UseProgram(id uint32) {
	d.record("UseProgram(%d)", id)
	if id != 0 && !d.live[Program][id] {
		d.fail("use of program %d that is not live", id)
	}
	d.CurrentProgram = id
}

func (d *Device) GetUniformLocation(program uint32, name string) int32 {
	for i, u := range d.programs[program] {
		if u == name {
			return int32(i)
		}
	}
	return -1
}

func (d *Device) Uniform1i(location int32, v int32) {
	d.record("Uniform1i(%d, %d)", location, v)
	if d.CurrentProgram == 0 {
		d.fail("uniform set with no current program")
	}
	if location < 0 {
		return
	}
	d.Uniforms[location] = v
}

func (d *Device) GenVertexArray() uint32 {
	id := d.gen(VertexArray)
	d.attribs[id] = make(map[uint32]*Attrib)
	d.record("GenVertexArray(%d)", id)
	return id
}

func (d *Device) BindVertexArray(id uint32) {
	d.record("BindVertexArray(%d)", id)
	if id != 0 && !d.live[VertexArray][id] {
		d.fail("bind of vertex array %d that is not live", id)
	}
	d.BoundVAO = id
}

func (d *Device) DeleteVertexArray(id uint32) {
	d.record("DeleteVertexArray(%d)", id)
	d.release(VertexArray, id)
	if d.BoundVAO == id {
		d.BoundVAO = 0
	}
}

func (d *Device) GenBuffer() uint32 {
	id := d.gen(Buffer)
	d.record("GenBuffer(%d)", id)
	return id
}

func (d *Device) BindArrayBuffer(id uint32) {
	d.record("BindArrayBuffer(%d)", id)
	if id != 0 && !d.live[Buffer][id] {
		d.fail("bind of buffer %d that is not live", id)
	}
	d.BoundArrayBuffer = id
}

func (d *Device) BufferStaticData(data []float32) {
	d.record("BufferStaticData(%d)", len(data)*4)
	if d.BoundArrayBuffer == 0 {
		d.fail("buffer upload with no array buffer bound")
		return
	}
	raw := make([]byte, len(data)*4)
	for i, f := range data {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(f))
	}
	d.buffers[d.BoundArrayBuffer] = raw
}

func (d *Device) GetBufferData(dst []float32) {
	d.record("GetBufferData(%d)", len(dst)*4)
	raw := d.buffers[d.BoundArrayBuffer]
	for i := range dst {
		if (i+1)*4 > len(raw) {
			d.fail("read past end of buffer %d", d.BoundArrayBuffer)
			return
		}
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
}

func (d *Device) DeleteBuffer(id uint32) {
	d.record("DeleteBuffer(%d)", id)
	d.release(Buffer, id)
	if d.BoundArrayBuffer == id {
		d.BoundArrayBuffer = 0
	}
}

func (d *Device) vertexArrayAttrib(index uint32) *Attrib {
	if d.BoundVAO == 0 {
		d.fail("attribute %d configured with no vertex array bound", index)
		return &Attrib{}
	}
	a, ok := d.attribs[d.BoundVAO][index]
	if !ok {
		a = &Attrib{}
		d.attribs[d.BoundVAO][index] = a
	}
	return a
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	d.record("EnableVertexAttribArray(%d)", index)
	d.vertexArrayAttrib(index).Enabled = true
}

func (d *Device) VertexAttribPointer(index uint32, components int32, stride int32, offset int) {
	d.record("VertexAttribPointer(%d, %d, %d, %d)", index, components, stride, offset)
	a := d.vertexArrayAttrib(index)
	a.Components = components
	a.Stride = stride
	a.Offset = offset
	a.Buffer = d.BoundArrayBuffer
}

func (d *Device) DrawTriangles(first, count int32) {
	d.record("DrawTriangles(%d, %d)", first, count)
	if d.CurrentProgram == 0 {
		d.fail("draw with no current program")
	}
	if d.BoundVAO == 0 {
		d.fail("draw with no vertex array bound")
	}
}

func (d *Device) GenTexture() uint32 {
	id := d.gen(Texture)
	d.textures[id] = &TextureState{}
	d.record("GenTexture(%d)", id)
	return id
}

func (d *Device) ActiveTexture(unit uint32) {
	d.record("ActiveTexture(%d)", unit)
	d.ActiveUnit = unit
}

func (d *Device) BindTexture2D(id uint32) {
	d.record("BindTexture2D(%d)", id)
	if id != 0 && !d.live[Texture][id] {
		d.fail("bind of texture %d that is not live", id)
	}
	d.BoundTextures[d.ActiveUnit] = id
}

func (d *Device) boundTexture() *TextureState {
	id := d.BoundTextures[d.ActiveUnit]
	if id == 0 {
		d.fail("texture operation with no texture bound")
		return &TextureState{}
	}
	return d.textures[id]
}

func (d *Device) TexParameters2D(wrapS, wrapT graphics.Wrap, minFilter, magFilter graphics.Filter) {
	d.record("TexParameters2D(%d, %d, %d, %d)", wrapS, wrapT, minFilter, magFilter)
	t := d.boundTexture()
	t.WrapS, t.WrapT = wrapS, wrapT
	t.MinFilter, t.MagFilter = minFilter, magFilter
}

func (d *Device) TexImage2DRGBA(width, height int32, pixels []byte) {
	d.record("TexImage2DRGBA(%d, %d)", width, height)
	if int(width)*int(height)*4 != len(pixels) {
		d.fail("texture upload of %d bytes for %dx%d", len(pixels), width, height)
	}
	t := d.boundTexture()
	t.Width, t.Height = width, height
	t.Pixels = append([]byte(nil), pixels...)
}

func (d *Device) GenerateMipmap2D() {
	d.record("GenerateMipmap2D")
	d.boundTexture().Mipmapped = true
}

func (d *Device) DeleteTexture(id uint32) {
	d.record("DeleteTexture(%d)", id)
	d.release(Texture, id)
	for unit, bound := range d.BoundTextures {
		if bound == id {
			d.BoundTextures[unit] = 0
		}
	}
}

// SyntaxErrorLog is the info log reported by the default compiler.
const SyntaxErrorLog = "0:1(1): error: syntax error, unexpected end of file"

func defaultCompile(_ graphics.ShaderStage, source string) (string, bool) {
	if !strings.Contains(source, "void main") || !balanced(source) {
		return SyntaxErrorLog, false
	}
	return "", true
}

func balanced(source string) bool {
	var stack []rune
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}
	for _, r := range source {
		switch r {
		case '(', '{', '[':
			stack = append(stack, r)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// uniformNames extracts the names declared by "uniform <type> <name>;"
// lines.
func uniformNames(source string) []string {
	var names []string
	for _, line := range strings.Split(source, "\n") {
		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if len(fields) >= 3 && fields[0] == "uniform" {
			names = append(names, strings.TrimSuffix(fields[len(fields)-1], ";"))
		}
	}
	return names
}
