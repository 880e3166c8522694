package graphics

// ShaderStage identifies one programmable pipeline stage.
type ShaderStage int

const (
	VertexShader ShaderStage = iota
	FragmentShader
)

func (s ShaderStage) String() string {
	switch s {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return "unknown"
	}
}

// Wrap is a texture addressing mode.
type Wrap int

const (
	Repeat Wrap = iota
	ClampToEdge
	MirroredRepeat
)

// Filter is a texture minification or magnification filter.
type Filter int

const (
	Nearest Filter = iota
	Linear
	NearestMipmapNearest
	LinearMipmapNearest
	NearestMipmapLinear
	LinearMipmapLinear
)

// Device is the subset of the OpenGL API the renderer uses. Handles are
// plain GL object names; zero is never a valid object.
//
// All methods must be called from the thread that owns the current context.
type Device interface {
	SetClearColor(r, g, b, a float32)
	Viewport(x, y, width, height int32)
	Clear()

	// CompileShader creates a shader object and compiles source into it.
	// The object is returned even when compilation fails so the caller can
	// delete it.
	CompileShader(stage ShaderStage, source string) (id uint32, infoLog string, ok bool)
	// LinkProgram creates a program, attaches shaders and links it. As with
	// CompileShader the program object is returned on failure.
	LinkProgram(shaders ...uint32) (id uint32, infoLog string, ok bool)
	DeleteShader(id uint32)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)

	GenVertexArray() uint32
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)
	GenBuffer() uint32
	BindArrayBuffer(id uint32)
	// BufferStaticData uploads data to the bound array buffer with
	// STATIC_DRAW usage.
	BufferStaticData(data []float32)
	// GetBufferData reads len(dst) floats back from the bound array buffer.
	GetBufferData(dst []float32)
	DeleteBuffer(id uint32)
	EnableVertexAttribArray(index uint32)
	// VertexAttribPointer describes a float attribute of the bound array
	// buffer; stride and offset are in bytes.
	VertexAttribPointer(index uint32, components int32, stride int32, offset int)
	DrawTriangles(first, count int32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture2D(id uint32)
	TexParameters2D(wrapS, wrapT Wrap, minFilter, magFilter Filter)
	// TexImage2DRGBA uploads tightly packed RGBA8 pixels to the bound 2D
	// texture at level 0.
	TexImage2DRGBA(width, height int32, pixels []byte)
	GenerateMipmap2D()
	DeleteTexture(id uint32)
}
