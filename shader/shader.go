package shader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/richinsley/gotriangle/graphics"
)

// CompileError reports a shader stage the driver refused to compile.
type CompileError struct {
	Stage graphics.ShaderStage
	Path  string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader %s: %s", e.Stage, e.Path, e.Log)
}

// LinkError reports a program the driver refused to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// Translation is a shader rewritten for the desktop core profile.
type Translation struct {
	Code string
	// Uniforms maps source uniform names to their names in Code.
	Uniforms map[string]string
}

// Translator rewrites GLSL ES sources for the desktop GL context.
type Translator interface {
	Translate(source string, stage graphics.ShaderStage) (*Translation, error)
}

// Program is a linked vertex and fragment program.
type Program struct {
	dev       graphics.Device
	id        uint32
	uniforms  map[string]string
	locations map[string]int32
}

// Load reads, compiles and links the two stages. Sources declaring
// "#version 300 es" go through tr first; tr may be nil when no such sources
// are used. On failure every intermediate object is deleted.
func Load(dev graphics.Device, vertexPath, fragmentPath string, tr Translator) (*Program, error) {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vertex shader: %w", err)
	}
	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fragment shader: %w", err)
	}

	uniforms := make(map[string]string)
	vs, err := compile(dev, graphics.VertexShader, vertexPath, string(vertexSource), tr, uniforms)
	if err != nil {
		return nil, err
	}
	fs, err := compile(dev, graphics.FragmentShader, fragmentPath, string(fragmentSource), tr, uniforms)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}

	id, infoLog, ok := dev.LinkProgram(vs, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if !ok {
		dev.DeleteProgram(id)
		return nil, &LinkError{Log: cleanLog(infoLog)}
	}

	log.Printf("Linked shader program %d (%s, %s)", id, vertexPath, fragmentPath)
	return &Program{
		dev:       dev,
		id:        id,
		uniforms:  uniforms,
		locations: make(map[string]int32),
	}, nil
}

func compile(dev graphics.Device, stage graphics.ShaderStage, path, source string, tr Translator, uniforms map[string]string) (uint32, error) {
	if isESSL(source) {
		if tr == nil {
			return 0, &CompileError{Stage: stage, Path: path, Log: "GLSL ES source needs a translator"}
		}
		t, err := tr.Translate(source, stage)
		if err != nil {
			return 0, &CompileError{Stage: stage, Path: path, Log: err.Error()}
		}
		source = t.Code
		for name, mapped := range t.Uniforms {
			uniforms[name] = mapped
		}
	}

	id, infoLog, ok := dev.CompileShader(stage, source)
	if !ok {
		dev.DeleteShader(id)
		return 0, &CompileError{Stage: stage, Path: path, Log: cleanLog(infoLog)}
	}
	return id, nil
}

func isESSL(source string) bool {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(line)
		return len(fields) == 3 && fields[0] == "#version" && fields[2] == "es"
	}
	return false
}

func cleanLog(s string) string {
	return strings.TrimRight(s, "\x00\r\n ")
}

// Use makes the program current.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

func (p *Program) ID() uint32 {
	return p.id
}

// UniformLocation returns the location of a uniform by its source name, or
// -1 if the program has no such active uniform.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	mapped := name
	if m, ok := p.uniforms[name]; ok {
		mapped = m
	}
	loc := p.dev.GetUniformLocation(p.id, mapped)
	p.locations[name] = loc
	return loc
}

// SetSampler points the sampler uniform name at texture unit. The program
// must be current.
func (p *Program) SetSampler(name string, unit int32) {
	loc := p.UniformLocation(name)
	if loc < 0 {
		log.Printf("Warning: program %d has no active uniform %q", p.id, name)
	}
	p.dev.Uniform1i(loc, unit)
}

// Destroy deletes the program.
func (p *Program) Destroy() {
	p.dev.DeleteProgram(p.id)
	p.id = 0
}
