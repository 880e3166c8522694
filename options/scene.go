package options

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default asset locations, relative to the working directory.
const (
	DefaultVertexShader          = "shaders/vertex.txt"
	DefaultFragmentShader        = "shaders/fragment.txt"
	DefaultColoredVertexShader   = "shaders/vertex_colored.txt"
	DefaultColoredFragmentShader = "shaders/fragment_colored.txt"
	DefaultTexture               = "textures/wood-texture.png"
	DefaultSamplerUniform        = "imageTexture"
)

// Scene is the full startup configuration. The zero value is not usable;
// start from Default or Load.
type Scene struct {
	Window     WindowConfig  `yaml:"window"`
	FPS        int           `yaml:"fps"`
	ClearColor []float32     `yaml:"clearColor"`
	Shaders    ShaderConfig  `yaml:"shaders"`
	Texture    TextureConfig `yaml:"texture"`
}

type WindowConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Title        string `yaml:"title"`
	SwapInterval int    `yaml:"swapInterval"`
	GLMajor      int    `yaml:"glMajor"`
	GLMinor      int    `yaml:"glMinor"`
}

type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

type TextureConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
	// Uniform is the sampler uniform bound to texture unit 0.
	Uniform   string `yaml:"uniform"`
	Wrap      string `yaml:"wrap"`
	MinFilter string `yaml:"minFilter"`
	MagFilter string `yaml:"magFilter"`
	FlipY     bool   `yaml:"flipY"`
}

// Default returns the textured triangle in a 640x480 window at 60 fps.
func Default() *Scene {
	return &Scene{
		Window: WindowConfig{
			Width:        640,
			Height:       480,
			Title:        "gotriangle",
			SwapInterval: 1,
			GLMajor:      4,
			GLMinor:      1,
		},
		FPS:        60,
		ClearColor: []float32{0.1, 0.2, 0.2, 1.0},
		Shaders: ShaderConfig{
			Vertex:   DefaultVertexShader,
			Fragment: DefaultFragmentShader,
		},
		Texture: TextureConfig{
			Path:      DefaultTexture,
			Uniform:   DefaultSamplerUniform,
			Wrap:      "repeat",
			MinFilter: "nearest",
			MagFilter: "linear",
		},
	}
}

// Load reads a YAML scene file. Keys missing from the file keep their
// Default values.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Textured reports whether the scene draws with a texture.
func (s *Scene) Textured() bool {
	return !s.Texture.Disabled && s.Texture.Path != ""
}

// Normalize fills derived defaults. An untextured scene still pointing at
// the textured default shaders is switched to the coloured ones.
func (s *Scene) Normalize() {
	if !s.Textured() &&
		s.Shaders.Vertex == DefaultVertexShader &&
		s.Shaders.Fragment == DefaultFragmentShader {
		s.Shaders.Vertex = DefaultColoredVertexShader
		s.Shaders.Fragment = DefaultColoredFragmentShader
	}
	if s.Texture.Uniform == "" {
		s.Texture.Uniform = DefaultSamplerUniform
	}
	if s.Window.Title == "" {
		s.Window.Title = "gotriangle"
	}
}

// Validate rejects configurations the renderer cannot start with.
func (s *Scene) Validate() error {
	var errs []error
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", s.Window.Width, s.Window.Height))
	}
	if s.Window.GLMajor < 3 || (s.Window.GLMajor == 3 && s.Window.GLMinor < 3) {
		errs = append(errs, fmt.Errorf("OpenGL %d.%d is older than 3.3", s.Window.GLMajor, s.Window.GLMinor))
	}
	if s.Window.SwapInterval < 0 {
		errs = append(errs, fmt.Errorf("swap interval %d is negative", s.Window.SwapInterval))
	}
	if s.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", s.FPS))
	}
	if len(s.ClearColor) != 4 {
		errs = append(errs, fmt.Errorf("clear color needs 4 components, got %d", len(s.ClearColor)))
	}
	if s.Shaders.Vertex == "" || s.Shaders.Fragment == "" {
		errs = append(errs, errors.New("both shader paths are required"))
	}
	return errors.Join(errs...)
}

// Color returns the clear colour as RGBA.
func (s *Scene) Color() (r, g, b, a float32) {
	return s.ClearColor[0], s.ClearColor[1], s.ClearColor[2], s.ClearColor[3]
}
