package options

// EngineOptions collects the command-line flags. Pointers are nil for flags
// that were never registered.
type EngineOptions struct {
	ConfigFile     *string
	Help           *bool
	Width          *int
	Height         *int
	FPS            *int
	Title          *string
	VertexShader   *string
	FragmentShader *string
	Texture        *string
	NoTexture      *bool
	FlipY          *bool
	SwapInterval   *int
}

// Apply copies every flag for which isSet reports true onto s. Flags left
// at their defaults do not override values from a scene file.
func (o *EngineOptions) Apply(s *Scene, isSet func(name string) bool) {
	if o.Width != nil && isSet("width") {
		s.Window.Width = *o.Width
	}
	if o.Height != nil && isSet("height") {
		s.Window.Height = *o.Height
	}
	if o.FPS != nil && isSet("fps") {
		s.FPS = *o.FPS
	}
	if o.Title != nil && isSet("title") {
		s.Window.Title = *o.Title
	}
	if o.SwapInterval != nil && isSet("swap-interval") {
		s.Window.SwapInterval = *o.SwapInterval
	}
	if o.VertexShader != nil && isSet("vertex") {
		s.Shaders.Vertex = *o.VertexShader
	}
	if o.FragmentShader != nil && isSet("fragment") {
		s.Shaders.Fragment = *o.FragmentShader
	}
	if o.Texture != nil && isSet("texture") {
		s.Texture.Path = *o.Texture
		s.Texture.Disabled = false
	}
	if o.NoTexture != nil && isSet("no-texture") {
		s.Texture.Disabled = *o.NoTexture
	}
	if o.FlipY != nil && isSet("flip-y") {
		s.Texture.FlipY = *o.FlipY
	}
}
