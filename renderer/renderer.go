package renderer

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/gotriangle/graphics"
	"github.com/richinsley/gotriangle/mesh"
	"github.com/richinsley/gotriangle/options"
	"github.com/richinsley/gotriangle/shader"
	"github.com/richinsley/gotriangle/texture"
)

// samplerUnit is the texture unit the scene texture is bound to.
const samplerUnit = 0

// Renderer owns the window context, the device, the shader program and the
// scene resources, and runs the frame loop.
type Renderer struct {
	context    graphics.Context
	device     graphics.Device
	scene      *options.Scene
	translator shader.Translator
	clock      Clock

	program *shader.Program
	mesh    *mesh.Mesh
	texture *texture.Texture

	frameCount int
}

// NewRenderer takes ownership of ctx, which must already be current on the
// calling thread, and sets the persistent clear colour. tr may be nil if no
// GLSL ES shaders are used.
func NewRenderer(ctx graphics.Context, dev graphics.Device, scene *options.Scene, tr shader.Translator) (*Renderer, error) {
	if scene == nil {
		return nil, errors.New("renderer needs a scene")
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	r := &Renderer{
		context:    ctx,
		device:     dev,
		scene:      scene,
		translator: tr,
		clock:      systemClock{},
	}

	width, height := ctx.GetFramebufferSize()
	dev.Viewport(0, 0, int32(width), int32(height))
	dev.SetClearColor(scene.Color())
	return r, nil
}

// InitScene compiles the shader program and creates the mesh and, for a
// textured scene, the texture. On failure everything created so far is
// released before the error is returned.
func (r *Renderer) InitScene() error {
	program, err := shader.Load(r.device, r.scene.Shaders.Vertex, r.scene.Shaders.Fragment, r.translator)
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program

	textured := r.scene.Textured()
	layout := mesh.PositionColor
	if textured {
		r.program.Use()
		r.program.SetSampler(r.scene.Texture.Uniform, samplerUnit)
		layout = mesh.PositionColorTexCoord
	}

	r.mesh, err = mesh.New(r.device, mesh.Pack(mesh.Triangle[:], layout), layout)
	if err != nil {
		r.releaseScene()
		return fmt.Errorf("failed to create mesh: %w", err)
	}

	if textured {
		cfg := r.scene.Texture
		sampler, err := texture.ParseSampler(cfg.Wrap, cfg.MinFilter, cfg.MagFilter, cfg.FlipY)
		if err != nil {
			r.releaseScene()
			return fmt.Errorf("invalid texture sampler: %w", err)
		}
		r.texture, err = texture.Load(r.device, cfg.Path, sampler)
		if err != nil {
			r.releaseScene()
			return err
		}
	}

	log.Printf("Successfully loaded scene (%d vertices, stride %d, textured=%v)", r.mesh.VertexCount(), layout.Stride, textured)
	return nil
}

// RenderFrame clears the framebuffer and draws the mesh once.
func (r *Renderer) RenderFrame() {
	r.device.Clear()
	if r.texture != nil {
		r.texture.Use()
	}
	r.program.Use()
	r.mesh.Bind()
	r.device.DrawTriangles(0, int32(r.mesh.VertexCount()))
}

// Run draws frames until the window receives a close request. The loop is
// capped at the scene's frame rate.
func (r *Renderer) Run() {
	limiter := newFrameLimiter(r.clock, r.scene.FPS)
	start := r.clock.Now()
	for {
		r.context.PollEvents()
		if r.context.ShouldClose() {
			break
		}
		r.RenderFrame()
		r.context.SwapBuffers()
		r.frameCount++
		limiter.Wait()
	}

	elapsed := r.clock.Now().Sub(start).Seconds()
	if elapsed > 0 {
		log.Printf("Rendered %d frames in %.2fs (%.1f fps)", r.frameCount, elapsed, float64(r.frameCount)/elapsed)
	}
}

// FrameCount returns the number of frames presented so far.
func (r *Renderer) FrameCount() int {
	return r.frameCount
}

// Mesh returns the scene mesh, or nil before InitScene.
func (r *Renderer) Mesh() *mesh.Mesh {
	return r.mesh
}

// releaseScene destroys the mesh, the texture and the program, in that
// order, and forgets them.
func (r *Renderer) releaseScene() {
	if r.mesh != nil {
		r.mesh.Destroy()
		r.mesh = nil
	}
	if r.texture != nil {
		r.texture.Destroy()
		r.texture = nil
	}
	if r.program != nil {
		r.program.Destroy()
		r.program = nil
	}
}

// Shutdown releases the scene resources and then the context. Calling it
// again does nothing.
func (r *Renderer) Shutdown() {
	if r.context == nil {
		return
	}
	r.releaseScene()
	r.context.Shutdown()
	r.context = nil
}
