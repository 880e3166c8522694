package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/richinsley/gotriangle/graphics/fakegl"
	"github.com/richinsley/gotriangle/mesh"
	"github.com/richinsley/gotriangle/options"
	"github.com/richinsley/gotriangle/shader"
	"github.com/richinsley/gotriangle/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept += d
	c.now = c.now.Add(d)
}

// testScene points the default scene at the repository's assets.
func testScene() *options.Scene {
	s := options.Default()
	s.Shaders.Vertex = filepath.Join("..", options.DefaultVertexShader)
	s.Shaders.Fragment = filepath.Join("..", options.DefaultFragmentShader)
	s.Texture.Path = filepath.Join("..", options.DefaultTexture)
	return s
}

func coloredScene() *options.Scene {
	s := testScene()
	s.Texture.Disabled = true
	s.Shaders.Vertex = filepath.Join("..", options.DefaultColoredVertexShader)
	s.Shaders.Fragment = filepath.Join("..", options.DefaultColoredFragmentShader)
	return s
}

func newTestRenderer(t *testing.T, scene *options.Scene) (*Renderer, *fakegl.Device, *fakegl.Window, *fakeClock) {
	t.Helper()
	dev := fakegl.New()
	win := fakegl.NewWindow(dev, scene.Window.Width, scene.Window.Height)
	r, err := NewRenderer(win, dev, scene, nil)
	require.NoError(t, err)
	clock := newFakeClock()
	r.clock = clock
	return r, dev, win, clock
}

func assertAllReleased(t *testing.T, dev *fakegl.Device) {
	t.Helper()
	for _, k := range []fakegl.Kind{fakegl.Buffer, fakegl.VertexArray, fakegl.Texture, fakegl.Shader, fakegl.Program} {
		assert.Zero(t, dev.Live(k), "live %s objects", k)
	}
	assert.Empty(t, dev.Errors)
}

func TestNewRendererSetsClearColorAndViewport(t *testing.T) {
	_, dev, _, _ := newTestRenderer(t, testScene())
	assert.Equal(t, [4]float32{0.1, 0.2, 0.2, 1.0}, dev.ClearColor)
	assert.Equal(t, 1, dev.Count("Viewport(0, 0, 640, 480)"))
}

func TestNewRendererRejectsInvalidScene(t *testing.T) {
	dev := fakegl.New()
	s := testScene()
	s.FPS = 0
	_, err := NewRenderer(fakegl.NewWindow(dev, 640, 480), dev, s, nil)
	assert.Error(t, err)
	assert.Empty(t, dev.Calls)
}

func TestOneFrameThenClose(t *testing.T) {
	r, dev, win, _ := newTestRenderer(t, testScene())
	require.NoError(t, r.InitScene())

	prog := dev.CurrentProgram
	vao := r.mesh.VAO()
	vbo := r.mesh.VBO()
	tex := r.texture.ID()
	mark := len(dev.Calls)

	win.CloseAfterPolls = 2
	r.Run()
	r.Shutdown()

	want := []string{
		"PollEvents",
		"Clear",
		"ActiveTexture(0)",
		fmt.Sprintf("BindTexture2D(%d)", tex),
		fmt.Sprintf("UseProgram(%d)", prog),
		fmt.Sprintf("BindVertexArray(%d)", vao),
		"DrawTriangles(0, 3)",
		"SwapBuffers",
		"PollEvents",
		fmt.Sprintf("DeleteBuffer(%d)", vbo),
		fmt.Sprintf("DeleteVertexArray(%d)", vao),
		fmt.Sprintf("DeleteTexture(%d)", tex),
		fmt.Sprintf("DeleteProgram(%d)", prog),
		"Shutdown",
	}
	assert.Equal(t, want, dev.Calls[mark:])
	assert.Equal(t, 1, r.FrameCount())
	assert.Equal(t, 1, win.Swaps)
	assert.Equal(t, 1, win.Shutdowns)
	assertAllReleased(t, dev)
}

func TestShutdownTwiceReleasesOnce(t *testing.T) {
	r, dev, win, _ := newTestRenderer(t, testScene())
	require.NoError(t, r.InitScene())

	r.Shutdown()
	r.Shutdown()

	assert.Equal(t, 1, win.Shutdowns)
	assertAllReleased(t, dev)
}

func TestSamplerBoundOnceAfterLink(t *testing.T) {
	r, dev, win, _ := newTestRenderer(t, testScene())
	require.NoError(t, r.InitScene())

	win.CloseAfterPolls = 5
	r.Run()

	assert.Equal(t, 1, dev.Count("Uniform1i"))
	loc := r.program.UniformLocation(options.DefaultSamplerUniform)
	require.GreaterOrEqual(t, loc, int32(0))
	assert.Equal(t, int32(0), dev.Uniforms[loc])
	assert.Equal(t, 4, dev.Count("DrawTriangles(0, 3)"))
}

func TestTexturedMeshLayout(t *testing.T) {
	r, dev, _, _ := newTestRenderer(t, testScene())
	require.NoError(t, r.InitScene())

	assert.Len(t, dev.BufferBytes(r.Mesh().VBO()), 3*32)
	assert.Equal(t, mesh.Pack(mesh.Triangle[:], mesh.PositionColorTexCoord), r.Mesh().ReadBack())
}

func TestUntexturedVariant(t *testing.T) {
	r, dev, win, _ := newTestRenderer(t, coloredScene())
	require.NoError(t, r.InitScene())

	assert.Len(t, dev.BufferBytes(r.Mesh().VBO()), 3*24)
	assert.Zero(t, dev.Count("GenTexture"))
	assert.Zero(t, dev.Count("Uniform1i"))

	win.CloseAfterPolls = 2
	r.Run()
	r.Shutdown()

	assert.Zero(t, dev.Count("ActiveTexture"))
	assert.Equal(t, 1, dev.Count("DrawTriangles(0, 3)"))
	assertAllReleased(t, dev)
}

func TestShaderSyntaxErrorAbortsBeforeResources(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "fragment.txt")
	require.NoError(t, os.WriteFile(bad, []byte("#version 410 core\nvoid main() {\n"), 0o644))

	s := testScene()
	s.Shaders.Fragment = bad
	r, dev, _, _ := newTestRenderer(t, s)

	err := r.InitScene()
	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, bad, compileErr.Path)

	assert.Zero(t, dev.Count("GenVertexArray"))
	assert.Zero(t, dev.Count("GenBuffer"))
	assert.Zero(t, dev.Count("GenTexture"))
	assert.Zero(t, dev.Count("DrawTriangles"))

	r.Shutdown()
	assertAllReleased(t, dev)
}

func TestLinkErrorAbortsBeforeResources(t *testing.T) {
	r, dev, _, _ := newTestRenderer(t, testScene())
	dev.LinkFunc = func([]uint32) (string, bool) { return "link failed", false }

	err := r.InitScene()
	var linkErr *shader.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Zero(t, dev.Count("GenVertexArray"))

	r.Shutdown()
	assertAllReleased(t, dev)
}

func TestMissingTextureReleasesEverything(t *testing.T) {
	s := testScene()
	s.Texture.Path = filepath.Join(t.TempDir(), "missing.jpg")
	r, dev, win, _ := newTestRenderer(t, s)

	err := r.InitScene()
	var loadErr *texture.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Zero(t, dev.Count("GenTexture"))
	assertAllReleased(t, dev)

	r.Shutdown()
	assert.Equal(t, 1, win.Shutdowns)
	assertAllReleased(t, dev)
}

func TestInvalidSamplerReleasesEverything(t *testing.T) {
	s := testScene()
	s.Texture.Wrap = "tile"
	r, dev, _, _ := newTestRenderer(t, s)

	assert.Error(t, r.InitScene())
	assertAllReleased(t, dev)
}

func TestFrameRateCeiling(t *testing.T) {
	r, _, win, clock := newTestRenderer(t, testScene())
	require.NoError(t, r.InitScene())

	start := clock.Now()
	win.CloseAfterPolls = 601
	r.Run()

	assert.Equal(t, 600, r.FrameCount())
	assert.GreaterOrEqual(t, clock.Now().Sub(start), 10*time.Second)
}

func TestLimiterDoesNotSleepWhenBehind(t *testing.T) {
	clock := newFakeClock()
	l := newFrameLimiter(clock, 60)

	clock.now = clock.now.Add(50 * time.Millisecond)
	l.Wait()
	assert.Zero(t, clock.slept)

	l.Wait()
	assert.Equal(t, l.period, clock.slept)
}

func TestLimiterPeriodRoundsUp(t *testing.T) {
	for _, fps := range []int{1, 24, 30, 60, 144, 240} {
		l := newFrameLimiter(newFakeClock(), fps)
		assert.GreaterOrEqual(t, time.Duration(fps)*l.period, time.Second, "fps %d", fps)
	}
}
