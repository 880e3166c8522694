package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/richinsley/gotriangle/gldevice"
	"github.com/richinsley/gotriangle/glfwcontext"
	"github.com/richinsley/gotriangle/graphics"
	options "github.com/richinsley/gotriangle/options"
	renderer "github.com/richinsley/gotriangle/renderer"
	"github.com/richinsley/gotriangle/translator"
)

// openContext initializes GLFW, creates the window and loads the OpenGL
// bindings. Every failure leaves GLFW terminated.
func openContext(scene *options.Scene) (graphics.Context, graphics.Device, error) {
	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, &renderer.ContextInitError{Stage: "GLFW", Err: err}
	}

	ctx, err := glfwcontext.New(scene)
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, &renderer.ContextInitError{Stage: "window", Err: err}
	}

	dev, err := gldevice.New()
	if err != nil {
		ctx.Shutdown()
		glfwcontext.TerminateGraphics()
		return nil, nil, &renderer.ContextInitError{Stage: "OpenGL", Err: err}
	}
	return ctx, dev, nil
}

func runTriangle(scene *options.Scene) error {
	ctx, dev, err := openContext(scene)
	if err != nil {
		return err
	}
	defer glfwcontext.TerminateGraphics()

	r, err := renderer.NewRenderer(ctx, dev, scene, translator.New())
	if err != nil {
		ctx.Shutdown()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Shutdown()

	if err := r.InitScene(); err != nil {
		return fmt.Errorf("failed to initialize scene: %w", err)
	}

	log.Println("Starting render loop...")
	r.Run()
	return nil
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.EngineOptions{
		ConfigFile:     flag.String("config", "", "YAML scene file"),
		Help:           flag.Bool("help", false, "Show help message"),
		Width:          flag.Int("width", 640, "Window width"),
		Height:         flag.Int("height", 480, "Window height"),
		FPS:            flag.Int("fps", 60, "Frame rate ceiling"),
		Title:          flag.String("title", "gotriangle", "Window title"),
		SwapInterval:   flag.Int("swap-interval", 1, "Buffer swap interval (0 disables vsync)"),
		VertexShader:   flag.String("vertex", options.DefaultVertexShader, "Vertex shader source"),
		FragmentShader: flag.String("fragment", options.DefaultFragmentShader, "Fragment shader source"),
		Texture:        flag.String("texture", options.DefaultTexture, "Texture image"),
		NoTexture:      flag.Bool("no-texture", false, "Draw the untextured triangle"),
		FlipY:          flag.Bool("flip-y", false, "Flip the texture vertically"),
	}
	flag.Parse()

	if *opts.Help {
		fmt.Println("gotriangle: draws one triangle until the window is closed")
		flag.PrintDefaults()
		return
	}

	scene := options.Default()
	if *opts.ConfigFile != "" {
		var err error
		scene, err = options.Load(*opts.ConfigFile)
		if err != nil {
			log.Fatalf("Error loading scene: %v", err)
		}
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	opts.Apply(scene, func(name string) bool { return set[name] })
	scene.Normalize()
	if err := scene.Validate(); err != nil {
		log.Fatalf("Invalid scene: %v", err)
	}

	if err := runTriangle(scene); err != nil {
		log.Fatalf("%v", err)
	}
}
