package graphics

// Context defines the interface for a window owning an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	// ShouldClose reports whether a close request has been received.
	ShouldClose() bool
	// PollEvents drains all pending window events.
	PollEvents()
	SwapBuffers()
	GetFramebufferSize() (int, int)
}
