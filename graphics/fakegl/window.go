package fakegl

import "github.com/richinsley/gotriangle/graphics"

// Window is a graphics.Context that logs into its Device's call list so
// window and device calls interleave in one ordered record.
type Window struct {
	Device *Device
	Width  int
	Height int
	// CloseAfterPolls makes the poll with this ordinal deliver a close
	// request. Zero never closes.
	CloseAfterPolls int

	Polls     int
	Swaps     int
	Shutdowns int
	closed    bool
}

// NewWindow returns a window of the given size recording into dev.
func NewWindow(dev *Device, width, height int) *Window {
	return &Window{Device: dev, Width: width, Height: height}
}

var _ graphics.Context = (*Window)(nil)

// RequestClose queues a close request as a window manager would.
func (w *Window) RequestClose() {
	w.closed = true
}

func (w *Window) MakeCurrent() {
	w.Device.record("MakeCurrent")
}

func (w *Window) Shutdown() {
	w.Shutdowns++
	w.Device.record("Shutdown")
}

func (w *Window) ShouldClose() bool {
	return w.closed
}

func (w *Window) PollEvents() {
	w.Polls++
	w.Device.record("PollEvents")
	if w.CloseAfterPolls > 0 && w.Polls >= w.CloseAfterPolls {
		w.closed = true
	}
}

func (w *Window) SwapBuffers() {
	w.Swaps++
	w.Device.record("SwapBuffers")
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Width, w.Height
}
