package window

import "github.com/tinyrange/glquad/internal/gowin/gl"

// Window is a native window owning a current OpenGL context.
//
// All methods must be called from the OS thread that created the window.
type Window interface {
	// GL binds the entry points of the window's context.
	GL() (gl.OpenGL, error)
	Close()
	// Poll pumps pending events once. It returns false once the window has
	// been asked to close.
	Poll() bool
	Swap()
	// BackingSize returns the framebuffer size in pixels.
	BackingSize() (width, height int)
}

// Options configures a new window.
type Options struct {
	Title  string
	Width  int
	Height int
	// VSync syncs Swap to the display refresh rate.
	VSync bool
}
