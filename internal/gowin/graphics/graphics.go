package graphics

import (
	"image/color"

	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/window"
)

// ColorToFloat32 converts a color.Color to RGBA float32 values in the range [0, 1].
func ColorToFloat32(c color.Color) [4]float32 {
	r, g, b, a := c.RGBA()
	// RGBA() returns values in range [0, 0xffff], convert to [0, 1]
	return [4]float32{
		float32(r) / 0xffff,
		float32(g) / 0xffff,
		float32(b) / 0xffff,
		float32(a) / 0xffff,
	}
}

// ColorCornflowerBlue is the classic XNA/System.Drawing cornflower blue.
var ColorCornflowerBlue = color.RGBA{R: 100, G: 149, B: 237, A: 255}

// LoadFunc runs once after the context is ready and before the first frame.
// The returned cleanup, if any, runs on the same thread when the loop exits.
type LoadFunc func(gl gl.OpenGL) (cleanup func(), err error)

// RenderFunc draws one frame. dt is the time in seconds since the previous
// frame, or since load for the first frame.
type RenderFunc func(gl gl.OpenGL, dt float64) error

type Window interface {
	// Return the platform-specific window implementation.
	PlatformWindow() window.Window

	// GL returns the entry points of the window's context.
	GL() gl.OpenGL

	// Run calls load once and then render once per frame until the window
	// closes or a callback returns an error. The platform window is closed
	// when Run returns.
	Run(load LoadFunc, render RenderFunc) error
}
