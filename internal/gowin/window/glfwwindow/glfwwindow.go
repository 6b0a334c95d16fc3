// Package glfwwindow implements window.Window with GLFW.
package glfwwindow

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/window"
)

type glfwWindow struct {
	win *glfw.Window
}

// New creates a window with an OpenGL 3.3 core context and makes the context
// current. It must run on the main OS thread.
func New(opts window.Options) (window.Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("create window: %w", err)
	}

	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	return &glfwWindow{win: win}, nil
}

func (w *glfwWindow) GL() (gl.OpenGL, error) {
	return gl.Load(glfw.GetProcAddress)
}

func (w *glfwWindow) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
	runtime.UnlockOSThread()
}

func (w *glfwWindow) Poll() bool {
	if w.win == nil {
		return false
	}
	glfw.PollEvents()
	return !w.win.ShouldClose()
}

func (w *glfwWindow) Swap() {
	if w.win != nil {
		w.win.SwapBuffers()
	}
}

func (w *glfwWindow) BackingSize() (int, int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}
