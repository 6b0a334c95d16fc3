package graphics

import (
	"fmt"
	"log/slog"
	"time"

	glpkg "github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/window"
)

// Minimum context version; the built-in shaders use "#version 330 core".
const (
	minMajorVersion = 3
	minMinorVersion = 3
)

type glWindow struct {
	platform window.Window
	gl       glpkg.OpenGL

	now func() time.Time

	// Last viewport size applied, to skip redundant Viewport calls.
	viewportW int
	viewportH int
}

// New returns a Window drawing into platform's OpenGL context. The platform
// window is closed if the context is unusable.
func New(platform window.Window) (Window, error) {
	gl, err := platform.GL()
	if err != nil {
		platform.Close()
		return nil, err
	}

	// Check GL version
	versionStr := gl.GetString(glpkg.Version)
	var major, minor int
	if _, err := fmt.Sscanf(versionStr, "%d.%d", &major, &minor); err != nil ||
		major < minMajorVersion || (major == minMajorVersion && minor < minMinorVersion) {
		platform.Close()
		return nil, fmt.Errorf("OpenGL %d.%d+ required, got version: %q", minMajorVersion, minMinorVersion, versionStr)
	}

	slog.Info("OpenGL context ready",
		"vendor", gl.GetString(glpkg.Vendor),
		"renderer", gl.GetString(glpkg.Renderer),
		"version", versionStr,
		"glsl", gl.GetString(glpkg.ShadingLanguageVersion),
	)

	return &glWindow{
		platform: platform,
		gl:       gl,
		now:      time.Now,
	}, nil
}

func (w *glWindow) PlatformWindow() window.Window {
	return w.platform
}

func (w *glWindow) GL() glpkg.OpenGL {
	return w.gl
}

func (w *glWindow) Run(load LoadFunc, render RenderFunc) error {
	defer w.platform.Close()

	cleanup, err := load(w.gl)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	frames := 0
	last := w.now()
	for w.platform.Poll() {
		w.prepareFrame()

		now := w.now()
		dt := now.Sub(last).Seconds()
		last = now

		if err := render(w.gl, dt); err != nil {
			return fmt.Errorf("render frame %d: %w", frames, err)
		}

		w.platform.Swap()
		frames++
	}

	slog.Debug("window closed", "frames", frames)
	return nil
}

func (w *glWindow) prepareFrame() {
	bw, bh := w.platform.BackingSize()
	if bw == w.viewportW && bh == w.viewportH {
		return
	}
	w.gl.Viewport(0, 0, int32(bw), int32(bh))
	w.viewportW, w.viewportH = bw, bh
}
