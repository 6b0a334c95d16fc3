package graphics

import (
	"errors"
	"image/color"
	"testing"
	"time"

	glpkg "github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/gl/gltest"
)

// fakePlatform reports open for a fixed number of polls.
type fakePlatform struct {
	gl     *gltest.GL
	glErr  error
	frames int
	w, h   int

	polls  int
	swaps  int
	closed int
}

func (p *fakePlatform) GL() (glpkg.OpenGL, error) {
	if p.glErr != nil {
		return nil, p.glErr
	}
	return p.gl, nil
}

func (p *fakePlatform) Close() { p.closed++ }

func (p *fakePlatform) Poll() bool {
	p.polls++
	return p.polls <= p.frames
}

func (p *fakePlatform) Swap() { p.swaps++ }

func (p *fakePlatform) BackingSize() (int, int) { return p.w, p.h }

func newFakePlatform(frames int) *fakePlatform {
	return &fakePlatform{gl: gltest.New(), frames: frames, w: 800, h: 600}
}

func newTestWindow(t *testing.T, p *fakePlatform) *glWindow {
	t.Helper()
	w, err := New(p)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w.(*glWindow)
}

// stepClock advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestRunCallsLoadOnceAndRenderPerFrame(t *testing.T) {
	p := newFakePlatform(3)
	w := newTestWindow(t, p)
	w.now = stepClock(10 * time.Millisecond)

	var loads, renders, cleanups int
	var dts []float64
	err := w.Run(
		func(gl glpkg.OpenGL) (func(), error) {
			loads++
			return func() { cleanups++ }, nil
		},
		func(gl glpkg.OpenGL, dt float64) error {
			renders++
			dts = append(dts, dt)
			return nil
		},
	)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if loads != 1 || renders != 3 || cleanups != 1 {
		t.Fatalf("loads=%d renders=%d cleanups=%d, want 1/3/1", loads, renders, cleanups)
	}
	if p.swaps != 3 || p.closed != 1 {
		t.Fatalf("swaps=%d closed=%d, want 3/1", p.swaps, p.closed)
	}
	for i, dt := range dts {
		if dt <= 0 {
			t.Fatalf("frame %d dt = %v, want > 0", i, dt)
		}
	}
	if p.gl.CallCount("Viewport") != 1 || p.gl.ViewportRect != [4]int32{0, 0, 800, 600} {
		t.Fatalf("viewport calls=%d rect=%v", p.gl.CallCount("Viewport"), p.gl.ViewportRect)
	}
}

func TestRunLoadErrorSkipsFrames(t *testing.T) {
	p := newFakePlatform(3)
	w := newTestWindow(t, p)

	loadErr := errors.New("boom")
	renders := 0
	err := w.Run(
		func(glpkg.OpenGL) (func(), error) { return nil, loadErr },
		func(glpkg.OpenGL, float64) error {
			renders++
			return nil
		},
	)
	if !errors.Is(err, loadErr) {
		t.Fatalf("Run() error = %v, want %v", err, loadErr)
	}
	if renders != 0 || p.polls != 0 {
		t.Fatalf("renders=%d polls=%d after failed load, want 0/0", renders, p.polls)
	}
	if p.closed != 1 {
		t.Fatalf("closed=%d, want 1", p.closed)
	}
}

func TestRunRenderErrorStopsLoop(t *testing.T) {
	p := newFakePlatform(10)
	w := newTestWindow(t, p)

	renderErr := errors.New("lost context")
	cleanups := 0
	err := w.Run(
		func(glpkg.OpenGL) (func(), error) { return func() { cleanups++ }, nil },
		func(glpkg.OpenGL, float64) error { return renderErr },
	)
	if !errors.Is(err, renderErr) {
		t.Fatalf("Run() error = %v, want %v", err, renderErr)
	}
	if p.swaps != 0 || cleanups != 1 {
		t.Fatalf("swaps=%d cleanups=%d, want 0/1", p.swaps, cleanups)
	}
}

func TestNewRejectsOldContexts(t *testing.T) {
	for _, version := range []string{"2.1 Mesa", "3.2.0", "garbage", ""} {
		p := newFakePlatform(0)
		p.gl.VersionString = version
		if _, err := New(p); err == nil {
			t.Fatalf("New() accepted version %q", version)
		}
		if p.closed != 1 {
			t.Fatalf("platform not closed after rejecting %q", version)
		}
	}

	p := newFakePlatform(0)
	p.gl.VersionString = "4.6.0 NVIDIA 550.54"
	if _, err := New(p); err != nil {
		t.Fatalf("New() rejected 4.6: %v", err)
	}
}

func TestNewPropagatesGLError(t *testing.T) {
	p := newFakePlatform(0)
	p.glErr = errors.New("gl: missing entry point glDrawElements")
	if _, err := New(p); !errors.Is(err, p.glErr) {
		t.Fatalf("New() error = %v, want %v", err, p.glErr)
	}
	if p.closed != 1 {
		t.Fatalf("closed=%d, want 1", p.closed)
	}
}

func TestColorToFloat32(t *testing.T) {
	got := ColorToFloat32(ColorCornflowerBlue)
	want := [4]float32{100.0 / 255, 149.0 / 255, 237.0 / 255, 1}
	for i := range want {
		if d := got[i] - want[i]; d > 1e-6 || d < -1e-6 {
			t.Fatalf("ColorToFloat32(cornflower)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if ColorToFloat32(color.Transparent) != [4]float32{} {
		t.Fatal("transparent should convert to zeros")
	}
}
