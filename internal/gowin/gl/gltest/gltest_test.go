package gltest

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

func compile(g *GL, kind uint32, src string) uint32 {
	s := g.CreateShader(kind)
	g.ShaderSource(s, src)
	g.CompileShader(s)
	return s
}

func TestCompileStatus(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ok   bool
	}{
		{"valid", "#version 330 core\nvoid main() { }", true},
		{"no main", "#version 330 core\nvoid mian() { }", false},
		{"unbalanced braces", "#version 330 core\nvoid main() {", false},
		{"unbalanced parens", "#version 330 core\nvoid main( { }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			s := compile(g, gl.VertexShader, tt.src)
			var status int32
			g.GetShaderiv(s, gl.CompileStatus, &status)
			if (status == gl.True) != tt.ok {
				t.Fatalf("CompileStatus = %d, want ok=%v", status, tt.ok)
			}
			var logLen int32
			g.GetShaderiv(s, gl.InfoLogLength, &logLen)
			if tt.ok && logLen != 0 {
				t.Fatalf("InfoLogLength = %d for a valid shader", logLen)
			}
			if !tt.ok && g.GetShaderInfoLog(s) == "" {
				t.Fatal("failed compile has an empty info log")
			}
		})
	}
}

func TestLinkVaryingMismatch(t *testing.T) {
	g := New()
	vs := compile(g, gl.VertexShader, "out vec3 color;\nvoid main() { }")
	fs := compile(g, gl.FragmentShader, "in vec4 tint;\nout vec4 out_color;\nvoid main() { }")
	p := g.CreateProgram()
	g.AttachShader(p, vs)
	g.AttachShader(p, fs)
	g.LinkProgram(p)

	var status int32
	g.GetProgramiv(p, gl.LinkStatus, &status)
	if status != gl.False {
		t.Fatalf("LinkStatus = %d, want False", status)
	}
	if log := g.GetProgramInfoLog(p); !strings.Contains(log, "tint") {
		t.Fatalf("link log %q does not name the unmatched input", log)
	}

	g.UseProgram(p)
	if len(g.Errors) != 1 || g.Bindings().Program != 0 {
		t.Fatalf("UseProgram on an unlinked program: errors=%v program=%d", g.Errors, g.Bindings().Program)
	}
}

func TestDeleteAttachedShaderIsDeferred(t *testing.T) {
	g := New()
	vs := compile(g, gl.VertexShader, "void main() { }")
	p := g.CreateProgram()
	g.AttachShader(p, vs)

	g.DeleteShader(vs)
	if g.LiveShaders() != 1 {
		t.Fatalf("LiveShaders() = %d after deleting an attached shader, want 1", g.LiveShaders())
	}
	g.DetachShader(p, vs)
	if g.LiveShaders() != 0 {
		t.Fatalf("LiveShaders() = %d after detach, want 0", g.LiveShaders())
	}
}

func TestElementBufferBindingBelongsToVertexArray(t *testing.T) {
	g := New()
	var vao, ebo uint32
	g.GenVertexArrays(1, &vao)
	g.GenBuffers(1, &ebo)

	g.BindVertexArray(vao)
	g.BindBuffer(gl.ElementArrayBuffer, ebo)
	idx := []uint32{7, 8, 9}
	g.BufferData(gl.ElementArrayBuffer, len(idx)*4, unsafe.Pointer(&idx[0]), gl.StaticDraw)
	g.BindVertexArray(0)
	g.BindBuffer(gl.ElementArrayBuffer, 0)

	va, _ := g.VertexArray(vao)
	if va.ElementBuffer != ebo {
		t.Fatalf("vertex array element buffer = %d, want %d", va.ElementBuffer, ebo)
	}
	buf, _ := g.Buffer(ebo)
	got := buf.Uint32s()
	if len(got) != 3 || got[0] != 7 || got[2] != 9 {
		t.Fatalf("element buffer contents = %v", got)
	}
	if len(g.Errors) != 0 {
		t.Fatalf("unexpected GL errors: %v", g.Errors)
	}
}
