package gl

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcAddressFunc resolves a GL entry point by name for the current context.
// It returns nil when the entry point is not available.
type ProcAddressFunc func(name string) unsafe.Pointer

// procGL implements OpenGL by calling entry points resolved at load time.
type procGL struct {
	glClearColor func(r, g, b, a float32)
	glClear      func(mask uint32)
	glViewport   func(x, y, width, height int32)

	glGenBuffers    func(n int32, buffers *uint32)
	glDeleteBuffers func(n int32, buffers *uint32)
	glBindBuffer    func(target, buffer uint32)
	glBufferData    func(target uint32, size int, data unsafe.Pointer, usage uint32)

	glGenVertexArrays         func(n int32, arrays *uint32)
	glDeleteVertexArrays      func(n int32, arrays *uint32)
	glBindVertexArray         func(array uint32)
	glVertexAttribPointer     func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	glEnableVertexAttribArray func(index uint32)

	glCreateShader     func(xtype uint32) uint32
	glShaderSource     func(shader uint32, count int32, source **byte, length *int32)
	glCompileShader    func(shader uint32)
	glGetShaderiv      func(shader, pname uint32, params *int32)
	glGetShaderInfoLog func(shader uint32, bufSize int32, length *int32, infoLog *byte)
	glDeleteShader     func(shader uint32)

	glCreateProgram     func() uint32
	glAttachShader      func(program, shader uint32)
	glDetachShader      func(program, shader uint32)
	glLinkProgram       func(program uint32)
	glGetProgramiv      func(program, pname uint32, params *int32)
	glGetProgramInfoLog func(program uint32, bufSize int32, length *int32, infoLog *byte)
	glUseProgram        func(program uint32)
	glDeleteProgram     func(program uint32)

	glDrawElements func(mode uint32, count int32, xtype uint32, indices uintptr)

	glGetString func(name uint32) *byte
}

// Load binds every entry point used by OpenGL through proc. A context must be
// current on the calling thread, and the returned value is only valid for
// that context.
func Load(proc ProcAddressFunc) (OpenGL, error) {
	if proc == nil {
		return nil, fmt.Errorf("gl: nil proc address function")
	}

	p := &procGL{}
	entries := []struct {
		name string
		fn   any
	}{
		{"glClearColor", &p.glClearColor},
		{"glClear", &p.glClear},
		{"glViewport", &p.glViewport},
		{"glGenBuffers", &p.glGenBuffers},
		{"glDeleteBuffers", &p.glDeleteBuffers},
		{"glBindBuffer", &p.glBindBuffer},
		{"glBufferData", &p.glBufferData},
		{"glGenVertexArrays", &p.glGenVertexArrays},
		{"glDeleteVertexArrays", &p.glDeleteVertexArrays},
		{"glBindVertexArray", &p.glBindVertexArray},
		{"glVertexAttribPointer", &p.glVertexAttribPointer},
		{"glEnableVertexAttribArray", &p.glEnableVertexAttribArray},
		{"glCreateShader", &p.glCreateShader},
		{"glShaderSource", &p.glShaderSource},
		{"glCompileShader", &p.glCompileShader},
		{"glGetShaderiv", &p.glGetShaderiv},
		{"glGetShaderInfoLog", &p.glGetShaderInfoLog},
		{"glDeleteShader", &p.glDeleteShader},
		{"glCreateProgram", &p.glCreateProgram},
		{"glAttachShader", &p.glAttachShader},
		{"glDetachShader", &p.glDetachShader},
		{"glLinkProgram", &p.glLinkProgram},
		{"glGetProgramiv", &p.glGetProgramiv},
		{"glGetProgramInfoLog", &p.glGetProgramInfoLog},
		{"glUseProgram", &p.glUseProgram},
		{"glDeleteProgram", &p.glDeleteProgram},
		{"glDrawElements", &p.glDrawElements},
		{"glGetString", &p.glGetString},
	}

	for _, e := range entries {
		addr := proc(e.name)
		if addr == nil {
			return nil, fmt.Errorf("gl: missing entry point %s", e.name)
		}
		purego.RegisterFunc(e.fn, uintptr(addr))
	}

	return p, nil
}

func (p *procGL) ClearColor(r, g, b, a float32) {
	p.glClearColor(r, g, b, a)
}

func (p *procGL) Clear(mask uint32) {
	p.glClear(mask)
}

func (p *procGL) Viewport(x, y, width, height int32) {
	p.glViewport(x, y, width, height)
}

func (p *procGL) GenBuffers(n int32, buffers *uint32) {
	p.glGenBuffers(n, buffers)
}

func (p *procGL) DeleteBuffers(n int32, buffers *uint32) {
	p.glDeleteBuffers(n, buffers)
}

func (p *procGL) BindBuffer(target, buffer uint32) {
	p.glBindBuffer(target, buffer)
}

func (p *procGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	p.glBufferData(target, size, data, usage)
}

func (p *procGL) GenVertexArrays(n int32, arrays *uint32) {
	p.glGenVertexArrays(n, arrays)
}

func (p *procGL) DeleteVertexArrays(n int32, arrays *uint32) {
	p.glDeleteVertexArrays(n, arrays)
}

func (p *procGL) BindVertexArray(array uint32) {
	p.glBindVertexArray(array)
}

func (p *procGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	p.glVertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (p *procGL) EnableVertexAttribArray(index uint32) {
	p.glEnableVertexAttribArray(index)
}

func (p *procGL) CreateShader(xtype uint32) uint32 {
	return p.glCreateShader(xtype)
}

func (p *procGL) ShaderSource(shader uint32, source string) {
	src := append([]byte(source), 0)
	ptr := &src[0]
	length := int32(len(source))
	p.glShaderSource(shader, 1, &ptr, &length)
	runtime.KeepAlive(src)
}

func (p *procGL) CompileShader(shader uint32) {
	p.glCompileShader(shader)
}

func (p *procGL) GetShaderiv(shader uint32, pname uint32, params *int32) {
	p.glGetShaderiv(shader, pname, params)
}

func (p *procGL) GetShaderInfoLog(shader uint32) string {
	var n int32
	p.glGetShaderiv(shader, InfoLogLength, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	p.glGetShaderInfoLog(shader, n, &written, &buf[0])
	return string(buf[:written])
}

func (p *procGL) DeleteShader(shader uint32) {
	p.glDeleteShader(shader)
}

func (p *procGL) CreateProgram() uint32 {
	return p.glCreateProgram()
}

func (p *procGL) AttachShader(program uint32, shader uint32) {
	p.glAttachShader(program, shader)
}

func (p *procGL) DetachShader(program uint32, shader uint32) {
	p.glDetachShader(program, shader)
}

func (p *procGL) LinkProgram(program uint32) {
	p.glLinkProgram(program)
}

func (p *procGL) GetProgramiv(program uint32, pname uint32, params *int32) {
	p.glGetProgramiv(program, pname, params)
}

func (p *procGL) GetProgramInfoLog(program uint32) string {
	var n int32
	p.glGetProgramiv(program, InfoLogLength, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	p.glGetProgramInfoLog(program, n, &written, &buf[0])
	return string(buf[:written])
}

func (p *procGL) UseProgram(program uint32) {
	p.glUseProgram(program)
}

func (p *procGL) DeleteProgram(program uint32) {
	p.glDeleteProgram(program)
}

func (p *procGL) DrawElements(mode uint32, count int32, xtype uint32, indices uintptr) {
	p.glDrawElements(mode, count, xtype, indices)
}

func (p *procGL) GetString(name uint32) string {
	return gostring(p.glGetString(name))
}
