// Package gltest provides an in-memory gl.OpenGL implementation that records
// calls and tracks object state, so GL setup code can be tested without a
// context.
package gltest

import (
	"encoding/binary"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"unsafe"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// Call is a single recorded entry point invocation.
type Call struct {
	Name string
	Args []any
}

// Buffer is the storage behind a buffer object.
type Buffer struct {
	Data  []byte
	Usage uint32
}

// Float32s decodes the buffer contents as native-endian float32 values.
func (b *Buffer) Float32s() []float32 {
	out := make([]float32, len(b.Data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(b.Data[i*4:]))
	}
	return out
}

// Uint32s decodes the buffer contents as native-endian uint32 values.
func (b *Buffer) Uint32s() []uint32 {
	out := make([]uint32, len(b.Data)/4)
	for i := range out {
		out[i] = binary.NativeEndian.Uint32(b.Data[i*4:])
	}
	return out
}

// Attrib is the state of one vertex attribute slot of a vertex array.
type Attrib struct {
	Enabled    bool
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     uintptr
	// Buffer is the ArrayBuffer binding captured by VertexAttribPointer.
	Buffer uint32
}

// VertexArray is the state owned by a vertex array object.
type VertexArray struct {
	ElementBuffer uint32
	Attribs       map[uint32]*Attrib
}

// Bindings is a snapshot of the context's current bindings.
type Bindings struct {
	VertexArray   uint32
	ArrayBuffer   uint32
	ElementBuffer uint32
	Program       uint32
}

// Draw records the state at the time of a DrawElements call.
type Draw struct {
	Mode          uint32
	Count         int32
	Type          uint32
	Offset        uintptr
	VertexArray   uint32
	ElementBuffer uint32
	Program       uint32
}

// shader.deleted marks a shader flagged for deletion while still attached to
// a program.
type shader struct {
	kind     uint32
	source   string
	compiled bool
	log      string
	deleted  bool
	programs map[uint32]bool
}

type program struct {
	shaders map[uint32]bool
	linked  bool
	log     string
}

// GL is a fake OpenGL context. The zero value is not usable; call New.
type GL struct {
	// Strings returned by GetString.
	VendorString   string
	RendererString string
	VersionString  string

	// Calls lists every entry point invocation in order.
	Calls []Call
	// Errors collects misuse that a real driver would report as a GL error.
	Errors []string

	ClearRGBA    [4]float32
	Clears       int
	ViewportRect [4]int32
	Draws        []Draw

	nextName uint32

	vertexArrays map[uint32]*VertexArray
	buffers      map[uint32]*Buffer
	shaders      map[uint32]*shader
	programs     map[uint32]*program

	boundVertexArray   uint32
	boundArrayBuffer   uint32
	boundElementBuffer uint32
	currentProgram     uint32
}

var _ gl.OpenGL = (*GL)(nil)

// New returns an empty fake context reporting OpenGL 3.3.
func New() *GL {
	return &GL{
		VendorString:   "gltest",
		RendererString: "gltest software",
		VersionString:  "3.3.0 gltest",
		vertexArrays:   make(map[uint32]*VertexArray),
		buffers:        make(map[uint32]*Buffer),
		shaders:        make(map[uint32]*shader),
		programs:       make(map[uint32]*program),
	}
}

func (g *GL) record(name string, args ...any) {
	g.Calls = append(g.Calls, Call{Name: name, Args: args})
}

func (g *GL) errorf(format string, args ...any) {
	g.Errors = append(g.Errors, fmt.Sprintf(format, args...))
}

func (g *GL) name() uint32 {
	g.nextName++
	return g.nextName
}

// CallCount returns how many times the named entry point was invoked.
func (g *GL) CallCount(name string) int {
	n := 0
	for _, c := range g.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Bindings returns the current bindings. ElementBuffer reports the binding of
// the bound vertex array when one is bound.
func (g *GL) Bindings() Bindings {
	b := Bindings{
		VertexArray:   g.boundVertexArray,
		ArrayBuffer:   g.boundArrayBuffer,
		ElementBuffer: g.boundElementBuffer,
		Program:       g.currentProgram,
	}
	if va, ok := g.vertexArrays[g.boundVertexArray]; ok {
		b.ElementBuffer = va.ElementBuffer
	}
	return b
}

// Buffer returns the buffer object named id.
func (g *GL) Buffer(id uint32) (*Buffer, bool) {
	b, ok := g.buffers[id]
	return b, ok
}

// VertexArray returns the vertex array object named id.
func (g *GL) VertexArray(id uint32) (*VertexArray, bool) {
	va, ok := g.vertexArrays[id]
	return va, ok
}

// ProgramLive reports whether id names a program that has not been deleted.
func (g *GL) ProgramLive(id uint32) bool {
	_, ok := g.programs[id]
	return ok
}

func (g *GL) LiveVertexArrays() int {
	return len(g.vertexArrays)
}

func (g *GL) LiveBuffers() int {
	return len(g.buffers)
}

func (g *GL) LiveShaders() int {
	return len(g.shaders)
}

func (g *GL) LivePrograms() int {
	return len(g.programs)
}

// CreatedShaders returns how many shader objects were ever created.
func (g *GL) CreatedShaders() int { return g.CallCount("CreateShader") }

// CreatedPrograms returns how many program objects were ever created.
func (g *GL) CreatedPrograms() int { return g.CallCount("CreateProgram") }

func (g *GL) ClearColor(r, gr, b, a float32) {
	g.record("ClearColor", r, gr, b, a)
	g.ClearRGBA = [4]float32{r, gr, b, a}
}

func (g *GL) Clear(mask uint32) {
	g.record("Clear", mask)
	if mask&gl.ColorBufferBit != 0 {
		g.Clears++
	}
}

func (g *GL) Viewport(x, y, width, height int32) {
	g.record("Viewport", x, y, width, height)
	g.ViewportRect = [4]int32{x, y, width, height}
}

func (g *GL) GenBuffers(n int32, buffers *uint32) {
	g.record("GenBuffers", n)
	out := unsafe.Slice(buffers, n)
	for i := range out {
		out[i] = g.name()
		g.buffers[out[i]] = &Buffer{}
	}
}

func (g *GL) DeleteBuffers(n int32, buffers *uint32) {
	g.record("DeleteBuffers", n)
	for _, id := range unsafe.Slice(buffers, n) {
		if _, ok := g.buffers[id]; !ok {
			continue
		}
		delete(g.buffers, id)
		if g.boundArrayBuffer == id {
			g.boundArrayBuffer = 0
		}
		if g.boundElementBuffer == id {
			g.boundElementBuffer = 0
		}
		if va, ok := g.vertexArrays[g.boundVertexArray]; ok && va.ElementBuffer == id {
			va.ElementBuffer = 0
		}
	}
}

func (g *GL) BindBuffer(target uint32, buffer uint32) {
	g.record("BindBuffer", target, buffer)
	if _, ok := g.buffers[buffer]; buffer != 0 && !ok {
		g.errorf("BindBuffer: unknown buffer %d", buffer)
		return
	}
	switch target {
	case gl.ArrayBuffer:
		g.boundArrayBuffer = buffer
	case gl.ElementArrayBuffer:
		g.boundElementBuffer = buffer
		if va, ok := g.vertexArrays[g.boundVertexArray]; ok {
			va.ElementBuffer = buffer
		}
	default:
		g.errorf("BindBuffer: unsupported target %#x", target)
	}
}

func (g *GL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	g.record("BufferData", target, size, usage)
	var id uint32
	switch target {
	case gl.ArrayBuffer:
		id = g.boundArrayBuffer
	case gl.ElementArrayBuffer:
		id = g.Bindings().ElementBuffer
	default:
		g.errorf("BufferData: unsupported target %#x", target)
		return
	}
	b, ok := g.buffers[id]
	if !ok {
		g.errorf("BufferData: no buffer bound to %#x", target)
		return
	}
	b.Usage = usage
	b.Data = make([]byte, size)
	if data != nil && size > 0 {
		copy(b.Data, unsafe.Slice((*byte)(data), size))
	}
}

func (g *GL) GenVertexArrays(n int32, arrays *uint32) {
	g.record("GenVertexArrays", n)
	out := unsafe.Slice(arrays, n)
	for i := range out {
		out[i] = g.name()
		g.vertexArrays[out[i]] = &VertexArray{Attribs: make(map[uint32]*Attrib)}
	}
}

func (g *GL) DeleteVertexArrays(n int32, arrays *uint32) {
	g.record("DeleteVertexArrays", n)
	for _, id := range unsafe.Slice(arrays, n) {
		delete(g.vertexArrays, id)
		if g.boundVertexArray == id {
			g.boundVertexArray = 0
		}
	}
}

func (g *GL) BindVertexArray(array uint32) {
	g.record("BindVertexArray", array)
	if _, ok := g.vertexArrays[array]; array != 0 && !ok {
		g.errorf("BindVertexArray: unknown vertex array %d", array)
		return
	}
	g.boundVertexArray = array
}

func (g *GL) attrib(index uint32) (*Attrib, bool) {
	va, ok := g.vertexArrays[g.boundVertexArray]
	if !ok {
		return nil, false
	}
	a, ok := va.Attribs[index]
	if !ok {
		a = &Attrib{}
		va.Attribs[index] = a
	}
	return a, true
}

func (g *GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	g.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
	if g.boundArrayBuffer == 0 {
		g.errorf("VertexAttribPointer: no array buffer bound")
		return
	}
	a, ok := g.attrib(index)
	if !ok {
		g.errorf("VertexAttribPointer: no vertex array bound")
		return
	}
	a.Size = size
	a.Type = xtype
	a.Normalized = normalized
	a.Stride = stride
	a.Offset = offset
	a.Buffer = g.boundArrayBuffer
}

func (g *GL) EnableVertexAttribArray(index uint32) {
	g.record("EnableVertexAttribArray", index)
	a, ok := g.attrib(index)
	if !ok {
		g.errorf("EnableVertexAttribArray: no vertex array bound")
		return
	}
	a.Enabled = true
}

func (g *GL) CreateShader(xtype uint32) uint32 {
	g.record("CreateShader", xtype)
	if xtype != gl.VertexShader && xtype != gl.FragmentShader {
		g.errorf("CreateShader: unsupported type %#x", xtype)
		return 0
	}
	id := g.name()
	g.shaders[id] = &shader{kind: xtype, programs: make(map[uint32]bool)}
	return id
}

func (g *GL) ShaderSource(id uint32, source string) {
	g.record("ShaderSource", id, source)
	if s, ok := g.shaders[id]; ok {
		s.source = source
		return
	}
	g.errorf("ShaderSource: unknown shader %d", id)
}

func (g *GL) CompileShader(id uint32) {
	g.record("CompileShader", id)
	s, ok := g.shaders[id]
	if !ok {
		g.errorf("CompileShader: unknown shader %d", id)
		return
	}
	s.log = checkSource(s.source)
	s.compiled = s.log == ""
}

func (g *GL) GetShaderiv(id uint32, pname uint32, params *int32) {
	g.record("GetShaderiv", id, pname)
	s, ok := g.shaders[id]
	if !ok {
		g.errorf("GetShaderiv: unknown shader %d", id)
		return
	}
	switch pname {
	case gl.CompileStatus:
		*params = boolStatus(s.compiled)
	case gl.InfoLogLength:
		*params = logLength(s.log)
	default:
		g.errorf("GetShaderiv: unsupported pname %#x", pname)
	}
}

func (g *GL) GetShaderInfoLog(id uint32) string {
	g.record("GetShaderInfoLog", id)
	if s, ok := g.shaders[id]; ok {
		return s.log
	}
	return ""
}

func (g *GL) DeleteShader(id uint32) {
	g.record("DeleteShader", id)
	s, ok := g.shaders[id]
	if !ok {
		return
	}
	if len(s.programs) > 0 {
		s.deleted = true
		return
	}
	delete(g.shaders, id)
}

func (g *GL) CreateProgram() uint32 {
	g.record("CreateProgram")
	id := g.name()
	g.programs[id] = &program{shaders: make(map[uint32]bool)}
	return id
}

func (g *GL) AttachShader(programID uint32, shaderID uint32) {
	g.record("AttachShader", programID, shaderID)
	p, ok := g.programs[programID]
	if !ok {
		g.errorf("AttachShader: unknown program %d", programID)
		return
	}
	s, ok := g.shaders[shaderID]
	if !ok {
		g.errorf("AttachShader: unknown shader %d", shaderID)
		return
	}
	p.shaders[shaderID] = true
	s.programs[programID] = true
}

func (g *GL) DetachShader(programID uint32, shaderID uint32) {
	g.record("DetachShader", programID, shaderID)
	p, ok := g.programs[programID]
	if !ok {
		g.errorf("DetachShader: unknown program %d", programID)
		return
	}
	g.detach(p, programID, shaderID)
}

func (g *GL) detach(p *program, programID, shaderID uint32) {
	delete(p.shaders, shaderID)
	s, ok := g.shaders[shaderID]
	if !ok {
		return
	}
	delete(s.programs, programID)
	if s.deleted && len(s.programs) == 0 {
		delete(g.shaders, shaderID)
	}
}

func (g *GL) LinkProgram(programID uint32) {
	g.record("LinkProgram", programID)
	p, ok := g.programs[programID]
	if !ok {
		g.errorf("LinkProgram: unknown program %d", programID)
		return
	}

	var vertex, fragment *shader
	for id := range p.shaders {
		s := g.shaders[id]
		switch s.kind {
		case gl.VertexShader:
			vertex = s
		case gl.FragmentShader:
			fragment = s
		}
	}
	p.log = linkLog(vertex, fragment)
	p.linked = p.log == ""
}

func (g *GL) GetProgramiv(programID uint32, pname uint32, params *int32) {
	g.record("GetProgramiv", programID, pname)
	p, ok := g.programs[programID]
	if !ok {
		g.errorf("GetProgramiv: unknown program %d", programID)
		return
	}
	switch pname {
	case gl.LinkStatus:
		*params = boolStatus(p.linked)
	case gl.InfoLogLength:
		*params = logLength(p.log)
	default:
		g.errorf("GetProgramiv: unsupported pname %#x", pname)
	}
}

func (g *GL) GetProgramInfoLog(programID uint32) string {
	g.record("GetProgramInfoLog", programID)
	if p, ok := g.programs[programID]; ok {
		return p.log
	}
	return ""
}

func (g *GL) UseProgram(programID uint32) {
	g.record("UseProgram", programID)
	if programID != 0 {
		p, ok := g.programs[programID]
		if !ok || !p.linked {
			g.errorf("UseProgram: program %d is not a linked program", programID)
			return
		}
	}
	g.currentProgram = programID
}

func (g *GL) DeleteProgram(programID uint32) {
	g.record("DeleteProgram", programID)
	p, ok := g.programs[programID]
	if !ok {
		return
	}
	for id := range p.shaders {
		g.detach(p, programID, id)
	}
	delete(g.programs, programID)
}

func (g *GL) DrawElements(mode uint32, count int32, xtype uint32, indices uintptr) {
	g.record("DrawElements", mode, count, xtype, indices)
	b := g.Bindings()
	va, ok := g.vertexArrays[b.VertexArray]
	if !ok {
		g.errorf("DrawElements: no vertex array bound")
		return
	}
	if _, ok := g.programs[b.Program]; !ok {
		g.errorf("DrawElements: no live program in use")
		return
	}
	eb, ok := g.buffers[va.ElementBuffer]
	if !ok {
		g.errorf("DrawElements: vertex array %d has no element buffer", b.VertexArray)
		return
	}
	if xtype == gl.UnsignedInt && int(indices)+int(count)*4 > len(eb.Data) {
		g.errorf("DrawElements: %d indices at offset %d exceed element buffer of %d bytes", count, indices, len(eb.Data))
		return
	}
	g.Draws = append(g.Draws, Draw{
		Mode:          mode,
		Count:         count,
		Type:          xtype,
		Offset:        indices,
		VertexArray:   b.VertexArray,
		ElementBuffer: va.ElementBuffer,
		Program:       b.Program,
	})
}

func (g *GL) GetString(name uint32) string {
	g.record("GetString", name)
	switch name {
	case gl.Vendor:
		return g.VendorString
	case gl.Renderer:
		return g.RendererString
	case gl.Version:
		return g.VersionString
	case gl.ShadingLanguageVersion:
		return "3.30 gltest"
	}
	return ""
}

func boolStatus(ok bool) int32 {
	if ok {
		return gl.True
	}
	return gl.False
}

func logLength(log string) int32 {
	if log == "" {
		return 0
	}
	return int32(len(log) + 1)
}

// checkSource is a rough stand-in for a GLSL front end: it rejects sources
// without a main function or with unbalanced brackets.
func checkSource(src string) string {
	if !strings.Contains(src, "void main") {
		return "0:1(1): error: no function with name 'main'"
	}
	for _, pair := range [][2]string{{"{", "}"}, {"(", ")"}} {
		if strings.Count(src, pair[0]) != strings.Count(src, pair[1]) {
			return "0:1(1): error: syntax error, unexpected end of file"
		}
	}
	return ""
}

// declarations maps variable name to type for every "<qualifier> <type> <name>;"
// line in src. Declarations with a layout qualifier are skipped.
func declarations(src, qualifier string) map[string]string {
	decls := make(map[string]string)
	for _, line := range strings.Split(src, "\n") {
		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if len(fields) == 3 && fields[0] == qualifier {
			decls[fields[2]] = fields[1]
		}
	}
	return decls
}

func linkLog(vertex, fragment *shader) string {
	switch {
	case vertex == nil:
		return "error: program lacks a vertex shader"
	case fragment == nil:
		return "error: program lacks a fragment shader"
	case !vertex.compiled || !fragment.compiled:
		return "error: linking with uncompiled shader"
	}

	ins := declarations(fragment.source, "in")
	outs := declarations(vertex.source, "out")
	var problems []string
	for _, name := range slices.Sorted(maps.Keys(ins)) {
		if outs[name] != ins[name] {
			problems = append(problems, fmt.Sprintf("error: fragment shader input `%s' has no matching output in the previous stage", name))
		}
	}
	return strings.Join(problems, "\n")
}
