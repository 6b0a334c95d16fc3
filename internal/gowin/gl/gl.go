package gl

import "unsafe"

const (
	// ColorBufferBit is a mask used with Clear to clear the color buffer.
	ColorBufferBit = 0x00004000

	// False and True are the GLboolean values reported by status queries.
	False = 0
	True  = 1

	// UnsignedInt is a data type indicating 32-bit unsigned values.
	UnsignedInt = 0x1405
	// Float is a data type indicating 32-bit floating point values.
	Float = 0x1406

	// Triangles is a primitive type for drawing triangles.
	Triangles = 0x0004

	// ArrayBuffer is the target for vertex buffer objects.
	ArrayBuffer = 0x8892
	// ElementArrayBuffer is the target for index buffer objects. The binding
	// is part of the currently bound vertex array object.
	ElementArrayBuffer = 0x8893
	// StaticDraw indicates that buffer data will be modified once and used many times.
	StaticDraw = 0x88E4

	// Shader types
	VertexShader   = 0x8B31
	FragmentShader = 0x8B30

	// Shader/Program status
	CompileStatus = 0x8B81
	LinkStatus    = 0x8B82
	InfoLogLength = 0x8B84

	// GetString parameters.
	//
	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Renderer returns the name of the renderer (usually the GPU).
	Renderer = 0x1F01
	// Version returns the GL version string of the current context.
	Version = 0x1F02
	// ShadingLanguageVersion returns the highest supported GLSL version.
	ShadingLanguageVersion = 0x8B8C
)

// OpenGL describes the subset of OpenGL entry points used by this module.
//
// Implementations typically wrap platform-specific GL bindings. All methods are
// expected to operate on the currently current GL context for the calling thread.
type OpenGL interface {
	// ClearColor sets the clear color used by Clear when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// Clear clears buffers to preset values (e.g., ColorBufferBit).
	Clear(mask uint32)

	// Viewport sets the affine transformation of x and y from normalized device
	// coordinates to window coordinates.
	Viewport(x, y, width, height int32)

	// Buffer operations
	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target uint32, buffer uint32)
	// BufferData copies size bytes starting at data into the buffer bound to
	// target. The memory only needs to stay valid for the duration of the call.
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)

	// Vertex Array Object operations
	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)
	// VertexAttribPointer describes attribute index as laid out in the buffer
	// currently bound to ArrayBuffer. offset is a byte offset into that buffer.
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	// Shader operations
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	// Program operations
	CreateProgram() uint32
	AttachShader(program uint32, shader uint32)
	DetachShader(program uint32, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// DrawElements draws count indices of type xtype read from the element
	// buffer of the bound vertex array, starting at byte offset indices.
	DrawElements(mode uint32, count int32, xtype uint32, indices uintptr)

	// GetString returns a string describing a GL property for the current context.
	//
	// Common names are Vendor and Version.
	// If the name is not recognized or no context is current, implementations may
	// return the empty string.
	GetString(name uint32) string
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Add(unsafe.Pointer(p), 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}
