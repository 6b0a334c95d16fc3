// Package quad uploads a single colored quad to the GPU and draws it.
//
// Setup runs once on a current context, Render once per frame, and Release
// when the window closes. All three must run on the thread owning the
// context.
package quad

import (
	"log/slog"
	"unsafe"

	glpkg "github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/graphics"
)

// Resources holds the GPU objects created by Setup. Handles are zero once
// released.
type Resources struct {
	VertexArray  uint32
	VertexBuffer uint32
	IndexBuffer  uint32
	Program      uint32
}

// Setup creates the vertex array, vertex and index buffers and shader
// program for the quad. On error every object it created has been deleted
// and all bindings are reset.
func Setup(gl glpkg.OpenGL) (*Resources, error) {
	return setup(gl, vertexShaderSource, fragmentShaderSource)
}

func setup(gl glpkg.OpenGL, vertexSrc, fragmentSrc string) (_ *Resources, err error) {
	bg := graphics.ColorToFloat32(graphics.ColorCornflowerBlue)
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])

	r := &Resources{}
	defer func() {
		gl.BindVertexArray(0)
		gl.BindBuffer(glpkg.ArrayBuffer, 0)
		gl.BindBuffer(glpkg.ElementArrayBuffer, 0)
		if err != nil {
			r.Release(gl)
		}
	}()

	// The buffer and attribute calls below attach to this vertex array.
	gl.GenVertexArrays(1, &r.VertexArray)
	gl.BindVertexArray(r.VertexArray)

	gl.GenBuffers(1, &r.VertexBuffer)
	gl.BindBuffer(glpkg.ArrayBuffer, r.VertexBuffer)
	gl.BufferData(
		glpkg.ArrayBuffer,
		len(vertices)*4,
		unsafe.Pointer(&vertices[0]),
		glpkg.StaticDraw,
	)

	gl.GenBuffers(1, &r.IndexBuffer)
	gl.BindBuffer(glpkg.ElementArrayBuffer, r.IndexBuffer)
	gl.BufferData(
		glpkg.ElementArrayBuffer,
		len(indices)*4,
		unsafe.Pointer(&indices[0]),
		glpkg.StaticDraw,
	)

	program, err := createShaderProgram(gl, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	r.Program = program

	gl.EnableVertexAttribArray(positionLocation)
	gl.VertexAttribPointer(positionLocation, 3, glpkg.Float, false, 3*4, 0)

	slog.Debug("quad resources ready",
		"vao", r.VertexArray,
		"vbo", r.VertexBuffer,
		"ebo", r.IndexBuffer,
		"program", r.Program,
	)
	return r, nil
}

func compileShader(gl glpkg.OpenGL, stage Stage, src string) (uint32, error) {
	shader := gl.CreateShader(uint32(stage))
	gl.ShaderSource(shader, src)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, glpkg.CompileStatus, &status)
	if status != glpkg.True {
		log := gl.GetShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, &ShaderCompileError{Stage: stage, Log: log}
	}
	return shader, nil
}

// createShaderProgram compiles and links the two stages. Only the linked
// program survives; the shader objects are detached and deleted.
func createShaderProgram(gl glpkg.OpenGL, vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(gl, StageVertex, vertexSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(gl, StageFragment, fragmentSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, glpkg.LinkStatus, &status)
	if status != glpkg.True {
		log := gl.GetProgramInfoLog(program)
		gl.DeleteProgram(program)
		return 0, &ProgramLinkError{Log: log}
	}

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

// Render clears the color buffer and draws the quad. dt is unused. Render
// only clears once r has been released.
func Render(gl glpkg.OpenGL, r *Resources, dt float64) {
	gl.Clear(glpkg.ColorBufferBit)

	if r == nil || r.VertexArray == 0 || r.Program == 0 {
		return
	}

	gl.BindVertexArray(r.VertexArray)
	gl.UseProgram(r.Program)
	gl.DrawElements(glpkg.Triangles, int32(len(indices)), glpkg.UnsignedInt, 0)
}

// Release deletes the objects created by Setup. Releasing twice is a no-op.
func (r *Resources) Release(gl glpkg.OpenGL) {
	if r.Program != 0 {
		gl.UseProgram(0)
		gl.DeleteProgram(r.Program)
		r.Program = 0
	}
	if r.IndexBuffer != 0 {
		buf := r.IndexBuffer
		gl.DeleteBuffers(1, &buf)
		r.IndexBuffer = 0
	}
	if r.VertexBuffer != 0 {
		buf := r.VertexBuffer
		gl.DeleteBuffers(1, &buf)
		r.VertexBuffer = 0
	}
	if r.VertexArray != 0 {
		va := r.VertexArray
		gl.DeleteVertexArrays(1, &va)
		r.VertexArray = 0
	}
	slog.Debug("quad resources released")
}
