package quad

import (
	"fmt"

	"github.com/tinyrange/glquad/internal/gowin/gl"
)

// Stage identifies a shader stage. Its value is the GL shader type.
type Stage uint32

const (
	StageVertex   Stage = gl.VertexShader
	StageFragment Stage = gl.FragmentShader
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%#x)", uint32(s))
	}
}

// ShaderCompileError reports a shader that failed to compile. Log is the
// driver's info log.
type ShaderCompileError struct {
	Stage Stage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("%s shader failed to compile: %s", e.Stage, e.Log)
}

// ProgramLinkError reports a program that failed to link. Log is the driver's
// info log.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return "program failed to link: " + e.Log
}
