package quad

// positionLocation is the attribute slot aPosition is bound to.
const positionLocation = 0

const (
	vertexShaderSource = `#version 330 core

layout (location = 0) in vec3 aPosition;

void main()
{
	gl_Position = vec4(aPosition, 1.0);
}`

	fragmentShaderSource = `#version 330 core

out vec4 out_color;

void main()
{
	out_color = vec4(1.0, 0.5, 0.2, 1.0);
}`
)

// Quad corners in normalized device coordinates, three floats per vertex:
// top right, bottom right, bottom left, top left.
var vertices = [12]float32{
	0.5, 0.5, 0.0,
	0.5, -0.5, 0.0,
	-0.5, -0.5, 0.0,
	-0.5, 0.5, 0.0,
}

// Two triangles sharing the bottom-right/top-left diagonal.
var indices = [6]uint32{
	0, 1, 3,
	1, 2, 3,
}
