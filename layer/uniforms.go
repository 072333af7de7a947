//go:build !nogpu

package layer

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/rastermesh"
)

// uniformSize is the byte size of the shader uniform block.
// Layout (std140 compatible):
//
//	matrix      (mat4x4<f32>) = 64 bytes (offset 0)
//	scale       (vec2<f32>)   =  8 bytes (offset 64)
//	translation (vec2<f32>)   =  8 bytes (offset 72)
//	opacity     (f32)         =  4 bytes (offset 80)
//
// The struct is padded to its 16-byte alignment: 96 bytes.
const uniformSize = 96

// Mat4 is a column-major 4x4 matrix as supplied by the host map every frame.
// It takes Web Mercator world coordinates in [0, 1] to clip space.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// makeUniform serializes the per-frame uniform block.
func makeUniform(m Mat4, p rastermesh.Placement, opacity float32) []byte {
	buf := make([]byte, uniformSize)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}

	for _, v := range m {
		put(v)
	}
	put(p.Scale[0])
	put(p.Scale[1])
	put(p.Translation[0])
	put(p.Translation[1])
	put(opacity)
	return buf
}
