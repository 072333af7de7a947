//go:build !nogpu

package layer

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/rastermesh"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/grid.wgsl
var gridShaderSource string

// gridSPIRV compiles the grid shader on first use; every layer shares it.
var gridSPIRV = sync.OnceValues(func() ([]uint32, error) {
	return compileSPIRV(gridShaderSource)
})

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// createShaderModule creates the grid shader module. When naga cannot
// translate the shader the WGSL source is handed to the backend as is.
func createShaderModule(device hal.Device, label string) (hal.ShaderModule, error) {
	if gridShaderSource == "" {
		return nil, fmt.Errorf("grid shader source is empty")
	}

	source := hal.ShaderSource{WGSL: gridShaderSource}
	if code, err := gridSPIRV(); err == nil {
		source = hal.ShaderSource{SPIRV: code}
	} else {
		rastermesh.Logger().Warn("layer: SPIR-V compile failed, using WGSL", "error", err)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("create grid shader: %w", err)
	}
	return module, nil
}
