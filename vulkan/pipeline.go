package vulkan

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic uint32 = 0x07230203

// Pipeline owns the shader module built from one compiled shader binary.
type Pipeline struct {
	ctx    *Context
	path   string
	module ShaderModuleHandle
	words  int

	closeOnce sync.Once
}

// NewPipeline loads cfg.ShaderName from cfg.ShaderDir and creates a shader
// module from it on the context's device.
func NewPipeline(ctx *Context, cfg PipelineConfig) (*Pipeline, error) {
	if ctx.Closed() {
		return nil, ErrContextClosed
	}

	path := filepath.Join(cfg.ShaderDir, cfg.ShaderName)
	code, err := ReadShaderFile(path)
	if err != nil {
		return nil, err
	}

	device := ctx.Device()
	module, err := device.CreateShaderModule(ShaderModuleCreateInfo{Code: code})
	if err != nil {
		return nil, stepError(StepShader, cfg.ShaderName, err)
	}

	p := &Pipeline{
		ctx:    ctx,
		path:   path,
		module: module,
		words:  len(code),
	}
	if err := ctx.adopt(p); err != nil {
		device.DestroyShaderModule(module)
		return nil, err
	}

	Logger().Info("shader module loaded", "path", path, "words", len(code))
	return p, nil
}

// ReadShaderFile reads a compiled shader in full and returns its words.
func ReadShaderFile(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderNotFound, path, err)
	}
	code, err := DecodeSPIRV(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return code, nil
}

// DecodeSPIRV reinterprets little-endian bytecode as 32-bit words. Empty
// input and sizes that are not a multiple of 4 are rejected. A wrong magic
// number is only logged; the driver has the final word on validity.
func DecodeSPIRV(data []byte) ([]uint32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errors.Wrapf(ErrMalformedShader, "got %d bytes", len(data))
	}

	code := make([]uint32, len(data)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	if code[0] != SPIRVMagic {
		Logger().Warn("shader does not start with the SPIR-V magic number", "first_word", code[0])
	}
	return code, nil
}

func (p *Pipeline) Module() ShaderModuleHandle { return p.module }

// Path is the shader file the module was loaded from.
func (p *Pipeline) Path() string { return p.path }

// CodeWords is the length of the submitted bytecode in 32-bit words.
func (p *Pipeline) CodeWords() int { return p.words }

// Close destroys the shader module. It is safe to call more than once.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() {
		p.ctx.release(p, func() {
			p.ctx.Device().DestroyShaderModule(p.module)
		})
	})
}
