// Package shaders compiles WGSL compute shaders to the SPIR-V binaries the
// pipeline loader reads from the build directory.
package shaders

import (
	"embed"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gogpu/naga"
	"github.com/pkg/errors"
)

// SourceExt and BinaryExt are the extensions BuildDir reads and writes.
const (
	SourceExt = ".wgsl"
	BinaryExt = ".spv"
)

//go:embed *.wgsl
var builtin embed.FS

// Builtin returns the source of a shader shipped with the module, for
// example "square.wgsl".
func Builtin(name string) (string, error) {
	data, err := builtin.ReadFile(name)
	if err != nil {
		return "", errors.Wrapf(err, "builtin shader %s", name)
	}
	return string(data), nil
}

// BuiltinNames lists the shipped shader sources.
func BuiltinNames() []string {
	entries, _ := fs.ReadDir(builtin, ".")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// Compile translates WGSL source to SPIR-V bytes.
func Compile(source string, debug bool) ([]byte, error) {
	opts := naga.DefaultOptions()
	opts.Debug = debug
	out, err := naga.CompileWithOptions(source, opts)
	if err != nil {
		return nil, errors.Wrap(err, "shader compilation failed")
	}
	return out, nil
}

// Words reinterprets SPIR-V bytes as little-endian 32-bit words.
func Words(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

// CompileFile compiles one WGSL file and writes the binary to outPath.
func CompileFile(srcPath, outPath string, debug bool) error {
	source, err := os.ReadFile(srcPath)
	if err != nil {
		return errors.Wrap(err, "read shader source")
	}
	out, err := Compile(string(source), debug)
	if err != nil {
		return errors.Wrap(err, srcPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "create shader output directory")
	}
	return errors.Wrap(os.WriteFile(outPath, out, 0o644), "write shader binary")
}

// BuildOptions controls BuildDir.
type BuildOptions struct {
	// Clean removes existing binaries from the output directory first.
	Clean bool
	Debug bool
	// Builtins also compiles the shipped shaders that have no source file
	// of the same name in the source directory.
	Builtins bool
}

// BuildDir compiles every .wgsl file in srcDir into outDir and returns the
// written binaries in name order.
func BuildDir(srcDir, outDir string, opts BuildOptions) ([]string, error) {
	if opts.Clean {
		if err := cleanDir(outDir); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create shader output directory")
	}

	// Sources on disk map to their path, builtins to their text.
	files := map[string]string{}
	sources := map[string]string{}
	if srcDir != "" {
		entries, err := os.ReadDir(srcDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "read shader source directory")
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != SourceExt {
				continue
			}
			files[e.Name()] = filepath.Join(srcDir, e.Name())
		}
	}
	if opts.Builtins {
		for _, name := range BuiltinNames() {
			if _, ok := files[name]; ok {
				continue
			}
			src, err := Builtin(name)
			if err != nil {
				return nil, err
			}
			sources[name] = src
		}
	}

	names := make([]string, 0, len(files)+len(sources))
	for name := range files {
		names = append(names, name)
	}
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		outPath := filepath.Join(outDir, BinaryName(name))
		if path, ok := files[name]; ok {
			if err := CompileFile(path, outPath, opts.Debug); err != nil {
				return written, err
			}
			written = append(written, outPath)
			continue
		}

		out, err := Compile(sources[name], opts.Debug)
		if err != nil {
			return written, errors.Wrap(err, name)
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return written, errors.Wrap(err, "write shader binary")
		}
		written = append(written, outPath)
	}
	return written, nil
}

// BinaryName maps square.wgsl to square.spv.
func BinaryName(source string) string {
	return strings.TrimSuffix(source, SourceExt) + BinaryExt
}

func cleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read shader output directory")
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != BinaryExt {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return errors.Wrap(err, "remove stale shader binary")
		}
	}
	return nil
}
