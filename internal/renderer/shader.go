package renderer

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"Citadel3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// SplitToken separates the vertex and fragment stages inside a unified
// shader source buffer.
const SplitToken = "<split>"

// SplitSource cuts a unified shader buffer into its vertex and fragment
// halves on the first line equal to the split token. ok is false for raw
// single-stage sources, which callers pair up themselves.
func SplitSource(src string) (vertex, fragment string, ok bool) {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == SplitToken {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return src, "", false
}

func compileStage(source string, stage uint32) (uint32, error) {
	shader := gl.CreateShader(stage)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)

		stageName := "vertex"
		if stage == gl.FRAGMENT_SHADER {
			stageName = "fragment"
		}
		return 0, fmt.Errorf("compile %s stage: %s", stageName, strings.TrimRight(infoLog, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(infoLog, "\x00"))
	}
	return program, nil
}

// CompileUnified compiles a unified <split> source into a linked program.
func CompileUnified(src string) (uint32, error) {
	vertSrc, fragSrc, ok := SplitSource(src)
	if !ok {
		return 0, fmt.Errorf("unified shader source is missing the %q delimiter", SplitToken)
	}
	return CompileStages(vertSrc, fragSrc)
}

// CompileStages compiles and links separate vertex and fragment sources.
func CompileStages(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileStage(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	frag, err := compileStage(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, err
	}
	return linkProgram(vert, frag)
}

// ShaderProgram is a linked GPU program with uniform-location caching and
// optional hot reload from a source file. Compile/link failure at creation
// is returned as an error (fatal at startup, by policy); failure during hot
// reload is logged and the previous program stays live.
type ShaderProgram struct {
	name     string
	program  uint32
	Uniforms *UniformCache

	// path is the unified source file, or the vertex stage when fragPath
	// is set. Both empty for embedded sources.
	path        string
	fragPath    string
	modTime     time.Time
	fragModTime time.Time
	dirty       atomic.Bool
}

// NewProgramFromSource compiles an embedded unified source.
func NewProgramFromSource(name, src string) (*ShaderProgram, error) {
	program, err := CompileUnified(src)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	logger.Log.Info("Shader program linked", zap.String("shader", name))
	return &ShaderProgram{
		name:     name,
		program:  program,
		Uniforms: NewUniformCache(program),
	}, nil
}

// LoadProgram compiles a unified source file and remembers its modification
// time for hot reload.
func LoadProgram(name, path string) (*ShaderProgram, error) {
	src, info, err := readSource(path)
	if err != nil {
		return nil, err
	}
	program, err := CompileUnified(src)
	if err != nil {
		return nil, fmt.Errorf("shader %s (%s): %w", name, path, err)
	}
	logger.Log.Info("Shader program linked",
		zap.String("shader", name),
		zap.String("path", path))
	return &ShaderProgram{
		name:     name,
		program:  program,
		Uniforms: NewUniformCache(program),
		path:     path,
		modTime:  info.ModTime(),
	}, nil
}

// LoadProgramPair compiles raw per-stage vertex and fragment source files,
// for shader sets that ship separate .vert/.frag files instead of a unified
// source. Both files are remembered for hot reload.
func LoadProgramPair(name, vertexPath, fragmentPath string) (*ShaderProgram, error) {
	vertSrc, vertInfo, err := readSource(vertexPath)
	if err != nil {
		return nil, err
	}
	fragSrc, fragInfo, err := readSource(fragmentPath)
	if err != nil {
		return nil, err
	}
	program, err := CompileStages(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader %s (%s, %s): %w", name, vertexPath, fragmentPath, err)
	}
	logger.Log.Info("Shader program linked",
		zap.String("shader", name),
		zap.String("vertex", vertexPath),
		zap.String("fragment", fragmentPath))
	return &ShaderProgram{
		name:        name,
		program:     program,
		Uniforms:    NewUniformCache(program),
		path:        vertexPath,
		fragPath:    fragmentPath,
		modTime:     vertInfo.ModTime(),
		fragModTime: fragInfo.ModTime(),
	}, nil
}

func readSource(path string) (string, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("shader source %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("shader source %s: %w", path, err)
	}
	return string(data), info, nil
}

func (p *ShaderProgram) Use() {
	gl.UseProgram(p.program)
}

func (p *ShaderProgram) Handle() uint32 { return p.program }

func (p *ShaderProgram) Path() string { return p.path }

// SourcePaths returns the on-disk files the program was built from, in
// stage order. Empty for embedded sources.
func (p *ShaderProgram) SourcePaths() []string {
	var paths []string
	if p.path != "" {
		paths = append(paths, p.path)
	}
	if p.fragPath != "" {
		paths = append(paths, p.fragPath)
	}
	return paths
}

// MarkDirty flags the program for a reload check. Safe from any goroutine;
// the file watcher calls it.
func (p *ShaderProgram) MarkDirty() { p.dirty.Store(true) }

// ReloadIfStale recompiles when the source file was flagged dirty and its
// modification time actually advanced. A failed recompile keeps the old
// program so a broken edit degrades rendering instead of crashing. Render
// thread only.
func (p *ShaderProgram) ReloadIfStale() bool {
	if p.path == "" || !p.dirty.Swap(false) {
		return false
	}
	if p.fragPath != "" {
		return p.reloadPair()
	}
	src, info, err := readSource(p.path)
	if err != nil {
		logger.Log.Warn("Shader reload skipped", zap.String("shader", p.name), zap.Error(err))
		return false
	}
	if !info.ModTime().After(p.modTime) {
		return false
	}
	program, err := CompileUnified(src)
	if err != nil {
		logger.Log.Warn("Shader reload failed, keeping previous program",
			zap.String("shader", p.name),
			zap.Error(err))
		p.modTime = info.ModTime()
		return false
	}
	gl.DeleteProgram(p.program)
	p.program = program
	p.Uniforms.Rebind(program)
	p.modTime = info.ModTime()
	logger.Log.Info("Shader hot-reloaded", zap.String("shader", p.name), zap.String("path", p.path))
	return true
}

func (p *ShaderProgram) reloadPair() bool {
	vertSrc, vertInfo, err := readSource(p.path)
	if err != nil {
		logger.Log.Warn("Shader reload skipped", zap.String("shader", p.name), zap.Error(err))
		return false
	}
	fragSrc, fragInfo, err := readSource(p.fragPath)
	if err != nil {
		logger.Log.Warn("Shader reload skipped", zap.String("shader", p.name), zap.Error(err))
		return false
	}
	if !vertInfo.ModTime().After(p.modTime) && !fragInfo.ModTime().After(p.fragModTime) {
		return false
	}
	program, err := CompileStages(vertSrc, fragSrc)
	if err != nil {
		logger.Log.Warn("Shader reload failed, keeping previous program",
			zap.String("shader", p.name),
			zap.Error(err))
		p.modTime, p.fragModTime = vertInfo.ModTime(), fragInfo.ModTime()
		return false
	}
	gl.DeleteProgram(p.program)
	p.program = program
	p.Uniforms.Rebind(program)
	p.modTime, p.fragModTime = vertInfo.ModTime(), fragInfo.ModTime()
	logger.Log.Info("Shader hot-reloaded",
		zap.String("shader", p.name),
		zap.String("vertex", p.path),
		zap.String("fragment", p.fragPath))
	return true
}

// Release deletes the GPU program.
func (p *ShaderProgram) Release() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}
