package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GeometryProgram writes the G-buffer. Texture units 0..4 carry the model's
// diffuse, gloss, ambient-occlusion, normal and height channels, in that
// order, matching the sampler uniforms.
type GeometryProgram struct {
	*ShaderProgram
}

func NewGeometryProgram() (*GeometryProgram, error) {
	p, err := NewProgramFromSource("geometry", geometryShaderSource)
	if err != nil {
		return nil, err
	}
	g := &GeometryProgram{ShaderProgram: p}
	g.bindSamplers()
	return g, nil
}

// LoadGeometryProgram compiles a unified on-disk override with hot reload.
func LoadGeometryProgram(path string) (*GeometryProgram, error) {
	p, err := LoadProgram("geometry", path)
	if err != nil {
		return nil, err
	}
	g := &GeometryProgram{ShaderProgram: p}
	g.bindSamplers()
	return g, nil
}

// LoadGeometryProgramPair compiles raw per-stage .vert/.frag overrides.
func LoadGeometryProgramPair(vertexPath, fragmentPath string) (*GeometryProgram, error) {
	p, err := LoadProgramPair("geometry", vertexPath, fragmentPath)
	if err != nil {
		return nil, err
	}
	g := &GeometryProgram{ShaderProgram: p}
	g.bindSamplers()
	return g, nil
}

func (g *GeometryProgram) bindSamplers() {
	g.Use()
	for i, name := range []string{"texDiffuse", "texGloss", "texAO", "texNormal", "texHeight"} {
		g.Uniforms.SetInt(name, int32(i))
	}
}

func (g *GeometryProgram) SetCamera(view, perspective mgl32.Mat4) {
	g.Uniforms.SetMat4("view", view)
	g.Uniforms.SetMat4("perspective", perspective)
}

func (g *GeometryProgram) SetModel(model mgl32.Mat4) {
	g.Uniforms.SetMat4("model", model)
}

func (g *GeometryProgram) BindTextures(ts TextureSet) {
	for i, id := range []uint32{ts.Diffuse, ts.Gloss, ts.AmbientOcclusion, ts.Normal, ts.Height} {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, id)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// LightingProgram accumulates per-pixel illumination from the fixed light
// array over a fullscreen triangle.
type LightingProgram struct {
	*ShaderProgram
}

func NewLightingProgram() (*LightingProgram, error) {
	p, err := NewProgramFromSource("lighting", lightingShaderSource)
	if err != nil {
		return nil, err
	}
	l := &LightingProgram{ShaderProgram: p}
	l.bindSamplers()
	return l, nil
}

func LoadLightingProgram(path string) (*LightingProgram, error) {
	p, err := LoadProgram("lighting", path)
	if err != nil {
		return nil, err
	}
	l := &LightingProgram{ShaderProgram: p}
	l.bindSamplers()
	return l, nil
}

// LoadLightingProgramPair compiles raw per-stage .vert/.frag overrides.
func LoadLightingProgramPair(vertexPath, fragmentPath string) (*LightingProgram, error) {
	p, err := LoadProgramPair("lighting", vertexPath, fragmentPath)
	if err != nil {
		return nil, err
	}
	l := &LightingProgram{ShaderProgram: p}
	l.bindSamplers()
	return l, nil
}

func (l *LightingProgram) bindSamplers() {
	l.Use()
	// G-buffer attachment i reads from texture unit i.
	for i, name := range []string{"gPosition", "gNormal", "gAlbedoSpec"} {
		l.Uniforms.SetInt(name, int32(i))
	}
}

func (l *LightingProgram) SetCameraPos(pos mgl32.Vec3) {
	l.Uniforms.SetVec3("cameraPos", pos)
}

// SetLight uploads one slot of the uniform light array. Slots past the
// frame's cursor get the zero value, which forces strength 0 and keeps
// ghost lights from an earlier frame out of the shader loop.
func (l *LightingProgram) SetLight(i int, lt Light) {
	l.Uniforms.SetVec3(fmt.Sprintf("lights[%d].position", i), lt.Position)
	l.Uniforms.SetVec3(fmt.Sprintf("lights[%d].color", i), lt.Color)
	l.Uniforms.SetVec3(fmt.Sprintf("lights[%d].direction", i), lt.Direction)
	l.Uniforms.SetFloat(fmt.Sprintf("lights[%d].strength", i), lt.Strength)
}

// UploadLights writes every slot: the filled ones then zeros to capacity.
func (l *LightingProgram) UploadLights(la *LightArray) {
	for i := 0; i < MaxLights; i++ {
		l.SetLight(i, la.Slot(i))
	}
}

// InterfaceProgram draws screen-space quads for images and SDF glyphs.
type InterfaceProgram struct {
	*ShaderProgram
}

func NewInterfaceProgram() (*InterfaceProgram, error) {
	p, err := NewProgramFromSource("interface", interfaceShaderSource)
	if err != nil {
		return nil, err
	}
	u := &InterfaceProgram{ShaderProgram: p}
	u.Use()
	u.Uniforms.SetInt("texSampler", 0)
	return u, nil
}

func (u *InterfaceProgram) SetOrtho(ortho mgl32.Mat4) {
	u.Uniforms.SetMat4("ortho", ortho)
}

func (u *InterfaceProgram) SetModel(model mgl32.Mat4) {
	u.Uniforms.SetMat4("model", model)
}

func (u *InterfaceProgram) SetUVRect(offset, scale mgl32.Vec2) {
	u.Uniforms.SetVec2("uvOffset", offset)
	u.Uniforms.SetVec2("uvScale", scale)
}

func (u *InterfaceProgram) SetDepth(depth float32) {
	u.Uniforms.SetFloat("uiDepth", depth)
}

func (u *InterfaceProgram) SetFontMode(font bool) {
	v := int32(0)
	if font {
		v = 1
	}
	u.Uniforms.SetInt("isFont", v)
}

func (u *InterfaceProgram) SetTint(tint mgl32.Vec4) {
	u.Uniforms.SetVec4("tint", tint)
}
