package renderer

import (
	"fmt"

	"Citadel3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// UI sub-pass depths: background farthest, text nearest. The default
// target's depth buffer holds the blitted 3D depth, so a UI element only
// loses the depth test against geometry nearer than its fixed layer depth.
const (
	depthBackground = 0.9
	depthForeground = 0.2
	depthText       = 0.1
)

// Debug enables gl.GetError polling at pass boundaries. GL 4.1 core has no
// debug message callback, so error checks are explicit; any reported error
// aborts the process loudly.
var Debug = false

// Renderer owns the shader programs and framebuffers and drives the
// three-pass frame loop: geometry into the G-buffer, lighting into the
// default target, then the three interface sub-passes on top.
type Renderer struct {
	width, height int32

	gbuffer *Framebuffer
	backbuf *Framebuffer

	geometry  *GeometryProgram
	lighting  *LightingProgram
	ui        *InterfaceProgram

	lights    LightArray
	stats     FrameStats
	drawCalls int

	quad    *Mesh  // unit quad shared by all interface draws
	fsVAO   uint32 // empty VAO for the procedural fullscreen triangle
	watcher *ShaderWatcher

	Textures *TextureManager
}

// NewRenderer builds programs and the G-buffer. A GL context must be
// current. Shader compile/link failure here is returned as an error and is
// fatal by policy; a broken built-in pipeline is not worth limping past.
func NewRenderer(width, height int32) (*Renderer, error) {
	r := &Renderer{
		width:    width,
		height:   height,
		backbuf:  DefaultFramebuffer(width, height),
		Textures: NewTextureManager(),
	}

	var err error
	if r.geometry, err = NewGeometryProgram(); err != nil {
		return nil, err
	}
	if r.lighting, err = NewLightingProgram(); err != nil {
		return nil, err
	}
	if r.ui, err = NewInterfaceProgram(); err != nil {
		return nil, err
	}

	if err := r.createGBuffer(); err != nil {
		return nil, err
	}

	gl.GenVertexArrays(1, &r.fsVAO)

	r.quad, err = NewMesh(unitQuadVertices(), []uint32{0, 1, 2, 2, 3, 0})
	if err != nil {
		return nil, err
	}

	if r.watcher, err = NewShaderWatcher(); err != nil {
		logger.Log.Warn("Shader watcher unavailable, hot reload disabled", zap.Error(err))
		r.watcher = nil
	}

	logger.Log.Info("Renderer initialized",
		zap.Int32("width", width),
		zap.Int32("height", height),
		zap.Int("lightSlots", MaxLights))
	return r, nil
}

// createGBuffer sets up the fixed 3-channel layout: position+AO,
// normal+height, albedo+gloss, all RGBA16F, with a 24-bit depth attachment.
func (r *Renderer) createGBuffer() error {
	fb := NewFramebuffer(r.width, r.height)
	fb.AddColorAttachment(gl.RGBA16F, gl.RGBA, "gPosition")
	fb.AddColorAttachment(gl.RGBA16F, gl.RGBA, "gNormal")
	fb.AddColorAttachment(gl.RGBA16F, gl.RGBA, "gAlbedoSpec")
	fb.AddDepthAttachment(gl.DEPTH_COMPONENT24)
	if err := fb.Complete(); err != nil {
		return fmt.Errorf("gbuffer: %w", err)
	}
	r.gbuffer = fb
	return nil
}

// GBuffer exposes the geometry target for integration tests and debugging.
func (r *Renderer) GBuffer() *Framebuffer { return r.gbuffer }

func (r *Renderer) Stats() *FrameStats { return &r.stats }

// UseFileShaders replaces the built-in programs with on-disk unified
// sources and registers them for hot reload.
func (r *Renderer) UseFileShaders(geometryPath, lightingPath string) error {
	g, err := LoadGeometryProgram(geometryPath)
	if err != nil {
		return err
	}
	l, err := LoadLightingProgram(lightingPath)
	if err != nil {
		g.Release()
		return err
	}
	r.geometry.Release()
	r.lighting.Release()
	r.geometry, r.lighting = g, l
	if r.watcher != nil {
		if err := r.watcher.Watch(g.ShaderProgram); err != nil {
			logger.Log.Warn("Cannot watch geometry shader", zap.Error(err))
		}
		if err := r.watcher.Watch(l.ShaderProgram); err != nil {
			logger.Log.Warn("Cannot watch lighting shader", zap.Error(err))
		}
	}
	return nil
}

// Resize recreates the G-buffer attachments for a new viewport size.
func (r *Renderer) Resize(width, height int32) error {
	if width == r.width && height == r.height {
		return nil
	}
	r.width, r.height = width, height
	r.backbuf = DefaultFramebuffer(width, height)
	r.gbuffer.Release()
	return r.createGBuffer()
}

// RenderFrame runs the strict pass sequence for one frame:
// geometry, lighting, interface background/foreground/text. The caller
// presents afterwards. deltaTime feeds the rolling frame statistics.
func (r *Renderer) RenderFrame(scene, ui *Drawable, cam *Camera, deltaTime float64) {
	r.drawCalls = 0
	r.reloadStaleShaders()

	view := cam.GetViewMatrix()
	projection := cam.GetProjectionMatrix()

	r.geometryPass(scene, cam, view, projection)
	r.lightingPass(scene, cam, view, projection)
	r.backbuf.BlitDepthFrom(r.gbuffer)
	r.interfacePasses(ui)

	r.stats.Add(deltaTime, r.drawCalls)
}

func (r *Renderer) geometryPass(scene *Drawable, cam *Camera, view, projection mgl32.Mat4) {
	r.gbuffer.Use()
	r.gbuffer.Reset()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	r.geometry.Use()
	r.geometry.SetCamera(view, projection)

	if scene != nil {
		ctx := &FrameContext{
			Pass:       PassGeometry,
			View:       view,
			Projection: projection,
			CameraPos:  cam.Position,
			Lights:     &r.lights,
			Encoder:    &glEncoder{r: r},
		}
		scene.Draw(ctx)
	}
	r.checkGL("geometry pass")
}

func (r *Renderer) lightingPass(scene *Drawable, cam *Camera, view, projection mgl32.Mat4) {
	r.backbuf.Use()
	r.backbuf.Reset()
	gl.Disable(gl.DEPTH_TEST)

	// The cursor resets exactly once per frame, before any light self-draws.
	r.lights.Reset()
	if scene != nil {
		ctx := &FrameContext{
			Pass:       PassLighting,
			View:       view,
			Projection: projection,
			CameraPos:  cam.Position,
			Lights:     &r.lights,
			Encoder:    &glEncoder{r: r},
		}
		scene.Draw(ctx)
	}
	if dropped := r.lights.Dropped(); dropped > 0 {
		logger.Log.Debug("Light slots exhausted, overflow dropped",
			zap.Int("capacity", MaxLights),
			zap.Int("dropped", dropped))
	}

	r.lighting.Use()
	r.lighting.SetCameraPos(cam.Position)
	// All slots uploaded: filled ones, then zero-strength to capacity.
	r.lighting.UploadLights(&r.lights)
	r.gbuffer.BindColorTextures()

	gl.BindVertexArray(r.fsVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	r.drawCalls++
	r.checkGL("lighting pass")
}

func (r *Renderer) interfacePasses(ui *Drawable) {
	if ui == nil {
		return
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.ui.Use()
	ortho := mgl32.Ortho(0, float32(r.width), float32(r.height), 0, -1, 1)
	r.ui.SetOrtho(ortho)

	for _, sub := range []struct {
		pass  RenderPass
		depth float32
	}{
		{PassBackground, depthBackground},
		{PassForeground, depthForeground},
		{PassText, depthText},
	} {
		r.ui.SetDepth(sub.depth)
		ctx := &FrameContext{
			Pass:    sub.pass,
			Lights:  &r.lights,
			Encoder: &glEncoder{r: r},
		}
		ui.Draw(ctx)
	}

	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.BLEND)
	r.checkGL("interface pass")
}

func (r *Renderer) reloadStaleShaders() {
	if r.geometry.ReloadIfStale() {
		r.geometry.bindSamplers()
	}
	if r.lighting.ReloadIfStale() {
		r.lighting.bindSamplers()
	}
}

// checkGL drains the GL error queue when Debug is on. Errors here are
// programming bugs in GPU usage; abort loudly rather than render garbage.
func (r *Renderer) checkGL(stage string) {
	if !Debug {
		return
	}
	for {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			return
		}
		logger.Log.Fatal("OpenGL error",
			zap.String("stage", stage),
			zap.Uint32("code", code))
	}
}

// Release frees all GPU state the renderer owns.
func (r *Renderer) Release() {
	if r.watcher != nil {
		r.watcher.Close()
	}
	r.geometry.Release()
	r.lighting.Release()
	r.ui.Release()
	r.gbuffer.Release()
	r.quad.Release()
	if r.fsVAO != 0 {
		gl.DeleteVertexArrays(1, &r.fsVAO)
		r.fsVAO = 0
	}
	r.Textures.Clear()
	logger.Log.Info("Renderer released")
}

// glEncoder issues the actual GL draw calls for a traversal.
type glEncoder struct {
	r *Renderer
}

func (e *glEncoder) DrawModel(m *Model) {
	e.r.geometry.SetModel(m.Transform.Matrix())
	e.r.geometry.BindTextures(m.Textures)
	m.Mesh.Bind()
	gl.DrawElements(gl.TRIANGLES, m.Mesh.IndexCount(), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	e.r.drawCalls++
}

func (e *glEncoder) DrawImage(img *InterfaceImage) {
	e.r.ui.SetFontMode(false)
	e.r.ui.SetTint(mgl32.Vec4{1, 1, 1, 1})
	e.r.ui.SetUVRect(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1})
	e.r.ui.SetModel(img.Matrix())
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, img.Texture)
	e.r.quad.Bind()
	gl.DrawElements(gl.TRIANGLES, e.r.quad.IndexCount(), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	e.r.drawCalls++
}

func (e *glEncoder) DrawString(s *InterfaceString) {
	quads := LayoutString(s.Font, s.Text, s.Position.X(), s.Position.Y(), s.Scale)
	if len(quads) == 0 {
		return
	}
	e.r.ui.SetFontMode(true)
	e.r.ui.SetTint(s.Color)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.Font.Texture)
	e.r.quad.Bind()
	for _, q := range quads {
		e.r.ui.SetModel(mgl32.Translate3D(q.X, q.Y, 0).Mul4(mgl32.Scale3D(q.W, q.H, 1)))
		e.r.ui.SetUVRect(mgl32.Vec2{q.U0, q.V0}, mgl32.Vec2{q.U1 - q.U0, q.V1 - q.V0})
		gl.DrawElements(gl.TRIANGLES, e.r.quad.IndexCount(), gl.UNSIGNED_INT, nil)
		e.r.drawCalls++
	}
	gl.BindVertexArray(0)
}

// unitQuadVertices is a 1x1 quad in the interleaved mesh layout, scaled to
// pixel size by the interface model matrix.
func unitQuadVertices() []float32 {
	return []float32{
		// x, y, z, u, v, r, g, b, a, nx, ny, nz
		0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 1,
		1, 0, 0, 1, 0, 1, 1, 1, 1, 0, 0, 1,
		1, 1, 0, 1, 1, 1, 1, 1, 1, 0, 0, 1,
		0, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0, 1,
	}
}
