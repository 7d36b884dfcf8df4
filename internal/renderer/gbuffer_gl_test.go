//go:build gpu

package renderer

// G-buffer integration test. Needs a GPU-backed GL 4.1 context, so it only
// builds with the gpu tag and is run manually:
//
//	go test -tags gpu -run TestGBuffer ./internal/renderer

import (
	"image"
	"image/color"
	"runtime"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func TestGBufferChannelContents(t *testing.T) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		t.Skipf("glfw unavailable: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(64, 64, "gbuffer", nil, nil)
	if err != nil {
		t.Skipf("no GL context: %v", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		t.Fatalf("gl init: %v", err)
	}

	r, err := NewRenderer(64, 64)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	defer r.Release()

	// 1x1 solid textures: red diffuse, neutral up-facing normal map.
	diffuse := uploadSolid(t, r, "red-1x1", color.RGBA{255, 0, 0, 255})
	flat := uploadSolid(t, r, "flat-normal-1x1", color.RGBA{128, 128, 255, 255})

	quad, err := NewMesh(unitQuadVertices(), []uint32{0, 1, 2, 2, 3, 0})
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	model := NewModel(quad, TextureSet{Diffuse: diffuse, Normal: flat})
	model.Transform.Scale = mgl32.Vec3{20, 20, 1}
	model.Transform.Position = mgl32.Vec3{-10, -10, 0}

	scene := NewGroup()
	if err := scene.AddChild(NewModelNode(model)); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	cam := NewDefaultCamera(64, 64)
	cam.Position = mgl32.Vec3{0, 0, 10}
	cam.LookAt(mgl32.Vec3{0, 0, 0})

	r.RenderFrame(scene, nil, cam, 0.016)
	first := readGBufferTexels(r)

	// Channel contents at the screen center, where the quad covers the
	// view: albedo red from the diffuse texture, world position on the
	// z=0 plane, normal facing the camera.
	albedo := first[2]
	if albedo[0] < 0.9 || albedo[1] > 0.1 || albedo[2] > 0.1 {
		t.Errorf("gAlbedoSpec texel = %v, want red albedo", albedo)
	}
	pos := first[0]
	if pos[0] < -1 || pos[0] > 1 || pos[2] < -0.05 || pos[2] > 0.05 {
		t.Errorf("gPosition texel = %v, want near the z=0 plane", pos)
	}
	normal := first[1]
	if normal[2] < 0.9 {
		t.Errorf("gNormal texel = %v, want +Z facing", normal)
	}

	// Re-rendering the same scene must reproduce the texels exactly.
	r.RenderFrame(scene, nil, cam, 0.016)
	second := readGBufferTexels(r)
	for ch := range first {
		if first[ch] != second[ch] {
			t.Errorf("channel %d differs across identical frames: %v vs %v",
				ch, first[ch], second[ch])
		}
	}
}

func uploadSolid(t *testing.T, r *Renderer, key string, c color.RGBA) uint32 {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)
	id, err := r.Textures.CreateTextureFromImage(img, key)
	if err != nil {
		t.Fatalf("texture %s: %v", key, err)
	}
	return id
}

// readGBufferTexels returns the center texel of each G-buffer channel.
func readGBufferTexels(r *Renderer) [3][4]float32 {
	var out [3][4]float32
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.gbuffer.fbo)
	for ch := range out {
		gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + uint32(ch))
		gl.ReadPixels(32, 32, 1, 1, gl.RGBA, gl.FLOAT, gl.Ptr(&out[ch][0]))
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return out
}
