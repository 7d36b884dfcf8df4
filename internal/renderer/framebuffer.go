package renderer

import (
	"fmt"

	"Citadel3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// ColorAttachment is one G-buffer channel: its texture handle and an
// advisory label used for logging.
type ColorAttachment struct {
	Texture uint32
	Label   string
}

// Framebuffer is an off-screen render target with N color attachments and
// an optional depth attachment. Attachment formats are fixed at creation;
// resizing means recreating the framebuffer. The zero-fbo value stands for
// the default (window) framebuffer.
type Framebuffer struct {
	fbo    uint32
	width  int32
	height int32

	colors []ColorAttachment
	depth  uint32
}

// NewFramebuffer creates an empty off-screen target. Attachments are added
// before the first Use; Complete verifies the result.
func NewFramebuffer(width, height int32) *Framebuffer {
	fb := &Framebuffer{width: width, height: height}
	gl.GenFramebuffers(1, &fb.fbo)
	return fb
}

// DefaultFramebuffer wraps the window-system target so blits and binds go
// through one type.
func DefaultFramebuffer(width, height int32) *Framebuffer {
	return &Framebuffer{width: width, height: height}
}

func (fb *Framebuffer) Width() int32  { return fb.width }
func (fb *Framebuffer) Height() int32 { return fb.height }

// AddColorAttachment creates a texture of the given internal/external format
// pair and attaches it at the next color index, which it returns. G-buffer
// channels use NEAREST filtering: their texels are exact values, never to be
// interpolated.
func (fb *Framebuffer) AddColorAttachment(internalFormat int32, format uint32, label string) int {
	index := len(fb.colors)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, fb.width, fb.height, 0, format, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(index), gl.TEXTURE_2D, tex, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	fb.colors = append(fb.colors, ColorAttachment{Texture: tex, Label: label})
	logger.Log.Debug("Color attachment added",
		zap.Int("index", index),
		zap.String("label", label))
	return index
}

// AddDepthAttachment creates and attaches a depth texture of the given
// internal format (e.g. gl.DEPTH_COMPONENT24).
func (fb *Framebuffer) AddDepthAttachment(internalFormat int32) {
	gl.GenTextures(1, &fb.depth)
	gl.BindTexture(gl.TEXTURE_2D, fb.depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, fb.width, fb.height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, fb.depth, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Complete sets the draw-buffer list to the attachments in creation order
// and verifies framebuffer completeness.
func (fb *Framebuffer) Complete() error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	if n := len(fb.colors); n > 0 {
		buffers := make([]uint32, n)
		for i := range buffers {
			buffers[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
		}
		gl.DrawBuffers(int32(n), &buffers[0])
	}
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: status 0x%x", status)
	}
	return nil
}

// Use binds the target for subsequent draws.
func (fb *Framebuffer) Use() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.width, fb.height)
}

// Reset clears color and depth.
func (fb *Framebuffer) Reset() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ColorTexture returns the texture behind color attachment i, so geometry
// pass attachment i can be bound to lighting pass texture unit i.
func (fb *Framebuffer) ColorTexture(i int) uint32 {
	return fb.colors[i].Texture
}

// BindColorTextures binds each color attachment texture to the matching
// texture unit.
func (fb *Framebuffer) BindColorTextures() {
	for i, att := range fb.colors {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, att.Texture)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// BlitDepthFrom copies src's depth buffer into this target, full extent to
// full extent. Used so the interface pass can respect 3D occlusion without
// re-rendering geometry.
func (fb *Framebuffer) BlitDepthFrom(src *Framebuffer) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.fbo)
	gl.BlitFramebuffer(
		0, 0, src.width, src.height,
		0, 0, fb.width, fb.height,
		gl.DEPTH_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
}

// Release deletes the attachments and the framebuffer object. The default
// target wrapper owns nothing and is a no-op.
func (fb *Framebuffer) Release() {
	for _, att := range fb.colors {
		tex := att.Texture
		gl.DeleteTextures(1, &tex)
	}
	fb.colors = nil
	if fb.depth != 0 {
		gl.DeleteTextures(1, &fb.depth)
		fb.depth = 0
	}
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
}
