package renderer

import "github.com/go-gl/mathgl/mgl32"

// RenderPass identifies which stage of the frame is currently executing.
// Drawable self-draw is gated on it: a node only issues work when the
// context's pass matches its own target pass.
type RenderPass int

const (
	PassNone RenderPass = iota
	PassGeometry
	PassLighting
	PassBackground
	PassForeground
	PassText
)

func (p RenderPass) String() string {
	switch p {
	case PassGeometry:
		return "geometry"
	case PassLighting:
		return "lighting"
	case PassBackground:
		return "interface-background"
	case PassForeground:
		return "interface-foreground"
	case PassText:
		return "interface-text"
	default:
		return "none"
	}
}

// FrameContext carries everything a traversal needs for one pass. It is
// built fresh by the Renderer for every pass and threaded through
// Drawable.Draw, so there is no package-global "current pass" or "current
// shader" state to fall out of sync.
type FrameContext struct {
	Pass       RenderPass
	View       mgl32.Mat4
	Projection mgl32.Mat4
	CameraPos  mgl32.Vec3

	// Lights accumulates light parameters during the lighting pass.
	Lights *LightArray

	// Encoder issues the actual draw commands. The GL encoder lives in the
	// Renderer; tests substitute a recording implementation.
	Encoder PassEncoder
}

// PassEncoder is the sink for per-node draw commands. Implementations must
// only be called from the render thread.
type PassEncoder interface {
	DrawModel(m *Model)
	DrawImage(img *InterfaceImage)
	DrawString(s *InterfaceString)
}
