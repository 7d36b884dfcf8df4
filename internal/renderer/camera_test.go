package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	c := NewDefaultCamera(1280, 720)
	if c.AspectRatio != 1280.0/720.0 {
		t.Errorf("AspectRatio = %v, want %v", c.AspectRatio, 1280.0/720.0)
	}
	if l := c.Front.Len(); l < 0.999 || l > 1.001 {
		t.Errorf("Front not normalized: |%v| = %v", c.Front, l)
	}
	// Yaw -90 with a slight downward pitch looks along -Z.
	if c.Front.Z() >= 0 {
		t.Errorf("default camera looks backwards: Front = %v", c.Front)
	}
}

func TestCameraSetAspectRatio(t *testing.T) {
	c := NewDefaultCamera(100, 100)
	before := c.Projection
	c.SetAspectRatio(2)
	if c.Projection.ApproxEqual(before) {
		t.Error("projection unchanged after SetAspectRatio")
	}
	want := mgl32.Perspective(mgl32.DegToRad(c.Fov), 2, c.Near, c.Far)
	if !c.Projection.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("projection =\n%v\nwant\n%v", c.Projection, want)
	}
}

func TestCameraLookAt(t *testing.T) {
	c := NewDefaultCamera(100, 100)
	c.Position = mgl32.Vec3{0, 10, 0}
	target := mgl32.Vec3{50, 0, 50}
	c.LookAt(target)

	wantDir := target.Sub(c.Position).Normalize()
	if !vec3Near(c.Front, wantDir, 1e-4) {
		t.Errorf("Front = %v, want %v", c.Front, wantDir)
	}
}

func TestCameraMousePitchClamped(t *testing.T) {
	c := NewDefaultCamera(100, 100)
	c.ProcessMouseMovement(0, 1e6, true)
	if c.Pitch > 89 {
		t.Errorf("Pitch = %v, want clamped to 89", c.Pitch)
	}
	c.ProcessMouseMovement(0, -1e7, true)
	if c.Pitch < -89 {
		t.Errorf("Pitch = %v, want clamped to -89", c.Pitch)
	}
}

func TestCameraViewMatrixLookAt(t *testing.T) {
	c := NewDefaultCamera(100, 100)
	view := c.GetViewMatrix()
	want := mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
	if !view.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("view matrix mismatch")
	}
}
