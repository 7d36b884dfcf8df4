package renderer

import (
	"errors"
)

type nodeKind int

const (
	kindGroup nodeKind = iota
	kindModel
	kindLight
	kindImage
	kindString
)

var (
	ErrNilChild   = errors.New("drawable: nil child")
	ErrCycle      = errors.New("drawable: child is an ancestor of its new parent")
	ErrHasParent  = errors.New("drawable: child already attached elsewhere")
	ErrSelfAttach = errors.New("drawable: cannot attach node to itself")
)

// Drawable is a node of the scene tree. It is a closed variant over
// {Group, Model, Light, InterfaceImage, InterfaceString}: exactly one of the
// payload pointers is set, according to kind. Children are owned and
// ordered; the tree invariant (no cycles, single parent) is enforced by
// AddChild.
type Drawable struct {
	kind     nodeKind
	enabled  bool
	parent   *Drawable
	children []*Drawable

	model *Model
	light *Light
	image *InterfaceImage
	str   *InterfaceString
}

func NewGroup() *Drawable {
	return &Drawable{kind: kindGroup, enabled: true}
}

func NewModelNode(m *Model) *Drawable {
	return &Drawable{kind: kindModel, enabled: true, model: m}
}

func NewLightNode(l *Light) *Drawable {
	return &Drawable{kind: kindLight, enabled: true, light: l}
}

func NewImageNode(img *InterfaceImage) *Drawable {
	return &Drawable{kind: kindImage, enabled: true, image: img}
}

func NewStringNode(s *InterfaceString) *Drawable {
	return &Drawable{kind: kindString, enabled: true, str: s}
}

// Model returns the node's model payload, or nil for other variants.
func (d *Drawable) Model() *Model { return d.model }

// Light returns the node's light payload, or nil for other variants.
func (d *Drawable) Light() *Light { return d.light }

func (d *Drawable) SetEnabled(enabled bool) { d.enabled = enabled }

func (d *Drawable) Enabled() bool { return d.enabled }

// AddChild appends c to the node's ordered child list. A node can only be
// attached once, never to itself, and never to one of its own descendants.
func (d *Drawable) AddChild(c *Drawable) error {
	if c == nil {
		return ErrNilChild
	}
	if c == d {
		return ErrSelfAttach
	}
	if c.parent != nil {
		return ErrHasParent
	}
	for anc := d; anc != nil; anc = anc.parent {
		if anc == c {
			return ErrCycle
		}
	}
	c.parent = d
	d.children = append(d.children, c)
	return nil
}

// RemoveChild detaches c and reports whether it was a direct child.
func (d *Drawable) RemoveChild(c *Drawable) bool {
	for i, child := range d.children {
		if child == c {
			d.children = append(d.children[:i], d.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Children returns the node's direct children in draw order.
func (d *Drawable) Children() []*Drawable { return d.children }

// Draw runs the recursive depth-first traversal for the current pass:
// children before self, disabled subtrees skipped entirely. A node whose
// target pass does not match the context's pass is still visited but issues
// nothing.
func (d *Drawable) Draw(ctx *FrameContext) {
	if !d.enabled {
		return
	}
	for _, c := range d.children {
		c.Draw(ctx)
	}
	d.drawSelf(ctx)
}

func (d *Drawable) drawSelf(ctx *FrameContext) {
	switch d.kind {
	case kindModel:
		if ctx.Pass == PassGeometry {
			ctx.Encoder.DrawModel(d.model)
		}
	case kindLight:
		if ctx.Pass == PassLighting {
			ctx.Lights.Add(*d.light)
		}
	case kindImage:
		if ctx.Pass == d.image.SubPass {
			ctx.Encoder.DrawImage(d.image)
		}
	case kindString:
		if ctx.Pass == PassText {
			ctx.Encoder.DrawString(d.str)
		}
	}
}

// Release frees the GPU resources owned by the subtree: meshes directly and
// textures through the manager's reference counts. Each image and string
// node owns one reference to the texture it draws; take an extra reference
// when sharing an atlas across nodes. Call on the render thread when a
// scene or interface tree is replaced or at shutdown.
func (d *Drawable) Release(tm *TextureManager) {
	for _, c := range d.children {
		c.Release(tm)
	}
	switch d.kind {
	case kindModel:
		d.model.Release(tm)
	case kindImage:
		if tm != nil {
			tm.ReleaseTexture(d.image.Texture)
		}
	case kindString:
		if tm != nil && d.str.Font != nil {
			tm.ReleaseTexture(d.str.Font.Texture)
		}
	}
}
