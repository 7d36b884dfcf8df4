package renderer

import "github.com/go-gl/mathgl/mgl32"

// MaxLights is the fixed capacity of the per-frame light array. It must
// match the lights[] array size in the lighting shader.
const MaxLights = 16

// Light is a dynamic light source. Color is linear RGB with unbounded
// magnitude (acts as an intensity multiplier). A zero Direction means an
// omnidirectional point light; non-zero makes it a spotlight. The shader
// normalizes it, callers don't have to. Strength 0 disables the light.
type Light struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Direction mgl32.Vec3
	Strength  float32
}

// LightArray is the CPU side of the fixed 16-slot uniform light protocol.
// The lighting-pass traversal appends into it; the renderer uploads all
// MaxLights slots afterwards so stale lights from a busier previous frame
// are overwritten with zero strength.
type LightArray struct {
	slots   [MaxLights]Light
	count   int
	dropped int
}

// Reset zeroes every slot and the cursor. Called exactly once per frame
// before any light self-draws.
func (la *LightArray) Reset() {
	la.slots = [MaxLights]Light{}
	la.count = 0
	la.dropped = 0
}

// Add writes l into the next free slot and advances the cursor. When all
// slots are taken the light is dropped and Add reports false; overflow never
// panics and never overwrites an earlier light.
func (la *LightArray) Add(l Light) bool {
	if la.count >= MaxLights {
		la.dropped++
		return false
	}
	la.slots[la.count] = l
	la.count++
	return true
}

// Count returns how many slots were filled this frame.
func (la *LightArray) Count() int { return la.count }

// Dropped returns how many lights did not fit this frame.
func (la *LightArray) Dropped() int { return la.dropped }

// Slot returns the light in slot i. Slots at or beyond Count are zero-valued
// and therefore have Strength 0.
func (la *LightArray) Slot(i int) Light { return la.slots[i] }
