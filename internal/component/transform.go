package component

import "github.com/go-gl/mathgl/mgl32"

// Transform is an entity's translation. Tiles carry a translation relative to
// their parent chunk.
type Transform struct {
	Translation mgl32.Vec3
}

// Velocity moves an entity in world units per second.
type Velocity struct {
	Linear mgl32.Vec3
}
