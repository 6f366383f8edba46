package component

import "github.com/go-gl/mathgl/mgl32"

// ChunkLoader keeps chunks streamed in around its entity. Each radius is a
// world-unit width per axis; chunks within Full are fully materialized, within
// Mostly and Minimum only spawned at the lower levels.
type ChunkLoader struct {
	Full    mgl32.Vec2
	Mostly  mgl32.Vec2
	Minimum mgl32.Vec2
}
