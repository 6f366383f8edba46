package world

import (
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Extent is the half-width of a square chunk region, in chunks, per axis.
// An offset (dx,dy) lies inside when |dx| <= X and |dy| <= Y.
type Extent struct {
	X int32
	Y int32
}

// NoExtent is the empty region; no offset lies inside it.
var NoExtent = Extent{X: -1, Y: -1}

func (e Extent) contains(dx, dy int32) bool {
	return abs32(dx) <= e.X && abs32(dy) <= e.Y
}

// ExtentOf converts a loader radius in world units into a chunk half-width.
// A radius spans radius/chunkSize chunks edge to edge, so the half-width is half
// of that, rounded to the nearest chunk. Non-positive radii give NoExtent.
func ExtentOf(radius, chunkSize mgl32.Vec2) Extent {
	return Extent{
		X: axisExtent(radius.X(), chunkSize.X()),
		Y: axisExtent(radius.Y(), chunkSize.Y()),
	}
}

func axisExtent(radius, size float32) int32 {
	if !(radius > 0) || !(size > 0) {
		return -1
	}
	n := math.Round(float64(radius) / (2 * float64(size)))
	if n > math.MaxInt32/2 {
		n = math.MaxInt32 / 2
	}
	return int32(n)
}

// ShellRange yields every point of the outer square around center that is not
// inside the inner square. The sequence is lazy; an inner extent at least as
// large as the outer one yields nothing.
func ShellRange(outer, inner Extent, center Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dy := -outer.Y; dy <= outer.Y; dy++ {
			for dx := -outer.X; dx <= outer.X; dx++ {
				if inner.contains(dx, dy) {
					// skip straight across the hole
					if dx < inner.X {
						dx = inner.X
					}
					continue
				}
				if !yield(Point{X: center.X + dx, Y: center.Y + dy}) {
					return
				}
			}
		}
	}
}

// FullRange yields the whole square around center.
func FullRange(outer Extent, center Point) iter.Seq[Point] {
	return ShellRange(outer, NoExtent, center)
}

// Ring is one tier's share of a loader's area: Tier 0 is the innermost square,
// 1 the middle shell, 2 the outer shell.
type Ring struct {
	Tier   int
	Points iter.Seq[Point]
}

// LoaderRings splits the area around center into the three concentric regions
// of a loader, innermost first. With full <= mostly <= minimum the regions are
// pairwise disjoint and together cover FullRange(minimum, center).
func LoaderRings(full, mostly, minimum Extent, center Point) [3]Ring {
	return [3]Ring{
		{Tier: 0, Points: FullRange(full, center)},
		{Tier: 1, Points: ShellRange(mostly, full, center)},
		{Tier: 2, Points: ShellRange(minimum, mostly, center)},
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
