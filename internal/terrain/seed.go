package terrain

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/wispgrid/chunkstream/internal/world"
)

// ChunkSeed derives a stable per-chunk seed from the world seed. Neighbouring
// coordinates give unrelated seeds.
func ChunkSeed(seed int64, c world.ChunkCoord) int64 {
	var buf [20]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(seed))
	binary.LittleEndian.PutUint32(buf[8:], uint32(c.X))
	binary.LittleEndian.PutUint32(buf[12:], uint32(c.Y))
	binary.LittleEndian.PutUint32(buf[16:], uint32(c.Layer))
	sum := blake2b.Sum256(buf[:])
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
