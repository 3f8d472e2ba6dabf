package automatic

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"
)

// NewSeed creates a random master seed, printable so that a run can be
// repeated.
func NewSeed() string {
	seed := frand.Entropy256()
	return base64.RawURLEncoding.EncodeToString(seed[:])
}

// GameSeed derives the 32-byte RNG seed of one game from the master seed.
// The same master seed and index always give the same game.
func GameSeed(master string, index int) []byte {
	seed := make([]byte, 0, 32)
	for k := range 4 {
		h := xxhash.Sum64String(fmt.Sprintf("%s/%d/%d", master, index, k))
		seed = binary.LittleEndian.AppendUint64(seed, h)
	}
	return seed
}

// NewRNG creates the RNG of one game.
func NewRNG(master string, index int) *frand.RNG {
	return frand.NewCustom(GameSeed(master, index), 1024, 12)
}
