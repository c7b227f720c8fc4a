// Package identity mints peer ids and derives the stable human-readable
// identity a peer keeps across reconnects. The display name is a pure
// function of the peer id, so any client that memoizes names by id sees
// the same name from every server instance.
package identity

import (
	"math"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"
)

// MintPeerID returns a fresh URL-safe peer identifier.
func MintPeerID() string {
	return uuid.NewString()
}

// HashCode folds a string into a signed 32-bit integer, one UTF-16 code
// unit at a time: h = (h<<5) - h + c, wrapping at 32 bits. This matches
// the browser client's hash, which is what makes names reproducible.
func HashCode(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h<<5 - h + int32(c)
	}
	return h
}

// DeriveDisplayName maps a peer id to its two-word "Color Animal" name.
// Selection is seeded by HashCode(id); the wordlists in wordlists.go are
// the interop source of truth.
func DeriveDisplayName(id string) string {
	seed := HashCode(id)
	color := colors[seededIndex(seed, 0, len(colors))]
	animal := animals[seededIndex(seed, 1, len(animals))]
	return capitalize(color) + " " + capitalize(animal)
}

// seededIndex picks a deterministic index for dictionary i from the
// seed, using the sin-fraction generator the browser's name generator
// uses in seeded mode.
func seededIndex(seed int32, i, n int) int {
	x := math.Sin(float64(seed)+float64(i)) * 10000
	frac := x - math.Floor(x)
	idx := int(frac * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
