package scanner

import (
	"strings"

	"github.com/spaolacci/murmur3"
)

// Simhash computes a 64-bit simhash fingerprint for the given text.
// Simhash is a locality-sensitive hash: similar texts produce similar
// hashes, which lets the scanner recognize wildcard pages whose bodies
// embed the requested path.
func Simhash(text string) uint64 {
	var v [64]int
	words := strings.Fields(strings.ToLower(text))
	for _, word := range words {
		hash := murmur3.Sum64([]byte(word))
		for i := 0; i < 64; i++ {
			if (hash>>i)&1 == 1 {
				v[i]++
			} else {
				v[i]--
			}
		}
	}
	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if v[i] > 0 {
			fingerprint |= 1 << i
		}
	}
	return fingerprint
}

// HammingDistance returns the number of differing bits between two simhash
// values. A distance of 0 means identical content; typical thresholds:
// <3 = near-duplicate, <5 = similar, >10 = different.
func HammingDistance(a, b uint64) int {
	xor := a ^ b
	count := 0
	for xor != 0 {
		count++
		xor &= xor - 1
	}
	return count
}

// ContentHash returns an exact 64-bit hash of a response body, used to
// short-circuit the similarity check for byte-identical wildcard pages.
func ContentHash(body string) uint64 {
	return murmur3.Sum64([]byte(body))
}
