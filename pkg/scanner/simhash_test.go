package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimhashDeterministic(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	assert.Equal(t, Simhash(text), Simhash(text))
	assert.Equal(t, Simhash("Hello World"), Simhash("hello world"), "simhash is case-insensitive")
}

func TestSimhashSimilarTextsAreClose(t *testing.T) {
	a := Simhash("page not found the requested resource admin does not exist on this server try again")
	b := Simhash("page not found the requested resource login does not exist on this server try again")
	c := Simhash("welcome to the administration dashboard please sign in with your corporate credentials")

	assert.Less(t, HammingDistance(a, b), HammingDistance(a, c))
}

func TestHammingDistance(t *testing.T) {
	assert.Zero(t, HammingDistance(0, 0))
	assert.Zero(t, HammingDistance(0xdeadbeef, 0xdeadbeef))
	assert.Equal(t, 2, HammingDistance(0b1011, 0b0010))
	assert.Equal(t, 64, HammingDistance(0, ^uint64(0)))
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("abc"), ContentHash("abc"))
	assert.NotEqual(t, ContentHash("abc"), ContentHash("abd"))
}
