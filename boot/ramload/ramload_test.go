package ramload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotLoadedUntilLoadRuns(t *testing.T) {
	marker = 0
	assert.False(t, Loaded(), "cold marker must read as not loaded")

	marker = Poison //a garbage value is still not loaded
	assert.False(t, Loaded())

	Load()
	assert.True(t, Loaded())
}

func TestPoisonIsNotAnErasedValue(t *testing.T) {
	// the read primitive hands Poison back before loading; it must never be
	// confusable with erased flash
	assert.NotEqual(t, uint32(0xFFFF_FFFF), Poison)
	assert.NotEqual(t, uint32(0), Poison)
}

func TestCopySection(t *testing.T) {
	src := make([]byte, 64)
	for i := range src {
		src[i] = byte(i * 3)
	}
	dst := make([]byte, 64)
	assert.True(t, copySection(dst, src))
	assert.Equal(t, src, dst)
}
