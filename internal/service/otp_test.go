package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandOTPSource(t *testing.T) {
	source := NewRandOTPSource(rand.New(rand.NewSource(1)))

	code := source.Generate(6)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.GreaterOrEqual(t, c, '0')
		assert.LessOrEqual(t, c, '9')
	}

	// Same seed, same sequence.
	again := NewRandOTPSource(rand.New(rand.NewSource(1))).Generate(6)
	assert.Equal(t, code, again)

	assert.Len(t, source.Generate(4), 4)
	assert.Empty(t, source.Generate(0))
}
