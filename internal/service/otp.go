package service

import (
	"math/rand"
	"strings"
)

// OTPSource generates one-time passcodes. It is injected into the transfer
// service so tests can use a deterministic source.
type OTPSource interface {
	Generate(length int) string
}

// RandOTPSource generates numeric passcodes from a rand.Rand.
type RandOTPSource struct {
	rng *rand.Rand
}

// NewRandOTPSource creates an OTP source over rng. Pass a seeded rand.Rand
// in tests for reproducible codes.
func NewRandOTPSource(rng *rand.Rand) *RandOTPSource {
	return &RandOTPSource{rng: rng}
}

// Generate returns a digit-only passcode of the requested length.
func (s *RandOTPSource) Generate(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(byte('0' + s.rng.Intn(10)))
	}
	return b.String()
}

var _ OTPSource = (*RandOTPSource)(nil)
