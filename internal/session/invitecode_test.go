package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		assert.Len(t, code, InviteCodeLength)

		for _, c := range code {
			assert.Contains(t, inviteCodeAlphabet, string(c))
		}

		// Ambiguous characters are excluded from the alphabet.
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "L")

		seen[code] = true
	}

	// 100 draws from a 31^8 space should never collide.
	assert.Len(t, seen, 100)
}

func TestGenerateInviteCodeUniformity(t *testing.T) {
	// 12500 codes = 100k characters, ~3226 expected per alphabet character.
	// A modulo-reduced byte would skew the first eight characters by ~13%
	// relative to the rest; a 15% spread bound catches that while staying
	// far above random noise.
	counts := make(map[byte]int, len(inviteCodeAlphabet))

	for i := 0; i < 12500; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		for j := 0; j < len(code); j++ {
			counts[code[j]]++
		}
	}

	require.Len(t, counts, len(inviteCodeAlphabet))

	min, max := counts[inviteCodeAlphabet[0]], counts[inviteCodeAlphabet[0]]
	for _, n := range counts {
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}

	assert.Less(t, float64(max)/float64(min), 1.15)
}

func TestNormalizeInviteCode(t *testing.T) {
	assert.Equal(t, "ABCD2345", NormalizeInviteCode("abcd2345"))
	assert.Equal(t, "ABCD2345", NormalizeInviteCode("  ABCD2345  "))
	assert.Equal(t, "ABCD2345", NormalizeInviteCode(" abCd2345 "))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	code, err := GenerateInviteCode()
	require.NoError(t, err)
	assert.Equal(t, code, NormalizeInviteCode(code))
	assert.Equal(t, code, strings.ToUpper(code))
}
