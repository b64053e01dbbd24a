package session

import (
	"crypto/rand"
	"strings"
)

// Invite codes are short enough to read over the phone. The alphabet skips
// 0/O, 1/I/L so a code survives handwriting; codes compare
// case-insensitively and are stored upper-cased.
const (
	InviteCodeLength   = 8
	inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	// maxInviteCodeAttempts bounds the regenerate-on-collision loop. With a
	// 31^8 code space, hitting it means something is broken, not unlucky.
	maxInviteCodeAttempts = 5
)

func GenerateInviteCode() (string, error) {
	// Bytes at or above the largest multiple of the alphabet size are
	// rejected; reducing them modulo 31 would over-represent the first
	// eight characters.
	limit := 256 - 256%len(inviteCodeAlphabet)

	code := make([]byte, 0, InviteCodeLength)
	buf := make([]byte, InviteCodeLength)
	for len(code) < InviteCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)])
			if len(code) == InviteCodeLength {
				break
			}
		}
	}

	return string(code), nil
}

func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
