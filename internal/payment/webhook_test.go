package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const webhookSecret = "whsec_test_123"

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"session_id": 42}`)
	now := time.Now()

	header := SignPayload(payload, webhookSecret, now)

	err := VerifySignature(payload, header, webhookSecret, now)
	assert.NoError(t, err)
}

func TestVerifySignatureMissingHeader(t *testing.T) {
	err := VerifySignature([]byte(`{}`), "", webhookSecret, time.Now())
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	now := time.Now()
	header := SignPayload([]byte(`{"session_id": 42}`), webhookSecret, now)

	err := VerifySignature([]byte(`{"session_id": 43}`), header, webhookSecret, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"session_id": 42}`)
	now := time.Now()
	header := SignPayload(payload, "whsec_other", now)

	err := VerifySignature(payload, header, webhookSecret, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{"session_id": 42}`)
	signedAt := time.Now().Add(-SignatureTolerance - time.Minute)
	header := SignPayload(payload, webhookSecret, signedAt)

	err := VerifySignature(payload, header, webhookSecret, time.Now())
	assert.ErrorIs(t, err, ErrStaleSignature)
}

func TestVerifySignatureGarbageHeader(t *testing.T) {
	err := VerifySignature([]byte(`{}`), "not-a-signature", webhookSecret, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureAcceptsAnyMatchingV1(t *testing.T) {
	// Stripe sends multiple v1 entries during secret rotation.
	payload := []byte(`{"session_id": 42}`)
	now := time.Now()

	good := SignPayload(payload, webhookSecret, now)
	header := good + ",v1=deadbeef"

	err := VerifySignature(payload, header, webhookSecret, now)
	assert.NoError(t, err)
}
