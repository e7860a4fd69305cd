package token

import (
	"strings"
	"testing"
	"time"

	"go-approvals/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(ttl time.Duration) *Codec {
	return NewCodec(&config.Config{
		TokenSecret: "unit-test-secret",
		TokenTTL:    ttl,
	})
}

func TestMintDecodeRoundTrip(t *testing.T) {
	codec := testCodec(time.Hour)

	in := TokenData{
		TaskID:       42,
		ApproverID:   "u-100",
		SourceModule: "leave",
		SourceID:     "LV-2024-001",
		Action:       "approve",
	}

	signed, minted, err := codec.Mint(in)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.NotEmpty(t, minted.Nonce, "mint must fill the nonce")
	require.NotZero(t, minted.IssuedAt)

	out, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, minted, *out)
}

func TestMintGeneratesUniqueNonces(t *testing.T) {
	codec := testCodec(time.Hour)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		_, minted, err := codec.Mint(TokenData{TaskID: 1, ApproverID: "u", Action: "approve"})
		require.NoError(t, err)
		require.False(t, seen[minted.Nonce], "nonce reused: %s", minted.Nonce)
		seen[minted.Nonce] = true
	}
}

func TestDecodeExpired(t *testing.T) {
	codec := testCodec(-time.Minute)

	signed, _, err := codec.Mint(TokenData{TaskID: 7, ApproverID: "u-1", Action: "approve"})
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	assert.ErrorIs(t, err, ErrTokenExpired, "an elapsed TTL must always surface as expiry, nothing else")
}

func TestDecodeTampered(t *testing.T) {
	codec := testCodec(time.Hour)

	signed, _, err := codec.Mint(TokenData{TaskID: 7, ApproverID: "u-1", Action: "approve"})
	require.NoError(t, err)

	// Corrupt the signature segment.
	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Decode(tampered)
	assert.ErrorIs(t, err, ErrTokenIntegrity)
}

func TestDecodeWrongSecret(t *testing.T) {
	signed, _, err := testCodec(time.Hour).Mint(TokenData{TaskID: 7, ApproverID: "u-1", Action: "reject"})
	require.NoError(t, err)

	other := NewCodec(&config.Config{TokenSecret: "different-secret", TokenTTL: time.Hour})
	_, err = other.Decode(signed)
	assert.ErrorIs(t, err, ErrTokenIntegrity)
}

func TestDecodeGarbage(t *testing.T) {
	codec := testCodec(time.Hour)

	for _, tokenString := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Decode(tokenString)
		assert.ErrorIs(t, err, ErrInvalidTokenFormat, "input %q", tokenString)
	}
}
