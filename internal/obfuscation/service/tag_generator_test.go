package service

import (
	"crypto/hmac"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

func TestNewTagGenerator(t *testing.T) {
	tests := []struct {
		name        string
		algorithm   domain.HashAlgorithm
		tagBits     int
		expectError bool
	}{
		{
			name:      "Success_SHA256Default",
			algorithm: domain.HashSHA256,
			tagBits:   64,
		},
		{
			name:      "Success_SHA512FullDigest",
			algorithm: domain.HashSHA512,
			tagBits:   512,
		},
		{
			name:        "Error_ZeroTagBits",
			algorithm:   domain.HashSHA256,
			tagBits:     0,
			expectError: true,
		},
		{
			name:        "Error_TagBitsExceedDigest",
			algorithm:   domain.HashSHA256,
			tagBits:     512,
			expectError: true,
		},
		{
			name:        "Error_UnsupportedAlgorithm",
			algorithm:   domain.HashAlgorithm("md5"),
			tagBits:     64,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator, err := NewTagGenerator(tt.algorithm, tt.tagBits)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, generator)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, generator)
			}
		})
	}
}

func TestTagGenerator_Tag(t *testing.T) {
	key := DeriveKey([]byte("correct horse"), []byte("battery"), domain.HashSHA256)

	t.Run("Success_LengthMatchesTagBits", func(t *testing.T) {
		tests := []struct {
			tagBits int
			hexLen  int
		}{
			{tagBits: 8, hexLen: 2},
			{tagBits: 32, hexLen: 8},
			{tagBits: 64, hexLen: 16},
			{tagBits: 256, hexLen: 64},
		}

		for _, tt := range tests {
			generator, err := NewTagGenerator(domain.HashSHA256, tt.tagBits)
			require.NoError(t, err)
			assert.Len(t, generator.Tag(key, "42"), tt.hexLen, "tagBits=%d", tt.tagBits)
		}
	})

	t.Run("Success_Deterministic", func(t *testing.T) {
		generator, err := NewTagGenerator(domain.HashSHA256, 64)
		require.NoError(t, err)
		assert.Equal(t, generator.Tag(key, "42"), generator.Tag(key, "42"))
	})

	t.Run("Success_LowercaseHex", func(t *testing.T) {
		generator, err := NewTagGenerator(domain.HashSHA256, 64)
		require.NoError(t, err)

		tag := generator.Tag(key, "42")
		for _, c := range tag {
			isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
			assert.True(t, isHex, "character %c is not lowercase hex", c)
		}
	})

	t.Run("Success_TruncatesLeadingDigits", func(t *testing.T) {
		// A longer configuration of the same key extends the shorter one, so
		// truncation keeps the leading end of the encoded digest.
		short, err := NewTagGenerator(domain.HashSHA256, 64)
		require.NoError(t, err)
		long, err := NewTagGenerator(domain.HashSHA256, 128)
		require.NoError(t, err)

		assert.Equal(t, long.Tag(key, "42")[:16], short.Tag(key, "42"))
	})

	t.Run("Success_MatchesManualHMAC", func(t *testing.T) {
		generator, err := NewTagGenerator(domain.HashSHA256, 64)
		require.NoError(t, err)

		mac := hmac.New(domain.HashSHA256.HashFunc(), key)
		mac.Write([]byte("42"))
		expected := hex.EncodeToString(mac.Sum(nil))[:16]

		assert.Equal(t, expected, generator.Tag(key, "42"))
	})

	t.Run("Success_MessageChangesTag", func(t *testing.T) {
		generator, err := NewTagGenerator(domain.HashSHA256, 64)
		require.NoError(t, err)
		assert.NotEqual(t, generator.Tag(key, "42"), generator.Tag(key, "43"))
	})

	t.Run("Success_KeyChangesTag", func(t *testing.T) {
		generator, err := NewTagGenerator(domain.HashSHA256, 64)
		require.NoError(t, err)

		otherKey := DeriveKey([]byte("wrong horse"), []byte("battery"), domain.HashSHA256)
		assert.NotEqual(t, generator.Tag(key, "42"), generator.Tag(otherKey, "42"))
	})

	t.Run("Success_SHA512", func(t *testing.T) {
		key512 := DeriveKey([]byte("correct horse"), []byte("battery"), domain.HashSHA512)
		generator, err := NewTagGenerator(domain.HashSHA512, 64)
		require.NoError(t, err)

		mac := hmac.New(domain.HashSHA512.HashFunc(), key512)
		mac.Write([]byte("42"))
		expected := hex.EncodeToString(mac.Sum(nil))[:16]

		assert.Equal(t, expected, generator.Tag(key512, "42"))
	})
}
