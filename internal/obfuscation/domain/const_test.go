package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAlgorithm_Validate(t *testing.T) {
	tests := []struct {
		name        string
		algorithm   HashAlgorithm
		expectError bool
	}{
		{
			name:        "Valid_SHA256",
			algorithm:   HashSHA256,
			expectError: false,
		},
		{
			name:        "Valid_SHA512",
			algorithm:   HashSHA512,
			expectError: false,
		},
		{
			name:        "Invalid_UnknownAlgorithm",
			algorithm:   HashAlgorithm("md5"),
			expectError: true,
		},
		{
			name:        "Invalid_EmptyString",
			algorithm:   HashAlgorithm(""),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.algorithm.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedHashAlgorithm)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAlgorithm_String(t *testing.T) {
	assert.Equal(t, "sha256", HashSHA256.String())
	assert.Equal(t, "sha512", HashSHA512.String())
}

func TestHashAlgorithm_Size(t *testing.T) {
	tests := []struct {
		name      string
		algorithm HashAlgorithm
		expected  int
	}{
		{
			name:      "SHA256",
			algorithm: HashSHA256,
			expected:  32,
		},
		{
			name:      "SHA512",
			algorithm: HashSHA512,
			expected:  64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.algorithm.Size())
			assert.Equal(t, tt.expected, tt.algorithm.HashFunc()().Size())
		})
	}
}

func TestTagLenHex(t *testing.T) {
	tests := []struct {
		tagBits  int
		expected int
	}{
		{tagBits: 1, expected: 1},
		{tagBits: 4, expected: 1},
		{tagBits: 8, expected: 2},
		{tagBits: 32, expected: 8},
		{tagBits: 64, expected: 16},
		{tagBits: 128, expected: 32},
		{tagBits: 256, expected: 64},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TagLenHex(tt.tagBits), "tagBits=%d", tt.tagBits)
	}
}

func TestTagLenBase32(t *testing.T) {
	tests := []struct {
		tagBits  int
		expected int
	}{
		{tagBits: 1, expected: 1},
		{tagBits: 5, expected: 1},
		{tagBits: 8, expected: 2},
		{tagBits: 32, expected: 7},
		{tagBits: 64, expected: 13},
		{tagBits: 128, expected: 26},
		{tagBits: 160, expected: 32},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TagLenBase32(tt.tagBits), "tagBits=%d", tt.tagBits)
	}
}

func TestValidateTagBits(t *testing.T) {
	tests := []struct {
		name      string
		algorithm HashAlgorithm
		tagBits   int
		wantErr   error
	}{
		{
			name:      "Valid_Default64",
			algorithm: HashSHA256,
			tagBits:   64,
		},
		{
			name:      "Valid_Small8",
			algorithm: HashSHA256,
			tagBits:   8,
		},
		{
			name:      "Valid_Exact20",
			algorithm: HashSHA256,
			tagBits:   20,
		},
		{
			name:      "Valid_Minimum32",
			algorithm: HashSHA256,
			tagBits:   32,
		},
		{
			name:      "Valid_FullSHA256Digest",
			algorithm: HashSHA256,
			tagBits:   256,
		},
		{
			name:      "Valid_FullSHA512Digest",
			algorithm: HashSHA512,
			tagBits:   512,
		},
		{
			name:      "Invalid_Zero",
			algorithm: HashSHA256,
			tagBits:   0,
			wantErr:   ErrInvalidTagBits,
		},
		{
			name:      "Invalid_Negative",
			algorithm: HashSHA256,
			tagBits:   -8,
			wantErr:   ErrInvalidTagBits,
		},
		{
			name:      "Invalid_ExceedsSHA256Digest",
			algorithm: HashSHA256,
			tagBits:   264,
			wantErr:   ErrInvalidTagBits,
		},
		{
			name:      "Invalid_ExceedsSHA512Digest",
			algorithm: HashSHA512,
			tagBits:   520,
			wantErr:   ErrInvalidTagBits,
		},
		{
			name:      "Invalid_HexOverflowsTagField30",
			algorithm: HashSHA256,
			tagBits:   30,
			wantErr:   ErrInvalidTagBits,
		},
		{
			name:      "Invalid_HexOverflowsTagField50",
			algorithm: HashSHA256,
			tagBits:   50,
			wantErr:   ErrInvalidTagBits,
		},
		{
			name:      "Invalid_UnknownAlgorithm",
			algorithm: HashAlgorithm("blake2"),
			tagBits:   64,
			wantErr:   ErrUnsupportedHashAlgorithm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTagBits(tt.algorithm, tt.tagBits)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
