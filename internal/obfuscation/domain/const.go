// Package domain defines core obfuscation domain models: HMAC digest algorithms,
// integrity tag sizing rules, and keyspace definitions loaded from the environment.
package domain

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// HashAlgorithm selects the HMAC digest used for key derivation and integrity tags.
//
// The algorithm is fixed per keyspace: changing it invalidates every token the
// keyspace has issued, because the derived key and the tag computation both
// depend on it.
type HashAlgorithm string

const (
	HashSHA256 HashAlgorithm = "sha256"
	HashSHA512 HashAlgorithm = "sha512"
)

// Tag sizing constants.
const (
	// DefaultTagBits is the integrity tag length used when a keyspace does not
	// specify one.
	DefaultTagBits = 64

	// MinRecommendedTagBits is the smallest tag length that offers meaningful
	// forgery resistance. Smaller values are accepted but a forged token only
	// needs around 2^(bits-1) guesses on average, so the keyspace loader logs
	// a warning for them.
	MinRecommendedTagBits = 32

	// KeyDerivationIterations is the fixed HMAC iteration count of the key
	// derivation. Tokens issued under a password/salt pair stay decodable only
	// while this constant is unchanged.
	KeyDerivationIterations = 1000
)

// Validate checks if the hash algorithm is valid.
func (h HashAlgorithm) Validate() error {
	switch h {
	case HashSHA256, HashSHA512:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedHashAlgorithm, string(h))
	}
}

// String returns the string representation of the hash algorithm.
func (h HashAlgorithm) String() string {
	return string(h)
}

// HashFunc returns the digest constructor for the algorithm.
func (h HashAlgorithm) HashFunc() func() hash.Hash {
	switch h {
	case HashSHA512:
		return sha512.New
	default:
		return sha256.New
	}
}

// Size returns the digest output size in bytes.
func (h HashAlgorithm) Size() int {
	switch h {
	case HashSHA512:
		return sha512.Size
	default:
		return sha256.Size
	}
}

// TagLenHex returns the tag display length in hexadecimal digits for the given
// bit length: ceil(bits/4).
func TagLenHex(tagBits int) int {
	return (tagBits + 3) / 4
}

// TagLenBase32 returns the tag field length in base-32 symbols for the given
// bit length: ceil(bits/5). Every token starts with exactly this many symbols.
func TagLenBase32(tagBits int) int {
	return (tagBits + 4) / 5
}

// ValidateTagBits checks that a tag length is usable with the given algorithm.
//
// The tag must be positive, must not exceed the digest's native output size,
// and its hexadecimal representation (rounded up to whole hex digits) must fit
// the fixed base-32 tag field. The last rule rejects lengths such as 30 or 50
// where ceil(bits/4)*4 > ceil(bits/5)*5: a tag value could then overflow the
// token's tag prefix and silently shift the identifier boundary.
func ValidateTagBits(algorithm HashAlgorithm, tagBits int) error {
	if err := algorithm.Validate(); err != nil {
		return err
	}
	if tagBits <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidTagBits, tagBits)
	}
	if maxBits := algorithm.Size() * 8; tagBits > maxBits {
		return fmt.Errorf("%w: %d exceeds %s output size of %d bits",
			ErrInvalidTagBits, tagBits, algorithm, maxBits)
	}
	if TagLenHex(tagBits)*4 > TagLenBase32(tagBits)*5 {
		return fmt.Errorf("%w: %d bits widen to %d hex bits, overflowing the %d-bit base-32 tag field",
			ErrInvalidTagBits, tagBits, TagLenHex(tagBits)*4, TagLenBase32(tagBits)*5)
	}
	return nil
}
