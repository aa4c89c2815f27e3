package service

import (
	"crypto/subtle"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/opaqueid/internal/crypto/domain"
	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// Tokenizer turns non-negative decimal identifiers into opaque tokens and back.
//
// A token is the concatenation of a fixed-width integrity tag field and the
// identifier, both in the display base-32 alphabet with no separator:
//
//	token = base32(tag)[padded to tagLenBase32] || base32(id)
//
// The tag is a truncated HMAC over the identifier under a key derived from the
// keyspace password, so tokens from one keyspace fail verification under any
// other. Decoding recomputes the tag and compares in constant time; a token
// whose tag does not match is rejected without revealing which part failed.
//
// The derived key is owned by the tokenizer instance. Two tokenizers built
// from the same password, salt, algorithm, and tag length are interchangeable,
// which is what lets independent instances decode each other's tokens.
type Tokenizer struct {
	key          []byte
	algorithm    domain.HashAlgorithm
	tagBits      int
	tagLenHex    int
	tagLenBase32 int
	tagGenerator *TagGenerator
}

// NewTokenizer derives the obfuscation key from password and salt and returns
// a tokenizer ready for use. Construction fails when the tag length cannot be
// provided by the algorithm; an oversized tag is never clamped to fit.
func NewTokenizer(
	password, salt []byte,
	algorithm domain.HashAlgorithm,
	tagBits int,
) (*Tokenizer, error) {
	tagGenerator, err := NewTagGenerator(algorithm, tagBits)
	if err != nil {
		return nil, err
	}

	return &Tokenizer{
		key:          DeriveKey(password, salt, algorithm),
		algorithm:    algorithm,
		tagBits:      tagBits,
		tagLenHex:    domain.TagLenHex(tagBits),
		tagLenBase32: domain.TagLenBase32(tagBits),
		tagGenerator: tagGenerator,
	}, nil
}

// TagLength returns the number of leading token symbols occupied by the tag.
func (t *Tokenizer) TagLength() int {
	return t.tagLenBase32
}

// Close zeroes the derived key. The tokenizer must not be used afterwards.
func (t *Tokenizer) Close() {
	cryptoDomain.Zero(t.key)
}

// Encode obfuscates a decimal identifier into a token.
//
// The identifier must be a non-negative decimal integer of any magnitude.
// Leading zeros are stripped first, so "042" and "42" produce the same token.
// Encoding is deterministic: the same identifier always yields the same token
// under the same keyspace parameters.
func (t *Tokenizer) Encode(id string) (string, error) {
	normalized, err := normalizeIdentifier(id)
	if err != nil {
		return "", err
	}

	idEncoded, err := Convert(normalized, 10, 32)
	if err != nil {
		return "", err
	}

	tagHex := t.tagGenerator.Tag(t.key, normalized)
	tagEncoded, err := Convert(tagHex, 16, 32)
	if err != nil {
		return "", err
	}

	// The tag field has a fixed width so decoding can split the token without
	// a separator. The tag bit validation at construction guarantees the
	// encoded tag fits the field.
	padded := strings.Repeat("0", t.tagLenBase32-len(tagEncoded)) + tagEncoded

	return toDisplayBase32(padded + idEncoded), nil
}

// Decode verifies a token and recovers the original decimal identifier.
//
// Any failure reports domain.ErrInvalidToken: structurally unusable tokens as
// domain.ErrMalformedToken and verification failures as domain.ErrTagMismatch.
// Both wrap ErrInvalidToken so callers can collapse them into one rejection
// while logging keeps the distinction. The tag comparison is constant time;
// the surrounding parsing varies only with properties the token itself
// exposes, never with the expected tag.
func (t *Tokenizer) Decode(token string) (string, error) {
	if len(token) <= t.tagLenBase32 {
		return "", fmt.Errorf("%w: %d symbols cannot carry a %d-symbol tag and an identifier",
			domain.ErrMalformedToken, len(token), t.tagLenBase32)
	}

	canonical, err := fromDisplayBase32(token)
	if err != nil {
		return "", err
	}

	tagPart := canonical[:t.tagLenBase32]
	idPart := canonical[t.tagLenBase32:]

	id, err := Convert(idPart, 32, 10)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	tagHex, err := Convert(tagPart, 32, 16)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	if len(tagHex) > t.tagLenHex {
		return "", fmt.Errorf("%w: tag field exceeds %d hex digits",
			domain.ErrMalformedToken, t.tagLenHex)
	}
	tagHex = strings.Repeat("0", t.tagLenHex-len(tagHex)) + tagHex

	expected := t.tagGenerator.Tag(t.key, id)
	if subtle.ConstantTimeCompare([]byte(tagHex), []byte(expected)) != 1 {
		return "", domain.ErrTagMismatch
	}

	return id, nil
}

// normalizeIdentifier validates that id is a non-negative decimal integer and
// strips leading zeros so equal values share one canonical form. A string of
// only zeros normalizes to "0".
func normalizeIdentifier(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty identifier", domain.ErrInvalidIdentifier)
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return "", fmt.Errorf("%w: %q is not a decimal digit",
				domain.ErrInvalidIdentifier, string(id[i]))
		}
	}

	normalized := strings.TrimLeft(id, "0")
	if normalized == "" {
		return "0", nil
	}

	return normalized, nil
}
