package service

import (
	"crypto/hmac"
	"encoding/hex"
	"hash"

	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// TagGenerator computes truncated HMAC integrity tags over identifier strings.
type TagGenerator struct {
	hashFunc func() hash.Hash
	hexLen   int
}

// NewTagGenerator creates a tag generator for the given algorithm and tag bit
// length. It fails if the algorithm cannot provide a tag of that length.
func NewTagGenerator(algorithm domain.HashAlgorithm, tagBits int) (*TagGenerator, error) {
	if err := domain.ValidateTagBits(algorithm, tagBits); err != nil {
		return nil, err
	}
	return &TagGenerator{
		hashFunc: algorithm.HashFunc(),
		hexLen:   domain.TagLenHex(tagBits),
	}, nil
}

// Tag computes HMAC(key, message) over the full digest, hex-encodes it, and
// keeps the leading hexLen characters. Truncation happens on the encoded form,
// so the tag is always whole hex digits and longer configurations of the same
// key extend shorter ones.
func (t *TagGenerator) Tag(key []byte, message string) string {
	mac := hmac.New(t.hashFunc, key)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))[:t.hexLen]
}
