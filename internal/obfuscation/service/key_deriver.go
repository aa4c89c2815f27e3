package service

import (
	"golang.org/x/crypto/pbkdf2"

	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// DeriveKey stretches a keyspace password into the obfuscation key using
// PBKDF2 with domain.KeyDerivationIterations iterations of HMAC over the
// keyspace's digest.
//
// The requested key length equals the digest size, so derivation runs exactly
// one PBKDF2 block: U1 = HMAC(password, salt || be32(1)), each following
// U(i) = HMAC(password, U(i-1)), and the key is the XOR of all iterations.
// Every parameter is pinned. The same password, salt, and algorithm always
// produce the same key, which is what keeps previously issued tokens
// decodable across restarts and instances.
func DeriveKey(password, salt []byte, algorithm domain.HashAlgorithm) []byte {
	return pbkdf2.Key(
		password,
		salt,
		domain.KeyDerivationIterations,
		algorithm.Size(),
		algorithm.HashFunc(),
	)
}
