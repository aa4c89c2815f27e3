package domain

// Zero overwrites b with zeros so unwrapped keyspace passwords do not linger
// in memory after key derivation. A nil or empty slice is a no-op. The caller
// keeps responsibility for not having copied the bytes elsewhere.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
