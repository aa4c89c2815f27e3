// Package domain defines authentication and authorization domain models.
// Implements client credentials loaded from the environment and statement-based
// policies that control which obfuscation operations a client may perform.
package domain

// Operation identifies an obfuscation action a client may be authorized to
// perform. Operations are referenced by policy statements to control client
// authorization.
type Operation string

const (
	// OperationEncode allows turning identifiers into opaque tokens.
	OperationEncode Operation = "encode"

	// OperationDecode allows turning opaque tokens back into identifiers.
	OperationDecode Operation = "decode"
)

// Wildcard matches any operation or keyspace inside a policy statement.
const Wildcard = "*"

// KnownOperation reports whether the value names a defined operation or the
// wildcard. Used when validating policy documents at load time.
func KnownOperation(value string) bool {
	switch value {
	case string(OperationEncode), string(OperationDecode), Wildcard:
		return true
	}
	return false
}
