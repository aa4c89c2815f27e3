package domain

import (
	"fmt"
	"strings"
)

// PolicyStatement grants a set of operations on a set of keyspaces. A request
// is permitted by a statement when both its operation and its keyspace match.
type PolicyStatement struct {
	Operations []string `json:"operations"` // "encode", "decode", or "*"
	Keyspaces  []string `json:"keyspaces"`  // keyspace names, "prefix*" patterns, or "*"
}

// PolicyDocument defines the access control rules for one client.
// A document with no statements authenticates but authorizes nothing.
type PolicyDocument struct {
	Statements []PolicyStatement `json:"statements"`
}

// matchKeyspace checks if the keyspace name matches the policy pattern.
// Supports two wildcard forms:
//  1. Full wildcard: "*" matches any keyspace
//  2. Trailing wildcard: "users-*" matches any keyspace starting with "users-"
//
// Matching is case-sensitive and anything else requires an exact match.
func matchKeyspace(pattern, name string) bool {
	if pattern == Wildcard {
		return true
	}

	if strings.HasSuffix(pattern, Wildcard) {
		prefix := strings.TrimSuffix(pattern, Wildcard)
		return strings.HasPrefix(name, prefix)
	}

	return pattern == name
}

// matchOperation checks if the operation matches the policy value. Operations
// form a closed set, so only the full wildcard and exact matches apply.
func matchOperation(value string, operation Operation) bool {
	return value == Wildcard || value == string(operation)
}

// Allows reports whether any statement grants the operation on the keyspace.
func (d *PolicyDocument) Allows(operation Operation, keyspace string) bool {
	for _, statement := range d.Statements {
		operationMatched := false
		for _, value := range statement.Operations {
			if matchOperation(value, operation) {
				operationMatched = true
				break
			}
		}
		if !operationMatched {
			continue
		}

		for _, pattern := range statement.Keyspaces {
			if matchKeyspace(pattern, keyspace) {
				return true
			}
		}
	}

	return false
}

// Validate checks that every statement names at least one known operation and
// at least one keyspace pattern. An empty statement list is valid: it produces
// a client that can authenticate but perform no obfuscation operation.
func (d *PolicyDocument) Validate() error {
	for i, statement := range d.Statements {
		if len(statement.Operations) == 0 {
			return fmt.Errorf("%w: statement %d has no operations", ErrInvalidPolicyDocument, i)
		}
		if len(statement.Keyspaces) == 0 {
			return fmt.Errorf("%w: statement %d has no keyspaces", ErrInvalidPolicyDocument, i)
		}

		for _, value := range statement.Operations {
			if !KnownOperation(value) {
				return fmt.Errorf("%w: unknown operation %q in statement %d", ErrInvalidPolicyDocument, value, i)
			}
		}
		for _, pattern := range statement.Keyspaces {
			if strings.TrimSpace(pattern) == "" {
				return fmt.Errorf("%w: blank keyspace pattern in statement %d", ErrInvalidPolicyDocument, i)
			}
		}
	}

	return nil
}
