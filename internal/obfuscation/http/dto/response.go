// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// ObfuscationResponse represents an identifier/token pair under a keyspace.
// Both encode and decode return the full pair.
type ObfuscationResponse struct {
	Keyspace string `json:"keyspace"`
	ID       string `json:"id"`
	Token    string `json:"token"`
}

// KeyspaceResponse represents a keyspace in API responses. It carries the
// public parameters only, never key material.
type KeyspaceResponse struct {
	Name      string `json:"name"`
	Algorithm string `json:"algorithm"`
	TagBits   int    `json:"tag_bits"`
	TagLength int    `json:"tag_length"`
}

// MapKeyspaceInfoToResponse converts a keyspace description to an API response.
func MapKeyspaceInfoToResponse(info domain.KeyspaceInfo) KeyspaceResponse {
	return KeyspaceResponse{
		Name:      info.Name,
		Algorithm: string(info.Algorithm),
		TagBits:   info.TagBits,
		TagLength: info.TagLength,
	}
}
