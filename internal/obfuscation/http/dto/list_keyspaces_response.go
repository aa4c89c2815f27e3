package dto

import (
	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// ListKeyspacesResponse represents the response for listing keyspaces.
type ListKeyspacesResponse struct {
	Data []KeyspaceResponse `json:"data"`
}

// MapKeyspaceInfosToListResponse maps keyspace descriptions to a ListKeyspacesResponse DTO.
// Returns an empty list instead of null when there are no items to match API conventions.
func MapKeyspaceInfosToListResponse(infos []domain.KeyspaceInfo) ListKeyspacesResponse {
	items := make([]KeyspaceResponse, 0, len(infos))
	for _, info := range infos {
		items = append(items, MapKeyspaceInfoToResponse(info))
	}

	return ListKeyspacesResponse{
		Data: items,
	}
}
