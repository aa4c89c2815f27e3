// Package service integrates with KMS providers through gocloud.dev/secrets.
// Keyspace passwords are stored wrapped; a keeper opened here unwraps them at
// boot and wraps new ones in the create-keyspace command.
package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/opaqueid/internal/crypto/domain"

	// Driver registrations; the scheme of KMS_KEY_URI picks one at runtime.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens keepers for wrapping and unwrapping keyspace passwords.
type KMSService interface {
	// OpenKeeper resolves a key URI (gcpkms://, awskms://, azurekeyvault://,
	// hashivault://, or base64key:// for a local key) to a keeper.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}

	return keeper, nil
}
