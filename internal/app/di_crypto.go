package app

import (
	cryptoService "github.com/allisson/opaqueid/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap keyspace passwords.
func (c *Container) KMSService() cryptoService.KMSService {
	return c.kmsService.get(cryptoService.NewKMSService)
}
