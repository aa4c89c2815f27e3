package domain

import (
	"github.com/allisson/opaqueid/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrTokenNotFound indicates an access token was not found in the session
	// store.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials indicates the client id or secret is wrong.
	// Returned for unknown clients and bad secrets alike so callers cannot
	// enumerate client ids.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid client credentials")
)

// Client loading errors surfaced while parsing the API_CLIENTS environment
// variable.
var (
	// ErrClientsNotSet is returned when the API_CLIENTS environment variable
	// is missing or empty.
	ErrClientsNotSet = errors.New("API_CLIENTS environment variable not set")

	// ErrInvalidClientFormat is returned when a client entry does not have the
	// id:secretHash:policy shape.
	ErrInvalidClientFormat = errors.Wrap(errors.ErrInvalidInput, "invalid client format")

	// ErrInvalidClientBase64 is returned when a client secret hash or policy
	// document is not valid base64.
	ErrInvalidClientBase64 = errors.Wrap(errors.ErrInvalidInput, "invalid client base64")

	// ErrInvalidClientSecretHash is returned when a decoded secret hash is not
	// an argon2id PHC string.
	ErrInvalidClientSecretHash = errors.Wrap(errors.ErrInvalidInput, "invalid client secret hash")

	// ErrInvalidPolicyDocument is returned when a decoded policy document is
	// not valid JSON or fails validation.
	ErrInvalidPolicyDocument = errors.Wrap(errors.ErrInvalidInput, "invalid policy document")

	// ErrDuplicateClient is returned when two client entries share an id.
	ErrDuplicateClient = errors.Wrap(errors.ErrConflict, "duplicate client")
)
