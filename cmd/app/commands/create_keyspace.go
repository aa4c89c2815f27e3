package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/opaqueid/internal/crypto/domain"
	cryptoService "github.com/allisson/opaqueid/internal/crypto/service"
	obfuscationDomain "github.com/allisson/opaqueid/internal/obfuscation/domain"
	customValidation "github.com/allisson/opaqueid/internal/validation"
)

// Sizes for generated keyspace material. The password only ever feeds key
// derivation, so 32 random bytes give it full digest strength; the salt is a
// public parameter and 16 bytes keep the env entry short.
const (
	generatedPasswordSize = 32
	generatedSaltSize     = 16

	// minPasswordLength applies to operator-supplied passwords. A short
	// password weakens every token the keyspace issues; generated passwords
	// are random bytes and skip the check.
	minPasswordLength = 16
)

// RunCreateKeyspace assembles a new keyspace entry for OBFUSCATION_KEYSPACES.
//
// The password is wrapped with the KMS keeper named by kmsKeyURI before
// printing, so the output never contains usable key material. When password is
// empty a cryptographically random one is generated; the operator never needs
// to know it, because only the service (through the same keeper) can unwrap
// it. A supplied password must be at least minPasswordLength characters. When
// saltB64 is empty a random salt is generated. The parameters are validated
// the same way the server validates them at load time, so a printed entry is
// guaranteed to load.
//
// Output format:
//
//	OBFUSCATION_KEYSPACES="<name>:<base64-wrapped-password>:<base64-salt>:<algorithm>:<tagBits>"
//
// For local development, use kmsKeyURI "base64key://<32-byte-base64-key>".
// Never use base64key in production; use cloud KMS providers (gcpkms, awskms,
// azurekeyvault, hashivault).
func RunCreateKeyspace(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
	name string,
	password string,
	saltB64 string,
	algorithm string,
	tagBits int,
) error {
	// Validate required KMS configuration
	if kmsKeyURI == "" {
		return fmt.Errorf(
			"KMS_KEY_URI is required\n\nFor local development, use:\n  KMS_KEY_URI=\"base64key://<32-byte-base64-key>\"\n\nFor production, use cloud KMS providers:\n  KMS_KEY_URI=\"gcpkms://projects/.../cryptoKeys/...\"\n  KMS_KEY_URI=\"awskms:///alias/...\"\n  KMS_KEY_URI=\"azurekeyvault://...\"",
		)
	}

	// The name becomes part of a colon-and-comma separated env value
	if err := validation.Validate(name,
		validation.Required,
		customValidation.NotBlank,
		customValidation.NoWhitespace,
	); err != nil {
		return fmt.Errorf("invalid keyspace name: %w", err)
	}
	if strings.ContainsAny(name, ":,") {
		return fmt.Errorf("keyspace name must contain no ':' or ','")
	}

	algo := obfuscationDomain.HashAlgorithm(algorithm)
	if err := obfuscationDomain.ValidateTagBits(algo, tagBits); err != nil {
		return err
	}
	if tagBits < obfuscationDomain.MinRecommendedTagBits {
		logger.Warn("tag length below recommended minimum",
			slog.Int("tag_bits", tagBits),
			slog.Int("min_recommended", obfuscationDomain.MinRecommendedTagBits),
		)
	}

	var passwordBytes []byte
	if password == "" {
		passwordBytes = make([]byte, generatedPasswordSize)
		if _, err := rand.Read(passwordBytes); err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
	} else {
		strength := customValidation.PasswordStrength{MinLength: minPasswordLength}
		if err := strength.Validate(password); err != nil {
			return fmt.Errorf("invalid keyspace password: %w", err)
		}
		passwordBytes = []byte(password)
	}
	defer cryptoDomain.Zero(passwordBytes)

	var salt []byte
	if saltB64 == "" {
		salt = make([]byte, generatedSaltSize)
		if _, err := rand.Read(salt); err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
	} else {
		var err error
		salt, err = base64.StdEncoding.DecodeString(saltB64)
		if err != nil {
			return fmt.Errorf("failed to decode salt: %w", err)
		}
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	wrapped, err := keeper.Encrypt(ctx, passwordBytes)
	if err != nil {
		return fmt.Errorf("failed to wrap keyspace password: %w", err)
	}

	entry := fmt.Sprintf("%s:%s:%s:%s:%d",
		name,
		base64.StdEncoding.EncodeToString(wrapped),
		base64.StdEncoding.EncodeToString(salt),
		algo,
		tagBits,
	)

	_, _ = fmt.Fprintln(writer, "# Keyspace Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "OBFUSCATION_KEYSPACES=\"%s\"\n", entry)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# For multiple keyspaces, separate entries with commas:")
	_, _ = fmt.Fprintf(writer, "# OBFUSCATION_KEYSPACES=\"existing-entry,%s\"\n", entry)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Changing any parameter of this entry invalidates every token the keyspace has issued.")

	logger.Info("keyspace entry created",
		slog.String("keyspace", name),
		slog.String("algorithm", algo.String()),
		slog.Int("tag_bits", tagBits),
	)

	return nil
}
