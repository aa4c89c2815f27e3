/*
Package obfuscation provides reversible, tamper-evident obfuscation for numeric
identifiers.

The obfuscation module replaces sequential database identifiers with opaque
tokens in URLs and API payloads, so outsiders can neither read an identifier
nor enumerate neighbouring ones, while the service itself can always recover
the original value without storing any mapping.

# Architecture

The module follows Clean Architecture principles:
  - domain: Core models (HashAlgorithm, Keyspace, KeyspaceChain) and tag sizing rules
  - service: The tokenizer pipeline (key derivation, base conversion, tag generation)
  - usecase: Business logic orchestration and metrics decoration
  - http: HTTP handlers and DTOs

# Token Layout

A token is the concatenation of a fixed-width integrity tag field and the
obfuscated identifier, both written in a base-32 display alphabet
("0123456789abcdefghjkmnpqrstvwxyz", no i, l, o, or u):

	token = base32(tag)[zero-padded to ceil(tagBits/5)] || base32(id)

The fixed tag width is what lets decoding split the token without a separator.
Tokens are deterministic: one identifier maps to one token for the lifetime of
its keyspace.

# Security Model

Each keyspace derives its own obfuscation key from a password and salt through
iterated HMAC, so tokens never decode across keyspaces. The tag is an HMAC over
the decimal identifier truncated to the configured bit length, and decode
compares tags in constant time. Three properties follow:

  - Opacity: without the key, the identifier cannot be read from the token
  - Tamper evidence: altering any token symbol invalidates the tag
  - Non-enumerability: guessing a valid token for a chosen identifier requires
    forging a tag, roughly 2^(tagBits-1) attempts on average

Obfuscation is not encryption. Anyone holding the keyspace password can
recover every identifier, and equal identifiers always produce equal tokens.
It protects identifiers from the outside, not the data behind them.

# Basic Usage

Build a tokenizer directly:

	tokenizer, err := service.NewTokenizer(
	    []byte("correct horse"),
	    []byte("battery"),
	    domain.HashSHA256,
	    domain.DefaultTagBits,
	)
	defer tokenizer.Close()

	token, err := tokenizer.Encode("42")
	id, err := tokenizer.Decode(token)

Or go through the keyspace registry the server uses, with one tokenizer per
keyspace loaded from OBFUSCATION_KEYSPACES:

	chain, err := domain.LoadKeyspaceChain(ctx, cfg, kmsService, logger)
	registry, err := service.NewTokenizerRegistry(chain)
	chain.Close() // the registry holds derived keys, the passwords can go

	obfuscation := usecase.NewObfuscationUseCase(registry)
	token, err := obfuscation.Encode(ctx, "users", "42")

# Choosing a Tag Length

The tag length trades token size against forgery resistance:

  - 64 bits (default): 13 tag symbols, forgery out of reach
  - 32 bits: 7 tag symbols, the smallest recommended value
  - below 32 bits: loadable but logged as a warning; a patient attacker
    submitting random tokens will eventually land a valid one

The tag length must not exceed the digest size of the keyspace's algorithm
(256 for sha256, 512 for sha512); such configurations fail at load rather
than being clamped.

# Error Handling

Decode failures are deliberately uniform. Malformed tokens and tag mismatches
both wrap domain.ErrInvalidToken, and the HTTP layer returns the same response
body for either, so a caller probing the API cannot separate "not a token" from
"almost a token". Logs keep the distinct kind for diagnostics.

# Constraints

  - Identifiers are non-negative decimal integers of any magnitude, carried as
    strings ("042" and "42" are the same identifier)
  - Keyspace parameters are immutable; changing password, salt, algorithm, or
    tag length invalidates every issued token
  - Tokens are lowercase; decode rejects any symbol outside the display
    alphabet, uppercase included

For complete documentation, see README.md.
*/
package obfuscation
