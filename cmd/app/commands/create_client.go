package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	authService "github.com/allisson/opaqueid/internal/auth/service"
	customValidation "github.com/allisson/opaqueid/internal/validation"
)

// RunCreateClient assembles a new API client entry for API_CLIENTS.
//
// A fresh random secret is generated and hashed with argon2id; only the hash
// goes into the printed entry, and the plain secret is shown once for handover
// to the client. The operations and keyspaces values are comma-separated lists
// that become one policy statement; both default to the wildcard. The policy
// is validated the same way the server validates it at load time.
//
// format selects "text" (env fragment plus handover notes) or "json"
// (machine-readable object with client_id, secret, and env_entry).
func RunCreateClient(
	ctx context.Context,
	secretService authService.SecretService,
	logger *slog.Logger,
	writer io.Writer,
	clientID string,
	operations string,
	keyspaces string,
	format string,
) error {
	// The id becomes part of a colon-and-comma separated env value
	if err := validation.Validate(clientID,
		validation.Required,
		customValidation.NotBlank,
		customValidation.NoWhitespace,
	); err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}
	if strings.ContainsAny(clientID, ":,") {
		return fmt.Errorf("client id must contain no ':' or ','")
	}

	policy := authDomain.PolicyDocument{
		Statements: []authDomain.PolicyStatement{
			{
				Operations: splitList(operations),
				Keyspaces:  splitList(keyspaces),
			},
		},
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	plainSecret, hashedSecret, err := secretService.GenerateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate client secret: %w", err)
	}

	policyJSON, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}

	entry := fmt.Sprintf("%s:%s:%s",
		clientID,
		base64.StdEncoding.EncodeToString([]byte(hashedSecret)),
		base64.StdEncoding.EncodeToString(policyJSON),
	)

	if format == "json" {
		outputCreateClientJSON(writer, clientID, plainSecret, entry)
	} else {
		outputCreateClientText(writer, clientID, plainSecret, entry)
	}

	logger.Info("client entry created", slog.String("client_id", clientID))

	return nil
}

// splitList splits a comma-separated flag value into trimmed non-empty items.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// outputCreateClientText outputs the result in human-readable text format.
func outputCreateClientText(writer io.Writer, clientID, plainSecret, entry string) {
	_, _ = fmt.Fprintln(writer, "# Client Configuration")
	_, _ = fmt.Fprintln(writer, "# Append the entry to API_CLIENTS in your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "API_CLIENTS=\"%s\"\n", entry)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", clientID)
	_, _ = fmt.Fprintf(writer, "Secret: %s\n", plainSecret)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "IMPORTANT: The secret is shown only once. Store it securely.")
}

// outputCreateClientJSON outputs the result in JSON format for machine consumption.
func outputCreateClientJSON(writer io.Writer, clientID, plainSecret, entry string) {
	result := map[string]string{
		"client_id": clientID,
		"secret":    plainSecret,
		"env_entry": entry,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
