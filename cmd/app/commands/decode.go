package commands

import (
	"fmt"
	"io"

	obfuscationDomain "github.com/allisson/opaqueid/internal/obfuscation/domain"
	obfuscationService "github.com/allisson/opaqueid/internal/obfuscation/service"
)

// RunDecode verifies a token under the named keyspace and prints the recovered
// identifier on a line of its own. A token issued under a different keyspace
// or tampered with fails verification and the command exits non-zero without
// printing anything.
func RunDecode(
	registry *obfuscationService.TokenizerRegistry,
	writer io.Writer,
	keyspace string,
	token string,
) error {
	tokenizer, ok := registry.Get(keyspace)
	if !ok {
		return fmt.Errorf("%w: %q", obfuscationDomain.ErrKeyspaceNotFound, keyspace)
	}

	id, err := tokenizer.Decode(token)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, id)

	return nil
}
