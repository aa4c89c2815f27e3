package commands

import (
	"fmt"
	"io"

	obfuscationDomain "github.com/allisson/opaqueid/internal/obfuscation/domain"
	obfuscationService "github.com/allisson/opaqueid/internal/obfuscation/service"
)

// RunEncode obfuscates one identifier under the named keyspace and prints the
// token on a line of its own. The keyspaces come from the environment exactly
// as the server loads them, so the printed token matches what the API would
// return. Nothing else is written to the output, which keeps the command
// usable in shell pipelines.
func RunEncode(
	registry *obfuscationService.TokenizerRegistry,
	writer io.Writer,
	keyspace string,
	id string,
) error {
	tokenizer, ok := registry.Get(keyspace)
	if !ok {
		return fmt.Errorf("%w: %q", obfuscationDomain.ErrKeyspaceNotFound, keyspace)
	}

	token, err := tokenizer.Encode(id)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, token)

	return nil
}
