// Package service implements the obfuscation primitives: arbitrary-precision
// base conversion, PBKDF2 key derivation, truncated HMAC integrity tags, and
// the tokenizer that combines them into opaque reversible tokens.
package service

import (
	"fmt"

	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

const (
	// baseAlphabet orders the symbols used for conversion arithmetic: digits,
	// then lowercase, then uppercase. A symbol's index is its numeric value,
	// which supports bases 2 through 62 with case-sensitive digits above 9.
	baseAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// displayAlphabet is the base-32 alphabet tokens are rendered with. It
	// drops i, l, o, and u so tokens survive hand transcription without
	// lookalike confusion. Conversion happens in baseAlphabet order and
	// tokens are transliterated to this alphabet as the final step.
	displayAlphabet = "0123456789abcdefghjkmnpqrstvwxyz"

	// minBase and maxBase bound the bases Convert accepts.
	minBase = 2
	maxBase = 62
)

var (
	baseAlphabetValues    = buildValueTable(baseAlphabet)
	displayAlphabetValues = buildValueTable(displayAlphabet)
)

// buildValueTable maps each alphabet byte to its digit value, with -1 marking
// bytes outside the alphabet.
func buildValueTable(alphabet string) [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		table[alphabet[i]] = int8(i)
	}
	return table
}

// Convert re-expresses digits from fromBase in toBase.
//
// The value is processed as a digit array with repeated long division, so
// inputs are not limited to what fits a machine word; identifiers beyond
// 2^64 convert exactly. Digits above 9 are case-sensitive: "ff" is a valid
// base-16 input, "FF" is not. The canonical spelling of zero is "0", which is
// also returned for an empty input or an input of only zeros.
//
// Returns domain.ErrUnsupportedBase when a base falls outside 2..62 and
// domain.ErrInvalidDigit when a symbol is not a digit of fromBase.
func Convert(digits string, fromBase, toBase int) (string, error) {
	if fromBase < minBase || fromBase > maxBase {
		return "", fmt.Errorf("%w: from base %d outside %d..%d",
			domain.ErrUnsupportedBase, fromBase, minBase, maxBase)
	}
	if toBase < minBase || toBase > maxBase {
		return "", fmt.Errorf("%w: to base %d outside %d..%d",
			domain.ErrUnsupportedBase, toBase, minBase, maxBase)
	}

	num := make([]int, 0, len(digits))
	for i := 0; i < len(digits); i++ {
		v := baseAlphabetValues[digits[i]]
		if v < 0 || int(v) >= fromBase {
			return "", fmt.Errorf("%w: %q is not a base-%d digit",
				domain.ErrInvalidDigit, string(digits[i]), fromBase)
		}
		num = append(num, int(v))
	}

	// Strip leading zeros so the division loop sees the minimal magnitude.
	start := 0
	for start < len(num) && num[start] == 0 {
		start++
	}
	num = num[start:]
	if len(num) == 0 {
		return "0", nil
	}

	// Each pass divides the whole digit array by toBase and emits the
	// remainder as the next output digit, least significant first.
	var out []byte
	for len(num) > 0 {
		rem := 0
		k := 0
		for _, d := range num {
			acc := rem*fromBase + d
			q := acc / toBase
			rem = acc % toBase
			if k > 0 || q != 0 {
				num[k] = q
				k++
			}
		}
		num = num[:k]
		out = append(out, baseAlphabet[rem])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

// toDisplayBase32 transliterates canonical base-32 digits to the display
// alphabet. The input must come from Convert with toBase 32.
func toDisplayBase32(digits string) string {
	out := make([]byte, len(digits))
	for i := 0; i < len(digits); i++ {
		out[i] = displayAlphabet[baseAlphabetValues[digits[i]]]
	}
	return string(out)
}

// fromDisplayBase32 transliterates a token from the display alphabet back to
// canonical base-32 digits. Any symbol outside the display alphabet makes the
// whole token malformed.
func fromDisplayBase32(token string) (string, error) {
	out := make([]byte, len(token))
	for i := 0; i < len(token); i++ {
		v := displayAlphabetValues[token[i]]
		if v < 0 {
			return "", fmt.Errorf("%w: symbol %q is not in the token alphabet",
				domain.ErrMalformedToken, string(token[i]))
		}
		out[i] = baseAlphabet[v]
	}
	return string(out), nil
}
