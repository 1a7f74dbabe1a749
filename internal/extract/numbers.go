package extract

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/starford/meshbake/internal/apperr"
)

// TokenError reports a token that is not a valid number of the block's type.
type TokenError struct {
	Marker string
	Index  int // zero-based ordinal of the token within the block
	Token  string
	Err    error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("extract: %s token %d %q: %v", e.Marker, e.Index, e.Token, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *TokenError) Unwrap() []error {
	return []error{apperr.ErrMalformedToken, e.Err}
}

var (
	errNotFinite  = errors.New("value is not finite")
	errOutOfRange = errors.New("index out of uint32 range")
	errHexFloat   = errors.New("hexadecimal notation not accepted")
)

// tokens splits body on commas and Unicode whitespace.
func tokens(body string) []string {
	return strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// isHex reports whether tok carries a 0x prefix after an optional sign.
// strconv accepts hex floats; source documents only use decimal notation.
func isHex(tok string) bool {
	tok = strings.TrimLeft(tok, "+-")
	return len(tok) >= 2 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X')
}

// ParseFloats parses every token of body as a finite float64.
func ParseFloats(marker, body string) ([]float64, error) {
	toks := tokens(body)
	out := make([]float64, 0, len(toks))
	for i, tok := range toks {
		if isHex(tok) {
			return nil, &TokenError{Marker: marker, Index: i, Token: tok, Err: errHexFloat}
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &TokenError{Marker: marker, Index: i, Token: tok, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &TokenError{Marker: marker, Index: i, Token: tok, Err: errNotFinite}
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseIndices parses every token of body as a decimal integer in uint32
// range. A leading plus sign is accepted; negative values are not.
func ParseIndices(marker, body string) ([]uint32, error) {
	toks := tokens(body)
	out := make([]uint32, 0, len(toks))
	for i, tok := range toks {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, &TokenError{Marker: marker, Index: i, Token: tok, Err: err}
		}
		if v < 0 || v > math.MaxUint32 {
			return nil, &TokenError{Marker: marker, Index: i, Token: tok, Err: errOutOfRange}
		}
		out = append(out, uint32(v))
	}
	return out, nil
}
