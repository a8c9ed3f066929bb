// Package pagination implements the opaque next_token cursor used by
// message listing. The token encodes the sort key of the last row returned;
// callers must treat it as an opaque string and hand it back unchanged.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/neighborly-app/backend/internal/apperr"
)

const prefix = "v1:"

// EncodeToken wraps a message sequence number into an opaque cursor.
func EncodeToken(seq int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(prefix + strconv.FormatInt(seq, 10)))
}

// DecodeToken unwraps a cursor produced by EncodeToken. An empty token means
// "start from the beginning" and decodes to 0. Anything malformed is a
// validation error; clients are not supposed to construct tokens.
func DecodeToken(token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed next_token", apperr.ErrValidation)
	}
	s := string(raw)
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("%w: malformed next_token", apperr.ErrValidation)
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(s, prefix), 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: malformed next_token", apperr.ErrValidation)
	}
	return seq, nil
}
