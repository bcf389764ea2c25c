package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/copydesk/copydesk/internal/domain"
)

// StaticTokenValidator resolves bearer tokens to user ids from a fixed
// token table loaded at startup. Token comparison is constant-time.
type StaticTokenValidator struct {
	tokens map[string]string
}

// NewStaticTokenValidator parses a "token:user,token:user" table as found
// in COPYDESK_API_TOKENS.
func NewStaticTokenValidator(table string) (*StaticTokenValidator, error) {
	tokens := make(map[string]string)
	for _, entry := range strings.Split(table, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid token entry %q (expected token:user)", entry)
		}
		tokens[parts[0]] = parts[1]
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no api tokens configured")
	}
	return &StaticTokenValidator{tokens: tokens}, nil
}

// ValidateToken returns the user id owning the token.
func (v *StaticTokenValidator) ValidateToken(_ context.Context, token string) (string, error) {
	for candidate, userID := range v.tokens {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			return userID, nil
		}
	}
	return "", domain.NewDomainError(domain.ErrCodeUnauthorized, "unknown api token")
}
