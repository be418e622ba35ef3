package static

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/user"
	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
)

// Verifier maps a fixed set of bearer tokens to owners. It backs AUTH_MODE=static
// for local runs where no Anubis instance is reachable.
type Verifier struct {
	tokens map[string]string
}

// NewVerifier takes a token to owner id map, as parsed from AUTH_TOKENS.
func NewVerifier(tokens map[string]string) *Verifier {
	cleaned := make(map[string]string, len(tokens))
	for token, owner := range tokens {
		token = strings.TrimSpace(token)
		owner = strings.TrimSpace(owner)
		if token == "" || owner == "" {
			continue
		}
		cleaned[token] = owner
	}
	return &Verifier{tokens: cleaned}
}

func (v *Verifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	for candidate, owner := range v.tokens {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			return user.Principal{UserID: owner}, nil
		}
	}

	return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
}
