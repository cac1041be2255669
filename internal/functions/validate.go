package functions

import (
	"context"
	"crypto/subtle"
	"errors"

	"wedding-rsvp/internal/errx"
)

// AppCheckHeader carries the app-integrity attestation of the caller.
const AppCheckHeader = "X-Firebase-AppCheck"

// Verifier checks an app-integrity attestation.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// TokenVerifier accepts a fixed set of attestation tokens.
type TokenVerifier struct {
	tokens [][]byte
}

func NewTokenVerifier(tokens []string) *TokenVerifier {
	v := &TokenVerifier{}
	for _, t := range tokens {
		if t != "" {
			v.tokens = append(v.tokens, []byte(t))
		}
	}
	return v
}

var errUnknownToken = errors.New("unknown app check token")

func (v *TokenVerifier) Verify(_ context.Context, token string) error {
	for _, t := range v.tokens {
		if subtle.ConstantTimeCompare(t, []byte(token)) == 1 {
			return nil
		}
	}
	return errUnknownToken
}

// Validator rejects callers without a trusted attestation unless the override
// is set.
type Validator struct {
	verifier Verifier
	disabled bool
}

func NewValidator(verifier Verifier, disabled bool) *Validator {
	return &Validator{verifier: verifier, disabled: disabled}
}

// Validate returns an unauthenticated error when the caller cannot be trusted.
func (v *Validator) Validate(ctx context.Context, token string) error {
	if v.disabled {
		return nil
	}
	if token == "" || v.verifier == nil {
		return errx.New(errx.Unauthenticated, errx.UnauthenticatedMessage, nil)
	}
	if err := v.verifier.Verify(ctx, token); err != nil {
		return errx.New(errx.Unauthenticated, errx.UnauthenticatedMessage, err)
	}
	return nil
}
