package reconcile

import (
	"fmt"

	"github.com/google/uuid"
)

// TokenGenerator mints the token that identifies one reconciliation cycle.
// Tokens appear in surface callbacks and logs, correlating a script with the
// cycle that produced it.
type TokenGenerator interface {
	Next() string
}

// UUIDTokens generates time-ordered UUIDv7 tokens, so sorting tokens sorts
// cycles. It falls back to random UUIDs if the monotonic source fails.
type UUIDTokens struct{}

func (UUIDTokens) Next() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// FixedTokens generates a deterministic sequence for tests.
type FixedTokens struct {
	Prefix string
	n      int
}

func (f *FixedTokens) Next() string {
	f.n++
	return fmt.Sprintf("%s-%06d", f.Prefix, f.n)
}
