package generator

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/gamassss/shortlink/internal/domain"
)

const (
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the starting size for generated codes.
	DefaultLength = 6

	// collisionsPerLength is how many consecutive collisions we accept
	// before growing the code by one character. Growing bounds the
	// expected number of attempts as the namespace fills up.
	collisionsPerLength = 10

	// maxAttempts caps the whole allocation before giving up with
	// domain.ErrCapacity.
	maxAttempts = 40
)

// Generate produces a random base62 code of the given length.
func Generate(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base62Chars))))
		if err != nil {
			return "", err
		}

		b[i] = base62Chars[n.Int64()]
	}

	return string(b), nil
}

// CodeChecker reports whether a candidate code is already taken, as
// either a short code or a custom alias. The check is advisory: the
// unique index at insert time is the authoritative one.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type Allocator struct {
	checker CodeChecker
}

func NewAllocator(checker CodeChecker) *Allocator {
	return &Allocator{checker: checker}
}

// Allocate finds a free code. With a requested alias it validates the
// alias and checks it is untaken; otherwise it generates random codes,
// retrying collisions and escalating length until maxAttempts.
func (a *Allocator) Allocate(ctx context.Context, requestedAlias string) (string, error) {
	if requestedAlias != "" {
		taken, err := a.checker.CodeExists(ctx, requestedAlias)
		if err != nil {
			return "", err
		}
		if taken {
			return "", &domain.ConflictError{Code: requestedAlias}
		}
		return requestedAlias, nil
	}

	length := DefaultLength
	collisions := 0

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := Generate(length)
		if err != nil {
			return "", err
		}

		taken, err := a.checker.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}

		collisions++
		if collisions >= collisionsPerLength {
			length++
			collisions = 0
		}
	}

	return "", domain.ErrCapacity
}
