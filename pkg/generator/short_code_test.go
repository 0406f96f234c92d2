package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	taken map[string]bool
	all   bool
	calls []string
}

func (f *fakeChecker) CodeExists(_ context.Context, code string) (bool, error) {
	f.calls = append(f.calls, code)
	if f.all {
		return true, nil
	}
	return f.taken[code], nil
}

func TestGenerate_BasicProperties(t *testing.T) {
	code, err := Generate(DefaultLength)

	assert.NoError(t, err)
	assert.Len(t, code, DefaultLength)
	assert.Regexp(t, "^[a-zA-Z0-9]+$", code, "code should only contain base62 characters")
}

func TestGenerate_Uniqueness(t *testing.T) {
	codes := make(map[string]bool, 1000)

	for i := 0; i < 1000; i++ {
		code, err := Generate(DefaultLength)
		assert.NoError(t, err)

		assert.False(t, codes[code], "Duplicate code generated: %s", code)
		codes[code] = true
	}

	assert.Equal(t, 1000, len(codes))
}

func TestAllocate_GeneratedCode(t *testing.T) {
	checker := &fakeChecker{taken: map[string]bool{}}
	allocator := NewAllocator(checker)

	code, err := allocator.Allocate(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, code, DefaultLength)
}

func TestAllocate_Alias_Free(t *testing.T) {
	checker := &fakeChecker{taken: map[string]bool{}}
	allocator := NewAllocator(checker)

	code, err := allocator.Allocate(context.Background(), "my-link")

	require.NoError(t, err)
	assert.Equal(t, "my-link", code)
}

func TestAllocate_Alias_Taken(t *testing.T) {
	checker := &fakeChecker{taken: map[string]bool{"my-link": true}}
	allocator := NewAllocator(checker)

	code, err := allocator.Allocate(context.Background(), "my-link")

	assert.Empty(t, code)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "my-link", conflict.Code)
}

func TestAllocate_EscalatesLengthAfterCollisions(t *testing.T) {
	checker := &fakeChecker{all: true}
	allocator := NewAllocator(checker)

	_, err := allocator.Allocate(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrCapacity)
	assert.Len(t, checker.calls, 40)

	// first 10 candidates at the default length, then one extra
	// character per block of 10 collisions
	assert.Len(t, checker.calls[0], DefaultLength)
	assert.Len(t, checker.calls[10], DefaultLength+1)
	assert.Len(t, checker.calls[20], DefaultLength+2)
	assert.Len(t, checker.calls[39], DefaultLength+3)
}

type errChecker struct{}

func (errChecker) CodeExists(context.Context, string) (bool, error) {
	return false, errors.New("db down")
}

func TestAllocate_CheckerError(t *testing.T) {
	allocator := NewAllocator(errChecker{})

	_, err := allocator.Allocate(context.Background(), "")

	assert.ErrorContains(t, err, "db down")
}
