package mocks

import (
	"context"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/gamassss/shortlink/internal/geo"
	"github.com/stretchr/testify/mock"
)

type MockAllocator struct {
	mock.Mock
}

func (m *MockAllocator) Allocate(ctx context.Context, requestedAlias string) (string, error) {
	args := m.Called(ctx, requestedAlias)
	return args.String(0), args.Error(1)
}

type MockClickStore struct {
	mock.Mock
}

func (m *MockClickStore) Insert(ctx context.Context, click *domain.Click) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

type MockOwnerStats struct {
	mock.Mock
}

func (m *MockOwnerStats) IncrementClicks(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockLocator struct {
	mock.Mock
}

func (m *MockLocator) Locate(ctx context.Context, ip string) (geo.Location, error) {
	args := m.Called(ctx, ip)
	return args.Get(0).(geo.Location), args.Error(1)
}
