package mocks

import (
	"context"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) Create(ctx context.Context, ownerID *int64, req *domain.CreateLinkRequest) (*domain.Link, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) Get(ctx context.Context, id, ownerID int64) (*domain.Link, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) List(ctx context.Context, params domain.ListLinksParams) (*domain.LinkPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkPage), args.Error(1)
}

func (m *MockLinkService) Update(ctx context.Context, id, ownerID int64, req *domain.UpdateLinkRequest) (*domain.Link, error) {
	args := m.Called(ctx, id, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) Delete(ctx context.Context, id, ownerID int64) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

type MockLinkResolver struct {
	mock.Mock
}

func (m *MockLinkResolver) Resolve(ctx context.Context, code string) (*domain.Link, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

type MockClickRecorder struct {
	mock.Mock
}

func (m *MockClickRecorder) RecordAsync(link *domain.Link, req *domain.ClickRequest) {
	m.Called(link, req)
}

type MockRedirectService struct {
	mock.Mock
}

func (m *MockRedirectService) Redirect(ctx context.Context, code string, req *domain.ClickRequest) (*domain.Link, error) {
	args := m.Called(ctx, code, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Report(ctx context.Context, linkID, ownerID int64, query domain.AnalyticsQuery) (*domain.AnalyticsReport, error) {
	args := m.Called(ctx, linkID, ownerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticsReport), args.Error(1)
}

type MockQRRenderer struct {
	mock.Mock
}

func (m *MockQRRenderer) RenderPNG(text string, size int) ([]byte, error) {
	args := m.Called(text, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
