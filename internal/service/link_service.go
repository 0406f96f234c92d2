package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/gamassss/shortlink/internal/logger"
	"github.com/gamassss/shortlink/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/singleflight"
)

// maxCreateAttempts bounds the allocate-and-insert retry loop. The
// generator's own uniqueness check is advisory; concurrent writers can
// both pick a free code and only one insert wins the unique index.
const maxCreateAttempts = 5

const defaultCacheTTL = time.Hour

type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetByID(ctx context.Context, id, ownerID int64) (*domain.Link, error)
	FindByOwnerAndDestination(ctx context.Context, ownerID int64, destination string) (*domain.Link, error)
	Resolve(ctx context.Context, code string) (*domain.Link, error)
	List(ctx context.Context, params domain.ListLinksParams) (*domain.LinkPage, error)
	Update(ctx context.Context, id, ownerID int64, req *domain.UpdateLinkRequest) (*domain.Link, error)
	Delete(ctx context.Context, id, ownerID int64) error
	IncrementClickCount(ctx context.Context, id int64) error
}

type LinkCache interface {
	GetLink(ctx context.Context, code string) (*domain.Link, error)
	SetLink(ctx context.Context, code string, link *domain.Link, ttl time.Duration) error
	InvalidateLink(ctx context.Context, link *domain.Link) error
}

type CodeAllocator interface {
	Allocate(ctx context.Context, requestedAlias string) (string, error)
}

type LinkService struct {
	repo      LinkRepository
	cache     LinkCache
	allocator CodeAllocator
	resolves  singleflight.Group
}

func NewLinkService(repo LinkRepository, cache LinkCache, allocator CodeAllocator) *LinkService {
	return &LinkService{
		repo:      repo,
		cache:     cache,
		allocator: allocator,
	}
}

// Create normalizes and validates the request, then runs the
// allocate-insert loop. For authenticated owners an existing link to
// the same destination is returned as-is instead of inserting a
// duplicate; anonymous creates always insert.
func (s *LinkService) Create(ctx context.Context, ownerID *int64, req *domain.CreateLinkRequest) (*domain.Link, error) {
	destination, err := validator.NormalizeDestination(req.Destination)
	if err != nil {
		return nil, domain.NewValidationError("destination", err.Error())
	}

	alias := strings.TrimSpace(req.CustomAlias)
	if alias != "" && validator.IsReservedKeyword(alias) {
		return nil, domain.NewValidationError("custom_alias", fmt.Sprintf("%q is reserved", alias))
	}

	if req.ExpiresAt != nil && !validator.FutureTime(*req.ExpiresAt, time.Now()) {
		return nil, domain.NewValidationError("expires_at", "expiration must be in the future")
	}

	if ownerID != nil {
		existing, err := s.repo.FindByOwnerAndDestination(ctx, *ownerID, destination)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing links: %w", err)
		}
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, err := s.allocator.Allocate(ctx, alias)
		if err != nil {
			return nil, err
		}

		link := &domain.Link{
			ShortCode:   code,
			Destination: destination,
			OwnerID:     ownerID,
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			ExpiresAt:   req.ExpiresAt,
			IsActive:    true,
		}
		if alias != "" {
			link.CustomAlias = alias
		}

		err = s.repo.Create(ctx, link)
		if err == nil {
			return link, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if alias != "" {
				// The alias lost a race since the advisory check.
				return nil, &domain.ConflictError{Code: alias}
			}
			continue
		}

		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return nil, domain.ErrCapacity
}

func (s *LinkService) Get(ctx context.Context, id, ownerID int64) (*domain.Link, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

func (s *LinkService) List(ctx context.Context, params domain.ListLinksParams) (*domain.LinkPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}

func (s *LinkService) Update(ctx context.Context, id, ownerID int64, req *domain.UpdateLinkRequest) (*domain.Link, error) {
	if req.ExpiresAt != nil && !req.ClearExpiry && !validator.FutureTime(*req.ExpiresAt, time.Now()) {
		return nil, domain.NewValidationError("expires_at", "expiration must be in the future")
	}

	link, err := s.repo.Update(ctx, id, ownerID, req)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, link)

	return link, nil
}

func (s *LinkService) Delete(ctx context.Context, id, ownerID int64) error {
	link, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.invalidate(ctx, link)

	return nil
}

// Resolve serves the redirect path: cache first, then one database
// lookup per code across concurrent misses via singleflight. Only
// active links resolve; expiration is the caller's concern.
func (s *LinkService) Resolve(ctx context.Context, code string) (*domain.Link, error) {
	if link, err := s.cache.GetLink(ctx, code); err == nil && link != nil {
		return link, nil
	}

	v, err, _ := s.resolves.Do(code, func() (interface{}, error) {
		link, err := s.repo.Resolve(ctx, code)
		if err != nil {
			return nil, err
		}

		go func() {
			ttl := defaultCacheTTL
			if link.ExpiresAt != nil {
				if until := time.Until(*link.ExpiresAt); until < ttl {
					ttl = until
				}
			}
			if ttl > 0 {
				if err := s.cache.SetLink(context.Background(), code, link, ttl); err != nil {
					logger.Get().Warn("Failed to cache link", "code", code, "error", err)
				}
			}
		}()

		return link, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Link), nil
}

func (s *LinkService) invalidate(ctx context.Context, link *domain.Link) {
	if err := s.cache.InvalidateLink(ctx, link); err != nil {
		logger.FromContext(ctx).Warn("Failed to invalidate link cache",
			"short_code", link.ShortCode, "error", err)
	}
}
