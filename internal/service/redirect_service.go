package service

import (
	"context"
	"time"

	"github.com/gamassss/shortlink/internal/domain"
)

type linkResolver interface {
	Resolve(ctx context.Context, code string) (*domain.Link, error)
}

type clickRecorder interface {
	RecordAsync(link *domain.Link, req *domain.ClickRequest)
}

// RedirectService drives the per-request state machine:
// lookup -> not found | expired | redirect-with-recording.
type RedirectService struct {
	links    linkResolver
	recorder clickRecorder
	now      func() time.Time
}

func NewRedirectService(links linkResolver, recorder clickRecorder) *RedirectService {
	return &RedirectService{
		links:    links,
		recorder: recorder,
		now:      time.Now,
	}
}

// Redirect resolves the code and, for a live link, kicks off the
// fire-and-forget click recording. Returns domain.ErrNotFound for an
// unknown or inactive code and domain.ErrGone past expiration; an
// expired hit records nothing.
func (s *RedirectService) Redirect(ctx context.Context, code string, req *domain.ClickRequest) (*domain.Link, error) {
	link, err := s.links.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	if link.Expired(s.now()) {
		return nil, domain.ErrGone
	}

	s.recorder.RecordAsync(link, req)

	return link, nil
}
