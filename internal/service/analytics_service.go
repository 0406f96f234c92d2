package service

import (
	"context"
	"time"

	"github.com/gamassss/shortlink/internal/domain"
)

type ClickAggregator interface {
	Aggregate(ctx context.Context, linkID int64, start, end time.Time) (*domain.AnalyticsReport, error)
	Recent(ctx context.Context, linkID int64, start, end time.Time) ([]domain.Click, error)
}

type AnalyticsService struct {
	links  LinkRepository
	clicks ClickAggregator
	now    func() time.Time
}

func NewAnalyticsService(links LinkRepository, clicks ClickAggregator) *AnalyticsService {
	return &AnalyticsService{
		links:  links,
		clicks: clicks,
		now:    time.Now,
	}
}

// Report builds the full analytics view for one owned link over the
// requested window. The heavy lifting is one aggregation pass plus a
// bounded recent-clicks fetch.
func (s *AnalyticsService) Report(ctx context.Context, linkID, ownerID int64, query domain.AnalyticsQuery) (*domain.AnalyticsReport, error) {
	link, err := s.links.GetByID(ctx, linkID, ownerID)
	if err != nil {
		return nil, err
	}

	start, end := query.Window(s.now())

	report, err := s.clicks.Aggregate(ctx, link.ID, start, end)
	if err != nil {
		return nil, err
	}

	report.ShortCode = link.Code()
	report.Destination = link.Destination
	report.StartDate = start
	report.EndDate = end

	recent, err := s.clicks.Recent(ctx, link.ID, start, end)
	if err != nil {
		return nil, err
	}
	report.RecentClicks = recent

	return report, nil
}
