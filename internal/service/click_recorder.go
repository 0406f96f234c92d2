package service

import (
	"context"
	"sync"
	"time"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/gamassss/shortlink/internal/geo"
	"github.com/gamassss/shortlink/internal/logger"
	"github.com/gamassss/shortlink/pkg/detector"
)

// recordTimeout bounds the detached recording work. The redirect
// response never waits on it.
const recordTimeout = 10 * time.Second

type ClickStore interface {
	Insert(ctx context.Context, click *domain.Click) error
}

type OwnerStats interface {
	IncrementClicks(ctx context.Context, userID int64) error
}

// ClickRecorder enriches a redirect request and persists the click
// event plus the two counters. Everything here is best-effort: errors
// are logged and swallowed, analytics loss is preferred over redirect
// failure.
type ClickRecorder struct {
	clicks  ClickStore
	links   LinkRepository
	stats   OwnerStats
	locator geo.Locator
}

func NewClickRecorder(clicks ClickStore, links LinkRepository, stats OwnerStats, locator geo.Locator) *ClickRecorder {
	return &ClickRecorder{
		clicks:  clicks,
		links:   links,
		stats:   stats,
		locator: locator,
	}
}

// RecordAsync detaches from the request context and records in the
// background. Fire-and-forget: the caller responds immediately.
func (r *ClickRecorder) RecordAsync(link *domain.Link, req *domain.ClickRequest) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Component("click_recorder").Error("Panic while recording click", "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		r.Record(ctx, link, req)
	}()
}

// Record enriches the request and issues the three independent writes
// concurrently: the click row, the link counter and the owner counter.
func (r *ClickRecorder) Record(ctx context.Context, link *domain.Link, req *domain.ClickRequest) {
	if detector.IsBot(req.UserAgent) {
		return
	}

	log := logger.Component("click_recorder").With("link_id", link.ID, "short_code", link.ShortCode)

	ip := detector.ClientIP(req.RemoteAddr, req.XForwardedFor, req.XRealIP, req.CFConnecting)
	ua := detector.Parse(req.UserAgent)

	location, err := r.locator.Locate(ctx, ip)
	if err != nil {
		log.Warn("Geolocation lookup failed", "error", err)
	}

	click := &domain.Click{
		LinkID:      link.ID,
		UserID:      req.UserID,
		IPAddress:   ip,
		UserAgent:   req.UserAgent,
		Referer:     req.Referer,
		Country:     location.Country,
		City:        location.City,
		Browser:     ua.Browser,
		BrowserVer:  ua.BrowserVersion,
		OS:          ua.OS,
		OSVer:       ua.OSVersion,
		DeviceType:  ua.DeviceType,
		DeviceBrand: ua.DeviceBrand,
		DeviceModel: ua.DeviceModel,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.clicks.Insert(ctx, click); err != nil {
			log.Error("Failed to insert click", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.links.IncrementClickCount(ctx, link.ID); err != nil {
			log.Error("Failed to increment link click count", "error", err)
		}
	}()

	if link.OwnerID != nil {
		ownerID := *link.OwnerID
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.stats.IncrementClicks(ctx, ownerID); err != nil {
				log.Error("Failed to increment owner click total", "error", err)
			}
		}()
	}

	wg.Wait()
}
