package domain

import "time"

type AnalyticsReport struct {
	ShortCode       string       `json:"short_code"`
	Destination     string       `json:"destination"`
	StartDate       time.Time    `json:"start_date"`
	EndDate         time.Time    `json:"end_date"`
	Summary         ClickSummary `json:"summary"`
	ClicksByDate    []DateCount  `json:"clicks_by_date"`
	ClicksByCountry []DimenCount `json:"clicks_by_country"`
	ClicksByBrowser []DimenCount `json:"clicks_by_browser"`
	ClicksByOS      []DimenCount `json:"clicks_by_os"`
	ClicksByDevice  []DimenCount `json:"clicks_by_device"`
	RecentClicks    []Click      `json:"recent_clicks"`
}

type ClickSummary struct {
	TotalClicks    int64 `json:"total_clicks"`
	UniqueVisitors int64 `json:"unique_visitors"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DimenCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// AnalyticsQuery resolves the report window. Explicit Start/End take
// priority; otherwise Period names a window ending at now.
type AnalyticsQuery struct {
	Start  *time.Time
	End    *time.Time
	Period string
}

const DefaultPeriod = "7d"

var periodDurations = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

func (q AnalyticsQuery) Window(now time.Time) (time.Time, time.Time) {
	if q.Start != nil && q.End != nil {
		return *q.Start, *q.End
	}

	d, ok := periodDurations[q.Period]
	if !ok {
		d = periodDurations[DefaultPeriod]
	}

	return now.Add(-d), now
}
