package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	topDimensionLimit = 10
	recentClicksLimit = 50
)

type ClickRepository struct {
	db *pgxpool.Pool
}

func NewClickRepository(db *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{db: db}
}

func (r *ClickRepository) Insert(ctx context.Context, click *domain.Click) error {
	query := `
		INSERT INTO clicks (link_id, user_id, ip_address, user_agent, referer,
			country, city, browser, browser_version, os, os_version,
			device_type, device_brand, device_model)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, clicked_at
	`

	return r.db.QueryRow(ctx, query,
		click.LinkID,
		click.UserID,
		click.IPAddress,
		click.UserAgent,
		click.Referer,
		click.Country,
		click.City,
		click.Browser,
		click.BrowserVer,
		click.OS,
		click.OSVer,
		click.DeviceType,
		click.DeviceBrand,
		click.DeviceModel,
	).Scan(&click.ID, &click.ClickedAt)
}

// Aggregate computes the summary, the daily series and every dimension
// breakdown from a single scan of the matched window. GROUPING SETS
// lets Postgres branch one filtered pass into all six groupings instead
// of re-reading the clicks once per chart.
func (r *ClickRepository) Aggregate(ctx context.Context, linkID int64, start, end time.Time) (*domain.AnalyticsReport, error) {
	query := `
		WITH matched AS (
			SELECT
				to_char(clicked_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
				ip_address,
				COALESCE(NULLIF(country, ''), 'Unknown') AS country,
				COALESCE(NULLIF(browser, ''), 'Unknown') AS browser,
				COALESCE(NULLIF(os, ''), 'Unknown') AS os,
				COALESCE(NULLIF(device_type, ''), 'desktop') AS device_type
			FROM clicks
			WHERE link_id = $1 AND clicked_at >= $2 AND clicked_at <= $3
		)
		SELECT
			GROUPING(day, country, browser, os, device_type) AS grouping_id,
			COALESCE(day, country, browser, os, device_type, '') AS label,
			COUNT(*) AS clicks,
			COUNT(DISTINCT ip_address) AS unique_ips
		FROM matched
		GROUP BY GROUPING SETS ((), (day), (country), (browser), (os), (device_type))
	`

	rows, err := r.db.Query(ctx, query, linkID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := &domain.AnalyticsReport{}

	// GROUPING() yields one bit per listed column, most significant
	// first; a zero bit marks the column this row is grouped by.
	const (
		bitDay     = 1 << 4
		bitCountry = 1 << 3
		bitBrowser = 1 << 2
		bitOS      = 1 << 1
		bitDevice  = 1 << 0
		allBits    = bitDay | bitCountry | bitBrowser | bitOS | bitDevice
	)

	for rows.Next() {
		var groupingID int
		var label string
		var clicks, uniqueIPs int64
		if err := rows.Scan(&groupingID, &label, &clicks, &uniqueIPs); err != nil {
			return nil, err
		}

		switch {
		case groupingID == allBits:
			report.Summary = domain.ClickSummary{TotalClicks: clicks, UniqueVisitors: uniqueIPs}
		case groupingID&bitDay == 0:
			report.ClicksByDate = append(report.ClicksByDate, domain.DateCount{Date: label, Count: clicks})
		case groupingID&bitCountry == 0:
			report.ClicksByCountry = append(report.ClicksByCountry, domain.DimenCount{Name: label, Count: clicks})
		case groupingID&bitBrowser == 0:
			report.ClicksByBrowser = append(report.ClicksByBrowser, domain.DimenCount{Name: label, Count: clicks})
		case groupingID&bitOS == 0:
			report.ClicksByOS = append(report.ClicksByOS, domain.DimenCount{Name: label, Count: clicks})
		case groupingID&bitDevice == 0:
			report.ClicksByDevice = append(report.ClicksByDevice, domain.DimenCount{Name: label, Count: clicks})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(report.ClicksByDate, func(i, j int) bool {
		return report.ClicksByDate[i].Date < report.ClicksByDate[j].Date
	})
	report.ClicksByCountry = sortAndTrim(report.ClicksByCountry, topDimensionLimit)
	report.ClicksByBrowser = sortAndTrim(report.ClicksByBrowser, topDimensionLimit)
	report.ClicksByOS = sortAndTrim(report.ClicksByOS, topDimensionLimit)
	report.ClicksByDevice = sortAndTrim(report.ClicksByDevice, 0)

	return report, nil
}

// sortAndTrim orders a breakdown by count descending (name ascending on
// ties, so output is stable) and keeps the top limit entries. A zero
// limit keeps everything.
func sortAndTrim(counts []domain.DimenCount, limit int) []domain.DimenCount {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

func (r *ClickRepository) Recent(ctx context.Context, linkID int64, start, end time.Time) ([]domain.Click, error) {
	query := `
		SELECT id, link_id, user_id, ip_address, user_agent, referer,
			country, city, browser, browser_version, os, os_version,
			device_type, device_brand, device_model, clicked_at
		FROM clicks
		WHERE link_id = $1 AND clicked_at >= $2 AND clicked_at <= $3
		ORDER BY clicked_at DESC
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, query, linkID, start, end, recentClicksLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clicks []domain.Click
	for rows.Next() {
		var c domain.Click
		err := rows.Scan(
			&c.ID,
			&c.LinkID,
			&c.UserID,
			&c.IPAddress,
			&c.UserAgent,
			&c.Referer,
			&c.Country,
			&c.City,
			&c.Browser,
			&c.BrowserVer,
			&c.OS,
			&c.OSVer,
			&c.DeviceType,
			&c.DeviceBrand,
			&c.DeviceModel,
			&c.ClickedAt,
		)
		if err != nil {
			return nil, err
		}
		clicks = append(clicks, c)
	}

	return clicks, rows.Err()
}
