//go:build integration
// +build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/gamassss/shortlink/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLink(t *testing.T, repo *postgres.LinkRepository, code string) *domain.Link {
	t.Helper()
	link := &domain.Link{ShortCode: code, Destination: "https://example.com"}
	require.NoError(t, repo.Create(context.Background(), link))
	return link
}

func TestClickRepository_Insert(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	linkRepo := postgres.NewLinkRepository(db)
	clickRepo := postgres.NewClickRepository(db)
	ctx := context.Background()

	link := seedLink(t, linkRepo, "ins123")

	click := &domain.Click{
		LinkID:     link.ID,
		IPAddress:  "203.0.113.9",
		UserAgent:  "test-agent",
		Country:    "Germany",
		Browser:    "Chrome",
		OS:         "Windows",
		DeviceType: "desktop",
	}
	err := clickRepo.Insert(ctx, click)

	require.NoError(t, err)
	assert.NotZero(t, click.ID)
	assert.NotZero(t, click.ClickedAt)
}

func TestClickRepository_Aggregate_SinglePass(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	linkRepo := postgres.NewLinkRepository(db)
	clickRepo := postgres.NewClickRepository(db)
	ctx := context.Background()

	link := seedLink(t, linkRepo, "agg123")

	// 7 US, 3 DE, 1 without a country. Two distinct IPs for the US
	// clicks, one each for the rest.
	seed := []struct {
		country string
		ip      string
		browser string
		device  string
	}{
		{"United States", "198.51.100.1", "Chrome", "desktop"},
		{"United States", "198.51.100.1", "Chrome", "desktop"},
		{"United States", "198.51.100.1", "Chrome", "mobile"},
		{"United States", "198.51.100.2", "Firefox", "desktop"},
		{"United States", "198.51.100.2", "Firefox", "desktop"},
		{"United States", "198.51.100.2", "Safari", "mobile"},
		{"United States", "198.51.100.2", "Safari", "desktop"},
		{"Germany", "203.0.113.9", "Chrome", "desktop"},
		{"Germany", "203.0.113.9", "Chrome", "desktop"},
		{"Germany", "203.0.113.9", "Edge", "desktop"},
		{"", "192.0.2.5", "", "desktop"},
	}
	for _, s := range seed {
		require.NoError(t, clickRepo.Insert(ctx, &domain.Click{
			LinkID:     link.ID,
			IPAddress:  s.ip,
			Country:    s.country,
			Browser:    s.browser,
			DeviceType: s.device,
		}))
	}

	start := time.Now().Add(-1 * time.Hour)
	end := time.Now().Add(1 * time.Hour)
	report, err := clickRepo.Aggregate(ctx, link.ID, start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(11), report.Summary.TotalClicks)
	assert.Equal(t, int64(4), report.Summary.UniqueVisitors)

	require.Len(t, report.ClicksByCountry, 3)
	assert.Equal(t, domain.DimenCount{Name: "United States", Count: 7}, report.ClicksByCountry[0])
	assert.Equal(t, domain.DimenCount{Name: "Germany", Count: 3}, report.ClicksByCountry[1])
	assert.Equal(t, domain.DimenCount{Name: "Unknown", Count: 1}, report.ClicksByCountry[2])

	require.NotEmpty(t, report.ClicksByBrowser)
	assert.Equal(t, "Chrome", report.ClicksByBrowser[0].Name)
	assert.Equal(t, int64(5), report.ClicksByBrowser[0].Count)

	require.Len(t, report.ClicksByDevice, 2)
	assert.Equal(t, domain.DimenCount{Name: "desktop", Count: 9}, report.ClicksByDevice[0])
	assert.Equal(t, domain.DimenCount{Name: "mobile", Count: 2}, report.ClicksByDevice[1])

	require.Len(t, report.ClicksByDate, 1)
	assert.Equal(t, int64(11), report.ClicksByDate[0].Count)
}

func TestClickRepository_Aggregate_WindowFilters(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	linkRepo := postgres.NewLinkRepository(db)
	clickRepo := postgres.NewClickRepository(db)
	ctx := context.Background()

	link := seedLink(t, linkRepo, "win123")

	require.NoError(t, clickRepo.Insert(ctx, &domain.Click{
		LinkID: link.ID, IPAddress: "203.0.113.9", DeviceType: "desktop",
	}))

	// Window entirely in the past sees nothing.
	start := time.Now().Add(-48 * time.Hour)
	end := time.Now().Add(-24 * time.Hour)
	report, err := clickRepo.Aggregate(ctx, link.ID, start, end)

	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Summary.TotalClicks)
	assert.Empty(t, report.ClicksByCountry)
}

func TestClickRepository_Recent_OrderAndCap(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	linkRepo := postgres.NewLinkRepository(db)
	clickRepo := postgres.NewClickRepository(db)
	ctx := context.Background()

	link := seedLink(t, linkRepo, "rec123")

	for i := 0; i < 60; i++ {
		require.NoError(t, clickRepo.Insert(ctx, &domain.Click{
			LinkID:     link.ID,
			IPAddress:  fmt.Sprintf("198.51.100.%d", i%250),
			DeviceType: "desktop",
		}))
	}

	start := time.Now().Add(-1 * time.Hour)
	end := time.Now().Add(1 * time.Hour)
	clicks, err := clickRepo.Recent(ctx, link.ID, start, end)

	require.NoError(t, err)
	assert.Len(t, clicks, 50)
	for i := 1; i < len(clicks); i++ {
		assert.False(t, clicks[i].ClickedAt.After(clicks[i-1].ClickedAt),
			"recent clicks should be ordered newest first")
	}
}
