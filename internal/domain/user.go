package domain

import "time"

// UserStats is the denormalized per-owner rollup. Both counters are
// maintained with atomic increments inside the same transactions as the
// link/click mutations that change them.
type UserStats struct {
	UserID      int64     `json:"user_id"`
	TotalLinks  int64     `json:"total_links"`
	TotalClicks int64     `json:"total_clicks"`
	UpdatedAt   time.Time `json:"updated_at"`
}
