package postgres

import (
	"context"
	"errors"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStatsRepository maintains the denormalized per-owner counters.
// Link-count changes ride inside the link transactions; click bumps
// come from the recorder and use the same upsert-increment shape.
type UserStatsRepository struct {
	db *pgxpool.Pool
}

func NewUserStatsRepository(db *pgxpool.Pool) *UserStatsRepository {
	return &UserStatsRepository{db: db}
}

func (r *UserStatsRepository) IncrementClicks(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_stats (user_id, total_clicks)
		VALUES ($1, 1)
		ON CONFLICT (user_id)
		DO UPDATE SET total_clicks = user_stats.total_clicks + 1, updated_at = NOW()
	`, userID)
	return err
}

func (r *UserStatsRepository) Get(ctx context.Context, userID int64) (*domain.UserStats, error) {
	var stats domain.UserStats
	err := r.db.QueryRow(ctx, `
		SELECT user_id, total_links, total_clicks, updated_at
		FROM user_stats
		WHERE user_id = $1
	`, userID).Scan(&stats.UserID, &stats.TotalLinks, &stats.TotalClicks, &stats.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
