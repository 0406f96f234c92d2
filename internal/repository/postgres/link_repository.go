package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const linkColumns = `id, short_code, COALESCE(custom_alias, ''), destination, owner_id, title, description, tags,
		click_count, is_active, expires_at, last_clicked_at, created_at, updated_at`

type LinkRepository struct {
	db *pgxpool.Pool
}

func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

func scanLink(row pgx.Row) (*domain.Link, error) {
	var link domain.Link
	err := row.Scan(
		&link.ID,
		&link.ShortCode,
		&link.CustomAlias,
		&link.Destination,
		&link.OwnerID,
		&link.Title,
		&link.Description,
		&link.Tags,
		&link.ClickCount,
		&link.IsActive,
		&link.ExpiresAt,
		&link.LastClickAt,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Create inserts the link and bumps the owner's link counter in one
// transaction. The unique index on short_code is the authoritative
// collision check; callers inspect the returned error for 23505.
func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var alias *string
	if link.CustomAlias != "" {
		alias = &link.CustomAlias
	}

	tags := link.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO links (short_code, custom_alias, destination, owner_id, title, description, tags, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		link.ShortCode,
		alias,
		link.Destination,
		link.OwnerID,
		link.Title,
		link.Description,
		tags,
		link.ExpiresAt,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return err
	}
	link.IsActive = true

	if link.OwnerID != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO user_stats (user_id, total_links)
			VALUES ($1, 1)
			ON CONFLICT (user_id)
			DO UPDATE SET total_links = user_stats.total_links + 1, updated_at = NOW()
		`, *link.OwnerID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// CodeExists checks both namespaces. Aliases occupy short_code as well,
// so the OR is belt-and-braces for rows written before that convention.
func (r *LinkRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM links WHERE short_code = $1 OR custom_alias = $1)
	`, code).Scan(&exists)
	return exists, err
}

func (r *LinkRepository) GetByID(ctx context.Context, id, ownerID int64) (*domain.Link, error) {
	query := fmt.Sprintf(`SELECT %s FROM links WHERE id = $1 AND owner_id = $2`, linkColumns)

	link, err := scanLink(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return link, err
}

// FindByOwnerAndDestination backs the idempotent-create path for
// authenticated owners.
func (r *LinkRepository) FindByOwnerAndDestination(ctx context.Context, ownerID int64, destination string) (*domain.Link, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM links
		WHERE owner_id = $1 AND destination = $2
		ORDER BY created_at ASC
		LIMIT 1
	`, linkColumns)

	link, err := scanLink(r.db.QueryRow(ctx, query, ownerID, destination))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return link, err
}

// Resolve matches either namespace and only active links. Expiration is
// deliberately not filtered here: the redirect layer distinguishes 404
// from 410.
func (r *LinkRepository) Resolve(ctx context.Context, code string) (*domain.Link, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM links
		WHERE (short_code = $1 OR custom_alias = $1) AND is_active = true
	`, linkColumns)

	link, err := scanLink(r.db.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return link, err
}

var sortColumns = map[string]string{
	"created_at":  "created_at",
	"updated_at":  "updated_at",
	"click_count": "click_count",
	"title":       "title",
}

func (r *LinkRepository) List(ctx context.Context, params domain.ListLinksParams) (*domain.LinkPage, error) {
	where := `owner_id = $1`
	args := []interface{}{params.OwnerID}

	if params.Search != "" {
		where += ` AND (title ILIKE $2 OR destination ILIKE $2 OR short_code ILIKE $2)`
		args = append(args, "%"+params.Search+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM links WHERE `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	sortBy, ok := sortColumns[params.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		order = "ASC"
	}

	offset := (params.Page - 1) * params.PageSize
	args = append(args, params.PageSize, offset)

	query := fmt.Sprintf(`SELECT %s FROM links WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		linkColumns, where, sortBy, order, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))

	return &domain.LinkPage{
		Links:      links,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Update applies only the allow-listed fields the request actually
// carries. Validation of expiration being in the future happens in the
// service layer.
func (r *LinkRepository) Update(ctx context.Context, id, ownerID int64, req *domain.UpdateLinkRequest) (*domain.Link, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id, ownerID}

	add := func(expr string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if req.Title != nil {
		add("title = $%d", *req.Title)
	}
	if req.Description != nil {
		add("description = $%d", *req.Description)
	}
	if req.Tags != nil {
		add("tags = $%d", *req.Tags)
	}
	if req.IsActive != nil {
		add("is_active = $%d", *req.IsActive)
	}
	if req.ClearExpiry {
		sets = append(sets, "expires_at = NULL")
	} else if req.ExpiresAt != nil {
		add("expires_at = $%d", *req.ExpiresAt)
	}

	query := fmt.Sprintf(`
		UPDATE links SET %s
		WHERE id = $1 AND owner_id = $2
		RETURNING %s
	`, strings.Join(sets, ", "), linkColumns)

	link, err := scanLink(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return link, err
}

// Delete removes the link, its clicks and the owner aggregate delta as
// one transaction, so concurrent readers see all or nothing.
func (r *LinkRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var clickCount int64
	var linkOwner *int64
	err = tx.QueryRow(ctx, `
		SELECT click_count, owner_id FROM links
		WHERE id = $1 AND owner_id = $2
		FOR UPDATE
	`, id, ownerID).Scan(&clickCount, &linkOwner)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM clicks WHERE link_id = $1`, id); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM links WHERE id = $1`, id); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_stats
		SET total_links = GREATEST(total_links - 1, 0),
		    total_clicks = GREATEST(total_clicks - $2, 0),
		    updated_at = NOW()
		WHERE user_id = $1
	`, ownerID, clickCount)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// IncrementClickCount is the storage-level atomic bump used by the
// click recorder. No read-modify-write in process.
func (r *LinkRepository) IncrementClickCount(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE links
		SET click_count = click_count + 1, last_clicked_at = NOW()
		WHERE id = $1
	`, id)
	return err
}
