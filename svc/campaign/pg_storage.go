package campaign

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/pg"
)

type PGStorage struct {
	pool *pgxpool.Pool
}

var _ Storage = (*PGStorage)(nil)

func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

const columns = `id, account_id, name, slug, utm_campaign, description, status, created_by, created_at, updated_at`

func scan(row pgx.Row) (*Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.AccountID, &c.Name, &c.Slug, &c.UTMCampaign, &c.Description,
		&c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PGStorage) Create(ctx context.Context, c *Campaign) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO campaigns (`+columns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.AccountID, c.Name, c.Slug, c.UTMCampaign, c.Description,
		c.Status, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if pg.IsDuplicateKeyError(err) {
		return ErrSlugTaken
	}
	return err
}

func (s *PGStorage) Get(ctx context.Context, accountID, id uuid.UUID) (*Campaign, error) {
	return scan(s.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM campaigns WHERE account_id = $1 AND id = $2`, accountID, id))
}

func (s *PGStorage) GetBySlug(ctx context.Context, accountID uuid.UUID, slug string) (*Campaign, error) {
	return scan(s.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM campaigns WHERE account_id = $1 AND slug = $2`, accountID, slug))
}

func (s *PGStorage) List(ctx context.Context, accountID uuid.UUID, filter ListFilter) ([]Campaign, error) {
	query := `SELECT ` + columns + ` FROM campaigns WHERE account_id = $1`
	args := []any{accountID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Campaign, error) {
		c, err := scan(row)
		if err != nil {
			return Campaign{}, err
		}
		return *c, nil
	})
}

func (s *PGStorage) Update(ctx context.Context, c *Campaign) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE campaigns SET name = $3, utm_campaign = $4, description = $5, status = $6, updated_at = $7
		 WHERE account_id = $1 AND id = $2`,
		c.AccountID, c.ID, c.Name, c.UTMCampaign, c.Description, c.Status, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func (s *PGStorage) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM campaigns WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func (s *PGStorage) SlugExists(ctx context.Context, accountID uuid.UUID, slug string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM campaigns WHERE account_id = $1 AND slug = $2)`, accountID, slug).Scan(&exists)
	return exists, err
}

func (s *PGStorage) Count(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM campaigns WHERE account_id = $1`, accountID).Scan(&n)
	return n, err
}
