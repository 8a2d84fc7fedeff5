package link

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/pg"
	"github.com/pawa80/utm-link-crafter-sub002/svc/campaign"
)

type PGStorage struct {
	pool *pgxpool.Pool
}

var _ Storage = (*PGStorage)(nil)

func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

const columns = `id, account_id, campaign_id, label, target_url, domain,
	utm_campaign, utm_source, utm_medium, utm_content, utm_term,
	utm_custom1, utm_custom2, utm_custom3, full_url, created_by, created_at`

func scan(row pgx.Row) (*Link, error) {
	var l Link
	err := row.Scan(&l.ID, &l.AccountID, &l.CampaignID, &l.Label, &l.TargetURL, &l.Domain,
		&l.Params.Campaign, &l.Params.Source, &l.Params.Medium, &l.Params.Content, &l.Params.Term,
		&l.Params.Custom1, &l.Params.Custom2, &l.Params.Custom3, &l.FullURL, &l.CreatedBy, &l.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	l.Params.TargetURL = l.TargetURL
	return &l, nil
}

func (s *PGStorage) Create(ctx context.Context, l *Link) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO links (`+columns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		l.ID, l.AccountID, l.CampaignID, l.Label, l.TargetURL, l.Domain,
		l.Params.Campaign, l.Params.Source, l.Params.Medium, l.Params.Content, l.Params.Term,
		l.Params.Custom1, l.Params.Custom2, l.Params.Custom3, l.FullURL, l.CreatedBy, l.CreatedAt)
	if pg.IsForeignKeyViolationError(err) {
		return campaign.ErrCampaignNotFound
	}
	return err
}

func (s *PGStorage) Get(ctx context.Context, accountID, id uuid.UUID) (*Link, error) {
	return scan(s.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM links WHERE account_id = $1 AND id = $2`, accountID, id))
}

func (s *PGStorage) ListByCampaign(ctx context.Context, accountID, campaignID uuid.UUID, filter ListFilter) ([]Link, error) {
	query := `SELECT ` + columns + ` FROM links WHERE account_id = $1 AND campaign_id = $2 ORDER BY created_at DESC`
	args := []any{accountID, campaignID}
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
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Link, error) {
		l, err := scan(row)
		if err != nil {
			return Link{}, err
		}
		return *l, nil
	})
}

func (s *PGStorage) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM links WHERE account_id = $1 AND id = $2`, accountID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (s *PGStorage) Count(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM links WHERE account_id = $1`, accountID).Scan(&n)
	return n, err
}
