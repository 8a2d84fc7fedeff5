package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStorage writes events to the audit_events table.
type PGStorage struct {
	pool *pgxpool.Pool
}

var _ Storage = (*PGStorage)(nil)

func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

const columns = `id, account_id, user_id, actor, action, resource, resource_id, result, error, request_id, metadata, created_at`

func (s *PGStorage) Store(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(`INSERT INTO audit_events (`+columns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			e.ID, e.AccountID, e.UserID, e.Actor, e.Action, e.Resource, e.ResourceID,
			e.Result, e.Error, e.RequestID, e.Metadata, e.CreatedAt)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageNotAvailable, err)
	}
	return nil
}

func (s *PGStorage) Query(ctx context.Context, c Criteria) ([]Event, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if c.AccountID != "" {
		add("account_id = $%d", c.AccountID)
	}
	if c.Action != "" {
		add("action = $%d", c.Action)
	}
	if c.Resource != "" {
		add("resource = $%d", c.Resource)
	}
	if !c.Since.IsZero() {
		add("created_at >= $%d", c.Since)
	}

	query := `SELECT ` + columns + ` FROM audit_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if c.Limit > 0 {
		args = append(args, c.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if c.Offset > 0 {
		args = append(args, c.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Event, error) {
		var e Event
		err := row.Scan(&e.ID, &e.AccountID, &e.UserID, &e.Actor, &e.Action, &e.Resource, &e.ResourceID,
			&e.Result, &e.Error, &e.RequestID, &e.Metadata, &e.CreatedAt)
		return e, err
	})
}
