package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/pg"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
)

// PGStorage is the Postgres Storage.
type PGStorage struct {
	pool *pgxpool.Pool
}

var _ Storage = (*PGStorage)(nil)

func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

const accountColumns = `id, slug, name, plan_id, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*tenant.Account, error) {
	var a tenant.Account
	if err := row.Scan(&a.ID, &a.Slug, &a.Name, &a.PlanID, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *PGStorage) GetAccount(ctx context.Context, id uuid.UUID) (*tenant.Account, error) {
	return scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (s *PGStorage) GetAccountBySlug(ctx context.Context, slug string) (*tenant.Account, error) {
	return scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE slug = $1`, slug))
}

func (s *PGStorage) ListAccounts(ctx context.Context, filter ListFilter) ([]tenant.Account, error) {
	var (
		where []string
		args  []any
	)
	if filter.PlanID != "" {
		args = append(args, filter.PlanID)
		where = append(where, fmt.Sprintf("plan_id = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
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
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (tenant.Account, error) {
		a, err := scanAccount(row)
		if err != nil {
			return tenant.Account{}, err
		}
		return *a, nil
	})
}

func (s *PGStorage) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (s *PGStorage) CreateAccount(ctx context.Context, a *tenant.Account, owner *Member) error {
	return pg.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO accounts (id, slug, name, plan_id, active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, a.Slug, a.Name, a.PlanID, a.Active, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			if pg.IsDuplicateKeyError(err) {
				return ErrSlugTaken
			}
			return err
		}
		return insertMember(ctx, tx, owner)
	})
}

func (s *PGStorage) UpdateAccount(ctx context.Context, a *tenant.Account) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET name = $2, plan_id = $3, active = $4, updated_at = $5 WHERE id = $1`,
		a.ID, a.Name, a.PlanID, a.Active, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrAccountNotFound
	}
	return nil
}

const memberColumns = `account_id, user_id, email, role, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	if err := row.Scan(&m.AccountID, &m.UserID, &m.Email, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *PGStorage) GetMember(ctx context.Context, accountID, userID uuid.UUID) (*Member, error) {
	return scanMember(s.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE account_id = $1 AND user_id = $2`, accountID, userID))
}

func (s *PGStorage) ListMembers(ctx context.Context, accountID uuid.UUID) ([]Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+memberColumns+` FROM members WHERE account_id = $1 ORDER BY created_at`, accountID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Member, error) {
		m, err := scanMember(row)
		if err != nil {
			return Member{}, err
		}
		return *m, nil
	})
}

func insertMember(ctx context.Context, db pg.DBTX, m *Member) error {
	_, err := db.Exec(ctx,
		`INSERT INTO members (account_id, user_id, email, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.AccountID, m.UserID, m.Email, m.Role, m.CreatedAt, m.UpdatedAt)
	switch {
	case pg.IsDuplicateKeyError(err):
		return ErrMemberExists
	case pg.IsForeignKeyViolationError(err):
		return tenant.ErrAccountNotFound
	}
	return err
}

func (s *PGStorage) CreateMember(ctx context.Context, m *Member) error {
	return insertMember(ctx, s.pool, m)
}

// lockOwners locks the owner rows of an account for the rest of tx and
// returns how many there are.
func lockOwners(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (int, error) {
	rows, err := tx.Query(ctx,
		`SELECT user_id FROM members WHERE account_id = $1 AND role = $2 FOR UPDATE`,
		accountID, rbac.RoleOwner)
	if err != nil {
		return 0, err
	}
	owners, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	return len(owners), err
}

// guardLastOwner fails with ErrLastOwner when userID is the only owner and
// would lose the role.
func guardLastOwner(ctx context.Context, tx pgx.Tx, accountID, userID uuid.UUID, newRole string) error {
	owners, err := lockOwners(ctx, tx, accountID)
	if err != nil {
		return err
	}
	current, err := scanMember(tx.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE account_id = $1 AND user_id = $2`, accountID, userID))
	if err != nil {
		return err
	}
	if current.Role == rbac.RoleOwner && newRole != rbac.RoleOwner && owners <= 1 {
		return ErrLastOwner
	}
	return nil
}

func (s *PGStorage) UpdateMemberRole(ctx context.Context, accountID, userID uuid.UUID, role string) error {
	return pg.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := guardLastOwner(ctx, tx, accountID, userID, role); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`UPDATE members SET role = $3, updated_at = now() WHERE account_id = $1 AND user_id = $2`,
			accountID, userID, role)
		return err
	})
}

func (s *PGStorage) DeleteMember(ctx context.Context, accountID, userID uuid.UUID) error {
	return pg.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := guardLastOwner(ctx, tx, accountID, userID, ""); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM members WHERE account_id = $1 AND user_id = $2`, accountID, userID)
		return err
	})
}

func (s *PGStorage) CountMembers(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM members WHERE account_id = $1`, accountID).Scan(&n)
	return n, err
}
