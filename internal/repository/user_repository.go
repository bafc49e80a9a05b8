package repository

import (
	"context"
	"errors"

	"jobtrack/internal/database"
	"jobtrack/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

type UserFlagsUpdate struct {
	IsAdmin  *bool
	IsActive *bool
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
	UpdateLogin(ctx context.Context, u user.User) (user.User, error)
	List(ctx context.Context, skip, limit int) ([]user.User, error)
	SetFlags(ctx context.Context, id uuid.UUID, f UserFlagsUpdate) (user.User, error)

	IncrementApplied(ctx context.Context, q database.Queryer, id uuid.UUID) error
	IncrementRejected(ctx context.Context, q database.Queryer, id uuid.UUID) error
	IncrementSuccess(ctx context.Context, q database.Queryer, id uuid.UUID) error
}

const userColumns = `id, email, COALESCE(name, ''), COALESCE(avatar_url, ''), provider, provider_id,
	is_admin, is_active, total_applied, total_rejected, total_success, created_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name, avatar_url, provider, provider_id, is_admin, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		u.Email, nullableText(u.Name), nullableText(u.AvatarURL), u.Provider, u.ProviderID, u.IsAdmin, u.IsActive,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) UpdateLogin(ctx context.Context, u user.User) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users
		 SET name = $2, avatar_url = $3, provider = $4, provider_id = $5, is_admin = $6
		 WHERE id = $1
		 RETURNING `+userColumns,
		u.ID, nullableText(u.Name), nullableText(u.AvatarURL), u.Provider, u.ProviderID, u.IsAdmin,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) List(ctx context.Context, skip, limit int) ([]user.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUserFromRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) SetFlags(ctx context.Context, id uuid.UUID, f UserFlagsUpdate) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users
		 SET is_admin = COALESCE($2, is_admin), is_active = COALESCE($3, is_active)
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, f.IsAdmin, f.IsActive,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) IncrementApplied(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	return incrementCounter(ctx, q, `total_applied`, id)
}

func (r *PostgresUserRepository) IncrementRejected(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	return incrementCounter(ctx, q, `total_rejected`, id)
}

func (r *PostgresUserRepository) IncrementSuccess(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	return incrementCounter(ctx, q, `total_success`, id)
}

func incrementCounter(ctx context.Context, q database.Queryer, column string, id uuid.UUID) error {
	var query string
	switch column {
	case "total_applied":
		query = `UPDATE users SET total_applied = total_applied + 1 WHERE id = $1`
	case "total_rejected":
		query = `UPDATE users SET total_rejected = total_rejected + 1 WHERE id = $1`
	case "total_success":
		query = `UPDATE users SET total_success = total_success + 1 WHERE id = $1`
	default:
		return errors.New("unknown counter column")
	}

	n, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Provider, &u.ProviderID,
		&u.IsAdmin, &u.IsActive, &u.TotalApplied, &u.TotalRejected, &u.TotalSuccess, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func scanUserFromRows(rows database.Rows) (user.User, error) {
	var u user.User
	err := rows.Scan(
		&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Provider, &u.ProviderID,
		&u.IsAdmin, &u.IsActive, &u.TotalApplied, &u.TotalRejected, &u.TotalSuccess, &u.CreatedAt,
	)
	return u, err
}

var _ UserRepository = (*PostgresUserRepository)(nil)
