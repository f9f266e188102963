package postgres

import (
	"context"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

const userColumns = `id, username, email, password, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	now := s.now()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id`,
		u.Username, u.Email, u.PasswordHash, now,
	).Scan(&u.ID)
	if err != nil {
		return conflict(err)
	}
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userWhere(ctx, `id = $1`, id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userWhere(ctx, `email = $1`, email)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userWhere(ctx, `username = $1`, username)
}

func (s *Store) userWhere(ctx context.Context, cond string, arg any) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond+` LIMIT 1`, arg)
	return scanUser(row)
}
