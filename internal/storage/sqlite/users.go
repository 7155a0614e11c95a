package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GustavoCaso/spadesk/internal/storage"
)

func (s *sqliteStorage) CreateUser(ctx context.Context, username, passwordHash string) (storage.User, error) {
	createdAt := time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, createdAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	return storage.NewUser(userID, username, passwordHash, createdAt), nil
}

func (s *sqliteStorage) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?
	`, username)

	var id int64
	var uname string
	var passwordHash string
	var createdAt int64

	err := row.Scan(&id, &uname, &passwordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return storage.NewUser(id, uname, passwordHash, time.Unix(createdAt, 0)), nil
}
