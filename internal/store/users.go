package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/suprmushrooms/storefront/internal/database"
	"github.com/suprmushrooms/storefront/internal/models"
)

func CreateUser(ctx context.Context, db *sql.DB, email, name string) (*models.User, error) {
	user := &models.User{}

	query := `
		INSERT INTO users (id, email, name, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, email, name, created_at`

	err := db.QueryRowContext(ctx, query, uuid.New(), strings.ToLower(email), name).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func GetUser(ctx context.Context, db *sql.DB, id uuid.UUID) (*models.User, error) {
	user := &models.User{}

	query := `
		SELECT id, email, name, created_at
		FROM users
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// GetUserEmail resolves the confirmation address for an account order.
func GetUserEmail(ctx context.Context, db *sql.DB, id uuid.UUID) (string, error) {
	var email string

	err := db.QueryRowContext(ctx, `SELECT email FROM users WHERE id = $1`, id).Scan(&email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", database.ErrUserNotFound
		}
		return "", fmt.Errorf("get user email: %w", err)
	}

	return email, nil
}
