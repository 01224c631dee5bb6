package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/carte/internal/db"
	"github.com/alexanderramin/carte/internal/domain"
)

// SQLiteProfileRepo implements ProfileRepo using a SQLite database.
type SQLiteProfileRepo struct {
	db db.DBTX
}

// NewSQLiteProfileRepo creates a new SQLiteProfileRepo.
func NewSQLiteProfileRepo(conn db.DBTX) *SQLiteProfileRepo {
	return &SQLiteProfileRepo{db: conn}
}

func (r *SQLiteProfileRepo) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `SELECT user_id, full_name, department, email, created_at, updated_at
		FROM user_profiles WHERE user_id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)

	var (
		p                domain.UserProfile
		created, updated string
	)
	err := row.Scan(&p.UserID, &p.FullName, &p.Department, &p.Email, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user profile %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

// Upsert keeps the original created_at when the profile already exists.
func (r *SQLiteProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	now := nowUTC()
	query := `INSERT INTO user_profiles (user_id, full_name, department, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			full_name = excluded.full_name,
			department = excluded.department,
			email = excluded.email,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, p.UserID, p.FullName, p.Department, p.Email, now, now)
	if err != nil {
		return fmt.Errorf("upserting user profile: %w", err)
	}
	return nil
}
