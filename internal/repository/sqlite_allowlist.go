package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/carte/internal/db"
)

// SQLiteAllowlistRepo stores individually allowed email addresses.
// Emails are compared lowercased.
type SQLiteAllowlistRepo struct {
	db db.DBTX
}

func NewSQLiteAllowlistRepo(conn db.DBTX) *SQLiteAllowlistRepo {
	return &SQLiteAllowlistRepo{db: conn}
}

func (r *SQLiteAllowlistRepo) Add(ctx context.Context, email, note string) error {
	query := `INSERT INTO allowlist (email, note, created_at) VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET note = excluded.note`
	if _, err := r.db.ExecContext(ctx, query, normalizeEmail(email), note, nowUTC()); err != nil {
		return fmt.Errorf("adding allowlist entry: %w", err)
	}
	return nil
}

func (r *SQLiteAllowlistRepo) Remove(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM allowlist WHERE email = ?`, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("removing allowlist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing allowlist entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("allowlist entry %s: %w", email, ErrNotFound)
	}
	return nil
}

func (r *SQLiteAllowlistRepo) Contains(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM allowlist WHERE email = ?`, normalizeEmail(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking allowlist: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteAllowlistRepo) List(ctx context.Context) ([]AllowlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email, note, created_at FROM allowlist ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("listing allowlist: %w", err)
	}
	defer rows.Close()

	var entries []AllowlistEntry
	for rows.Next() {
		var e AllowlistEntry
		if err := rows.Scan(&e.Email, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning allowlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
