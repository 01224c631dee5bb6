package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/carte/internal/db"
	"github.com/alexanderramin/carte/internal/domain"
)

// SQLiteRecordRepo implements RecordRepo. The full WorkRecord is stored as a
// JSON payload; the columns beside it exist for lookup and ordering.
type SQLiteRecordRepo struct {
	db db.DBTX
}

func NewSQLiteRecordRepo(conn db.DBTX) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: conn}
}

const recordColumns = `id, owner_id, payload, created_at, updated_at`

// Create assigns r.ID and the timestamps. A duplicate workId within the
// owner's collection returns ErrConflict.
func (r *SQLiteRecordRepo) Create(ctx context.Context, rec *domain.StoredRecord) error {
	id, err := nextID()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(rec.Record)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.Record.WorkID, err)
	}

	now := nowUTC()
	query := `INSERT INTO records (id, owner_id, work_id, title, automation_score,
		monthly_saved_minutes, monthly_workload_minutes, tool_category, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		id,
		rec.OwnerID,
		rec.Record.WorkID,
		rec.Record.Title,
		rec.Record.AutomationScore,
		rec.Record.MonthlySavedMinutes,
		rec.Record.TotalWorkloadMinutesPerMonth(),
		string(rec.Record.RecommendedToolCategory),
		string(payload),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("record %s: %w", rec.Record.WorkID, ErrConflict)
		}
		return fmt.Errorf("inserting record: %w", err)
	}

	rec.ID = id
	rec.CreatedAt = parseTime(now)
	rec.UpdatedAt = rec.CreatedAt
	return nil
}

func (r *SQLiteRecordRepo) GetByWorkID(ctx context.Context, ownerID, workID string) (*domain.StoredRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE owner_id = ? AND work_id = ?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, ownerID, workID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", workID, ErrNotFound)
		}
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRecordRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.StoredRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []*domain.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecordRepo) ExistsWorkID(ctx context.Context, ownerID, workID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE owner_id = ? AND work_id = ?`, ownerID, workID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking record %s: %w", workID, err)
	}
	return n > 0, nil
}

func (r *SQLiteRecordRepo) Delete(ctx context.Context, ownerID, workID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE owner_id = ? AND work_id = ?`, ownerID, workID)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", workID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", workID, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", workID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRecordRepo) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE owner_id = ?`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("deleting records: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (*domain.StoredRecord, error) {
	var (
		rec              domain.StoredRecord
		payload          string
		created, updated string
	)
	if err := s.Scan(&rec.ID, &rec.OwnerID, &payload, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &rec.Record); err != nil {
		return nil, fmt.Errorf("decoding record %d: %w", rec.ID, err)
	}
	rec.CreatedAt = parseTime(created)
	rec.UpdatedAt = parseTime(updated)
	return &rec, nil
}
