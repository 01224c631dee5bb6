package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/carte/internal/domain"
)

type RecordService interface {
	// Save stores rec in owner's collection, replacing a colliding workId.
	Save(ctx context.Context, ownerID string, rec *domain.WorkRecord) (*domain.StoredRecord, error)
	List(ctx context.Context, ownerID string, order SortOrder) ([]*domain.StoredRecord, error)
	Get(ctx context.Context, ownerID, workID string) (*domain.StoredRecord, error)
	Delete(ctx context.Context, ownerID, workID string) error
	DeleteAll(ctx context.Context, ownerID string) (int64, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Set(ctx context.Context, p *domain.UserProfile) error
}

type ExportService interface {
	WriteCSV(w io.Writer, profile *domain.UserProfile, records []*domain.StoredRecord) error
	DefaultFileName(now time.Time) string
}
