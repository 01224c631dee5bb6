package repository

import (
	"context"

	"github.com/alexanderramin/carte/internal/domain"
)

type RecordRepo interface {
	Create(ctx context.Context, r *domain.StoredRecord) error
	GetByWorkID(ctx context.Context, ownerID, workID string) (*domain.StoredRecord, error)
	// ListByOwner returns records in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.StoredRecord, error)
	ExistsWorkID(ctx context.Context, ownerID, workID string) (bool, error)
	Delete(ctx context.Context, ownerID, workID string) error
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}

type ProfileRepo interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}

type AllowlistRepo interface {
	Add(ctx context.Context, email, note string) error
	Remove(ctx context.Context, email string) error
	Contains(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]AllowlistEntry, error)
}

type AllowlistEntry struct {
	Email     string
	Note      string
	CreatedAt string
}
