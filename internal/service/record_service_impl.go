package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/alexanderramin/carte/internal/db"
	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/repository"
)

// SortOrder selects how List orders a collection.
type SortOrder string

const (
	SortDefault    SortOrder = "default"
	SortAutomation SortOrder = "automation"
	SortTime       SortOrder = "time"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case "":
		return SortDefault, nil
	case SortDefault, SortAutomation, SortTime:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want default, automation or time)", s)
}

const (
	workIDAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	workIDLength      = 3
	maxWorkIDAttempts = 20
)

// ErrWorkIDExhausted is returned when no free workId was found.
var ErrWorkIDExhausted = errors.New("no free work id")

type recordService struct {
	records  repository.RecordRepo
	uow      db.UnitOfWork
	newID    func() string
	observer UseCaseObserver
}

type RecordServiceOption func(*recordService)

// WithWorkIDGenerator replaces the random 3-character generator.
func WithWorkIDGenerator(fn func() string) RecordServiceOption {
	return func(s *recordService) { s.newID = fn }
}

func WithRecordObserver(obs UseCaseObserver) RecordServiceOption {
	return func(s *recordService) { s.observer = useCaseObserverOrNoop([]UseCaseObserver{obs}) }
}

func NewRecordService(records repository.RecordRepo, uow db.UnitOfWork, opts ...RecordServiceOption) RecordService {
	s := &recordService{
		records:  records,
		uow:      uow,
		newID:    randomWorkID,
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomWorkID() string {
	b := make([]byte, workIDLength)
	for i := range b {
		b[i] = workIDAlphabet[rand.IntN(len(workIDAlphabet))]
	}
	return string(b)
}

func (s *recordService) Save(ctx context.Context, ownerID string, rec *domain.WorkRecord) (stored *domain.StoredRecord, err error) {
	fields := map[string]any{"owner": ownerID, "work_id": rec.WorkID}
	defer observe(ctx, s.observer, "save-record", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRecords := repository.NewSQLiteRecordRepo(tx)

		id := rec.WorkID
		for attempt := 0; ; attempt++ {
			if id != "" {
				taken, err := txRecords.ExistsWorkID(ctx, ownerID, id)
				if err != nil {
					return err
				}
				if !taken {
					break
				}
			}
			if attempt == maxWorkIDAttempts {
				return fmt.Errorf("saving record %s: %w", rec.WorkID, ErrWorkIDExhausted)
			}
			id = s.newID()
		}
		if id != rec.WorkID {
			fields["reassigned_to"] = id
		}
		draft := *rec
		draft.CurrentBottlenecks = slices.Clone(rec.CurrentBottlenecks)
		draft.AsIsSteps = slices.Clone(rec.AsIsSteps)
		draft.ToBeSteps = slices.Clone(rec.ToBeSteps)
		draft.SetWorkID(id)

		stored = &domain.StoredRecord{OwnerID: ownerID, Record: draft}
		return txRecords.Create(ctx, stored)
	})
	if err != nil {
		return nil, err
	}
	// The caller only sees a reassigned workId once it is committed.
	rec.SetWorkID(stored.Record.WorkID)
	return stored, nil
}

func (s *recordService) List(ctx context.Context, ownerID string, order SortOrder) ([]*domain.StoredRecord, error) {
	list, err := s.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	SortRecords(list, order)
	return list, nil
}

// SortRecords orders list in place. Ties keep insertion order.
func SortRecords(list []*domain.StoredRecord, order SortOrder) {
	switch order {
	case SortAutomation:
		slices.SortStableFunc(list, func(a, b *domain.StoredRecord) int {
			return b.Record.AutomationScore - a.Record.AutomationScore
		})
	case SortTime:
		slices.SortStableFunc(list, func(a, b *domain.StoredRecord) int {
			return b.Record.MonthlySavedMinutes - a.Record.MonthlySavedMinutes
		})
	}
}

func (s *recordService) Get(ctx context.Context, ownerID, workID string) (*domain.StoredRecord, error) {
	return s.records.GetByWorkID(ctx, ownerID, workID)
}

func (s *recordService) Delete(ctx context.Context, ownerID, workID string) (err error) {
	defer observe(ctx, s.observer, "delete-record", map[string]any{"owner": ownerID, "work_id": workID})(&err)
	return s.records.Delete(ctx, ownerID, workID)
}

func (s *recordService) DeleteAll(ctx context.Context, ownerID string) (n int64, err error) {
	fields := map[string]any{"owner": ownerID}
	defer observe(ctx, s.observer, "delete-all-records", fields)(&err)
	n, err = s.records.DeleteAllByOwner(ctx, ownerID)
	fields["deleted"] = n
	return n, err
}
