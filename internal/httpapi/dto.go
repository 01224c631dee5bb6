package httpapi

import (
	"time"

	"github.com/alexanderramin/carte/internal/domain"
)

type RecordResponse struct {
	ID                           int64             `json:"id,string"`
	OwnerID                      string            `json:"ownerId"`
	Priority                     domain.Priority   `json:"priority"`
	TotalWorkloadMinutesPerMonth int               `json:"totalWorkloadMinutesPerMonth"`
	CreatedAt                    time.Time         `json:"createdAt"`
	UpdatedAt                    time.Time         `json:"updatedAt"`
	Carte                        domain.WorkRecord `json:"carte"`
}

func toRecordResponse(sr *domain.StoredRecord) RecordResponse {
	return RecordResponse{
		ID:                           sr.ID,
		OwnerID:                      sr.OwnerID,
		Priority:                     sr.Record.Priority(),
		TotalWorkloadMinutesPerMonth: sr.Record.TotalWorkloadMinutesPerMonth(),
		CreatedAt:                    sr.CreatedAt,
		UpdatedAt:                    sr.UpdatedAt,
		Carte:                        sr.Record,
	}
}

type ListRecordsResponse struct {
	Records []RecordResponse `json:"records"`
	Count   int              `json:"count"`
}
