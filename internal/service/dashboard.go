package service

import (
	"math"
	"slices"

	"github.com/alexanderramin/carte/internal/domain"
)

// savingsScoreThreshold is the lowest automation score counted toward
// savings potential (priorities A and B).
const savingsScoreThreshold = 60

type PriorityCount struct {
	Priority domain.Priority `json:"priority"`
	Count    int             `json:"count"`
}

type CategoryCount struct {
	Category domain.ToolCategory `json:"category"`
	Label    string              `json:"label"`
	Count    int                 `json:"count"`
}

// DashboardSummary holds the KPIs of one collection. Hours are rounded to
// one decimal.
type DashboardSummary struct {
	RecordCount           int             `json:"recordCount"`
	MonthlyWorkloadHours  float64         `json:"monthlyWorkloadHours"`
	SavingsPotentialHours float64         `json:"savingsPotentialHours"`
	Priorities            []PriorityCount `json:"priorities"`
	Categories            []CategoryCount `json:"categories"`
}

// Summarize aggregates records. Workload is totalMinutes × monthlyCount;
// categories are sorted by count, ties in display order.
func Summarize(records []*domain.StoredRecord) DashboardSummary {
	var (
		workloadMin, savingsMin int
		byPriority              = map[domain.Priority]int{}
		byCategory              = map[domain.ToolCategory]int{}
	)
	for _, sr := range records {
		r := &sr.Record
		workloadMin += r.TotalMinutes * r.MonthlyCount
		if r.AutomationScore >= savingsScoreThreshold {
			savingsMin += r.MonthlySavedMinutes
		}
		byPriority[r.Priority()]++
		cat := r.RecommendedToolCategory
		if !cat.Valid() {
			cat = domain.ToolOther
		}
		byCategory[cat]++
	}

	s := DashboardSummary{
		RecordCount:           len(records),
		MonthlyWorkloadHours:  minutesToHours(workloadMin),
		SavingsPotentialHours: minutesToHours(savingsMin),
		Priorities:            make([]PriorityCount, 0, len(domain.Priorities)),
		Categories:            []CategoryCount{},
	}
	for _, p := range domain.Priorities {
		s.Priorities = append(s.Priorities, PriorityCount{Priority: p, Count: byPriority[p]})
	}
	for _, c := range domain.ToolCategories {
		if n := byCategory[c]; n > 0 {
			s.Categories = append(s.Categories, CategoryCount{Category: c, Label: c.Label(), Count: n})
		}
	}
	slices.SortStableFunc(s.Categories, func(a, b CategoryCount) int { return b.Count - a.Count })
	return s
}

func minutesToHours(m int) float64 {
	return math.Round(float64(m)/60*10) / 10
}
