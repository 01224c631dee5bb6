package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/carte/internal/domain"
)

var testWorkIDCounter atomic.Int64

type RecordOption func(*domain.WorkRecord)

func WithWorkID(id string) RecordOption {
	return func(r *domain.WorkRecord) {
		r.SetWorkID(id)
	}
}

func WithScore(score int) RecordOption {
	return func(r *domain.WorkRecord) {
		r.AutomationScore = score
	}
}

func WithSavedMinutes(m int) RecordOption {
	return func(r *domain.WorkRecord) {
		r.MonthlySavedMinutes = m
	}
}

func WithToolCategory(c domain.ToolCategory) RecordOption {
	return func(r *domain.WorkRecord) {
		r.RecommendedToolCategory = c
	}
}

// WithVolume sets minutes per run and runs per month.
func WithVolume(totalMinutes, monthlyCount int) RecordOption {
	return func(r *domain.WorkRecord) {
		r.TotalMinutes = totalMinutes
		r.MonthlyCount = monthlyCount
	}
}

func WithPeople(n int) RecordOption {
	return func(r *domain.WorkRecord) {
		r.NumberOfPeople = &n
	}
}

// NewTestRecord builds a complete two-step record. Work IDs are unique per
// test binary unless WithWorkID overrides them.
func NewTestRecord(title string, opts ...RecordOption) *domain.WorkRecord {
	id := fmt.Sprintf("T%02d", testWorkIDCounter.Add(1)%100)
	r := &domain.WorkRecord{
		Title:              title,
		Category:           "経理",
		Frequency:          "週次",
		MonthlyCount:       4,
		TotalMinutes:       120,
		NumSteps:           2,
		PrimaryTool:        "Excel",
		CurrentBottlenecks: []string{"転記ミス", "集計に時間がかかる"},
		PrimaryData:        "売上データ",
		DataFormat:         "xlsx",
		DataState:          "整備済み",
		DataStorage:        "共有ドライブ",
		APIIntegration:     "なし",
		AsIsSummary:        "Excelで集計しPowerPointに貼り付ける",
		AsIsSteps: []domain.AsIsStep{
			{StepNo: 1, AsIsStepName: "データ集計", ToolUsed: "Excel", Minutes: 90},
			{StepNo: 2, AsIsStepName: "資料作成", ToolUsed: "PowerPoint", Minutes: 30},
		},
		AutomationScore:          70,
		AutomationScoreRationale: "定型作業のため",
		HumanDependency:          domain.DependencyLow,
		HumanDependencyRationale: "手順が明確",
		RecommendedSolution:      "GASで集計を自動化",
		RecommendedToolCategory:  domain.ToolGAS,
		ToBeSummary:              "集計とスライド作成を自動化",
		ToBeSteps: []domain.ToBeStep{
			{StepNo: 1, ToBeStepName: "自動集計", ExecutorType: domain.ExecutorAutomated, ToolUsed: "GAS", Minutes: 5},
			{StepNo: 2, ToBeStepName: "内容確認", ExecutorType: domain.ExecutorManual, ToolUsed: "PowerPoint", Minutes: 15},
		},
		ImprovementImpact:   "月400分の削減",
		MonthlySavedMinutes: 400,
		SavedMinuteDetails:  "(120分 - 20分) × 月4回 = 400分",
		AdvancedProposal:    domain.AdvancedProposal{Title: "BI連携", Description: "ダッシュボード化する"},
	}
	r.SetWorkID(id)
	for _, opt := range opts {
		opt(r)
	}
	return r
}
