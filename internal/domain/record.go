package domain

import (
	"fmt"
	"time"
)

// WorkRecord is the synthesized analysis of one business workflow
// (a "carte"). Field names follow the generation schema exactly.
type WorkRecord struct {
	WorkID                   string           `json:"workId" jsonschema:"required"`
	Title                    string           `json:"title" jsonschema:"required"`
	Category                 string           `json:"category"`
	Frequency                string           `json:"frequency"`
	MonthlyCount             int              `json:"monthlyCount"`
	TotalMinutes             int              `json:"totalMinutes" jsonschema_description:"該当業務を1回やるのにかかる総時間（分）。asIsSteps の minutes 合計と整合させること。"`
	NumSteps                 int              `json:"numSteps"`
	PrimaryTool              string           `json:"primaryTool"`
	CurrentBottlenecks       []string         `json:"currentBottlenecks" jsonschema_description:"現状の業務における課題や手間がかかる点"`
	PrimaryData              string           `json:"primaryData"`
	DataFormat               string           `json:"dataFormat"`
	DataState                string           `json:"dataState"`
	DataStorage              string           `json:"dataStorage"`
	APIIntegration           string           `json:"apiIntegration"`
	AsIsSummary              string           `json:"asIsSummary"`
	AsIsSteps                []AsIsStep       `json:"asIsSteps"`
	AutomationScore          int              `json:"automationScore" jsonschema:"required" jsonschema_description:"0から100の間の数値"`
	AutomationScoreRationale string           `json:"automationScoreRationale" jsonschema_description:"自動化可能度評価の根拠を単文で記述"`
	HumanDependency          HumanDependency  `json:"humanDependency" jsonschema:"enum=high,enum=medium,enum=low" jsonschema_description:"属人性（high/medium/low のいずれか）"`
	HumanDependencyRationale string           `json:"humanDependencyRationale" jsonschema_description:"属人性評価の根拠を単文で記述"`
	Notes                    string           `json:"notes"`
	RecommendedSolution      string           `json:"recommendedSolution" jsonschema_description:"提案する具体的な解決策やアプローチ"`
	RecommendedToolCategory  ToolCategory     `json:"recommendedToolCategory" jsonschema:"required,enum=aiChat,enum=noCodeTool,enum=customAiChat,enum=gas,enum=systemDevelopment,enum=other" jsonschema_description:"指定の列挙値のみを使用（aiChat/noCodeTool/customAiChat/gas/systemDevelopment/other）"`
	ToBeSummary              string           `json:"toBeSummary" jsonschema_description:"改善後の理想的な業務フローの要約"`
	ToBeSteps                []ToBeStep       `json:"toBeSteps"`
	ImprovementImpact        string           `json:"improvementImpact" jsonschema_description:"改善によってもたらされるビジネス上のインパクトや利点の要約。重要な数値や結果は必要に応じて強調"`
	MonthlySavedMinutes      int              `json:"monthlySavedMinutes" jsonschema_description:"改善によって削減が見込まれる月間合計時間（分）"`
	SavedMinuteDetails       string           `json:"savedMinuteDetails" jsonschema_description:"削減時間の計算根拠を示す文字列。例: (改善前60分 - 改善後10分) × 月10回 = 500分"`
	AdvancedProposal         AdvancedProposal `json:"advancedProposal"`

	// Not requested from the model; filled in later or left unknown.
	NumberOfPeople           *int `json:"numberOfPeople,omitempty" jsonschema:"-"`
	EstimatedInternalCostJPY *int `json:"estimatedInternalCostJPY,omitempty" jsonschema:"-"`
}

type AsIsStep struct {
	WorkID       string `json:"workId"`
	StepNo       int    `json:"stepNo"`
	AsIsStepName string `json:"asIsStepName"`
	ToolUsed     string `json:"toolUsed" jsonschema_description:"当該ステップで使用するツール"`
	Minutes      int    `json:"minutes" jsonschema_description:"当該ステップの作業時間（分）"`
	Input        string `json:"input" jsonschema_description:"当該ステップのインプット"`
	Output       string `json:"output" jsonschema_description:"当該ステップのアウトプット"`
	DataState    string `json:"dataState" jsonschema_description:"データの状態（例: 未整備、整備済み 等）"`
}

type ToBeStep struct {
	WorkID           string       `json:"workId"`
	StepNo           int          `json:"stepNo"`
	ToBeStepName     string       `json:"toBeStepName"`
	ExecutorType     ExecutorType `json:"executorType" jsonschema:"enum=manual,enum=automated" jsonschema_description:"実行主体（manual: 手動 / automated: 自動化）"`
	ToolUsed         string       `json:"toolUsed" jsonschema_description:"当該ステップで使用するツール"`
	Minutes          int          `json:"minutes" jsonschema_description:"当該ステップの作業時間（分）"`
	ImprovementPoint string       `json:"improvementPoint" jsonschema_description:"改善のポイント（要点）"`
}

type AdvancedProposal struct {
	Title       string `json:"title" jsonschema_description:"一歩進んだ改善提案のタイトル"`
	Description string `json:"description" jsonschema_description:"高度な提案の具体的な内容"`
}

// People returns the number of people performing the workflow,
// defaulting to one when unknown.
func (r *WorkRecord) People() int {
	return IntFromPtrWithDefault(1, r.NumberOfPeople)
}

// TotalWorkloadMinutesPerMonth is totalMinutes × monthlyCount × people.
func (r *WorkRecord) TotalWorkloadMinutesPerMonth() int {
	return r.TotalMinutes * r.MonthlyCount * r.People()
}

func (r *WorkRecord) Priority() Priority {
	return PriorityForScore(r.AutomationScore)
}

// AsIsMinutes sums the durations of the current-state steps.
func (r *WorkRecord) AsIsMinutes() int {
	total := 0
	for _, s := range r.AsIsSteps {
		total += s.Minutes
	}
	return total
}

// SetWorkID assigns id to the record and every embedded step.
func (r *WorkRecord) SetWorkID(id string) {
	r.WorkID = id
	for i := range r.AsIsSteps {
		r.AsIsSteps[i].WorkID = id
	}
	for i := range r.ToBeSteps {
		r.ToBeSteps[i].WorkID = id
	}
}

// Issues lists data-quality findings. They never block persistence.
func (r *WorkRecord) Issues() []string {
	var issues []string
	if len(r.AsIsSteps) > 0 && r.AsIsMinutes() != r.TotalMinutes {
		issues = append(issues, fmt.Sprintf("asIsSteps minutes sum to %d, totalMinutes is %d", r.AsIsMinutes(), r.TotalMinutes))
	}
	if r.AutomationScore < 0 || r.AutomationScore > 100 {
		issues = append(issues, fmt.Sprintf("automationScore %d outside 0-100", r.AutomationScore))
	}
	if r.HumanDependency != "" && !r.HumanDependency.Valid() {
		issues = append(issues, fmt.Sprintf("unknown humanDependency %q", r.HumanDependency))
	}
	if !r.RecommendedToolCategory.Valid() {
		issues = append(issues, fmt.Sprintf("unknown recommendedToolCategory %q", r.RecommendedToolCategory))
	}
	for _, s := range r.ToBeSteps {
		if !s.ExecutorType.Valid() {
			issues = append(issues, fmt.Sprintf("toBeSteps[%d] has unknown executorType %q", s.StepNo, s.ExecutorType))
		}
	}
	return issues
}

// StoredRecord is a WorkRecord persisted in a user's collection.
type StoredRecord struct {
	ID        int64
	OwnerID   string
	Record    WorkRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}
