package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/carte/internal/domain"
)

const exportFilePrefix = "ax-copilot-cartes"

var exportHeader = []string{
	"ユーザーID",
	"氏名",
	"部署名",
	"メールアドレス",
	"業務ID",
	"業務名",
	"カテゴリ",
	"実施頻度",
	"月間回数",
	"1回あたり総時間(分)",
	"工程数",
	"主要ツール",
	"現状のボトルネック",
	"主要データ",
	"データ形式",
	"データ状態",
	"データ保存場所",
	"API連携",
	"As-Is要約",
	"As-Is工程",
	"To-Be要約",
	"To-Be工程",
	"推奨ツールカテゴリ",
	"推奨ソリューション",
	"改善インパクト",
	"自動化可能度(%)",
	"自動化可能度の根拠",
	"属人性",
	"属人性の根拠",
	"備考",
	"月間削減時間(分)",
	"実施人数",
	"月間総工数(分)",
	"推定開発コスト(JPY)",
	"高度な提案タイトル",
	"高度な提案概要",
}

type exportService struct{}

func NewExportService() ExportService {
	return exportService{}
}

// WriteCSV writes a BOM-prefixed sheet, one row per record. Data cells are
// always quoted; rows are separated by a bare newline.
func (exportService) WriteCSV(w io.Writer, profile *domain.UserProfile, records []*domain.StoredRecord) error {
	var user domain.UserProfile
	if profile != nil {
		user = *profile
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(exportHeader, ","))
	for _, rec := range records {
		cells := exportRow(user, &rec.Record)
		for i, c := range cells {
			cells[i] = quoteCell(c)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	if _, err := io.WriteString(w, "\ufeff"+strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func (exportService) DefaultFileName(now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", exportFilePrefix, now.Format("20060102-150405"))
}

func exportRow(user domain.UserProfile, r *domain.WorkRecord) []string {
	return []string{
		user.UserID,
		user.FullName,
		user.Department,
		user.Email,
		r.WorkID,
		r.Title,
		r.Category,
		r.Frequency,
		strconv.Itoa(r.MonthlyCount),
		strconv.Itoa(r.TotalMinutes),
		strconv.Itoa(r.NumSteps),
		r.PrimaryTool,
		strings.Join(r.CurrentBottlenecks, " / "),
		r.PrimaryData,
		r.DataFormat,
		r.DataState,
		r.DataStorage,
		r.APIIntegration,
		r.AsIsSummary,
		formatAsIsSteps(r.AsIsSteps),
		r.ToBeSummary,
		formatToBeSteps(r.ToBeSteps),
		r.RecommendedToolCategory.Label(),
		r.RecommendedSolution,
		flattenLines(r.ImprovementImpact),
		strconv.Itoa(r.AutomationScore),
		r.AutomationScoreRationale,
		string(r.HumanDependency),
		r.HumanDependencyRationale,
		r.Notes,
		strconv.Itoa(r.MonthlySavedMinutes),
		optionalInt(r.NumberOfPeople),
		strconv.Itoa(r.TotalWorkloadMinutesPerMonth()),
		optionalInt(r.EstimatedInternalCostJPY),
		r.AdvancedProposal.Title,
		r.AdvancedProposal.Description,
	}
}

func formatAsIsSteps(steps []domain.AsIsStep) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("%d: %s (%d分)", s.StepNo, s.AsIsStepName, s.Minutes)
	}
	return strings.Join(parts, " / ")
}

func formatToBeSteps(steps []domain.ToBeStep) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		mode := "手動"
		if s.ExecutorType == domain.ExecutorAutomated {
			mode = "自動化"
		}
		parts[i] = fmt.Sprintf("%d: %s [%s] (%d分)", s.StepNo, s.ToBeStepName, mode, s.Minutes)
	}
	return strings.Join(parts, " / ")
}

func flattenLines(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ").Replace(s)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func quoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
