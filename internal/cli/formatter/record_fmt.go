package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/alexanderramin/carte/internal/domain"
)

// FormatRecordList renders one table row per record, in the order given.
func FormatRecordList(records []*domain.StoredRecord) string {
	if len(records) == 0 {
		return Dim("No records yet. Run `carte interview` to create one.") + "\n"
	}
	rows := make([][]string, 0, len(records))
	for _, sr := range records {
		r := &sr.Record
		rows = append(rows, []string{
			r.WorkID,
			PriorityBadge(r.Priority()),
			Truncate(r.Title, 32),
			RenderScoreBar(r.AutomationScore, 10),
			r.RecommendedToolCategory.Label(),
			FormatMinutes(r.MonthlySavedMinutes),
			sr.CreatedAt.Local().Format("2006-01-02"),
		})
	}
	return RenderTable(
		[]string{"ID", "PRI", "TITLE", "SCORE", "TOOL", "SAVED/MO", "CREATED"},
		rows,
		AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight,
	)
}

// RecordMarkdown renders a record as a markdown document.
func RecordMarkdown(r *domain.WorkRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s `%s`\n\n", r.Title, r.WorkID)
	fmt.Fprintf(&b, "**Priority %s** · automation score %d · %s\n\n", r.Priority(), r.AutomationScore, r.RecommendedToolCategory.Label())

	b.WriteString("## 概要\n\n")
	b.WriteString("| 項目 | 内容 |\n|---|---|\n")
	for _, kv := range [][2]string{
		{"カテゴリ", r.Category},
		{"頻度", fmt.Sprintf("%s (月%d回)", r.Frequency, r.MonthlyCount)},
		{"1回あたり", FormatMinutes(r.TotalMinutes)},
		{"月間工数", FormatMinutes(r.TotalWorkloadMinutesPerMonth())},
		{"主なツール", r.PrimaryTool},
		{"主なデータ", r.PrimaryData},
		{"データ形式", r.DataFormat},
		{"保存先", r.DataStorage},
		{"属人性", string(r.HumanDependency)},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", kv[0], mdCell(kv[1]))
	}

	if len(r.CurrentBottlenecks) > 0 {
		b.WriteString("\n## 課題\n\n")
		for _, s := range r.CurrentBottlenecks {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	b.WriteString("\n## As-Is\n\n")
	if r.AsIsSummary != "" {
		b.WriteString(r.AsIsSummary + "\n\n")
	}
	for _, s := range r.AsIsSteps {
		fmt.Fprintf(&b, "%d. **%s** (%s, %d分)\n", s.StepNo, s.AsIsStepName, s.ToolUsed, s.Minutes)
	}

	b.WriteString("\n## To-Be\n\n")
	if r.ToBeSummary != "" {
		b.WriteString(r.ToBeSummary + "\n\n")
	}
	for _, s := range r.ToBeSteps {
		fmt.Fprintf(&b, "%d. **%s** [%s] (%s, %d分)", s.StepNo, s.ToBeStepName, s.ExecutorType, s.ToolUsed, s.Minutes)
		if s.ImprovementPoint != "" {
			fmt.Fprintf(&b, ": %s", s.ImprovementPoint)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## 改善効果\n\n")
	if r.RecommendedSolution != "" {
		fmt.Fprintf(&b, "**推奨:** %s\n\n", r.RecommendedSolution)
	}
	if r.ImprovementImpact != "" {
		b.WriteString(r.ImprovementImpact + "\n\n")
	}
	fmt.Fprintf(&b, "月間削減見込み: **%s**", FormatMinutes(r.MonthlySavedMinutes))
	if r.SavedMinuteDetails != "" {
		fmt.Fprintf(&b, " (%s)", r.SavedMinuteDetails)
	}
	b.WriteString("\n")

	if r.AdvancedProposal.Title != "" {
		fmt.Fprintf(&b, "\n## 発展提案: %s\n\n%s\n", r.AdvancedProposal.Title, r.AdvancedProposal.Description)
	}
	return b.String()
}

// RenderRecord renders the record markdown for a terminal of the given
// width. On renderer failure the raw markdown is returned.
func RenderRecord(r *domain.WorkRecord, width int) string {
	md := RecordMarkdown(r)
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
