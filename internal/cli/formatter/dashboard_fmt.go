package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/carte/internal/service"
)

const dashboardBarWidth = 20

// FormatDashboard renders KPIs, the priority distribution and the tool
// category ranking.
func FormatDashboard(s service.DashboardSummary) string {
	var b strings.Builder

	kpis := fmt.Sprintf("%s  %d\n%s  %s\n%s  %s",
		Dim("Records         "), s.RecordCount,
		Dim("Monthly workload"), Bold(FormatHours(s.MonthlyWorkloadHours)),
		Dim("Savings (A+B)   "), StyleGreen.Render(FormatHours(s.SavingsPotentialHours)),
	)
	b.WriteString(RenderBox("Dashboard", kpis))
	b.WriteString("\n\n")

	b.WriteString(Header("Priority"))
	b.WriteString("\n")
	maxCount := 0
	for _, p := range s.Priorities {
		maxCount = max(maxCount, p.Count)
	}
	for _, p := range s.Priorities {
		fmt.Fprintf(&b, "%s %s %d\n", PriorityBadge(p.Priority), countBar(p.Count, maxCount, PriorityStyle(p.Priority).Render), p.Count)
	}

	b.WriteString("\n")
	b.WriteString(Header("Tool categories"))
	b.WriteString("\n")
	if len(s.Categories) == 0 {
		b.WriteString(Dim("none") + "\n")
		return b.String()
	}
	rows := make([][]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		rows = append(rows, []string{c.Label, fmt.Sprint(c.Count)})
	}
	b.WriteString(RenderTable([]string{"CATEGORY", "COUNT"}, rows, AlignLeft, AlignRight))
	return b.String()
}

func countBar(n, maxCount int, render func(...string) string) string {
	filled := 0
	if maxCount > 0 {
		filled = n * dashboardBarWidth / maxCount
	}
	return render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, dashboardBarWidth-filled))
}
