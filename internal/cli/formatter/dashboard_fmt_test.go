package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/service"
)

func TestFormatDashboard(t *testing.T) {
	s := service.DashboardSummary{
		RecordCount:           3,
		MonthlyWorkloadHours:  24.5,
		SavingsPotentialHours: 6.7,
		Priorities: []service.PriorityCount{
			{Priority: domain.PriorityA, Count: 2},
			{Priority: domain.PriorityB, Count: 1},
			{Priority: domain.PriorityC, Count: 0},
			{Priority: domain.PriorityD, Count: 0},
		},
		Categories: []service.CategoryCount{
			{Category: domain.ToolGAS, Label: "GAS", Count: 2},
			{Category: domain.ToolAIChat, Label: "生成AIチャット", Count: 1},
		},
	}
	out := FormatDashboard(s)

	assert.Contains(t, out, "24.5h")
	assert.Contains(t, out, "6.7h")
	assert.Contains(t, out, "生成AIチャット")
	assert.Less(t, strings.Index(out, "GAS"), strings.Index(out, "生成AIチャット"))
}

func TestFormatDashboard_NoCategories(t *testing.T) {
	out := FormatDashboard(service.DashboardSummary{Priorities: []service.PriorityCount{{Priority: domain.PriorityA}}})
	assert.Contains(t, out, "none")
}

func TestCountBar_ScalesToMax(t *testing.T) {
	render := func(s ...string) string { return strings.Join(s, "") }
	assert.Equal(t, dashboardBarWidth, strings.Count(countBar(4, 4, render), filledBlock))
	assert.Equal(t, dashboardBarWidth/2, strings.Count(countBar(2, 4, render), filledBlock))
	assert.Zero(t, strings.Count(countBar(0, 0, render), filledBlock))
}
