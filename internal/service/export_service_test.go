package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/testutil"
)

var exportProfile = &domain.UserProfile{
	UserID:     "u1",
	FullName:   "山田 太郎",
	Department: "経理部",
	Email:      "taro@example.com",
}

func TestExportService_WriteCSV_HeaderAndBOM(t *testing.T) {
	var b strings.Builder
	require.NoError(t, NewExportService().WriteCSV(&b, exportProfile, nil))

	out := b.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"))
	header := strings.Split(strings.TrimPrefix(out, "\ufeff"), ",")
	assert.Len(t, header, 36)
	assert.Equal(t, "ユーザーID", header[0])
	assert.Equal(t, "高度な提案概要", header[35])
}

func TestExportService_WriteCSV_Row(t *testing.T) {
	rec := testutil.NewTestRecord(`"週次"レポート`, testutil.WithWorkID("A1B"), testutil.WithPeople(3))
	rec.ImprovementImpact = "一行目\n二行目\r\n三行目"
	cost := 150000
	rec.EstimatedInternalCostJPY = &cost

	var b strings.Builder
	require.NoError(t, NewExportService().WriteCSV(&b, exportProfile, []*domain.StoredRecord{{Record: *rec}}))

	lines := strings.Split(b.String(), "\n")
	require.Len(t, lines, 2)
	cells := splitQuoted(t, lines[1])
	require.Len(t, cells, 36)

	assert.Equal(t, "u1", cells[0])
	assert.Equal(t, "taro@example.com", cells[3])
	assert.Equal(t, "A1B", cells[4])
	assert.Equal(t, `"週次"レポート`, cells[5])
	assert.Equal(t, "4", cells[8])
	assert.Equal(t, "120", cells[9])
	assert.Equal(t, "転記ミス / 集計に時間がかかる", cells[12])
	assert.Equal(t, "1: データ集計 (90分) / 2: 資料作成 (30分)", cells[19])
	assert.Equal(t, "1: 自動集計 [自動化] (5分) / 2: 内容確認 [手動] (15分)", cells[21])
	assert.Equal(t, "GAS", cells[22])
	assert.Equal(t, "一行目 二行目 三行目", cells[24])
	assert.Equal(t, "70", cells[25])
	assert.Equal(t, "low", cells[27])
	assert.Equal(t, "400", cells[30])
	assert.Equal(t, "3", cells[31])
	assert.Equal(t, "1440", cells[32], "120 × 4 × 3")
	assert.Equal(t, "150000", cells[33])
	assert.Equal(t, "BI連携", cells[34])
}

func TestExportService_WriteCSV_UnknownPeopleLeftBlank(t *testing.T) {
	rec := testutil.NewTestRecord("a")
	var b strings.Builder
	require.NoError(t, NewExportService().WriteCSV(&b, nil, []*domain.StoredRecord{{Record: *rec}}))

	cells := splitQuoted(t, strings.Split(b.String(), "\n")[1])
	assert.Equal(t, "", cells[0])
	assert.Equal(t, "", cells[31])
	assert.Equal(t, "480", cells[32], "people default to one")
	assert.Equal(t, "", cells[33])
}

func TestExportService_DefaultFileName(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 5, 2, 0, time.Local)
	assert.Equal(t, "ax-copilot-cartes-20260307-090502.csv", NewExportService().DefaultFileName(now))
}

// splitQuoted splits a row where every cell is double-quoted.
func splitQuoted(t *testing.T, line string) []string {
	t.Helper()
	var cells []string
	for len(line) > 0 {
		require.Equal(t, byte('"'), line[0], "cell must start with a quote: %q", line)
		var cell strings.Builder
		i := 1
		for {
			require.Less(t, i, len(line), "unterminated cell")
			if line[i] == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cell.WriteByte('"')
					i += 2
					continue
				}
				break
			}
			cell.WriteByte(line[i])
			i++
		}
		cells = append(cells, cell.String())
		line = line[i+1:]
		line = strings.TrimPrefix(line, ",")
	}
	return cells
}
