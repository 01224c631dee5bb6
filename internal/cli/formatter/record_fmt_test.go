package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/testutil"
)

func TestFormatRecordList_Empty(t *testing.T) {
	assert.Contains(t, FormatRecordList(nil), "No records yet")
}

func TestFormatRecordList_Rows(t *testing.T) {
	created := time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)
	records := []*domain.StoredRecord{
		{Record: *testutil.NewTestRecord("月次売上集計", testutil.WithWorkID("A1B"), testutil.WithScore(85)), CreatedAt: created},
		{Record: *testutil.NewTestRecord("請求書発行", testutil.WithWorkID("Z9Q"), testutil.WithScore(20)), CreatedAt: created},
	}
	out := FormatRecordList(records)

	assert.Contains(t, out, "A1B")
	assert.Contains(t, out, "Z9Q")
	assert.Contains(t, out, "月次売上集計")
	assert.Contains(t, out, "● A")
	assert.Contains(t, out, "● D")
	assert.Contains(t, out, "GAS")
	assert.Contains(t, out, "6h 40m")
	assert.Contains(t, out, "2026-03-04")
}

func TestRecordMarkdown_Sections(t *testing.T) {
	r := testutil.NewTestRecord("月次売上集計", testutil.WithWorkID("A1B"), testutil.WithPeople(3))
	md := RecordMarkdown(r)

	assert.Contains(t, md, "# 月次売上集計 `A1B`")
	assert.Contains(t, md, "**Priority B**")
	assert.Contains(t, md, "| 月間工数 | 24h |")
	assert.Contains(t, md, "- 転記ミス")
	assert.Contains(t, md, "1. **データ集計** (Excel, 90分)")
	assert.Contains(t, md, "1. **自動集計** [automated] (GAS, 5分)")
	assert.Contains(t, md, "月間削減見込み: **6h 40m**")
	assert.Contains(t, md, "## 発展提案: BI連携")
}

func TestRecordMarkdown_EscapesTableCells(t *testing.T) {
	r := testutil.NewTestRecord("x")
	r.PrimaryTool = "Excel|Sheets\nGAS"
	assert.Contains(t, RecordMarkdown(r), `Excel\|Sheets GAS`)
}

func TestRenderRecord_FallsBackToWidth(t *testing.T) {
	out := RenderRecord(testutil.NewTestRecord("月次売上集計"), 0)
	assert.Contains(t, out, "月次売上集計")
}
