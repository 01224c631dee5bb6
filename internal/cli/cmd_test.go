package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/llm"
	"github.com/alexanderramin/carte/internal/repository"
	"github.com/alexanderramin/carte/internal/service"
	"github.com/alexanderramin/carte/internal/testutil"
)

var errNoModel = errors.New("model disabled in tests")

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)

	allowlist := repository.NewSQLiteAllowlistRepo(db)
	return &App{
		UserID:    "u1",
		Records:   service.NewRecordService(repository.NewSQLiteRecordRepo(db), testutil.NewTestUoW(db)),
		Profiles:  service.NewProfileService(repository.NewSQLiteProfileRepo(db)),
		Export:    service.NewExportService(),
		Access:    service.NewAccessPolicy(nil, allowlist),
		Allowlist: allowlist,
		NewLLM: func(context.Context) (llm.LLMClient, error) {
			return nil, errNoModel
		},
		Backend: "test",
		Now:     func() time.Time { return time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC) },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func seedRecords(t *testing.T, app *App, recs ...*domain.WorkRecord) {
	t.Helper()
	for _, r := range recs {
		_, err := app.Records.Save(context.Background(), app.UserID, r)
		require.NoError(t, err)
	}
}

// --- records ---

func TestRecordsList_Empty(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app, "records", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No records yet")
}

func TestRecordsList_SortByAutomation(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app,
		testutil.NewTestRecord("低スコア業務", testutil.WithWorkID("LOW"), testutil.WithScore(20)),
		testutil.NewTestRecord("高スコア業務", testutil.WithWorkID("HIG"), testutil.WithScore(90)),
	)

	out, err := executeCmd(t, app, "records", "list", "--sort", "automation")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "HIG"), strings.Index(out, "LOW"))

	out, err = executeCmd(t, app, "records", "ls")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "LOW"), strings.Index(out, "HIG"))
}

func TestRecordsList_InvalidSort(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "records", "list", "--sort", "random")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort order")
}

func TestRecordsShow_PrintsMarkdownWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app, testutil.NewTestRecord("月次売上集計", testutil.WithWorkID("A1B")))

	out, err := executeCmd(t, app, "records", "show", "A1B")
	require.NoError(t, err)
	assert.Contains(t, out, "# 月次売上集計 `A1B`")
	assert.Contains(t, out, "## To-Be")
}

func TestRecordsShow_NotFound(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "records", "show", "ZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRecordsDelete(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app, testutil.NewTestRecord("x", testutil.WithWorkID("DEL")))

	out, err := executeCmd(t, app, "records", "delete", "DEL")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted DEL")

	_, err = executeCmd(t, app, "records", "rm", "DEL")
	assert.Error(t, err)
}

func TestRecordsClear(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app,
		testutil.NewTestRecord("a", testutil.WithWorkID("C01")),
		testutil.NewTestRecord("b", testutil.WithWorkID("C02")),
	)

	_, err := executeCmd(t, app, "records", "clear")
	require.Error(t, err, "non-interactive clear needs --yes")

	out, err := executeCmd(t, app, "records", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 carte(s)")

	list, err := app.Records.List(context.Background(), app.UserID, service.SortDefault)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// --- dashboard / export ---

func TestDashboard(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app,
		testutil.NewTestRecord("a", testutil.WithScore(85), testutil.WithVolume(60, 10), testutil.WithSavedMinutes(300)),
		testutil.NewTestRecord("b", testutil.WithScore(30), testutil.WithVolume(30, 2), testutil.WithToolCategory(domain.ToolAIChat)),
	)

	out, err := executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "11.0h")
	assert.Contains(t, out, "5.0h")
	assert.Contains(t, out, "生成AIチャット")
}

func TestExport_ToFile(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app, testutil.NewTestRecord("月次売上集計", testutil.WithWorkID("A1B")))
	path := filepath.Join(t.TempDir(), "out.csv")

	out, err := executeCmd(t, app, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 carte(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufeff"))
	assert.Contains(t, string(data), `"月次売上集計"`)
}

func TestExport_Stdout(t *testing.T) {
	app := testApp(t)
	seedRecords(t, app, testutil.NewTestRecord("月次売上集計"))

	out, err := executeCmd(t, app, "export", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n")+1, "header plus one row")
}

func TestExport_NothingToExport(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "export", "-o", "-")
	require.Error(t, err)
}

// --- profile ---

func TestProfile_SetAndShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No profile set")

	_, err = executeCmd(t, app, "profile", "set", "--name", "山田 太郎", "--department", "経理部", "--email", "taro@example.co.jp")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "山田 太郎")
	assert.Contains(t, out, "taro@example.co.jp")

	// Partial update keeps the other fields.
	_, err = executeCmd(t, app, "profile", "set", "--department", "営業部")
	require.NoError(t, err)
	p, err := app.Profiles.Get(context.Background(), app.UserID)
	require.NoError(t, err)
	assert.Equal(t, "営業部", p.Department)
	assert.Equal(t, "山田 太郎", p.FullName)
}

func TestProfile_SetInvalid(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "profile", "set", "--name", "a", "--department", "b", "--email", "nope")
	assert.ErrorIs(t, err, service.ErrInvalidProfile)
}

// --- allowlist ---

func TestAllowlist_AddListRemove(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "allowlist", "add", "Guest@Partner.com", "--note", "contractor")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "allowlist", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "guest@partner.com")
	assert.Contains(t, out, "contractor")

	_, err = executeCmd(t, app, "allowlist", "remove", "guest@partner.com")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "allowlist", "rm", "guest@partner.com")
	assert.Error(t, err)

	out, err = executeCmd(t, app, "allowlist", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Allowlist is empty")
}

// --- interview gating ---

func TestInterview_RequiresProfile(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "interview")
	assert.ErrorIs(t, err, errNoProfile)
}

func TestInterview_DeniedEmail(t *testing.T) {
	app := testApp(t)
	app.Access = service.NewAccessPolicy([]string{"example.co.jp"}, app.Allowlist)
	require.NoError(t, app.Profiles.Set(context.Background(), &domain.UserProfile{
		UserID: "u1", FullName: "a", Department: "b", Email: "x@other.com",
	}))

	_, err := executeCmd(t, app, "interview")
	assert.ErrorIs(t, err, service.ErrAccessDenied)
}

func TestInterview_AllowedReachesModel(t *testing.T) {
	app := testApp(t)
	app.Access = service.NewAccessPolicy([]string{"example.co.jp"}, app.Allowlist)
	require.NoError(t, app.Profiles.Set(context.Background(), &domain.UserProfile{
		UserID: "u1", FullName: "a", Department: "b", Email: "x@example.co.jp",
	}))

	_, err := executeCmd(t, app, "interview")
	assert.ErrorIs(t, err, errNoModel)
}

// --- loadtest ---

type cannedClient struct{ text string }

func (c cannedClient) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return &llm.GenerateResponse{Text: c.text}, nil
}

func TestLoadtest_WritesResults(t *testing.T) {
	app := testApp(t)
	app.NewLLM = func(context.Context) (llm.LLMClient, error) {
		return cannedClient{text: `{"text":"こんにちは","suggestions":[]}`}, nil
	}
	dir := t.TempDir()

	out, err := executeCmd(t, app, "loadtest", "--scenario", "stream", "--total", "3", "--concurrency", "2", "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "S1-Stream")
	assert.Contains(t, out, "Results:")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "loadtest-results-2026-05-01T09-30-00-000Z.csv", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n")+1, "header plus three runs")
}

func TestLoadtest_InvalidScenario(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "loadtest", "--scenario", "bogus")
	assert.Error(t, err)
}
