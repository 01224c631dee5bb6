package loadtest

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Metric records one scenario run.
type Metric struct {
	Scenario        string
	RunID           int
	StartTime       time.Time
	EndTime         time.Time
	Success         bool
	Error           string
	Backend         string
	ResponseSummary string
}

func (m Metric) Latency() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

var csvHeader = []string{"scenario", "runId", "startTime", "endTime", "latency", "success", "error", "backend", "response_summary"}

// WriteCSV writes metrics with a UTF-8 BOM so spreadsheet tools detect the
// encoding. Times are epoch milliseconds, latency is milliseconds.
func WriteCSV(w io.Writer, metrics []Metric) error {
	var b strings.Builder
	b.WriteString("\ufeff")
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\n")
	for i, m := range metrics {
		row := []string{
			m.Scenario,
			strconv.Itoa(m.RunID),
			strconv.FormatInt(m.StartTime.UnixMilli(), 10),
			strconv.FormatInt(m.EndTime.UnixMilli(), 10),
			strconv.FormatInt(m.Latency().Milliseconds(), 10),
			strconv.FormatBool(m.Success),
			m.Error,
			m.Backend,
			m.ResponseSummary,
		}
		for j, cell := range row {
			row[j] = csvCell(cell)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join(row, ","))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// csvCell quotes only cells containing a comma or a double quote.
func csvCell(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ResultFileName is the default metrics file name for a run finished at now.
func ResultFileName(now time.Time) string {
	stamp := strings.Replace(now.UTC().Format("2006-01-02T15-04-05.000Z"), ".", "-", 1)
	return "loadtest-results-" + stamp + ".csv"
}

// Summary aggregates a batch of runs. Latencies cover successful runs only
// and are zero when none succeeded.
type Summary struct {
	Total       int
	Successful  int
	Failed      int
	SuccessRate float64
	AvgLatency  time.Duration
	MinLatency  time.Duration
	MaxLatency  time.Duration
	P95Latency  time.Duration
}

func Summarize(metrics []Metric) Summary {
	s := Summary{Total: len(metrics)}
	var latencies []time.Duration
	for _, m := range metrics {
		if m.Success {
			s.Successful++
			latencies = append(latencies, m.Latency())
		}
	}
	s.Failed = s.Total - s.Successful
	if s.Total > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.Total) * 100
	}
	if len(latencies) == 0 {
		return s
	}

	slices.Sort(latencies)
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	s.AvgLatency = sum / time.Duration(len(latencies))
	s.MinLatency = latencies[0]
	s.MaxLatency = latencies[len(latencies)-1]
	idx := int(math.Floor(float64(len(latencies)) * 0.95))
	if idx >= len(latencies) {
		idx = len(latencies) - 1
	}
	s.P95Latency = latencies[idx]
	return s
}

func (s Summary) Print(w io.Writer) {
	ms := func(d time.Duration) string {
		return strconv.FormatFloat(float64(d.Microseconds())/1000, 'f', 2, 64) + " ms"
	}
	fmt.Fprintln(w, "--- Load Test Summary ---")
	fmt.Fprintf(w, "Total Runs:       %d\n", s.Total)
	fmt.Fprintf(w, "Successful Runs:  %d\n", s.Successful)
	fmt.Fprintf(w, "Failed Runs:      %d\n", s.Failed)
	fmt.Fprintf(w, "Success Rate:     %.2f%%\n", s.SuccessRate)
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Avg Latency:      %s\n", ms(s.AvgLatency))
	fmt.Fprintf(w, "Min Latency:      %s\n", ms(s.MinLatency))
	fmt.Fprintf(w, "Max Latency:      %s\n", ms(s.MaxLatency))
	fmt.Fprintf(w, "p95 Latency:      %s\n", ms(s.P95Latency))
	fmt.Fprintln(w, "-------------------------")
}
