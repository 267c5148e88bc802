// Package report renders the benchmark summary for the console and persists
// the full run (summary rows plus every individual record) as a JSON
// artifact.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/callscope/voicebench/pkg/bench"
)

// Document is the persisted shape of one benchmark run.
type Document struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Summary     []bench.SummaryRow `json:"summary"`
	Records     []bench.Record     `json:"records"`
}

// Write persists the document under dir, creating it if needed, and returns
// the path of the written file.
func Write(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("voicebench-%s.json", doc.GeneratedAt.Format("20060102-150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return "", fmt.Errorf("error writing report: %w", err)
	}
	return path, nil
}

// RenderSummary writes the human-readable summary table to w. Rows are shown
// in the order the aggregator produced them (first-seen group order).
func RenderSummary(w io.Writer, rows []bench.SummaryRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Provider", "Scenario", "p50", "p95", "OK Rate", "Avg Audio"})

	for _, row := range rows {
		audio := "-"
		if row.AvgAudioBytes != nil {
			audio = formatBytes(*row.AvgAudioBytes)
		}
		tw.AppendRow(table.Row{
			row.Provider,
			row.Scenario,
			formatMillis(row.P50Ms),
			formatMillis(row.P95Ms),
			formatOKRate(row.OKRate),
			audio,
		})
	}
	tw.Render()
}

// formatMillis renders a millisecond latency at a sensible magnitude.
func formatMillis(ms float64) string {
	switch {
	case ms == 0:
		return "0ms"
	case ms < 1:
		return fmt.Sprintf("%.0fµs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.2fms", ms)
	default:
		return fmt.Sprintf("%.2fs", ms/1000)
	}
}

// formatOKRate renders the success ratio as a colored percentage.
func formatOKRate(rate float64) string {
	formatted := fmt.Sprintf("%.0f%%", rate*100)
	switch {
	case rate >= 1:
		return text.FgGreen.Sprint(formatted)
	case rate > 0:
		return text.FgYellow.Sprint(formatted)
	default:
		return text.FgRed.Sprint(formatted)
	}
}

// formatBytes renders an average byte count in KiB above one KiB.
func formatBytes(count float64) string {
	if count < 1024 {
		return fmt.Sprintf("%.0fB", count)
	}
	return fmt.Sprintf("%.1fKiB", count/1024)
}
