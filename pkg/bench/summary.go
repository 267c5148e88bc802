package bench

import (
	"math"
	"sort"

	"github.com/callscope/voicebench/pkg/providers"
)

// SummaryRow is the aggregate view of one (provider, scenario) group. It is
// derived from the full record collection and carries no state of its own.
type SummaryRow struct {
	Provider providers.Name `json:"provider"`
	Scenario Scenario       `json:"scenario"`
	// P50Ms and P95Ms are computed over successful records only; both are
	// zero when the group has no successes.
	P50Ms float64 `json:"p50Ms"`
	P95Ms float64 `json:"p95Ms"`
	// OKRate is successes over all records in the group, failures included.
	OKRate float64 `json:"okRate"`
	// AvgAudioBytes is the mean payload size over successful records that
	// report one; nil when no record in the group does.
	AvgAudioBytes *float64 `json:"avgAudioBytes,omitempty"`
}

// groupKey buckets records for aggregation.
type groupKey struct {
	provider providers.Name
	scenario Scenario
}

// Summarize groups records by (provider, scenario) and computes one summary
// row per group. Rows appear in first-seen order of their group; any sorted
// presentation is the caller's formatting concern.
func Summarize(records []Record) []SummaryRow {
	var order []groupKey
	groups := make(map[groupKey][]Record)

	for _, record := range records {
		key := groupKey{provider: record.Provider, scenario: record.Scenario}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], record)
	}

	rows := make([]SummaryRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, summarizeGroup(key, groups[key]))
	}
	return rows
}

// summarizeGroup computes the aggregate row for one group.
func summarizeGroup(key groupKey, records []Record) SummaryRow {
	row := SummaryRow{Provider: key.provider, Scenario: key.scenario}

	var latencies []float64
	var okCount int
	var audioBytesSum, audioBytesCount int

	for _, record := range records {
		if !record.OK {
			continue
		}
		okCount++
		latencies = append(latencies, record.ElapsedMs)
		if record.AudioBytes > 0 {
			audioBytesSum += record.AudioBytes
			audioBytesCount++
		}
	}

	row.P50Ms = Percentile(latencies, 50)
	row.P95Ms = Percentile(latencies, 95)
	if len(records) > 0 {
		row.OKRate = float64(okCount) / float64(len(records))
	}
	if audioBytesCount > 0 {
		avg := float64(audioBytesSum) / float64(audioBytesCount)
		row.AvgAudioBytes = &avg
	}
	return row
}

// Percentile returns the p-th percentile of values using the nearest-rank
// index floor(p/100 * count), clamped to the last element. An empty input
// yields zero rather than an error.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := int(math.Floor(p / 100 * float64(len(sorted))))
	if index > len(sorted)-1 {
		index = len(sorted) - 1
	}
	return sorted[index]
}
