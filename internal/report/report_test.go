package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callscope/voicebench/internal/report"
	"github.com/callscope/voicebench/pkg/bench"
	"github.com/callscope/voicebench/pkg/providers"
)

func sampleDocument() report.Document {
	avg := 2048.0
	return report.Document{
		GeneratedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		Summary: []bench.SummaryRow{
			{Provider: providers.OpenAI, Scenario: bench.ScenarioTranslation, P50Ms: 120.5, P95Ms: 310.2, OKRate: 1},
			{Provider: providers.ElevenLabs, Scenario: bench.ScenarioSpeech, P50Ms: 800, P95Ms: 1500, OKRate: 0.5, AvgAudioBytes: &avg},
		},
		Records: []bench.Record{
			{Provider: providers.OpenAI, Scenario: bench.ScenarioTranslation, Language: "en->es", ElapsedMs: 120.5, CostTokens: 42, OK: true},
			{Provider: providers.ElevenLabs, Scenario: bench.ScenarioSpeech, Language: "en", OK: false, Error: "unexpected status code: 429"},
		},
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	path, err := report.Write(dir, sampleDocument())
	require.NoError(t, err)
	assert.Contains(t, path, "voicebench-20250601-123000.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded report.Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Summary, 2)
	assert.Len(t, decoded.Records, 2)
	assert.Equal(t, providers.OpenAI, decoded.Records[0].Provider)
	assert.Equal(t, "unexpected status code: 429", decoded.Records[1].Error)

	// Failed records must serialize without a latency.
	assert.Zero(t, decoded.Records[1].ElapsedMs)
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	report.RenderSummary(&buf, sampleDocument().Summary)
	rendered := buf.String()

	assert.Contains(t, rendered, "openai")
	assert.Contains(t, rendered, "translation")
	assert.Contains(t, rendered, "120.50ms")
	assert.Contains(t, rendered, "1.50s")
	assert.Contains(t, rendered, "2.0KiB")
	assert.Contains(t, rendered, "50%")
}

func TestRenderSummary_NoAudio(t *testing.T) {
	var buf bytes.Buffer
	report.RenderSummary(&buf, []bench.SummaryRow{
		{Provider: providers.Groq, Scenario: bench.ScenarioTranslation, OKRate: 1},
	})

	assert.Contains(t, buf.String(), "-", "groups without audio bytes render a placeholder")
}
