// Package bench implements the three benchmark scenarios (translation,
// speech synthesis, and the chained pipeline), the measurement records they
// emit, and the statistical aggregation over those records.
package bench

import (
	"sync"

	"github.com/callscope/voicebench/pkg/providers"
)

// Scenario identifies one of the three benchmark modes.
type Scenario string

const (
	// ScenarioTranslation measures the chat-completion providers.
	ScenarioTranslation Scenario = "translation"
	// ScenarioSpeech measures the speech-synthesis providers.
	ScenarioSpeech Scenario = "tts"
	// ScenarioPipeline measures the chained translation-then-synthesis run.
	ScenarioPipeline Scenario = "translation+tts"
)

// Record is one measurement: a single (provider, input) unit of work.
//
// Records are immutable once appended to a Collector. ElapsedMs is always
// zero for failed records; for pipeline records it is the sum of the two
// sequential step durations, not the wall-clock time of the combined call.
type Record struct {
	Provider  providers.Name `json:"provider"`
	Scenario  Scenario       `json:"scenario"`
	Language  string         `json:"language"`
	ElapsedMs float64        `json:"elapsedMs"`
	// CostTokens is the LLM token usage, present only for chat-completion
	// calls whose response reported usage.
	CostTokens int `json:"costTokens,omitempty"`
	// AudioBytes is the synthesized payload size, present only for
	// synthesis calls.
	AudioBytes int    `json:"audioBytes,omitempty"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// Collector accumulates records from concurrently running scenario tasks.
// Append-only; the mutex makes it safe for the preemptively scheduled
// goroutines the runners dispatch.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

// Append adds records to the collection.
func (c *Collector) Append(records ...Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, records...)
}

// Records returns a copy of everything collected so far.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}
