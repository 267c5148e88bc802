package bench

import (
	"context"
	"sync"

	"github.com/callscope/voicebench/pkg/limiter"
	"github.com/callscope/voicebench/pkg/providers"
)

// The scenario runners below share one shape: every input becomes a
// concurrently dispatched task under the scenario's limiter, every provider
// call becomes exactly one record, and any failure is converted into a failed
// record instead of aborting sibling tasks. A nil secondary provider means
// its credential was absent from configuration; the provider is skipped
// entirely and contributes zero records.

// TranslationRunner benchmarks the chat-completion pair.
type TranslationRunner struct {
	Primary   providers.Translator
	Secondary providers.Translator // nil when not configured
	Limiter   *limiter.Limiter
}

// Run dispatches one task per input and blocks until every task has settled,
// appending all produced records to out.
func (r TranslationRunner) Run(ctx context.Context, inputs []TranslationInput, out *Collector) {
	var wg sync.WaitGroup
	for _, input := range inputs {
		wg.Add(1)
		go func(input TranslationInput) {
			defer wg.Done()
			err := r.Limiter.Run(ctx, func() error {
				out.Append(translateOnce(ctx, r.Primary, input))
				if r.Secondary != nil {
					// A primary failure must not prevent this attempt.
					out.Append(translateOnce(ctx, r.Secondary, input))
				}
				return nil
			})
			if err != nil {
				// Slot acquisition failed (context canceled while queued).
				out.Append(failedRecord(r.Primary.Name(), ScenarioTranslation, input.Language(), err))
				if r.Secondary != nil {
					out.Append(failedRecord(r.Secondary.Name(), ScenarioTranslation, input.Language(), err))
				}
			}
		}(input)
	}
	wg.Wait()
}

// SpeechRunner benchmarks the speech-synthesis pair. The secondary REST
// provider runs under a second, narrower limiter nested inside the scenario
// limiter, modeling its stricter per-account concurrency ceiling.
type SpeechRunner struct {
	Primary   providers.Synthesizer
	Secondary providers.Synthesizer // nil when not configured
	Limiter   *limiter.Limiter
	Narrow    *limiter.Limiter // bounds Secondary calls; nested inside Limiter
}

// Run dispatches one task per input and blocks until every task has settled,
// appending all produced records to out.
func (r SpeechRunner) Run(ctx context.Context, inputs []SpeechInput, out *Collector) {
	var wg sync.WaitGroup
	for _, input := range inputs {
		wg.Add(1)
		go func(input SpeechInput) {
			defer wg.Done()
			err := r.Limiter.Run(ctx, func() error {
				out.Append(synthesizeOnce(ctx, r.Primary, input.Language, input.Text))
				if r.Secondary != nil {
					nestedErr := r.Narrow.Run(ctx, func() error {
						out.Append(synthesizeOnce(ctx, r.Secondary, input.Language, input.Text))
						return nil
					})
					if nestedErr != nil {
						out.Append(failedRecord(r.Secondary.Name(), ScenarioSpeech, input.Language, nestedErr))
					}
				}
				return nil
			})
			if err != nil {
				out.Append(failedRecord(r.Primary.Name(), ScenarioSpeech, input.Language, err))
				if r.Secondary != nil {
					out.Append(failedRecord(r.Secondary.Name(), ScenarioSpeech, input.Language, err))
				}
			}
		}(input)
	}
	wg.Wait()
}

// PipelineRunner benchmarks the chained translation-then-synthesis flow for
// the primary pair and, when both secondaries are configured, the secondary
// pair. The chain is strictly sequential: synthesis consumes the translated
// text, and the record's latency is the sum of the two step durations.
type PipelineRunner struct {
	PrimaryTranslator    providers.Translator
	PrimarySynthesizer   providers.Synthesizer
	SecondaryTranslator  providers.Translator  // nil when not configured
	SecondarySynthesizer providers.Synthesizer // nil when not configured
	Limiter              *limiter.Limiter
	Narrow               *limiter.Limiter // bounds the secondary synthesis step
}

// secondaryConfigured reports whether the secondary chain can run at all.
func (r PipelineRunner) secondaryConfigured() bool {
	return r.SecondaryTranslator != nil && r.SecondarySynthesizer != nil
}

// Run dispatches one task per input and blocks until every task has settled,
// appending all produced records to out.
func (r PipelineRunner) Run(ctx context.Context, inputs []TranslationInput, out *Collector) {
	var wg sync.WaitGroup
	for _, input := range inputs {
		wg.Add(1)
		go func(input TranslationInput) {
			defer wg.Done()
			err := r.Limiter.Run(ctx, func() error {
				out.Append(pipelineOnce(ctx, r.PrimaryTranslator, r.PrimarySynthesizer, nil, input))
				if r.secondaryConfigured() {
					out.Append(pipelineOnce(ctx, r.SecondaryTranslator, r.SecondarySynthesizer, r.Narrow, input))
				}
				return nil
			})
			if err != nil {
				pair := providers.Pair(r.PrimaryTranslator.Name(), r.PrimarySynthesizer.Name())
				out.Append(failedRecord(pair, ScenarioPipeline, input.Language(), err))
				if r.secondaryConfigured() {
					pair := providers.Pair(r.SecondaryTranslator.Name(), r.SecondarySynthesizer.Name())
					out.Append(failedRecord(pair, ScenarioPipeline, input.Language(), err))
				}
			}
		}(input)
	}
	wg.Wait()
}

// translateOnce performs one timed translation call and converts the outcome
// into a record.
func translateOnce(ctx context.Context, translator providers.Translator, input TranslationInput) Record {
	record := Record{
		Provider: translator.Name(),
		Scenario: ScenarioTranslation,
		Language: input.Language(),
	}

	translation, elapsedMs, err := timed(func() (providers.Translation, error) {
		return translator.Translate(ctx, input.Source, input.Target, input.Text)
	})
	if err != nil {
		record.Error = err.Error()
		return record
	}

	record.OK = true
	record.ElapsedMs = elapsedMs
	record.CostTokens = translation.Tokens
	return record
}

// synthesizeOnce performs one timed synthesis call and converts the outcome
// into a record.
func synthesizeOnce(ctx context.Context, synthesizer providers.Synthesizer, language, text string) Record {
	record := Record{
		Provider: synthesizer.Name(),
		Scenario: ScenarioSpeech,
		Language: language,
	}

	audio, elapsedMs, err := timed(func() ([]byte, error) {
		return synthesizer.Synthesize(ctx, language, text)
	})
	if err != nil {
		record.Error = err.Error()
		return record
	}

	record.OK = true
	record.ElapsedMs = elapsedMs
	record.AudioBytes = len(audio)
	return record
}

// pipelineOnce chains a timed translation into a timed synthesis. When narrow
// is non-nil, the synthesis step runs under it (nested inside the scenario
// limiter the caller already holds). A failure in either step fails the whole
// chained record.
func pipelineOnce(
	ctx context.Context,
	translator providers.Translator, synthesizer providers.Synthesizer,
	narrow *limiter.Limiter, input TranslationInput,
) Record {
	record := Record{
		Provider: providers.Pair(translator.Name(), synthesizer.Name()),
		Scenario: ScenarioPipeline,
		Language: input.Language(),
	}

	translation, translateMs, err := timed(func() (providers.Translation, error) {
		return translator.Translate(ctx, input.Source, input.Target, input.Text)
	})
	if err != nil {
		record.Error = err.Error()
		return record
	}

	var audio []byte
	var synthesizeMs float64
	synthesize := func() error {
		var synthErr error
		audio, synthesizeMs, synthErr = timed(func() ([]byte, error) {
			return synthesizer.Synthesize(ctx, input.Target, translation.Text)
		})
		return synthErr
	}

	if narrow != nil {
		err = narrow.Run(ctx, synthesize)
	} else {
		err = synthesize()
	}
	if err != nil {
		record.Error = err.Error()
		return record
	}

	record.OK = true
	record.ElapsedMs = translateMs + synthesizeMs
	record.CostTokens = translation.Tokens
	record.AudioBytes = len(audio)
	return record
}

// failedRecord builds the record for a unit of work that could not run.
func failedRecord(provider providers.Name, scenario Scenario, language string, err error) Record {
	return Record{Provider: provider, Scenario: scenario, Language: language, Error: err.Error()}
}
