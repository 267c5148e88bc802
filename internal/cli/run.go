package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/callscope/voicebench/internal/config"
	"github.com/callscope/voicebench/internal/report"
	"github.com/callscope/voicebench/pkg/bench"
	"github.com/callscope/voicebench/pkg/limiter"
	"github.com/callscope/voicebench/pkg/providers"
)

var (
	runOutputDir *string
	runScenarios *[]string
)

// runCmd represents the `run` command: the benchmark driver.
//
// It composes the provider adapters under the configured concurrency
// limiters, invokes the selected scenario runners concurrently, aggregates
// the accumulated measurements, prints the summary table, and optionally
// writes the JSON report artifact.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the provider latency benchmark.",
	Long: `Runs the selected benchmark scenarios against the configured providers and
prints a per-(provider, scenario) summary of latency percentiles and success
rates. Secondary providers without a configured credential are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		if message := validateRunFlags(); message != "" {
			fmt.Println(message)
			os.Exit(1)
		}

		cfg, err := config.Load(rootConfigPath)
		if err != nil {
			fmt.Println("Failed to load configuration:", err)
			os.Exit(1)
		}
		if *runOutputDir != "" {
			cfg.OutputDir = *runOutputDir
		}

		records := executeScenarios(cmd.Context(), cfg, *runScenarios)

		rows := bench.Summarize(records)
		report.RenderSummary(os.Stdout, rows)

		if cfg.OutputDir == "" {
			return
		}
		document := report.Document{GeneratedAt: time.Now().UTC(), Summary: rows, Records: records}
		path, err := report.Write(cfg.OutputDir, document)
		if err != nil {
			fmt.Println("Failed to write report:", err)
			os.Exit(1)
		}
		fmt.Println(text.FgGreen.Sprint("Report written to " + path))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runOutputDir = runCmd.Flags().StringP("output-dir", "o",
		"", "Directory for the JSON report. Empty disables the report.")

	runScenarios = runCmd.Flags().StringSliceP("scenarios", "s",
		[]string{string(bench.ScenarioTranslation), string(bench.ScenarioSpeech), string(bench.ScenarioPipeline)},
		"Scenarios to run.")
}

// executeScenarios builds the providers and limiters from configuration and
// runs the enabled scenario runners concurrently, returning every accumulated
// measurement once all of them have settled.
func executeScenarios(ctx context.Context, cfg config.Config, scenarios []string) []bench.Record {
	enabled := make(map[bench.Scenario]bool, len(scenarios))
	for _, scenario := range scenarios {
		enabled[bench.Scenario(scenario)] = true
	}

	// Primary providers are always constructed: a missing primary credential
	// fails its calls individually rather than skipping the provider.
	primaryTranslator := providers.NewOpenAIChat(cfg.OpenAI.APIKey, cfg.OpenAI.URL, cfg.OpenAI.Model)
	primarySynthesizer := providers.NewOpenAIRealtime(cfg.Realtime.APIKey, cfg.Realtime.URL, cfg.Realtime.Voice, cfg.RealtimeTimeout())

	// Secondary providers are optional baselines: absent credentials mean
	// they are skipped entirely, producing zero records.
	var secondaryTranslator providers.Translator
	if cfg.Groq.APIKey != "" {
		secondaryTranslator = providers.NewGroqChat(cfg.Groq.APIKey, cfg.Groq.URL, cfg.Groq.Model)
	} else {
		fmt.Println(text.FgYellow.Sprint("GROQ_API_KEY not set, skipping the secondary translation provider."))
	}
	var secondarySynthesizer providers.Synthesizer
	if cfg.ElevenLabs.APIKey != "" {
		secondarySynthesizer = providers.NewElevenLabs(cfg.ElevenLabs.APIKey, cfg.ElevenLabs.URL, cfg.ElevenLabs.Voice, cfg.ElevenLabs.Model)
	} else {
		fmt.Println(text.FgYellow.Sprint("ELEVENLABS_API_KEY not set, skipping the secondary speech provider."))
	}

	translationPool := limiter.New(cfg.TranslationConcurrency)
	speechPool := limiter.New(cfg.SpeechConcurrency)
	narrowPool := limiter.New(cfg.ElevenLabsConcurrency)

	translationInputs := bench.DefaultTranslationInputs()
	speechInputs := bench.DefaultSpeechInputs()

	out := &bench.Collector{}
	var wg sync.WaitGroup

	runScenario := func(scenario bench.Scenario, run func()) {
		if !enabled[scenario] {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Running %s scenario...\n", scenario)
			run()
			fmt.Printf("Scenario %s complete.\n", scenario)
		}()
	}

	runScenario(bench.ScenarioTranslation, func() {
		bench.TranslationRunner{
			Primary:   primaryTranslator,
			Secondary: secondaryTranslator,
			Limiter:   translationPool,
		}.Run(ctx, translationInputs, out)
	})

	runScenario(bench.ScenarioSpeech, func() {
		bench.SpeechRunner{
			Primary:   primarySynthesizer,
			Secondary: secondarySynthesizer,
			Limiter:   speechPool,
			Narrow:    narrowPool,
		}.Run(ctx, speechInputs, out)
	})

	runScenario(bench.ScenarioPipeline, func() {
		bench.PipelineRunner{
			PrimaryTranslator:    primaryTranslator,
			PrimarySynthesizer:   primarySynthesizer,
			SecondaryTranslator:  secondaryTranslator,
			SecondarySynthesizer: secondarySynthesizer,
			Limiter:              speechPool,
			Narrow:               narrowPool,
		}.Run(ctx, translationInputs, out)
	})

	wg.Wait()
	return out.Records()
}
