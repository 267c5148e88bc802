package cli

import (
	"fmt"

	"github.com/callscope/voicebench/pkg/bench"
)

// validScenarios is the closed set of scenario names the run command accepts.
var validScenarios = map[bench.Scenario]bool{
	bench.ScenarioTranslation: true,
	bench.ScenarioSpeech:      true,
	bench.ScenarioPipeline:    true,
}

// validateRunFlags validates the flags of the run command. It returns a
// user-facing message, empty when everything checks out.
func validateRunFlags() string {
	// At least one scenario must be selected.
	if len(*runScenarios) == 0 {
		return "At least one scenario is required."
	}

	// Every selected scenario must be one of the known three.
	for _, scenario := range *runScenarios {
		if !validScenarios[bench.Scenario(scenario)] {
			return fmt.Sprintf("Unknown scenario %q. Valid scenarios: %s, %s, %s.",
				scenario, bench.ScenarioTranslation, bench.ScenarioSpeech, bench.ScenarioPipeline)
		}
	}

	return ""
}
