// Package providers contains the adapters for the external vendors the
// benchmark exercises: two chat-completion providers used for text
// translation, and two speech-synthesis providers, one streaming (WebSocket)
// and one plain REST.
//
// Every adapter reports its identity through a Name from a closed set, so the
// aggregation layer can group measurements without resorting to free-form
// string tags.
package providers

import "context"

// Name identifies a provider adapter. The set of values is closed: the four
// constants below, plus composites produced by Pair for pipeline runs.
type Name string

const (
	// OpenAI is the primary chat-completion (translation) provider.
	OpenAI Name = "openai"
	// Groq is the optional secondary chat-completion provider.
	Groq Name = "groq"
	// OpenAIRealtime is the primary, WebSocket-streamed speech provider.
	OpenAIRealtime Name = "openai-realtime"
	// ElevenLabs is the optional secondary, REST speech provider.
	ElevenLabs Name = "elevenlabs"
)

// Pair returns the composite identity of a chained translation+synthesis run,
// e.g. "openai+openai-realtime".
func Pair(translator, synthesizer Name) Name {
	return translator + "+" + synthesizer
}

// Translation is the result of a single translation call.
type Translation struct {
	// Text is the translated text.
	Text string
	// Tokens is the total token usage the vendor reported for the call,
	// or zero when the response carried no usage block.
	Tokens int
}

// Translator is implemented by the chat-completion adapters.
type Translator interface {
	// Name returns the adapter's identity for measurement grouping.
	Name() Name
	// Translate translates text from the source to the target language.
	Translate(ctx context.Context, source, target, text string) (Translation, error)
}

// Synthesizer is implemented by the speech-synthesis adapters.
type Synthesizer interface {
	// Name returns the adapter's identity for measurement grouping.
	Name() Name
	// Synthesize renders text in the given language and returns the raw
	// audio payload.
	Synthesize(ctx context.Context, language, text string) ([]byte, error)
}
