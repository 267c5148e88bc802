package bench

// TranslationInput is one benchmark seed for the translation and pipeline
// scenarios. Inputs are constructed once at startup and shared read-only
// across concurrent tasks.
type TranslationInput struct {
	Source string
	Target string
	Text   string
}

// Language returns the record tag for a translation pair, e.g. "en->es".
func (in TranslationInput) Language() string {
	return in.Source + "->" + in.Target
}

// SpeechInput is one benchmark seed for the speech-synthesis scenario.
type SpeechInput struct {
	Language string
	Text     string
}

// DefaultTranslationInputs returns the built-in translation pairs: short
// call-center utterances across the language pairs the product supports.
func DefaultTranslationInputs() []TranslationInput {
	return []TranslationInput{
		{Source: "en", Target: "es", Text: "Thank you for calling, how can I help you today?"},
		{Source: "en", Target: "fr", Text: "Could you please confirm the last four digits of your account number?"},
		{Source: "en", Target: "de", Text: "I'm transferring you to a specialist who can resolve this right away."},
		{Source: "es", Target: "en", Text: "Mi pedido llegó dañado y quisiera solicitar un reemplazo."},
		{Source: "fr", Target: "en", Text: "Je n'arrive pas à me connecter à mon compte depuis hier soir."},
	}
}

// DefaultSpeechInputs returns the built-in synthesis prompts.
func DefaultSpeechInputs() []SpeechInput {
	return []SpeechInput{
		{Language: "en", Text: "Your call may be recorded for quality and training purposes."},
		{Language: "en", Text: "Please hold while I pull up your account details."},
		{Language: "es", Text: "Gracias por su paciencia, un agente le atenderá en breve."},
		{Language: "fr", Text: "Votre demande a bien été prise en compte."},
	}
}
