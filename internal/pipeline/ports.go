package pipeline

import "context"

// ModerationPort screens text for unsafe content.
type ModerationPort interface {
	Evaluate(ctx context.Context, text string) (ModerationResult, error)
}

// TranslationPort translates English text into the target language.
type TranslationPort interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// SpeechPort synthesizes speech audio for text in the target language.
type SpeechPort interface {
	Synthesize(ctx context.Context, text, targetLanguage string) ([]byte, error)
}
