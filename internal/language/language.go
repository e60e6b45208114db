package language

import "strings"

// Language describes one supported translation target.
type Language struct {
	// Name is the human-readable display name, e.g. "Spanish".
	Name string `json:"name"`

	// Code is the BCP-47 tag used by the translation and speech services.
	Code string `json:"code"`

	// Voice is the Azure neural voice used for synthesis in this language.
	Voice string `json:"voice"`
}

// Voice names: https://learn.microsoft.com/azure/ai-services/speech-service/language-support
var supported = []Language{
	{Name: "Spanish", Code: "es-ES", Voice: "es-ES-AlvaroNeural"},
	{Name: "French", Code: "fr-FR", Voice: "fr-FR-HenriNeural"},
	{Name: "Italian", Code: "it-IT", Voice: "it-IT-DiegoNeural"},
	{Name: "German", Code: "de-DE", Voice: "de-DE-ConradNeural"},
	{Name: "Japanese", Code: "ja-JP", Voice: "ja-JP-KeitaNeural"},
}

// Supported returns all supported target languages in a stable order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Lookup resolves a language by display name ("Spanish"), full BCP-47 tag
// ("es-ES"), or bare primary subtag ("es"). Matching is case-insensitive.
func Lookup(nameOrCode string) (Language, bool) {
	key := strings.ToLower(strings.TrimSpace(nameOrCode))
	if key == "" {
		return Language{}, false
	}
	for _, lang := range supported {
		if key == strings.ToLower(lang.Name) || key == strings.ToLower(lang.Code) {
			return lang, true
		}
		if primary, _, found := strings.Cut(lang.Code, "-"); found && key == primary {
			return lang, true
		}
	}
	return Language{}, false
}

// IsSupported reports whether nameOrCode resolves to a supported language.
func IsSupported(nameOrCode string) bool {
	_, ok := Lookup(nameOrCode)
	return ok
}
