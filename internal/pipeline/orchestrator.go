// Package pipeline contains the moderation -> translation -> synthesis
// orchestration core. The orchestrator drives a single State through the
// stage machine, invoking each external port at most once per run. Retry and
// circuit breaking live in the resilience decorators around the ports, never
// here.
package pipeline

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/linguaai/translation-gateway/internal/language"
	"github.com/linguaai/translation-gateway/internal/observability"
)

const (
	stageModeration  = "moderation"
	stageTranslation = "translation"
	stageSynthesis   = "synthesis"
)

// Orchestrator sequences the three external service calls for one run.
// It holds no mutable state of its own, so a single instance is safe for
// concurrent use as long as the underlying ports are.
type Orchestrator struct {
	moderation  ModerationPort
	translation TranslationPort
	speech      SpeechPort
}

// New creates an orchestrator over the three service ports.
func New(moderation ModerationPort, translation TranslationPort, speech SpeechPort) *Orchestrator {
	return &Orchestrator{
		moderation:  moderation,
		translation: translation,
		speech:      speech,
	}
}

// Run validates the input, then drives a fresh State through moderation,
// translation, and synthesis. Blocked and Failed are ordinary return values;
// the returned error is non-nil only for invalid caller input, in which case
// no port was invoked and no State exists.
func (o *Orchestrator) Run(ctx context.Context, inputText, targetLanguage string) (*State, error) {
	text := strings.TrimSpace(inputText)
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "input text must not be empty"}
	}
	lang, ok := language.Lookup(targetLanguage)
	if !ok {
		return nil, &ValidationError{Field: "target_language", Message: "unsupported target language " + strings.TrimSpace(targetLanguage)}
	}

	st := &State{
		RunID:          observability.NewRunID(),
		InputText:      text,
		TargetLanguage: lang.Code,
		Stage:          StageInit,
	}
	logger := observability.WithRunID(st.RunID).With().
		Str("target_language", lang.Code).
		Logger()
	metrics := observability.NewRunMetrics()

	st.advance(StageModerating)
	logger.Debug().Str("stage", st.Stage.String()).Msg("Evaluating content safety")
	metrics.StageStart()
	moderation, err := o.moderation.Evaluate(ctx, text)
	metrics.StageEnd(stageModeration, err == nil)
	if err != nil {
		return o.failed(st, ErrModeration, err, logger, metrics), nil
	}
	st.Moderation = &moderation

	if moderation.Flagged {
		st.advance(StageBlocked)
		observability.RecordFlaggedCategories(moderation.Categories)
		metrics.End(st.Stage.String())
		logger.Info().
			Strs("categories", moderation.Categories).
			Msg("Content blocked by moderation")
		return st, nil
	}
	st.advance(StageModerated)

	st.advance(StageTranslating)
	logger.Debug().Str("stage", st.Stage.String()).Msg("Translating text")
	metrics.StageStart()
	translated, err := o.translation.Translate(ctx, text, lang.Code)
	metrics.StageEnd(stageTranslation, err == nil)
	if err != nil {
		return o.failed(st, ErrTranslation, err, logger, metrics), nil
	}
	st.TranslatedText = translated
	st.advance(StageTranslated)

	st.advance(StageSynthesizing)
	logger.Debug().Str("stage", st.Stage.String()).Msg("Synthesizing speech")
	metrics.StageStart()
	audio, err := o.speech.Synthesize(ctx, translated, lang.Code)
	metrics.StageEnd(stageSynthesis, err == nil)
	if err != nil {
		// TranslatedText stays populated so the caller can still show
		// the translation without audio.
		return o.failed(st, ErrSynthesis, err, logger, metrics), nil
	}
	st.AudioData = audio
	st.advance(StageDone)

	observability.RecordAudioBytes(len(audio))
	metrics.End(st.Stage.String())
	logger.Info().
		Int("audio_bytes", len(audio)).
		Msg("Pipeline run completed")
	return st, nil
}

func (o *Orchestrator) failed(st *State, kind ErrorKind, err error, logger zerolog.Logger, metrics *observability.RunMetrics) *State {
	st.fail(kind, AsPortError(err))
	metrics.End(st.Stage.String())
	logger.Error().
		Err(err).
		Str("error_kind", string(kind)).
		Msg("Pipeline run failed")
	return st
}
