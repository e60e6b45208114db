package pipeline

// Stage identifies how far a pipeline run has progressed.
type Stage int

const (
	StageInit Stage = iota
	StageModerating
	StageModerated
	StageTranslating
	StageTranslated
	StageSynthesizing
	StageDone
	StageBlocked
	StageFailed
)

var stageNames = map[Stage]string{
	StageInit:         "init",
	StageModerating:   "moderating",
	StageModerated:    "moderated",
	StageTranslating:  "translating",
	StageTranslated:   "translated",
	StageSynthesizing: "synthesizing",
	StageDone:         "done",
	StageBlocked:      "blocked",
	StageFailed:       "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition can occur from s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageBlocked || s == StageFailed
}

// ModerationResult is the outcome of the content safety evaluation.
type ModerationResult struct {
	Flagged    bool
	Categories []string
}

// State is the record threaded through one pipeline run. The orchestrator
// owns it exclusively for the duration of the run; callers must branch on
// Stage before reading the optional fields.
type State struct {
	// RunID correlates log lines and metrics for this run.
	RunID string

	// InputText is the trimmed caller input. Immutable after creation.
	InputText string

	// TargetLanguage is the canonical BCP-47 tag. Immutable after creation.
	TargetLanguage string

	// Stage advances monotonically and freezes at the first terminal stage.
	Stage Stage

	// Moderation is set once by the moderation stage.
	Moderation *ModerationResult

	// TranslatedText is set once by the translation stage. It remains
	// populated when synthesis fails afterwards, so the caller can still
	// show the translation.
	TranslatedText string

	// AudioData holds the synthesized audio. Present only when Stage is Done.
	AudioData []byte

	// Err is set on the transition to Failed and never afterwards.
	Err *StageError
}

// advance moves the state forward. Regressions and transitions out of a
// terminal stage are ignored; the orchestrator only ever requests forward
// moves, so a refused advance indicates a terminal state already reached.
func (s *State) advance(to Stage) bool {
	if s.Stage.Terminal() {
		return false
	}
	if to != StageBlocked && to != StageFailed && to <= s.Stage {
		return false
	}
	s.Stage = to
	return true
}

// fail records a terminal stage error. A state that is already terminal is
// left untouched.
func (s *State) fail(kind ErrorKind, port *PortError) bool {
	if s.Stage.Terminal() {
		return false
	}
	s.Err = &StageError{Kind: kind, Message: port.Error(), Port: port}
	s.Stage = StageFailed
	return true
}
