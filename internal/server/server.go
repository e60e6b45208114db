// Package server exposes the translation pipeline over a JSON HTTP API.
package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/linguaai/translation-gateway/internal/audio"
	"github.com/linguaai/translation-gateway/internal/language"
	"github.com/linguaai/translation-gateway/internal/observability"
	"github.com/linguaai/translation-gateway/internal/pipeline"
	"github.com/linguaai/translation-gateway/internal/recognition"
)

// audioMIMEType is the container the synthesis port produces.
const audioMIMEType = "audio/mpeg"

// Server holds the handlers for the public API.
type Server struct {
	orchestrator  *pipeline.Orchestrator
	recognizer    recognition.Client
	logger        zerolog.Logger
	maxTextBytes  int64
	maxAudioBytes int64
}

// Options bundles the server's collaborators and limits.
type Options struct {
	Orchestrator  *pipeline.Orchestrator
	Recognizer    recognition.Client
	MaxTextBytes  int64
	MaxAudioBytes int64
}

// New creates a Server.
func New(opts Options) *Server {
	return &Server{
		orchestrator:  opts.Orchestrator,
		recognizer:    opts.Recognizer,
		logger:        observability.GetLogger(),
		maxTextBytes:  opts.MaxTextBytes,
		maxAudioBytes: opts.MaxAudioBytes,
	}
}

// Register attaches the API routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/pipeline", s.handlePipeline)
	mux.HandleFunc("/v1/transcribe", s.handleTranscribe)
	mux.HandleFunc("/v1/languages", s.handleLanguages)
}

type pipelineRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
}

type moderationJSON struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories,omitempty"`
}

type errorJSON struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type pipelineResponse struct {
	RunID          string          `json:"run_id,omitempty"`
	Stage          string          `json:"stage"`
	TargetLanguage string          `json:"target_language,omitempty"`
	TranslatedText string          `json:"translated_text,omitempty"`
	Audio          string          `json:"audio,omitempty"`
	AudioFormat    string          `json:"audio_format,omitempty"`
	Moderation     *moderationJSON `json:"moderation,omitempty"`
	Error          *errorJSON      `json:"error,omitempty"`
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	var req pipelineRequest
	body := http.MaxBytesReader(w, r.Body, s.maxTextBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	st, err := s.orchestrator.Run(r.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		var ve *pipeline.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "validation_error", ve.Error())
			return
		}
		// Run only errors for validation; anything else is a bug surfaced loudly.
		s.logger.Error().Err(err).Msg("Unexpected orchestrator error")
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	resp := pipelineResponse{
		RunID:          st.RunID,
		Stage:          st.Stage.String(),
		TargetLanguage: st.TargetLanguage,
	}
	if st.Moderation != nil {
		resp.Moderation = &moderationJSON{
			Flagged:    st.Moderation.Flagged,
			Categories: st.Moderation.Categories,
		}
	}

	// Callers branch on stage; fields are present exactly when the stage
	// says they are, except that a failed synthesis still reports the
	// translation.
	switch st.Stage {
	case pipeline.StageDone:
		resp.TranslatedText = st.TranslatedText
		resp.Audio = base64.StdEncoding.EncodeToString(st.AudioData)
		resp.AudioFormat = audioMIMEType
	case pipeline.StageBlocked:
		// No translation, no audio.
	case pipeline.StageFailed:
		resp.TranslatedText = st.TranslatedText
		resp.Error = &errorJSON{
			Kind:    string(st.Err.Kind),
			Message: st.Err.Message,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type transcribeResponse struct {
	Recognized bool    `json:"recognized"`
	Text       string  `json:"text,omitempty"`
	DurationS  float64 `json:"duration_seconds"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxAudioBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "audio upload too large")
		return
	}

	info, err := audio.Inspect(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_audio", err.Error())
		return
	}

	start := time.Now()
	result, err := s.recognizer.Transcribe(r.Context(), body, r.URL.Query().Get("language"))
	observability.RecordStage("recognition", start, err == nil)
	if err != nil {
		pe := pipeline.AsPortError(err)
		status := http.StatusBadGateway
		if pe.Kind == pipeline.PortInvalidInput {
			status = http.StatusBadRequest
		}
		s.logger.Error().Err(err).Msg("Speech recognition failed")
		writeError(w, status, string(pe.Kind), pe.Message)
		return
	}

	writeJSON(w, http.StatusOK, transcribeResponse{
		Recognized: result.Recognized,
		Text:       result.Text,
		DurationS:  info.Duration().Seconds(),
	})
}

type languagesResponse struct {
	Languages []language.Language `json:"languages"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}
	writeJSON(w, http.StatusOK, languagesResponse{Languages: language.Supported()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, struct {
		Error errorJSON `json:"error"`
	}{Error: errorJSON{Kind: kind, Message: message}})
}
