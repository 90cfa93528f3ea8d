package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nkarpov/go-superapp-backend/internal/intent"
)

// ErrEmptyAudio is returned when a voice request carries no audio payload.
var ErrEmptyAudio = errors.New("empty audio payload")

// ErrEmptyUtterance is returned when a text command is blank.
var ErrEmptyUtterance = errors.New("empty utterance")

// API is the subset of the upstream client the service needs. *Client
// satisfies it; tests substitute fakes.
type API interface {
	Transcribe(ctx context.Context, audio []byte) (*Transcript, error)
	Complete(ctx context.Context, prompt, service string, history []string) (string, error)
}

// Result is the outcome of interpreting one spoken or typed command.
// Match is nil when the utterance routed nowhere; the client then shows the
// transcript and does nothing else.
type Result struct {
	Text  string        `json:"text"`
	Audio string        `json:"audio,omitempty"`
	Match *intent.Match `json:"match,omitempty"`
}

// Service turns raw voice clips and typed commands into navigation
// decisions: recognize the utterance upstream, then route it through the
// keyword table.
type Service struct {
	api    API
	router *intent.Router
}

// NewService wires the upstream API to an intent router.
func NewService(api API, router *intent.Router) *Service {
	return &Service{api: api, router: router}
}

// Voice recognizes a recorded clip and routes the transcript. An utterance
// that matches no rule is not an error: the result simply carries no match.
func (s *Service) Voice(ctx context.Context, audio []byte) (*Result, error) {
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	tr, err := s.api.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}

	res := &Result{Text: tr.Text, Audio: tr.Audio}
	if m, ok := s.router.Route(tr.Text); ok {
		res.Match = &m
	} else {
		log.Debug().Str("utterance", tr.Text).Msg("voice command matched no route")
	}
	return res, nil
}

// Text routes a typed command through the same keyword table as Voice.
func (s *Service) Text(ctx context.Context, utterance string) (*Result, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, ErrEmptyUtterance
	}

	res := &Result{Text: utterance}
	if m, ok := s.router.Route(utterance); ok {
		res.Match = &m
	}
	return res, nil
}
