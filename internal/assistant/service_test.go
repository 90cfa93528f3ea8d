package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/nkarpov/go-superapp-backend/internal/intent"
)

type fakeAPI struct {
	transcript *Transcript
	err        error
}

func (f *fakeAPI) Transcribe(context.Context, []byte) (*Transcript, error) {
	return f.transcript, f.err
}

func (f *fakeAPI) Complete(context.Context, string, string, []string) (string, error) {
	return "", f.err
}

func newTestService(api API) *Service {
	return NewService(api, intent.NewRouter(intent.DefaultRules()))
}

func TestVoice_RoutesTranscript(t *testing.T) {
	svc := newTestService(&fakeAPI{transcript: &Transcript{Text: "Вызови такси до офиса", Audio: "b64"}})

	res, err := svc.Voice(context.Background(), []byte("clip"))
	if err != nil {
		t.Fatalf("Voice: %v", err)
	}
	if res.Text != "Вызови такси до офиса" || res.Audio != "b64" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Match == nil || res.Match.Route != "/taxi" {
		t.Fatalf("expected taxi route, got %+v", res.Match)
	}
}

func TestVoice_UnroutableKeepsTranscriptOnly(t *testing.T) {
	svc := newTestService(&fakeAPI{transcript: &Transcript{Text: "какая сегодня погода"}})

	res, err := svc.Voice(context.Background(), []byte("clip"))
	if err != nil {
		t.Fatalf("Voice: %v", err)
	}
	if res.Match != nil {
		t.Fatalf("expected no match, got %+v", res.Match)
	}
	if res.Text != "какая сегодня погода" {
		t.Fatalf("transcript lost: %q", res.Text)
	}
}

func TestVoice_EmptyAudioRejected(t *testing.T) {
	svc := newTestService(&fakeAPI{})
	if _, err := svc.Voice(context.Background(), nil); !errors.Is(err, ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestVoice_UpstreamErrorPropagates(t *testing.T) {
	boom := &APIError{Status: 500, Body: "boom"}
	svc := newTestService(&fakeAPI{err: boom})

	_, err := svc.Voice(context.Background(), []byte("clip"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected upstream APIError, got %v", err)
	}
}

func TestText_RoutesAndValidates(t *testing.T) {
	svc := newTestService(&fakeAPI{})

	res, err := svc.Text(context.Background(), "  закажи еду  ")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if res.Match == nil || res.Match.Route != "/food" {
		t.Fatalf("expected food route, got %+v", res.Match)
	}

	if _, err := svc.Text(context.Background(), "   "); !errors.Is(err, ErrEmptyUtterance) {
		t.Fatalf("expected ErrEmptyUtterance, got %v", err)
	}
}
