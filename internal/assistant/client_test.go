package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTranscribe_SendsBase64AndAuth(t *testing.T) {
	var got transcribeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Transcript{Text: "вызови такси"})
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	tr, err := c.Transcribe(context.Background(), []byte("pcm-bytes"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if tr.Text != "вызови такси" {
		t.Fatalf("text = %q", tr.Text)
	}
	if got.Action != "chat" {
		t.Fatalf("action = %q", got.Action)
	}
	if raw, _ := base64.StdEncoding.DecodeString(got.Audio); string(raw) != "pcm-bytes" {
		t.Fatalf("audio payload did not round-trip: %q", got.Audio)
	}
}

func TestComplete_ReturnsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Service != "taxi" || len(req.Context) != 1 {
			t.Errorf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(completeResponse{Response: "Машина уже в пути"})
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	out, err := c.Complete(context.Background(), "где машина?", "taxi", []string{"вызови такси"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Машина уже в пути" {
		t.Fatalf("response = %q", out)
	}
}

func TestPost_NonOKBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	_, err := c.Transcribe(context.Background(), []byte("x"))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Body != "model overloaded" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestPost_TimeoutWithoutCallerDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(Transcript{Text: "late"})
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	if _, err := c.Transcribe(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected timeout error")
	}
}
