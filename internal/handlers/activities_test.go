package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/docwiseai/docwise/internal/activity"
)

type fakeProcessor struct {
	got activity.Activity
	err error
}

func (f *fakeProcessor) ProcessActivity(_ context.Context, act activity.Activity) error {
	f.got = act
	return f.err
}

func postActivity(h *ActivitiesHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	h.Register(e)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPostActivity(t *testing.T) {
	t.Parallel()
	processor := &fakeProcessor{}
	h := NewActivitiesHandler(processor, slog.Default())

	rec := postActivity(h, `{"type":"message","text":"hi","conversation":{"id":"conv-1"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if processor.got.Text != "hi" || processor.got.Conversation.ID != "conv-1" {
		t.Fatalf("activity not decoded: %+v", processor.got)
	}
}

func TestPostActivity_BadPayload(t *testing.T) {
	t.Parallel()
	h := NewActivitiesHandler(&fakeProcessor{}, slog.Default())
	rec := postActivity(h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPostActivity_ProcessorError(t *testing.T) {
	t.Parallel()
	h := NewActivitiesHandler(&fakeProcessor{err: errors.New("boom")}, slog.Default())
	rec := postActivity(h, `{"type":"message"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
