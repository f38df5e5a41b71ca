package state

import (
	"context"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestRecordReset(t *testing.T) {
	t.Parallel()
	rec := Record{
		FileUploaded:     true,
		Instructions:     strPtr("compressed"),
		LastResponseID:   strPtr("resp_123"),
		SuggestedActions: map[string]string{"Summarize the Document": "prompt"},
	}
	rec.Reset()
	if rec.FileUploaded || rec.Instructions != nil || rec.LastResponseID != nil || rec.SuggestedActions != nil {
		t.Fatalf("Reset left fields populated: %+v", rec)
	}
}

func TestMemoryStoreMissYieldsDefault(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	rec, err := store.Get(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.FileUploaded || rec.Instructions != nil {
		t.Fatalf("miss should return default record, got %+v", rec)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	want := Record{
		FileUploaded:     true,
		Instructions:     strPtr("payload"),
		LastResponseID:   strPtr("resp_9"),
		SuggestedActions: map[string]string{"title": "prompt"},
	}
	if err := store.Put(ctx, "conv-1", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.FileUploaded || *got.Instructions != "payload" || *got.LastResponseID != "resp_9" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.SuggestedActions["title"] != "prompt" {
		t.Fatalf("suggested actions not persisted: %+v", got.SuggestedActions)
	}

	// Other keys stay untouched.
	other, err := store.Get(ctx, "conv-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if other.FileUploaded {
		t.Fatalf("unrelated key affected: %+v", other)
	}
}
