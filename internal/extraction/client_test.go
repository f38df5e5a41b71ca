package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docwiseai/docwise/internal/config"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.DocIntelConfig{
		Endpoint:     srv.URL,
		APIKey:       "test-key",
		ModelID:      "prebuilt-layout",
		APIVersion:   "2024-11-30",
		PollInterval: config.Duration{Duration: time.Millisecond},
	}, nil)
	return client, srv
}

func TestExtract_PollsUntilSucceeded(t *testing.T) {
	t.Parallel()
	var polls atomic.Int32
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("GET /files/report.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.7 fake"))
	})
	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Base64Source == "" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		status := operationStatus{Status: "running"}
		if polls.Add(1) >= 3 {
			status = operationStatus{
				Status:        "succeeded",
				AnalyzeResult: &AnalyzeResult{Content: "hello document"},
			}
		}
		json.NewEncoder(w).Encode(status)
	})

	client, server := testClient(t, mux)
	srv = server
	result, err := client.Extract(context.Background(), srv.URL+"/files/report.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.Content != "hello document" {
		t.Fatalf("unexpected content: %q", result.Content)
	}
	if polls.Load() < 3 {
		t.Fatalf("expected at least 3 polls, got %d", polls.Load())
	}
}

func TestExtract_FailedOperation(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("GET /files/broken.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("junk"))
	})
	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-2")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(operationStatus{
			Status: "failed",
			Error:  &apiError{Code: "InvalidContent", Message: "not a document"},
		})
	})

	client, server := testClient(t, mux)
	srv = server
	if _, err := client.Extract(context.Background(), srv.URL+"/files/broken.pdf"); err == nil {
		t.Fatal("expected error for failed operation")
	}
}

func TestExtract_DownloadFailure(t *testing.T) {
	t.Parallel()
	client, srv := testClient(t, http.NotFoundHandler())
	if _, err := client.Extract(context.Background(), srv.URL+"/files/missing.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtract_PollHonorsCancellation(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("GET /files/slow.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pdf"))
	})
	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-3")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(operationStatus{Status: "running"})
	})

	client, server := testClient(t, mux)
	srv = server
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	if _, err := client.Extract(ctx, srv.URL+"/files/slow.pdf"); err == nil {
		t.Fatal("expected error after cancellation")
	}
}
