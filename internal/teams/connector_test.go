package teams

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docwiseai/docwise/internal/activity"
	"github.com/docwiseai/docwise/internal/config"
)

func TestConnector_SendActivity(t *testing.T) {
	t.Parallel()
	var gotAuth string
	var gotActivity activity.Activity

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tenant-1/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "connector-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("POST /v3/conversations/conv-1/activities", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotActivity); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "sent-1"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	connector := NewConnector(config.AuthConfig{
		TenantID:       "tenant-1",
		ClientID:       "client-1",
		ClientSecret:   "secret",
		LoginEndpoint:  srv.URL,
		ConnectorScope: "https://api.botframework.com/.default",
	}, nil)

	act := inboundActivity().Reply(activity.TypeMessage)
	act.ServiceURL = srv.URL
	act.Text = "hello"

	id, err := connector.SendActivity(context.Background(), act)
	if err != nil {
		t.Fatalf("SendActivity: %v", err)
	}
	if id != "sent-1" {
		t.Fatalf("id = %q", id)
	}
	if !strings.HasPrefix(gotAuth, "Bearer ") || !strings.Contains(gotAuth, "connector-token") {
		t.Fatalf("missing bearer token: %q", gotAuth)
	}
	if gotActivity.Text != "hello" || gotActivity.Conversation.ID != "conv-1" {
		t.Fatalf("unexpected posted activity: %+v", gotActivity)
	}
}

func TestConnector_SendActivityErrorStatus(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tenant-1/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "t", "token_type": "Bearer", "expires_in": 3600,
		})
	})
	mux.HandleFunc("POST /v3/conversations/conv-1/activities", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	connector := NewConnector(config.AuthConfig{
		TenantID:      "tenant-1",
		ClientID:      "client-1",
		ClientSecret:  "secret",
		LoginEndpoint: srv.URL,
	}, nil)

	act := inboundActivity().Reply(activity.TypeMessage)
	act.ServiceURL = srv.URL
	if _, err := connector.SendActivity(context.Background(), act); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}
