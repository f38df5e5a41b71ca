package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docwiseai/docwise/internal/config"
)

type fakeResponder struct {
	text    string
	err     error
	lastReq Request
}

func (f *fakeResponder) Respond(_ context.Context, req Request) (Result, error) {
	f.lastReq = req
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{ID: "resp_fake", Text: f.text}, nil
}

var testOpenAIConfig = config.OpenAIConfig{
	ModelName:    "gpt-5.1",
	SLMModelName: "gpt-5-mini",
}

func TestDecodeLenient(t *testing.T) {
	t.Parallel()
	type payload struct {
		Name string `json:"name"`
	}

	got, ok := DecodeLenient[payload](`{"name":"plain"}`)
	if !ok || got.Name != "plain" {
		t.Fatalf("plain JSON: ok=%v got=%+v", ok, got)
	}

	got, ok = DecodeLenient[payload]("```json\n{\"name\":\"fenced\"}\n```")
	if !ok || got.Name != "fenced" {
		t.Fatalf("fenced JSON: ok=%v got=%+v", ok, got)
	}

	if _, ok := DecodeLenient[payload]("I cannot produce JSON for that."); ok {
		t.Fatal("prose must not decode")
	}
	if _, ok := DecodeLenient[payload](""); ok {
		t.Fatal("empty text must not decode")
	}
}

func TestActionsAgent_ParsesActions(t *testing.T) {
	t.Parallel()
	responder := &fakeResponder{
		text: `{"suggested_actions":[{"title":"Summarize","value":"Summarize","prompt":"Summarize the document!"}]}`,
	}
	agent := NewActionsAgent(responder, testOpenAIConfig, "actions instructions", nil)

	actions, err := agent.Propose(context.Background(), "what is this?", "a deed of trust", "doc instructions")
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(actions) != 1 || actions[0].Prompt != "Summarize the document!" {
		t.Fatalf("unexpected actions: %+v", actions)
	}
	if responder.lastReq.Model != "gpt-5-mini" {
		t.Fatalf("actions must run on the small model, got %q", responder.lastReq.Model)
	}
	if responder.lastReq.PreviousResponseID != "" {
		t.Fatal("actions call must not continue a previous response")
	}
	for _, section := range []string{"# User Input:", "# Agent Response:", "# Agent Instructions:"} {
		if !strings.Contains(responder.lastReq.Input, section) {
			t.Fatalf("prompt missing section %q:\n%s", section, responder.lastReq.Input)
		}
	}
}

func TestActionsAgent_MalformedJSONYieldsEmpty(t *testing.T) {
	t.Parallel()
	responder := &fakeResponder{text: "Sorry, here are some ideas instead: ..."}
	agent := NewActionsAgent(responder, testOpenAIConfig, "", nil)

	actions, err := agent.Propose(context.Background(), "q", "a", "i")
	if err != nil {
		t.Fatalf("malformed output must not error: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("want empty batch, got %+v", actions)
	}
}

func TestActionsAgent_ProviderErrorPropagates(t *testing.T) {
	t.Parallel()
	responder := &fakeResponder{err: errors.New("boom")}
	agent := NewActionsAgent(responder, testOpenAIConfig, "", nil)

	if _, err := agent.Propose(context.Background(), "q", "a", "i"); err == nil {
		t.Fatal("provider error must propagate")
	}
}

func TestTableSummarizer(t *testing.T) {
	t.Parallel()
	responder := &fakeResponder{text: `{"table_id":"t1","summary":"lot sizes by parcel"}`}
	summarizer := NewTableSummarizer(responder, testOpenAIConfig, "table instructions", nil)

	summary, err := summarizer.SummarizeTable(context.Background(), `{"rowCount":1}`)
	if err != nil {
		t.Fatalf("SummarizeTable: %v", err)
	}
	if summary == nil || summary.TableID != "t1" || summary.Summary != "lot sizes by parcel" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.HasPrefix(responder.lastReq.Input, "# Table Definition\n") {
		t.Fatalf("unexpected input: %q", responder.lastReq.Input)
	}

	responder.text = "not json"
	summary, err = summarizer.SummarizeTable(context.Background(), `{}`)
	if err != nil || summary != nil {
		t.Fatalf("unparseable summary must yield nil without error, got %+v, %v", summary, err)
	}
}
