// Package agent wraps the hosted model API behind small task-specific
// agents: streamed document Q&A, suggested-action generation, and table
// summarization. All calls go through the Responses API so multi-turn
// context is carried by a continuation id instead of resent history.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/docwiseai/docwise/internal/config"
)

// Request is one model invocation.
type Request struct {
	Model              string
	Instructions       string
	Input              string
	PreviousResponseID string
	Effort             string
}

// Result carries the model output and the id to continue from next turn.
type Result struct {
	ID   string
	Text string
}

// Responder performs a blocking model call.
type Responder interface {
	Respond(ctx context.Context, req Request) (Result, error)
}

// Streamer performs a streamed model call, invoking onDelta per text chunk.
type Streamer interface {
	Stream(ctx context.Context, req Request, onDelta func(delta string) error) (Result, error)
}

// Client is the shared base for all agents.
type Client struct {
	api             openai.Client
	log             *slog.Logger
	maxOutputTokens int64
}

func NewClient(cfg config.OpenAIConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL()),
		),
		log:             log.With(slog.String("component", "agent")),
		maxOutputTokens: cfg.MaxOutputTokens,
	}
}

func (c *Client) params(req Request) responses.ResponseNewParams {
	p := responses.ResponseNewParams{
		Model:           req.Model,
		MaxOutputTokens: openai.Int(c.maxOutputTokens),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Input)},
		ToolChoice: responses.ResponseNewParamsToolChoiceUnion{
			OfToolChoiceMode: openai.Opt(responses.ToolChoiceOptionsNone),
		},
	}
	if req.Instructions != "" {
		p.Instructions = openai.String(req.Instructions)
	}
	if req.PreviousResponseID != "" {
		p.PreviousResponseID = openai.String(req.PreviousResponseID)
	}
	if req.Effort != "" {
		p.Reasoning = openai.ReasoningParam{Effort: openai.ReasoningEffort(req.Effort)}
	}
	return p
}

// Respond performs a blocking call and returns the full output text.
func (c *Client) Respond(ctx context.Context, req Request) (Result, error) {
	resp, err := c.api.Responses.New(ctx, c.params(req))
	if err != nil {
		return Result{}, fmt.Errorf("model call: %w", err)
	}
	c.logUsage(req.Model, resp)
	return Result{ID: resp.ID, Text: resp.OutputText()}, nil
}

// Stream performs a streamed call. Each output-text delta is passed to
// onDelta as it arrives; the accumulated text and the final response id are
// returned once the stream completes.
func (c *Client) Stream(ctx context.Context, req Request, onDelta func(delta string) error) (Result, error) {
	stream := c.api.Responses.NewStreaming(ctx, c.params(req))
	defer stream.Close()

	var result Result
	var text strings.Builder
	for stream.Next() {
		ev := stream.Current()
		switch ev.Type {
		case "response.output_text.delta":
			text.WriteString(ev.Delta.OfString)
			if onDelta != nil {
				if err := onDelta(ev.Delta.OfString); err != nil {
					return Result{}, fmt.Errorf("stream delta: %w", err)
				}
			}
		case "response.completed":
			result.ID = ev.Response.ID
			c.logUsage(req.Model, &ev.Response)
		}
	}
	if err := stream.Err(); err != nil {
		c.log.Error("streamed model call failed", slog.Any("error", err))
		return Result{}, fmt.Errorf("model stream: %w", err)
	}
	result.Text = text.String()
	return result, nil
}

func (c *Client) logUsage(model string, resp *responses.Response) {
	if resp == nil {
		return
	}
	c.log.Info("model tokens consumed",
		slog.String("model", model),
		slog.Int64("input_tokens", resp.Usage.InputTokens),
		slog.Int64("output_tokens", resp.Usage.OutputTokens),
		slog.Int64("total_tokens", resp.Usage.TotalTokens))
}
