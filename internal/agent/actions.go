package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docwiseai/docwise/internal/config"
)

// SuggestedAction is one follow-up prompt proposed by the actions model.
// Title is shown to the user; Prompt is what gets sent when they pick it.
type SuggestedAction struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Prompt string `json:"prompt"`
}

type suggestedActionsResponse struct {
	SuggestedActions []SuggestedAction `json:"suggested_actions"`
}

// ActionsAgent proposes follow-up actions after each answered question. It
// runs on the small model with minimal reasoning and never continues a
// previous response.
type ActionsAgent struct {
	responder    Responder
	model        string
	instructions string
	log          *slog.Logger
}

func NewActionsAgent(responder Responder, cfg config.OpenAIConfig, instructions string, log *slog.Logger) *ActionsAgent {
	if log == nil {
		log = slog.Default()
	}
	return &ActionsAgent{
		responder:    responder,
		model:        cfg.SLMModelName,
		instructions: instructions,
		log:          log.With(slog.String("component", "actions_agent")),
	}
}

// Propose generates the next batch of suggested actions from the user's
// input, the agent's answer, and the governing instructions. Output that is
// not valid JSON yields an empty batch, not an error.
func (a *ActionsAgent) Propose(ctx context.Context, userInput, agentResponse, agentInstructions string) ([]SuggestedAction, error) {
	input := fmt.Sprintf("# User Input:\n```\n%s\n```\n\n# Agent Response:\n```\n%s\n```\n\n# Agent Instructions:\n```\n%s\n```\n",
		userInput, agentResponse, agentInstructions)

	result, err := a.responder.Respond(ctx, Request{
		Model:        a.model,
		Instructions: a.instructions,
		Input:        input,
		Effort:       "minimal",
	})
	if err != nil {
		return nil, fmt.Errorf("suggested actions: %w", err)
	}

	parsed, ok := DecodeLenient[suggestedActionsResponse](result.Text)
	if !ok {
		a.log.Error("suggested actions response did not parse",
			slog.String("text", result.Text))
		return nil, nil
	}
	a.log.Info("suggested actions generated",
		slog.Int("count", len(parsed.SuggestedActions)))
	return parsed.SuggestedActions, nil
}
