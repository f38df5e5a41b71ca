package agent

import (
	"context"
	"log/slog"

	"github.com/docwiseai/docwise/internal/config"
)

// DocumentAgent answers questions about an ingested document. The document
// itself travels inside the instructions; cross-turn context is carried by
// the previous response id, so each call sends only the new question.
type DocumentAgent struct {
	streamer Streamer
	model    string
	log      *slog.Logger
}

func NewDocumentAgent(streamer Streamer, cfg config.OpenAIConfig, log *slog.Logger) *DocumentAgent {
	if log == nil {
		log = slog.Default()
	}
	return &DocumentAgent{
		streamer: streamer,
		model:    cfg.ModelName,
		log:      log.With(slog.String("component", "document_agent")),
	}
}

// Ask streams the answer to input given the document instructions. The
// returned result id becomes the continuation id for the next question.
func (a *DocumentAgent) Ask(ctx context.Context, instructions, input, previousResponseID string, onDelta func(delta string) error) (Result, error) {
	a.log.Info("streaming document answer",
		slog.String("previous_response_id", previousResponseID))
	return a.streamer.Stream(ctx, Request{
		Model:              a.model,
		Instructions:       instructions,
		Input:              input,
		PreviousResponseID: previousResponseID,
		Effort:             "none",
	}, onDelta)
}
