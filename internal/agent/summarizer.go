package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docwiseai/docwise/internal/config"
	"github.com/docwiseai/docwise/internal/extraction"
)

// TableSummarizer condenses one extracted table into a short summary on the
// small model. It satisfies extraction.Summarizer.
type TableSummarizer struct {
	responder    Responder
	model        string
	instructions string
	log          *slog.Logger
}

func NewTableSummarizer(responder Responder, cfg config.OpenAIConfig, instructions string, log *slog.Logger) *TableSummarizer {
	if log == nil {
		log = slog.Default()
	}
	return &TableSummarizer{
		responder:    responder,
		model:        cfg.SLMModelName,
		instructions: instructions,
		log:          log.With(slog.String("component", "table_summarizer")),
	}
}

// SummarizeTable summarizes one table's JSON. A response that does not parse
// yields a nil summary without an error; the caller drops that table.
func (s *TableSummarizer) SummarizeTable(ctx context.Context, tableJSON string) (*extraction.TableSummary, error) {
	result, err := s.responder.Respond(ctx, Request{
		Model:        s.model,
		Instructions: s.instructions,
		Input:        "# Table Definition\n" + tableJSON,
		Effort:       "minimal",
	})
	if err != nil {
		return nil, fmt.Errorf("table summary: %w", err)
	}

	summary, ok := DecodeLenient[extraction.TableSummary](result.Text)
	if !ok {
		s.log.Error("table summary response did not parse",
			slog.String("text", result.Text))
		return nil, nil
	}
	return &summary, nil
}
