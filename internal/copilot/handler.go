package copilot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docwiseai/docwise/internal/activity"
	"github.com/docwiseai/docwise/internal/agent"
	"github.com/docwiseai/docwise/internal/attachments"
	"github.com/docwiseai/docwise/internal/compress"
	"github.com/docwiseai/docwise/internal/config"
	"github.com/docwiseai/docwise/internal/extraction"
	"github.com/docwiseai/docwise/internal/state"
	"github.com/docwiseai/docwise/internal/teams"
)

const restartCommand = "/restart"

// Turn bundles everything one inbound message carries: the raw activity,
// the effective user prompt, and the outgoing response stream.
type Turn struct {
	Activity activity.Activity
	Prompt   string
	Stream   *teams.Stream
}

// Handler is the channel-specific side of turn processing. The dispatcher
// decides which operation runs; the handler owns the user-visible texts and
// the per-channel mechanics.
type Handler interface {
	// HandleCommands intercepts reserved commands. It returns true when a
	// command was processed and normal branch dispatch must be skipped.
	HandleCommands(ctx context.Context, turn *Turn, rec *state.Record) (bool, error)
	// HandleAttachments ingests uploaded documents into the record.
	HandleAttachments(ctx context.Context, turn *Turn, rec *state.Record) error
	// HandleAgentResponse answers the turn's question and returns the full
	// answer text.
	HandleAgentResponse(ctx context.Context, turn *Turn, rec *state.Record) (string, error)
	// HandleDefaultResponse asks the user to upload a document.
	HandleDefaultResponse(ctx context.Context, turn *Turn) error
	// HandleErrorResponse notifies the user that the turn failed. The error
	// still propagates afterwards.
	HandleErrorResponse(ctx context.Context, turn *Turn, turnErr error)
}

// Extractor runs layout analysis for one document URL.
type Extractor interface {
	Extract(ctx context.Context, fileURL string) (extraction.AnalyzeResult, error)
}

// Asker streams an answer about the ingested document.
type Asker interface {
	Ask(ctx context.Context, instructions, input, previousResponseID string, onDelta func(delta string) error) (agent.Result, error)
}

// TeamsHandler implements Handler for the Teams channel.
type TeamsHandler struct {
	extractor  Extractor
	asker      Asker
	summarizer extraction.Summarizer
	cfg        config.CopilotConfig
	log        *slog.Logger
}

func NewTeamsHandler(extractor Extractor, asker Asker, summarizer extraction.Summarizer, cfg config.CopilotConfig, log *slog.Logger) *TeamsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TeamsHandler{
		extractor:  extractor,
		asker:      asker,
		summarizer: summarizer,
		cfg:        cfg,
		log:        log.With(slog.String("component", "teams_handler")),
	}
}

func (h *TeamsHandler) HandleCommands(ctx context.Context, turn *Turn, rec *state.Record) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(turn.Prompt)) {
	case restartCommand:
		h.log.Info("restart command detected")
		if err := turn.Stream.Informative(ctx, "Restarting conversation and resetting context... "); err != nil {
			return true, err
		}
		rec.Reset()
		err := turn.Stream.Chunk(ctx, "Your conversation has been reset. You can start fresh now! Please upload a new file when you are ready to reason over the file.")
		return true, err
	default:
		return false, nil
	}
}

func (h *TeamsHandler) HandleAttachments(ctx context.Context, turn *Turn, rec *state.Record) error {
	if err := turn.Stream.Chunk(ctx, "I see that you just uploaded new files. Let me process them... "); err != nil {
		return err
	}

	classified := attachments.Classify(h.log, turn.Activity.Attachments, attachments.Options{
		SupportedContentTypes: []string{activity.ContentTypeFileDownloadInfo},
		SupportedFileTypes:    h.cfg.SupportedFileTypes,
		IgnoredContentTypes:   []string{activity.ContentTypeHTML},
	})

	if len(classified.Supported) > 0 {
		if err := h.ingestDocument(ctx, turn, rec, classified.Supported); err != nil {
			return err
		}
	} else {
		h.log.Info("no supported attachments detected")
		if err := turn.Stream.Chunk(ctx, "I could not find any supported document in the attachments you uploaded. Please upload PDF documents only. "); err != nil {
			return err
		}
	}

	if len(classified.Unsupported) > 0 {
		names := attachments.Names(classified.Unsupported)
		h.log.Info("unsupported attachments ignored", slog.Any("names", names))
		text := fmt.Sprintf("\nNOTE: The following files you uploaded are not supported and have been ignored: %v. Please upload PDF documents only. ", names)
		if err := turn.Stream.Chunk(ctx, text); err != nil {
			return err
		}
	}
	return nil
}

// ingestDocument processes the first supported attachment only; additional
// ones are reported as skipped. One document at a time.
func (h *TeamsHandler) ingestDocument(ctx context.Context, turn *Turn, rec *state.Record, supported []activity.Attachment) error {
	first := supported[0]
	h.log.Info("processing attachment", slog.String("name", first.Name))

	if err := turn.Stream.Chunk(ctx, fmt.Sprintf("\n\nProcessing file `%s` ... ", first.Name)); err != nil {
		return err
	}
	if err := turn.Stream.Chunk(ctx, "\n(  0%) Loading file ... "); err != nil {
		return err
	}
	content, err := attachments.ParseContent(first.Content)
	if err != nil {
		return fmt.Errorf("attachment content: %w", err)
	}

	if err := turn.Stream.Chunk(ctx, "\n(  5%) Extracting text from file ... "); err != nil {
		return err
	}
	result, err := h.extractor.Extract(ctx, content.DownloadURL)
	if err != nil {
		return err
	}

	if err := turn.Stream.Chunk(ctx, "\n( 80%) Cleaning extracted data ... "); err != nil {
		return err
	}
	cleaned, err := extraction.Clean(ctx, h.log, result, extraction.CleanOptions{
		KeepParagraphs:  true,
		KeepTables:      true,
		SummarizeTables: h.cfg.SummarizeTables,
	}, h.summarizer)
	if err != nil {
		return err
	}

	h.log.Info("attachment processed", slog.String("name", first.Name))
	if err := turn.Stream.Chunk(ctx, "\n(100%) File processing completed.\n"); err != nil {
		return err
	}

	if len(supported) > 1 {
		names := attachments.Names(supported)
		text := fmt.Sprintf("\n\nNote: I could see that you uploaded the following supported files: %v. However, I only support one document at a time. Only the first item has been added to the context (`%s`). You can upload a new file at any time to replace it. ", names, first.Name)
		if err := turn.Stream.Chunk(ctx, text); err != nil {
			return err
		}
	}

	compressed, err := compress.String(h.cfg.DocumentInstructions + "\n" + cleaned.JSON)
	if err != nil {
		return fmt.Errorf("compress instructions: %w", err)
	}
	rec.FileUploaded = true
	rec.Instructions = &compressed
	return nil
}

func (h *TeamsHandler) HandleAgentResponse(ctx context.Context, turn *Turn, rec *state.Record) (string, error) {
	if err := turn.Stream.Informative(ctx, "Let me think about that... "); err != nil {
		return "", err
	}

	instructions, err := compress.Decompress(*rec.Instructions)
	if err != nil {
		return "", fmt.Errorf("decompress instructions: %w", err)
	}

	prompt := turn.Prompt
	if stored, ok := rec.SuggestedActions[prompt]; ok {
		h.log.Info("user prompt matches a suggested action")
		prompt = stored
	}

	previousResponseID := ""
	if rec.LastResponseID != nil {
		previousResponseID = *rec.LastResponseID
	}

	result, err := h.asker.Ask(ctx, instructions, prompt, previousResponseID, func(delta string) error {
		return turn.Stream.Chunk(ctx, delta)
	})
	if err != nil {
		return "", err
	}
	rec.LastResponseID = &result.ID
	return result.Text, nil
}

func (h *TeamsHandler) HandleDefaultResponse(ctx context.Context, turn *Turn) error {
	return turn.Stream.Chunk(ctx, "Please upload a PDF file before we proceed.")
}

func (h *TeamsHandler) HandleErrorResponse(ctx context.Context, turn *Turn, turnErr error) {
	h.log.Error("turn failed",
		slog.String("conversation_id", turn.Activity.Conversation.ID),
		slog.String("activity_id", turn.Activity.ID),
		slog.Any("error", turnErr))
	if err := turn.Stream.Chunk(ctx, userFacingMessage(turnErr)); err != nil {
		h.log.Error("failed to deliver error message", slog.Any("error", err))
	}
}
