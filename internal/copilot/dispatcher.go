package copilot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docwiseai/docwise/internal/activity"
	"github.com/docwiseai/docwise/internal/agent"
	"github.com/docwiseai/docwise/internal/state"
	"github.com/docwiseai/docwise/internal/teams"
)

const welcomeText = "Welcome to the Large File Processing agent! " +
	"This agent helps you to reason over large PDF files. " +
	"Please upload a single PDF file to get started. " +
	"Once the file is processed, you can ask questions about its content. " +
	"Feel free to ask me anything related to the document you upload! "

const (
	actionTitleLegalDescriptions = "Legal Descriptions and Discrepancies"
	actionTitleSummarizeDocument = "Summarize the Document"
)

// Proposer generates the next batch of suggested actions.
type Proposer interface {
	Propose(ctx context.Context, userInput, agentResponse, agentInstructions string) ([]agent.SuggestedAction, error)
}

// Dispatcher routes each inbound activity to the right turn flow and owns
// the per-turn state read/write cycle.
type Dispatcher struct {
	store           state.Store
	handler         Handler
	sender          teams.Sender
	proposer        Proposer
	docInstructions string
	log             *slog.Logger
}

func NewDispatcher(store state.Store, handler Handler, sender teams.Sender, proposer Proposer, docInstructions string, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		store:           store,
		handler:         handler,
		sender:          sender,
		proposer:        proposer,
		docInstructions: docInstructions,
		log:             log.With(slog.String("component", "dispatcher")),
	}
}

// ProcessActivity handles one inbound activity. Conversation updates that
// add members get the welcome message; messages run a full turn; anything
// else is ignored.
func (d *Dispatcher) ProcessActivity(ctx context.Context, act activity.Activity) error {
	switch {
	case act.MembersJoined():
		reply := act.Reply(activity.TypeMessage)
		reply.Text = welcomeText
		_, err := d.sender.SendActivity(ctx, reply)
		return err
	case act.IsMessage():
		return d.processTurn(ctx, act)
	default:
		d.log.Debug("ignoring activity", slog.String("type", string(act.Type)))
		return nil
	}
}

// processTurn runs one turn: command interceptor first, then exactly one of
// the three flows. The state record is read once at the start and written
// back once at the end, whichever flow ran.
func (d *Dispatcher) processTurn(ctx context.Context, act activity.Activity) error {
	log := d.log.With(
		slog.String("conversation_id", act.Conversation.ID),
		slog.String("activity_id", act.ID))
	log.Info("processing message activity")

	rec, err := d.store.Get(ctx, act.Conversation.ID)
	if err != nil {
		return fmt.Errorf("load conversation state: %w", err)
	}

	stream := teams.NewStream(d.sender, act, d.log)
	turn := &Turn{
		Activity: act,
		Prompt:   teams.UserPrompt(d.log, act),
		Stream:   stream,
	}
	collector := NewActionCollector(act)

	if turnErr := d.run(ctx, turn, &rec, collector); turnErr != nil {
		d.handler.HandleErrorResponse(ctx, turn, turnErr)
		if err := stream.Close(ctx); err != nil {
			log.Error("failed to close stream", slog.Any("error", err))
		}
		return turnErr
	}

	if err := collector.Send(ctx, d.sender, log); err != nil {
		log.Error("failed to send suggested actions", slog.Any("error", err))
	}

	rec.SuggestedActions = collector.Prompts()
	if err := d.store.Put(ctx, act.Conversation.ID, rec); err != nil {
		return fmt.Errorf("save conversation state: %w", err)
	}

	if err := stream.Close(ctx); err != nil {
		log.Error("failed to close stream", slog.Any("error", err))
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, turn *Turn, rec *state.Record, collector *ActionCollector) error {
	handled, err := d.handler.HandleCommands(ctx, turn, rec)
	if err != nil || handled {
		return err
	}

	switch {
	// Teams attaches the message body as an implicit attachment, so a real
	// file upload shows up as more than one attachment.
	case len(turn.Activity.Attachments) > 1:
		if err := d.handler.HandleAttachments(ctx, turn, rec); err != nil {
			return err
		}
		collector.Add(actionTitleLegalDescriptions, string(ScenarioLegalDescriptions))
		collector.Add(actionTitleSummarizeDocument, string(ScenarioSummarizeDocument))
		return nil

	case rec.FileUploaded && rec.Instructions != nil:
		response, err := d.handler.HandleAgentResponse(ctx, turn, rec)
		if err != nil {
			return err
		}
		actions, err := d.proposer.Propose(ctx, turn.Activity.Text, response, d.docInstructions)
		if err != nil {
			return err
		}
		for _, action := range actions {
			collector.Add(action.Title, action.Prompt)
		}
		return nil

	default:
		return d.handler.HandleDefaultResponse(ctx, turn)
	}
}
