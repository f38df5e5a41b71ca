package teams

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/docwiseai/docwise/internal/activity"
)

// Sender posts one activity and returns its connector-assigned id.
type Sender interface {
	SendActivity(ctx context.Context, act activity.Activity) (string, error)
}

// Stream emits one incremental response to the user: informative updates
// while the service works, cumulative text chunks while the model streams,
// and a final message carrying the full text.
//
// A Stream is used by a single turn goroutine; the mutex only guards
// against a redundant double close.
type Stream struct {
	sender  Sender
	inbound activity.Activity
	log     *slog.Logger

	mu       sync.Mutex
	streamID string
	sequence int
	text     strings.Builder
	closed   bool
}

func NewStream(sender Sender, inbound activity.Activity, log *slog.Logger) *Stream {
	if log == nil {
		log = slog.Default()
	}
	return &Stream{
		sender:  sender,
		inbound: inbound,
		log:     log.With(slog.String("component", "stream")),
	}
}

// Informative sends a status update that is displayed while the response is
// still being produced. It does not become part of the final text.
func (s *Stream) Informative(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send(ctx, activity.TypeTyping, text, activity.StreamTypeInformative)
}

// Chunk appends delta to the response text and pushes the accumulated text
// to the client.
func (s *Stream) Chunk(ctx context.Context, delta string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text.WriteString(delta)
	return s.send(ctx, activity.TypeTyping, s.text.String(), activity.StreamTypeStreaming)
}

// Text returns the response text accumulated so far.
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// Close sends the final message with the full accumulated text. Closing an
// already closed stream is a no-op.
func (s *Stream) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Debug("stream already closed")
		return nil
	}
	s.closed = true
	if s.sequence == 0 && s.text.Len() == 0 {
		// Nothing was ever streamed; no final activity to send.
		return nil
	}
	return s.send(ctx, activity.TypeMessage, s.text.String(), activity.StreamTypeFinal)
}

func (s *Stream) send(ctx context.Context, actType activity.Type, text, streamType string) error {
	if s.closed && streamType != activity.StreamTypeFinal {
		s.log.Debug("dropping chunk on closed stream")
		return nil
	}
	s.sequence++
	act := s.inbound.Reply(actType)
	act.Text = text
	entity := activity.Entity{
		Type:           activity.EntityTypeStreamInfo,
		StreamType:     streamType,
		StreamSequence: s.sequence,
	}
	if s.streamID != "" {
		entity.StreamID = s.streamID
	}
	act.Entities = []activity.Entity{entity}

	id, err := s.sender.SendActivity(ctx, act)
	if err != nil {
		return err
	}
	if s.streamID == "" {
		if id == "" {
			id = uuid.NewString()
		}
		s.streamID = id
	}
	return nil
}
