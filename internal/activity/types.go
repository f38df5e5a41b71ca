// Package activity defines the bot-platform activity wire model.
// Activities are the JSON payloads exchanged with the bot connector:
// inbound user messages and conversation updates, outbound replies,
// typing/stream chunks, and suggested-action affordances.
package activity

import (
	"encoding/json"
	"strings"
	"time"
)

// Type identifies the kind of an activity.
type Type string

const (
	TypeMessage            Type = "message"
	TypeTyping             Type = "typing"
	TypeConversationUpdate Type = "conversationUpdate"
)

// Well-known attachment content types.
const (
	ContentTypeFileDownloadInfo = "application/vnd.microsoft.teams.file.download.info"
	ContentTypeHTML             = "text/html"
)

// ChannelAccount identifies a user or bot on the channel.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	ConvType string `json:"conversationType,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
}

// Attachment is a file or card attached to a message activity.
// Content is kept raw; its shape depends on ContentType.
type Attachment struct {
	ContentType  string          `json:"contentType"`
	ContentURL   string          `json:"contentUrl,omitempty"`
	Content      json.RawMessage `json:"content,omitempty"`
	Name         string          `json:"name,omitempty"`
	ThumbnailURL string          `json:"thumbnailUrl,omitempty"`
}

// CardAction is a clickable button rendered by the channel.
type CardAction struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Value        string `json:"value,omitempty"`
	Image        string `json:"image,omitempty"`
	DisplayText  string `json:"displayText,omitempty"`
	ImageAltText string `json:"imageAltText,omitempty"`
}

// ActionTypeIMBack posts the action value back as a user message.
const ActionTypeIMBack = "imBack"

// SuggestedActions is the quick-reply affordance attached to a message.
type SuggestedActions struct {
	To      []string     `json:"to,omitempty"`
	Actions []CardAction `json:"actions"`
}

// Stream entity types and states for incremental responses.
const (
	EntityTypeStreamInfo = "streaminfo"

	StreamTypeInformative = "informative"
	StreamTypeStreaming   = "streaming"
	StreamTypeFinal       = "final"
)

// Entity carries typed metadata on an activity. Only streaminfo entities
// are produced by this service.
type Entity struct {
	Type           string `json:"type"`
	StreamID       string `json:"streamId,omitempty"`
	StreamType     string `json:"streamType,omitempty"`
	StreamSequence int    `json:"streamSequence,omitempty"`
}

// Activity is the unified inbound/outbound bot-platform payload.
type Activity struct {
	Type             Type                 `json:"type"`
	ID               string               `json:"id,omitempty"`
	Timestamp        *time.Time           `json:"timestamp,omitempty"`
	ServiceURL       string               `json:"serviceUrl,omitempty"`
	ChannelID        string               `json:"channelId,omitempty"`
	From             ChannelAccount       `json:"from,omitempty"`
	Recipient        ChannelAccount       `json:"recipient,omitempty"`
	Conversation     ConversationAccount  `json:"conversation,omitempty"`
	Text             string               `json:"text,omitempty"`
	TextFormat       string               `json:"textFormat,omitempty"`
	Attachments      []Attachment         `json:"attachments,omitempty"`
	SuggestedActions *SuggestedActions    `json:"suggestedActions,omitempty"`
	Entities         []Entity             `json:"entities,omitempty"`
	MembersAdded     []ChannelAccount     `json:"membersAdded,omitempty"`
	ReplyToID        string               `json:"replyToId,omitempty"`
	ChannelData      json.RawMessage      `json:"channelData,omitempty"`
}

// IsMessage reports whether the activity is a user message.
func (a Activity) IsMessage() bool {
	return a.Type == TypeMessage
}

// MembersJoined reports whether the conversation update added members other
// than the bot itself.
func (a Activity) MembersJoined() bool {
	if a.Type != TypeConversationUpdate {
		return false
	}
	for _, member := range a.MembersAdded {
		if member.ID != a.Recipient.ID {
			return true
		}
	}
	return false
}

// TrimmedText returns the activity text with surrounding whitespace removed.
func (a Activity) TrimmedText() string {
	return strings.TrimSpace(a.Text)
}

// HTMLBody returns the body of the first text/html attachment, or empty
// string if none is present. Teams places the rich message body in such an
// attachment when the text field is empty.
func (a Activity) HTMLBody() string {
	for _, att := range a.Attachments {
		if att.ContentType != ContentTypeHTML {
			continue
		}
		var body string
		if err := json.Unmarshal(att.Content, &body); err == nil && body != "" {
			return body
		}
		// Some channels send the HTML body unquoted.
		raw := strings.TrimSpace(string(att.Content))
		if raw != "" && !strings.HasPrefix(raw, "{") {
			return raw
		}
	}
	return ""
}

// Reply creates an outbound activity addressed back to the sender of a.
func (a Activity) Reply(activityType Type) Activity {
	now := time.Now().UTC()
	return Activity{
		Type:         activityType,
		Timestamp:    &now,
		ServiceURL:   a.ServiceURL,
		ChannelID:    a.ChannelID,
		From:         a.Recipient,
		Recipient:    a.From,
		Conversation: a.Conversation,
		ReplyToID:    a.ID,
	}
}
