package copilot

import (
	"context"
	"log/slog"

	"github.com/docwiseai/docwise/internal/activity"
	"github.com/docwiseai/docwise/internal/teams"
)

const (
	chooseActionText = "Choose a suggested action or ask any other question which you want me to help with."
	actionIconURL    = "https://res.public.onecdn.static.microsoft/midgard/versionless/officestartresources/chat_filled_20.svg"
)

// ActionCollector gathers the suggested actions offered this turn. The
// visible card value is the title; the associated prompt is kept aside so
// the next turn can substitute it when the user clicks the card.
type ActionCollector struct {
	act     activity.Activity
	prompts map[string]string
}

func NewActionCollector(inbound activity.Activity) *ActionCollector {
	act := inbound.Reply(activity.TypeMessage)
	act.Text = chooseActionText
	act.SuggestedActions = &activity.SuggestedActions{
		To:      []string{inbound.From.ID},
		Actions: []activity.CardAction{},
	}
	return &ActionCollector{act: act, prompts: make(map[string]string)}
}

// Add registers one suggested action.
func (c *ActionCollector) Add(title, prompt string) {
	c.act.SuggestedActions.Actions = append(c.act.SuggestedActions.Actions, activity.CardAction{
		Type:         activity.ActionTypeIMBack,
		Title:        title,
		Value:        title,
		Image:        actionIconURL,
		DisplayText:  title,
		ImageAltText: "Question Icon",
	})
	c.prompts[title] = prompt
}

// Prompts returns the title to prompt map for all collected actions.
func (c *ActionCollector) Prompts() map[string]string {
	return c.prompts
}

// Send posts the suggested-actions message if any actions were collected.
func (c *ActionCollector) Send(ctx context.Context, sender teams.Sender, log *slog.Logger) error {
	if len(c.act.SuggestedActions.Actions) == 0 {
		log.Debug("no suggested actions to send")
		return nil
	}
	log.Info("sending suggested actions",
		slog.Int("count", len(c.act.SuggestedActions.Actions)))
	_, err := sender.SendActivity(ctx, c.act)
	return err
}
