// Package teams is the bot-platform transport: it authenticates against the
// connector service, posts reply activities, and emulates incremental
// streaming over typing activities.
package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/docwiseai/docwise/internal/activity"
	"github.com/docwiseai/docwise/internal/config"
)

// Connector posts activities to the conversation endpoint of the service
// URL each inbound activity names. Tokens come from the client-credentials
// flow and are cached and refreshed by the oauth2 transport.
type Connector struct {
	httpClient *http.Client
	log        *slog.Logger
}

func NewConnector(cfg config.AuthConfig, log *slog.Logger) *Connector {
	if log == nil {
		log = slog.Default()
	}
	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL(),
		Scopes:       []string{cfg.ConnectorScope},
	}
	httpClient := credentials.Client(context.Background())
	httpClient.Timeout = 30 * time.Second
	return &Connector{
		httpClient: httpClient,
		log:        log.With(slog.String("component", "connector")),
	}
}

type sendResponse struct {
	ID string `json:"id"`
}

// SendActivity posts act to its conversation and returns the id the
// connector assigned to it.
func (c *Connector) SendActivity(ctx context.Context, act activity.Activity) (string, error) {
	endpoint := fmt.Sprintf("%s/v3/conversations/%s/activities",
		strings.TrimSuffix(act.ServiceURL, "/"),
		url.PathEscape(act.Conversation.ID))

	body, err := json.Marshal(act)
	if err != nil {
		return "", fmt.Errorf("encode activity: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("send activity: status %d: %s", resp.StatusCode, payload)
	}

	var decoded sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		// Some channels reply with an empty body; the send still succeeded.
		return "", nil
	}
	return decoded.ID, nil
}

// SendText posts a plain text message reply to the inbound activity.
func (c *Connector) SendText(ctx context.Context, inbound activity.Activity, text string) error {
	reply := inbound.Reply(activity.TypeMessage)
	reply.Text = text
	_, err := c.SendActivity(ctx, reply)
	return err
}
