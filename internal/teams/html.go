package teams

import (
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/docwiseai/docwise/internal/activity"
)

// UserPrompt returns the effective text of an inbound message. Teams leaves
// the text field empty for rich messages and puts the body into a text/html
// attachment instead; that body is converted to markdown so the model sees
// readable text.
func UserPrompt(log *slog.Logger, act activity.Activity) string {
	if text := act.TrimmedText(); text != "" {
		return text
	}
	body := act.HTMLBody()
	if body == "" {
		return ""
	}
	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Warn("html body conversion failed", slog.Any("error", err))
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(markdown)
}
