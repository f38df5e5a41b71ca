package copilot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/openai/openai-go"
)

func TestUserFacingMessage(t *testing.T) {
	t.Parallel()

	tooLarge := fmt.Errorf("model call: %w", &openai.Error{Code: "string_above_max_length", StatusCode: 400})
	if got := userFacingMessage(tooLarge); got != msgDocumentTooLarge {
		t.Fatalf("too-large error mapped to %q", got)
	}

	apiErr := fmt.Errorf("model call: %w", &openai.Error{Code: "server_error", StatusCode: 500})
	if got := userFacingMessage(apiErr); got != msgProviderIssues {
		t.Fatalf("provider error mapped to %q", got)
	}

	if got := userFacingMessage(errors.New("disk full")); got != msgUnexpectedError {
		t.Fatalf("unexpected error mapped to %q", got)
	}
}
