package copilot

import "github.com/docwiseai/docwise/internal/agent"

const (
	msgDocumentTooLarge = "The document is too large for me to process. Please upload a smaller document to proceed."
	msgProviderIssues   = "We are very sorry, but our agent currently experiences issues when processing your request. Please try again later."
	msgUnexpectedError  = "I'm sorry, but something went wrong while processing your request. Please try again later."
)

// userFacingMessage maps an error from a turn to the text shown to the
// user. The error itself still propagates to the hosting layer afterwards.
func userFacingMessage(err error) string {
	switch {
	case agent.IsRequestTooLarge(err):
		return msgDocumentTooLarge
	case agent.IsProviderError(err):
		return msgProviderIssues
	default:
		return msgUnexpectedError
	}
}
