package agent

import (
	"errors"

	"github.com/openai/openai-go"
)

const codeStringAboveMaxLength = "string_above_max_length"

// IsRequestTooLarge reports whether the error is the provider rejecting the
// request because the input text exceeded the model's limit. This happens
// when a processed document is too large to fit into the instructions.
func IsRequestTooLarge(err error) bool {
	var apiErr *openai.Error
	return errors.As(err, &apiErr) && apiErr.Code == codeStringAboveMaxLength
}

// IsProviderError reports whether the error originated from the model API.
func IsProviderError(err error) bool {
	var apiErr *openai.Error
	return errors.As(err, &apiErr)
}
