// Package attachments classifies inbound message attachments into supported
// and unsupported sets ahead of document ingestion.
package attachments

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/docwiseai/docwise/internal/activity"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Content is the parsed payload of a file-download attachment.
type Content struct {
	DownloadURL string `json:"downloadUrl" validate:"required,url"`
	UniqueID    string `json:"uniqueId" validate:"required"`
	FileType    string `json:"fileType" validate:"required"`
}

// ParseContent decodes and validates an attachment payload.
func ParseContent(raw json.RawMessage) (Content, error) {
	var content Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return Content{}, err
	}
	if err := validate.Struct(content); err != nil {
		return Content{}, err
	}
	return content, nil
}

// Options configures the classifier's allow and ignore lists.
type Options struct {
	SupportedContentTypes []string
	SupportedFileTypes    []string
	IgnoredContentTypes   []string
}

// Classification partitions the non-ignored input attachments. The two
// slices are disjoint and order-preserving.
type Classification struct {
	Supported   []activity.Attachment
	Unsupported []activity.Attachment
}

// Classify partitions attachments by content type and declared file type.
// Ignored content types are dropped silently. A payload that fails to parse
// is routed to unsupported, never surfaced as an error.
func Classify(log *slog.Logger, atts []activity.Attachment, opts Options) Classification {
	if log == nil {
		log = slog.Default()
	}
	var result Classification
	for _, att := range atts {
		switch {
		case containsFold(opts.IgnoredContentTypes, att.ContentType):
			log.Debug("ignoring attachment",
				slog.String("name", att.Name),
				slog.String("content_type", att.ContentType))
		case containsFold(opts.SupportedContentTypes, att.ContentType):
			content, err := ParseContent(att.Content)
			if err != nil {
				log.Warn("attachment payload did not parse",
					slog.String("name", att.Name),
					slog.Any("error", err))
				result.Unsupported = append(result.Unsupported, att)
				continue
			}
			if containsFold(opts.SupportedFileTypes, content.FileType) {
				result.Supported = append(result.Supported, att)
			} else {
				log.Info("unsupported file type",
					slog.String("name", att.Name),
					slog.String("file_type", content.FileType))
				result.Unsupported = append(result.Unsupported, att)
			}
		default:
			result.Unsupported = append(result.Unsupported, att)
		}
	}
	return result
}

// Names returns the display names of the given attachments.
func Names(atts []activity.Attachment) []string {
	names := make([]string, 0, len(atts))
	for _, att := range atts {
		names = append(names, att.Name)
	}
	return names
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}
