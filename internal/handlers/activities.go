package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docwiseai/docwise/internal/activity"
)

// ActivityProcessor runs one inbound activity through the turn dispatcher.
type ActivityProcessor interface {
	ProcessActivity(ctx context.Context, act activity.Activity) error
}

// ActivitiesHandler receives bot-platform activity payloads.
type ActivitiesHandler struct {
	processor ActivityProcessor
	logger    *slog.Logger
}

func NewActivitiesHandler(processor ActivityProcessor, log *slog.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{
		processor: processor,
		logger:    log.With(slog.String("handler", "activities")),
	}
}

func (h *ActivitiesHandler) Register(e *echo.Echo) {
	e.POST("/api/messages", h.PostActivity)
}

func (h *ActivitiesHandler) PostActivity(c echo.Context) error {
	var act activity.Activity
	if err := c.Bind(&act); err != nil {
		h.logger.Warn("malformed activity payload", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity payload")
	}

	if err := h.processor.ProcessActivity(c.Request().Context(), act); err != nil {
		h.logger.Error("activity processing failed",
			slog.String("conversation_id", act.Conversation.ID),
			slog.String("activity_id", act.ID),
			slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process activity")
	}
	return c.NoContent(http.StatusOK)
}
