package notify

import (
	"context"

	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

// LogNotifier writes events to the structured log. It is the default sink
// when no Redis endpoint is configured.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, event usecase.Event) {
	n.logger.InfoContext(ctx, "event",
		"type", event.Type,
		"week_number", event.WeekNumber,
		"year", event.Year,
		"payload", event.Payload,
	)
}
