package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/events"
)

// Subscriber attaches its handlers to a dispatcher.
type Subscriber interface {
	Register(d events.Dispatcher)
}

// StartEventSubscribers registers every non-nil subscriber on d.
func StartEventSubscribers(d events.Dispatcher, logger *zap.Logger, subscribers ...Subscriber) int {
	if d == nil {
		return 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registered := 0
	for _, s := range subscribers {
		if s == nil {
			continue
		}
		s.Register(d)
		registered++
	}
	logger.Info("event subscribers registered", zap.Int("count", registered))
	return registered
}
