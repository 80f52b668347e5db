package observability

import (
	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
)

// Notifier mirrors simulation notifications into prometheus counters. It
// is stateless and can be shared across runs.
type Notifier struct{}

func (Notifier) Notify(_ int, actor event.Actor, action event.Action, _ string, _ models.Location) {
	switch action {
	case event.ActionCancel:
		CancellationsTotal.Inc()
	case event.ActionPickup:
		if actor == event.ActorRider {
			MatchesTotal.Inc()
		}
	case event.ActionDropoff:
		RidesCompleted.Inc()
	}
}
