// Package sim runs the discrete-event simulation loop: drain the event
// queue in timestamp order, apply each event, re-enqueue its follow-ups,
// and hand back the monitor's report when the queue runs dry.
package sim

import (
	"log/slog"

	"github.com/example/ride-sim/internal/dispatch"
	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
	"github.com/example/ride-sim/internal/monitor"
	"github.com/example/ride-sim/internal/observability"
	"github.com/example/ride-sim/internal/queue"
)

// Simulation owns one run's queue, dispatcher and monitor. Instances are
// single-use and single-threaded; concurrent runs each get their own.
type Simulation struct {
	events     *queue.EventQueue
	dispatcher *dispatch.Dispatcher
	monitor    *monitor.Monitor
	notifier   event.Notifier
	logger     *slog.Logger

	processed int
}

// Option tweaks a Simulation at construction time.
type Option func(*Simulation)

// WithLogger attaches a logger; each applied event is logged at debug.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithNotifier fans notifications out to sinks beyond the monitor, e.g.
// a live trace stream or a kafka publisher.
func WithNotifier(n event.Notifier) Option {
	return func(s *Simulation) { s.notifier = fanout{s.monitor, n} }
}

// WithExclusiveMatch makes the dispatcher remove matched drivers from the
// idle partition instead of reproducing the historical double-booking
// behavior.
func WithExclusiveMatch() Option {
	return func(s *Simulation) { s.dispatcher.ExclusiveMatch = true }
}

func New(opts ...Option) *Simulation {
	s := &Simulation{
		events:     queue.New(),
		dispatcher: dispatch.New(),
		monitor:    monitor.New(),
	}
	s.notifier = s.monitor
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run replays the initial events to completion and returns the report.
// The loop never filters: every emitted follow-up event is applied.
func (s *Simulation) Run(initial []event.Event) (monitor.Report, error) {
	for _, ev := range initial {
		s.events.Add(ev)
	}
	for !s.events.IsEmpty() {
		ev, err := s.events.RemoveMin()
		if err != nil {
			// unreachable: emptiness is checked above
			return monitor.Report{}, err
		}
		if s.logger != nil {
			s.logger.Debug("apply event", "kind", event.Kind(ev), "event", ev.String())
		}
		observability.EventsApplied.WithLabelValues(event.Kind(ev)).Inc()
		s.processed++
		for _, next := range event.Apply(ev, s.dispatcher, s.notifier) {
			s.events.Add(next)
		}
	}
	observability.SimulationRuns.Inc()
	observability.EventsPerRun.Observe(float64(s.processed))
	if s.logger != nil {
		s.logger.Info("simulation finished",
			"events_processed", s.processed,
			"drivers", s.dispatcher.DriverCount(),
			"riders_waiting", s.dispatcher.WaitingCount())
	}
	return s.monitor.Report()
}

// EventsProcessed reports how many events the run applied.
func (s *Simulation) EventsProcessed() int { return s.processed }

type fanout []event.Notifier

func (f fanout) Notify(timestamp int, actor event.Actor, action event.Action, id string, loc models.Location) {
	for _, n := range f {
		n.Notify(timestamp, actor, action, id, loc)
	}
}
