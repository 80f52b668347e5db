package sim

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
	"github.com/example/ride-sim/internal/monitor"
	"github.com/example/ride-sim/internal/script"
)

func mustParse(t *testing.T, in string) []event.Event {
	t.Helper()
	events, err := script.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return events
}

func TestRunLonelyRiderCancels(t *testing.T) {
	rider := models.NewRider("xyz", models.Location{Row: 1, Col: 1}, models.Location{Row: 6, Col: 6}, 4)
	s := New()
	_, err := s.Run([]event.Event{&event.RiderRequest{At: 0, Rider: rider}})

	// no driver ever registered, so the report has nothing to average
	// over on the driver side
	if !errors.Is(err, monitor.ErrNoActivity) {
		t.Fatalf("expected ErrNoActivity, got %v", err)
	}
	if rider.Status != models.Cancelled {
		t.Fatalf("rider should have cancelled at t=4")
	}
	if s.EventsProcessed() != 2 {
		t.Fatalf("expected 2 events (request + cancellation), got %d", s.EventsProcessed())
	}
}

func TestRunImmediateMatch(t *testing.T) {
	initial := mustParse(t, `
0 DriverRequest Sam 1,1 2
1 RiderRequest xyz 1,1 6,6 4
`)
	s := New()
	report, err := s.Run(initial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// pickup fires at t=1 (zero travel), dropoff at t=6; the t=5
	// cancellation is a no-op on the satisfied rider
	if report.RiderWaitTime != 0.0 {
		t.Fatalf("rider_wait_time: expected 0.0, got %v", report.RiderWaitTime)
	}
	if report.DriverTotalDistance != 10.0 {
		t.Fatalf("driver_total_distance: expected 10.0, got %v", report.DriverTotalDistance)
	}
	if report.DriverRideDistance != 10.0 {
		t.Fatalf("driver_ride_distance: expected 10.0, got %v", report.DriverRideDistance)
	}
	// driver request, rider request, pickup, cancellation, dropoff,
	// follow-up driver request
	if s.EventsProcessed() != 6 {
		t.Fatalf("expected 6 events, got %d", s.EventsProcessed())
	}
}

func TestRunWaitingRiderPickedUpByLateDriver(t *testing.T) {
	initial := mustParse(t, `
0 RiderRequest xyz 4,4 6,6 10
2 DriverRequest Sam 1,1 2
`)
	report, err := New().Run(initial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// driver matched at t=2, travel 3, pickup at t=5: wait = 5
	if report.RiderWaitTime != 5.0 {
		t.Fatalf("rider_wait_time: expected 5.0, got %v", report.RiderWaitTime)
	}
}

type countingNotifier struct{ calls int }

func (c *countingNotifier) Notify(int, event.Actor, event.Action, string, models.Location) {
	c.calls++
}

func TestRunFansOutNotifications(t *testing.T) {
	initial := mustParse(t, `
0 DriverRequest Sam 1,1 2
1 RiderRequest xyz 1,1 6,6 4
`)
	extra := &countingNotifier{}
	report, err := New(WithNotifier(extra)).Run(initial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// driver request, rider request, rider+driver pickup, cancel,
	// dropoff, follow-up driver request = 7 notifications
	if extra.calls != 7 {
		t.Fatalf("expected 7 fanned-out notifications, got %d", extra.calls)
	}
	// the monitor still received everything
	if report.DriverRideDistance != 10.0 {
		t.Fatalf("monitor report should be unaffected by fan-out, got %v", report.DriverRideDistance)
	}
}

func TestRunDeterministic(t *testing.T) {
	src := `
0 DriverRequest a 0,0 1
0 DriverRequest b 5,5 2
0 RiderRequest r1 1,1 8,8 6
2 RiderRequest r2 5,5 0,0 3
4 RiderRequest r3 9,9 2,2 1
`
	first, err := New().Run(mustParse(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := New().Run(mustParse(t, src))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("replay diverged: %+v vs %+v", again, first)
		}
	}
}

func TestRunExclusiveMatchDriverServesSequentialRiders(t *testing.T) {
	drv := models.NewDriver("Sam", models.Location{Row: 1, Col: 1}, 2)
	r1 := models.NewRider("r1", models.Location{Row: 1, Col: 1}, models.Location{Row: 6, Col: 6}, 30)
	r2 := models.NewRider("r2", models.Location{Row: 6, Col: 6}, models.Location{Row: 1, Col: 1}, 30)
	s := New(WithExclusiveMatch())
	report, err := s.Run([]event.Event{
		&event.DriverRequest{At: 0, Driver: drv},
		&event.RiderRequest{At: 1, Rider: r1},
		&event.RiderRequest{At: 10, Rider: r2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the post-dropoff request at t=6 returns Sam to the pool, so r2's
	// request at t=10 still finds a driver
	if r1.Status != models.Satisfied || r2.Status != models.Satisfied {
		t.Fatalf("expected both riders satisfied, got %v and %v", r1.Status, r2.Status)
	}
	if report.RiderWaitTime != 0.0 {
		t.Fatalf("rider_wait_time: expected 0.0, got %v", report.RiderWaitTime)
	}
	if report.DriverTotalDistance != 20.0 {
		t.Fatalf("driver_total_distance: expected 20.0, got %v", report.DriverTotalDistance)
	}
	if report.DriverRideDistance != 20.0 {
		t.Fatalf("driver_ride_distance: expected 20.0, got %v", report.DriverRideDistance)
	}
	if s.EventsProcessed() != 11 {
		t.Fatalf("expected 11 events, got %d", s.EventsProcessed())
	}
}

func TestRunExclusiveMatchPreventsDoubleBooking(t *testing.T) {
	// two riders at the same spot, one driver: under exclusive matching
	// the second rider gets no pickup and cancels
	src := `
0 DriverRequest Sam 1,1 1
1 RiderRequest r1 2,2 9,9 50
1 RiderRequest r2 2,2 3,3 2
`
	legacy, err := New().Run(mustParse(t, src))
	if err != nil {
		t.Fatalf("legacy run: %v", err)
	}
	exclusive, err := New(WithExclusiveMatch()).Run(mustParse(t, src))
	if err != nil {
		t.Fatalf("exclusive run: %v", err)
	}
	if legacy == exclusive {
		t.Fatalf("expected the two matching modes to diverge on a contended driver")
	}
}
