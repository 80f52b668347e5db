package monitor

import (
	"errors"
	"testing"

	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
)

func loc(r, c int) models.Location { return models.Location{Row: r, Col: c} }

func TestReportFixture(t *testing.T) {
	m := New()
	m.Notify(0, event.ActorDriver, event.ActionRequest, "abc", loc(0, 0))
	m.Notify(3, event.ActorDriver, event.ActionPickup, "abc", loc(1, 1))
	m.Notify(6, event.ActorDriver, event.ActionDropoff, "abc", loc(5, 5))
	m.Notify(0, event.ActorRider, event.ActionRequest, "xyz", loc(1, 1))
	m.Notify(3, event.ActorRider, event.ActionPickup, "xyz", loc(1, 1))

	r, err := m.Report()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.RiderWaitTime != 3.0 {
		t.Fatalf("rider_wait_time: expected 3.0, got %v", r.RiderWaitTime)
	}
	if r.DriverTotalDistance != 10.0 {
		t.Fatalf("driver_total_distance: expected 10.0, got %v", r.DriverTotalDistance)
	}
	if r.DriverRideDistance != 8.0 {
		t.Fatalf("driver_ride_distance: expected 8.0, got %v", r.DriverRideDistance)
	}
}

func TestWaitTimeAveragesPickupsAndCancels(t *testing.T) {
	m := New()
	m.Notify(0, event.ActorDriver, event.ActionRequest, "abc", loc(0, 0))
	m.Notify(3, event.ActorDriver, event.ActionPickup, "abc", loc(1, 1))
	m.Notify(6, event.ActorDriver, event.ActionDropoff, "abc", loc(5, 5))
	m.Notify(0, event.ActorRider, event.ActionRequest, "xyz", loc(1, 1))
	m.Notify(3, event.ActorRider, event.ActionPickup, "xyz", loc(1, 1))
	m.Notify(0, event.ActorRider, event.ActionRequest, "ash", loc(1, 1))
	m.Notify(8, event.ActorRider, event.ActionCancel, "ash", loc(1, 1))

	got, err := m.averageWaitTime()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5.5 {
		t.Fatalf("expected 5.5, got %v", got)
	}
}

func TestRideDistanceAveragesOverAllDrivers(t *testing.T) {
	m := New()
	// driver with a completed ride: distance 8
	m.Notify(0, event.ActorDriver, event.ActionRequest, "abc", loc(0, 0))
	m.Notify(3, event.ActorDriver, event.ActionPickup, "abc", loc(1, 1))
	m.Notify(6, event.ActorDriver, event.ActionDropoff, "abc", loc(5, 5))
	// driver that never carried anyone still counts in the denominator
	m.Notify(0, event.ActorDriver, event.ActionRequest, "idle", loc(9, 9))

	got, err := m.averageRideDistance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4.0 {
		t.Fatalf("expected 4.0, got %v", got)
	}
}

func TestReportNoActivity(t *testing.T) {
	m := New()
	if _, err := m.Report(); !errors.Is(err, ErrNoActivity) {
		t.Fatalf("expected ErrNoActivity, got %v", err)
	}
}

func TestReportNoQualifyingRiders(t *testing.T) {
	m := New()
	// a rider that only requested has not finished waiting
	m.Notify(0, event.ActorRider, event.ActionRequest, "xyz", loc(1, 1))
	if _, err := m.Report(); !errors.Is(err, ErrNoActivity) {
		t.Fatalf("expected ErrNoActivity, got %v", err)
	}
}
