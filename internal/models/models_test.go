package models

import "testing"

func TestManhattanDistanceSymmetric(t *testing.T) {
	a := Location{Row: 1, Col: 1}
	b := Location{Row: 6, Col: 6}
	if d := ManhattanDistance(a, b); d != 10 {
		t.Fatalf("expected 10, got %d", d)
	}
	if ManhattanDistance(a, b) != ManhattanDistance(b, a) {
		t.Fatalf("distance not symmetric")
	}
	if d := ManhattanDistance(a, a); d != 0 {
		t.Fatalf("expected 0, got %d", d)
	}
}

func TestTravelTime(t *testing.T) {
	d := NewDriver("Sam", Location{Row: 1, Col: 1}, 2)
	if got := d.TravelTime(Location{Row: 6, Col: 6}); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := d.TravelTime(Location{Row: 4, Col: 4}); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestTravelTimeZeroSpeed(t *testing.T) {
	d := NewDriver("slow", Location{Row: 0, Col: 0}, 0)
	if got := d.TravelTime(Location{Row: 9, Col: 9}); got != 0 {
		t.Fatalf("zero speed must mean zero travel time, got %d", got)
	}
}

func TestDriveTransitions(t *testing.T) {
	d := NewDriver("Sam", Location{Row: 1, Col: 1}, 2)
	travel := d.StartDrive(Location{Row: 4, Col: 4})
	if travel != 3 {
		t.Fatalf("expected travel 3, got %d", travel)
	}
	if d.Idle || d.Destination == nil {
		t.Fatalf("driver should be en route with a destination")
	}
	d.EndDrive()
	if d.Idle {
		t.Fatalf("driver stays busy after arriving at pickup")
	}
	if d.Destination != nil {
		t.Fatalf("destination should be cleared on arrival")
	}
	if d.Location != (Location{Row: 4, Col: 4}) {
		t.Fatalf("driver should be at pickup point, got %s", d.Location)
	}
}

func TestRideTransitions(t *testing.T) {
	d := NewDriver("Sam", Location{Row: 1, Col: 1}, 2)
	r := NewRider("xyz", Location{Row: 1, Col: 1}, Location{Row: 6, Col: 6}, 4)
	travel := d.StartRide(r)
	if travel != 5 {
		t.Fatalf("expected ride travel 5, got %d", travel)
	}
	d.EndRide()
	if !d.Idle {
		t.Fatalf("driver should be idle after dropoff")
	}
	if d.Destination != nil {
		t.Fatalf("destination should be cleared after dropoff")
	}
	if d.Location != r.Destination {
		t.Fatalf("driver should be at rider destination, got %s", d.Location)
	}
}
