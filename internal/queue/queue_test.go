package queue

import (
	"errors"
	"testing"

	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
)

func rider(id string) *models.Rider {
	return models.NewRider(id, models.Location{Row: 1, Col: 1}, models.Location{Row: 2, Col: 2}, 3)
}

func TestRemoveMinOrdersByTimestamp(t *testing.T) {
	q := New()
	for _, ts := range []int{5, 1, 9, 3, 7, 0} {
		q.Add(&event.RiderRequest{At: ts, Rider: rider("r")})
	}
	prev := -1
	for !q.IsEmpty() {
		ev, err := q.RemoveMin()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.Timestamp() < prev {
			t.Fatalf("timestamps out of order: %d after %d", ev.Timestamp(), prev)
		}
		prev = ev.Timestamp()
	}
}

func TestEqualTimestampsAreFIFO(t *testing.T) {
	q := New()
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		q.Add(&event.RiderRequest{At: 4, Rider: rider(id)})
	}
	for _, want := range ids {
		ev, err := q.RemoveMin()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := ev.(*event.RiderRequest).Rider.ID
		if got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestTieBreakAcrossInterleavedAdds(t *testing.T) {
	q := New()
	q.Add(&event.RiderRequest{At: 2, Rider: rider("late")})
	q.Add(&event.RiderRequest{At: 1, Rider: rider("first")})
	q.Add(&event.RiderRequest{At: 1, Rider: rider("second")})

	for _, want := range []string{"first", "second", "late"} {
		ev, err := q.RemoveMin()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := ev.(*event.RiderRequest).Rider.ID; got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestRemoveMinEmpty(t *testing.T) {
	q := New()
	if _, err := q.RemoveMin(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	q.Add(&event.RiderRequest{At: 0, Rider: rider("r")})
	if _, err := q.RemoveMin(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := q.RemoveMin(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty after draining, got %v", err)
	}
}
