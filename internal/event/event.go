// Package event models the five simulation event kinds and the state
// machine that applies them. Applying an event mutates dispatcher and
// entity state, reports observable transitions to a Notifier, and returns
// the follow-up events to schedule.
package event

import (
	"fmt"

	"github.com/example/ride-sim/internal/dispatch"
	"github.com/example/ride-sim/internal/models"
)

// Actor is the kind of participant an activity belongs to.
type Actor string

// Action describes an observable transition.
type Action string

const (
	ActorRider  Actor = "rider"
	ActorDriver Actor = "driver"

	ActionRequest Action = "request"
	ActionCancel  Action = "cancel"
	ActionPickup  Action = "pickup"
	ActionDropoff Action = "dropoff"
)

// Notifier receives one call per observable transition, in the order the
// state machine produces them.
type Notifier interface {
	Notify(timestamp int, actor Actor, action Action, id string, loc models.Location)
}

// Event is one scheduled simulation occurrence. Events are immutable once
// constructed; Apply never mutates the event itself.
type Event interface {
	Timestamp() int
	fmt.Stringer
}

// RiderRequest is a rider asking for a driver.
type RiderRequest struct {
	At    int
	Rider *models.Rider
}

func (e *RiderRequest) Timestamp() int { return e.At }
func (e *RiderRequest) String() string {
	return fmt.Sprintf("%d -- %s: Request a driver", e.At, e.Rider)
}

// DriverRequest is a driver asking for a rider.
type DriverRequest struct {
	At     int
	Driver *models.Driver
}

func (e *DriverRequest) Timestamp() int { return e.At }
func (e *DriverRequest) String() string {
	return fmt.Sprintf("%d -- %s: Request a rider", e.At, e.Driver)
}

// Cancellation fires when a rider's patience runs out.
type Cancellation struct {
	At    int
	Rider *models.Rider
}

func (e *Cancellation) Timestamp() int { return e.At }
func (e *Cancellation) String() string {
	return fmt.Sprintf("%d -- %s: Cancellation by rider", e.At, e.Rider)
}

// Pickup fires when a driver arrives at a rider's origin.
type Pickup struct {
	At     int
	Rider  *models.Rider
	Driver *models.Driver
}

func (e *Pickup) Timestamp() int { return e.At }
func (e *Pickup) String() string {
	return fmt.Sprintf("%d -- %s -- %s: Pickup of rider by driver", e.At, e.Driver, e.Rider)
}

// Dropoff fires when a driver arrives at a rider's destination.
type Dropoff struct {
	At     int
	Rider  *models.Rider
	Driver *models.Driver
}

func (e *Dropoff) Timestamp() int { return e.At }
func (e *Dropoff) String() string {
	return fmt.Sprintf("%d -- %s -- %s: Dropoff of rider by driver", e.At, e.Driver, e.Rider)
}

// Kind names an event's variant, for logs and metric labels.
func Kind(e Event) string {
	switch e.(type) {
	case *RiderRequest:
		return "rider_request"
	case *DriverRequest:
		return "driver_request"
	case *Cancellation:
		return "cancellation"
	case *Pickup:
		return "pickup"
	case *Dropoff:
		return "dropoff"
	default:
		return "unknown"
	}
}

// Apply runs one event against the dispatcher and notifier and returns
// the follow-up events in scheduling order. Unknown event kinds are a
// programming error and panic.
func Apply(e Event, d *dispatch.Dispatcher, n Notifier) []Event {
	switch ev := e.(type) {
	case *RiderRequest:
		return applyRiderRequest(ev, d, n)
	case *DriverRequest:
		return applyDriverRequest(ev, d, n)
	case *Cancellation:
		return applyCancellation(ev, d, n)
	case *Pickup:
		return applyPickup(ev, d, n)
	case *Dropoff:
		return applyDropoff(ev, d, n)
	default:
		panic(fmt.Sprintf("event: unknown kind %T", e))
	}
}

// applyRiderRequest puts the rider on the waiting list and, when an idle
// driver is found, sends it driving toward the rider. A Cancellation is
// always scheduled at timestamp+patience; a Pickup additionally when a
// driver matched. The Pickup precedes the Cancellation in the returned
// slice so equal-timestamp ties resolve in its favor.
func applyRiderRequest(e *RiderRequest, d *dispatch.Dispatcher, n Notifier) []Event {
	n.Notify(e.At, ActorRider, ActionRequest, e.Rider.ID, e.Rider.Origin)

	var out []Event
	if drv := d.RequestDriver(e.Rider); drv != nil {
		travel := drv.StartDrive(e.Rider.Origin)
		out = append(out, &Pickup{At: e.At + travel, Rider: e.Rider, Driver: drv})
	}
	out = append(out, &Cancellation{At: e.At + e.Rider.Patience, Rider: e.Rider})
	return out
}

// applyDriverRequest registers the driver on its first request and sends
// it toward the longest-waiting rider, if any.
func applyDriverRequest(e *DriverRequest, d *dispatch.Dispatcher, n Notifier) []Event {
	n.Notify(e.At, ActorDriver, ActionRequest, e.Driver.ID, e.Driver.Location)

	r := d.RequestRider(e.Driver)
	if r == nil {
		return nil
	}
	travel := e.Driver.StartDrive(r.Origin)
	return []Event{&Pickup{At: e.At + travel, Rider: r, Driver: e.Driver}}
}

// applyCancellation marks a not-yet-satisfied rider cancelled. Riders
// already satisfied are untouched; the cancel notification fires either
// way.
func applyCancellation(e *Cancellation, d *dispatch.Dispatcher, n Notifier) []Event {
	n.Notify(e.At, ActorRider, ActionCancel, e.Rider.ID, e.Rider.Origin)

	if !d.IsSatisfied(e.Rider.ID) {
		e.Rider.Status = models.Cancelled
		d.CancelRide(e.Rider)
	}
	return nil
}

// applyPickup lands the driver at the rider's origin. If the rider is
// still around, the ride starts and a Dropoff is scheduled; if the rider
// cancelled in the meantime, the driver immediately requests a new rider
// at the same timestamp.
func applyPickup(e *Pickup, d *dispatch.Dispatcher, n Notifier) []Event {
	e.Driver.EndDrive()

	n.Notify(e.At, ActorRider, ActionPickup, e.Rider.ID, e.Rider.Origin)
	n.Notify(e.At, ActorDriver, ActionPickup, e.Driver.ID, e.Driver.Location)

	if d.IsCancelled(e.Rider.ID) {
		return []Event{&DriverRequest{At: e.At, Driver: e.Driver}}
	}

	travel := e.Driver.StartRide(e.Rider)
	e.Rider.Status = models.Satisfied
	d.EndSuccessfulRide(e.Rider)
	return []Event{&Dropoff{At: e.At + travel, Rider: e.Rider, Driver: e.Driver}}
}

// applyDropoff lands the driver at the rider's destination, idles it, and
// has it request a new rider at the same timestamp.
func applyDropoff(e *Dropoff, d *dispatch.Dispatcher, n Notifier) []Event {
	e.Driver.EndRide()

	n.Notify(e.At, ActorDriver, ActionDropoff, e.Driver.ID, e.Driver.Location)

	d.EndSuccessfulRide(e.Rider)
	return []Event{&DriverRequest{At: e.At, Driver: e.Driver}}
}
