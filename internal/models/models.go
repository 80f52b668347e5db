package models

import (
	"fmt"
	"math"
)

// Location is a cell on the simulation grid. Row and Col are non-negative.
// Locations are value types and compare by field equality.
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (l Location) String() string { return fmt.Sprintf("(%d,%d)", l.Row, l.Col) }

// ManhattanDistance returns |a.Row-b.Row| + |a.Col-b.Col|.
func ManhattanDistance(a, b Location) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// RiderStatus tracks a rider through the matching lifecycle. A rider's
// status changes at most once after creation and never reverts.
type RiderStatus int

const (
	Waiting RiderStatus = iota
	Cancelled
	Satisfied
)

func (s RiderStatus) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Cancelled:
		return "cancelled"
	case Satisfied:
		return "satisfied"
	}
	return "unknown"
}

// Rider is a matching participant requesting a ride. Dispatcher
// bookkeeping keys on ID, not on struct equality.
type Rider struct {
	ID          string      `json:"id"`
	Origin      Location    `json:"origin"`
	Destination Location    `json:"destination"`
	Patience    int         `json:"patience"` // ticks tolerated before auto-cancel
	Status      RiderStatus `json:"status"`
}

func NewRider(id string, origin, destination Location, patience int) *Rider {
	return &Rider{ID: id, Origin: origin, Destination: destination, Patience: patience, Status: Waiting}
}

func (r *Rider) String() string {
	return fmt.Sprintf("ID: %s, Origin: %s, Destination: %s, Status: %s, Patience: %d",
		r.ID, r.Origin, r.Destination, r.Status, r.Patience)
}

// Driver is a matching participant offering rides. Idle implies a nil
// Destination; a driver en route carries one, except in the window between
// arriving at a cancelled pickup and its follow-up request.
type Driver struct {
	ID          string    `json:"id"`
	Location    Location  `json:"location"`
	Speed       int       `json:"speed"`
	Destination *Location `json:"destination,omitempty"`
	Idle        bool      `json:"idle"`
}

func NewDriver(id string, loc Location, speed int) *Driver {
	return &Driver{ID: id, Location: loc, Speed: speed, Idle: true}
}

func (d *Driver) String() string {
	return fmt.Sprintf("ID: %s, Location: %s, Speed: %d", d.ID, d.Location, d.Speed)
}

// TravelTime returns the ticks needed to reach dest from the driver's
// current position: Manhattan distance over speed, rounded half-to-even.
// A speed of zero means instantaneous travel by convention.
func (d *Driver) TravelTime(dest Location) int {
	if d.Speed == 0 {
		return 0
	}
	dist := ManhattanDistance(d.Location, dest)
	return int(math.RoundToEven(float64(dist) / float64(d.Speed)))
}

// StartDrive points the driver at loc and returns the travel time.
func (d *Driver) StartDrive(loc Location) int {
	t := d.TravelTime(loc)
	d.Idle = false
	d.Destination = &loc
	return t
}

// EndDrive arrives at the pickup point. The driver stays non-idle; the
// destination is cleared until a ride (or a fresh request) assigns one.
func (d *Driver) EndDrive() {
	if d.Destination != nil {
		d.Location = *d.Destination
	}
	d.Destination = nil
	d.Idle = false
}

// StartRide points the driver at the rider's destination and returns the
// travel time for the ride leg.
func (d *Driver) StartRide(r *Rider) int {
	t := d.TravelTime(r.Destination)
	d.Idle = false
	dest := r.Destination
	d.Destination = &dest
	return t
}

// EndRide arrives at the ride destination and returns the driver to idle.
func (d *Driver) EndRide() {
	if d.Destination != nil {
		d.Location = *d.Destination
	}
	d.Destination = nil
	d.Idle = true
}
