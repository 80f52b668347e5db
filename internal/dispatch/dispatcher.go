// Package dispatch holds the matching state for a single simulation run:
// rider partitions (waiting, cancelled, satisfied) and driver partitions
// (idle, total). A Dispatcher is owned by exactly one simulation and is
// not safe for concurrent use.
package dispatch

import (
	"github.com/example/ride-sim/internal/models"
)

// Dispatcher fulfills requests from riders and drivers. Riders without an
// available driver stay on the waiting list; drivers register on their
// first request and serve future rider requests.
type Dispatcher struct {
	waiting   []*models.Rider
	cancelled map[string]struct{}
	satisfied map[string]struct{}

	idle  []*models.Driver
	total map[string]*models.Driver

	// ExclusiveMatch removes a matched driver from the idle partition at
	// match time. The historical behavior (false) leaves it listed, so a
	// second request arriving before the driver starts driving can
	// double-book it.
	ExclusiveMatch bool
}

func New() *Dispatcher {
	return &Dispatcher{
		cancelled: make(map[string]struct{}),
		satisfied: make(map[string]struct{}),
		total:     make(map[string]*models.Driver),
	}
}

// RequestDriver registers the rider on the waiting list and returns the
// idle driver with the smallest travel time to the rider's origin, ties
// broken by idle-partition position. Returns nil when no idle driver
// exists. The returned driver's idle flag is left untouched; flipping it
// is the caller's job via StartDrive.
func (d *Dispatcher) RequestDriver(r *models.Rider) *models.Driver {
	d.waiting = append(d.waiting, r)

	var best *models.Driver
	bestIdx := -1
	bestTime := 0
	for i, drv := range d.idle {
		t := drv.TravelTime(r.Origin)
		if best == nil || t < bestTime {
			best, bestIdx, bestTime = drv, i, t
		}
	}
	if best != nil && d.ExclusiveMatch {
		d.idle = append(d.idle[:bestIdx], d.idle[bestIdx+1:]...)
	}
	return best
}

// RequestRider registers the driver if it is new (adding it to the idle
// partition when its flag says so) and returns the longest-waiting rider,
// or nil if nobody is waiting. The rider stays on the waiting list until
// a cancel or a successful ride moves it. Under ExclusiveMatch a known
// driver requesting while idle is re-listed, since matching delisted it.
func (d *Dispatcher) RequestRider(drv *models.Driver) *models.Rider {
	if _, ok := d.total[drv.ID]; !ok {
		d.total[drv.ID] = drv
		if drv.Idle {
			d.idle = append(d.idle, drv)
		}
	} else if d.ExclusiveMatch && drv.Idle && !d.listedIdle(drv.ID) {
		d.idle = append(d.idle, drv)
	}
	if len(d.waiting) == 0 {
		return nil
	}
	return d.waiting[0]
}

// CancelRide moves a waiting rider to the cancelled partition. Riders not
// on the waiting list (in particular satisfied ones) are left alone.
func (d *Dispatcher) CancelRide(r *models.Rider) {
	if d.removeWaiting(r.ID) {
		d.cancelled[r.ID] = struct{}{}
	}
}

// EndSuccessfulRide moves a waiting rider to the satisfied partition.
// No-op for riders not on the waiting list.
func (d *Dispatcher) EndSuccessfulRide(r *models.Rider) {
	if d.removeWaiting(r.ID) {
		d.satisfied[r.ID] = struct{}{}
	}
}

func (d *Dispatcher) listedIdle(id string) bool {
	for _, drv := range d.idle {
		if drv.ID == id {
			return true
		}
	}
	return false
}

func (d *Dispatcher) removeWaiting(id string) bool {
	for i, r := range d.waiting {
		if r.ID == id {
			d.waiting = append(d.waiting[:i], d.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// IsCancelled reports whether the rider sits in the cancelled partition.
func (d *Dispatcher) IsCancelled(id string) bool {
	_, ok := d.cancelled[id]
	return ok
}

// IsSatisfied reports whether the rider sits in the satisfied partition.
func (d *Dispatcher) IsSatisfied(id string) bool {
	_, ok := d.satisfied[id]
	return ok
}

// WaitingCount reports the current waiting-list length.
func (d *Dispatcher) WaitingCount() int { return len(d.waiting) }

// DriverCount reports how many drivers have ever registered.
func (d *Dispatcher) DriverCount() int { return len(d.total) }
