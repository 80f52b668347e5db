// Package monitor records the activities a simulation notifies it about
// and aggregates them into a report once the run finishes.
package monitor

import (
	"errors"
	"fmt"

	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
)

// ErrNoActivity is returned by Report when a statistic has no qualifying
// data to average over.
var ErrNoActivity = errors.New("monitor: no qualifying activity recorded")

// Activity is one observed transition.
type Activity struct {
	Time     int             `json:"time"`
	Actor    event.Actor     `json:"actor"`
	Action   event.Action    `json:"action"`
	ID       string          `json:"id"`
	Location models.Location `json:"location"`
}

// Report is the aggregate outcome of a run.
type Report struct {
	RiderWaitTime       float64 `json:"rider_wait_time"`
	DriverTotalDistance float64 `json:"driver_total_distance"`
	DriverRideDistance  float64 `json:"driver_ride_distance"`
}

// Monitor keeps per-actor activity logs in notification order. It
// implements event.Notifier. Not safe for concurrent use; each simulation
// owns its own.
type Monitor struct {
	activities map[event.Actor]map[string][]Activity
}

func New() *Monitor {
	return &Monitor{activities: map[event.Actor]map[string][]Activity{
		event.ActorRider:  {},
		event.ActorDriver: {},
	}}
}

func (m *Monitor) String() string {
	return fmt.Sprintf("Monitor (%d drivers, %d riders)",
		len(m.activities[event.ActorDriver]), len(m.activities[event.ActorRider]))
}

// Notify appends an activity to the actor's log.
func (m *Monitor) Notify(timestamp int, actor event.Actor, action event.Action, id string, loc models.Location) {
	m.activities[actor][id] = append(m.activities[actor][id],
		Activity{Time: timestamp, Actor: actor, Action: action, ID: id, Location: loc})
}

// Report aggregates the recorded activities. Any statistic without
// qualifying data makes the whole report fail with ErrNoActivity.
func (m *Monitor) Report() (Report, error) {
	wait, err := m.averageWaitTime()
	if err != nil {
		return Report{}, err
	}
	total, err := m.averageTotalDistance()
	if err != nil {
		return Report{}, err
	}
	ride, err := m.averageRideDistance()
	if err != nil {
		return Report{}, err
	}
	return Report{RiderWaitTime: wait, DriverTotalDistance: total, DriverRideDistance: ride}, nil
}

// averageWaitTime averages, over riders that were picked up or cancelled,
// the time between their request and that first resolution.
func (m *Monitor) averageWaitTime() (float64, error) {
	var sum, count int
	for _, acts := range m.activities[event.ActorRider] {
		// Fewer than two activities means the rider never finished
		// waiting. The first is always the request; the second is the
		// pickup or the cancel.
		if len(acts) >= 2 {
			sum += acts[1].Time - acts[0].Time
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("rider wait time: %w", ErrNoActivity)
	}
	return float64(sum) / float64(count), nil
}

// averageTotalDistance averages the distance covered per driver, summed
// over consecutive recorded locations.
func (m *Monitor) averageTotalDistance() (float64, error) {
	var sum, count int
	for _, acts := range m.activities[event.ActorDriver] {
		if len(acts) >= 2 {
			for i := 0; i < len(acts)-1; i++ {
				sum += models.ManhattanDistance(acts[i].Location, acts[i+1].Location)
			}
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("driver total distance: %w", ErrNoActivity)
	}
	return float64(sum) / float64(count), nil
}

// averageRideDistance averages pickup-to-dropoff distance over all
// registered drivers, including those who never carried a rider.
func (m *Monitor) averageRideDistance() (float64, error) {
	var sum int
	for _, acts := range m.activities[event.ActorDriver] {
		for i := 0; i < len(acts)-1; i++ {
			if acts[i].Action == event.ActionPickup && acts[i+1].Action == event.ActionDropoff {
				sum += models.ManhattanDistance(acts[i].Location, acts[i+1].Location)
			}
		}
	}
	drivers := len(m.activities[event.ActorDriver])
	if drivers == 0 {
		return 0, fmt.Errorf("driver ride distance: %w", ErrNoActivity)
	}
	return float64(sum) / float64(drivers), nil
}
