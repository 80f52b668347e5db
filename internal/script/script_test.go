package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
)

const sample = `# small fixture
0 DriverRequest Sam 1,1 2

1 RiderRequest xyz 1,1 6,6 4
`

func TestParseSample(t *testing.T) {
	events, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	dr, ok := events[0].(*event.DriverRequest)
	if !ok || dr.At != 0 {
		t.Fatalf("expected DriverRequest at t=0, got %v", events[0])
	}
	if dr.Driver.ID != "Sam" || dr.Driver.Speed != 2 || dr.Driver.Location != (models.Location{Row: 1, Col: 1}) {
		t.Fatalf("driver parsed wrong: %v", dr.Driver)
	}
	if !dr.Driver.Idle {
		t.Fatalf("freshly parsed driver should be idle")
	}

	rr, ok := events[1].(*event.RiderRequest)
	if !ok || rr.At != 1 {
		t.Fatalf("expected RiderRequest at t=1, got %v", events[1])
	}
	if rr.Rider.ID != "xyz" || rr.Rider.Patience != 4 ||
		rr.Rider.Origin != (models.Location{Row: 1, Col: 1}) ||
		rr.Rider.Destination != (models.Location{Row: 6, Col: 6}) {
		t.Fatalf("rider parsed wrong: %v", rr.Rider)
	}
	if rr.Rider.Status != models.Waiting {
		t.Fatalf("freshly parsed rider should be waiting")
	}
}

func TestParseMultiDigitLocations(t *testing.T) {
	events, err := Parse(strings.NewReader("3 RiderRequest big 12,40 100,7 15\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := events[0].(*event.RiderRequest).Rider
	if r.Origin != (models.Location{Row: 12, Col: 40}) || r.Destination != (models.Location{Row: 100, Col: 7}) {
		t.Fatalf("multi-digit locations parsed wrong: %v %v", r.Origin, r.Destination)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		line int
	}{
		{"bad timestamp", "x RiderRequest a 1,1 2,2 3\n", 1},
		{"unknown type", "0 Teleport a 1,1\n", 1},
		{"wrong token count", "0 RiderRequest a 1,1 2,2\n", 1},
		{"bad location", "0 DriverRequest a 1;1 2\n", 1},
		{"bad speed", "0 DriverRequest a 1,1 fast\n", 1},
		{"error carries line number", "# ok\n0 DriverRequest a 1,1 2\nbroken line here\n", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.in))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Line != tc.line {
				t.Fatalf("expected line %d, got %d", tc.line, perr.Line)
			}
		})
	}
}
