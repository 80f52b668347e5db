// Package script turns event-script text into the initial event list of a
// simulation. Lines look like:
//
//	<timestamp> RiderRequest <id> <row,col origin> <row,col destination> <patience>
//	<timestamp> DriverRequest <id> <row,col location> <speed>
//
// Blank lines and lines starting with '#' are skipped.
package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
)

// ParseError reports a malformed script line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("script: line %d: %s", e.Line, e.Msg)
}

// Parse reads an event script and returns the initial events in file
// order.
func Parse(r io.Reader) ([]event.Event, error) {
	var events []event.Event
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ev, err := parseLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("script: read: %w", err)
	}
	return events, nil
}

// ParseFile parses the script stored at path.
func ParseFile(path string) ([]event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("script: open: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(lineNo int, line string) (event.Event, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return nil, &ParseError{Line: lineNo, Msg: "expected timestamp and event type"}
	}
	ts, err := strconv.Atoi(tokens[0])
	if err != nil || ts < 0 {
		return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad timestamp %q", tokens[0])}
	}

	switch tokens[1] {
	case "RiderRequest":
		if len(tokens) != 6 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("RiderRequest needs 6 tokens, got %d", len(tokens))}
		}
		origin, err := parseLocation(tokens[3])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		dest, err := parseLocation(tokens[4])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		patience, err := strconv.Atoi(tokens[5])
		if err != nil || patience < 0 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad patience %q", tokens[5])}
		}
		rider := models.NewRider(tokens[2], origin, dest, patience)
		return &event.RiderRequest{At: ts, Rider: rider}, nil

	case "DriverRequest":
		if len(tokens) != 5 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("DriverRequest needs 5 tokens, got %d", len(tokens))}
		}
		loc, err := parseLocation(tokens[3])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		speed, err := strconv.Atoi(tokens[4])
		if err != nil || speed < 0 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad speed %q", tokens[4])}
		}
		driver := models.NewDriver(tokens[2], loc, speed)
		return &event.DriverRequest{At: ts, Driver: driver}, nil

	default:
		return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unknown event type %q", tokens[1])}
	}
}

// parseLocation reads the literal "row,col" form, no spaces.
func parseLocation(s string) (models.Location, error) {
	rowStr, colStr, ok := strings.Cut(s, ",")
	if !ok {
		return models.Location{}, fmt.Errorf("bad location %q", s)
	}
	row, err := strconv.Atoi(rowStr)
	if err != nil || row < 0 {
		return models.Location{}, fmt.Errorf("bad location row %q", s)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 0 {
		return models.Location{}, fmt.Errorf("bad location col %q", s)
	}
	return models.Location{Row: row, Col: col}, nil
}
