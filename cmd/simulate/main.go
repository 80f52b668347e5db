package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/ride-sim/internal/logging"
	"github.com/example/ride-sim/internal/monitor"
	"github.com/example/ride-sim/internal/script"
	"github.com/example/ride-sim/internal/sim"
)

func main() {
	var (
		eventsPath     string
		logLevel       string
		exclusiveMatch bool
	)
	flag.StringVar(&eventsPath, "events", "events_small.txt", "path to the event script to replay")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug logs every applied event)")
	flag.BoolVar(&exclusiveMatch, "exclusive-match", false, "remove matched drivers from the idle pool immediately")
	flag.Parse()

	logger := logging.NewLogger(logLevel)

	initial, err := script.ParseFile(eventsPath)
	if err != nil {
		var perr *script.ParseError
		if errors.As(err, &perr) {
			logger.Error("bad event script", "error", perr)
		} else {
			logger.Error("cannot load event script", "error", err)
		}
		os.Exit(1)
	}

	opts := []sim.Option{sim.WithLogger(logger)}
	if exclusiveMatch {
		opts = append(opts, sim.WithExclusiveMatch())
	}
	report, err := sim.New(opts...).Run(initial)
	if err != nil {
		if errors.Is(err, monitor.ErrNoActivity) {
			logger.Error("report has no qualifying data", "error", err)
			os.Exit(2)
		}
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
}
