package httpapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/ride-sim/internal/cache"
	"github.com/example/ride-sim/internal/config"
	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/ingest"
	"github.com/example/ride-sim/internal/models"
	"github.com/example/ride-sim/internal/monitor"
	"github.com/example/ride-sim/internal/payments"
	"github.com/example/ride-sim/internal/script"
	"github.com/example/ride-sim/internal/sim"
	"github.com/example/ride-sim/internal/storage"
	"github.com/example/ride-sim/internal/trace"
)

const maxScriptBytes = 1 << 20

// Server exposes simulation runs over HTTP: submit a script, get a
// report, fetch past runs, or watch the live trace over a websocket.
type Server struct {
	Store  storage.RunStore
	Cache  cache.ReportCache
	Kafka  *ingest.KafkaPublisher
	Trace  *trace.Registry
	Stripe *payments.StripeClient

	exclusiveMatch bool
	logger         *slog.Logger
	mux            *mux.Router
}

// NewServer wires a Server from config with in-memory fallbacks for every
// optional backend.
func NewServer(cfg config.ServerConfig, logger *slog.Logger) *Server {
	var store storage.RunStore
	if cfg.PGDSN != "" {
		if ps, err := storage.NewPostgresStore(cfg.PGDSN); err == nil {
			store = ps
		} else {
			logger.Error("postgres unavailable, falling back to memory store", "error", err)
		}
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	var reportCache cache.ReportCache
	if cfg.RedisAddr != "" {
		reportCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	} else {
		reportCache = cache.NewMemoryCache(cfg.CacheTTL)
	}

	var kp *ingest.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp = ingest.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	stripeClient := payments.NewStripeClient(payments.FareSchedule{
		BaseCents:    cfg.FareBaseCents,
		PerUnitCents: cfg.FarePerUnitCents,
		Currency:     cfg.FareCurrency,
	})

	s := &Server{
		Store:          store,
		Cache:          reportCache,
		Kafka:          kp,
		Trace:          trace.NewRegistry(),
		Stripe:         stripeClient,
		exclusiveMatch: cfg.ExclusiveMatch,
		logger:         logger,
		mux:            mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/simulations", s.handleRunSimulation).Methods("POST")
	s.mux.HandleFunc("/api/v1/simulations/{run_id}", s.handleGetRun).Methods("GET")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ws", s.handleWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

type runResponse struct {
	RunID           string         `json:"run_id,omitempty"`
	Report          monitor.Report `json:"report"`
	EventsProcessed int            `json:"events_processed,omitempty"`
	Cached          bool           `json:"cached,omitempty"`
}

// handleRunSimulation parses the posted script, replays it and responds
// with the report. Identical scripts are served from the report cache.
func (s *Server) handleRunSimulation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxScriptBytes))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	sum := sha256.Sum256(body)
	scriptHash := hex.EncodeToString(sum[:])
	if report, ok := s.Cache.Get(scriptHash); ok {
		writeJSON(w, http.StatusOK, runResponse{Report: report, Cached: true})
		return
	}

	initial, err := script.Parse(bytes.NewReader(body))
	if err != nil {
		var perr *script.ParseError
		if errors.As(err, &perr) {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := newID()
	opts := []sim.Option{
		sim.WithLogger(s.logger),
		sim.WithNotifier(s.runNotifier(runID)),
	}
	if s.exclusiveMatch {
		opts = append(opts, sim.WithExclusiveMatch())
	}
	simulation := sim.New(opts...)
	report, err := simulation.Run(initial)
	if err != nil {
		if errors.Is(err, monitor.ErrNoActivity) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "simulation failed", http.StatusInternalServerError)
		return
	}

	run := &storage.Run{
		ID:              runID,
		ScriptHash:      scriptHash,
		Report:          report,
		EventsProcessed: simulation.EventsProcessed(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Store.SaveRun(run); err != nil {
		s.logger.Error("save run", "run_id", runID, "error", err)
	}
	s.Cache.Set(scriptHash, report)

	if s.Stripe != nil && s.Stripe.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if piID, err := s.Stripe.SettleFare(ctx, report, ""); err != nil {
			s.logger.Error("fare settlement failed", "run_id", runID, "error", err)
		} else {
			s.logger.Info("fare settled", "run_id", runID, "payment_intent", piID)
		}
		cancel()
	}

	writeJSON(w, http.StatusOK, runResponse{
		RunID:           runID,
		Report:          report,
		EventsProcessed: run.EventsProcessed,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["run_id"]
	run, err := s.Store.GetRun(id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}
	id := s.Trace.Add(conn)
	// drain client frames; drop the session on error or close
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.Trace.Remove(id)
				return
			}
		}
	}()
}

// runNotifier fans one run's notifications out to metrics, the live
// trace, and kafka when configured. The monitor itself is added by the
// simulation.
func (s *Server) runNotifier(runID string) event.Notifier {
	sinks := multiNotifier{observabilityNotifier, s.Trace.NotifierFor(runID)}
	if s.Kafka != nil {
		sinks = append(sinks, s.Kafka.NotifierFor(runID))
	}
	return sinks
}

type multiNotifier []event.Notifier

func (m multiNotifier) Notify(timestamp int, actor event.Actor, action event.Action, id string, loc models.Location) {
	for _, n := range m {
		n.Notify(timestamp, actor, action, id, loc)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
