// Package trace streams live simulation activity to websocket clients.
package trace

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
)

// Frame is one trace message sent to clients.
type Frame struct {
	RunID    string          `json:"run_id"`
	Time     int             `json:"time"`
	Actor    event.Actor     `json:"actor"`
	Action   event.Action    `json:"action"`
	ID       string          `json:"id"`
	Location models.Location `json:"location"`
}

// Session wraps one connected client.
type Session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *Session) send(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(f)
}

// Registry holds connected trace clients and broadcasts frames to all of
// them. Clients that error out are dropped.
type Registry struct {
	mu       sync.RWMutex
	nextID   int
	sessions map[int]*Session
}

func NewRegistry() *Registry { return &Registry{sessions: make(map[int]*Session)} }

// Add registers a client connection and returns its session id.
func (r *Registry) Add(conn *websocket.Conn) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.sessions[id] = &Session{conn: conn}
	return id
}

// Remove drops a client by session id.
func (r *Registry) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		_ = s.conn.Close()
		delete(r.sessions, id)
	}
}

// Broadcast sends a frame to every connected client.
func (r *Registry) Broadcast(f Frame) {
	r.mu.RLock()
	sessions := make(map[int]*Session, len(r.sessions))
	for id, s := range r.sessions {
		sessions[id] = s
	}
	r.mu.RUnlock()

	for id, s := range sessions {
		if err := s.send(f); err != nil {
			log.Printf("trace: ws send error, dropping client %d: %v", id, err)
			r.Remove(id)
		}
	}
}

// NotifierFor binds the registry to a run id, yielding an event.Notifier
// that can be fanned into a simulation.
func (r *Registry) NotifierFor(runID string) event.Notifier {
	return &boundNotifier{reg: r, runID: runID}
}

type boundNotifier struct {
	reg   *Registry
	runID string
}

func (n *boundNotifier) Notify(timestamp int, actor event.Actor, action event.Action, id string, loc models.Location) {
	n.reg.Broadcast(Frame{RunID: n.runID, Time: timestamp, Actor: actor, Action: action, ID: id, Location: loc})
}
