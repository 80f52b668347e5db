package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/ride-sim/internal/event"
	"github.com/example/ride-sim/internal/models"
)

// KafkaPublisher emits simulation activities onto a kafka topic, keyed by
// run id so one run's trace lands on one partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds an async writer: publishes enqueue and return
// immediately, so an unreachable broker never stalls a simulation run.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		BatchTimeout: 100 * time.Millisecond,
	})
	return &KafkaPublisher{writer: w}
}

type activityMessage struct {
	RunID    string          `json:"run_id"`
	Time     int             `json:"time"`
	Actor    event.Actor     `json:"actor"`
	Action   event.Action    `json:"action"`
	ID       string          `json:"id"`
	Location models.Location `json:"location"`
}

// PublishActivity enqueues one activity for background delivery. Only
// marshal and enqueue errors surface here; delivery failures are the
// writer's problem and the trace stream stays best-effort.
func (k *KafkaPublisher) PublishActivity(runID string, timestamp int, actor event.Actor, action event.Action, id string, loc models.Location) error {
	b, err := json.Marshal(activityMessage{RunID: runID, Time: timestamp, Actor: actor, Action: action, ID: id, Location: loc})
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(context.Background(), kafka.Message{Key: []byte(runID), Value: b})
}

// NotifierFor binds the publisher to a run id, yielding an event.Notifier
// that can be fanned into a simulation. Publish failures are dropped; the
// trace stream is best-effort.
func (k *KafkaPublisher) NotifierFor(runID string) event.Notifier {
	return &boundNotifier{pub: k, runID: runID}
}

type boundNotifier struct {
	pub   *KafkaPublisher
	runID string
}

func (n *boundNotifier) Notify(timestamp int, actor event.Actor, action event.Action, id string, loc models.Location) {
	_ = n.pub.PublishActivity(n.runID, timestamp, actor, action, id, loc)
}

func (k *KafkaPublisher) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
