package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/propagation"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
)

// DefaultTopic receives report events when no topic is configured.
const DefaultTopic = "bdo.report-events"

var _ ports.EventPublisher = (*Publisher)(nil)

// closeFlushTimeout bounds how long Close waits for buffered records.
const closeFlushTimeout = 5 * time.Second

// recordProducer is the slice of *kgo.Client the publisher drives.
type recordProducer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

// Publisher writes report events to a Kafka topic, keyed by report id.
// Records are buffered and delivered in the background; delivery failures
// are logged.
type Publisher struct {
	client recordProducer
	topic  string
	logger *slog.Logger
}

type Option func(*Publisher)

// WithLogger sets the logger delivery failures are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher dials the given brokers.
func NewPublisher(brokers []string, topic, clientID string, opts ...Option) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProduceRequestTimeout(10*time.Second),
		kgo.RecordDeliveryTimeout(30*time.Second),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ClientID(clientID),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return newPublisher(client, topic, opts...), nil
}

func newPublisher(client recordProducer, topic string, opts ...Option) *Publisher {
	p := &Publisher{client: client, topic: topic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Message is the JSON payload written for every event.
type Message struct {
	Type         string     `json:"type"`
	ReportID     string     `json:"report_id"`
	OccurredAt   time.Time  `json:"occurred_at"`
	Status       string     `json:"delivery_status,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	OperatorID   string     `json:"operator_id,omitempty"`
	DeliveryZone string     `json:"delivery_zone,omitempty"`
	Airline      string     `json:"airline,omitempty"`
	BDONumber    int64      `json:"bdo_number,omitempty"`
	ChangedBy    string     `json:"changed_by,omitempty"`
}

// ToMessage flattens a domain event into its wire form.
func ToMessage(event domain.Event) Message {
	msg := Message{Type: event.EventName(), ReportID: event.AggregateID(), OccurredAt: event.OccurredAt().UTC()}
	switch e := event.(type) {
	case domain.ReportCreated:
		msg.Status = string(domain.StatusPending)
		msg.OperatorID = e.OperatorID
		msg.DeliveryZone = e.DeliveryZone
		msg.Airline = e.Airline
		msg.BDONumber = e.BDONumber
	case domain.ReportStatusChanged:
		msg.Status = string(e.Status)
		msg.DeliveryDate = e.DeliveryDate
		msg.ChangedBy = e.ChangedBy
	}
	return msg
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if p == nil || p.client == nil {
		return errors.New("kafka publisher not configured")
	}
	payload, err := json.Marshal(ToMessage(event))
	if err != nil {
		return err
	}
	record := &kgo.Record{
		Topic:   p.topic,
		Key:     []byte(event.AggregateID()),
		Value:   payload,
		Headers: traceHeaders(ctx),
	}
	// The record outlives the request that produced it.
	p.client.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err == nil {
			return
		}
		p.logger.WarnContext(ctx, "report event not delivered",
			slog.String("topic", r.Topic),
			slog.String("report.id", string(r.Key)),
			slog.String("error", err.Error()))
	})
	return nil
}

// Close flushes buffered records and closes the client.
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeFlushTimeout)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka flush on close failed", slog.String("error", err.Error()))
	}
	p.client.Close()
}

func traceHeaders(ctx context.Context) []kgo.RecordHeader {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)
	headers := make([]kgo.RecordHeader, 0, len(carrier))
	for key, value := range carrier {
		headers = append(headers, kgo.RecordHeader{Key: key, Value: []byte(value)})
	}
	return headers
}
