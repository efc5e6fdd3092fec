package export

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/tellor-io/layer-profitability-checker/internal/checker"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// snapshotMessage is the JSON payload published for one run.
type snapshotMessage struct {
	Snapshot  types.NetworkSnapshot `json:"snapshot"`
	Curve     []types.AprPoint      `json:"apr_curve"`
	Reporters []types.ReporterAPR   `json:"reporter_aprs"`
}

// Publisher emits finished snapshots to a Kafka topic.
type Publisher struct {
	producer *kafka.Producer
	topic    string
}

// NewPublisher connects to the broker. Callers skip construction entirely
// when no broker is configured.
func NewPublisher(broker, topic string) (*Publisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": broker})
	if err != nil {
		return nil, fmt.Errorf("connecting to kafka: %w", err)
	}
	return &Publisher{producer: p, topic: topic}, nil
}

// PublishSnapshot sends the run's snapshot, curve and reporter APRs as one
// message keyed by chain ID.
func (p *Publisher) PublishSnapshot(res *checker.Result) error {
	data, err := json.Marshal(snapshotMessage{
		Snapshot:  res.Snapshot,
		Curve:     res.Curve,
		Reporters: res.ReporterAprs,
	})
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	message := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(res.Snapshot.ChainID),
		Value:          data,
	}
	if err := p.producer.Produce(message, nil); err != nil {
		return fmt.Errorf("producing snapshot message: %w", err)
	}
	p.producer.Flush(1000)
	log.Printf("[export] snapshot published to %s (height %d)", p.topic, res.Snapshot.CurrentHeight)
	return nil
}

// Close flushes and releases the producer.
func (p *Publisher) Close() {
	p.producer.Flush(1000)
	p.producer.Close()
}
