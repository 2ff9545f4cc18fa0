package events

import (
	"context"
	"strconv"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		log:      log.Named("events"),
	}
}

// Publish sends the event keyed by loan id, so that events of one loan keep
// their order within a partition.
func (p *Publisher) Publish(_ context.Context, event model.LoanEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal loan event")
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.LoanID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrapf(err, "send %s", event.Type)
	}
	p.log.Debug("loan event sent",
		zap.String("type", string(event.Type)),
		zap.Int64("loanId", event.LoanID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, model.LoanEvent) error { return nil }

func (Nop) Close() error { return nil }
