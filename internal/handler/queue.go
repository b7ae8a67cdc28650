package handler

import (
	"encoding/json"

	"github.com/IBM/sarama"
)

func NewEnqueuer(producer sarama.SyncProducer) Enqueuer {
	if producer == nil {
		return nopEnqueuer{}
	}
	return &enqueuerImpl{
		producer: producer,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

// nopEnqueuer stands in when no brokers are configured.
type nopEnqueuer struct{}

func (nopEnqueuer) Enqueue(string, any) error { return nil }
