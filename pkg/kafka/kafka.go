package kafka

import (
	"github.com/IBM/sarama"
)

const (
	BooksTopic = "bookshelf.books"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
}

// EventBook is published on every book mutation so downstream consumers
// (stats, search indexing) can react without polling the store.
type EventBook struct {
	Event  string `json:"event"`
	BookID int64  `json:"bookId"`
	UserID string `json:"userId,omitempty"`
}

const (
	EventBookCreated = "book.created"
	EventBookUpdated = "book.updated"
	EventBookDeleted = "book.deleted"
)

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
