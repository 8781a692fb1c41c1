package repository

import (
	"context"

	"MarketEngine/internal/domain/models"
)

// MessageProducer is the part of pkg/kafka.Producer used here.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// ChannelPublisher is the part of pkg/redis.Client used here.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, value interface{}) (int64, error)
	Close() error
}

// KafkaLookupPublisher writes lookup events keyed by symbol, so events for
// one symbol stay ordered within a partition.
type KafkaLookupPublisher struct {
	producer MessageProducer
	topic    string
}

func NewKafkaLookupPublisher(producer MessageProducer, topic string) *KafkaLookupPublisher {
	return &KafkaLookupPublisher{producer: producer, topic: topic}
}

func (p *KafkaLookupPublisher) Publish(ctx context.Context, ev *models.LookupEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

func (p *KafkaLookupPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// RedisLookupPublisher fans lookup events out on a pub/sub channel.
type RedisLookupPublisher struct {
	client  ChannelPublisher
	channel string
}

func NewRedisLookupPublisher(client ChannelPublisher, channel string) *RedisLookupPublisher {
	return &RedisLookupPublisher{client: client, channel: channel}
}

func (p *RedisLookupPublisher) Publish(ctx context.Context, ev *models.LookupEvent) error {
	_, err := p.client.Publish(ctx, p.channel, ev)
	return err
}

func (p *RedisLookupPublisher) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// NopLookupPublisher drops everything.
type NopLookupPublisher struct{}

func (NopLookupPublisher) Publish(context.Context, *models.LookupEvent) error { return nil }

func (NopLookupPublisher) Close() error { return nil }
