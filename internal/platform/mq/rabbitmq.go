package mq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/config"
)

type pooledChannel struct {
	ch *amqp.Channel
}

// Pool is a publisher-side channel pool over one connection. Channels run in
// confirm mode; nacks are logged by a background reader per channel.
type Pool struct {
	conn     *amqp.Connection
	channels chan *pooledChannel
	exchange string
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
}

func Dial(cfg config.MQConfig, logger *slog.Logger) (*Pool, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	size := cfg.ChannelPoolSize
	if size <= 0 {
		size = 4
	}

	p := &Pool{conn: conn, channels: make(chan *pooledChannel, size), exchange: cfg.Exchange, logger: logger}
	for i := 0; i < size; i++ {
		pc, err := p.openChannel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open channel: %w", err)
		}
		p.channels <- pc
	}

	if err := p.declareExchange(); err != nil {
		p.Close()
		return nil, err
	}
	logger.Info("mq publisher pool ready", "size", size, "exchange", cfg.Exchange)
	return p, nil
}

func (p *Pool) openChannel() (*pooledChannel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("enable confirm: %w", err)
	}

	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, 256))
	go func() {
		for c := range confirms {
			if !c.Ack {
				p.logger.Warn("mq publish nacked", "delivery_tag", c.DeliveryTag)
			}
		}
	}()
	return &pooledChannel{ch: ch}, nil
}

func (p *Pool) declareExchange() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	return nil
}

// Publish sends a persistent JSON message to the pool's exchange without
// waiting for the broker confirm.
func (p *Pool) Publish(ctx context.Context, routingKey string, body []byte) error {
	var pc *pooledChannel
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c, ok := <-p.channels:
		if !ok {
			return fmt.Errorf("mq pool closed")
		}
		pc = c
	}
	defer p.release(pc)

	return pc.ch.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
}

func (p *Pool) release(pc *pooledChannel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = pc.ch.Close()
		return
	}
	p.channels <- pc
}

func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.channels)
	for pc := range p.channels {
		_ = pc.ch.Close()
	}
	_ = p.conn.Close()
}
