// Package service publishes film change events to RabbitMQ. Publishing is
// best effort: errors are logged and returned so callers can ignore them
// without interrupting the request that produced the event.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/config"
	"github.com/iliyamo/film-archive-api/internal/queue"
)

const publishTimeout = 3 * time.Second

// FilmEventPublisher sends FilmChangedEvents to a durable queue, dialing the
// broker for every event. A nil publisher drops events silently.
type FilmEventPublisher struct {
	url   string
	queue string
	log   logrus.FieldLogger
}

// NewFilmEventPublisher returns nil when no broker URL is configured.
func NewFilmEventPublisher(cfg config.QueueConfig, log logrus.FieldLogger) *FilmEventPublisher {
	if cfg.URL == "" {
		return nil
	}
	return &FilmEventPublisher{url: cfg.URL, queue: cfg.Queue, log: log}
}

// Publish delivers ev as a persistent JSON message.
func (p *FilmEventPublisher) Publish(ctx context.Context, ev queue.FilmChangedEvent) error {
	if p == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(publishTimeout)})
	if err != nil {
		p.log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
