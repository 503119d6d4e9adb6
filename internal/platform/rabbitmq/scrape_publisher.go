package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"ragbridge/internal/model"
)

// ScrapePublisher enqueues scrape jobs for the combine-files batch tool.
// The queue is durable and messages are persistent so a broker restart does
// not drop pending scrapes.
type ScrapePublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewScrapePublisher(conn *amqp.Connection, queueName string) *ScrapePublisher {
	return &ScrapePublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ScrapePublisher) Publish(ctx context.Context, job model.ScrapeJob) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare scrape queue failed: %w", err)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal scrape job failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish scrape job failed: %w", err)
	}
	return nil
}
