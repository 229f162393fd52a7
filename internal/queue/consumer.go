package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// JobHandler processes one report job.
type JobHandler func(job *ReportJob) error

// Consumer consumes report jobs from a RabbitMQ queue
type Consumer struct {
	conn      *Connection
	queueName string
	handler   JobHandler
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewConsumer declares the queue and returns a consumer bound to it.
func NewConsumer(conn *Connection, queueName string, handler JobHandler) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	// Same settings as the publisher: durable, non-auto-delete
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Consumer{
		conn:      conn,
		queueName: queueName,
		handler:   handler,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

// Start begins consuming jobs until Stop is called.
func (c *Consumer) Start() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	// One job at a time; report recomputation is cheap but there is no
	// point prefetching a backlog.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual acknowledgement)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		defer close(c.doneChan)

		for {
			select {
			case <-c.stopChan:
				return
			case d, ok := <-msgs:
				if !ok {
					log.Println("delivery channel closed")
					return
				}

				if err := c.processJob(d); err != nil {
					log.Printf("Error processing report job: %v", err)
					d.Nack(false, true)
				} else {
					d.Ack(false)
				}
			}
		}
	}()

	log.Printf("Consumer started, listening on queue: %s", c.queueName)
	return nil
}

// Stop stops consuming and waits for the in-flight job to finish.
func (c *Consumer) Stop() error {
	close(c.stopChan)
	<-c.doneChan
	return nil
}

func (c *Consumer) processJob(d amqp.Delivery) error {
	var job ReportJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		return fmt.Errorf("failed to unmarshal report job: %w", err)
	}

	if err := c.handler(&job); err != nil {
		return fmt.Errorf("handler failed: %w", err)
	}

	return nil
}
