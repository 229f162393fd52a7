package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReportQueue is the durable queue carrying report refresh jobs from the API
// to the worker.
const ReportQueue = "report_refresh"

// ReportJob asks the worker to recompute the cached report for a campaign.
type ReportJob struct {
	CampaignID string `json:"campaign_id"`
}

// Publisher publishes report jobs to RabbitMQ
type Publisher struct {
	conn      *Connection
	queueName string
}

// NewPublisher declares the queue and returns a publisher bound to it.
func NewPublisher(conn *Connection, queueName string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

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

	return &Publisher{
		conn:      conn,
		queueName: queueName,
	}, nil
}

// PublishReportJob enqueues a report refresh for one campaign.
func (p *Publisher) PublishReportJob(campaignID string) error {
	job := ReportJob{CampaignID: campaignID}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal report job: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.Publish(
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish report job: %w", err)
	}

	return nil
}
