// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/fredmak/hostel-manager/internal/queue"
)

// PublishOccupancyAssigned publishes an OccupancyAssignedEvent to the
// "occupancy.assigned" queue. Messages are marked as persistent.
func PublishOccupancyAssigned(ctx context.Context, event q.OccupancyAssignedEvent) error {
	return publish(ctx, "occupancy.assigned", event)
}

// PublishMaintenanceReported publishes a MaintenanceReportedEvent to the
// "maintenance.reported" queue.
func PublishMaintenanceReported(ctx context.Context, event q.MaintenanceReportedEvent) error {
	return publish(ctx, "maintenance.reported", event)
}

// publish opens a short-lived connection, declares the durable queue and
// sends one persistent JSON message. The function attempts to be robust and
// to never panic; any error is logged and returned so the caller can choose
// to ignore it.
func publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
