package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// TriggerPayload is the wire form of an automation trigger. ActorRole is
// frozen at fire time; the consumer applies it as-is.
type TriggerPayload struct {
	LeadID    string    `json:"lead_id"`
	Trigger   string    `json:"trigger"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	FiredAt   time.Time `json:"fired_at"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishTrigger(ctx context.Context, leadID string, trigger usecase.Trigger, actorID string, actorRole entity.Role) error {
	payload := TriggerPayload{
		LeadID:    leadID,
		Trigger:   string(trigger),
		ActorID:   actorID,
		ActorRole: string(actorRole),
		FiredAt:   time.Now(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("trigger payload marshal failed: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("trigger publish failed: %w", err)
	}

	return nil
}
