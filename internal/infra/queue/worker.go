package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Worker consumes trigger deliveries and hands them to the automation
// engine. Stale and duplicate deliveries come back as NoOp and are acked;
// retried external delivery is expected, not a failure.
type Worker struct {
	Channel *amqp.Channel
	Engine  *usecase.AutomationEngine
}

func NewWorker(ch *amqp.Channel, engine *usecase.AutomationEngine) *Worker {
	return &Worker{
		Channel: ch,
		Engine:  engine,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual, so failures reach the DLQ)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("[worker] consumer registration failed: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload TriggerPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[worker] malformed trigger payload: %s", err)
				// Poison message. Reject without requeue so it dead-letters.
				d.Nack(false, false)
				continue
			}

			trig, ok := usecase.ParseTrigger(payload.Trigger)
			if !ok {
				log.Printf("[worker] unknown trigger %q for lead %s", payload.Trigger, payload.LeadID)
				d.Nack(false, false)
				continue
			}

			outcome, _, err := w.Engine.Dispatch(
				context.Background(), trig, payload.LeadID, entity.ParseRole(payload.ActorRole),
			)
			if err != nil {
				if errors.Is(err, entity.ErrLeadNotFound) || usecase.DomainCode(err) == usecase.CodeNotFound {
					// Lead was deleted after the trigger fired. Nothing to
					// apply it to, ever; drop to the DLQ for the record.
					log.Printf("[worker] trigger %s for missing lead %s", trig, payload.LeadID)
					d.Nack(false, false)
					continue
				}
				log.Printf("[worker] dispatch %s on lead %s failed: %s", trig, payload.LeadID, err)
				d.Nack(false, false)
				continue
			}

			middleware.RecordAutomation(string(trig), string(outcome))
			d.Ack(false)
		}
	}()

	log.Printf("[worker] consuming triggers from %q", queueName)
	<-forever
}
