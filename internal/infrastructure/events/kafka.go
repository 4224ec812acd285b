package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Comandas-api/internal/application/ports"
	"github.com/jhoicas/Comandas-api/pkg/logger"
)

const kafkaBatchTimeout = 10 * time.Millisecond

// KafkaPublisher envía al tópico de ventas solo las comandas cobradas, con la
// comanda como clave para conservar el orden por partición.
type KafkaPublisher struct {
	Writer *kafka.Writer
}

// NewKafkaPublisher construye el writer para los brokers y tópico dados. La
// escritura es asíncrona: Publish no espera al broker y los fallos de entrega
// se registran en log.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("kafka")
	return &KafkaPublisher{Writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: kafkaBatchTimeout,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn().Err(err).Int("messages", len(messages)).Msg("no se entregaron ventas a kafka")
			}
		},
	}}
}

// Publish implementa ports.EventPublisher. Ignora los eventos que no son de cobro.
func (p *KafkaPublisher) Publish(ctx context.Context, evt ports.OrderEvent) error {
	if evt.Type != ports.EventOrderPaid {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: payload,
		Time:  evt.OccurredAt,
	})
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}
