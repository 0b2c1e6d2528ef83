package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/segmentio/kafka-go"
)

const HeaderEventType = "event_type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEventProducer публикует события заказов в один топик.
// Ключ сообщения - id заказа, чтобы события одного заказа шли по порядку.
type OrderEventProducer struct {
	writer  messageWriter
	timeout time.Duration
}

func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	return &OrderEventProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		timeout: 5 * time.Second,
	}
}

func (p *OrderEventProducer) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return p.publish(ctx, service.EventOrderCreated, e.OrderID, e)
}

func (p *OrderEventProducer) PublishOrderStatusChanged(ctx context.Context, e service.OrderStatusChangedEvent) error {
	return p.publish(ctx, service.EventOrderStatusChanged, e.OrderID, e)
}

func (p *OrderEventProducer) publish(ctx context.Context, eventType string, orderID int, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(strconv.Itoa(orderID)),
		Value:   value,
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(eventType)}},
	})
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}
