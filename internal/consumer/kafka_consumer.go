package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/producer"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/sender"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Mailer interface {
	SendEmail(n sender.EmailNotification) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// OrderEventConsumer читает события заказов и уведомляет магазин о новых заказах.
type OrderEventConsumer struct {
	reader     messageReader
	mailer     Mailer
	shopInbox  string
	retryDelay time.Duration // пауза после ошибки чтения
	log        *zap.Logger
}

const defaultRetryDelay = time.Second

func NewOrderEventConsumer(brokers []string, groupID, topic, shopInbox string, mailer Mailer, log *zap.Logger) *OrderEventConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &OrderEventConsumer{reader: r, mailer: mailer, shopInbox: shopInbox, retryDelay: defaultRetryDelay, log: log}
}

func (c *OrderEventConsumer) Run(ctx context.Context) error {
	c.log.Info("kafka consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			// reader закрыт через Close
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				c.log.Info("kafka reader closed")
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}
		if err := c.handle(m); err != nil {
			c.log.Error("handle order event", zap.ByteString("key", m.Key), zap.Error(err))
		}
	}
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == producer.HeaderEventType {
			return string(h.Value)
		}
	}
	return ""
}

func (c *OrderEventConsumer) handle(m kafka.Message) error {
	switch t := eventType(m); t {
	case service.EventOrderCreated:
		var ev service.OrderCreatedEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			return fmt.Errorf("unmarshal %s: %w", t, err)
		}
		if ev.OrderID == 0 {
			c.log.Warn("invalid order event", zap.ByteString("value", m.Value))
			return nil
		}
		err := c.mailer.SendEmail(sender.EmailNotification{
			To:       c.shopInbox,
			Subject:  fmt.Sprintf("New order #%d from %s", ev.TokenNumber, ev.CustomerName),
			Template: "order_created",
			Data:     ev,
		})
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		c.log.Info("order e-mail sent", zap.Int("order_id", ev.OrderID), zap.Int("token_number", ev.TokenNumber))
	case service.EventOrderStatusChanged:
		var ev service.OrderStatusChangedEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			return fmt.Errorf("unmarshal %s: %w", t, err)
		}
		c.log.Info("order status changed", zap.Int("order_id", ev.OrderID), zap.String("status", ev.Status))
	default:
		c.log.Warn("unknown event type", zap.String("type", t))
	}
	return nil
}

func (c *OrderEventConsumer) Close() error { return c.reader.Close() }
