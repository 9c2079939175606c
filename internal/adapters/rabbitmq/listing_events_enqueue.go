package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/daryaivaniukovich/kufar-monitor/internal/contextkeys"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ListingEventsAdapter публикует события о новых объявлениях в обменник
// RabbitMQ для внешних потребителей (аналитика, другие боты).
// Публикация опциональна и best-effort: сбой логируется вызывающей
// стороной и не влияет на основной цикл.
type ListingEventsAdapter struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
}

func NewListingEventsAdapter(cfg Config) (*ListingEventsAdapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq events: URL is required")
	}
	if cfg.Exchange == "" || cfg.RoutingKey == "" {
		return nil, fmt.Errorf("rabbitmq events: exchange and routing key are required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq events: failed to dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq events: failed to open a channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq events: failed to declare exchange '%s': %w", cfg.Exchange, err)
	}

	return &ListingEventsAdapter{
		connection: conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
	}, nil
}

// newListingEventDTO - контракт события для внешних потребителей.
type newListingEventDTO struct {
	AdID     string   `json:"ad_id"`
	Title    string   `json:"title,omitempty"`
	PriceBYN *float64 `json:"price_byn,omitempty"`
	City     string   `json:"city,omitempty"`
	District string   `json:"district,omitempty"`
	URL      string   `json:"url"`
	Images   []string `json:"images,omitempty"`
}

// PublishNewListing отправляет событие об одном новом объявлении.
func (a *ListingEventsAdapter) PublishNewListing(ctx context.Context, listing domain.Listing) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ListingEventsAdapter",
		"routing_key": a.routingKey,
	})

	eventJSON, err := json.Marshal(newListingEventDTO{
		AdID:     listing.ID,
		Title:    listing.Title,
		PriceBYN: listing.PriceBYN,
		City:     listing.City,
		District: listing.District,
		URL:      listing.URL,
		Images:   listing.Images,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq events: failed to marshal event for ad %s: %w", listing.ID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    "NewListingEvent",
			"event-version": "1.0.0",
		},
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.channel.PublishWithContext(publishCtx, a.exchange, a.routingKey, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq events: failed to publish event for ad %s: %w", listing.ID, err)
	}

	logger.Debug("New listing event published", port.Fields{"ad_id": listing.ID})
	return nil
}

func (a *ListingEventsAdapter) Close() error {
	var firstErr error
	if a.channel != nil {
		if err := a.channel.Close(); err != nil {
			firstErr = err
		}
		a.channel = nil
	}
	if a.connection != nil {
		if err := a.connection.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.connection = nil
	}
	return firstErr
}
