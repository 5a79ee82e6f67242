package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	"github.com/artorders/artorders-backend/pkg/logger"
	"github.com/artorders/artorders-backend/pkg/outbox"
	"github.com/artorders/artorders-backend/pkg/outbox/idempotency"
	"github.com/artorders/artorders-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
)

const orderNotificationConsumer = "order-notifications"

// payloadVersion is the envelope payload shape this consumer understands.
const payloadVersion = 1

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []models.Notification) error
}

type artistLister interface {
	ListActiveArtistIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Mailer delivers notification emails. Implementations decide transport;
// NopMailer satisfies the interface for deployments without outbound mail.
type Mailer interface {
	Send(ctx context.Context, userID uuid.UUID, subject, body string) error
}

// NopMailer discards every message.
type NopMailer struct{}

func (NopMailer) Send(ctx context.Context, userID uuid.UUID, subject, body string) error {
	return nil
}

// Consumer watches domain events and fans them out as in-app notifications
// plus mail through the configured Mailer.
type Consumer struct {
	repo         repository
	artists      artistLister
	mailer       Mailer
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	decoders     *outbox.DecoderRegistry
	logg         *logger.Logger
}

func payloadDecoders() *outbox.DecoderRegistry {
	registry := outbox.NewDecoderRegistry()
	registry.Register(enums.EventOfferCreated, payloadVersion, func(data json.RawMessage) (any, error) {
		var payload payloads.OfferCreatedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("parse offer created payload: %w", err)
		}
		return payload, nil
	})
	registry.Register(enums.EventOfferAccepted, payloadVersion, func(data json.RawMessage) (any, error) {
		var payload payloads.OfferAcceptedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("parse offer accepted payload: %w", err)
		}
		return payload, nil
	})
	registry.Register(enums.EventOfferDeclined, payloadVersion, func(data json.RawMessage) (any, error) {
		var payload payloads.OfferDeclinedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("parse offer declined payload: %w", err)
		}
		return payload, nil
	})
	registry.Register(enums.EventTopOrdersDaily, payloadVersion, func(data json.RawMessage) (any, error) {
		var payload payloads.TopOrdersDigestEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("parse digest payload: %w", err)
		}
		return payload, nil
	})
	return registry
}

// NewConsumer builds an order notification consumer.
func NewConsumer(repo repository, artists artistLister, mailer Mailer, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if artists == nil {
		return nil, fmt.Errorf("artist lister required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		artists:      artists,
		mailer:       mailer,
		subscription: subscription,
		idempotency:  manager,
		decoders:     payloadDecoders(),
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	})

	if !c.handles(eventType) {
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	version := envelope.Version
	if version == 0 {
		version = payloadVersion
	}

	if err := c.handlePayload(ctx, eventType, version, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) handles(eventType enums.OutboxEventType) bool {
	switch eventType {
	case enums.EventOfferCreated, enums.EventOfferAccepted, enums.EventOfferDeclined, enums.EventTopOrdersDaily:
		return true
	default:
		return false
	}
}

func (c *Consumer) handlePayload(ctx context.Context, eventType enums.OutboxEventType, version int, data json.RawMessage, logCtx context.Context) error {
	decoded, err := c.decoders.Decode(eventType, version, data)
	if err != nil {
		return err
	}
	switch payload := decoded.(type) {
	case payloads.OfferCreatedEvent:
		return c.notifyOfferReceived(ctx, payload, logCtx)
	case payloads.OfferAcceptedEvent:
		return c.notifyOfferAccepted(ctx, payload, logCtx)
	case payloads.OfferDeclinedEvent:
		return c.notifyOfferDeclined(ctx, payload, logCtx)
	case payloads.TopOrdersDigestEvent:
		return c.fanOutDigest(ctx, payload, logCtx)
	default:
		c.logg.Info(logCtx, "event type not handled")
		return nil
	}
}

func (c *Consumer) notifyOfferReceived(ctx context.Context, payload payloads.OfferCreatedEvent, logCtx context.Context) error {
	if payload.CustomerID == uuid.Nil {
		return fmt.Errorf("customer id missing")
	}
	title := "New offer on your order"
	message := fmt.Sprintf("An artist offered %s for %q.", payload.Fee.StringFixed(0), payload.OrderTitle)
	notification := &models.Notification{
		UserID:  payload.CustomerID,
		Kind:    enums.NotificationOfferReceived,
		Title:   title,
		Message: message,
		Link:    stringPtr(fmt.Sprintf("/orders/%s", payload.OrderID)),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	if err := c.mailer.Send(ctx, payload.CustomerID, title, message); err != nil {
		c.logg.Error(logCtx, "offer received mail failed", err)
	}
	c.logg.Info(logCtx, "customer notified of new offer")
	return nil
}

func (c *Consumer) notifyOfferAccepted(ctx context.Context, payload payloads.OfferAcceptedEvent, logCtx context.Context) error {
	if payload.ArtistID == uuid.Nil {
		return fmt.Errorf("artist id missing")
	}
	title := "Your offer was accepted"
	message := "The customer accepted your offer. You can start working on the commission."
	notification := &models.Notification{
		UserID:  payload.ArtistID,
		Kind:    enums.NotificationOfferAccepted,
		Title:   title,
		Message: message,
		Link:    stringPtr(fmt.Sprintf("/orders/%s", payload.OrderID)),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	if err := c.mailer.Send(ctx, payload.ArtistID, title, message); err != nil {
		c.logg.Error(logCtx, "offer accepted mail failed", err)
	}
	c.logg.Info(logCtx, "artist notified of accepted offer")
	return nil
}

func (c *Consumer) notifyOfferDeclined(ctx context.Context, payload payloads.OfferDeclinedEvent, logCtx context.Context) error {
	if payload.ArtistID == uuid.Nil {
		return fmt.Errorf("artist id missing")
	}
	notification := &models.Notification{
		UserID:  payload.ArtistID,
		Kind:    enums.NotificationOfferDeclined,
		Title:   "Your offer was declined",
		Message: "The customer declined your offer.",
		Link:    stringPtr(fmt.Sprintf("/orders/%s", payload.OrderID)),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "artist notified of declined offer")
	return nil
}

func (c *Consumer) fanOutDigest(ctx context.Context, payload payloads.TopOrdersDigestEvent, logCtx context.Context) error {
	if len(payload.Orders) == 0 {
		c.logg.Info(logCtx, "digest empty, nothing to fan out")
		return nil
	}
	artistIDs, err := c.artists.ListActiveArtistIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active artists: %w", err)
	}
	if len(artistIDs) == 0 {
		c.logg.Info(logCtx, "no active artists for digest")
		return nil
	}

	title := fmt.Sprintf("Top open orders for %s", payload.Date)
	message := digestMessage(payload)
	notifications := make([]models.Notification, 0, len(artistIDs))
	for _, artistID := range artistIDs {
		notifications = append(notifications, models.Notification{
			UserID:  artistID,
			Kind:    enums.NotificationTopOrdersDaily,
			Title:   title,
			Message: message,
			Link:    stringPtr("/orders"),
		})
	}
	if err := c.repo.CreateBatch(ctx, notifications); err != nil {
		return err
	}
	for _, artistID := range artistIDs {
		if err := c.mailer.Send(ctx, artistID, title, message); err != nil {
			c.logg.Error(logCtx, "digest mail failed", err)
		}
	}
	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{"artists": len(artistIDs)}), "digest fanned out")
	return nil
}

func digestMessage(payload payloads.TopOrdersDigestEvent) string {
	message := "Most viewed open orders today:"
	for i, entry := range payload.Orders {
		message += fmt.Sprintf("\n%d. %s (%d views)", i+1, entry.Title, entry.Views)
	}
	return message
}

func stringPtr(value string) *string {
	return &value
}
