package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	"github.com/artorders/artorders-backend/pkg/logger"
	"github.com/artorders/artorders-backend/pkg/outbox"
	"github.com/artorders/artorders-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultTopOrdersLimit = 10

const digestDateLayout = "2006-01-02"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type topOrdersReader interface {
	TopOpenByViews(ctx context.Context, limit int) ([]models.Order, error)
}

// OrdersDigestJobParams configure the daily top-orders digest.
type OrdersDigestJobParams struct {
	Logger *logger.Logger
	DB     txRunner
	Orders topOrdersReader
	Outbox outboxEmitter
	Limit  int
}

// NewOrdersDigestJob builds the job that emits one top-open-orders digest
// event per UTC day. The notification consumer fans it out to artists.
func NewOrdersDigestJob(params OrdersDigestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTopOrdersLimit
	}
	return &ordersDigestJob{
		logg:   params.Logger,
		db:     params.DB,
		orders: params.Orders,
		outbox: params.Outbox,
		limit:  limit,
		now:    time.Now,
	}, nil
}

type ordersDigestJob struct {
	logg   *logger.Logger
	db     txRunner
	orders topOrdersReader
	outbox outboxEmitter
	limit  int
	now    func() time.Time
}

func (j *ordersDigestJob) Name() string { return "orders-digest" }

func (j *ordersDigestJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	date := now.Format(digestDateLayout)

	top, err := j.orders.TopOpenByViews(ctx, j.limit)
	if err != nil {
		return fmt.Errorf("query top open orders: %w", err)
	}
	if len(top) == 0 {
		j.logg.Info(ctx, "no open orders for digest")
		return nil
	}

	entries := make([]payloads.TopOrderEntry, 0, len(top))
	for _, order := range top {
		entries = append(entries, payloads.TopOrderEntry{
			OrderID: order.ID,
			Title:   order.Title,
			Views:   order.Views,
		})
	}

	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		event := outbox.DomainEvent{
			EventType:     enums.EventTopOrdersDaily,
			AggregateType: enums.AggregateDigest,
			AggregateID:   digestAggregateID(date),
			Version:       1,
			OccurredAt:    now,
			Data: payloads.TopOrdersDigestEvent{
				Date:   date,
				Orders: entries,
			},
		}
		return j.outbox.EmitIfNotExists(ctx, tx, event)
	})
	if err != nil {
		return fmt.Errorf("emit digest: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"date":   date,
		"orders": len(entries),
	})
	j.logg.Info(logCtx, "orders digest emitted")
	return nil
}

// digestAggregateID derives a stable UUID from the digest date so the outbox
// uniqueness index guarantees one event per day.
func digestAggregateID(date string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("artorders:digest:"+date))
}
