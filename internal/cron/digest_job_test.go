package cron

import (
	"context"
	"testing"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	"github.com/artorders/artorders-backend/pkg/logger"
	"github.com/artorders/artorders-backend/pkg/outbox"
	"github.com/artorders/artorders-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeOutboxService struct {
	events []outbox.DomainEvent
}

func (f *fakeOutboxService) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeTopOrdersReader struct {
	orders []models.Order
	limit  int
}

func (f *fakeTopOrdersReader) TopOpenByViews(ctx context.Context, limit int) ([]models.Order, error) {
	f.limit = limit
	return f.orders, nil
}

func newDigestJob(t *testing.T, reader *fakeTopOrdersReader, emitter *fakeOutboxService, limit int) *ordersDigestJob {
	t.Helper()
	jobIface, err := NewOrdersDigestJob(OrdersDigestJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		DB:     fakeTxRunner{},
		Orders: reader,
		Outbox: emitter,
		Limit:  limit,
	})
	if err != nil {
		t.Fatalf("NewOrdersDigestJob: %v", err)
	}
	job, ok := jobIface.(*ordersDigestJob)
	if !ok {
		t.Fatalf("expected ordersDigestJob, got %T", jobIface)
	}
	return job
}

func TestOrdersDigestJob_EmitsDailyDigest(t *testing.T) {
	now := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: uuid.New(), Title: "Mural for cafe wall", Views: 412},
		{ID: uuid.New(), Title: "Band logo", Views: 230},
	}
	reader := &fakeTopOrdersReader{orders: orders}
	emitter := &fakeOutboxService{}
	job := newDigestJob(t, reader, emitter, 10)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reader.limit != 10 {
		t.Fatalf("unexpected limit %d", reader.limit)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(emitter.events))
	}
	event := emitter.events[0]
	if event.EventType != enums.EventTopOrdersDaily {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.AggregateType != enums.AggregateDigest {
		t.Fatalf("unexpected aggregate type: %s", event.AggregateType)
	}
	if event.AggregateID != digestAggregateID("2026-09-01") {
		t.Fatal("aggregate id must derive from the digest date")
	}
	payload, ok := event.Data.(payloads.TopOrdersDigestEvent)
	if !ok {
		t.Fatal("expected digest payload")
	}
	if payload.Date != "2026-09-01" {
		t.Fatalf("unexpected digest date %s", payload.Date)
	}
	if len(payload.Orders) != 2 || payload.Orders[0].Views != 412 {
		t.Fatal("digest entries must mirror the top orders")
	}
}

func TestOrdersDigestJob_SameDayYieldsSameAggregate(t *testing.T) {
	morning := time.Date(2026, 9, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	reader := &fakeTopOrdersReader{orders: []models.Order{{ID: uuid.New(), Title: "Mural", Views: 5}}}
	emitter := &fakeOutboxService{}
	job := newDigestJob(t, reader, emitter, 10)

	job.now = func() time.Time { return morning }
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("morning run: %v", err)
	}
	job.now = func() time.Time { return evening }
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("evening run: %v", err)
	}
	if len(emitter.events) != 2 {
		t.Fatalf("expected 2 emit attempts, got %d", len(emitter.events))
	}
	if emitter.events[0].AggregateID != emitter.events[1].AggregateID {
		t.Fatal("runs within one UTC day must target the same aggregate")
	}
}

func TestOrdersDigestJob_SkipsWhenNoOpenOrders(t *testing.T) {
	emitter := &fakeOutboxService{}
	job := newDigestJob(t, &fakeTopOrdersReader{}, emitter, 10)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(emitter.events) != 0 {
		t.Fatal("empty marketplaces must not emit a digest")
	}
}
