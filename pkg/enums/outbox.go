package enums

// OutboxEventType identifies a domain event queued through the outbox.
type OutboxEventType string

const (
	EventOfferCreated   OutboxEventType = "offer.created"
	EventOfferAccepted  OutboxEventType = "offer.accepted"
	EventOfferDeclined  OutboxEventType = "offer.declined"
	EventOrderCompleted OutboxEventType = "order.completed"
	EventTopOrdersDaily OutboxEventType = "orders.top_open_digest"
)

// OutboxAggregateType names the entity an event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder       OutboxAggregateType = "order"
	AggregateOffer       OutboxAggregateType = "offer"
	AggregateMasterpiece OutboxAggregateType = "masterpiece"
	AggregateDigest      OutboxAggregateType = "digest"
)
