package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artorders/artorders-backend/internal/masterpieces"
	"github.com/artorders/artorders-backend/internal/offers"
	"github.com/artorders/artorders-backend/internal/orders"
	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
)

type orderResponse struct {
	ID              uuid.UUID        `json:"id"`
	CreatedByID     uuid.UUID        `json:"created_by_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	CompleteTo      time.Time        `json:"complete_to"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	Views           int64            `json:"views"`
	State           enums.OrderState `json:"state"`
	AcceptedOfferID *uuid.UUID       `json:"accepted_offer_id,omitempty"`
	Tags            []string         `json:"tags"`
	FileIDs         []uuid.UUID      `json:"file_ids"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func toOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:              order.ID,
		CreatedByID:     order.CreatedByID,
		Title:           order.Title,
		Description:     order.Description,
		CompleteTo:      order.CompleteTo,
		CompletedAt:     order.CompletedAt,
		Views:           order.Views,
		State:           orders.StateOf(order.AcceptedOfferID, order.CompletedAt),
		AcceptedOfferID: order.AcceptedOfferID,
		Tags:            tagTitles(order.Tags),
		FileIDs:         fileIDs(order.Files),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

type offerResponse struct {
	ID               uuid.UUID        `json:"id"`
	OrderID          uuid.UUID        `json:"order_id"`
	ArtistID         uuid.UUID        `json:"artist_id"`
	Fee              decimal.Decimal  `json:"fee"`
	State            enums.OfferState `json:"state"`
	ChangesRequested bool             `json:"changes_requested"`
	AcceptedAt       *time.Time       `json:"accepted_at,omitempty"`
	DeclinedAt       *time.Time       `json:"declined_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

func toOfferResponse(offer *models.Offer) offerResponse {
	return offerResponse{
		ID:               offer.ID,
		OrderID:          offer.OrderID,
		ArtistID:         offer.ArtistID,
		Fee:              offer.Fee,
		State:            offers.StateOf(offer.AcceptedAt, offer.DeclinedAt),
		ChangesRequested: offer.ChangesRequested,
		AcceptedAt:       offer.AcceptedAt,
		DeclinedAt:       offer.DeclinedAt,
		CreatedAt:        offer.CreatedAt,
	}
}

type acceptOfferResponse struct {
	Offer            offerResponse `json:"offer"`
	DeclinedSiblings int64         `json:"declined_siblings"`
}

type masterpieceResponse struct {
	ID             uuid.UUID              `json:"id"`
	ArtistID       uuid.UUID              `json:"artist_id"`
	OrderID        *uuid.UUID             `json:"order_id,omitempty"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	State          enums.MasterpieceState `json:"state"`
	CustomerRate   *int                   `json:"customer_rate,omitempty"`
	DeclineMessage *string                `json:"decline_message,omitempty"`
	Visible        bool                   `json:"visible"`
	Tags           []string               `json:"tags"`
	FileIDs        []uuid.UUID            `json:"file_ids"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func toMasterpieceResponse(piece *models.Masterpiece) masterpieceResponse {
	var rate *int
	if piece.CustomerRate != nil {
		value := int(*piece.CustomerRate)
		rate = &value
	}
	return masterpieceResponse{
		ID:             piece.ID,
		ArtistID:       piece.ArtistID,
		OrderID:        piece.OrderID,
		Title:          piece.Title,
		Description:    piece.Description,
		State:          masterpieces.StateOf(piece.CustomerRate, piece.DeclineMessage),
		CustomerRate:   rate,
		DeclineMessage: piece.DeclineMessage,
		Visible:        piece.Visible,
		Tags:           tagTitles(piece.Tags),
		FileIDs:        fileIDs(piece.Files),
		CreatedAt:      piece.CreatedAt,
		UpdatedAt:      piece.UpdatedAt,
	}
}

func tagTitles(tags []models.Tag) []string {
	titles := make([]string, 0, len(tags))
	for _, tag := range tags {
		titles = append(titles, tag.Title)
	}
	return titles
}

func fileIDs(files []models.File) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(files))
	for _, file := range files {
		ids = append(ids, file.ID)
	}
	return ids
}
