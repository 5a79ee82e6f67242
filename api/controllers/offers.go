package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/artorders/artorders-backend/api/middleware"
	"github.com/artorders/artorders-backend/api/responses"
	"github.com/artorders/artorders-backend/api/validators"
	"github.com/artorders/artorders-backend/internal/offers"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/logger"
)

type createOfferRequest struct {
	Fee decimal.Decimal `json:"fee" validate:"required"`
}

type updateOfferRequest struct {
	Fee decimal.Decimal `json:"fee" validate:"required"`
}

// OfferCreate bids on an open order.
func OfferCreate(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createOfferRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.Create(r.Context(), offers.CreateInput{
			Actor:   middleware.ViewerFromContext(r.Context()),
			OrderID: orderID,
			Fee:     body.Fee,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toOfferResponse(offer))
	}
}

// OfferUpdateFee reprices an open offer.
func OfferUpdateFee(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		offerID, err := parsePathID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOfferRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.UpdateFee(r.Context(), offers.UpdateFeeInput{
			Actor:   middleware.ViewerFromContext(r.Context()),
			OfferID: offerID,
			Fee:     body.Fee,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOfferResponse(offer))
	}
}

// OfferAccept picks the winning bid and declines the rest of the order's
// open offers in the same transaction.
func OfferAccept(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		offerID, err := parsePathID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Accept(r.Context(), middleware.ViewerFromContext(r.Context()), offerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, acceptOfferResponse{
			Offer:            toOfferResponse(result.Offer),
			DeclinedSiblings: result.DeclinedSiblings,
		})
	}
}

// OfferDecline turns a bid down.
func OfferDecline(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		offerID, err := parsePathID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.Decline(r.Context(), middleware.ViewerFromContext(r.Context()), offerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOfferResponse(offer))
	}
}

// OfferRequestChanges flags an open offer for renegotiation.
func OfferRequestChanges(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		offerID, err := parsePathID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.RequestChanges(r.Context(), middleware.ViewerFromContext(r.Context()), offerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOfferResponse(offer))
	}
}

// OfferList returns the viewer's offers, sent or received by role.
func OfferList(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForViewer(r.Context(), middleware.ViewerFromContext(r.Context()), params, offers.Filters{
			ArtistEmail: strings.TrimSpace(r.URL.Query().Get("artist_email")),
			OrderQuery:  strings.TrimSpace(r.URL.Query().Get("order_query")),
			Tag:         strings.TrimSpace(r.URL.Query().Get("tag")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OfferListForOrder returns the open bids on one order.
func OfferListForOrder(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summaries, err := svc.ListOpenForOrder(r.Context(), middleware.ViewerFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}
