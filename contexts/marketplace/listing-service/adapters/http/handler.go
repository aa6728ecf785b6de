package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"caravan/contexts/marketplace/listing-service/application"
	"caravan/contexts/marketplace/listing-service/domain/entities"
	"caravan/contexts/marketplace/listing-service/ports"
	httptransport "caravan/contexts/marketplace/listing-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateListingHandler(
	ctx context.Context,
	organisationID string,
	callerID string,
	req httptransport.CreateListingRequest,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.CreateListing(ctx, ports.CreateListingInput{
		OrganisationID:   organisationID,
		CategoryID:       req.CategoryID,
		OwnerID:          callerID,
		Title:            req.Title,
		Description:      req.Description,
		PriceAmount:      req.PriceAmount,
		Currency:         req.Currency,
		DepartureAddress: req.DepartureAddress,
		ArrivalAddress:   req.ArrivalAddress,
		DepartureAt:      req.DepartureAt,
		Publish:          req.Publish,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) UpdateListingHandler(
	ctx context.Context,
	organisationID string,
	listingID string,
	callerID string,
	req httptransport.UpdateListingRequest,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.UpdateListing(ctx, organisationID, listingID, callerID, ports.UpdateListingInput{
		Title:            req.Title,
		Description:      req.Description,
		PriceAmount:      req.PriceAmount,
		Currency:         req.Currency,
		DepartureAddress: req.DepartureAddress,
		ArrivalAddress:   req.ArrivalAddress,
		DepartureAt:      req.DepartureAt,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) DeleteListingHandler(
	ctx context.Context,
	organisationID string,
	listingID string,
	callerID string,
) (httptransport.StatusResponse, error) {
	if err := h.Service.DeleteListing(ctx, organisationID, listingID, callerID); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) GetListingHandler(
	ctx context.Context,
	organisationID string,
	listingID string,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.GetListing(ctx, organisationID, listingID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) ListByCategoryHandler(
	ctx context.Context,
	organisationID string,
	categoryID string,
) (httptransport.ListingListResponse, error) {
	listings, err := h.Service.ListByCategory(ctx, organisationID, categoryID)
	if err != nil {
		return httptransport.ListingListResponse{}, err
	}
	return listResponse(listings), nil
}

func (h Handler) ListByClientHandler(
	ctx context.Context,
	organisationID string,
	clientID string,
) (httptransport.ListingListResponse, error) {
	listings, err := h.Service.ListByClient(ctx, organisationID, clientID)
	if err != nil {
		return httptransport.ListingListResponse{}, err
	}
	return listResponse(listings), nil
}

func (h Handler) ListByReservedDriverHandler(
	ctx context.Context,
	organisationID string,
	driverID string,
) (httptransport.ListingListResponse, error) {
	listings, err := h.Service.ListByReservedDriver(ctx, organisationID, driverID)
	if err != nil {
		return httptransport.ListingListResponse{}, err
	}
	return listResponse(listings), nil
}

func (h Handler) ApplyHandler(
	ctx context.Context,
	organisationID string,
	listingID string,
	driverID string,
	req httptransport.ApplyRequest,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Apply(ctx, organisationID, listingID, driverID, req.DriverName)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) CancelReservationHandler(
	ctx context.Context,
	organisationID string,
	listingID string,
	driverID string,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.CancelReservation(ctx, organisationID, listingID, driverID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) ConfirmHandler(
	ctx context.Context,
	organisationID string,
	listingID string,
	callerID string,
	req httptransport.ConfirmRequest,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Confirm(ctx, organisationID, listingID, callerID, req.DriverID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) AcceptHandler(
	ctx context.Context,
	organisationID string,
	listingID string,
	clientID string,
	req httptransport.AcceptRequest,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.Accept(ctx, organisationID, listingID, clientID, req.ClientName)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func listResponse(listings []entities.Listing) httptransport.ListingListResponse {
	resp := httptransport.ListingListResponse{Status: "success", Data: make([]httptransport.ListingDTO, 0, len(listings))}
	for _, listing := range listings {
		resp.Data = append(resp.Data, listingDTO(listing))
	}
	return resp
}

func listingDTO(listing entities.Listing) httptransport.ListingDTO {
	dto := httptransport.ListingDTO{
		OrganisationID:   listing.OrganisationID,
		ListingID:        listing.ListingID,
		CategoryID:       listing.CategoryID,
		Status:           string(listing.Status),
		OwnerID:          listing.ClientID,
		Title:            listing.Title,
		Description:      listing.Description,
		ReservedByID:     listing.ReservedByID,
		ReservedByName:   listing.ReservedByName,
		PriceAmount:      listing.PriceAmount,
		Currency:         listing.Currency,
		DepartureAddress: listing.DepartureAddress,
		ArrivalAddress:   listing.ArrivalAddress,
		Version:          listing.Version,
		CreatedAt:        listing.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        listing.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if listing.DepartureAt != nil {
		dto.DepartureAt = listing.DepartureAt.UTC().Format(time.RFC3339)
	}
	return dto
}
