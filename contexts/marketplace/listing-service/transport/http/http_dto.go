package http

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ListingDTO struct {
	OrganisationID   string  `json:"organisation_id"`
	ListingID        string  `json:"listing_id"`
	CategoryID       string  `json:"category_id"`
	Status           string  `json:"status"`
	OwnerID          string  `json:"owner_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	ReservedByID     string  `json:"reserved_by_id,omitempty"`
	ReservedByName   string  `json:"reserved_by_name,omitempty"`
	PriceAmount      float64 `json:"price_amount"`
	Currency         string  `json:"currency,omitempty"`
	DepartureAddress string  `json:"departure_address,omitempty"`
	ArrivalAddress   string  `json:"arrival_address,omitempty"`
	DepartureAt      string  `json:"departure_at,omitempty"`
	Version          int64   `json:"version"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type CreateListingRequest struct {
	CategoryID       string     `json:"category_id" validate:"required,uuid4"`
	Title            string     `json:"title" validate:"required,max=200"`
	Description      string     `json:"description" validate:"max=4000"`
	PriceAmount      float64    `json:"price_amount" validate:"gte=0"`
	Currency         string     `json:"currency" validate:"omitempty,len=3"`
	DepartureAddress string     `json:"departure_address"`
	ArrivalAddress   string     `json:"arrival_address"`
	DepartureAt      *time.Time `json:"departure_at"`
	Publish          bool       `json:"publish"`
}

func (r CreateListingRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateListingRequest struct {
	Title            *string    `json:"title" validate:"omitempty,max=200"`
	Description      *string    `json:"description" validate:"omitempty,max=4000"`
	PriceAmount      *float64   `json:"price_amount" validate:"omitempty,gte=0"`
	Currency         *string    `json:"currency" validate:"omitempty,len=3"`
	DepartureAddress *string    `json:"departure_address"`
	ArrivalAddress   *string    `json:"arrival_address"`
	DepartureAt      *time.Time `json:"departure_at"`
}

func (r UpdateListingRequest) Validate() error {
	return validate.Struct(r)
}

type ApplyRequest struct {
	DriverName string `json:"driver_name" validate:"max=200"`
}

type ConfirmRequest struct {
	DriverID string `json:"driver_id" validate:"required"`
}

func (r ConfirmRequest) Validate() error {
	return validate.Struct(r)
}

type AcceptRequest struct {
	ClientName string `json:"client_name" validate:"max=200"`
}

type ListingResponse struct {
	Status string     `json:"status"`
	Data   ListingDTO `json:"data"`
}

type ListingListResponse struct {
	Status string       `json:"status"`
	Data   []ListingDTO `json:"data"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
