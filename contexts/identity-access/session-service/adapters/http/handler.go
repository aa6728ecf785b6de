package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"caravan/contexts/identity-access/session-service/application"
	"caravan/contexts/identity-access/session-service/ports"
	httptransport "caravan/contexts/identity-access/session-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetSessionContextHandler(ctx context.Context, userID string) (httptransport.SessionContextResponse, error) {
	session, err := h.Service.Resolve(ctx, userID)
	if err != nil {
		return httptransport.SessionContextResponse{}, err
	}

	resp := httptransport.SessionContextResponse{Status: "success"}
	resp.Data.UserID = session.UserID
	resp.Data.PrimaryRole = string(session.PrimaryRole)
	resp.Data.Roles = make([]string, 0, len(session.Roles))
	for _, role := range session.Roles {
		resp.Data.Roles = append(resp.Data.Roles, string(role))
	}
	if session.Driver != nil {
		dto := driverProfileDTO(*session.Driver)
		resp.Data.Driver = &dto
	}
	if session.Client != nil {
		dto := clientProfileDTO(*session.Client)
		resp.Data.Client = &dto
	}
	resp.Data.Organisation.OrganisationID = session.Organisation.OrganisationID
	resp.Data.Organisation.DisplayName = session.Organisation.DisplayName
	return resp, nil
}

func (h Handler) UpdateDriverProfileHandler(
	ctx context.Context,
	userID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.ProfileResponse, error) {
	profile, err := h.Service.UpdateDriverProfile(ctx, userID, ports.DriverProfilePatch{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		CompanyName:     req.CompanyName,
		ProfileImageURL: req.ProfileImageURL,
		VehiclePlate:    req.VehiclePlate,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Status: "success", Data: driverProfileDTO(profile)}, nil
}

func (h Handler) UpdateClientProfileHandler(
	ctx context.Context,
	userID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.ProfileResponse, error) {
	profile, err := h.Service.UpdateClientProfile(ctx, userID, ports.ClientProfilePatch{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		CompanyName:     req.CompanyName,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Status: "success", Data: clientProfileDTO(profile)}, nil
}

func (h Handler) ListOrganisationDriversHandler(ctx context.Context, organisationID string) (httptransport.DriverListResponse, error) {
	drivers, err := h.Service.ListDriversByOrganisation(ctx, organisationID)
	if err != nil {
		return httptransport.DriverListResponse{}, err
	}
	resp := httptransport.DriverListResponse{Status: "success", Data: make([]httptransport.ProfileDTO, 0, len(drivers))}
	for _, driver := range drivers {
		resp.Data = append(resp.Data, driverProfileDTO(driver))
	}
	return resp, nil
}

func driverProfileDTO(profile ports.DriverProfile) httptransport.ProfileDTO {
	return httptransport.ProfileDTO{
		ProfileID:       profile.ProfileID,
		UserID:          profile.UserID,
		OrganisationID:  profile.OrganisationID,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		Email:           profile.Email,
		PhoneNumber:     profile.PhoneNumber,
		CompanyName:     profile.CompanyName,
		ProfileImageURL: profile.ProfileImageURL,
		VehiclePlate:    profile.VehiclePlate,
		CreatedAt:       profile.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       profile.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func clientProfileDTO(profile ports.ClientProfile) httptransport.ProfileDTO {
	return httptransport.ProfileDTO{
		ProfileID:       profile.ProfileID,
		UserID:          profile.UserID,
		OrganisationID:  profile.OrganisationID,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		Email:           profile.Email,
		PhoneNumber:     profile.PhoneNumber,
		CompanyName:     profile.CompanyName,
		ProfileImageURL: profile.ProfileImageURL,
		CreatedAt:       profile.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       profile.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
