package httpadapter

import (
	"context"
	"log/slog"

	"caravan/contexts/engagement/notification-service/application"
	httptransport "caravan/contexts/engagement/notification-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterDeviceTokenHandler(
	ctx context.Context,
	userID string,
	req httptransport.RegisterDeviceTokenRequest,
) (httptransport.StatusResponse, error) {
	if err := h.Service.RegisterDeviceToken(ctx, userID, req.Token); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}
