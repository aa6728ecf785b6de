package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"caravan/contexts/engagement/review-service/application"
	"caravan/contexts/engagement/review-service/ports"
	httptransport "caravan/contexts/engagement/review-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateReviewHandler(
	ctx context.Context,
	authorID string,
	req httptransport.CreateReviewRequest,
) (httptransport.ReviewResponse, error) {
	review, err := h.Service.CreateReview(ctx, ports.CreateReviewInput{
		TargetUserID: req.TargetUserID,
		AuthorID:     authorID,
		Score:        req.Score,
		Comment:      req.Comment,
	})
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	return httptransport.ReviewResponse{Status: "success", Data: reviewDTO(review, "", "")}, nil
}

func (h Handler) ListReviewsHandler(ctx context.Context, targetUserID string) (httptransport.ReviewListResponse, error) {
	reviews, err := h.Service.ListForUser(ctx, targetUserID)
	if err != nil {
		return httptransport.ReviewListResponse{}, err
	}
	resp := httptransport.ReviewListResponse{Status: "success", Data: make([]httptransport.ReviewDTO, 0, len(reviews))}
	for _, review := range reviews {
		resp.Data = append(resp.Data, reviewDTO(review.Review, review.AuthorDisplayName, review.AuthorImageURL))
	}
	return resp, nil
}

func (h Handler) AverageScoreHandler(ctx context.Context, targetUserID string) (httptransport.AverageScoreResponse, error) {
	average, count, err := h.Service.AverageScore(ctx, targetUserID)
	if err != nil {
		return httptransport.AverageScoreResponse{}, err
	}
	resp := httptransport.AverageScoreResponse{Status: "success"}
	resp.Data.TargetUserID = targetUserID
	resp.Data.Average = average
	resp.Data.ReviewCount = count
	return resp, nil
}

func reviewDTO(review ports.Review, displayName string, imageURL string) httptransport.ReviewDTO {
	return httptransport.ReviewDTO{
		ReviewID:          review.ReviewID,
		TargetUserID:      review.TargetUserID,
		AuthorID:          review.AuthorID,
		AuthorDisplayName: displayName,
		AuthorImageURL:    imageURL,
		Score:             review.Score,
		Comment:           review.Comment,
		CreatedAt:         review.CreatedAt.UTC().Format(time.RFC3339),
	}
}
