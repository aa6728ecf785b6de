package http

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateReviewRequest struct {
	TargetUserID string `json:"target_user_id" validate:"required"`
	Score        int    `json:"score" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"max=2000"`
}

func (r CreateReviewRequest) Validate() error {
	return validate.Struct(r)
}

type ReviewDTO struct {
	ReviewID          string `json:"review_id"`
	TargetUserID      string `json:"target_user_id"`
	AuthorID          string `json:"author_id"`
	AuthorDisplayName string `json:"author_display_name,omitempty"`
	AuthorImageURL    string `json:"author_image_url,omitempty"`
	Score             int    `json:"score"`
	Comment           string `json:"comment,omitempty"`
	CreatedAt         string `json:"created_at"`
}

type ReviewResponse struct {
	Status string    `json:"status"`
	Data   ReviewDTO `json:"data"`
}

type ReviewListResponse struct {
	Status string      `json:"status"`
	Data   []ReviewDTO `json:"data"`
}

type AverageScoreResponse struct {
	Status string `json:"status"`
	Data   struct {
		TargetUserID string  `json:"target_user_id"`
		Average      float64 `json:"average"`
		ReviewCount  int     `json:"review_count"`
	} `json:"data"`
}
