package dto

import (
	"time"

	"github.com/tiagosv/llm-arena-api/internal/models"
)

// Session states exposed to clients.
const (
	SessionStateIdle            = "idle"
	SessionStateAwaitingRatings = "awaiting_ratings"
)

// SubmitPromptRequest carries one question and the models that should answer it.
type SubmitPromptRequest struct {
	Prompt string   `json:"prompt" validate:"required"`
	Models []string `json:"models" validate:"required,min=1,dive,required"`
}

// RatingEntry assigns a rating to one pending evaluation by its index.
type RatingEntry struct {
	Index  int `json:"index" validate:"min=0"`
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// SaveRatingsRequest carries the ratings for every pending evaluation of a session.
type SaveRatingsRequest struct {
	Ratings []RatingEntry `json:"ratings" validate:"required,min=1,dive"`
}

// PendingEvaluationResponse is one unsaved model answer awaiting a rating.
type PendingEvaluationResponse struct {
	Index     int    `json:"index"`
	ModelName string `json:"model_name"`
	Response  string `json:"response"`
}

// SessionResponse describes the transient state of one evaluation session.
type SessionResponse struct {
	SessionID string                      `json:"session_id"`
	State     string                      `json:"state"`
	Prompt    string                      `json:"prompt,omitempty"`
	Pending   []PendingEvaluationResponse `json:"pending"`
}

// SaveRatingsResponse reports how many evaluations one save action committed.
type SaveRatingsResponse struct {
	Saved int `json:"saved"`
}

// EvaluationResponse is the serialized representation of a saved evaluation.
type EvaluationResponse struct {
	ID        uint      `json:"id"`
	Prompt    string    `json:"prompt"`
	ModelName string    `json:"model_name"`
	Response  string    `json:"response"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// ModelCatalogResponse lists the models offered for a new evaluation.
type ModelCatalogResponse struct {
	Models []string `json:"models"`
}

// NewEvaluationResponse converts a model into a DTO.
func NewEvaluationResponse(evaluation models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:        evaluation.ID,
		Prompt:    evaluation.Prompt,
		ModelName: evaluation.ModelName,
		Response:  evaluation.Response,
		Rating:    evaluation.Rating,
		CreatedAt: evaluation.CreatedAt,
	}
}

// NewEvaluationResponseSlice converts a slice of models into DTOs.
func NewEvaluationResponseSlice(evaluations []models.Evaluation) []EvaluationResponse {
	out := make([]EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		out = append(out, NewEvaluationResponse(evaluation))
	}
	return out
}
