package models

import "time"

const (
	// RatingMin is the lowest score a user can assign to a response.
	RatingMin = 1
	// RatingMax is the highest score a user can assign to a response.
	RatingMax = 5
)

// Evaluation is one persisted verdict: a prompt, the model that answered it,
// the answer text (or the error string the query client produced) and the
// user's 1-5 rating. Rows are append-only; nothing updates or deletes them.
type Evaluation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Prompt    string    `gorm:"type:text;not null" json:"prompt"`
	ModelName string    `gorm:"size:255;not null" json:"model_name"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	Rating    *int      `gorm:"check:chk_llm_evaluations_rating,rating IS NULL OR (rating >= 1 AND rating <= 5)" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the historical table name.
func (Evaluation) TableName() string {
	return "llm_evaluations"
}
