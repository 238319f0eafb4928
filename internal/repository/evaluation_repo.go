package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tiagosv/llm-arena-api/internal/models"
)

// EvaluationRepository defines data operations for saved evaluations.
type EvaluationRepository interface {
	EnsureSchema(ctx context.Context) error
	CreateBatch(ctx context.Context, evaluations []models.Evaluation) error
	ListAll(ctx context.Context) ([]models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// EnsureSchema creates the llm_evaluations table when absent. Safe to call on
// every startup.
func (r *evaluationRepository) EnsureSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.Evaluation{})
}

// CreateBatch appends every evaluation of one save action inside a single
// transaction: either all rows become visible or none do.
func (r *evaluationRepository) CreateBatch(ctx context.Context, evaluations []models.Evaluation) error {
	if len(evaluations) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range evaluations {
			if err := tx.Create(&evaluations[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListAll returns every saved evaluation, most recent first. The id tiebreak
// keeps the order deterministic for rows committed in the same instant.
func (r *evaluationRepository) ListAll(ctx context.Context) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	if err := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Order("created_at DESC, id DESC").
		Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}
