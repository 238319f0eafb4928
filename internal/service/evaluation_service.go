package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tiagosv/llm-arena-api/internal/dto"
	"github.com/tiagosv/llm-arena-api/internal/repository"
)

// reviewCacheKey holds the serialized review listing. A successful save and an
// explicit refresh both delete it.
const reviewCacheKey = "arena:evaluations:review"

// EvaluationService serves the read-only review view of saved evaluations.
type EvaluationService interface {
	ListEvaluations(ctx context.Context) ([]dto.EvaluationResponse, error)
	Refresh(ctx context.Context) ([]dto.EvaluationResponse, error)
}

type evaluationService struct {
	repo     repository.EvaluationRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewEvaluationService builds the review service. cache may be nil, in which
// case every listing reads straight from the store.
func NewEvaluationService(repo repository.EvaluationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "evaluation_service").Logger(),
	}
}

// ListEvaluations returns every saved evaluation newest-first, served from the
// review cache when possible.
func (s *evaluationService) ListEvaluations(ctx context.Context) ([]dto.EvaluationResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, reviewCacheKey).Result(); err == nil {
			var response []dto.EvaluationResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("review cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read review cache")
		}
	}

	evaluations, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	response := dto.NewEvaluationResponseSlice(evaluations)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, reviewCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store review cache")
			}
		}
	}

	return response, nil
}

// Refresh drops the cached listing and re-reads the store.
func (s *evaluationService) Refresh(ctx context.Context) ([]dto.EvaluationResponse, error) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, reviewCacheKey).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate review cache")
		}
	}

	return s.ListEvaluations(ctx)
}
