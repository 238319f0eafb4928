package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tiagosv/llm-arena-api/internal/dto"
	"github.com/tiagosv/llm-arena-api/internal/models"
	"github.com/tiagosv/llm-arena-api/internal/repository"
	"github.com/tiagosv/llm-arena-api/pkg/ai"
)

var (
	// ErrSessionNotFound indicates the session identifier is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyPrompt indicates a submit without any question text.
	ErrEmptyPrompt = errors.New("prompt must not be empty")
	// ErrNoModelsSelected indicates a submit without any model.
	ErrNoModelsSelected = errors.New("at least one model must be selected")
	// ErrNoPendingEvaluations indicates a save with nothing awaiting a rating.
	ErrNoPendingEvaluations = errors.New("no pending evaluations to save")
	// ErrMissingRating indicates a pending evaluation was left unrated.
	ErrMissingRating = errors.New("every pending evaluation needs a rating")
	// ErrInvalidRating indicates a rating outside 1-5 or an unknown pending index.
	ErrInvalidRating = errors.New("invalid rating")
)

// SessionService drives the evaluation flow for explicit, individually owned
// sessions: submit a prompt, collect the model answers, save the rated batch.
type SessionService interface {
	Create(ctx context.Context) dto.SessionResponse
	Get(ctx context.Context, sessionID string) (dto.SessionResponse, error)
	SubmitPrompt(ctx context.Context, sessionID string, req dto.SubmitPromptRequest) (dto.SessionResponse, error)
	SaveRatings(ctx context.Context, sessionID string, req dto.SaveRatingsRequest) (dto.SaveRatingsResponse, error)
	Discard(ctx context.Context, sessionID string) error
}

type pendingEvaluation struct {
	modelName string
	response  string
}

// sessionState is owned by exactly one session; its mutex serialises the
// submit and save transitions so each session behaves as a single logical
// thread of control.
type sessionState struct {
	mu      sync.Mutex
	prompt  string
	pending []pendingEvaluation
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState

	client    ai.Client
	repo      repository.EvaluationRepository
	cache     *redis.Client
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewSessionService constructs the session orchestrator.
func NewSessionService(client ai.Client, repo repository.EvaluationRepository, cache *redis.Client, validator *validator.Validate, logger zerolog.Logger) SessionService {
	return &sessionService{
		sessions:  make(map[string]*sessionState),
		client:    client,
		repo:      repo,
		cache:     cache,
		validator: validator,
		logger:    logger.With().Str("component", "session_service").Logger(),
		tracer:    otel.Tracer("github.com/tiagosv/llm-arena-api/internal/service/session"),
	}
}

func (s *sessionService) Create(_ context.Context) dto.SessionResponse {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &sessionState{}
	s.mu.Unlock()

	s.logger.Debug().Str("session_id", id).Msg("session created")

	return dto.SessionResponse{SessionID: id, State: dto.SessionStateIdle, Pending: []dto.PendingEvaluationResponse{}}
}

func (s *sessionService) Get(_ context.Context, sessionID string) (dto.SessionResponse, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	return snapshot(sessionID, state), nil
}

// SubmitPrompt queries every selected model in order, each call blocking until
// its answer (or error string) arrives, and replaces any unsaved pending
// evaluations with the fresh results.
func (s *sessionService) SubmitPrompt(ctx context.Context, sessionID string, req dto.SubmitPromptRequest) (dto.SessionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "session.submit_prompt", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("models", len(req.Models)),
	))
	defer span.End()

	if strings.TrimSpace(req.Prompt) == "" {
		span.SetStatus(codes.Error, "empty prompt")
		return dto.SessionResponse{}, ErrEmptyPrompt
	}

	if len(req.Models) == 0 {
		span.SetStatus(codes.Error, "no models selected")
		return dto.SessionResponse{}, ErrNoModelsSelected
	}

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.SessionResponse{}, err
	}

	state, err := s.lookup(sessionID)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	// A new prompt silently discards whatever was pending before.
	state.prompt = req.Prompt
	state.pending = make([]pendingEvaluation, 0, len(req.Models))

	for _, model := range req.Models {
		response := s.client.Query(ctx, req.Prompt, model)
		state.pending = append(state.pending, pendingEvaluation{modelName: model, response: response})
	}

	s.logger.Info().Str("session_id", sessionID).Int("models", len(req.Models)).Msg("prompt submitted")

	return snapshot(sessionID, state), nil
}

// SaveRatings commits every pending evaluation of the session as one atomic
// batch. On any store failure the pending evaluations stay untouched so the
// user can retry.
func (s *sessionService) SaveRatings(ctx context.Context, sessionID string, req dto.SaveRatingsRequest) (dto.SaveRatingsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "session.save_ratings", trace.WithAttributes(
		attribute.String("session_id", sessionID),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.SaveRatingsResponse{}, err
	}

	state, err := s.lookup(sessionID)
	if err != nil {
		return dto.SaveRatingsResponse{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if len(state.pending) == 0 {
		span.SetStatus(codes.Error, "nothing pending")
		return dto.SaveRatingsResponse{}, ErrNoPendingEvaluations
	}

	ratings := make(map[int]int, len(req.Ratings))
	for _, entry := range req.Ratings {
		if entry.Index < 0 || entry.Index >= len(state.pending) {
			span.SetStatus(codes.Error, "unknown pending index")
			return dto.SaveRatingsResponse{}, ErrInvalidRating
		}
		if _, exists := ratings[entry.Index]; exists {
			span.SetStatus(codes.Error, "duplicate pending index")
			return dto.SaveRatingsResponse{}, ErrInvalidRating
		}
		if entry.Rating < models.RatingMin || entry.Rating > models.RatingMax {
			span.SetStatus(codes.Error, "rating out of range")
			return dto.SaveRatingsResponse{}, ErrInvalidRating
		}
		ratings[entry.Index] = entry.Rating
	}

	batch := make([]models.Evaluation, 0, len(state.pending))
	for index, pending := range state.pending {
		rating, ok := ratings[index]
		if !ok {
			span.SetStatus(codes.Error, "missing rating")
			return dto.SaveRatingsResponse{}, ErrMissingRating
		}

		value := rating
		batch = append(batch, models.Evaluation{
			Prompt:    state.prompt,
			ModelName: pending.modelName,
			Response:  pending.response,
			Rating:    &value,
		})
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save evaluations")
		return dto.SaveRatingsResponse{}, err
	}

	state.prompt = ""
	state.pending = nil

	s.invalidateReviewCache(ctx)

	s.logger.Info().Str("session_id", sessionID).Int("saved", len(batch)).Msg("evaluations saved")

	return dto.SaveRatingsResponse{Saved: len(batch)}, nil
}

func (s *sessionService) Discard(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}

	delete(s.sessions, sessionID)
	s.logger.Debug().Str("session_id", sessionID).Msg("session discarded")

	return nil
}

func (s *sessionService) lookup(sessionID string) (*sessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return state, nil
}

func (s *sessionService) invalidateReviewCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, reviewCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate review cache")
	}
}

// snapshot renders the session state while its mutex is held.
func snapshot(sessionID string, state *sessionState) dto.SessionResponse {
	response := dto.SessionResponse{
		SessionID: sessionID,
		State:     dto.SessionStateIdle,
		Prompt:    state.prompt,
		Pending:   make([]dto.PendingEvaluationResponse, 0, len(state.pending)),
	}

	for index, pending := range state.pending {
		response.Pending = append(response.Pending, dto.PendingEvaluationResponse{
			Index:     index,
			ModelName: pending.modelName,
			Response:  pending.response,
		})
	}

	if len(state.pending) > 0 {
		response.State = dto.SessionStateAwaitingRatings
	}

	return response
}
