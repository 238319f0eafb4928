package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tiagosv/llm-arena-api/internal/dto"
	"github.com/tiagosv/llm-arena-api/internal/handler"
	"github.com/tiagosv/llm-arena-api/internal/service"
)

type mockSessionService struct {
	lastPrompt  dto.SubmitPromptRequest
	lastRatings dto.SaveRatingsRequest
	session     dto.SessionResponse
	saved       dto.SaveRatingsResponse
	err         error
}

func (m *mockSessionService) Create(context.Context) dto.SessionResponse {
	return m.session
}

func (m *mockSessionService) Get(context.Context, string) (dto.SessionResponse, error) {
	if m.err != nil {
		return dto.SessionResponse{}, m.err
	}
	return m.session, nil
}

func (m *mockSessionService) SubmitPrompt(_ context.Context, _ string, req dto.SubmitPromptRequest) (dto.SessionResponse, error) {
	m.lastPrompt = req
	if m.err != nil {
		return dto.SessionResponse{}, m.err
	}
	return m.session, nil
}

func (m *mockSessionService) SaveRatings(_ context.Context, _ string, req dto.SaveRatingsRequest) (dto.SaveRatingsResponse, error) {
	m.lastRatings = req
	if m.err != nil {
		return dto.SaveRatingsResponse{}, m.err
	}
	return m.saved, nil
}

func (m *mockSessionService) Discard(context.Context, string) error {
	return m.err
}

func newSessionApp(svc service.SessionService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/sessions")
	handler.NewSessionHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSessionHandlerCreate(t *testing.T) {
	svc := &mockSessionService{session: dto.SessionResponse{SessionID: "s-1", State: dto.SessionStateIdle}}
	app := newSessionApp(svc)

	resp := postJSON(t, app, "/api/v1/sessions", nil)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payload struct {
		Success bool                `json:"success"`
		Data    dto.SessionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, "s-1", payload.Data.SessionID)
}

func TestSessionHandlerSubmitPromptSuccess(t *testing.T) {
	svc := &mockSessionService{session: dto.SessionResponse{
		SessionID: "s-1",
		State:     dto.SessionStateAwaitingRatings,
		Prompt:    "What is 2+2?",
		Pending:   []dto.PendingEvaluationResponse{{Index: 0, ModelName: "model-a", Response: "4"}},
	}}
	app := newSessionApp(svc)

	resp := postJSON(t, app, "/api/v1/sessions/s-1/prompt", dto.SubmitPromptRequest{
		Prompt: "What is 2+2?",
		Models: []string{"model-a"},
	})
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "What is 2+2?", svc.lastPrompt.Prompt)

	var payload struct {
		Data dto.SessionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data.Pending, 1)
	require.Equal(t, "4", payload.Data.Pending[0].Response)
}

func TestSessionHandlerSubmitPromptValidationWarning(t *testing.T) {
	svc := &mockSessionService{err: service.ErrEmptyPrompt}
	app := newSessionApp(svc)

	resp := postJSON(t, app, "/api/v1/sessions/s-1/prompt", dto.SubmitPromptRequest{Models: []string{"model-a"}})
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.False(t, payload.Success)
	require.Equal(t, "please provide a prompt", payload.Message)
}

func TestSessionHandlerUnknownSession(t *testing.T) {
	svc := &mockSessionService{err: service.ErrSessionNotFound}
	app := newSessionApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSessionHandlerSaveRatings(t *testing.T) {
	svc := &mockSessionService{saved: dto.SaveRatingsResponse{Saved: 2}}
	app := newSessionApp(svc)

	resp := postJSON(t, app, "/api/v1/sessions/s-1/ratings", dto.SaveRatingsRequest{
		Ratings: []dto.RatingEntry{{Index: 0, Rating: 4}, {Index: 1, Rating: 5}},
	})
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, svc.lastRatings.Ratings, 2)

	var payload struct {
		Data dto.SaveRatingsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, 2, payload.Data.Saved)
}

func TestSessionHandlerSaveRatingsPersistenceFailure(t *testing.T) {
	svc := &mockSessionService{err: context.DeadlineExceeded}
	app := newSessionApp(svc)

	resp := postJSON(t, app, "/api/v1/sessions/s-1/ratings", dto.SaveRatingsRequest{
		Ratings: []dto.RatingEntry{{Index: 0, Rating: 4}},
	})
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
