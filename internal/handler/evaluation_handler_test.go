package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tiagosv/llm-arena-api/internal/dto"
	"github.com/tiagosv/llm-arena-api/internal/handler"
)

type mockEvaluationService struct {
	items        []dto.EvaluationResponse
	err          error
	refreshCalls int
}

func (m *mockEvaluationService) ListEvaluations(context.Context) ([]dto.EvaluationResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockEvaluationService) Refresh(ctx context.Context) ([]dto.EvaluationResponse, error) {
	m.refreshCalls++
	return m.ListEvaluations(ctx)
}

func newEvaluationApp(svc *mockEvaluationService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/evaluations")
	handler.NewEvaluationHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestEvaluationHandlerList(t *testing.T) {
	rating := 4
	svc := &mockEvaluationService{items: []dto.EvaluationResponse{{
		ID:        1,
		Prompt:    "What is 2+2?",
		ModelName: "model-a",
		Response:  "4",
		Rating:    &rating,
		CreatedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}}}
	app := newEvaluationApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/evaluations", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                     `json:"success"`
		Data    []dto.EvaluationResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
	require.Equal(t, "model-a", payload.Data[0].ModelName)
	require.NotNil(t, payload.Data[0].Rating)
	require.Equal(t, 4, *payload.Data[0].Rating)
}

func TestEvaluationHandlerListEmpty(t *testing.T) {
	app := newEvaluationApp(&mockEvaluationService{items: []dto.EvaluationResponse{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/evaluations", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestEvaluationHandlerListReadFailure(t *testing.T) {
	app := newEvaluationApp(&mockEvaluationService{err: errors.New("read failed")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/evaluations", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.False(t, payload.Success)
	require.Equal(t, "failed to load evaluations", payload.Message)
}

func TestEvaluationHandlerRefresh(t *testing.T) {
	svc := &mockEvaluationService{}
	app := newEvaluationApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/refresh", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, svc.refreshCalls)
}
