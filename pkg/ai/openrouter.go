package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the OpenRouter chat-completions API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

var (
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "arena",
		Subsystem: "llm",
		Name:      "query_duration_seconds",
		Help:      "Duration of model query requests",
	}, []string{"model"})

	queryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arena",
		Subsystem: "llm",
		Name:      "query_failures_total",
		Help:      "Number of model queries that returned an error string",
	}, []string{"model"})
)

var errNoChoices = errors.New("a resposta não contém choices")

// OpenRouterConfig defines configuration options for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Logger  zerolog.Logger
}

// OpenRouterClient implements Client against the OpenRouter chat completion API.
// OpenRouter speaks the OpenAI wire format, so one client reaches every model
// in the catalog.
type OpenRouterClient struct {
	client *openai.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenRouterClient builds a new client using the provided configuration.
func NewOpenRouterClient(cfg OpenRouterConfig) (*OpenRouterClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	client := openai.NewClientWithConfig(config)

	return &OpenRouterClient{
		client: client,
		tracer: otel.Tracer("github.com/tiagosv/llm-arena-api/pkg/ai/openrouter"),
		logger: logger.With().Str("component", "openrouter_client").Logger(),
	}, nil
}

// Query sends one chat completion request for the prompt and returns the first
// choice's content. Transport failures come back as "Erro na API: …" and a
// response without choices as "Erro ao processar a resposta da API: …"; both
// are stored and displayed like any other answer.
func (c *OpenRouterClient) Query(parent context.Context, prompt, model string) string {
	ctx, span := c.tracer.Start(parent, "openrouter.query", trace.WithAttributes(
		attribute.String("model", model),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	queryDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())

	if err != nil {
		queryFailures.WithLabelValues(model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn().Err(err).Str("model", model).Msg("model query failed")
		return apiError(err)
	}

	if len(resp.Choices) == 0 {
		queryFailures.WithLabelValues(model).Inc()
		span.RecordError(errNoChoices)
		span.SetStatus(codes.Error, errNoChoices.Error())
		c.logger.Warn().Str("model", model).Msg("model response carried no choices")
		return parseError(errNoChoices)
	}

	return resp.Choices[0].Message.Content
}

func apiError(err error) string {
	return fmt.Sprintf("Erro na API: %v", err)
}

func parseError(err error) string {
	return fmt.Sprintf("Erro ao processar a resposta da API: %v", err)
}
