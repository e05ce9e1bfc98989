package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/recall-api/internal/config"
	"github.com/phrazzld/recall-api/internal/domain"
	"github.com/phrazzld/recall-api/internal/generation"
)

// GeminiGenerator implements generation.Generator using Google's
// Gemini API to produce flashcards from source text.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// NewGeminiGenerator creates a GeminiGenerator from the LLM config.
// The API key and model name are required; the prompt template path is
// optional and falls back to a built-in template.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateCards renders the prompt, calls the Gemini API with retries,
// and parses the response into validated card specs.
func (g *GeminiGenerator) GenerateCards(ctx context.Context, req generation.Request) ([]domain.CardSpec, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return nil, generation.ErrEmptySourceText
	}
	if req.MaxCards <= 0 || req.MaxCards > g.config.MaxCardsPerRequest {
		req.MaxCards = g.config.MaxCardsPerRequest
	}

	prompt, err := renderPrompt(g.promptTemplate, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	specs, err := generation.ParseCardPayload([]byte(text), req)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "generated cards from source text",
		slog.Int("card_count", len(specs)),
		slog.Int("source_length", len(req.SourceText)))

	return specs, nil
}

// callWithRetry calls the Gemini API with exponential backoff and
// jitter. Permanent failures (blocked content, empty candidates) are
// returned immediately; everything else is retried up to MaxRetries.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelay := time.Duration(g.config.RetryDelaySeconds) * time.Second
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(baseDelay, attempt, rng)
			g.logger.WarnContext(ctx, "retrying Gemini API call",
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay),
				slog.Any("error", lastErr))
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
			case <-time.After(delay):
			}
		}

		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
			continue
		}

		text, err := extractText(resp)
		if err != nil {
			// Malformed or blocked responses do not improve on retry.
			return "", err
		}
		return text, nil
	}

	return "", fmt.Errorf("gemini API call failed after %d attempts: %w", maxRetries+1, lastErr)
}

// extractText pulls the generated text out of a response, mapping
// blocked and empty responses to the generation error taxonomy.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: candidate stopped for safety", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}
	return text, nil
}

// backoffDelay computes the delay before the given retry attempt:
// base * 2^(attempt-1), plus up to 50% jitter.
func backoffDelay(base time.Duration, attempt int, rng *rand.Rand) time.Duration {
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	jitter := time.Duration(rng.Int63n(int64(delay)/2 + 1))
	return delay + jitter
}
