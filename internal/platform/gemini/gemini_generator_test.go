package gemini

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/phrazzld/recall-api/internal/config"
	"github.com/phrazzld/recall-api/internal/generation"
)

func TestNewGeminiGeneratorConfigValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := NewGeminiGenerator(ctx, nil, config.LLMConfig{GeminiAPIKey: "k", ModelName: "m"})
	assert.Error(t, err)

	_, err = NewGeminiGenerator(ctx, slog.Default(), config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGeminiGenerator(ctx, slog.Default(), config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGeminiGenerator(ctx, slog.Default(), config.LLMConfig{
		GeminiAPIKey:       "k",
		ModelName:          "m",
		PromptTemplatePath: "/nonexistent/template.tmpl",
	})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestRenderPromptIncludesSourceAndLimit(t *testing.T) {
	t.Parallel()

	tmpl, err := loadPromptTemplate("")
	require.NoError(t, err)

	prompt, err := renderPrompt(tmpl, generation.Request{
		SourceText: "Binary search halves the range each step.",
		MaxCards:   5,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Binary search halves the range each step.")
	assert.Contains(t, prompt, "at most 5 cards")
	assert.Contains(t, prompt, "JSON array")
}

func TestRenderPromptOmitsLimitWhenUnset(t *testing.T) {
	t.Parallel()

	tmpl, err := loadPromptTemplate("")
	require.NoError(t, err)

	prompt, err := renderPrompt(tmpl, generation.Request{SourceText: "text"})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "at most")
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	_, err := extractText(nil)
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	_, err = extractText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	_, err = extractText(&genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason: genai.BlockedReasonSafety,
		},
	})
	assert.ErrorIs(t, err, generation.ErrContentBlocked)

	_, err = extractText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	})
	assert.ErrorIs(t, err, generation.ErrContentBlocked)

	text, err := extractText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: `[{"front":"q","back":"a"}]`}}},
		}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "["))
}

func TestBackoffDelayGrowsExponentially(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	base := 2 * time.Second

	first := backoffDelay(base, 1, rng)
	assert.GreaterOrEqual(t, first, 2*time.Second)
	assert.Less(t, first, 3*time.Second+time.Millisecond)

	third := backoffDelay(base, 3, rng)
	assert.GreaterOrEqual(t, third, 8*time.Second)
	assert.Less(t, third, 12*time.Second+time.Millisecond)
}
