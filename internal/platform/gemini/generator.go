package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/minhpham2409/quiz-app/internal/config"
	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/generation"
)

// promptTemplateText asks the model for strict JSON so the response can be
// parsed without post-processing. The response MIME type is additionally
// constrained to application/json in the request config.
const promptTemplateText = `You are a quiz author. Write exactly {{.Count}} multiple-choice questions about the following topic:

{{.Topic}}

Each question must have four answer options (a, b, c, d) and exactly one correct option.
Respond with JSON only, no prose, matching this schema:
{"questions":[{"question":"...","a":"...","b":"...","c":"...","d":"...","correct":"a"}]}
The "correct" field must be one of "a", "b", "c" or "d".`

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Ensure GeminiGenerator implements generation.Generator interface
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator. It validates the LLM
// configuration and initializes the underlying Gemini API client.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("quiz").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateQuestions creates multiple-choice questions about the given topic.
// It builds the prompt, calls the Gemini API with retry, and converts the
// structured response into validated domain questions.
func (g *GeminiGenerator) GenerateQuestions(
	ctx context.Context,
	topic string,
	count int,
	userID uuid.UUID,
) ([]*domain.Question, error) {
	if userID == uuid.Nil {
		return nil, errors.New("user ID cannot be empty")
	}

	prompt, err := g.buildPrompt(ctx, topic, count)
	if err != nil {
		return nil, err
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response, userID)
}

// buildPrompt renders the prompt template with the topic and target count.
func (g *GeminiGenerator) buildPrompt(ctx context.Context, topic string, count int) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", ErrEmptyTopic
	}
	if count <= 0 {
		return "", ErrInvalidCount
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{Topic: topic, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	g.logger.DebugContext(ctx, "prompt generated",
		"topic_length", len(topic),
		"count", count,
		"prompt_length", buf.Len())

	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff. Permanent
// errors (blocked content, unparseable responses) return immediately;
// transient API failures are retried up to MaxRetries times.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "calling Gemini API",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		response, transient, err := g.callOnce(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * jitter, jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single API call and classifies the outcome. The
// transient flag reports whether a failure is worth retrying.
func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (result *responseSchema, transient bool, err error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text.String()), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, false, nil
}

// parseResponse converts the structured API response into domain questions.
// If any question fails validation the whole batch is rejected.
func (g *GeminiGenerator) parseResponse(
	ctx context.Context,
	response *responseSchema,
	userID uuid.UUID,
) ([]*domain.Question, error) {
	if response == nil {
		return nil, fmt.Errorf("%w: response is nil", generation.ErrInvalidResponse)
	}

	if len(response.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in response", generation.ErrInvalidResponse)
	}

	g.logger.InfoContext(ctx, "parsing Gemini API response",
		"question_count", len(response.Questions),
		"user_id", userID.String())

	questions := make([]*domain.Question, 0, len(response.Questions))
	for i, schema := range response.Questions {
		label := domain.AnswerLabel(strings.ToUpper(strings.TrimSpace(schema.Correct)))
		if !label.IsValid() {
			return nil, fmt.Errorf("%w: question %d has invalid correct answer %q",
				generation.ErrInvalidResponse, i, schema.Correct)
		}

		question, err := domain.NewQuestion(
			userID,
			schema.Question,
			schema.AnswerA,
			schema.AnswerB,
			schema.AnswerC,
			schema.AnswerD,
			label,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d rejected: %v",
				generation.ErrInvalidResponse, i, err)
		}

		questions = append(questions, question)
	}

	g.logger.InfoContext(ctx, "parsed API response",
		"created_questions", len(questions))

	return questions, nil
}
