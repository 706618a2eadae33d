// Package insights turns dashboard aggregates into an executive narrative
// using the Gemini API.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/config"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

// ContentGenerator abstracts the model call so the generator can be tested
// without hitting the Gemini API.
type ContentGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// Generator produces narrative summaries for dashboard snapshots
type Generator struct {
	client  ContentGenerator
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGenerator creates a narrative generator backed by the Gemini API
func NewGenerator(ctx context.Context, cfg config.InsightsConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("insights API key is not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Generator{
		client:  &geminiClient{client: client},
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.With(slog.String("component", "insights")),
	}, nil
}

// NewGeneratorWithClient creates a generator with a custom content backend
func NewGeneratorWithClient(client ContentGenerator, model string, timeout time.Duration, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "insights")),
	}
}

// Summarize generates an executive narrative for the given snapshot.
// from and to are the display form of the active date filter and may be empty.
func (g *Generator) Summarize(ctx context.Context, stats *domain.DashboardStats, from, to string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(stats, from, to)

	start := time.Now()
	text, err := g.client.GenerateText(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("model returned an empty narrative")
	}

	g.logger.InfoContext(ctx, "narrative generated",
		slog.String("model", g.model),
		slog.Duration("duration", time.Since(start)),
		slog.Int("length", len(text)),
	)
	return text, nil
}

// geminiClient adapts the genai SDK to the ContentGenerator interface
type geminiClient struct {
	client *genai.Client
}

func (c *geminiClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
