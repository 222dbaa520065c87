package dailyreport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/dailyreport/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/dailyreport/pkg/errors"
	"github.com/yanqian/dailyreport/pkg/metrics"
)

// GeneratorConfig configures the report completion request.
type GeneratorConfig struct {
	Model        string
	MaxTokens    int
	Temperature  float32
	SystemPrompt string
}

// Generator turns raw events into a Markdown report via the language model.
type Generator struct {
	cfg     GeneratorConfig
	client  ChatClient
	counter TokenCounter
	metrics *metrics.JobMetrics
	logger  *slog.Logger
}

// NewGenerator wires the report generator. A nil client means no API key was
// configured; every Generate call then yields an error report.
func NewGenerator(cfg GeneratorConfig, client ChatClient, counter TokenCounter, m *metrics.JobMetrics, logger *slog.Logger) *Generator {
	return &Generator{
		cfg:     cfg,
		client:  client,
		counter: counter,
		metrics: m,
		logger:  logger.With("component", "dailyreport.generator"),
	}
}

// Generate always returns report content. On failure the content is a
// human-readable error message and the Result records the cause.
func (g *Generator) Generate(ctx context.Context, events []EventRecord) Result[string] {
	content, usage, err := g.generate(ctx, events)
	if err != nil {
		g.logger.Error("error while creating report", "error", err)
		return failed(fmt.Sprintf("There was an error: %v", err), err)
	}
	g.metrics.AddTokens(usage)
	g.logger.Info("report created successfully", "prompt_tokens", usage.PromptTokens, "completion_tokens", usage.CompletionTokens)
	return succeeded(content)
}

func (g *Generator) generate(ctx context.Context, events []EventRecord) (string, metrics.TokenUsage, error) {
	if g.client == nil {
		return "", metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "API-key missing!", nil)
	}

	payload, err := encodeEvents(events)
	if err != nil {
		return "", metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "encode events", err)
	}
	userPrompt := "Analysera och skapa rapport på följande data: " + payload
	if g.counter != nil {
		g.logger.Debug("prompt token estimate", "tokens", g.counter.Count(g.cfg.SystemPrompt)+g.counter.Count(userPrompt))
	}

	g.logger.Info("sending the request to the language model", "model", g.cfg.Model, "events", len(events))
	resp, err := g.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: g.cfg.SystemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt returned no choices", nil)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, fmt.Sprintf("chatgpt returned empty content (finish_reason=%q)", resp.Choices[0].FinishReason), nil)
	}

	return content, metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// encodeEvents renders events as indented JSON with non-ASCII and HTML kept verbatim.
func encodeEvents(events []EventRecord) (string, error) {
	if events == nil {
		events = []EventRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
