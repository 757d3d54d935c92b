package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/liliang-cn/buildsense/internal/config"
	"github.com/liliang-cn/buildsense/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-3-pro-preview"

// Generator is the part of the Gemini models API the client needs.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client sends analysis and advisory requests to Gemini
type Client struct {
	gen    Generator
	model  string
	logger *zap.Logger
}

// NewGeminiClient creates a client backed by the Gemini API
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return New(genaiClient.Models, cfg.Model, logger), nil
}

// New creates a client over any Generator
func New(gen Generator, model string, logger *zap.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{gen: gen, model: model, logger: logger}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// AnalysisContents builds the user turn of an analysis request.
// PDFs travel as inline binary data, everything else is inlined as text.
func AnalysisContents(content []byte, fileName, mimeType string) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromText(TaskInstruction(fileName)),
	}

	if mimeType == domain.MimeTypePDF {
		parts = append(parts, genai.NewPartFromBytes(content, domain.MimeTypePDF))
	} else {
		parts = append(parts, genai.NewPartFromText(DataStreamMarker+string(content)))
	}

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// AnalysisConfig declares the system instruction and response schema
func AnalysisConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ResponseSchema(),
	}
}

// Analyze runs a 6-loop analysis over a document
func (c *Client) Analyze(ctx context.Context, content []byte, fileName, mimeType string) (*domain.DetailedAnalysis, error) {
	start := time.Now()
	resp, err := c.gen.GenerateContent(ctx, c.model, AnalysisContents(content, fileName, mimeType), AnalysisConfig())
	if err != nil {
		return nil, fmt.Errorf("gemini analysis: %w", err)
	}

	c.logger.Debug("analysis completed",
		zap.String("model", c.model),
		zap.String("file", fileName),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp == nil {
		return nil, fmt.Errorf("gemini analysis: empty response")
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("gemini analysis: empty response")
	}

	var analysis domain.DetailedAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &analysis, nil
}

// Respond answers one chat message in a fresh session.
// history is accepted but not replayed: only the instruction and message are sent.
func (c *Client) Respond(ctx context.Context, message string, history []domain.HistoryEntry) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}
	contents := []*genai.Content{genai.NewContentFromText(message, genai.RoleUser)}

	resp, err := c.gen.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}

	c.logger.Debug("chat completed",
		zap.String("model", c.model),
		zap.Int("history_len", len(history)),
	)

	if resp == nil {
		return domain.NullResponseMarker, nil
	}
	text := resp.Text()
	if text == "" {
		return domain.NullResponseMarker, nil
	}
	return text, nil
}
