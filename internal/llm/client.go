package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// analysisTemperature keeps review output consistent across calls
const analysisTemperature = 0.3

// Request is one analysis submission: the text under review, a
// description of its surrounding context, and the review instructions.
type Request struct {
	Content      string
	Context      string
	Instructions string
	Tier         ModelTier
}

// Client is the analysis gateway contract. Analyze returns the raw
// reply text; interpretation (structured or heuristic) is the caller's
// concern via ParseAnalysis.
type Client interface {
	// Analyze submits one analysis request and returns the raw reply
	Analyze(ctx context.Context, req Request) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new gateway client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &GatewayError{Message: "API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &GatewayError{Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Analyze submits the request and returns the raw reply text
func (c *GeminiClient) Analyze(ctx context.Context, req Request) (string, error) {
	tier := req.Tier
	if tier == "" {
		tier = TierStandard
	}
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &GatewayError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(analysisTemperature)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return "", &GatewayError{Message: "failed to generate content", Cause: err}
	}

	return extractTextFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// buildPrompt assembles instructions, context, and content into the
// single prompt the review calls use
func buildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(req.Instructions)
	if req.Context != "" {
		sb.WriteString("\n\n")
		sb.WriteString(req.Context)
	}
	if req.Content != "" {
		sb.WriteString("\n\nText under review:\n")
		sb.WriteString(req.Content)
	}
	return sb.String()
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &GatewayError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &GatewayError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &GatewayError{Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
