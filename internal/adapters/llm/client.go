package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

type GeminiClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiClient creates an LLMClient backed by Vertex AI (Gemini).
func NewGeminiClient(ctx context.Context, projectID, location, modelName string, temperature float64) (*GeminiClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("projectID and location are required for the Gemini client")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		modelName:   modelName,
		temperature: float32(temperature),
	}, nil
}

// Complete implements domain.LLMClient.
func (g *GeminiClient) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	history []domain.Turn,
) (string, error) {
	var contents []*genai.Content
	for _, t := range history {
		var role genai.Role = genai.RoleUser
		if t.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(userPrompt, genai.RoleUser))

	temp := g.temperature
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   int32(8192),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("model returned empty text")
	}
	return text, nil
}

func (g *GeminiClient) ModelName() string {
	return g.modelName
}
