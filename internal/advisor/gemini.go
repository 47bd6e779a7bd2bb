package advisor

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/roach88/primecart/internal/domain"
)

// DefaultModel is the Gemini model used when Settings.Model is empty.
const DefaultModel = "gemini-3-flash-preview"

const recommendPrompt = `You are a high-end fashion stylist assistant for 'PrimeCart'.
I am looking at a product called %q.
Description: %s.
Category: %s.

Please provide a short, sophisticated paragraph (max 80 words) advising on:
1. What occasion fits this item best.
2. One specific item (generic type) that pairs perfectly with it.

Tone: Luxury, helpful, elegant.`

const insightPrompt = `Analyze this product catalog for a luxury e-commerce store: %s.
Suggest 3 trending keywords or categories we should focus on adding next to increase revenue.
Keep it brief and bulleted.`

// generator is the part of *genai.Models the advisor uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini asks the Gemini API for advice. Errors and empty replies are
// returned as they are; wrap it with WithFallback for display text.
type Gemini struct {
	models generator
	model  string
}

// NewGemini creates a client for the Gemini API. No request is made until
// advice is asked for.
func NewGemini(ctx context.Context, s Settings) (*Gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:  s.Key,
		Backend: genai.BackendGeminiAPI,
	}
	if s.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGemini(client.Models, s.Model), nil
}

func newGemini(models generator, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{models: models, model: model}
}

func (g *Gemini) Recommend(ctx context.Context, p domain.Product) (string, error) {
	return g.generate(ctx, fmt.Sprintf(recommendPrompt, p.Name, p.Description, p.Category))
}

func (g *Gemini) Insight(ctx context.Context, catalog []domain.Product) (string, error) {
	if len(catalog) == 0 {
		return MsgNoProducts, nil
	}
	names := make([]string, len(catalog))
	for i, p := range catalog {
		names[i] = p.Name
	}
	return g.generate(ctx, fmt.Sprintf(insightPrompt, strings.Join(names, ", ")))
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.model, err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
