// Package ai drafts blog content with Google's Gemini models.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not configured")
	ErrEmptyResponse = errors.New("model returned no content")
)

// DraftRequest describes the post to draft
type DraftRequest struct {
	Topic    string
	Tone     string
	Keywords []string
}

// Generator wraps a Gemini client bound to a single model
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator opens a Gemini client. Close it on shutdown.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

func (g *Generator) Close() error {
	return g.client.Close()
}

// Draft asks the model for a markdown blog post
func (g *Generator) Draft(ctx context.Context, req DraftRequest) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(req)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return ResponseText(resp)
}

// BuildPrompt renders the drafting instructions for a request
func BuildPrompt(req DraftRequest) string {
	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		tone = "professional"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a blog post for a Malaysian digital agency about %q.\n", strings.TrimSpace(req.Topic))
	fmt.Fprintf(&b, "Use a %s tone and format the post in Markdown with a title and short sections.\n", tone)

	var keywords []string
	for _, k := range req.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "Work in these keywords naturally: %s.\n", strings.Join(keywords, ", "))
	}
	b.WriteString("Keep it under 800 words.")
	return b.String()
}

// ResponseText joins the text parts of the first candidate
func ResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
