package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/yigit/mindcare/internal/app/models"
	"google.golang.org/api/option"
)

// StaticReply is returned when no AI provider is configured or the provider fails
const StaticReply = "This is a mock AI response. In production, this would integrate with an AI service."

// DefaultSystemPrompt frames the assistant when none is configured
const DefaultSystemPrompt = "You are a supportive assistant for university students. " +
	"Respond with empathy, keep answers short, and encourage reaching out to campus counselling services. " +
	"Never give medical diagnoses."

// Prompt is what the assistant replies to
type Prompt struct {
	UserID    string
	Message   string
	RiskLevel models.RiskLevel
}

// Responder generates the assistant reply for a chat message
type Responder interface {
	Reply(ctx context.Context, prompt Prompt) (string, error)
}

// StaticResponder always answers with the same text
type StaticResponder struct {
	Text string
}

// Reply implements Responder
func (r StaticResponder) Reply(context.Context, Prompt) (string, error) {
	if r.Text == "" {
		return StaticReply, nil
	}
	return r.Text, nil
}

// GeminiResponder asks a Gemini model for the reply
type GeminiResponder struct {
	client       *genai.Client
	modelName    string
	systemPrompt string
}

// NewGeminiResponder creates a Gemini client
func NewGeminiResponder(ctx context.Context, apiKey, modelName, systemPrompt string) (*GeminiResponder, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &GeminiResponder{client: cl, modelName: modelName, systemPrompt: systemPrompt}, nil
}

// Close releases the client
func (g *GeminiResponder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Reply implements Responder
func (g *GeminiResponder) Reply(ctx context.Context, prompt Prompt) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction(g.systemPrompt, prompt.RiskLevel))},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt.Message))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("gemini returned an empty reply")
	}
	return b.String(), nil
}

func systemInstruction(base string, level models.RiskLevel) string {
	if !level.Elevated() {
		return base
	}
	return base + " The student's message shows signs of " + string(level) +
		" distress: acknowledge their feelings and point them to immediate support options."
}
