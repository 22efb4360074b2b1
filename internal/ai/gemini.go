package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini implements Generator on the Gemini API.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini-backed generator authenticated with apiKey.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	var conf *genai.GenerateContentConfig
	if req.Schema != nil {
		conf = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   req.Schema,
		}
	}
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, []*genai.Content{userContent(req.Prompt)}, conf)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (g *Gemini) Converse(ctx context.Context, req ChatRequest) (string, error) {
	history := make([]*genai.Content, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, &genai.Content{
			Role:  t.Role,
			Parts: []*genai.Part{{Text: t.Text}},
		})
	}

	var conf *genai.GenerateContentConfig
	if req.System != "" {
		conf = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		}
	}

	chat, err := g.client.Chats.Create(ctx, req.Model, conf, history)
	if err != nil {
		return "", fmt.Errorf("creating chat: %w", err)
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Message})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func userContent(text string) *genai.Content {
	return &genai.Content{Role: RoleUser, Parts: []*genai.Part{{Text: text}}}
}

// Offline is the Generator used when no API key is configured; every call
// fails with ErrNotConfigured so callers degrade to their fallbacks.
type Offline struct{}

func (Offline) Generate(context.Context, Request) (string, error)     { return "", ErrNotConfigured }
func (Offline) Converse(context.Context, ChatRequest) (string, error) { return "", ErrNotConfigured }
