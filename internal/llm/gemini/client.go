// Package gemini implements llm.Client using the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/teijeiro7/fitmycv/internal/llm"
)

const defaultModel = "gemini-2.5-flash"

type Client struct {
	client    *genai.Client
	modelName string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Client{client: client, modelName: model}, nil
}

func (c *Client) AdaptResume(ctx context.Context, input llm.AdaptInput) (llm.AdaptResult, error) {
	raw, err := c.generate(ctx, llm.AdaptSystemPrompt, llm.BuildAdaptPrompt(input), 0.7)
	if err != nil {
		return llm.AdaptResult{}, err
	}
	result, err := llm.DecodeAdaptResult([]byte(raw))
	if err != nil {
		return llm.AdaptResult{}, fmt.Errorf("invalid JSON from Gemini: %w", err)
	}
	return result, nil
}

func (c *Client) ExtractJobDetails(ctx context.Context, jobDescription, jobURL string) (llm.JobDetails, error) {
	raw, err := c.generate(ctx, llm.ExtractSystemPrompt, llm.BuildExtractPrompt(jobDescription), 0.3)
	if err != nil {
		return llm.JobDetails{}, err
	}
	details, err := llm.DecodeJobDetails([]byte(raw))
	if err != nil {
		return llm.JobDetails{}, fmt.Errorf("invalid JSON from Gemini: %w", err)
	}
	return details, nil
}

func (c *Client) generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(userPrompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

var _ llm.Client = (*Client)(nil)
