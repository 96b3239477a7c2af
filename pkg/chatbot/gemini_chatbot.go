package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiChatParts struct {
	Text string `json:"text"`
}

type GeminiChatContent struct {
	Parts []*GeminiChatParts `json:"parts"`
	Role  string             `json:"role,omitempty"`
}

type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type GeminiChatRequest struct {
	SystemInstruction *GeminiChatContent     `json:"systemInstruction,omitempty"`
	Contents          []*GeminiChatContent   `json:"contents"`
	GenerationConfig  GeminiGenerationConfig `json:"generationConfig"`
}

// IChatbot is the inference backend seen by the chat relay. GenerateReply
// returns the raw response body; normalization into a reply string is the
// caller's concern (ParseReply).
type IChatbot interface {
	GenerateReply(ctx context.Context, prompt string) (json.RawMessage, error)
	Model() string
}

type GeminiChatbot struct {
	apiKey            string
	model             string
	baseURL           string
	systemInstruction string
	httpClient        *http.Client
}

func NewGeminiChatbot(apiKey, model, systemInstruction string) *GeminiChatbot {
	return &GeminiChatbot{
		apiKey:            apiKey,
		model:             model,
		baseURL:           defaultBaseURL,
		systemInstruction: systemInstruction,
		httpClient:        &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func (c *GeminiChatbot) WithBaseURL(baseURL string) *GeminiChatbot {
	c.baseURL = baseURL
	return c
}

func (c *GeminiChatbot) Model() string {
	return c.model
}

func (c *GeminiChatbot) GenerateReply(ctx context.Context, prompt string) (json.RawMessage, error) {
	payload := GeminiChatRequest{
		SystemInstruction: &GeminiChatContent{
			Parts: []*GeminiChatParts{{Text: c.systemInstruction}},
		},
		Contents: []*GeminiChatContent{
			{
				Parts: []*GeminiChatParts{{Text: prompt}},
				Role:  "user",
			},
		},
		// Held constant across all calls; the persona is policy, not a knob.
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     0.7,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	return resBody, nil
}
