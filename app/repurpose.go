// Package app forwards user content to an OpenAI-compatible generation
// backend and normalizes the reply into per-channel outputs.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/Mizuri0x/contentblast/app/config"
	"github.com/Mizuri0x/contentblast/app/models"
)

// Content length bounds in characters, enforced at the HTTP layer.
const (
	MinContentLength = 50
	MaxContentLength = 10000
)

// Token heuristics for the local cost estimate.
const (
	promptOverheadTokens = 500
	assumedOutputTokens  = 1500
)

const repurposeSystemPrompt = `You are a social media content expert. Your task is to repurpose content into multiple formats.

Rules:
- Keep the core message but adapt tone for each platform
- Twitter/X: Short, punchy, use hooks, max 280 chars each
- LinkedIn: Professional, insightful, storytelling
- Instagram: Casual, engaging, emoji-friendly
- Email: Personal, value-focused, clear CTA
- TikTok: Trendy, hook-first, conversational

IMPORTANT: Respond ONLY with valid JSON. No markdown, no code blocks, no explanations.`

// Repurposer is the stateless gateway to the generation backend. The HTTP
// client is built on first use so a missing credential only fails
// repurposing, not startup.
type Repurposer struct {
	cfg config.OpenAIConfig

	once    sync.Once
	client  *http.Client
	initErr error
}

// NewRepurposer creates a gateway from explicit configuration.
func NewRepurposer(cfg config.OpenAIConfig) *Repurposer {
	return &Repurposer{cfg: cfg}
}

func (r *Repurposer) getClient() (*http.Client, error) {
	r.once.Do(func() {
		if r.cfg.APIKey == "" {
			r.initErr = ConfigError{Option: "OPENAI_API_KEY"}
			return
		}
		// No client timeout; the per-request context carries the deadline.
		r.client = &http.Client{}
	})
	if r.initErr != nil {
		return nil, r.initErr
	}
	return r.client, nil
}

func (r *Repurposer) baseURL() string {
	if r.cfg.BaseURL != "" {
		return strings.TrimRight(r.cfg.BaseURL, "/")
	}
	return "https://api.groq.com/openai/v1"
}

func (r *Repurposer) model() string {
	if r.cfg.Model != "" {
		return r.cfg.Model
	}
	return "llama-3.3-70b-versatile"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type backendError struct {
	Status int
	Body   string
}

func (e backendError) Error() string { return fmt.Sprintf("backend http %d: %s", e.Status, e.Body) }

// Repurpose sends content to the backend and parses the structured reply.
// It returns the result and the token count the backend reported (0 when
// unavailable).
func (r *Repurposer) Repurpose(ctx context.Context, content, contentType string) (models.RepurposeResult, int, error) {
	client, err := r.getClient()
	if err != nil {
		return models.RepurposeResult{}, 0, err
	}

	if contentType == "" {
		contentType = "article"
	}

	body, err := json.Marshal(chatRequest{
		Model: r.model(),
		Messages: []chatMessage{
			{Role: "system", Content: repurposeSystemPrompt},
			{Role: "user", Content: buildUserPrompt(content, contentType)},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return models.RepurposeResult{}, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL()+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return models.RepurposeResult{}, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.RepurposeResult{}, 0, ErrBackendTimeout
		}
		return models.RepurposeResult{}, 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var msg struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&msg)
		return models.RepurposeResult{}, 0, backendError{Status: res.StatusCode, Body: msg.Error.Message}
	}

	var cr chatResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return models.RepurposeResult{}, 0, MalformedResponseError{Err: err}
	}
	if len(cr.Choices) == 0 {
		return models.RepurposeResult{}, 0, MalformedResponseError{Err: errors.New("no choices in backend reply")}
	}

	raw := strings.TrimSpace(cr.Choices[0].Message.Content)
	var result models.RepurposeResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return models.RepurposeResult{}, 0, MalformedResponseError{Raw: raw, Err: err}
	}

	tokens := 0
	if cr.Usage != nil {
		tokens = cr.Usage.TotalTokens
	}
	return result, tokens, nil
}

// EstimateCost approximates token use for display only: content length / 4
// plus fixed prompt overhead plus an assumed output budget. No network call,
// never used for billing.
func (r *Repurposer) EstimateCost(content string) models.CostEstimate {
	inputTokens := len(content)/4 + promptOverheadTokens
	return models.CostEstimate{
		EstimatedTokens:  inputTokens + assumedOutputTokens,
		EstimatedCostUSD: 0.00,
	}
}

func buildUserPrompt(content, contentType string) string {
	return fmt.Sprintf(`Repurpose this %s into social media content:

---
%s
---

Respond with this exact JSON structure (no markdown!):
{
    "twitter_threads": ["tweet1", "tweet2", "tweet3", "tweet4", "tweet5"],
    "linkedin_post": "full linkedin post here",
    "instagram_captions": ["caption1", "caption2", "caption3"],
    "email_newsletter": {
        "subject": "email subject",
        "body": "email body"
    },
    "tiktok_scripts": ["script1", "script2"],
    "youtube_description": "youtube description",
    "key_hashtags": ["hashtag1", "hashtag2", "hashtag3", "hashtag4", "hashtag5"]
}`, contentType, content)
}

// stripFences removes a wrapping markdown code fence and an optional leading
// language tag from a model reply. Models sometimes fence their output even
// when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
			lines = lines[1 : len(lines)-1]
		} else {
			lines = lines[1:]
		}
		s = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	if strings.HasPrefix(s, "json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "json"))
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
